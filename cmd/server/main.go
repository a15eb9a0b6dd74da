package main

import (
	"fmt"
	"os"
	"time"

	"github.com/myidentityapi/backend-go/internal/api"
	"github.com/myidentityapi/backend-go/internal/config"
	"github.com/myidentityapi/backend-go/internal/database"
	"github.com/myidentityapi/backend-go/internal/database/repository"
	"github.com/myidentityapi/backend-go/internal/database/service"
	"github.com/myidentityapi/backend-go/internal/handler"
	"github.com/myidentityapi/backend-go/internal/logger"
	"github.com/myidentityapi/backend-go/internal/middleware"
	"github.com/myidentityapi/backend-go/internal/worker"
)

func main() {
	// 1. Config
	cfg := config.LoadConfig()

	// 2. Logger
	appLogger := logger.New(cfg)

	// The token issuer must never run without a signing key
	if err := cfg.Validate(); err != nil {
		appLogger.Error("❌ Invalid configuration", "error", err)
		os.Exit(1)
	}

	appLogger.Info("🚀 [Identity] Starting identity API...",
		"environment", cfg.AppEnv,
	)

	// 3. Connect to Database
	if err := database.ConnectDatabase(cfg, appLogger); err != nil {
		appLogger.Error("❌ Failed to connect to database", "error", err)
		os.Exit(1)
	}

	db := database.GetDatabase()

	// 4. Initialize Repositories
	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	revokedTokenRepo := repository.NewRevokedTokenRepository(db)

	// 5. Initialize Revocation Cache
	var revocationCache service.RevocationCache
	redisCache, err := database.NewRevocationCache(cfg, appLogger)
	if err != nil {
		appLogger.Warn("⚠️ Failed to connect to Redis, revocation checks will hit the database", "error", err)
	} else {
		revocationCache = redisCache
		defer redisCache.Close()
	}

	// 6. Initialize Services
	tokenService := service.NewTokenService(cfg, appLogger)
	refreshTokenService := service.NewRefreshTokenService(refreshTokenRepo, cfg, appLogger)
	authService := service.NewAuthService(userRepo, roleRepo, revokedTokenRepo, tokenService, refreshTokenService, revocationCache, appLogger)
	userService := service.NewUserService(userRepo, appLogger)
	roleService := service.NewRoleService(roleRepo, userRepo, appLogger)

	// 7. Initialize Handlers & Middleware
	authHandler := handler.NewAuthHandler(authService, appLogger)
	userHandler := handler.NewUserHandler(userService, appLogger)
	roleHandler := handler.NewRoleHandler(roleService, appLogger)
	authMiddleware := middleware.NewAuthMiddleware(authService, appLogger)

	// 8. Start Token Cleanup Worker
	pool := worker.NewPool(appLogger)
	cleaner := worker.NewTokenCleaner(refreshTokenRepo, revokedTokenRepo, cfg, appLogger)
	cleaner.Start(pool)
	defer pool.Shutdown(10 * time.Second)

	// 9. Setup Router and Start HTTP Server
	r := api.SetupRouter(authHandler, userHandler, roleHandler, authMiddleware)

	addr := fmt.Sprintf(":%s", cfg.ApiServicePort)
	appLogger.Info("🌍 [Identity] HTTP Server running...", "port", addr)
	if err := r.Run(addr); err != nil {
		appLogger.Error("❌ HTTP Server failed to start", "error", err)
		os.Exit(1)
	}
}
