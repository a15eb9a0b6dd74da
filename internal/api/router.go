package api

import (
	"github.com/gin-gonic/gin"

	"github.com/myidentityapi/backend-go/internal/database/models"
	"github.com/myidentityapi/backend-go/internal/handler"
	"github.com/myidentityapi/backend-go/internal/middleware"
)

func SetupRouter(
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	roleHandler *handler.RoleHandler,
	authMiddleware *middleware.AuthMiddleware,
) *gin.Engine {
	r := gin.Default()
	r.SetTrustedProxies(nil)

	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Account routes (public except logout)
	account := r.Group("/api/account")
	{
		account.POST("/register", authHandler.Register)
		account.POST("/login", authHandler.Login)
		account.POST("/refresh-token", authHandler.Refresh)
		account.POST("/logout", authMiddleware.RequireAuth(), authHandler.Logout)
	}

	// Profile routes (authenticated)
	user := r.Group("/api/user")
	user.Use(authMiddleware.RequireAuth())
	{
		user.GET("", userHandler.List)
		user.GET("/:id", userHandler.GetByID)
		user.PUT("/:id", userHandler.Update)
		user.PUT("/:id/update-password", userHandler.UpdatePassword)
		user.DELETE("/:id", userHandler.Delete)
	}

	// Role routes (admin only). The whole group shares the :roleId wildcard;
	// gin rejects mixed wildcard names within one prefix.
	role := r.Group("/api/role")
	role.Use(authMiddleware.RequireAuth(), authMiddleware.RequireRoles(models.RoleAdmin))
	{
		role.GET("", roleHandler.List)
		role.GET("/:roleId", roleHandler.GetByID)
		role.POST("", roleHandler.Create)
		role.PUT("/:roleId", roleHandler.Update)
		role.DELETE("/:roleId", roleHandler.Delete)
		role.POST("/:roleId/users/:userId", roleHandler.AssignUser)
		role.DELETE("/:roleId/users/:userId", roleHandler.UnassignUser)
	}

	return r
}
