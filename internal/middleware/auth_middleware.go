package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/myidentityapi/backend-go/internal/database/service"
)

// Context keys set by RequireAuth
const (
	ContextUserID      = "userID"
	ContextUsername    = "username"
	ContextRoles       = "roles"
	ContextAccessToken = "accessToken"
)

// AuthMiddleware handles JWT validation and the revocation gate
type AuthMiddleware struct {
	service service.AuthService
	logger  *slog.Logger
}

// NewAuthMiddleware creates a new auth middleware instance
func NewAuthMiddleware(service service.AuthService, logger *slog.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		service: service,
		logger:  logger,
	}
}

// RequireAuth validates the bearer token, rejects revoked tokens with a
// distinct signal, and sets identity claims in the request context
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			m.logger.Warn("⚠️ [Middleware] Missing Authorization header")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			m.logger.Warn("⚠️ [Middleware] Invalid Authorization header format")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		tokenString := parts[1]

		claims, err := m.service.VerifyAccessToken(c.Request.Context(), tokenString)
		if err != nil {
			if errors.Is(err, service.ErrTokenRevoked) {
				// Revocation gets its own signal so clients force a full
				// re-login instead of silently retrying a refresh.
				m.logger.Warn("⚠️ [Middleware] Revoked token rejected")
				c.Header("Token-Expired", "true")
				c.Header("WWW-Authenticate", `Bearer error="token_revoked"`)
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Token has been revoked"})
				c.Abort()
				return
			}
			m.logger.Warn("⚠️ [Middleware] Invalid token", "error", err)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUsername, claims.Username)
		c.Set(ContextRoles, claims.Roles)
		c.Set(ContextAccessToken, tokenString)
		m.logger.Debug("✅ [Middleware] Token validated", "user_id", claims.UserID)

		c.Next()
	}
}

// RequireRoles rejects requests whose claimed role set does not intersect the
// required set. Must run after RequireAuth.
func (m *AuthMiddleware) RequireRoles(required ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get(ContextRoles)
		if !exists {
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			c.Abort()
			return
		}

		claimed, ok := value.([]string)
		if !ok {
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			c.Abort()
			return
		}

		for _, want := range required {
			for _, have := range claimed {
				if want == have {
					c.Next()
					return
				}
			}
		}

		m.logger.Warn("⚠️ [Middleware] Role check failed", "required", required, "claimed", claimed)
		c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
		c.Abort()
	}
}
