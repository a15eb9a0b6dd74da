package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/myidentityapi/backend-go/internal/database/service"
	"github.com/myidentityapi/backend-go/internal/middleware"
	"github.com/myidentityapi/backend-go/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupAuthRouter(authService *testutil.MockAuthService, roles ...string) *gin.Engine {
	m := middleware.NewAuthMiddleware(authService, testutil.TestLogger())

	r := gin.New()
	group := r.Group("/protected", m.RequireAuth())
	if len(roles) > 0 {
		group.Use(m.RequireRoles(roles...))
	}
	group.GET("", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id":  c.GetUint(middleware.ContextUserID),
			"username": c.GetString(middleware.ContextUsername),
		})
	})
	return r
}

func TestRequireAuth(t *testing.T) {
	tests := []struct {
		name       string
		authHeader string
		setupMocks func(*testutil.MockAuthService)
		wantStatus int
		wantBody   string
	}{
		{
			name:       "valid token",
			authHeader: "Bearer good-token",
			setupMocks: func(svc *testutil.MockAuthService) {
				svc.On("VerifyAccessToken", mock.Anything, "good-token").Return(&service.AccessClaims{
					UserID:   1,
					Username: "alice",
				}, nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   `"username":"alice"`,
		},
		{
			name:       "missing header",
			authHeader: "",
			setupMocks: func(svc *testutil.MockAuthService) {},
			wantStatus: http.StatusUnauthorized,
			wantBody:   "Authorization header required",
		},
		{
			name:       "malformed header",
			authHeader: "NotBearer token",
			setupMocks: func(svc *testutil.MockAuthService) {},
			wantStatus: http.StatusUnauthorized,
			wantBody:   "Invalid authorization header format",
		},
		{
			name:       "invalid token",
			authHeader: "Bearer bad-token",
			setupMocks: func(svc *testutil.MockAuthService) {
				svc.On("VerifyAccessToken", mock.Anything, "bad-token").Return(nil, service.ErrInvalidToken)
			},
			wantStatus: http.StatusUnauthorized,
			wantBody:   "Invalid or expired token",
		},
		{
			name:       "revoked token",
			authHeader: "Bearer revoked-token",
			setupMocks: func(svc *testutil.MockAuthService) {
				svc.On("VerifyAccessToken", mock.Anything, "revoked-token").Return(nil, service.ErrTokenRevoked)
			},
			wantStatus: http.StatusUnauthorized,
			wantBody:   "Token has been revoked",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authService := new(testutil.MockAuthService)
			tt.setupMocks(authService)

			r := setupAuthRouter(authService)
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}

func TestRequireAuth_RevocationHeaders(t *testing.T) {
	authService := new(testutil.MockAuthService)
	authService.On("VerifyAccessToken", mock.Anything, "revoked-token").Return(nil, service.ErrTokenRevoked)

	r := setupAuthRouter(authService)
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer revoked-token")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "true", w.Header().Get("Token-Expired"))
	assert.Equal(t, `Bearer error="token_revoked"`, w.Header().Get("WWW-Authenticate"))
}

func TestRequireRoles(t *testing.T) {
	tests := []struct {
		name       string
		claimed    []string
		required   []string
		wantStatus int
	}{
		{
			name:       "has required role",
			claimed:    []string{"User", "Admin"},
			required:   []string{"Admin"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "any of several suffices",
			claimed:    []string{"User"},
			required:   []string{"Admin", "User"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing role",
			claimed:    []string{"User"},
			required:   []string{"Admin"},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "no roles at all",
			claimed:    nil,
			required:   []string{"Admin"},
			wantStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authService := new(testutil.MockAuthService)
			authService.On("VerifyAccessToken", mock.Anything, "token").Return(&service.AccessClaims{
				UserID:   1,
				Username: "alice",
				Roles:    tt.claimed,
			}, nil)

			r := setupAuthRouter(authService, tt.required...)
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			req.Header.Set("Authorization", "Bearer token")

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusForbidden {
				assert.Contains(t, w.Body.String(), "Insufficient permissions")
			}
		})
	}
}
