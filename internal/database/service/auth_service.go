package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/myidentityapi/backend-go/internal/database/models"
	"github.com/myidentityapi/backend-go/internal/database/repository"
)

// AuthService defines the interface for authentication business logic
type AuthService interface {
	Register(username, email, firstName, lastName, password string) (*models.User, *TokenPair, error)
	Login(username, password string) (*models.User, *TokenPair, error)
	Refresh(refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, userID uint, rawAccessToken string) error
	// VerifyAccessToken is the revocation gate: signature and expiry checks
	// via TokenService, then the denylist, then user existence.
	VerifyAccessToken(ctx context.Context, rawToken string) (*AccessClaims, error)
}

// TokenPair represents a freshly issued access/refresh token pair
type TokenPair struct {
	Token        string
	RefreshToken string
	ExpiresAt    time.Time
}

// RevocationCache is the optional fast path in front of the revoked-token
// store. A nil cache means every gate check goes to the store.
type RevocationCache interface {
	MarkRevoked(ctx context.Context, token string, ttl time.Duration) error
	MarkValid(ctx context.Context, token string) error
	Lookup(ctx context.Context, token string) (revoked bool, found bool, err error)
}

type authService struct {
	userRepo     repository.UserRepository
	roleRepo     repository.RoleRepository
	revokedRepo  repository.RevokedTokenRepository
	tokens       TokenService
	refreshSvc   RefreshTokenService
	revokedCache RevocationCache
	logger       *slog.Logger
}

// NewAuthService creates a new authentication service instance
func NewAuthService(
	userRepo repository.UserRepository,
	roleRepo repository.RoleRepository,
	revokedRepo repository.RevokedTokenRepository,
	tokens TokenService,
	refreshSvc RefreshTokenService,
	revokedCache RevocationCache,
	logger *slog.Logger,
) AuthService {
	return &authService{
		userRepo:     userRepo,
		roleRepo:     roleRepo,
		revokedRepo:  revokedRepo,
		tokens:       tokens,
		refreshSvc:   refreshSvc,
		revokedCache: revokedCache,
		logger:       logger,
	}
}

func (s *authService) Register(username, email, firstName, lastName, password string) (*models.User, *TokenPair, error) {
	s.logger.Info("📝 [AuthService] Registration attempt", "username", username, "email", email)

	// Check if username already exists
	existingUser, err := s.userRepo.FindByUsername(username)
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		s.logger.Error("❌ [AuthService] Database error checking username", "error", err)
		return nil, nil, err
	}
	if existingUser != nil {
		s.logger.Warn("⚠️ [AuthService] Username already taken", "username", username)
		return nil, nil, ErrUsernameTaken
	}

	// Check if email already exists
	existingUser, err = s.userRepo.FindByEmail(email)
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		s.logger.Error("❌ [AuthService] Database error checking email", "error", err)
		return nil, nil, err
	}
	if existingUser != nil {
		s.logger.Warn("⚠️ [AuthService] Email already registered", "email", email)
		return nil, nil, ErrEmailAlreadyExists
	}

	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("❌ [AuthService] Failed to hash password", "error", err)
		return nil, nil, err
	}

	// Create user
	user := &models.User{
		Username:  username,
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		Password:  string(hashedPassword),
	}

	if err := s.userRepo.Create(user); err != nil {
		s.logger.Error("❌ [AuthService] Failed to create user", "error", err)
		return nil, nil, err
	}

	// New accounts start with the default role
	if defaultRole, err := s.roleRepo.FindByName(models.RoleUser); err == nil {
		if err := s.userRepo.AddRole(user.ID, defaultRole); err != nil {
			s.logger.Error("❌ [AuthService] Failed to assign default role", "error", err)
			return nil, nil, err
		}
		user.Roles = append(user.Roles, *defaultRole)
	} else if !errors.Is(err, repository.ErrRoleNotFound) {
		return nil, nil, err
	}

	tokens, err := s.issueTokenPair(user)
	if err != nil {
		s.logger.Error("❌ [AuthService] Failed to generate tokens", "error", err)
		return nil, nil, err
	}

	s.logger.Info("✅ [AuthService] User registered successfully", "user_id", user.ID)
	return user, tokens, nil
}

func (s *authService) Login(username, password string) (*models.User, *TokenPair, error) {
	s.logger.Info("🔐 [AuthService] Login attempt", "username", username)

	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.logger.Warn("⚠️ [AuthService] User not found", "username", username)
			return nil, nil, ErrInvalidCredentials
		}
		s.logger.Error("❌ [AuthService] Database error", "error", err)
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		s.logger.Warn("⚠️ [AuthService] Invalid password", "username", username)
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := s.issueTokenPair(user)
	if err != nil {
		s.logger.Error("❌ [AuthService] Failed to generate tokens", "error", err)
		return nil, nil, err
	}

	s.logger.Info("✅ [AuthService] User logged in successfully", "user_id", user.ID)
	return user, tokens, nil
}

func (s *authService) Refresh(refreshToken string) (*TokenPair, error) {
	s.logger.Info("🔄 [AuthService] Token refresh attempt")

	// Single-use rotation: the presented token is consumed atomically before
	// a replacement is issued, so a second redemption of the same string
	// fails even under concurrency.
	consumed, err := s.refreshSvc.Consume(refreshToken)
	if err != nil {
		s.logger.Warn("⚠️ [AuthService] Invalid refresh token", "error", err)
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(consumed.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.logger.Warn("⚠️ [AuthService] Refresh token owner no longer exists", "user_id", consumed.UserID)
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	tokens, err := s.issueTokenPair(user)
	if err != nil {
		s.logger.Error("❌ [AuthService] Failed to generate new tokens", "error", err)
		return nil, err
	}

	s.logger.Info("✅ [AuthService] Token refreshed successfully", "user_id", user.ID)
	return tokens, nil
}

func (s *authService) Logout(ctx context.Context, userID uint, rawAccessToken string) error {
	s.logger.Info("👋 [AuthService] Logout attempt", "user_id", userID)

	// Invalidate every device's refresh token, not just the current session's
	if err := s.refreshSvc.RevokeAll(userID); err != nil {
		s.logger.Error("❌ [AuthService] Failed to revoke refresh tokens", "error", err)
		return err
	}

	// Denylist the presented access token until its signed expiry. A request
	// without a bearer token still logs out; there is nothing to denylist.
	if rawAccessToken != "" {
		revoked := &models.RevokedToken{
			Token:     rawAccessToken,
			UserID:    userID,
			RevokedAt: time.Now(),
		}
		if err := s.revokedRepo.Create(revoked); err != nil {
			s.logger.Error("❌ [AuthService] Failed to record revoked token", "error", err)
			return err
		}

		if s.revokedCache != nil {
			ttl := time.Duration(0)
			if claims, err := s.tokens.Parse(rawAccessToken); err == nil {
				ttl = time.Until(claims.ExpiresAt.Time)
			}
			// Cache failure is not fatal: the store row already rejects the token
			if err := s.revokedCache.MarkRevoked(ctx, rawAccessToken, ttl); err != nil {
				s.logger.Warn("⚠️ [AuthService] Failed to cache revocation", "error", err)
			}
		}
	}

	s.logger.Info("✅ [AuthService] User logged out successfully", "user_id", userID)
	return nil
}

func (s *authService) VerifyAccessToken(ctx context.Context, rawToken string) (*AccessClaims, error) {
	claims, err := s.tokens.Parse(rawToken)
	if err != nil {
		return nil, ErrInvalidToken
	}

	revoked, cached := false, false
	var cacheErr error
	if s.revokedCache != nil {
		revoked, cached, cacheErr = s.revokedCache.Lookup(ctx, rawToken)
	}
	if !cached {
		revoked, err = s.revokedRepo.Exists(rawToken)
		if err != nil {
			s.logger.Error("❌ [AuthService] Revocation lookup failed", "error", err)
			return nil, err
		}
		if s.revokedCache != nil && cacheErr == nil {
			if revoked {
				_ = s.revokedCache.MarkRevoked(ctx, rawToken, time.Until(claims.ExpiresAt.Time))
			} else {
				_ = s.revokedCache.MarkValid(ctx, rawToken)
			}
		}
	}
	if revoked {
		s.logger.Warn("⚠️ [AuthService] Revoked token presented", "user_id", claims.UserID)
		return nil, ErrTokenRevoked
	}

	// A signed token can outlive its account
	if _, err := s.userRepo.FindByID(claims.UserID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.logger.Warn("⚠️ [AuthService] Token references deleted user", "user_id", claims.UserID)
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	return claims, nil
}

func (s *authService) issueTokenPair(user *models.User) (*TokenPair, error) {
	accessToken, expiresAt, err := s.tokens.Generate(user)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.refreshSvc.Generate(user.ID)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		Token:        accessToken,
		RefreshToken: refreshToken.Token,
		ExpiresAt:    expiresAt,
	}, nil
}

// Service errors
var (
	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrTokenRevoked       = errors.New("token has been revoked")
)
