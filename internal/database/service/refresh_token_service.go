package service

import (
	"crypto/rand"
	"encoding/base64"
	"log/slog"
	"time"

	"github.com/myidentityapi/backend-go/internal/config"
	"github.com/myidentityapi/backend-go/internal/database/models"
	"github.com/myidentityapi/backend-go/internal/database/repository"
)

// RefreshTokenService manages the lifecycle of long-lived opaque tokens:
// generation, validation, single-use consumption at rotation, and revocation
// of every token a user holds.
type RefreshTokenService interface {
	Generate(userID uint) (*models.RefreshToken, error)
	Validate(token string) bool
	Get(token string) (*models.RefreshToken, error)
	// Consume redeems a token exactly once. Concurrent redemptions of the
	// same token string race at the store's conditional delete; one wins.
	Consume(token string) (*models.RefreshToken, error)
	RevokeAll(userID uint) error
}

type refreshTokenService struct {
	repo   repository.RefreshTokenRepository
	expiry time.Duration
	logger *slog.Logger
}

// NewRefreshTokenService creates a new refresh token service instance
func NewRefreshTokenService(
	repo repository.RefreshTokenRepository,
	cfg *config.Config,
	logger *slog.Logger,
) RefreshTokenService {
	return &refreshTokenService{
		repo:   repo,
		expiry: time.Duration(cfg.RefreshTokenExpiryDays) * 24 * time.Hour,
		logger: logger,
	}
}

func (s *refreshTokenService) Generate(userID uint) (*models.RefreshToken, error) {
	tokenString, err := generateOpaqueToken()
	if err != nil {
		s.logger.Error("❌ [RefreshTokenService] Failed to generate random token", "error", err)
		return nil, err
	}

	refreshToken := &models.RefreshToken{
		UserID:    userID,
		Token:     tokenString,
		ExpiresAt: time.Now().Add(s.expiry),
		IsRevoked: false,
	}

	if err := s.repo.Create(refreshToken); err != nil {
		s.logger.Error("❌ [RefreshTokenService] Failed to store refresh token", "error", err)
		return nil, err
	}

	return refreshToken, nil
}

func (s *refreshTokenService) Validate(token string) bool {
	stored, err := s.repo.FindByToken(token)
	if err != nil {
		return false
	}
	return !stored.IsRevoked && stored.ExpiresAt.After(time.Now())
}

func (s *refreshTokenService) Get(token string) (*models.RefreshToken, error) {
	return s.repo.FindByToken(token)
}

func (s *refreshTokenService) Consume(token string) (*models.RefreshToken, error) {
	consumed, err := s.repo.Consume(token)
	if err != nil {
		s.logger.Warn("⚠️ [RefreshTokenService] Refresh token rejected", "error", err)
		return nil, err
	}
	return consumed, nil
}

func (s *refreshTokenService) RevokeAll(userID uint) error {
	return s.repo.DeleteAllUserTokens(userID)
}

// generateOpaqueToken returns 32 bytes of entropy as URL-safe base64 without
// padding. Uniqueness rests on the entropy; the column's unique index is the
// backstop.
func generateOpaqueToken() (string, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(tokenBytes), nil
}
