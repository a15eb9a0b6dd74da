package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/myidentityapi/backend-go/internal/database/models"
)

// RefreshTokenRepository defines the interface for refresh token operations
type RefreshTokenRepository interface {
	Create(token *models.RefreshToken) error
	FindByToken(token string) (*models.RefreshToken, error)
	// Consume atomically deletes a still-valid token row. Exactly one of any
	// number of concurrent calls for the same token string succeeds; the rest
	// get ErrTokenNotFound. This is what makes rotation single-use.
	Consume(token string) (*models.RefreshToken, error)
	DeleteAllUserTokens(userID uint) error
	DeleteExpiredTokens() (int64, error)
}

type refreshTokenRepository struct {
	db *gorm.DB
}

// NewRefreshTokenRepository creates a new refresh token repository instance
func NewRefreshTokenRepository(db *gorm.DB) RefreshTokenRepository {
	return &refreshTokenRepository{db: db}
}

func (r *refreshTokenRepository) Create(token *models.RefreshToken) error {
	return r.db.Create(token).Error
}

func (r *refreshTokenRepository) FindByToken(token string) (*models.RefreshToken, error) {
	var refreshToken models.RefreshToken
	err := r.db.Where("token = ? AND is_revoked = ?", token, false).
		First(&refreshToken).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, err
	}

	// Check if expired
	if time.Now().After(refreshToken.ExpiresAt) {
		return nil, ErrTokenExpired
	}

	return &refreshToken, nil
}

func (r *refreshTokenRepository) Consume(token string) (*models.RefreshToken, error) {
	var consumed models.RefreshToken

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("token = ?", token).First(&consumed).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTokenNotFound
			}
			return err
		}

		// Conditional delete: rows_affected == 0 means another request got
		// here first, or the token was revoked/expired in the meantime.
		result := tx.Where("token = ? AND is_revoked = ? AND expires_at > ?", token, false, time.Now()).
			Delete(&models.RefreshToken{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			if time.Now().After(consumed.ExpiresAt) {
				return ErrTokenExpired
			}
			return ErrTokenNotFound
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return &consumed, nil
}

func (r *refreshTokenRepository) DeleteAllUserTokens(userID uint) error {
	return r.db.Where("user_id = ?", userID).
		Delete(&models.RefreshToken{}).Error
}

func (r *refreshTokenRepository) DeleteExpiredTokens() (int64, error) {
	result := r.db.Where("expires_at < ?", time.Now()).
		Delete(&models.RefreshToken{})
	return result.RowsAffected, result.Error
}

// Repository errors
var (
	ErrTokenNotFound = errors.New("token not found")
	ErrTokenExpired  = errors.New("token expired")
)
