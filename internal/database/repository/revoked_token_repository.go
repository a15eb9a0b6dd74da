package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/myidentityapi/backend-go/internal/database/models"
)

// RevokedTokenRepository defines the interface for the access-token denylist
type RevokedTokenRepository interface {
	Create(token *models.RevokedToken) error
	Exists(token string) (bool, error)
	// DeleteOlderThan removes denylist rows whose access token's signed
	// expiry has passed; a revoked-but-expired token is rejected by the
	// signature check alone and need not be retained.
	DeleteOlderThan(cutoff time.Time) (int64, error)
}

type revokedTokenRepository struct {
	db *gorm.DB
}

// NewRevokedTokenRepository creates a new revoked token repository instance
func NewRevokedTokenRepository(db *gorm.DB) RevokedTokenRepository {
	return &revokedTokenRepository{db: db}
}

func (r *revokedTokenRepository) Create(token *models.RevokedToken) error {
	return r.db.Create(token).Error
}

func (r *revokedTokenRepository) Exists(token string) (bool, error) {
	var count int64
	err := r.db.Model(&models.RevokedToken{}).
		Where("token = ?", token).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *revokedTokenRepository) DeleteOlderThan(cutoff time.Time) (int64, error) {
	result := r.db.Where("revoked_at < ?", cutoff).
		Delete(&models.RevokedToken{})
	return result.RowsAffected, result.Error
}
