package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/myidentityapi/backend-go/internal/config"
	"github.com/myidentityapi/backend-go/internal/database/repository"
)

// TokenCleaner periodically removes token rows that no longer affect any
// decision: expired refresh tokens, and denylist rows whose access token's
// signed expiry has passed (the signature check alone rejects those).
type TokenCleaner struct {
	refreshRepo repository.RefreshTokenRepository
	revokedRepo repository.RevokedTokenRepository
	// accessTokenLife is the horizon after which a revoked_tokens row is
	// guaranteed stale: revoked_at + max access token lifetime.
	accessTokenLife time.Duration
	interval        time.Duration
	logger          *slog.Logger
}

// NewTokenCleaner creates a new token cleanup task
func NewTokenCleaner(
	refreshRepo repository.RefreshTokenRepository,
	revokedRepo repository.RevokedTokenRepository,
	cfg *config.Config,
	logger *slog.Logger,
) *TokenCleaner {
	return &TokenCleaner{
		refreshRepo:     refreshRepo,
		revokedRepo:     revokedRepo,
		accessTokenLife: time.Duration(cfg.AccessTokenExpiryMinutes) * time.Minute,
		interval:        time.Duration(cfg.TokenCleanupIntervalMins) * time.Minute,
		logger:          logger,
	}
}

// Start registers the periodic sweep on the pool
func (t *TokenCleaner) Start(pool *Pool) {
	t.logger.Info("🧹 [Cleanup] Token cleanup scheduled", "interval", t.interval)
	pool.SubmitPeriodic(t.interval, t.Sweep)
}

// Sweep runs one cleanup pass
func (t *TokenCleaner) Sweep(ctx context.Context) {
	refreshDeleted, err := t.refreshRepo.DeleteExpiredTokens()
	if err != nil {
		t.logger.Error("❌ [Cleanup] Failed to delete expired refresh tokens", "error", err)
	}

	cutoff := time.Now().Add(-t.accessTokenLife)
	revokedDeleted, err := t.revokedRepo.DeleteOlderThan(cutoff)
	if err != nil {
		t.logger.Error("❌ [Cleanup] Failed to prune revoked tokens", "error", err)
	}

	if refreshDeleted > 0 || revokedDeleted > 0 {
		t.logger.Info("🧹 [Cleanup] Token sweep completed",
			"refresh_tokens_deleted", refreshDeleted,
			"revoked_tokens_pruned", revokedDeleted,
		)
	}
}
