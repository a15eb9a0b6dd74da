package database

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/myidentityapi/backend-go/internal/config"
)

// RevocationCache keeps a short-TTL set of revoked access tokens in Redis so
// the revocation gate does not hit PostgreSQL on every authenticated request.
// The revoked_tokens table stays authoritative; a cache miss falls through to
// the store.
type RevocationCache struct {
	client *redis.Client
	logger *slog.Logger
	ttl    time.Duration
}

// NewRevocationCache creates a new Redis-backed revocation cache
func NewRevocationCache(cfg *config.Config, logger *slog.Logger) (*RevocationCache, error) {
	logger.Info("🔌 [Redis] Connecting to Redis...",
		"host", cfg.RedisHost,
		"port", cfg.RedisPort,
		"db", cfg.RedisDB,
	)

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       int(cfg.RedisDB),
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("✅ [Redis] Redis connection established")

	return &RevocationCache{
		client: client,
		logger: logger,
		ttl:    time.Duration(cfg.RevocationCacheTTL) * time.Second,
	}, nil
}

// NewRevocationCacheForTesting creates a cache with a provided redis.Client (for testing)
func NewRevocationCacheForTesting(client *redis.Client, cfg *config.Config, logger *slog.Logger) *RevocationCache {
	return &RevocationCache{
		client: client,
		logger: logger,
		ttl:    time.Duration(cfg.RevocationCacheTTL) * time.Second,
	}
}

// Close closes the Redis connection
func (r *RevocationCache) Close() error {
	return r.client.Close()
}

// revocationKey generates the Redis key for a revoked access token.
// Tokens are hashed so raw bearer strings never land in the keyspace.
func revocationKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return fmt.Sprintf("revoked:%s", hex.EncodeToString(sum[:]))
}

// MarkRevoked records an access token as revoked until its signed expiry.
// Written at logout, it overwrites any cached not-revoked entry immediately.
// A non-positive ttl falls back to the configured cache TTL.
func (r *RevocationCache) MarkRevoked(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = r.ttl
	}

	if err := r.client.Set(ctx, revocationKey(token), "1", ttl).Err(); err != nil {
		r.logger.Error("❌ [Redis] Failed to mark token revoked", "error", err)
		return err
	}

	r.logger.Debug("🚫 [Redis] Token marked revoked", "ttl", ttl)
	return nil
}

// MarkValid caches a not-revoked verdict with the short configured TTL so the
// gate skips the store on repeat requests. Logout overwrites the entry, so
// the window where a stale verdict could be served is bounded by cross-node
// clock skew, not the TTL.
func (r *RevocationCache) MarkValid(ctx context.Context, token string) error {
	if err := r.client.Set(ctx, revocationKey(token), "0", r.ttl).Err(); err != nil {
		r.logger.Warn("⚠️ [Redis] Failed to cache revocation verdict", "error", err)
		return err
	}
	return nil
}

// Lookup returns the cached verdict for the token. found is false on a cache
// miss; err is non-nil when Redis itself failed and the caller should fall
// back to the store.
func (r *RevocationCache) Lookup(ctx context.Context, token string) (revoked bool, found bool, err error) {
	value, err := r.client.Get(ctx, revocationKey(token)).Result()
	if err == redis.Nil {
		return false, false, nil
	}
	if err != nil {
		r.logger.Warn("⚠️ [Redis] Revocation lookup failed, falling back to store", "error", err)
		return false, false, err
	}
	return value == "1", true, nil
}
