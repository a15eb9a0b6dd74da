package repository_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/myidentityapi/backend-go/internal/database/models"
	"github.com/myidentityapi/backend-go/internal/database/repository"
)

func TestRevokedTokenRepository_Exists(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewRevokedTokenRepository(db)
	user := createTestUser(t, db, "alice")

	require.NoError(t, repo.Create(&models.RevokedToken{
		Token:     "denied-token",
		UserID:    user.ID,
		RevokedAt: time.Now(),
	}))

	exists, err := repo.Exists("denied-token")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.Exists("never-revoked")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRevokedTokenRepository_DeleteOlderThan(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewRevokedTokenRepository(db)
	user := createTestUser(t, db, "alice")

	require.NoError(t, repo.Create(&models.RevokedToken{
		Token:     "ancient",
		UserID:    user.ID,
		RevokedAt: time.Now().Add(-48 * time.Hour),
	}))
	require.NoError(t, repo.Create(&models.RevokedToken{
		Token:     "recent",
		UserID:    user.ID,
		RevokedAt: time.Now(),
	}))

	deleted, err := repo.DeleteOlderThan(time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	exists, err := repo.Exists("ancient")
	require.NoError(t, err)
	assert.False(t, exists)

	// Entries newer than the cutoff remain on the denylist
	exists, err = repo.Exists("recent")
	require.NoError(t, err)
	assert.True(t, exists)
}
