package repository_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/myidentityapi/backend-go/internal/database/models"
	"github.com/myidentityapi/backend-go/internal/database/repository"
)

func TestRoleRepository_CRUD(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewRoleRepository(db)

	role := &models.Role{Name: "Moderator"}
	require.NoError(t, repo.Create(role))
	require.NotZero(t, role.ID)

	found, err := repo.FindByName("Moderator")
	require.NoError(t, err)
	assert.Equal(t, role.ID, found.ID)

	found.Name = "Reviewer"
	require.NoError(t, repo.Update(found))

	byID, err := repo.FindByID(role.ID)
	require.NoError(t, err)
	assert.Equal(t, "Reviewer", byID.Name)

	roles, err := repo.List()
	require.NoError(t, err)
	assert.Len(t, roles, 1)

	require.NoError(t, repo.Delete(role.ID))
	_, err = repo.FindByID(role.ID)
	assert.ErrorIs(t, err, repository.ErrRoleNotFound)
}

func TestRoleRepository_FindByNameMissing(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewRoleRepository(db)

	_, err := repo.FindByName("NoSuchRole")
	assert.ErrorIs(t, err, repository.ErrRoleNotFound)
}
