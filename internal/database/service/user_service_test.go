package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/myidentityapi/backend-go/internal/database/models"
	"github.com/myidentityapi/backend-go/internal/database/repository"
	"github.com/myidentityapi/backend-go/internal/database/service"
	"github.com/myidentityapi/backend-go/internal/testutil"
)

func newUserService(repo *testutil.MockUserRepository) service.UserService {
	return service.NewUserService(repo, testutil.TestLogger())
}

func TestUserService_List(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		pageSize   int
		wantOffset int
		wantLimit  int
	}{
		{"first page", 1, 10, 0, 10},
		{"third page", 3, 10, 20, 10},
		{"page below one clamps", 0, 10, 0, 10},
		{"oversized page size falls back", 1, 500, 0, 20},
		{"zero page size falls back", 1, 0, 0, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(testutil.MockUserRepository)
			repo.On("List", tt.wantOffset, tt.wantLimit).Return([]models.User{}, int64(0), nil)

			_, _, err := newUserService(repo).List(tt.page, tt.pageSize)
			require.NoError(t, err)
			repo.AssertExpectations(t)
		})
	}
}

func TestUserService_UpdateProfile(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		repo := new(testutil.MockUserRepository)
		repo.On("FindByID", uint(1)).Return(&models.User{
			ID:       1,
			Username: "alice",
			Email:    "alice@example.com",
		}, nil)
		repo.On("Update", mock.AnythingOfType("*models.User")).Return(nil)

		user, err := newUserService(repo).UpdateProfile(1, "alice", "alice@example.com", "Alice", "Smith")
		require.NoError(t, err)
		assert.Equal(t, "Alice", user.FirstName)
		assert.Equal(t, "Smith", user.LastName)
	})

	t.Run("rename to taken username", func(t *testing.T) {
		repo := new(testutil.MockUserRepository)
		repo.On("FindByID", uint(1)).Return(&models.User{ID: 1, Username: "alice", Email: "alice@example.com"}, nil)
		repo.On("FindByUsername", "bob").Return(&models.User{ID: 2, Username: "bob"}, nil)

		_, err := newUserService(repo).UpdateProfile(1, "bob", "alice@example.com", "Alice", "Smith")
		assert.ErrorIs(t, err, service.ErrUsernameTaken)
		repo.AssertNotCalled(t, "Update", mock.Anything)
	})

	t.Run("rename to free username", func(t *testing.T) {
		repo := new(testutil.MockUserRepository)
		repo.On("FindByID", uint(1)).Return(&models.User{ID: 1, Username: "alice", Email: "alice@example.com"}, nil)
		repo.On("FindByUsername", "newalice").Return(nil, repository.ErrUserNotFound)
		repo.On("Update", mock.AnythingOfType("*models.User")).Return(nil)

		user, err := newUserService(repo).UpdateProfile(1, "newalice", "alice@example.com", "Alice", "Smith")
		require.NoError(t, err)
		assert.Equal(t, "newalice", user.Username)
	})

	t.Run("change to taken email", func(t *testing.T) {
		repo := new(testutil.MockUserRepository)
		repo.On("FindByID", uint(1)).Return(&models.User{ID: 1, Username: "alice", Email: "alice@example.com"}, nil)
		repo.On("FindByEmail", "bob@example.com").Return(&models.User{ID: 2}, nil)

		_, err := newUserService(repo).UpdateProfile(1, "alice", "bob@example.com", "Alice", "Smith")
		assert.ErrorIs(t, err, service.ErrEmailAlreadyExists)
	})

	t.Run("user not found", func(t *testing.T) {
		repo := new(testutil.MockUserRepository)
		repo.On("FindByID", uint(9)).Return(nil, repository.ErrUserNotFound)

		_, err := newUserService(repo).UpdateProfile(9, "x", "x@example.com", "X", "Y")
		assert.ErrorIs(t, err, repository.ErrUserNotFound)
	})
}

func TestUserService_UpdatePassword(t *testing.T) {
	t.Run("success rehashes", func(t *testing.T) {
		repo := new(testutil.MockUserRepository)
		repo.On("FindByID", uint(1)).Return(&models.User{
			ID:       1,
			Password: validPasswordHash,
		}, nil)
		repo.On("Update", mock.MatchedBy(func(u *models.User) bool {
			return u.Password != validPasswordHash && u.Password != "newpassword"
		})).Return(nil)

		err := newUserService(repo).UpdatePassword(1, "password", "newpassword")
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("wrong current password", func(t *testing.T) {
		repo := new(testutil.MockUserRepository)
		repo.On("FindByID", uint(1)).Return(&models.User{
			ID:       1,
			Password: validPasswordHash,
		}, nil)

		err := newUserService(repo).UpdatePassword(1, "wrong", "newpassword")
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
		repo.AssertNotCalled(t, "Update", mock.Anything)
	})
}

func TestUserService_Delete(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		repo := new(testutil.MockUserRepository)
		repo.On("FindByID", uint(1)).Return(&models.User{ID: 1}, nil)
		repo.On("Delete", uint(1)).Return(nil)

		require.NoError(t, newUserService(repo).Delete(1))
		repo.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		repo := new(testutil.MockUserRepository)
		repo.On("FindByID", uint(9)).Return(nil, repository.ErrUserNotFound)

		err := newUserService(repo).Delete(9)
		assert.ErrorIs(t, err, repository.ErrUserNotFound)
		repo.AssertNotCalled(t, "Delete", mock.Anything)
	})
}
