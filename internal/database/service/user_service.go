package service

import (
	"errors"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/myidentityapi/backend-go/internal/database/models"
	"github.com/myidentityapi/backend-go/internal/database/repository"
)

// UserService defines the interface for profile management business logic
type UserService interface {
	GetByID(id uint) (*models.User, error)
	List(page, pageSize int) ([]models.User, int64, error)
	UpdateProfile(id uint, username, email, firstName, lastName string) (*models.User, error)
	UpdatePassword(id uint, currentPassword, newPassword string) error
	Delete(id uint) error
}

type userService struct {
	userRepo repository.UserRepository
	logger   *slog.Logger
}

// NewUserService creates a new user service instance
func NewUserService(userRepo repository.UserRepository, logger *slog.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		logger:   logger,
	}
}

func (s *userService) GetByID(id uint) (*models.User, error) {
	return s.userRepo.FindByID(id)
}

func (s *userService) List(page, pageSize int) ([]models.User, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.userRepo.List((page-1)*pageSize, pageSize)
}

func (s *userService) UpdateProfile(id uint, username, email, firstName, lastName string) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	// Reject renames that collide with another account
	if username != user.Username {
		if existing, err := s.userRepo.FindByUsername(username); err == nil && existing.ID != id {
			return nil, ErrUsernameTaken
		} else if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
			return nil, err
		}
	}
	if email != user.Email {
		if existing, err := s.userRepo.FindByEmail(email); err == nil && existing.ID != id {
			return nil, ErrEmailAlreadyExists
		} else if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
			return nil, err
		}
	}

	user.Username = username
	user.Email = email
	user.FirstName = firstName
	user.LastName = lastName

	if err := s.userRepo.Update(user); err != nil {
		s.logger.Error("❌ [UserService] Failed to update user", "user_id", id, "error", err)
		return nil, err
	}

	s.logger.Info("✅ [UserService] User updated", "user_id", id)
	return user, nil
}

func (s *userService) UpdatePassword(id uint, currentPassword, newPassword string) error {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(currentPassword)); err != nil {
		s.logger.Warn("⚠️ [UserService] Current password mismatch", "user_id", id)
		return ErrInvalidCredentials
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user.Password = string(hashed)
	if err := s.userRepo.Update(user); err != nil {
		s.logger.Error("❌ [UserService] Failed to update password", "user_id", id, "error", err)
		return err
	}

	s.logger.Info("✅ [UserService] Password updated", "user_id", id)
	return nil
}

func (s *userService) Delete(id uint) error {
	if _, err := s.userRepo.FindByID(id); err != nil {
		return err
	}

	if err := s.userRepo.Delete(id); err != nil {
		s.logger.Error("❌ [UserService] Failed to delete user", "user_id", id, "error", err)
		return err
	}

	s.logger.Info("✅ [UserService] User deleted", "user_id", id)
	return nil
}
