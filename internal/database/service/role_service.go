package service

import (
	"errors"
	"log/slog"

	"github.com/lib/pq"

	"github.com/myidentityapi/backend-go/internal/database/models"
	"github.com/myidentityapi/backend-go/internal/database/repository"
)

// RoleService defines the interface for role management business logic
type RoleService interface {
	Create(name string, permissions []string) (*models.Role, error)
	GetByID(id uint) (*models.Role, error)
	List() ([]models.Role, error)
	Update(id uint, name string, permissions []string) (*models.Role, error)
	Delete(id uint) error
	AssignUser(roleID, userID uint) error
	UnassignUser(roleID, userID uint) error
}

type roleService struct {
	roleRepo repository.RoleRepository
	userRepo repository.UserRepository
	logger   *slog.Logger
}

// NewRoleService creates a new role service instance
func NewRoleService(
	roleRepo repository.RoleRepository,
	userRepo repository.UserRepository,
	logger *slog.Logger,
) RoleService {
	return &roleService{
		roleRepo: roleRepo,
		userRepo: userRepo,
		logger:   logger,
	}
}

func (s *roleService) Create(name string, permissions []string) (*models.Role, error) {
	if _, err := s.roleRepo.FindByName(name); err == nil {
		return nil, ErrRoleAlreadyExists
	} else if !errors.Is(err, repository.ErrRoleNotFound) {
		return nil, err
	}

	role := &models.Role{
		Name:        name,
		Permissions: pq.StringArray(permissions),
	}
	if err := s.roleRepo.Create(role); err != nil {
		s.logger.Error("❌ [RoleService] Failed to create role", "name", name, "error", err)
		return nil, err
	}

	s.logger.Info("✅ [RoleService] Role created", "role_id", role.ID, "name", name)
	return role, nil
}

func (s *roleService) GetByID(id uint) (*models.Role, error) {
	return s.roleRepo.FindByID(id)
}

func (s *roleService) List() ([]models.Role, error) {
	return s.roleRepo.List()
}

func (s *roleService) Update(id uint, name string, permissions []string) (*models.Role, error) {
	role, err := s.roleRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	role.Name = name
	role.Permissions = pq.StringArray(permissions)

	if err := s.roleRepo.Update(role); err != nil {
		s.logger.Error("❌ [RoleService] Failed to update role", "role_id", id, "error", err)
		return nil, err
	}

	s.logger.Info("✅ [RoleService] Role updated", "role_id", id)
	return role, nil
}

func (s *roleService) Delete(id uint) error {
	if _, err := s.roleRepo.FindByID(id); err != nil {
		return err
	}

	if err := s.roleRepo.Delete(id); err != nil {
		s.logger.Error("❌ [RoleService] Failed to delete role", "role_id", id, "error", err)
		return err
	}

	s.logger.Info("✅ [RoleService] Role deleted", "role_id", id)
	return nil
}

func (s *roleService) AssignUser(roleID, userID uint) error {
	role, err := s.roleRepo.FindByID(roleID)
	if err != nil {
		return err
	}
	if _, err := s.userRepo.FindByID(userID); err != nil {
		return err
	}

	if err := s.userRepo.AddRole(userID, role); err != nil {
		s.logger.Error("❌ [RoleService] Failed to assign role", "role_id", roleID, "user_id", userID, "error", err)
		return err
	}

	s.logger.Info("✅ [RoleService] Role assigned", "role_id", roleID, "user_id", userID)
	return nil
}

func (s *roleService) UnassignUser(roleID, userID uint) error {
	role, err := s.roleRepo.FindByID(roleID)
	if err != nil {
		return err
	}
	if _, err := s.userRepo.FindByID(userID); err != nil {
		return err
	}

	if err := s.userRepo.RemoveRole(userID, role); err != nil {
		s.logger.Error("❌ [RoleService] Failed to unassign role", "role_id", roleID, "user_id", userID, "error", err)
		return err
	}

	s.logger.Info("✅ [RoleService] Role unassigned", "role_id", roleID, "user_id", userID)
	return nil
}

// Service errors
var (
	ErrRoleAlreadyExists = errors.New("role already exists")
)
