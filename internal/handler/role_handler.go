package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/myidentityapi/backend-go/internal/database/repository"
	"github.com/myidentityapi/backend-go/internal/database/service"
)

// RoleHandler handles HTTP requests for role management
type RoleHandler struct {
	service service.RoleService
	logger  *slog.Logger
}

// NewRoleHandler creates a new role handler
func NewRoleHandler(service service.RoleService, logger *slog.Logger) *RoleHandler {
	return &RoleHandler{
		service: service,
		logger:  logger,
	}
}

type RoleRequest struct {
	Name        string   `json:"name" binding:"required,min=2,max=50"`
	Permissions []string `json:"permissions"`
}

// Create adds a new role
func (h *RoleHandler) Create(c *gin.Context) {
	var req RoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": []string{"Role name (2-50 chars) is required"}})
		return
	}

	role, err := h.service.Create(req.Name, req.Permissions)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, role)
}

// GetByID returns a single role
func (h *RoleHandler) GetByID(c *gin.Context) {
	id, ok := parseRoleIDParam(c)
	if !ok {
		return
	}

	role, err := h.service.GetByID(id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, role)
}

// List returns all roles
func (h *RoleHandler) List(c *gin.Context) {
	roles, err := h.service.List()
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, roles)
}

// Update modifies a role
func (h *RoleHandler) Update(c *gin.Context) {
	id, ok := parseRoleIDParam(c)
	if !ok {
		return
	}

	var req RoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": []string{"Role name (2-50 chars) is required"}})
		return
	}

	role, err := h.service.Update(id, req.Name, req.Permissions)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, role)
}

// Delete removes a role
func (h *RoleHandler) Delete(c *gin.Context) {
	id, ok := parseRoleIDParam(c)
	if !ok {
		return
	}

	if err := h.service.Delete(id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// AssignUser adds a user to a role
func (h *RoleHandler) AssignUser(c *gin.Context) {
	roleID, userID, ok := parseRoleUserParams(c)
	if !ok {
		return
	}

	if err := h.service.AssignUser(roleID, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// UnassignUser removes a user from a role
func (h *RoleHandler) UnassignUser(c *gin.Context) {
	roleID, userID, ok := parseRoleUserParams(c)
	if !ok {
		return
	}

	if err := h.service.UnassignUser(roleID, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *RoleHandler) handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrRoleNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Role not found"})
	case errors.Is(err, repository.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	case errors.Is(err, service.ErrRoleAlreadyExists):
		c.JSON(http.StatusBadRequest, gin.H{"errors": []string{err.Error()}})
	default:
		h.logger.Error("❌ [Handler] Internal server error", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// parseRoleIDParam extracts the :roleId path parameter, writing a 400 on
// failure. Role routes use :roleId throughout so the CRUD paths and the
// /:roleId/users/:userId paths can share one route group.
func parseRoleIDParam(c *gin.Context) (uint, bool) {
	roleID, err := strconv.ParseUint(c.Param("roleId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": []string{"Invalid role id"}})
		return 0, false
	}
	return uint(roleID), true
}

func parseRoleUserParams(c *gin.Context) (uint, uint, bool) {
	roleID, ok := parseRoleIDParam(c)
	if !ok {
		return 0, 0, false
	}
	userID, err := strconv.ParseUint(c.Param("userId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": []string{"Invalid user id"}})
		return 0, 0, false
	}
	return roleID, uint(userID), true
}
