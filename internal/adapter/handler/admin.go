package handler

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/trackteam/action-tracker/errors"
	authdto "github.com/trackteam/action-tracker/internal/adapter/dto/auth"
	"github.com/trackteam/action-tracker/internal/domain/entities"
	"github.com/trackteam/action-tracker/internal/usecase/auth"
)

// Admin handles user administration HTTP requests. Every route is behind the
// RequireAdmin middleware.
type Admin struct {
	authService auth.Service
	logger      *zap.Logger
}

// NewAdmin creates a new admin handler
func NewAdmin(authService auth.Service, logger *zap.Logger) *Admin {
	return &Admin{
		authService: authService,
		logger:      logger,
	}
}

// ListUsers returns every user without password hashes
// GET /v1/admin/users
func (h *Admin) ListUsers(c echo.Context) error {
	ctx := c.Request().Context()

	users, err := h.authService.ListUsers(ctx)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, map[string]interface{}{
		"users": users,
		"count": len(users),
	})
}

// UpdateRole changes a user's role
// PATCH /v1/admin/users/:id/role
func (h *Admin) UpdateRole(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid user id"))
	}

	var req authdto.UpdateRoleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	user, err := h.authService.UpdateRole(ctx, userID, entities.UserRole(req.Role))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, user.ToPublic())
}

// ResetPassword sets a new password for a user
// POST /v1/admin/users/:id/password
func (h *Admin) ResetPassword(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid user id"))
	}

	var req authdto.ResetPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	user, err := h.authService.ResetPassword(ctx, userID, req.Password)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, map[string]interface{}{
		"message": "Password reset",
		"user":    user.ToPublic(),
	})
}
