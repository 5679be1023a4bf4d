package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/trackteam/action-tracker/errors"
	authdto "github.com/trackteam/action-tracker/internal/adapter/dto/auth"
	"github.com/trackteam/action-tracker/internal/domain/entities"
	"github.com/trackteam/action-tracker/internal/infrastructure/http/middleware"
	"github.com/trackteam/action-tracker/internal/usecase/auth"
)

// Auth handles authentication HTTP requests
type Auth struct {
	authService auth.Service
	logger      *zap.Logger
}

// NewAuth creates a new auth handler
func NewAuth(authService auth.Service, logger *zap.Logger) *Auth {
	return &Auth{
		authService: authService,
		logger:      logger,
	}
}

// Register creates an account and returns tokens
// POST /v1/auth/register
func (h *Auth) Register(c echo.Context) error {
	ctx := c.Request().Context()

	var req authdto.RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	role := entities.UserRole(req.Role)
	if req.Role == "" {
		role = entities.RoleOther
	}

	user, tokens, err := h.authService.Register(ctx, req.Email, req.Password, req.Name, role)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleCreated(h.logger, c, authdto.AuthResponse{
		Token:        tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		User:         user.ToPublic(),
	})
}

// Login verifies credentials and returns tokens
// POST /v1/auth/login
func (h *Auth) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req authdto.LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	user, tokens, err := h.authService.Login(ctx, req.Email, req.Password)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, authdto.AuthResponse{
		Token:        tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		User:         user.ToPublic(),
	})
}

// Me returns the authenticated user
// GET /v1/auth/me
func (h *Auth) Me(c echo.Context) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return HandleError(h.logger, c, errors.ErrUnauthenticated())
	}
	return HandleSuccess(h.logger, c, user.ToPublic())
}
