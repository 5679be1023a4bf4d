package handler

import (
	stdErrors "errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/trackteam/action-tracker/errors"
	"github.com/trackteam/action-tracker/internal/domain/entities"
	"github.com/trackteam/action-tracker/internal/domain/repositories"
	"github.com/trackteam/action-tracker/internal/usecase/meeting"
)

// User handles user lookup and per-user insight HTTP requests
type User struct {
	meetingService meeting.Service
	userRepo       repositories.UserRepository
	logger         *zap.Logger
}

// NewUser creates a new user handler
func NewUser(meetingService meeting.Service, userRepo repositories.UserRepository, logger *zap.Logger) *User {
	return &User{
		meetingService: meetingService,
		userRepo:       userRepo,
		logger:         logger,
	}
}

// MyTasks returns the actor's tasks across all meetings
// GET /v1/users/me/tasks
func (h *User) MyTasks(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := actor(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	result, err := h.meetingService.UserTasks(ctx, user.ID, user)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, result)
}

// Tasks returns another user's tasks. Self or admin only, enforced by the
// service.
// GET /v1/users/:id/tasks
func (h *User) Tasks(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := actor(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid user id"))
	}

	result, err := h.meetingService.UserTasks(ctx, userID, user)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, result)
}

// ByName looks a user up by display name
// GET /v1/users/by-name/:name
func (h *User) ByName(c echo.Context) error {
	ctx := c.Request().Context()

	found, err := h.userRepo.FindByName(ctx, c.Param("name"))
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) || stdErrors.Is(err, entities.ErrUserNotFound) {
			return HandleError(h.logger, c, errors.ErrUserNotFound())
		}
		return HandleError(h.logger, c, errors.ErrDBQueryFailed("users.find_by_name", err))
	}
	return HandleSuccess(h.logger, c, found.ToPublic())
}

// Calendar returns the actor's owned meetings and dated action items
// GET /v1/calendar
func (h *User) Calendar(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := actor(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	result, err := h.meetingService.Calendar(ctx, user)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, result)
}

// Metrics returns completion statistics over the actor's meetings
// GET /v1/metrics
func (h *User) Metrics(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := actor(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	result, err := h.meetingService.Metrics(ctx, user)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, result)
}
