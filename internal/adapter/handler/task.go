package handler

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/trackteam/action-tracker/errors"
	meetingdto "github.com/trackteam/action-tracker/internal/adapter/dto/meeting"
	"github.com/trackteam/action-tracker/internal/domain/entities"
	"github.com/trackteam/action-tracker/internal/usecase/meeting"
)

// Task handles task mutation HTTP requests
type Task struct {
	meetingService meeting.Service
	logger         *zap.Logger
}

// NewTask creates a new task handler
func NewTask(meetingService meeting.Service, logger *zap.Logger) *Task {
	return &Task{
		meetingService: meetingService,
		logger:         logger,
	}
}

// Update patches a task's status, description, or due date
// PATCH /v1/meetings/:id/tasks/:taskId
func (h *Task) Update(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := actor(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	id, err := meetingID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req meetingdto.UpdateTaskRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	patch := meeting.TaskPatch{
		Description: req.Description,
		DueDate:     req.DueDate,
	}
	if req.Status != nil {
		status := entities.TaskStatus(*req.Status)
		patch.Status = &status
	}

	task, err := h.meetingService.UpdateTask(ctx, id, c.Param("taskId"), user, patch)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, task)
}

// AddComment appends a comment to a task
// POST /v1/meetings/:id/tasks/:taskId/comments
func (h *Task) AddComment(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := actor(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	id, err := meetingID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req meetingdto.CommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	comment, err := h.meetingService.AddComment(ctx, id, c.Param("taskId"), user, req.Text)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleCreated(h.logger, c, comment)
}

// AddChangeRequest files a pending change request against a task
// POST /v1/meetings/:id/tasks/:taskId/change-requests
func (h *Task) AddChangeRequest(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := actor(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	id, err := meetingID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req meetingdto.ChangeRequestRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	cr, err := h.meetingService.AddChangeRequest(ctx, id, c.Param("taskId"), user, req.Request)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleCreated(h.logger, c, cr)
}

// SetChangeRequestStatus approves or rejects a pending change request
// PATCH /v1/meetings/:id/tasks/:taskId/change-requests/:requestId
func (h *Task) SetChangeRequestStatus(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := actor(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	id, err := meetingID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	requestID, err := uuid.Parse(c.Param("requestId"))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid change request id"))
	}

	var req meetingdto.ChangeRequestStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	cr, err := h.meetingService.SetChangeRequestStatus(ctx, id, c.Param("taskId"), requestID, user, entities.ChangeRequestStatus(req.Status))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, cr)
}
