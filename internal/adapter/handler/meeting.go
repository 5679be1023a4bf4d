package handler

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/trackteam/action-tracker/errors"
	meetingdto "github.com/trackteam/action-tracker/internal/adapter/dto/meeting"
	"github.com/trackteam/action-tracker/internal/domain/entities"
	"github.com/trackteam/action-tracker/internal/infrastructure/http/middleware"
	"github.com/trackteam/action-tracker/internal/usecase/extraction"
	"github.com/trackteam/action-tracker/internal/usecase/meeting"
)

// Meeting handles transcript processing and meeting HTTP requests
type Meeting struct {
	extractionService extraction.Service
	meetingService    meeting.Service
	logger            *zap.Logger
}

// NewMeeting creates a new meeting handler
func NewMeeting(extractionService extraction.Service, meetingService meeting.Service, logger *zap.Logger) *Meeting {
	return &Meeting{
		extractionService: extractionService,
		meetingService:    meetingService,
		logger:            logger,
	}
}

// actor pulls the authenticated user set by the auth middleware
func actor(c echo.Context) (*entities.User, error) {
	user, ok := middleware.GetUser(c)
	if !ok {
		return nil, errors.ErrUnauthenticated()
	}
	return user, nil
}

// meetingID parses the :id path parameter
func meetingID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, errors.ErrInvalidArgument("invalid meeting id")
	}
	return id, nil
}

// Process extracts tasks from a transcript and stores the meeting
// POST /v1/meetings/process
func (h *Meeting) Process(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := actor(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req meetingdto.ProcessRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	m, err := h.extractionService.ProcessTranscript(ctx, req.Title, req.Transcript, user)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleCreated(h.logger, c, m)
}

// List returns the meetings visible to the actor
// GET /v1/meetings
func (h *Meeting) List(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := actor(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	meetings, err := h.meetingService.ListMeetings(ctx, user)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, map[string]interface{}{
		"meetings": meetings,
		"count":    len(meetings),
	})
}

// Get returns one meeting
// GET /v1/meetings/:id
func (h *Meeting) Get(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := actor(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	id, err := meetingID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	m, err := h.meetingService.GetMeeting(ctx, id, user)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, m)
}

// Delete removes a meeting
// DELETE /v1/meetings/:id
func (h *Meeting) Delete(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := actor(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	id, err := meetingID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	if err := h.meetingService.DeleteMeeting(ctx, id, user); err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, map[string]string{"message": "Meeting deleted"})
}

// Export returns a meeting in the requested format
// GET /v1/meetings/:id/export?format=full|decisions|owner&owner=<name>
func (h *Meeting) Export(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := actor(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	id, err := meetingID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	format := c.QueryParam("format")
	if format == "" {
		format = "full"
	}

	payload, err := h.meetingService.Export(ctx, id, user, format, c.QueryParam("owner"))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, payload)
}

// Share creates a read-only share link
// POST /v1/meetings/:id/share
func (h *Meeting) Share(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := actor(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	id, err := meetingID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	link, err := h.meetingService.Share(ctx, id, user)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleCreated(h.logger, c, link)
}

// Shared resolves a share token without authentication
// GET /v1/share/:token
func (h *Meeting) Shared(c echo.Context) error {
	ctx := c.Request().Context()

	m, err := h.meetingService.GetShared(ctx, c.Param("token"))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, m)
}

// Email sends a meeting summary to the given recipients
// POST /v1/meetings/:id/email
func (h *Meeting) Email(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := actor(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	id, err := meetingID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req meetingdto.EmailRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	sent, err := h.meetingService.SendEmail(ctx, id, user, req.Emails, req.Type)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, map[string]interface{}{
		"message":    "Email sent",
		"recipients": sent,
	})
}
