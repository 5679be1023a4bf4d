package meeting

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	errs "github.com/trackteam/action-tracker/errors"
	"github.com/trackteam/action-tracker/internal/domain/entities"
	"github.com/trackteam/action-tracker/internal/domain/repositories"
)

// shareTokenTTL bounds the lifetime of a read-only share link
const shareTokenTTL = 7 * 24 * time.Hour

// Mailer sends multipart meeting summaries
type Mailer interface {
	Send(to []string, subject, htmlBody, textBody string) error
	IsConfigured() bool
}

// TaskPatch holds the mutable fields of a task. Nil means leave unchanged.
type TaskPatch struct {
	Status      *entities.TaskStatus
	Description *string
	DueDate     *string
}

// ShareLink is the result of creating a read-only share token
type ShareLink struct {
	ShareURL string `json:"share_url"`
	Token    string `json:"token"`
}

// Service exposes every meeting, task, comment, and change-request operation
// behind the ownership rules in Authorize.
type Service interface {
	GetMeeting(ctx context.Context, meetingID uuid.UUID, actor *entities.User) (*entities.Meeting, error)
	ListMeetings(ctx context.Context, actor *entities.User) ([]*entities.Meeting, error)
	DeleteMeeting(ctx context.Context, meetingID uuid.UUID, actor *entities.User) error

	UpdateTask(ctx context.Context, meetingID uuid.UUID, taskID string, actor *entities.User, patch TaskPatch) (*entities.Task, error)
	AddComment(ctx context.Context, meetingID uuid.UUID, taskID string, actor *entities.User, text string) (*entities.Comment, error)
	AddChangeRequest(ctx context.Context, meetingID uuid.UUID, taskID string, actor *entities.User, text string) (*entities.ChangeRequest, error)
	SetChangeRequestStatus(ctx context.Context, meetingID uuid.UUID, taskID string, requestID uuid.UUID, actor *entities.User, status entities.ChangeRequestStatus) (*entities.ChangeRequest, error)

	Export(ctx context.Context, meetingID uuid.UUID, actor *entities.User, format, ownerFilter string) (interface{}, error)
	Share(ctx context.Context, meetingID uuid.UUID, actor *entities.User) (*ShareLink, error)
	GetShared(ctx context.Context, token string) (*entities.Meeting, error)
	SendEmail(ctx context.Context, meetingID uuid.UUID, actor *entities.User, recipients []string, emailType string) ([]string, error)

	UserTasks(ctx context.Context, userID uuid.UUID, actor *entities.User) (*UserTasksResult, error)
	Calendar(ctx context.Context, actor *entities.User) (*CalendarResult, error)
	Metrics(ctx context.Context, actor *entities.User) (*MetricsResult, error)
}

type service struct {
	meetingRepo repositories.MeetingRepository
	userRepo    repositories.UserRepository
	shareStore  repositories.ShareTokenStore
	mailer      Mailer
	locks       *meetingLocks
	logger      *zap.Logger
}

// NewService constructs the meeting service. mailer may be nil when SMTP is
// not configured; email operations then fail with a configuration error.
func NewService(
	meetingRepo repositories.MeetingRepository,
	userRepo repositories.UserRepository,
	shareStore repositories.ShareTokenStore,
	mailer Mailer,
	logger *zap.Logger,
) Service {
	return &service{
		meetingRepo: meetingRepo,
		userRepo:    userRepo,
		shareStore:  shareStore,
		mailer:      mailer,
		locks:       newMeetingLocks(),
		logger:      logger,
	}
}

// findMeeting loads a meeting, translating repository errors
func (s *service) findMeeting(ctx context.Context, meetingID uuid.UUID) (*entities.Meeting, error) {
	m, err := s.meetingRepo.FindByID(ctx, meetingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, entities.ErrMeetingNotFound) {
			return nil, errs.ErrMeetingNotFound(meetingID.String())
		}
		return nil, errs.ErrDBQueryFailed("meetings.find", err)
	}
	return m, nil
}

// GetMeeting returns a meeting if the actor owns it or owns a task in it
func (s *service) GetMeeting(ctx context.Context, meetingID uuid.UUID, actor *entities.User) (*entities.Meeting, error) {
	m, err := s.findMeeting(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	if err := Authorize(m, nil, actor, OpReadMeeting); err != nil {
		return nil, err
	}
	return m, nil
}

// ListMeetings returns the meetings visible to the actor: owned meetings
// plus meetings containing a task assigned to the actor.
func (s *service) ListMeetings(ctx context.Context, actor *entities.User) ([]*entities.Meeting, error) {
	all, err := s.meetingRepo.List(ctx)
	if err != nil {
		return nil, errs.ErrDBQueryFailed("meetings.list", err)
	}

	visible := make([]*entities.Meeting, 0, len(all))
	for _, m := range all {
		if Authorize(m, nil, actor, OpReadMeeting) == nil {
			visible = append(visible, m)
		}
	}
	return visible, nil
}

// DeleteMeeting removes a meeting. Meeting owner or admin only.
func (s *service) DeleteMeeting(ctx context.Context, meetingID uuid.UUID, actor *entities.User) error {
	m, err := s.findMeeting(ctx, meetingID)
	if err != nil {
		return err
	}
	if err := Authorize(m, nil, actor, OpDeleteMeeting); err != nil {
		return err
	}
	if err := s.meetingRepo.Delete(ctx, meetingID); err != nil {
		return errs.ErrDBQueryFailed("meetings.delete", err)
	}

	if m.ShareToken != nil {
		if err := s.shareStore.Revoke(ctx, *m.ShareToken); err != nil {
			s.logger.Warn("share token revocation failed",
				zap.String("meeting_id", meetingID.String()),
				zap.Error(err))
		}
	}

	s.logger.Info("meeting deleted",
		zap.String("meeting_id", meetingID.String()),
		zap.String("actor", actor.Name))
	return nil
}

// mutate runs a read-modify-write cycle under the per-meeting lock. fn
// mutates the loaded meeting in place; the whole record is rewritten only
// when fn succeeds, so a failed mutation never persists partial state.
func (s *service) mutate(ctx context.Context, meetingID uuid.UUID, fn func(m *entities.Meeting) error) error {
	s.locks.lock(meetingID)
	defer s.locks.unlock(meetingID)

	m, err := s.findMeeting(ctx, meetingID)
	if err != nil {
		return err
	}
	if err := fn(m); err != nil {
		return err
	}
	m.Summary = datatypes.NewJSONType(entities.ComputeSummary(m.Tasks))
	if err := s.meetingRepo.Update(ctx, m); err != nil {
		return errs.ErrDBQueryFailed("meetings.update", err)
	}
	return nil
}

// UpdateTask applies a patch to a task's mutable fields. Task owner only,
// by canonical id or legacy name/email fallback.
func (s *service) UpdateTask(ctx context.Context, meetingID uuid.UUID, taskID string, actor *entities.User, patch TaskPatch) (*entities.Task, error) {
	if patch.Status != nil && !patch.Status.IsValid() {
		return nil, errs.ErrInvalidArgument(fmt.Sprintf("invalid task status %q", *patch.Status))
	}

	var updated entities.Task
	err := s.mutate(ctx, meetingID, func(m *entities.Meeting) error {
		task, ok := m.Task(taskID)
		if !ok {
			return errs.ErrTaskNotFound(taskID)
		}
		if err := Authorize(m, task, actor, OpUpdateTask); err != nil {
			return err
		}

		if patch.Status != nil {
			task.Status = *patch.Status
		}
		if patch.Description != nil && strings.TrimSpace(*patch.Description) != "" {
			task.Description = *patch.Description
		}
		if patch.DueDate != nil {
			task.DueDate = patch.DueDate
		}
		updated = *task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// AddComment appends a comment to a task. Any authenticated actor.
func (s *service) AddComment(ctx context.Context, meetingID uuid.UUID, taskID string, actor *entities.User, text string) (*entities.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errs.ErrInvalidArgument("comment text is required")
	}

	var comment entities.Comment
	err := s.mutate(ctx, meetingID, func(m *entities.Meeting) error {
		task, ok := m.Task(taskID)
		if !ok {
			return errs.ErrTaskNotFound(taskID)
		}
		if err := Authorize(m, task, actor, OpAddComment); err != nil {
			return err
		}
		comment = entities.NewComment(actor, text)
		task.Comments = append(task.Comments, comment)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// AddChangeRequest appends a pending change request to a task. Any
// authenticated actor.
func (s *service) AddChangeRequest(ctx context.Context, meetingID uuid.UUID, taskID string, actor *entities.User, text string) (*entities.ChangeRequest, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errs.ErrInvalidArgument("change request text is required")
	}

	var cr entities.ChangeRequest
	err := s.mutate(ctx, meetingID, func(m *entities.Meeting) error {
		task, ok := m.Task(taskID)
		if !ok {
			return errs.ErrTaskNotFound(taskID)
		}
		if err := Authorize(m, task, actor, OpAddChangeRequest); err != nil {
			return err
		}
		cr = entities.NewChangeRequest(actor, text)
		task.ChangeRequests = append(task.ChangeRequests, cr)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &cr, nil
}

// SetChangeRequestStatus decides a pending change request. Task owner or
// meeting owner only. Approved and rejected are terminal; deciding an
// already-decided request is a validation error.
func (s *service) SetChangeRequestStatus(ctx context.Context, meetingID uuid.UUID, taskID string, requestID uuid.UUID, actor *entities.User, status entities.ChangeRequestStatus) (*entities.ChangeRequest, error) {
	if status != entities.ChangeRequestApproved && status != entities.ChangeRequestRejected {
		return nil, errs.ErrInvalidArgument("status must be 'approved' or 'rejected'")
	}

	var decided entities.ChangeRequest
	err := s.mutate(ctx, meetingID, func(m *entities.Meeting) error {
		task, ok := m.Task(taskID)
		if !ok {
			return errs.ErrTaskNotFound(taskID)
		}
		if err := Authorize(m, task, actor, OpResolveChangeRequest); err != nil {
			return err
		}
		cr, ok := task.ChangeRequest(requestID)
		if !ok {
			return errs.ErrChangeRequestNotFound(requestID.String())
		}
		if cr.Status.IsTerminal() {
			return errs.ErrInvalidArgument(fmt.Sprintf("change request already %s", cr.Status))
		}
		cr.Status = status
		decided = *cr
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &decided, nil
}

// Share creates a read-only share link for a meeting. Meeting owner only.
// The token lives in the cache with a TTL and is also denormalized onto the
// meeting record for display.
func (s *service) Share(ctx context.Context, meetingID uuid.UUID, actor *entities.User) (*ShareLink, error) {
	token := uuid.New().String()

	err := s.mutate(ctx, meetingID, func(m *entities.Meeting) error {
		if err := Authorize(m, nil, actor, OpShareMeeting); err != nil {
			return err
		}
		m.ShareToken = &token
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.shareStore.Save(ctx, token, meetingID, shareTokenTTL); err != nil {
		return nil, errs.ErrCacheFailed("share.save", err)
	}

	return &ShareLink{
		ShareURL: fmt.Sprintf("/share/%s", token),
		Token:    token,
	}, nil
}

// GetShared resolves a share token to its meeting without authentication.
// Unknown or expired tokens surface as not found.
func (s *service) GetShared(ctx context.Context, token string) (*entities.Meeting, error) {
	meetingID, err := s.shareStore.Lookup(ctx, token)
	if err != nil {
		if errors.Is(err, entities.ErrMeetingNotFound) {
			return nil, errs.ErrShareTokenNotFound(token)
		}
		return nil, errs.ErrCacheFailed("share.lookup", err)
	}
	return s.findMeeting(ctx, meetingID)
}

// SendEmail sends a meeting summary to the given recipients. Meeting owner
// or admin only. Returns the recipients the message went to.
func (s *service) SendEmail(ctx context.Context, meetingID uuid.UUID, actor *entities.User, recipients []string, emailType string) ([]string, error) {
	if len(recipients) == 0 {
		return nil, errs.ErrInvalidArgument("recipient emails are required")
	}
	if emailType == "" {
		emailType = emailTypeSummary
	}
	if !validEmailType(emailType) {
		return nil, errs.ErrInvalidArgument(fmt.Sprintf("invalid email type %q", emailType))
	}

	m, err := s.findMeeting(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	if err := Authorize(m, nil, actor, OpEmailMeeting); err != nil {
		return nil, err
	}
	if s.mailer == nil || !s.mailer.IsConfigured() {
		return nil, errs.ErrEmailNotConfigured()
	}

	subject := fmt.Sprintf("Meeting Summary: %s", m.Title)
	htmlBody, textBody := formatMeetingEmail(m, emailType)

	if err := s.mailer.Send(recipients, subject, htmlBody, textBody); err != nil {
		s.logger.Error("meeting email failed",
			zap.String("meeting_id", meetingID.String()),
			zap.Error(err))
		return nil, errs.ErrEmailSendFailed(err)
	}

	s.logger.Info("meeting email sent",
		zap.String("meeting_id", meetingID.String()),
		zap.Int("recipients", len(recipients)))
	return recipients, nil
}
