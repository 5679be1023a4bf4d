package extraction

import (
	"context"
	"strings"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	errs "github.com/trackteam/action-tracker/errors"
	"github.com/trackteam/action-tracker/internal/domain/entities"
	"github.com/trackteam/action-tracker/internal/domain/repositories"
)

// Completer produces raw model output for a prompt
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// TranscriptArchiver stores raw transcripts in object storage. Archival is
// best effort; a failure never blocks meeting creation.
type TranscriptArchiver interface {
	Archive(ctx context.Context, meetingID uuid.UUID, transcript string) error
}

// Service orchestrates transcript processing: prompt the extraction model,
// normalize its output against the user directory, and persist the meeting.
type Service interface {
	ProcessTranscript(ctx context.Context, title, transcript string, owner *entities.User) (*entities.Meeting, error)
}

type service struct {
	userRepo    repositories.UserRepository
	meetingRepo repositories.MeetingRepository
	completer   Completer
	archiver    TranscriptArchiver
	maxRetries  int
	logger      *zap.Logger
}

// NewService constructs the extraction service. archiver may be nil when
// object storage is not configured.
func NewService(
	userRepo repositories.UserRepository,
	meetingRepo repositories.MeetingRepository,
	completer Completer,
	archiver TranscriptArchiver,
	maxRetries int,
	logger *zap.Logger,
) Service {
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &service{
		userRepo:    userRepo,
		meetingRepo: meetingRepo,
		completer:   completer,
		archiver:    archiver,
		maxRetries:  maxRetries,
		logger:      logger,
	}
}

// ProcessTranscript runs the full pipeline. The caller becomes the meeting
// owner; ownership is fixed at creation and never reassigned.
func (s *service) ProcessTranscript(ctx context.Context, title, transcript string, owner *entities.User) (*entities.Meeting, error) {
	if strings.TrimSpace(transcript) == "" {
		return nil, errs.ErrInvalidArgument("transcript is required")
	}
	if strings.TrimSpace(title) == "" {
		title = "Untitled Meeting"
	}

	directory, err := s.userRepo.Snapshot(ctx)
	if err != nil {
		return nil, errs.ErrDBQueryFailed("users.snapshot", err)
	}

	prompt := BuildPrompt(transcript, directory)

	var content string
	completeFn := func() error {
		var err error
		content, err = s.completer.Complete(ctx, prompt)
		return err
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 2 * time.Second
	bo.MaxElapsedTime = 2 * time.Minute
	retries := backoff.WithMaxRetries(bo, uint64(s.maxRetries))
	if err := backoff.Retry(completeFn, backoff.WithContext(retries, ctx)); err != nil {
		s.logger.Error("extraction request failed", zap.Error(err))
		return nil, errs.ErrExtractionFailed(err)
	}

	normalized, err := Normalize([]byte(extractJSON(content)), transcript, directory)
	if err != nil {
		s.logger.Error("extraction output rejected", zap.Error(err))
		return nil, errs.ErrExtractionFailed(err)
	}

	meeting := entities.NewMeeting(title, transcript, owner, normalized.Tasks)

	if s.archiver != nil {
		if err := s.archiver.Archive(ctx, meeting.ID, transcript); err != nil {
			s.logger.Warn("transcript archival failed",
				zap.String("meeting_id", meeting.ID.String()),
				zap.Error(err))
		}
	}

	if err := s.meetingRepo.Create(ctx, meeting); err != nil {
		return nil, errs.ErrDBQueryFailed("meetings.create", err)
	}

	s.logger.Info("meeting processed",
		zap.String("meeting_id", meeting.ID.String()),
		zap.String("owner", owner.Name),
		zap.Int("tasks", len(normalized.Tasks)))

	return meeting, nil
}

// extractJSON strips a markdown code fence when the model wraps its output
// in one despite instructions.
func extractJSON(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	}

	return strings.TrimSpace(content)
}
