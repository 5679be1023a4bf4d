package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/trackteam/action-tracker/internal/domain/entities"
)

// MeetingRepository defines persistence operations for meetings. Mutations
// are whole-record rewrites: callers load the meeting, mutate one nested
// field, and Update persists the full record in a single statement.
type MeetingRepository interface {
	Create(ctx context.Context, meeting *entities.Meeting) error
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Meeting, error)
	List(ctx context.Context) ([]*entities.Meeting, error)
	Update(ctx context.Context, meeting *entities.Meeting) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ShareTokenStore maps share tokens to meeting ids with a bounded lifetime
type ShareTokenStore interface {
	Save(ctx context.Context, token string, meetingID uuid.UUID, ttl time.Duration) error
	Lookup(ctx context.Context, token string) (uuid.UUID, error)
	Revoke(ctx context.Context, token string) error
}
