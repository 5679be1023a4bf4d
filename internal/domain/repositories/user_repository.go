package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/trackteam/action-tracker/internal/domain/entities"
)

// UserRepository defines persistence operations for users. Its read side is
// the identity directory consumed by the owner resolver: Snapshot returns
// every known identity in stable creation order.
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	FindByEmail(ctx context.Context, email string) (*entities.User, error)
	FindByName(ctx context.Context, name string) (*entities.User, error)
	Snapshot(ctx context.Context) ([]entities.User, error)
	Update(ctx context.Context, user *entities.User) error
}
