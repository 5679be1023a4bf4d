package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/trackteam/action-tracker/internal/domain/entities"
	"github.com/trackteam/action-tracker/internal/domain/repositories"
	"github.com/trackteam/action-tracker/internal/infrastructure/cache"
)

// shareTokenStore keeps share tokens in Redis with a TTL so read-only links
// expire on their own.
type shareTokenStore struct {
	client *redis.Client
}

// NewShareTokenStore creates a Redis-backed share token store
func NewShareTokenStore(client *redis.Client) repositories.ShareTokenStore {
	return &shareTokenStore{client: client}
}

func shareKey(token string) string {
	return fmt.Sprintf("share:token:%s", token)
}

// Save stores the token -> meeting id mapping with the given TTL
func (s *shareTokenStore) Save(ctx context.Context, token string, meetingID uuid.UUID, ttl time.Duration) error {
	return s.client.Set(ctx, shareKey(token), meetingID.String(), ttl).Err()
}

// Lookup resolves a token to a meeting id
func (s *shareTokenStore) Lookup(ctx context.Context, token string) (uuid.UUID, error) {
	val, err := s.client.Get(ctx, shareKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return uuid.Nil, entities.ErrMeetingNotFound
		}
		return uuid.Nil, err
	}

	meetingID, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, fmt.Errorf("corrupt share token mapping: %w", err)
	}
	return meetingID, nil
}

// Revoke removes a token
func (s *shareTokenStore) Revoke(ctx context.Context, token string) error {
	return s.client.Del(ctx, shareKey(token)).Err()
}

// memoryShareTokenStore backs share tokens with the in-process cache when
// Redis is unavailable. Tokens do not survive a restart.
type memoryShareTokenStore struct {
	store *cache.MemoryStore
}

// NewMemoryShareTokenStore creates a share token store on top of the
// in-memory cache
func NewMemoryShareTokenStore(store *cache.MemoryStore) repositories.ShareTokenStore {
	return &memoryShareTokenStore{store: store}
}

func (s *memoryShareTokenStore) Save(ctx context.Context, token string, meetingID uuid.UUID, ttl time.Duration) error {
	s.store.Set(shareKey(token), meetingID.String(), ttl)
	return nil
}

func (s *memoryShareTokenStore) Lookup(ctx context.Context, token string) (uuid.UUID, error) {
	val, ok := s.store.Get(shareKey(token))
	if !ok {
		return uuid.Nil, entities.ErrMeetingNotFound
	}
	meetingID, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, fmt.Errorf("corrupt share token mapping: %w", err)
	}
	return meetingID, nil
}

func (s *memoryShareTokenStore) Revoke(ctx context.Context, token string) error {
	s.store.Delete(shareKey(token))
	return nil
}
