package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iho/fintrack/internal/domain"
)

// ResetTokenStore implements usecase.ResetTokenStore using Redis.
// Tokens expire with their key and are removed on first use.
type ResetTokenStore struct {
	client *redis.Client
	prefix string
}

// NewResetTokenStore creates a new ResetTokenStore.
func NewResetTokenStore(client *redis.Client) *ResetTokenStore {
	return &ResetTokenStore{
		client: client,
		prefix: "fintrack:password-reset:",
	}
}

// Save binds token to userID for ttl.
func (s *ResetTokenStore) Save(ctx context.Context, token, userID string, ttl time.Duration) error {
	return s.client.Set(ctx, s.prefix+token, userID, ttl).Err()
}

// Consume returns the user bound to token and deletes it atomically.
func (s *ResetTokenStore) Consume(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", domain.ErrInvalidResetToken
	}

	userID, err := s.client.GetDel(ctx, s.prefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return "", domain.ErrInvalidResetToken
	}
	if err != nil {
		return "", err
	}

	return userID, nil
}
