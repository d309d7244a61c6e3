// File: internal/oauth/statestore.go
package oauth

import (
	"context"
	"errors"
	"fmt"
	"time"

	platformredis "bazaar_onboarding_backend/internal/platform/redis"

	"github.com/redis/go-redis/v9"
)

// ErrNoState is returned by Take when no state token is stored for the
// session (never set, expired, or already consumed).
var ErrNoState = errors.New("oauth: no state stored for session")

// StateStore holds the per-session CSRF state token between the redirect
// and callback legs. Take consumes: a stored value can be read at most
// once, which is what makes replay of a (code, state) pair fail.
type StateStore interface {
	Put(ctx context.Context, sessionID, state string, ttl time.Duration) error
	Take(ctx context.Context, sessionID string) (string, error)
}

const stateKeyPrefix = "oauth:state:"

type redisStateStore struct {
	client *platformredis.Client
}

// NewRedisStateStore creates a Redis-backed state store. GETDEL makes the
// check-then-delete on the callback atomic, so concurrent replays of the
// same state cannot both succeed.
func NewRedisStateStore(client *platformredis.Client) StateStore {
	return &redisStateStore{client: client}
}

func (s *redisStateStore) Put(ctx context.Context, sessionID, state string, ttl time.Duration) error {
	if err := s.client.Set(ctx, stateKeyPrefix+sessionID, state, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store oauth state: %w", err)
	}
	return nil
}

func (s *redisStateStore) Take(ctx context.Context, sessionID string) (string, error) {
	state, err := s.client.GetDel(ctx, stateKeyPrefix+sessionID).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNoState
	}
	if err != nil {
		return "", fmt.Errorf("failed to read oauth state: %w", err)
	}
	return state, nil
}
