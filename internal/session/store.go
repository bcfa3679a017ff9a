// Package session implements the server-side session store backed by Redis.
// A session is an opaque random token mapped to the authenticated user's
// identity; the token travels in an HTTP-only cookie and is the sole
// authentication signal.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"yummigo/internal/middleware"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrStoreUnavailable is returned when no Redis client is configured.
var ErrStoreUnavailable = errors.New("session store unavailable")

// Data is the per-session state kept server-side.
type Data struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
}

// Store persists sessions in Redis with an idle timeout: every successful
// lookup refreshes the TTL.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewStore creates a session store with the given idle timeout.
func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

func sessionKey(token string) string {
	return fmt.Sprintf("session:%s", token)
}

// Create stores a new session and returns its opaque token.
func (s *Store) Create(ctx context.Context, data Data) (string, error) {
	if s.rdb == nil {
		return "", ErrStoreUnavailable
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return "", err
	}

	token := uuid.NewString()
	if err := s.rdb.Set(ctx, sessionKey(token), payload, s.ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// Get resolves a token to its session data, refreshing the idle timeout.
// A missing or expired token yields (nil, nil).
func (s *Store) Get(ctx context.Context, token string) (*Data, error) {
	if s.rdb == nil {
		return nil, ErrStoreUnavailable
	}
	if token == "" {
		return nil, nil
	}

	raw, err := s.rdb.Get(ctx, sessionKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		middleware.SessionLookups.WithLabelValues("miss").Inc()
		return nil, nil
	}
	if err != nil {
		middleware.SessionLookups.WithLabelValues("error").Inc()
		return nil, err
	}

	var data Data
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		// Corrupt payload; treat as no session rather than locking the user out.
		_ = s.rdb.Del(ctx, sessionKey(token)).Err()
		return nil, nil
	}

	// Sliding idle timeout.
	s.rdb.Expire(ctx, sessionKey(token), s.ttl)

	middleware.SessionLookups.WithLabelValues("hit").Inc()
	return &data, nil
}

// Destroy removes a session. Destroying an unknown token is a no-op.
func (s *Store) Destroy(ctx context.Context, token string) error {
	if s.rdb == nil {
		return ErrStoreUnavailable
	}
	if token == "" {
		return nil
	}
	return s.rdb.Del(ctx, sessionKey(token)).Err()
}
