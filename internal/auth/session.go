package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SessionTTL bounds how long a login stays valid without re-authenticating.
const SessionTTL = 24 * time.Hour

// Store maps opaque bearer tokens to the email that minted them.
// Implementations must expire entries after SessionTTL.
type Store interface {
	// Create mints a new random token for email and stores the mapping.
	Create(ctx context.Context, email string) (string, error)
	// Get returns the email for a token, or "" if absent or expired.
	Get(ctx context.Context, token string) (string, error)
	// Delete removes a session. Unknown tokens are not an error.
	Delete(ctx context.Context, token string) error
}

// RedisStore keeps sessions in Redis with a native TTL.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) Create(ctx context.Context, email string) (string, error) {
	token := uuid.New().String()
	err := s.rdb.Set(ctx, "session:"+token, email, SessionTTL).Err()
	return token, err
}

func (s *RedisStore) Get(ctx context.Context, token string) (string, error) {
	val, err := s.rdb.Get(ctx, "session:"+token).Result()
	if err == redis.Nil {
		return "", nil
	}
	return val, err
}

func (s *RedisStore) Delete(ctx context.Context, token string) error {
	return s.rdb.Del(ctx, "session:"+token).Err()
}
