package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/eventdeskhq/eventdesk/internal/infrastructure/metrics"
)

const keyPrefix = "session:"

// RedisStore keeps session tokens in Redis with a sliding TTL. Tokens are
// 32 random bytes hex-encoded and opaque to the client.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects a session store to the given Redis instance.
func NewRedisStore(addr, password string, db int, ttl time.Duration) *RedisStore {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisStore{client: rdb, ttl: ttl}
}

// Create mints a fresh token bound to userID.
func (s *RedisStore) Create(ctx context.Context, userID int64) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	token := hex.EncodeToString(buf)

	if err := s.client.Set(ctx, keyPrefix+token, userID, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	metrics.SessionsCreated.Inc()
	return token, nil
}

// Get resolves a token to its user id and slides the expiry window.
// Unknown or expired tokens return (0, false, nil).
func (s *RedisStore) Get(ctx context.Context, token string) (int64, bool, error) {
	userID, err := s.client.Get(ctx, keyPrefix+token).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("session lookup: %w", err)
	}

	s.client.Expire(ctx, keyPrefix+token, s.ttl)
	return userID, true, nil
}

func (s *RedisStore) Delete(ctx context.Context, token string) error {
	return s.client.Del(ctx, keyPrefix+token).Err()
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
