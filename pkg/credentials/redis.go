package credentials

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RedisKeyToken is the Redis key holding the shared bearer token.
const RedisKeyToken = "wms:auth:token"

// RedisStore is a Provider backed by Redis. It lets several worker
// processes (e.g. a fleet of picking stations behind one service account)
// share a single operator session token.
type RedisStore struct {
	redis  *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewRedisStore creates a Redis-backed credential store.
// A ttl of 0 stores the token without expiry.
func NewRedisStore(redisClient *redis.Client, ttl time.Duration, logger zerolog.Logger) *RedisStore {
	if redisClient == nil {
		panic("redis client cannot be nil")
	}
	return &RedisStore{
		redis:  redisClient,
		ttl:    ttl,
		logger: logger,
	}
}

// Token implements Provider.
func (s *RedisStore) Token(ctx context.Context) (string, error) {
	token, err := s.redis.Get(ctx, RedisKeyToken).Result()
	if err != nil {
		if err == redis.Nil {
			return "", ErrNoToken
		}
		return "", fmt.Errorf("redis get token: %w", err)
	}
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}

// Store implements Provider.
func (s *RedisStore) Store(ctx context.Context, token string) error {
	if err := s.redis.Set(ctx, RedisKeyToken, token, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set token: %w", err)
	}
	s.logger.Debug().Dur("ttl", s.ttl).Msg("Stored bearer token")
	return nil
}

// Clear implements Provider.
func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.redis.Del(ctx, RedisKeyToken).Err(); err != nil {
		return fmt.Errorf("redis del token: %w", err)
	}
	s.logger.Info().Msg("Cleared stored bearer token")
	return nil
}
