// Package cache holds the expiring key-value store used for one-time
// passcodes. Codes live in Redis with a TTL instead of process-local maps,
// so they survive restarts and are shared across instances.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/coralcreek/resort-api/internal/apperr"
)

type OTPStore interface {
	Put(ctx context.Context, key, code string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

type RedisOTPStore struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisOTPStore wraps a Redis client. A nil client is tolerated: every
// call then fails with a dependency error rather than panicking, so the
// rest of the API keeps serving when Redis is down at startup.
func NewRedisOTPStore(rdb *redis.Client) *RedisOTPStore {
	return &RedisOTPStore{rdb: rdb, prefix: "otp:"}
}

func (s *RedisOTPStore) Put(ctx context.Context, key, code string, ttl time.Duration) error {
	if s.rdb == nil {
		return apperr.New(apperr.Dependency, "otp_store_unavailable", "OTP store unavailable")
	}
	if err := s.rdb.Set(ctx, s.prefix+key, code, ttl).Err(); err != nil {
		return apperr.Wrap(apperr.Dependency, "otp_store_failed", "failed to store OTP", err)
	}
	return nil
}

// Get returns the code if it has not expired. Expired or absent keys both
// come back as NotFound; Redis handles expiry itself.
func (s *RedisOTPStore) Get(ctx context.Context, key string) (string, error) {
	if s.rdb == nil {
		return "", apperr.New(apperr.Dependency, "otp_store_unavailable", "OTP store unavailable")
	}
	code, err := s.rdb.Get(ctx, s.prefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", apperr.New(apperr.NotFound, "otp_not_found", "OTP not found or expired")
		}
		return "", apperr.Wrap(apperr.Dependency, "otp_store_failed", "failed to read OTP", err)
	}
	return code, nil
}

func (s *RedisOTPStore) Delete(ctx context.Context, key string) error {
	if s.rdb == nil {
		return apperr.New(apperr.Dependency, "otp_store_unavailable", "OTP store unavailable")
	}
	if err := s.rdb.Del(ctx, s.prefix+key).Err(); err != nil {
		return apperr.Wrap(apperr.Dependency, "otp_store_failed", "failed to delete OTP", err)
	}
	return nil
}
