// Package redisotp stores one-time password codes in Redis with TTL
// expiry. The TTL replaces any explicit cleanup: codes vanish on their own.
package redisotp

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "otp:"

// Store implements outbound.OTPStore on Redis.
type Store struct {
	client *redis.Client
}

// NewStore creates an OTP store over the given Redis client.
func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

// Put stores the code for the phone, replacing any outstanding code and
// resetting the expiry window.
func (s *Store) Put(ctx context.Context, phone, code string, ttl time.Duration) error {
	if err := s.client.Set(ctx, keyPrefix+phone, code, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store otp: %w", err)
	}
	return nil
}

// Verify checks the code against the stored value and consumes it on
// success. A wrong code leaves the stored one in place for another try
// until the TTL runs out.
func (s *Store) Verify(ctx context.Context, phone, code string) (bool, error) {
	stored, err := s.client.Get(ctx, keyPrefix+phone).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read otp: %w", err)
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(code)) != 1 {
		return false, nil
	}

	if err := s.client.Del(ctx, keyPrefix+phone).Err(); err != nil {
		return false, fmt.Errorf("failed to consume otp: %w", err)
	}
	return true, nil
}
