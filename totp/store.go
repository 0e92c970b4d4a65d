package totp

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Kind distinguishes the purpose a stored code serves (login 2FA vs. email
// verification), matching original_source's TotpRedisAction/Kind pairing.
type Kind string

const (
	KindLogin        Kind = "login"
	KindEmailVerify  Kind = "email_verify"
)

const (
	validityWindow = 600 * time.Second
	resendCooldown = 60 * time.Second
)

// Store persists one active code per (userID, kind) in Redis.
type Store struct {
	rdb *redis.Client
}

// NewStore wraps an existing Redis client.
func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

func (s *Store) key(userID int64, kind Kind) string {
	return fmt.Sprintf("%s:%d", kind, userID)
}

// Put stores code for (userID, kind) with the standard validity window,
// rejecting the request if a prior code was issued too recently.
func (s *Store) Put(ctx context.Context, userID int64, kind Kind, code string) error {
	key := s.key(userID, kind)
	ttl, err := s.rdb.TTL(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("totp: ttl: %w", err)
	}
	if ttl > 0 {
		minTTL := validityWindow - resendCooldown
		if ttl >= minTTL {
			remaining := ttl - minTTL
			return fmt.Errorf("please request a new verification code in %d seconds", int(remaining.Seconds()))
		}
	}
	if err := s.rdb.Set(ctx, key, code, validityWindow).Err(); err != nil {
		return fmt.Errorf("totp: store code: %w", err)
	}
	return nil
}

// Get returns the stored code for (userID, kind), or "" if none is active.
func (s *Store) Get(ctx context.Context, userID int64, kind Kind) (string, error) {
	val, err := s.rdb.Get(ctx, s.key(userID, kind)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("totp: get code: %w", err)
	}
	return val, nil
}

// Clear removes the stored code for (userID, kind), e.g. after successful
// verification.
func (s *Store) Clear(ctx context.Context, userID int64, kind Kind) error {
	if err := s.rdb.Del(ctx, s.key(userID, kind)).Err(); err != nil {
		return fmt.Errorf("totp: clear code: %w", err)
	}
	return nil
}
