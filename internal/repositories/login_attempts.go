package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/omcpatel18/Bank-Management-system/internal/logger"
)

// LoginAttemptRepository counts failed PIN attempts per account in Redis.
// The counter expires after the configured window, re-opening the account
// for login without any operator action.
type LoginAttemptRepository struct {
	client *redis.Client
	window time.Duration
}

func NewLoginAttemptRepository(client *redis.Client, window time.Duration) *LoginAttemptRepository {
	return &LoginAttemptRepository{client: client, window: window}
}

func attemptKey(accountID int64) string {
	return fmt.Sprintf("login_attempts:%d", accountID)
}

// Failed increments the failure counter and returns the new count.
// The first failure starts the expiry window.
func (r *LoginAttemptRepository) Failed(ctx context.Context, accountID int64) (int64, error) {
	key := attemptKey(accountID)

	count, err := r.client.Incr(ctx, key).Result()
	if err == nil && count == 1 {
		err = r.client.Expire(ctx, key, r.window).Err()
	}

	logger.Log.Infow(
		"key", key,
		"result", count,
		"error", err,
	)

	return count, err
}

// Count returns the current failure count, zero when no failures are recorded.
func (r *LoginAttemptRepository) Count(ctx context.Context, accountID int64) (int64, error) {
	key := attemptKey(accountID)

	count, err := r.client.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		err = nil
		count = 0
	}

	logger.Log.Infow(
		"key", key,
		"result", count,
		"error", err,
	)

	return count, err
}

// Reset clears the failure counter after a successful login.
func (r *LoginAttemptRepository) Reset(ctx context.Context, accountID int64) error {
	key := attemptKey(accountID)

	err := r.client.Del(ctx, key).Err()

	logger.Log.Infow(
		"key", key,
		"result", "ok",
		"error", err,
	)

	return err
}
