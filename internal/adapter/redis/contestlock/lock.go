// Package contestlock serializes contest mutations across service instances
// with a Redis SET NX lease.
package contestlock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"gitlab.com/fcv-2025.net/codearena/internal/core/ports/primary"
	"gitlab.com/fcv-2025.net/codearena/internal/core/ports/secondary"
	"gitlab.com/fcv-2025.net/codearena/internal/static/errs"
)

const lockKeyPrefix = "contest:lock:"

var _ secondary.ContestLocker = (*ContestLocker)(nil)

// releaseScript deletes the key only while it still holds our token, so an
// expired lease taken over by another holder is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

var errLockHeld = errors.New("contest lock held")

type ContestLocker struct {
	redisClient *redis.Client
	logger      primary.Logger
	ttl         time.Duration
	wait        time.Duration
}

func NewContestLocker(redisClient *redis.Client, ttl, wait time.Duration, logger primary.Logger) *ContestLocker {
	return &ContestLocker{
		redisClient: redisClient,
		logger:      logger,
		ttl:         ttl,
		wait:        wait,
	}
}

func lockKey(contestID uuid.UUID) string {
	return fmt.Sprintf("%s%s", lockKeyPrefix, contestID)
}

// Lock blocks until the contest lease is acquired or the wait budget runs out,
// in which case errs.ErrContestBusy is returned.
func (l *ContestLocker) Lock(ctx context.Context, contestID uuid.UUID) (func(), error) {
	key := lockKey(contestID)
	token := uuid.NewString()

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 20 * time.Millisecond
	policy.MaxInterval = 250 * time.Millisecond
	policy.MaxElapsedTime = l.wait

	err := backoff.Retry(func() error {
		ok, err := l.redisClient.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return backoff.Permanent(err)
		}
		if !ok {
			return errLockHeld
		}
		return nil
	}, backoff.WithContext(policy, ctx))

	if err != nil {
		if errors.Is(err, errLockHeld) {
			l.logger.Warn("Contest lock wait exhausted", "contestId", contestID)
			return nil, errs.ErrContestBusy
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		l.logger.Error("Failed to acquire contest lock", "contestId", contestID, "error", err)
		return nil, fmt.Errorf("failed to acquire contest lock: %w", err)
	}

	unlock := func() {
		// The caller's context may already be done; release on a fresh one.
		releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := releaseScript.Run(releaseCtx, l.redisClient, []string{key}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
			l.logger.Error("Failed to release contest lock", "contestId", contestID, "error", err)
		}
	}
	return unlock, nil
}
