package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "ratelimit"

// AttemptLimiter is a fixed-window attempt counter backed by Redis.
// Key format: ratelimit:<scope>:<subject>
type AttemptLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
}

// NewAttemptLimiter allows limit attempts per subject in each window.
func NewAttemptLimiter(client *redis.Client, limit int, window time.Duration) *AttemptLimiter {
	return &AttemptLimiter{client: client, limit: int64(limit), window: window}
}

// incrWindow bumps the counter and starts the window on the first hit. Running
// it as one script keeps the pair atomic on any Redis version.
var incrWindow = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if n == 1 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return n
`)

// Allow records an attempt and reports whether it is within the limit.
func (l *AttemptLimiter) Allow(ctx context.Context, scope, subject string) (bool, error) {
	n, err := incrWindow.Run(ctx, l.client, []string{l.key(scope, subject)}, l.window.Milliseconds()).Int64()
	if err != nil {
		return false, fmt.Errorf("rate limit: %w", err)
	}
	return n <= l.limit, nil
}

func (l *AttemptLimiter) key(scope, subject string) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, scope, subject)
}
