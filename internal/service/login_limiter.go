package service

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const loginFailurePrefix = "login:failures:"

// loginLimiter counts consecutive failed logins per email in Redis.
// Counters are process-wide and expire after the lockout window, so a
// lock never outlives it. Keys are lowercased: lockout follows the
// account, not the capitalization the attacker typed.
type loginLimiter struct {
	client      redis.Cmdable
	maxFailures int
	window      time.Duration
}

func newLoginLimiter(client redis.Cmdable, maxFailures int, window time.Duration) *loginLimiter {
	if maxFailures <= 0 {
		maxFailures = 5
	}
	if window <= 0 {
		window = 15 * time.Minute
	}
	return &loginLimiter{client: client, maxFailures: maxFailures, window: window}
}

func (l *loginLimiter) key(email string) string {
	return loginFailurePrefix + strings.ToLower(strings.TrimSpace(email))
}

// Locked reports whether the email has exhausted its failure budget.
// Redis being unreachable does not lock anyone out of logging in.
func (l *loginLimiter) Locked(ctx context.Context, email string) bool {
	if l.client == nil {
		return false
	}
	count, err := l.client.Get(ctx, l.key(email)).Int()
	if err != nil {
		return false
	}
	return count >= l.maxFailures
}

// RecordFailure bumps the counter and restarts the lockout window.
func (l *loginLimiter) RecordFailure(ctx context.Context, email string) {
	if l.client == nil {
		return
	}
	key := l.key(email)
	if err := l.client.Incr(ctx, key).Err(); err != nil {
		return
	}
	_ = l.client.Expire(ctx, key, l.window).Err()
}

// Reset clears the counter after a successful login.
func (l *loginLimiter) Reset(ctx context.Context, email string) {
	if l.client == nil {
		return
	}
	_ = l.client.Del(ctx, l.key(email)).Err()
}
