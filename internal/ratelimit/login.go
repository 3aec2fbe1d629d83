package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// loginWindowScript counts attempts in a fixed window. The TTL is set
// on first increment and re-asserted if the key somehow lost it, so a
// crashed process never leaves a counter pinned forever.
var loginWindowScript = redis.NewScript(`
-- KEYS[1] = attempt counter key
-- ARGV[1] = limit (int)
-- ARGV[2] = window_ms (int)
--
-- Returns:
--  1 if the attempt is allowed
--  0 if the limit is exhausted
local current = redis.call('INCR', KEYS[1])
if current == 1 then
  redis.call('PEXPIRE', KEYS[1], ARGV[2])
else
  if redis.call('PTTL', KEYS[1]) < 0 then
    redis.call('PEXPIRE', KEYS[1], ARGV[2])
  end
end

if current > tonumber(ARGV[1]) then
  return 0
end
return 1
`)

// LoginLimiter throttles login attempts per subject (email) to slow
// down credential stuffing. It fails open: if Redis is unreachable the
// attempt is allowed, because losing logins during a cache outage is
// worse than briefly losing the throttle.
type LoginLimiter struct {
	rdb    *redis.Client
	limit  int
	window time.Duration
}

const (
	DefaultLimit  = 10
	DefaultWindow = 15 * time.Minute
)

func NewLoginLimiter(rdb *redis.Client, limit int, window time.Duration) *LoginLimiter {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &LoginLimiter{rdb: rdb, limit: limit, window: window}
}

// Allow reports whether a login attempt for subject may proceed.
// The error is informational; callers treat (false, nil) as the only
// rejection signal and log everything else.
func (l *LoginLimiter) Allow(ctx context.Context, subject string) (bool, error) {
	if l == nil || l.rdb == nil {
		return true, nil
	}
	if subject == "" {
		return true, nil
	}

	res, err := loginWindowScript.Run(ctx, l.rdb, []string{l.key(subject)}, l.limit, l.window.Milliseconds()).Int()
	if err != nil {
		return true, fmt.Errorf("login limiter: %w", err)
	}
	return res == 1, nil
}

func (l *LoginLimiter) key(subject string) string {
	return "login_attempts:" + strings.ToLower(subject)
}
