// Package ratelimit throttles repeated attempts per client key using
// counters kept in Redis.
package ratelimit

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// incrWithTTL bumps the counter and arms its expiry on first use.
var incrWithTTL = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if n == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return n
`)

type Options struct {
	Addr     string
	Password string
	// Prefix namespaces the counters, e.g. "bookcatalog:login".
	Prefix string
	Limit  int
	Window time.Duration
}

// FixedWindow allows Limit attempts per key in each Window-aligned slot.
// A Redis failure refuses the attempt.
type FixedWindow struct {
	opts  Options
	rdb   *redis.Client
	lg    *zap.SugaredLogger
	nowFn func() time.Time
}

func NewFixedWindow(opts Options, lg *zap.SugaredLogger) (*FixedWindow, error) {
	if opts.Limit <= 0 {
		return nil, errors.New("ratelimit: limit must be positive")
	}
	if opts.Window < time.Millisecond {
		return nil, errors.New("ratelimit: window must be at least 1ms")
	}
	opts.Addr = strings.TrimSpace(opts.Addr)
	if opts.Addr == "" {
		return nil, errors.New("ratelimit: redis addr is required")
	}
	if opts.Prefix = strings.TrimSpace(opts.Prefix); opts.Prefix == "" {
		opts.Prefix = "bookcatalog:ratelimit"
	}
	if lg == nil {
		lg = zap.NewNop().Sugar()
	}
	return &FixedWindow{
		opts: opts,
		rdb: redis.NewClient(&redis.Options{
			Addr:         opts.Addr,
			Password:     opts.Password,
			DialTimeout:  2 * time.Second,
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
		}),
		lg:    lg,
		nowFn: time.Now,
	}, nil
}

// Allow records one attempt for key and reports whether it is within quota.
func (l *FixedWindow) Allow(ctx context.Context, key string) bool {
	if l == nil {
		return false
	}
	windowMs := l.opts.Window.Milliseconds()
	if windowMs <= 0 {
		l.lg.Warnw("rate limit window below 1ms, refusing", "window", l.opts.Window)
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	counter := l.counterKey(key, l.nowFn().UnixMilli()/windowMs)
	n, err := incrWithTTL.Run(ctx, l.rdb, []string{counter}, windowMs).Int64()
	if err != nil {
		l.lg.Warnw("rate limit check failed, refusing", "key", counter, "error", err)
		return false
	}
	return n <= int64(l.opts.Limit)
}

func (l *FixedWindow) counterKey(key string, slot int64) string {
	if key = strings.TrimSpace(key); key == "" {
		key = "unknown"
	}
	return l.opts.Prefix + ":" + key + ":" + strconv.FormatInt(slot, 10)
}

func (l *FixedWindow) Close() error {
	return l.rdb.Close()
}
