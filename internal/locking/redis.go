package locking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the key only if we still own it.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisOptions struct {
	KeyPrefix string        // default "resume-parser:lock:"
	TTL       time.Duration // lease length, default 30s
	Retry     time.Duration // poll interval, default 50ms
}

// RedisLocker is a Locker shared by every process pointed at the same Redis.
// A lease expires after TTL so a crashed holder cannot wedge a key forever.
type RedisLocker struct {
	client redis.UniversalClient
	opts   RedisOptions
	logger *slog.Logger
}

func NewRedisLocker(client redis.UniversalClient, opts RedisOptions, logger *slog.Logger) *RedisLocker {
	if opts.KeyPrefix == "" {
		opts.KeyPrefix = "resume-parser:lock:"
	}
	if opts.TTL <= 0 {
		opts.TTL = 30 * time.Second
	}
	if opts.Retry <= 0 {
		opts.Retry = 50 * time.Millisecond
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisLocker{client: client, opts: opts, logger: logger}
}

func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	k := l.opts.KeyPrefix + key
	token := uuid.NewString()

	ticker := time.NewTicker(l.opts.Retry)
	defer ticker.Stop()
	for {
		ok, err := l.client.SetNX(ctx, k, token, l.opts.TTL).Result()
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, fmt.Errorf("redis lock %s: %w", key, err)
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}

	return func() {
		// release even if the caller's context is already gone
		rctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		n, err := releaseScript.Run(rctx, l.client, []string{k}, token).Int()
		switch {
		case err != nil && !errors.Is(err, redis.Nil):
			l.logger.Warn("redis unlock failed", "key", k, "error", err)
		case n == 0:
			l.logger.Warn("redis lock lease expired before unlock", "key", k)
		}
	}, nil
}
