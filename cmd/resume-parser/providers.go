package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/joseph-ayodele/resume-parser/internal/common"
	"github.com/joseph-ayodele/resume-parser/internal/llm"
	"github.com/joseph-ayodele/resume-parser/internal/llm/gemini"
	"github.com/joseph-ayodele/resume-parser/internal/llm/openai"
	"github.com/joseph-ayodele/resume-parser/internal/locking"
)

// newAugmenter builds the configured model client. It does not check LLM.Enabled.
func newAugmenter(ctx context.Context, c common.LLMConfig, logger *slog.Logger) (llm.Augmenter, error) {
	switch c.Provider {
	case "openai":
		if c.OpenAI.APIKey == "" {
			return nil, fmt.Errorf("%w: OPENAI_API_KEY is required", common.ErrInvalidInput)
		}
		return openai.NewClient(openai.Config{
			APIKey:      c.OpenAI.APIKey,
			BaseURL:     c.OpenAI.BaseURL,
			Model:       c.OpenAI.Model,
			Temperature: c.Temperature,
			Timeout:     c.Timeout,
		}, logger), nil
	case "gemini":
		return gemini.NewClient(ctx, gemini.Config{
			APIKey:      c.Gemini.APIKey,
			Model:       c.Gemini.Model,
			Temperature: c.Temperature,
		}, logger)
	default:
		return nil, fmt.Errorf("%w: unknown LLM provider %q", common.ErrInvalidInput, c.Provider)
	}
}

// newLocker returns the commit lock and a func that releases its resources.
func newLocker(ctx context.Context, c common.LockConfig, logger *slog.Logger) (locking.Locker, func(), error) {
	switch c.Backend {
	case "", "memory":
		return locking.NewKeyedMutex(), func() {}, nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     c.Redis.Addr,
			Password: c.Redis.Password,
			DB:       c.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("redis ping %s: %w", c.Redis.Addr, err)
		}
		logger.Info("using redis commit lock", "addr", c.Redis.Addr, "prefix", c.Redis.KeyPrefix)
		l := locking.NewRedisLocker(client, locking.RedisOptions{KeyPrefix: c.Redis.KeyPrefix, TTL: c.Redis.LockTTL}, logger)
		return l, func() {
			if err := client.Close(); err != nil {
				logger.Warn("closing redis client", "error", err)
			}
		}, nil
	default:
		return nil, nil, fmt.Errorf("%w: unknown lock backend %q", common.ErrInvalidInput, c.Backend)
	}
}
