package cachehint

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/Alomco/OrgCentral-Kai-v2-sub003/pkg/logger"
)

// DefaultChannel is the Redis pub/sub channel invalidation hints are
// published to when no channel is configured.
const DefaultChannel = "cachehint.invalidate"

// RedisRegistrar publishes hints as JSON messages on a Redis pub/sub channel
// so that every process holding a read cache can drop the affected scope.
type RedisRegistrar struct {
	client  *redis.Client
	channel string
	logger  *slog.Logger
}

// RedisRegistrarOption configures a RedisRegistrar.
type RedisRegistrarOption func(*RedisRegistrar)

// WithChannel overrides the pub/sub channel name.
func WithChannel(channel string) RedisRegistrarOption {
	return func(r *RedisRegistrar) {
		if channel != "" {
			r.channel = channel
		}
	}
}

// WithRegistrarLogger sets the logger used for publish failures.
func WithRegistrarLogger(logger *slog.Logger) RedisRegistrarOption {
	return func(r *RedisRegistrar) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRedisRegistrar creates a registrar publishing to the given Redis client.
func NewRedisRegistrar(client *redis.Client, opts ...RedisRegistrarOption) *RedisRegistrar {
	r := &RedisRegistrar{
		client:  client,
		channel: DefaultChannel,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register publishes the hint. Publish failures are logged and swallowed:
// a missed invalidation degrades cache freshness, it must not fail writes.
func (r *RedisRegistrar) Register(ctx context.Context, hint Hint) {
	payload, err := json.Marshal(hint)
	if err != nil {
		r.logger.LogAttrs(ctx, slog.LevelError, "Failed to marshal cache hint",
			logger.OrgID(hint.OrgID),
			logger.Error(err),
		)
		return
	}

	if err := r.client.Publish(ctx, r.channel, payload).Err(); err != nil {
		r.logger.LogAttrs(ctx, slog.LevelError, "Failed to publish cache hint",
			logger.OrgID(hint.OrgID),
			slog.String("channel", r.channel),
			logger.Error(err),
		)
	}
}
