// Package redisclient wraps go-redis commands with OpenTelemetry spans.
package redisclient

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Client wraps a Redis client with OpenTelemetry tracing
type Client struct {
	cmdable redis.Cmdable
}

// NewClient creates a new traced Redis client
func NewClient(client *redis.Client) *Client {
	return &Client{cmdable: client}
}

// Get wraps Redis Get with tracing
func (c *Client) Get(ctx context.Context, key string) *redis.StringCmd {
	ctx, span := startSpan(ctx, "redis.get", key)
	defer span.End()

	cmd := c.cmdable.Get(ctx, key)
	recordResult(span, cmd.Err())
	return cmd
}

// Set wraps Redis Set with tracing
func (c *Client) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	ctx, span := startSpan(ctx, "redis.set", key)
	span.SetAttributes(attribute.String("redis.expiration", expiration.String()))
	defer span.End()

	cmd := c.cmdable.Set(ctx, key, value, expiration)
	recordResult(span, cmd.Err())
	return cmd
}

// Del wraps Redis Del with tracing
func (c *Client) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	ctx, span := otel.Tracer("redis").Start(ctx, "redis.del",
		trace.WithAttributes(
			attribute.StringSlice("redis.keys", keys),
			attribute.Int("redis.key_count", len(keys)),
		),
	)
	defer span.End()

	cmd := c.cmdable.Del(ctx, keys...)
	recordResult(span, cmd.Err())
	return cmd
}

// Ping wraps Redis Ping with tracing
func (c *Client) Ping(ctx context.Context) *redis.StatusCmd {
	ctx, span := otel.Tracer("redis").Start(ctx, "redis.ping")
	defer span.End()

	cmd := c.cmdable.Ping(ctx)
	recordResult(span, cmd.Err())
	return cmd
}

func startSpan(ctx context.Context, op, key string) (context.Context, trace.Span) {
	return otel.Tracer("redis").Start(ctx, op,
		trace.WithAttributes(
			attribute.String("redis.key", key),
		),
	)
}

func recordResult(span trace.Span, err error) {
	if err != nil && err != redis.Nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}
	span.SetStatus(codes.Ok, "success")
}
