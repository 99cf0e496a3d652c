// Package redisbus distribuye eventos de cambio entre instancias vía Redis pub/sub.
package redisbus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"civic-grievances/internal/platform/logger"
	"civic-grievances/internal/ports/realtime"

	"github.com/redis/go-redis/v9"
)

const DefaultChannel = "grievances:changes"

type Bus struct {
	client  *redis.Client
	channel string
	log     logger.Logger
}

// New parsea redisURL y verifica la conexión.
func New(ctx context.Context, redisURL, channel string, l logger.Logger) (*Bus, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return NewWithClient(client, channel, l), nil
}

func NewWithClient(client *redis.Client, channel string, l logger.Logger) *Bus {
	if channel == "" {
		channel = DefaultChannel
	}
	if l == nil {
		l = logger.Nop()
	}
	return &Bus{client: client, channel: channel, log: l.With(logger.Fields{"module": "redisbus"})}
}

func (b *Bus) Publish(ctx context.Context, ev realtime.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	if err := b.client.Publish(ctx, b.channel, payload).Err(); err != nil {
		return fmt.Errorf("redis publish: %w", err)
	}
	return nil
}

// Listen se suscribe al canal y llama fn por cada evento hasta que ctx termina.
func (b *Bus) Listen(ctx context.Context, fn func(realtime.Event)) error {
	sub := b.client.Subscribe(ctx, b.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("redis subscribe: %w", err)
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return fmt.Errorf("redis subscription closed")
			}
			var ev realtime.Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				b.log.Warn("invalid change event", logger.Fields{"err": err})
				continue
			}
			fn(ev)
		}
	}
}

func (b *Bus) Close() error {
	return b.client.Close()
}
