package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/plantmetric/plantmetric-backend/internal/logger"
	"github.com/plantmetric/plantmetric-backend/internal/types"
)

// AlertBus fans alerts out to other backend instances so every connected
// dashboard sees them, whichever instance raised them.
type AlertBus interface {
	Publish(ctx context.Context, alert *types.Alert) error
	StartForwarder(ctx context.Context, onAlert func(a *types.Alert)) error
	Close() error
}

type redisAlertBus struct {
	log     *logger.Logger
	rdb     *redis.Client
	channel string
}

func NewRedisAlertBus(log *logger.Logger) (AlertBus, error) {
	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	ch := strings.TrimSpace(os.Getenv("REDIS_ALERT_CHANNEL"))
	if ch == "" {
		ch = "alerts"
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &redisAlertBus{
		log:     log.With("service", "RedisAlertBus"),
		rdb:     rdb,
		channel: ch,
	}, nil
}

func (b *redisAlertBus) Publish(ctx context.Context, alert *types.Alert) error {
	raw, err := json.Marshal(alert)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, b.channel, raw).Err()
}

func (b *redisAlertBus) StartForwarder(ctx context.Context, onAlert func(a *types.Alert)) error {
	sub := b.rdb.Subscribe(ctx, b.channel)

	// ensures subscription actually started
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis subscribe: %w", err)
	}

	go func() {
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				_ = sub.Close()
				return
			case m, ok := <-ch:
				if !ok || m == nil {
					return
				}
				var alert types.Alert
				if err := json.Unmarshal([]byte(m.Payload), &alert); err != nil {
					b.log.Warn("bad redis alert payload", "error", err)
					continue
				}
				onAlert(&alert)
			}
		}
	}()

	return nil
}

func (b *redisAlertBus) Close() error {
	if b == nil || b.rdb == nil {
		return nil
	}
	return b.rdb.Close()
}
