package bus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/idearoom-admin/internal/platform/logger"
	"github.com/yungbote/idearoom-admin/internal/realtime"
)

const DefaultRedisChannel = "idearoom:changes"

var errBusClosed = errors.New("redis change bus not initialized")

type RedisConfig struct {
	Addr     string
	Password string
	Channel  string
}

// redisBus relays committed changes between admin instances over one pub/sub
// channel. Payloads use the same JSON as the postgres trigger notifications.
type redisBus struct {
	log     *logger.Logger
	rdb     goredis.UniversalClient
	channel string
}

func NewRedisBus(log *logger.Logger, cfg RedisConfig) (Bus, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if cfg.Addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DialTimeout: 5 * time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	return newRedisBusWithClient(log, rdb, cfg.Channel), nil
}

func newRedisBusWithClient(log *logger.Logger, rdb goredis.UniversalClient, channel string) *redisBus {
	if channel == "" {
		channel = DefaultRedisChannel
	}
	return &redisBus{log: log.With("service", "RedisChangeBus", "channel", channel), rdb: rdb, channel: channel}
}

func (b *redisBus) Publish(ctx context.Context, ch realtime.Change) error {
	if b == nil || b.rdb == nil {
		return errBusClosed
	}
	raw, err := json.Marshal(ch)
	if err != nil {
		return fmt.Errorf("encode %s change: %w", ch.Table, err)
	}
	return b.rdb.Publish(ctx, b.channel, raw).Err()
}

// StartForwarder subscribes before returning so no change published after it
// returns is missed. Delivery stops when ctx ends.
func (b *redisBus) StartForwarder(ctx context.Context, onChange func(ch realtime.Change)) error {
	if b == nil || b.rdb == nil {
		return errBusClosed
	}
	if onChange == nil {
		return fmt.Errorf("onChange callback required")
	}
	sub := b.rdb.Subscribe(ctx, b.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis subscribe: %w", err)
	}
	go b.forward(ctx, sub, onChange)
	return nil
}

func (b *redisBus) forward(ctx context.Context, sub *goredis.PubSub, onChange func(ch realtime.Change)) {
	defer sub.Close()
	msgs := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case m, ok := <-msgs:
			if !ok {
				return
			}
			ch, err := ParseNotification(m.Payload)
			if err != nil {
				b.log.Warn("bad redis change payload", "error", err)
				continue
			}
			onChange(ch)
		}
	}
}

func (b *redisBus) Close() error {
	if b == nil || b.rdb == nil {
		return nil
	}
	return b.rdb.Close()
}
