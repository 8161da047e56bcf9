package app

import (
	"fmt"

	"github.com/yungbote/idearoom-admin/internal/platform/gcp"
	"github.com/yungbote/idearoom-admin/internal/platform/logger"
	"github.com/yungbote/idearoom-admin/internal/realtime/bus"
)

type Clients struct {
	Buckets gcp.BucketService
	// ChangeBus is nil unless REDIS_ADDR is set.
	ChangeBus bus.Bus
}

func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	buckets, err := resolveBucketService(log)
	if err != nil {
		return Clients{}, err
	}

	var changeBus bus.Bus
	if cfg.RealtimeSource == RealtimeSourceApp && cfg.RedisAddr != "" {
		b, err := bus.NewRedisBus(log, bus.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			Channel:  cfg.RedisChannel,
		})
		if err != nil {
			return Clients{}, fmt.Errorf("init redis change bus: %w", err)
		}
		changeBus = b
	}

	return Clients{Buckets: buckets, ChangeBus: changeBus}, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.ChangeBus != nil {
		_ = c.ChangeBus.Close()
	}
}
