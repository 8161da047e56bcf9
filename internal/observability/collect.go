package observability

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/idearoom-admin/internal/platform/envutil"
	"github.com/yungbote/idearoom-admin/internal/platform/logger"
)

func scrapeInterval() time.Duration {
	return envutil.Seconds("METRICS_SCRAPE_INTERVAL_SECONDS", 10*time.Second)
}

// poll runs sample on every tick until ctx ends, then runs stop if set.
func poll(ctx context.Context, sample func(context.Context), stop func()) {
	go func() {
		if stop != nil {
			defer stop()
		}
		ticker := time.NewTicker(scrapeInterval())
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sample(ctx)
			}
		}
	}()
}

// StartDBCollector exports the admin database pool as idearoom_db_pool{stat}.
func (m *Metrics) StartDBCollector(ctx context.Context, log *logger.Logger, db *gorm.DB) {
	if m == nil || db == nil {
		return
	}
	if log == nil {
		log = logger.Nop()
	}
	poll(ctx, func(context.Context) {
		sqlDB, err := db.DB()
		if err != nil {
			log.Warn("metrics: db stats unavailable", "error", err)
			return
		}
		st := sqlDB.Stats()
		for stat, v := range map[string]float64{
			"open_connections":      float64(st.OpenConnections),
			"in_use":                float64(st.InUse),
			"idle":                  float64(st.Idle),
			"wait_count":            float64(st.WaitCount),
			"wait_duration_seconds": st.WaitDuration.Seconds(),
		} {
			m.dbStats.set(v, stat)
		}
	}, nil)
}

// StartRedisCollector pings the change bus redis with its own client so a
// stuck subscriber never hides an outage.
func (m *Metrics) StartRedisCollector(ctx context.Context, log *logger.Logger, opts *redis.Options) {
	if m == nil || opts == nil || strings.TrimSpace(opts.Addr) == "" {
		return
	}
	if log == nil {
		log = logger.Nop()
	}
	rdb := redis.NewClient(opts)
	poll(ctx, func(ctx context.Context) {
		start := time.Now()
		if err := rdb.Ping(ctx).Err(); err != nil {
			m.redisUp.set(0)
			log.Warn("metrics: redis ping failed", "error", err)
			return
		}
		m.redisUp.set(1)
		m.redisPing.set(time.Since(start).Seconds())
	}, func() { _ = rdb.Close() })
}
