package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/yungbote/idearoom-admin/internal/data/db"
	"github.com/yungbote/idearoom-admin/internal/platform/envutil"
	"github.com/yungbote/idearoom-admin/internal/platform/logger"
	"github.com/yungbote/idearoom-admin/internal/realtime/bus"
)

type RealtimeSource string

const (
	// RealtimeSourceApp emits a change after every committed service write.
	RealtimeSourceApp RealtimeSource = "app"
	// RealtimeSourcePostgres listens to the change triggers instead, so
	// writes made outside this server are streamed too.
	RealtimeSourcePostgres RealtimeSource = "postgres"
)

type Config struct {
	Port        string
	Environment string

	DB db.Config

	AdminEmail        string
	AdminPasswordHash string
	AdminPassword     string

	SessionSecret       string
	SessionTTL          time.Duration
	SessionCookieSecure bool

	LoginRateLimit       int
	LoginRateLimitWindow time.Duration

	RealtimeSource RealtimeSource
	RedisAddr      string
	RedisPassword  string
	RedisChannel   string

	InlineImageMaxBytes int64
	UploadMaxBytes      int64

	CORSOrigins []string
	MetricsAddr string
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		Port:        envutil.String("PORT", "8080"),
		Environment: envutil.String("APP_ENV", "development"),

		DB: db.ConfigFromEnv(),

		AdminEmail:        envutil.String("ADMIN_EMAIL", ""),
		AdminPasswordHash: envutil.String("ADMIN_PASSWORD_HASH", ""),
		AdminPassword:     envutil.String("ADMIN_PASSWORD", ""),

		SessionSecret:       envutil.String("SESSION_SECRET", ""),
		SessionTTL:          envutil.Seconds("SESSION_TTL", 30*24*time.Hour),
		SessionCookieSecure: envutil.Bool("SESSION_COOKIE_SECURE", false),

		LoginRateLimit:       envutil.Int("LOGIN_RATE_LIMIT", 10),
		LoginRateLimitWindow: envutil.Seconds("LOGIN_RATE_LIMIT_WINDOW", time.Minute),

		RealtimeSource: RealtimeSource(strings.ToLower(envutil.String("REALTIME_SOURCE", string(RealtimeSourceApp)))),
		RedisAddr:      envutil.String("REDIS_ADDR", ""),
		RedisPassword:  envutil.String("REDIS_PASSWORD", ""),
		RedisChannel:   envutil.String("REDIS_CHANNEL", bus.DefaultRedisChannel),

		InlineImageMaxBytes: envutil.Int64("INLINE_IMAGE_MAX_BYTES", 0),
		UploadMaxBytes:      envutil.Int64("UPLOAD_MAX_BYTES", 0),

		CORSOrigins: envutil.List("CORS_ALLOWED_ORIGINS", nil),
		MetricsAddr: envutil.String("METRICS_ADDR", ""),
	}
	log.Info("Config loaded",
		"port", cfg.Port,
		"db_driver", cfg.DB.Driver,
		"realtime_source", cfg.RealtimeSource,
		"redis", cfg.RedisAddr != "",
		"session_ttl", cfg.SessionTTL.String(),
	)
	return cfg
}

// Validate rejects a configuration the server cannot start with.
func (c Config) Validate() error {
	if c.AdminEmail == "" {
		return fmt.Errorf("ADMIN_EMAIL is required")
	}
	if c.AdminPasswordHash == "" && c.AdminPassword == "" {
		return fmt.Errorf("ADMIN_PASSWORD_HASH or ADMIN_PASSWORD is required")
	}
	if len(c.SessionSecret) < 32 {
		return fmt.Errorf("SESSION_SECRET must be at least 32 bytes")
	}
	switch c.RealtimeSource {
	case RealtimeSourceApp:
	case RealtimeSourcePostgres:
		if c.DB.Driver != db.DriverPostgres {
			return fmt.Errorf("REALTIME_SOURCE=%s needs DB_DRIVER=%s", RealtimeSourcePostgres, db.DriverPostgres)
		}
	default:
		return fmt.Errorf("invalid REALTIME_SOURCE=%q (allowed: %q, %q)", c.RealtimeSource, RealtimeSourceApp, RealtimeSourcePostgres)
	}
	if c.LoginRateLimit < 0 {
		return fmt.Errorf("LOGIN_RATE_LIMIT must not be negative")
	}
	return nil
}
