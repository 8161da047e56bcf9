package app

import (
	"context"
	"fmt"
	"os"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/idearoom-admin/internal/data/db"
	apphttp "github.com/yungbote/idearoom-admin/internal/http"
	"github.com/yungbote/idearoom-admin/internal/observability"
	"github.com/yungbote/idearoom-admin/internal/platform/logger"
	"github.com/yungbote/idearoom-admin/internal/realtime"
	"github.com/yungbote/idearoom-admin/internal/realtime/bus"
)

// Version is stamped at build time with -ldflags.
var Version = "dev"

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Cfg      Config
	Hub      *realtime.SSEHub
	Server   *apphttp.Server
	Metrics  *observability.Metrics
	Services Services

	database     *db.DatabaseService
	clients      Clients
	cancel       context.CancelFunc
	otelShutdown func(context.Context) error
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)
	if err := cfg.Validate(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("config: %w", err)
	}

	database, err := db.NewDatabaseService(log, cfg.DB)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := database.Migrate(cfg.RealtimeSource == RealtimeSourcePostgres); err != nil {
		_ = database.Close()
		log.Sync()
		return nil, fmt.Errorf("database migrate: %w", err)
	}

	metrics := observability.Init(log)
	hub := realtime.NewSSEHub(log)

	clients, err := wireClients(log, cfg)
	if err != nil {
		_ = database.Close()
		log.Sync()
		return nil, err
	}

	reposet := wireRepos(database.DB(), log)
	serviceset, err := wireServices(database.DB(), log, cfg, reposet, clients, hub, metrics)
	if err != nil {
		clients.Close()
		_ = database.Close()
		log.Sync()
		return nil, err
	}
	handlerset := wireHandlers(log, cfg, serviceset, hub, database, metrics)
	middleware := wireMiddleware(log, cfg, serviceset)
	server := wireServer(log, cfg, handlerset, middleware, metrics)

	return &App{
		Log:      log,
		DB:       database.DB(),
		Cfg:      cfg,
		Hub:      hub,
		Server:   server,
		Metrics:  metrics,
		Services: serviceset,
		database: database,
		clients:  clients,
	}, nil
}

// Start launches the background pieces: tracing, metric collectors and the
// change forwarders feeding the hub.
func (a *App) Start(ctx context.Context) error {
	if a == nil {
		return fmt.Errorf("app not initialized")
	}
	if a.cancel != nil {
		return nil
	}
	ctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	a.otelShutdown = observability.InitOTel(ctx, a.Log, observability.OtelConfig{
		Environment: a.Cfg.Environment,
		Version:     Version,
	})

	a.Metrics.StartServer(ctx, a.Log, a.Cfg.MetricsAddr)
	a.Metrics.StartDBCollector(ctx, a.Log, a.DB)
	if a.Cfg.RedisAddr != "" {
		a.Metrics.StartRedisCollector(ctx, a.Log, &goredis.Options{
			Addr:     a.Cfg.RedisAddr,
			Password: a.Cfg.RedisPassword,
		})
	}

	switch {
	case a.Cfg.RealtimeSource == RealtimeSourcePostgres:
		listener := bus.NewPGListener(a.Log, a.database.Config().PostgresDSN(), db.ChangeChannel)
		if err := listener.Start(ctx, a.forward("postgres")); err != nil {
			return fmt.Errorf("start change listener: %w", err)
		}
	case a.clients.ChangeBus != nil:
		if err := a.clients.ChangeBus.StartForwarder(ctx, a.forward("redis")); err != nil {
			return fmt.Errorf("start change forwarder: %w", err)
		}
	}
	return nil
}

func (a *App) forward(source string) func(ch realtime.Change) {
	return func(ch realtime.Change) {
		a.Metrics.IncChangeForwarded(source)
		a.Hub.Publish(ch)
	}
}

// Run serves HTTP until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	addr := ":" + a.Cfg.Port
	a.Log.Info("Server listening", "addr", addr)
	return a.Server.Run(ctx, addr)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.otelShutdown != nil {
		_ = a.otelShutdown(context.Background())
	}
	a.clients.Close()
	if a.database != nil {
		_ = a.database.Close()
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
