package db

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yungbote/idearoom-admin/internal/platform/envutil"
	"github.com/yungbote/idearoom-admin/internal/platform/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Driver     string
	Host       string
	Port       string
	User       string
	Password   string
	Name       string
	SSLMode    string
	SQLitePath string
}

func ConfigFromEnv() Config {
	return Config{
		Driver:     strings.ToLower(envutil.String("DB_DRIVER", DriverPostgres)),
		Host:       envutil.String("POSTGRES_HOST", "localhost"),
		Port:       envutil.String("POSTGRES_PORT", "5432"),
		User:       envutil.String("POSTGRES_USER", "postgres"),
		Password:   os.Getenv("POSTGRES_PASSWORD"),
		Name:       envutil.String("POSTGRES_NAME", "idearoom"),
		SSLMode:    envutil.String("POSTGRES_SSLMODE", "disable"),
		SQLitePath: envutil.String("SQLITE_PATH", "idearoom.db"),
	}
}

// PostgresDSN is also used by the LISTEN connection, which bypasses GORM.
func (c Config) PostgresDSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Host + ":" + c.Port,
		Path:     "/" + c.Name,
		RawQuery: "sslmode=" + c.SSLMode,
	}
	return u.String()
}

type DatabaseService struct {
	db     *gorm.DB
	log    *logger.Logger
	driver string
	cfg    Config
}

func NewDatabaseService(logg *logger.Logger, cfg Config) (*DatabaseService, error) {
	serviceLog := logg.With("service", "DatabaseService")

	gormLog := gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             1 * time.Second,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	gcfg := &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormLog,
	}

	var (
		theDB *gorm.DB
		err   error
	)
	switch cfg.Driver {
	case DriverPostgres, "":
		cfg.Driver = DriverPostgres
		theDB, err = gorm.Open(postgres.Open(cfg.PostgresDSN()), gcfg)
	case DriverSQLite:
		theDB, err = gorm.Open(sqlite.Open(cfg.SQLitePath), gcfg)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q (allowed: %q, %q)", cfg.Driver, DriverPostgres, DriverSQLite)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.Driver, err)
	}
	serviceLog.Info("Database connected", "driver", cfg.Driver, "host", cfg.Host, "name", cfg.Name)
	return &DatabaseService{db: theDB, log: serviceLog, driver: cfg.Driver, cfg: cfg}, nil
}

func (s *DatabaseService) DB() *gorm.DB { return s.db }
func (s *DatabaseService) Driver() string { return s.driver }
func (s *DatabaseService) IsPostgres() bool { return s.driver == DriverPostgres }
func (s *DatabaseService) Config() Config { return s.cfg }

// Migrate creates tables and indexes, and installs change triggers when requested.
func (s *DatabaseService) Migrate(withTriggers bool) error {
	if err := AutoMigrateAll(s.db); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	if err := EnsureIndexes(s.db); err != nil {
		return err
	}
	if withTriggers {
		if !s.IsPostgres() {
			s.log.Warn("Change triggers need postgres; skipping", "driver", s.driver)
			return nil
		}
		if err := EnsureChangeTriggers(s.db); err != nil {
			return err
		}
	}
	return nil
}

func (s *DatabaseService) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *DatabaseService) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
