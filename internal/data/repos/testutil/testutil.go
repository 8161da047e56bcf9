package testutil

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yungbote/idearoom-admin/internal/data/db"
	"github.com/yungbote/idearoom-admin/internal/platform/logger"
)

var (
	logOnce sync.Once
	logg    *logger.Logger
	logErr  error

	dbSeq atomic.Int64
)

func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	logOnce.Do(func() {
		logg, logErr = logger.New("test")
	})
	if logErr != nil {
		tb.Fatalf("failed to init logger: %v", logErr)
	}
	return logg
}

// DB returns a migrated database private to the test. TEST_POSTGRES_DSN
// selects postgres; the default is an in-memory sqlite database.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()
	cfg := &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormLogger.Default.LogMode(gormLogger.Silent),
	}

	var (
		theDB *gorm.DB
		err   error
	)
	if dsn := strings.TrimSpace(os.Getenv("TEST_POSTGRES_DSN")); dsn != "" {
		theDB, err = gorm.Open(postgres.Open(dsn), cfg)
		if err == nil {
			theDB = theDB.Begin()
			tb.Cleanup(func() { _ = theDB.Rollback().Error })
		}
	} else {
		name := fmt.Sprintf("file:testdb_%d?mode=memory&cache=shared", dbSeq.Add(1))
		theDB, err = gorm.Open(sqlite.Open(name), cfg)
		if err == nil {
			tb.Cleanup(func() {
				if sqlDB, e := theDB.DB(); e == nil {
					_ = sqlDB.Close()
				}
			})
		}
	}
	if err != nil {
		tb.Fatalf("failed to open test db: %v", err)
	}
	if err := db.AutoMigrateAll(theDB); err != nil {
		tb.Fatalf("failed to migrate test db: %v", err)
	}
	return theDB
}
