package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/idearoom-admin/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(domain.Models()...)
}

// EnsureIndexes backs the newest-first listing every table view uses.
func EnsureIndexes(db *gorm.DB) error {
	for _, table := range domain.Tables() {
		stmt := fmt.Sprintf(
			`CREATE INDEX IF NOT EXISTS idx_%s_created_at_desc ON %s (created_at DESC, id DESC);`,
			table, table,
		)
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create idx_%s_created_at_desc: %w", table, err)
		}
	}
	return nil
}
