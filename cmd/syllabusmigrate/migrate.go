package main

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/idearoom-admin/internal/data/db"
	"github.com/yungbote/idearoom-admin/internal/domain"
	"github.com/yungbote/idearoom-admin/internal/platform/dbctx"
)

const actor = "syllabusmigrate"

// rawRow skips OfferedCourse.AfterFind, which would hide the legacy shape.
type rawRow struct {
	ID              uint   `gorm:"column:id"`
	Title           string `gorm:"column:title"`
	SyllabusTitle   []byte `gorm:"column:syllabus_title"`
	SyllabusContent []byte `gorm:"column:syllabus_content"`
}

// RowReport keeps orphaned legacy content verbatim, keyed by its old title,
// since the row itself no longer holds it after migration.
type RowReport struct {
	ID       uint                         `yaml:"id"`
	Title    string                       `yaml:"title"`
	Sections []string                     `yaml:"sections"`
	Orphans  map[string]map[string]string `yaml:"orphans,omitempty"`
}

type Report struct {
	DryRun   bool        `yaml:"dry_run"`
	Scanned  int         `yaml:"scanned"`
	Migrated int         `yaml:"migrated"`
	Rows     []RowReport `yaml:"rows,omitempty"`
}

// migrate rewrites every offered course whose syllabus_content still uses
// title keys into the sectioned shape. Content under a key that matches no
// title leaves the row and is carried in the report's orphans.
func migrate(ctx context.Context, gdb *gorm.DB, dryRun bool) (*Report, error) {
	var rows []rawRow
	err := gdb.WithContext(ctx).
		Table(domain.TableOfferedCourses).
		Select("id", "title", "syllabus_title", "syllabus_content").
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load offered courses: %w", err)
	}

	report := &Report{DryRun: dryRun, Scanned: len(rows)}
	for _, row := range rows {
		s := domain.ParseSyllabusContent(row.SyllabusContent)
		if !s.HasLegacy() {
			continue
		}
		var titles []string
		if len(row.SyllabusTitle) > 0 {
			if err := json.Unmarshal(row.SyllabusTitle, &titles); err != nil {
				return report, fmt.Errorf("offered course %d: decode syllabus_title: %w", row.ID, err)
			}
		}
		migrated, orphans := domain.MigrateLegacySyllabus(titles, s)
		titles, migrated = domain.ReconcileSyllabus(titles, migrated)
		report.Rows = append(report.Rows, RowReport{
			ID:       row.ID,
			Title:    row.Title,
			Sections: titles,
			Orphans:  orphans,
		})
		if dryRun {
			continue
		}
		err := db.WithActor(dbctx.From(ctx), gdb, actor, func(dbc dbctx.Context) error {
			return dbc.Tx.Table(domain.TableOfferedCourses).
				Where("id = ?", row.ID).
				UpdateColumns(map[string]any{
					"syllabus_content": datatypes.NewJSONType(migrated),
					"syllabus_title":   domain.NormalizeStrings(titles),
				}).Error
		})
		if err != nil {
			return report, fmt.Errorf("offered course %d: %w", row.ID, err)
		}
		report.Migrated++
	}
	return report, nil
}
