package repos

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/idearoom-admin/internal/domain"
	"github.com/yungbote/idearoom-admin/internal/platform/apierr"
	"github.com/yungbote/idearoom-admin/internal/platform/dbctx"
	"github.com/yungbote/idearoom-admin/internal/platform/logger"
)

// Repo is the table access shared by every admin resource.
type Repo[T domain.Record] interface {
	Table() string
	List(dbc dbctx.Context) ([]*T, error)
	Get(dbc dbctx.Context, id uint) (*T, error)
	Exists(dbc dbctx.Context, id uint) (bool, error)
	Count(dbc dbctx.Context) (int64, error)
	Create(dbc dbctx.Context, rec *T) (*T, error)
	// Update overwrites every column except id and created_at.
	Update(dbc dbctx.Context, id uint, rec *T) (*T, error)
	// UpdateFields writes only the named columns from rec.
	UpdateFields(dbc dbctx.Context, id uint, rec *T, columns []string) (*T, error)
	Delete(dbc dbctx.Context, id uint) error
}

type gormRepo[T domain.Record] struct {
	db    *gorm.DB
	log   *logger.Logger
	table string
}

func NewRepo[T domain.Record](db *gorm.DB, baseLog *logger.Logger) Repo[T] {
	var zero T
	table := zero.TableName()
	return &gormRepo[T]{
		db:    db,
		log:   baseLog.With("repo", table),
		table: table,
	}
}

func (r *gormRepo[T]) Table() string { return r.table }

func (r *gormRepo[T]) List(dbc dbctx.Context) ([]*T, error) {
	out := []*T{}
	if err := dbc.DB(r.db).
		Order("created_at DESC").
		Order("id DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *gormRepo[T]) Get(dbc dbctx.Context, id uint) (*T, error) {
	var rec T
	err := dbc.DB(r.db).Where("id = ?", id).Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%s %d: %w", r.table, id, apierr.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *gormRepo[T]) Exists(dbc dbctx.Context, id uint) (bool, error) {
	var n int64
	if err := dbc.DB(r.db).Model(new(T)).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *gormRepo[T]) Count(dbc dbctx.Context) (int64, error) {
	var n int64
	if err := dbc.DB(r.db).Model(new(T)).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *gormRepo[T]) Create(dbc dbctx.Context, rec *T) (*T, error) {
	if rec == nil {
		return nil, fmt.Errorf("%s: nil record", r.table)
	}
	if err := dbc.DB(r.db).Create(rec).Error; err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *gormRepo[T]) Update(dbc dbctx.Context, id uint, rec *T) (*T, error) {
	return r.update(dbc, id, rec, nil)
}

func (r *gormRepo[T]) UpdateFields(dbc dbctx.Context, id uint, rec *T, columns []string) (*T, error) {
	if len(columns) == 0 {
		return r.Get(dbc, id)
	}
	return r.update(dbc, id, rec, columns)
}

func (r *gormRepo[T]) update(dbc dbctx.Context, id uint, rec *T, columns []string) (*T, error) {
	if rec == nil {
		return nil, fmt.Errorf("%s: nil record", r.table)
	}
	ok, err := r.Exists(dbc, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%s %d: %w", r.table, id, apierr.ErrNotFound)
	}
	q := dbc.DB(r.db).Model(new(T)).Where("id = ?", id)
	if columns == nil {
		q = q.Select("*").Omit("id", "created_at")
	} else {
		q = q.Select(columns)
	}
	if err := q.Updates(rec).Error; err != nil {
		return nil, err
	}
	return r.Get(dbc, id)
}

func (r *gormRepo[T]) Delete(dbc dbctx.Context, id uint) error {
	res := dbc.DB(r.db).Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s %d: %w", r.table, id, apierr.ErrNotFound)
	}
	r.log.Debug("Record deleted", "id", id)
	return nil
}
