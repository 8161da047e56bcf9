package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"gorm.io/gorm"

	"github.com/yungbote/idearoom-admin/internal/data/db"
	"github.com/yungbote/idearoom-admin/internal/data/repos"
	"github.com/yungbote/idearoom-admin/internal/domain"
	"github.com/yungbote/idearoom-admin/internal/platform/apierr"
	"github.com/yungbote/idearoom-admin/internal/platform/ctxutil"
	"github.com/yungbote/idearoom-admin/internal/platform/dbctx"
	"github.com/yungbote/idearoom-admin/internal/platform/gcp"
	"github.com/yungbote/idearoom-admin/internal/platform/logger"
	"github.com/yungbote/idearoom-admin/internal/realtime"
)

// PatchField is a body field a partial update may write.
type PatchField struct {
	Field  string
	Column string
	// SkipFalsy drops the field from the update unless it carries a truthy value.
	SkipFalsy bool
}

// Schema describes one admin resource.
type Schema[T domain.Record] struct {
	// Kind is the human label used in messages, e.g. "Offered course".
	Kind        string
	ArrayFields []string
	// Patch is nil for resources without partial updates.
	Patch []PatchField
	// Shape normalizes a draft before validation.
	Shape    func(rec *T)
	Validate func(rec *T) error
	// Finalize derives stored values from a validated draft.
	Finalize func(rec *T)
	// SetID assigns the identifier a full update targets.
	SetID func(rec *T, id uint)
	// Attachment names the stored object a record owns; it is detached
	// once the record is deleted.
	Attachment func(rec *T) (gcp.BucketCategory, string)
}

// Resource is the generic create/read/update/delete flow shared by every
// admin table: shape the draft, validate it, write it under the caller's
// session, then emit the change.
type Resource[T domain.Record] struct {
	db      *gorm.DB
	log     *logger.Logger
	repo    repos.Repo[T]
	schema  Schema[T]
	emitter ChangeEmitter
	media   MediaService
}

func NewResource[T domain.Record](gdb *gorm.DB, baseLog *logger.Logger, repo repos.Repo[T], schema Schema[T], emitter ChangeEmitter) *Resource[T] {
	if emitter == nil {
		emitter = NopEmitter{}
	}
	return &Resource[T]{
		db:      gdb,
		log:     baseLog.With("service", "Resource", "table", repo.Table()),
		repo:    repo,
		schema:  schema,
		emitter: emitter,
	}
}

// UseMedia lets Delete remove the record's stored attachment.
func (s *Resource[T]) UseMedia(media MediaService) *Resource[T] {
	s.media = media
	return s
}

func (s *Resource[T]) Table() string { return s.repo.Table() }

func (s *Resource[T]) Kind() string { return s.schema.Kind }

// ArrayFields lists the list-typed body fields of the resource.
func (s *Resource[T]) ArrayFields() []string { return s.schema.ArrayFields }

func (s *Resource[T]) List(ctx context.Context) ([]*T, error) {
	return s.repo.List(dbctx.Context{Ctx: ctx})
}

func (s *Resource[T]) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(dbctx.Context{Ctx: ctx})
}

func (s *Resource[T]) Get(ctx context.Context, id uint) (*T, error) {
	rec, err := s.repo.Get(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return nil, s.mapNotFound(err)
	}
	return rec, nil
}

// Save inserts a draft without an identifier and fully updates one that has it.
func (s *Resource[T]) Save(ctx context.Context, draft *T) (*T, error) {
	if draft == nil {
		return nil, apierr.ErrInvalidBody
	}
	if id := (*draft).GetID(); id != 0 {
		return s.Update(ctx, id, draft)
	}
	return s.Create(ctx, draft)
}

func (s *Resource[T]) Create(ctx context.Context, draft *T) (*T, error) {
	if draft == nil {
		return nil, apierr.ErrInvalidBody
	}
	if err := s.prepare(draft); err != nil {
		return nil, err
	}
	if s.schema.SetID != nil {
		s.schema.SetID(draft, 0)
	}
	var out *T
	err := s.write(ctx, func(dbc dbctx.Context) error {
		created, err := s.repo.Create(dbc, draft)
		out = created
		return err
	})
	if err != nil {
		return nil, err
	}
	s.emit(ctx, realtime.ChangeInsert, (*out).GetID(), out)
	return out, nil
}

// Update overwrites every column of an existing record with the draft.
func (s *Resource[T]) Update(ctx context.Context, id uint, draft *T) (*T, error) {
	if draft == nil {
		return nil, apierr.ErrInvalidBody
	}
	ok, err := s.repo.Exists(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, s.mapNotFound(apierr.ErrNotFound)
	}
	if s.schema.SetID != nil {
		s.schema.SetID(draft, id)
	}
	if err := s.prepare(draft); err != nil {
		return nil, err
	}
	var out *T
	err = s.write(ctx, func(dbc dbctx.Context) error {
		updated, err := s.repo.Update(dbc, id, draft)
		out = updated
		return err
	})
	if err != nil {
		return nil, s.mapNotFound(err)
	}
	s.emit(ctx, realtime.ChangeUpdate, id, out)
	return out, nil
}

// Patch writes only the fields present in body. Array fields are coerced the
// same way as on full writes; the merged record must still validate.
func (s *Resource[T]) Patch(ctx context.Context, id uint, body map[string]any) (*T, error) {
	if len(s.schema.Patch) == 0 {
		return nil, fmt.Errorf("%s: partial update unsupported", s.Table())
	}
	if body == nil {
		return nil, apierr.ErrInvalidBody
	}
	domain.CoerceArrayFields(body, false, s.schema.ArrayFields...)

	fields, columns := s.selectPatch(body)
	if len(columns) == 0 {
		return nil, apierr.Validation("No fields to update")
	}

	dbc := dbctx.Context{Ctx: ctx}
	current, err := s.repo.Get(dbc, id)
	if err != nil {
		return nil, s.mapNotFound(err)
	}
	merged, err := overlay(current, fields)
	if err != nil {
		return nil, apierr.ErrInvalidBody
	}
	if err := s.prepare(merged); err != nil {
		return nil, err
	}

	var out *T
	err = s.write(ctx, func(dbc dbctx.Context) error {
		updated, err := s.repo.UpdateFields(dbc, id, merged, columns)
		out = updated
		return err
	})
	if err != nil {
		return nil, s.mapNotFound(err)
	}
	s.emit(ctx, realtime.ChangeUpdate, id, out)
	return out, nil
}

// selectPatch picks the writable fields out of body. It returns no columns
// when none of the writable fields carries a truthy value.
func (s *Resource[T]) selectPatch(body map[string]any) (map[string]any, []string) {
	anyTruthy := false
	fields := map[string]any{}
	columns := []string{}
	for _, pf := range s.schema.Patch {
		v, ok := body[pf.Field]
		if !ok {
			continue
		}
		truthy := domain.Truthy(v)
		anyTruthy = anyTruthy || truthy
		if pf.SkipFalsy && !truthy {
			continue
		}
		fields[pf.Field] = v
		columns = append(columns, pf.Column)
	}
	if !anyTruthy {
		return nil, nil
	}
	sort.Strings(columns)
	return fields, columns
}

func (s *Resource[T]) Delete(ctx context.Context, id uint) error {
	var owned *T
	if s.media != nil && s.schema.Attachment != nil {
		owned, _ = s.repo.Get(dbctx.Context{Ctx: ctx}, id)
	}
	err := s.write(ctx, func(dbc dbctx.Context) error {
		return s.repo.Delete(dbc, id)
	})
	if err != nil {
		return s.mapNotFound(err)
	}
	s.emit(ctx, realtime.ChangeDelete, id, nil)
	if owned != nil {
		category, key := s.schema.Attachment(owned)
		if err := s.media.Detach(ctx, category, key); err != nil {
			s.log.Warn("Failed to remove attachment of deleted record", "id", id, "key", key, "error", err)
		}
	}
	return nil
}

func (s *Resource[T]) prepare(rec *T) error {
	if s.schema.Shape != nil {
		s.schema.Shape(rec)
	}
	if s.schema.Validate != nil {
		if err := s.schema.Validate(rec); err != nil {
			return err
		}
	}
	if s.schema.Finalize != nil {
		s.schema.Finalize(rec)
	}
	return nil
}

func (s *Resource[T]) write(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	return db.WithActor(dbctx.Context{Ctx: ctx}, s.db, ctxutil.Actor(ctx), fn)
}

func (s *Resource[T]) emit(ctx context.Context, typ realtime.ChangeType, id uint, rec *T) {
	var payload any
	if rec != nil {
		payload = rec
	}
	ch, err := realtime.NewChange(s.Table(), typ, id, payload, ctxutil.Actor(ctx))
	if err != nil {
		s.log.Warn("Failed to build change", "type", typ, "id", id, "error", err)
		return
	}
	s.emitter.Emit(ctx, ch)
}

func (s *Resource[T]) mapNotFound(err error) error {
	if errors.Is(err, apierr.ErrNotFound) {
		var ae *apierr.Error
		if errors.As(err, &ae) {
			return err
		}
		return apierr.NotFound(s.schema.Kind + " not found")
	}
	return err
}

// overlay applies JSON fields onto a copy of rec.
func overlay[T any](rec *T, fields map[string]any) (*T, error) {
	raw, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}
	var merged map[string]any
	if err := json.Unmarshal(raw, &merged); err != nil {
		return nil, err
	}
	for k, v := range fields {
		merged[k] = v
	}
	raw, err = json.Marshal(merged)
	if err != nil {
		return nil, err
	}
	out := new(T)
	if err := json.Unmarshal(raw, out); err != nil {
		return nil, err
	}
	return out, nil
}
