package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/yungbote/idearoom-admin/internal/data/db"
	"github.com/yungbote/idearoom-admin/internal/data/repos"
	"github.com/yungbote/idearoom-admin/internal/domain"
	"github.com/yungbote/idearoom-admin/internal/platform/apierr"
	"github.com/yungbote/idearoom-admin/internal/platform/ctxutil"
	"github.com/yungbote/idearoom-admin/internal/platform/dbctx"
	"github.com/yungbote/idearoom-admin/internal/platform/logger"
	"github.com/yungbote/idearoom-admin/internal/realtime"
)

// UserFormService exposes intake form submissions. Rows are created by the
// public site, so the admin side only lists and deletes them.
type UserFormService interface {
	List(ctx context.Context) ([]*domain.UserFormSubmission, error)
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
}

type userFormService struct {
	db      *gorm.DB
	log     *logger.Logger
	repo    repos.Repo[domain.UserFormSubmission]
	emitter ChangeEmitter
}

func NewUserFormService(gdb *gorm.DB, baseLog *logger.Logger, repo repos.Repo[domain.UserFormSubmission], emitter ChangeEmitter) UserFormService {
	if emitter == nil {
		emitter = NopEmitter{}
	}
	return &userFormService{
		db:      gdb,
		log:     baseLog.With("service", "UserFormService"),
		repo:    repo,
		emitter: emitter,
	}
}

func (s *userFormService) List(ctx context.Context) ([]*domain.UserFormSubmission, error) {
	return s.repo.List(dbctx.Context{Ctx: ctx})
}

func (s *userFormService) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(dbctx.Context{Ctx: ctx})
}

func (s *userFormService) Delete(ctx context.Context, id uint) error {
	actor := ctxutil.Actor(ctx)
	err := db.WithActor(dbctx.Context{Ctx: ctx}, s.db, actor, func(dbc dbctx.Context) error {
		return s.repo.Delete(dbc, id)
	})
	if errors.Is(err, apierr.ErrNotFound) {
		return apierr.NotFound("Submission not found")
	}
	if err != nil {
		return err
	}
	ch, _ := realtime.NewChange(domain.TableUserForms, realtime.ChangeDelete, id, nil, actor)
	s.emitter.Emit(ctx, ch)
	return nil
}
