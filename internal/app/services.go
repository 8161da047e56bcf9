package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/idearoom-admin/internal/data/repos"
	"github.com/yungbote/idearoom-admin/internal/observability"
	"github.com/yungbote/idearoom-admin/internal/platform/logger"
	"github.com/yungbote/idearoom-admin/internal/realtime"
	"github.com/yungbote/idearoom-admin/internal/services"
)

type Services struct {
	Sessions services.SessionService

	Blogs          *services.BlogService
	Courses        *services.CourseService
	OfferedCourses *services.OfferedCourseService
	Lecturers      *services.LecturerService
	UserForms      services.UserFormService
	Dashboard      services.DashboardService

	Media   services.MediaService
	Avatars services.AvatarService

	Emitter services.ChangeEmitter
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet repos.Set, clients Clients, hub *realtime.SSEHub, metrics *observability.Metrics) (Services, error) {
	log.Info("Wiring services...")

	verifier, err := wireCredentials(log, cfg)
	if err != nil {
		return Services{}, err
	}
	sessions, err := services.NewSessionService(log, verifier, cfg.SessionSecret, cfg.SessionTTL)
	if err != nil {
		return Services{}, fmt.Errorf("init session service: %w", err)
	}

	emitter := changeEmitter(log, cfg, clients, hub, metrics)

	blogs := services.NewBlogService(db, log, reposet.Blogs, emitter)
	courses := services.NewCourseService(db, log, reposet.Courses, emitter)
	offered := services.NewOfferedCourseService(db, log, reposet.OfferedCourses, emitter)
	lecturers := services.NewLecturerService(db, log, reposet.Lecturers, emitter)
	forms := services.NewUserFormService(db, log, reposet.UserForms, emitter)
	dashboard := services.NewDashboardService(log, services.DashboardCounters{
		Blogs:          blogs,
		Courses:        courses,
		OfferedCourses: offered,
		Lecturers:      lecturers,
		Submissions:    forms,
	})

	media := services.NewMediaService(log, clients.Buckets, services.MediaConfig{
		InlineMaxBytes: cfg.InlineImageMaxBytes,
		UploadMaxBytes: cfg.UploadMaxBytes,
	})
	blogs.UseMedia(media)
	avatars, err := services.NewAvatarService(log, clients.Buckets)
	if err != nil {
		return Services{}, fmt.Errorf("init avatar service: %w", err)
	}

	return Services{
		Sessions:       sessions,
		Blogs:          blogs,
		Courses:        courses,
		OfferedCourses: offered,
		Lecturers:      lecturers,
		UserForms:      forms,
		Dashboard:      dashboard,
		Media:          media,
		Avatars:        avatars,
		Emitter:        emitter,
	}, nil
}

func wireCredentials(log *logger.Logger, cfg Config) (services.CredentialVerifier, error) {
	hash := []byte(cfg.AdminPasswordHash)
	if len(hash) == 0 {
		log.Warn("ADMIN_PASSWORD_HASH not set; hashing ADMIN_PASSWORD at startup")
		h, err := services.HashPassword(cfg.AdminPassword)
		if err != nil {
			return nil, fmt.Errorf("hash admin password: %w", err)
		}
		hash = h
	}
	verifier, err := services.NewBcryptVerifier(cfg.AdminEmail, hash)
	if err != nil {
		return nil, fmt.Errorf("init credential verifier: %w", err)
	}
	return verifier, nil
}

// changeEmitter picks where committed writes go. With database triggers the
// listener feeds the hub and services stay silent; otherwise writes go to the
// redis bus when one is configured, or straight to the local hub.
func changeEmitter(log *logger.Logger, cfg Config, clients Clients, hub *realtime.SSEHub, metrics *observability.Metrics) services.ChangeEmitter {
	var next services.ChangeEmitter
	switch {
	case cfg.RealtimeSource == RealtimeSourcePostgres:
		next = services.NopEmitter{}
	case clients.ChangeBus != nil:
		next = &services.BusEmitter{Bus: clients.ChangeBus, Log: log}
	default:
		next = &services.HubEmitter{Hub: hub}
	}
	return &services.MetricsEmitter{Next: next, Metrics: metrics}
}
