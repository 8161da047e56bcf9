package app

import (
	apphttp "github.com/yungbote/idearoom-admin/internal/http"
	"github.com/yungbote/idearoom-admin/internal/observability"
	"github.com/yungbote/idearoom-admin/internal/platform/logger"
)

func wireServer(log *logger.Logger, cfg Config, handlers Handlers, mw Middleware, metrics *observability.Metrics) *apphttp.Server {
	log.Info("Wiring router...")
	return apphttp.NewServer(apphttp.RouterConfig{
		Log:               log,
		Metrics:           metrics,
		CORSOrigins:       cfg.CORSOrigins,
		SessionMiddleware: mw.Session,
		LoginRateLimit:    mw.LoginRateLimit,

		SessionHandler:  handlers.Session,
		RealtimeHandler: handlers.Realtime,
		HealthHandler:   handlers.Health,

		OfferedCourseHandler: handlers.OfferedCourse,
		BlogHandler:          handlers.Blog,
		CourseHandler:        handlers.Course,
		LecturerHandler:      handlers.Lecturer,
		UserFormHandler:      handlers.UserForm,
		DashboardHandler:     handlers.Dashboard,
		UploadHandler:        handlers.Upload,
	})
}
