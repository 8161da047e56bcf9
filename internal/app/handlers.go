package app

import (
	"github.com/yungbote/idearoom-admin/internal/domain"
	httpH "github.com/yungbote/idearoom-admin/internal/http/handlers"
	"github.com/yungbote/idearoom-admin/internal/observability"
	"github.com/yungbote/idearoom-admin/internal/platform/logger"
	"github.com/yungbote/idearoom-admin/internal/realtime"
)

type Handlers struct {
	Session       *httpH.SessionHandler
	Realtime      *httpH.RealtimeHandler
	Health        *httpH.HealthHandler
	OfferedCourse *httpH.ResourceHandler[domain.OfferedCourse]
	Blog          *httpH.ResourceHandler[domain.Blog]
	Course        *httpH.ResourceHandler[domain.Course]
	Lecturer      *httpH.LecturerHandler
	UserForm      *httpH.UserFormHandler
	Dashboard     *httpH.DashboardHandler
	Upload        *httpH.UploadHandler
}

func wireHandlers(log *logger.Logger, cfg Config, services Services, hub *realtime.SSEHub, db httpH.Pinger, metrics *observability.Metrics) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Session:  httpH.NewSessionHandler(log, services.Sessions, metrics, cfg.SessionCookieSecure),
		Realtime: httpH.NewRealtimeHandler(log, hub, metrics),
		Health:   httpH.NewHealthHandler(db),
		OfferedCourse: httpH.NewResourceHandler[domain.OfferedCourse](log, services.OfferedCourses, httpH.ResourceOptions{
			PrepareBody: httpH.NormalizeSyllabusBody,
		}),
		Blog:      httpH.NewResourceHandler[domain.Blog](log, services.Blogs, httpH.ResourceOptions{Partial: true}),
		Course:    httpH.NewResourceHandler[domain.Course](log, services.Courses, httpH.ResourceOptions{Partial: true}),
		Lecturer:  httpH.NewLecturerHandler(httpH.NewResourceHandler[domain.Lecturer](log, services.Lecturers, httpH.ResourceOptions{})),
		UserForm:  httpH.NewUserFormHandler(log, services.UserForms),
		Dashboard: httpH.NewDashboardHandler(log, services.Dashboard),
		Upload:    httpH.NewUploadHandler(log, services.Media, services.Avatars, metrics),
	}
}
