package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/yungbote/idearoom-admin/internal/domain"
	httpH "github.com/yungbote/idearoom-admin/internal/http/handlers"
	httpMW "github.com/yungbote/idearoom-admin/internal/http/middleware"
	"github.com/yungbote/idearoom-admin/internal/observability"
	"github.com/yungbote/idearoom-admin/internal/platform/logger"
)

const serviceName = "idearoom-admin"

type RouterConfig struct {
	Log               *logger.Logger
	Metrics           *observability.Metrics
	CORSOrigins       []string
	SessionMiddleware *httpMW.SessionMiddleware
	LoginRateLimit    gin.HandlerFunc

	SessionHandler  *httpH.SessionHandler
	RealtimeHandler *httpH.RealtimeHandler
	HealthHandler   *httpH.HealthHandler

	OfferedCourseHandler *httpH.ResourceHandler[domain.OfferedCourse]
	BlogHandler          *httpH.ResourceHandler[domain.Blog]
	CourseHandler        *httpH.ResourceHandler[domain.Course]
	LecturerHandler      *httpH.LecturerHandler
	UserFormHandler      *httpH.UserFormHandler
	DashboardHandler     *httpH.DashboardHandler
	UploadHandler        *httpH.UploadHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(serviceName))
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))
	r.Use(cfg.SessionMiddleware.AttachSession())

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapF(cfg.Metrics.WriteHTTP))
	}

	// Pages
	r.GET("/", func(c *gin.Context) { c.Redirect(http.StatusSeeOther, "/dashboard") })
	r.GET("/login", cfg.SessionHandler.LoginPage)
	r.POST("/logout", cfg.SessionHandler.LogoutPage)
	if cfg.DashboardHandler != nil {
		r.GET("/dashboard", cfg.SessionMiddleware.RequirePage(), cfg.DashboardHandler.Page)
	}

	api := r.Group("/api")
	{
		// Session (public)
		login := []gin.HandlerFunc{cfg.SessionHandler.Login}
		if cfg.LoginRateLimit != nil {
			login = append([]gin.HandlerFunc{cfg.LoginRateLimit}, login...)
		}
		api.POST("/login", login...)
		api.POST("/logout", cfg.SessionHandler.Logout)
		api.GET("/session", cfg.SessionHandler.Session)
	}

	protected := api.Group("")
	protected.Use(cfg.SessionMiddleware.RequireAuth())
	{
		if h := cfg.OfferedCourseHandler; h != nil {
			protected.GET("/offered-courses", h.List)
			protected.POST("/offered-courses", h.Create)
			protected.GET("/offered-courses/:id", h.Get)
			protected.PUT("/offered-courses/:id", h.Update)
			protected.DELETE("/offered-courses/:id", h.Delete)
		}
		if h := cfg.BlogHandler; h != nil {
			protected.GET("/blogs", h.List)
			protected.POST("/blogs", h.Create)
			protected.GET("/blogs/:id", h.Get)
			protected.PUT("/blogs/:id", h.Update)
			protected.DELETE("/blogs/:id", h.Delete)
		}
		if h := cfg.CourseHandler; h != nil {
			protected.GET("/courses", h.List)
			protected.POST("/courses", h.Create)
			protected.GET("/courses/:id", h.Get)
			protected.PUT("/courses/:id", h.Update)
			protected.DELETE("/courses/:id", h.Delete)
		}
		if h := cfg.LecturerHandler; h != nil {
			protected.GET("/lecturers", h.List)
			protected.POST("/lecturers", h.Create)
			protected.PUT("/lecturers", h.UpdateByBody)
			protected.DELETE("/lecturers", h.DeleteByQuery)
			protected.GET("/lecturers/:id", h.Get)
			protected.PUT("/lecturers/:id", h.Update)
			protected.DELETE("/lecturers/:id", h.Delete)
		}
		if h := cfg.UserFormHandler; h != nil {
			protected.GET("/users-form", h.List)
			protected.DELETE("/users-form/:id", h.Delete)
		}
		if h := cfg.DashboardHandler; h != nil {
			protected.GET("/dashboard", h.Summary)
		}
		if h := cfg.UploadHandler; h != nil {
			protected.POST("/uploads/:category", h.Upload)
			protected.POST("/avatars/generate", h.GenerateAvatar)
		}
		if h := cfg.RealtimeHandler; h != nil {
			protected.GET("/realtime/stream", h.Stream)
			protected.POST("/realtime/subscribe", h.Subscribe)
			protected.POST("/realtime/unsubscribe", h.Unsubscribe)
		}
	}

	return r
}
