package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/idearoom-admin/internal/http/response"
	"github.com/yungbote/idearoom-admin/internal/http/views"
	"github.com/yungbote/idearoom-admin/internal/platform/ctxutil"
	"github.com/yungbote/idearoom-admin/internal/platform/logger"
	"github.com/yungbote/idearoom-admin/internal/services"
)

type DashboardHandler struct {
	log       *logger.Logger
	dashboard services.DashboardService
}

func NewDashboardHandler(log *logger.Logger, dashboard services.DashboardService) *DashboardHandler {
	return &DashboardHandler{log: log.With("handler", "DashboardHandler"), dashboard: dashboard}
}

func (h *DashboardHandler) Summary(c *gin.Context) {
	sum, err := h.dashboard.Summary(c.Request.Context())
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, sum)
}

// Page renders the HTML summary. A failed count shows an inline error
// rather than failing the page.
func (h *DashboardHandler) Page(c *gin.Context) {
	sd := ctxutil.GetSessionData(c.Request.Context())
	props := views.DashboardProps{Email: sd.Email}
	sum, err := h.dashboard.Summary(c.Request.Context())
	if err != nil {
		props.Error = "Could not load counts"
	} else {
		props.Counts = []views.DashboardCount{
			{Label: "Offered courses", Href: "/api/offered-courses", Count: sum.OfferedCourses},
			{Label: "Courses", Href: "/api/courses", Count: sum.Courses},
			{Label: "Blogs", Href: "/api/blogs", Count: sum.Blogs},
			{Label: "Lecturers", Href: "/api/lecturers", Count: sum.Lecturers},
			{Label: "Submissions", Href: "/api/users-form", Count: sum.Submissions},
		}
	}
	c.Status(http.StatusOK)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := views.DashboardPage(props).Render(c.Writer); err != nil {
		h.log.Error("Render dashboard failed", "error", err)
	}
}
