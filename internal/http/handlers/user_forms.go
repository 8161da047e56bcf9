package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/idearoom-admin/internal/domain"
	"github.com/yungbote/idearoom-admin/internal/http/response"
	"github.com/yungbote/idearoom-admin/internal/platform/logger"
	"github.com/yungbote/idearoom-admin/internal/services"
)

type UserFormHandler struct {
	log *logger.Logger
	svc services.UserFormService
}

func NewUserFormHandler(log *logger.Logger, svc services.UserFormService) *UserFormHandler {
	return &UserFormHandler{log: log.With("handler", "UserFormHandler"), svc: svc}
}

func (h *UserFormHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	if list == nil {
		list = []*domain.UserFormSubmission{}
	}
	response.RespondOK(c, list)
}

func (h *UserFormHandler) Delete(c *gin.Context) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		response.RespondError(c, http.StatusNotFound, "Submission not found")
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"success": true, "message": "Submission deleted successfully"})
}
