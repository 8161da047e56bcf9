package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/idearoom-admin/internal/platform/apierr"
	"github.com/yungbote/idearoom-admin/internal/platform/logger"
)

// ErrorEnvelope is the only error body the API writes.
type ErrorEnvelope struct {
	Error string `json:"error"`
}

const internalErrorMessage = "Internal server error"

func RespondError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, ErrorEnvelope{Error: msg})
}

// RespondErr maps a service error onto its status. Errors raised as
// apierr values carry a user-facing message; anything else that maps to a
// server error is logged and answered generically.
func RespondErr(c *gin.Context, log *logger.Logger, err error) {
	status := apierr.StatusOf(err)
	if status >= http.StatusInternalServerError && log != nil {
		log.Error("Request failed", "path", c.FullPath(), "method", c.Request.Method, "status", status, "error", err)
	}
	var ae *apierr.Error
	switch {
	case errors.Is(err, apierr.ErrInvalidBody):
		RespondError(c, status, apierr.ErrInvalidBody.Error())
	case errors.As(err, &ae), status < http.StatusInternalServerError:
		RespondError(c, status, err.Error())
	default:
		RespondError(c, status, internalErrorMessage)
	}
}

func RespondInvalidBody(c *gin.Context) {
	RespondError(c, http.StatusBadRequest, apierr.ErrInvalidBody.Error())
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}
