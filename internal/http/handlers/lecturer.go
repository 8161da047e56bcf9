package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/idearoom-admin/internal/domain"
	"github.com/yungbote/idearoom-admin/internal/http/response"
)

const lecturerIDRequired = "Lecturer ID is required"

// LecturerHandler adds the collection-level update and delete the lecturer
// screens use: the id travels in the body (PUT) or the query (DELETE).
type LecturerHandler struct {
	*ResourceHandler[domain.Lecturer]
}

func NewLecturerHandler(base *ResourceHandler[domain.Lecturer]) *LecturerHandler {
	return &LecturerHandler{ResourceHandler: base}
}

func (h *LecturerHandler) UpdateByBody(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.RespondInvalidBody(c)
		return
	}
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil || body == nil {
		response.RespondInvalidBody(c)
		return
	}
	id, ok := bodyID(body)
	if !ok {
		if qid, qok := parseID(c.Query("id")); qok {
			id, ok = qid, true
		}
	}
	if !ok {
		response.RespondError(c, http.StatusBadRequest, lecturerIDRequired)
		return
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(raw))
	h.update(c, id)
}

func (h *LecturerHandler) DeleteByQuery(c *gin.Context) {
	id, ok := parseID(c.Query("id"))
	if !ok {
		response.RespondError(c, http.StatusBadRequest, lecturerIDRequired)
		return
	}
	h.delete(c, id)
}
