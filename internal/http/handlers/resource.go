package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/idearoom-admin/internal/domain"
	"github.com/yungbote/idearoom-admin/internal/http/response"
	"github.com/yungbote/idearoom-admin/internal/platform/logger"
)

// ResourceService is the part of services.Resource the HTTP layer needs.
type ResourceService[T domain.Record] interface {
	Kind() string
	ArrayFields() []string
	List(ctx context.Context) ([]*T, error)
	Get(ctx context.Context, id uint) (*T, error)
	Create(ctx context.Context, draft *T) (*T, error)
	Update(ctx context.Context, id uint, draft *T) (*T, error)
	Patch(ctx context.Context, id uint, body map[string]any) (*T, error)
	Delete(ctx context.Context, id uint) error
}

// ResourceOptions tune one resource's HTTP surface.
type ResourceOptions struct {
	// Partial makes PUT write only the fields present in the body.
	Partial bool
	// PrepareBody runs on decoded create and update bodies before array coercion.
	PrepareBody func(body map[string]any)
}

// ResourceHandler serves list/get/create/update/delete for one admin table.
type ResourceHandler[T domain.Record] struct {
	log  *logger.Logger
	svc  ResourceService[T]
	opts ResourceOptions
}

func NewResourceHandler[T domain.Record](log *logger.Logger, svc ResourceService[T], opts ResourceOptions) *ResourceHandler[T] {
	return &ResourceHandler[T]{
		log:  log.With("handler", "ResourceHandler", "kind", svc.Kind()),
		svc:  svc,
		opts: opts,
	}
}

// List returns every record newest first. A non-empty ?id= returns that record instead.
func (h *ResourceHandler[T]) List(c *gin.Context) {
	if raw := c.Query("id"); raw != "" {
		h.getByRaw(c, raw)
		return
	}
	recs, err := h.svc.List(c.Request.Context())
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	if recs == nil {
		recs = []*T{}
	}
	response.RespondOK(c, recs)
}

func (h *ResourceHandler[T]) Get(c *gin.Context) {
	h.getByRaw(c, c.Param("id"))
}

func (h *ResourceHandler[T]) getByRaw(c *gin.Context, raw string) {
	id, ok := parseID(raw)
	if !ok {
		response.RespondError(c, http.StatusNotFound, h.svc.Kind()+" not found")
		return
	}
	rec, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, rec)
}

func (h *ResourceHandler[T]) Create(c *gin.Context) {
	draft, ok := h.decodeDraft(c)
	if !ok {
		return
	}
	rec, err := h.svc.Create(c.Request.Context(), draft)
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondCreated(c, rec)
}

func (h *ResourceHandler[T]) Update(c *gin.Context) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		response.RespondError(c, http.StatusNotFound, h.svc.Kind()+" not found")
		return
	}
	h.update(c, id)
}

func (h *ResourceHandler[T]) update(c *gin.Context, id uint) {
	if h.opts.Partial {
		body, ok := decodeBody(c)
		if !ok {
			return
		}
		rec, err := h.svc.Patch(c.Request.Context(), id, body)
		if err != nil {
			response.RespondErr(c, h.log, err)
			return
		}
		response.RespondOK(c, rec)
		return
	}
	draft, ok := h.decodeDraft(c)
	if !ok {
		return
	}
	rec, err := h.svc.Update(c.Request.Context(), id, draft)
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, rec)
}

func (h *ResourceHandler[T]) Delete(c *gin.Context) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		response.RespondError(c, http.StatusNotFound, h.svc.Kind()+" not found")
		return
	}
	h.delete(c, id)
}

func (h *ResourceHandler[T]) delete(c *gin.Context, id uint) {
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"success": true, "message": h.svc.Kind() + " deleted successfully"})
}

// decodeDraft reads a full record. Missing or scalar list fields become [""].
func (h *ResourceHandler[T]) decodeDraft(c *gin.Context) (*T, bool) {
	body, ok := decodeBody(c)
	if !ok {
		return nil, false
	}
	if h.opts.PrepareBody != nil {
		h.opts.PrepareBody(body)
	}
	domain.CoerceArrayFields(body, true, h.svc.ArrayFields()...)
	raw, err := json.Marshal(body)
	if err != nil {
		response.RespondInvalidBody(c)
		return nil, false
	}
	draft := new(T)
	if err := json.Unmarshal(raw, draft); err != nil {
		response.RespondInvalidBody(c)
		return nil, false
	}
	return draft, true
}

func decodeBody(c *gin.Context) (map[string]any, bool) {
	var body map[string]any
	if err := json.NewDecoder(c.Request.Body).Decode(&body); err != nil || body == nil {
		response.RespondInvalidBody(c)
		return nil, false
	}
	return body, true
}

func parseID(raw string) (uint, bool) {
	n, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

// bodyID reads an identifier sent as a JSON number or string.
func bodyID(body map[string]any) (uint, bool) {
	switch v := body["id"].(type) {
	case float64:
		if v <= 0 || v != float64(uint(v)) {
			return 0, false
		}
		return uint(v), true
	case string:
		return parseID(v)
	default:
		return 0, false
	}
}

// NormalizeSyllabusBody replaces a missing or non-object syllabus_content with {}.
func NormalizeSyllabusBody(body map[string]any) {
	if _, ok := body["syllabus_content"].(map[string]any); !ok {
		body["syllabus_content"] = map[string]any{}
	}
}
