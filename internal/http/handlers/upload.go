package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/idearoom-admin/internal/http/response"
	"github.com/yungbote/idearoom-admin/internal/observability"
	"github.com/yungbote/idearoom-admin/internal/platform/gcp"
	"github.com/yungbote/idearoom-admin/internal/platform/logger"
	"github.com/yungbote/idearoom-admin/internal/services"
)

type UploadHandler struct {
	log     *logger.Logger
	media   services.MediaService
	avatars services.AvatarService
	metrics *observability.Metrics
}

func NewUploadHandler(log *logger.Logger, media services.MediaService, avatars services.AvatarService, metrics *observability.Metrics) *UploadHandler {
	return &UploadHandler{
		log:     log.With("handler", "UploadHandler"),
		media:   media,
		avatars: avatars,
		metrics: metrics,
	}
}

// Upload stores the multipart "file" in the bucket named by :category. With
// inline_fallback=true a failed upload may come back as a data URI.
func (h *UploadHandler) Upload(c *gin.Context) {
	category, ok := gcp.ParseBucketCategory(c.Param("category"))
	if !ok {
		response.RespondError(c, http.StatusBadRequest, "Unknown upload category")
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "You must select an image to upload.")
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.RespondInvalidBody(c)
		return
	}
	defer f.Close()

	var att *services.Attachment
	switch {
	case category == gcp.BucketCategoryAvatar:
		att, err = h.fromAvatar(c, f)
	case inlineFallback(c):
		att, err = h.media.AttachWithInlineFallback(c.Request.Context(), category, fh.Filename, fh.Header.Get("Content-Type"), f)
	default:
		att, err = h.media.Attach(c.Request.Context(), category, fh.Filename, fh.Header.Get("Content-Type"), f)
	}
	if err != nil {
		h.metrics.IncUpload(string(category), "failed")
		response.RespondErr(c, h.log, err)
		return
	}
	outcome := "uploaded"
	if att.Inline {
		outcome = "inline"
	}
	h.metrics.IncUpload(string(category), outcome)
	response.RespondCreated(c, att)
}

func (h *UploadHandler) fromAvatar(c *gin.Context, r io.Reader) (*services.Attachment, error) {
	raw, err := io.ReadAll(io.LimitReader(r, services.AvatarMaxBytes+1))
	if err != nil {
		return nil, err
	}
	return h.avatars.FromImage(c.Request.Context(), raw)
}

// GenerateAvatar renders an initials placeholder for a lecturer without a photo.
func (h *UploadHandler) GenerateAvatar(c *gin.Context) {
	var req struct {
		FullName string `json:"fullName"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondInvalidBody(c)
		return
	}
	att, err := h.avatars.Generate(c.Request.Context(), req.FullName)
	if err != nil {
		h.metrics.IncUpload(string(gcp.BucketCategoryAvatar), "failed")
		response.RespondErr(c, h.log, err)
		return
	}
	h.metrics.IncUpload(string(gcp.BucketCategoryAvatar), "generated")
	response.RespondCreated(c, att)
}

func inlineFallback(c *gin.Context) bool {
	v, err := strconv.ParseBool(c.PostForm("inline_fallback"))
	return err == nil && v
}
