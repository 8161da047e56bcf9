package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"path"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/google/uuid"
	_ "golang.org/x/image/webp"

	"github.com/yungbote/idearoom-admin/internal/platform/apierr"
	"github.com/yungbote/idearoom-admin/internal/platform/dbctx"
	"github.com/yungbote/idearoom-admin/internal/platform/gcp"
	"github.com/yungbote/idearoom-admin/internal/platform/logger"
)

const (
	DefaultInlineImageMaxBytes = 2 << 20
	DefaultUploadMaxBytes      = 10 << 20
	AvatarMaxBytes             = 2 << 20
)

// Attachment is what a form stores after an image was attached.
type Attachment struct {
	URL         string `json:"url"`
	Path        string `json:"path,omitempty"`
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	// Inline marks a data URI produced by the upload fallback.
	Inline bool `json:"inline,omitempty"`
}

type MediaService interface {
	Attach(ctx context.Context, category gcp.BucketCategory, filename, contentType string, r io.Reader) (*Attachment, error)
	// AttachWithInlineFallback embeds the image as a data URI when the
	// upload fails and the image fits under the inline ceiling.
	AttachWithInlineFallback(ctx context.Context, category gcp.BucketCategory, filename, contentType string, r io.Reader) (*Attachment, error)
	Detach(ctx context.Context, category gcp.BucketCategory, key string) error
}

type MediaConfig struct {
	InlineMaxBytes int64
	UploadMaxBytes int64
}

type mediaService struct {
	log     *logger.Logger
	buckets gcp.BucketService
	cfg     MediaConfig
}

func NewMediaService(log *logger.Logger, buckets gcp.BucketService, cfg MediaConfig) MediaService {
	if cfg.InlineMaxBytes <= 0 {
		cfg.InlineMaxBytes = DefaultInlineImageMaxBytes
	}
	if cfg.UploadMaxBytes <= 0 {
		cfg.UploadMaxBytes = DefaultUploadMaxBytes
	}
	return &mediaService{
		log:     log.With("service", "MediaService"),
		buckets: buckets,
		cfg:     cfg,
	}
}

type imagePayload struct {
	data        []byte
	contentType string
	ext         string
	name        string
}

func (s *mediaService) Attach(ctx context.Context, category gcp.BucketCategory, filename, contentType string, r io.Reader) (*Attachment, error) {
	img, err := s.read(category, filename, contentType, r)
	if err != nil {
		return nil, err
	}
	return s.upload(ctx, category, img)
}

func (s *mediaService) AttachWithInlineFallback(ctx context.Context, category gcp.BucketCategory, filename, contentType string, r io.Reader) (*Attachment, error) {
	img, err := s.read(category, filename, contentType, r)
	if err != nil {
		return nil, err
	}
	att, upErr := s.upload(ctx, category, img)
	if upErr == nil {
		return att, nil
	}
	size := int64(len(img.data))
	if size > s.cfg.InlineMaxBytes {
		s.log.Warn("Upload failed and image exceeds inline ceiling",
			"category", category, "size", size, "ceiling", s.cfg.InlineMaxBytes, "error", upErr)
		return nil, upErr
	}
	s.log.Warn("Upload failed; embedding image inline",
		"category", category, "size", size, "error", upErr)
	return &Attachment{
		URL:         DataURI(img.contentType, img.data),
		Name:        img.name,
		ContentType: img.contentType,
		Size:        size,
		Inline:      true,
	}, nil
}

func (s *mediaService) Detach(ctx context.Context, category gcp.BucketCategory, key string) error {
	key = strings.TrimSpace(key)
	if key == "" || strings.HasPrefix(key, "data:") {
		return nil
	}
	return s.buckets.DeleteFile(dbctx.Context{Ctx: ctx}, category, key)
}

func (s *mediaService) read(category gcp.BucketCategory, filename, contentType string, r io.Reader) (*imagePayload, error) {
	if _, ok := gcp.ParseBucketCategory(string(category)); !ok {
		return nil, apierr.Validation(fmt.Sprintf("Unknown upload category %q", category))
	}
	limit := s.cfg.UploadMaxBytes
	if category == gcp.BucketCategoryAvatar {
		limit = AvatarMaxBytes
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return nil, apierr.Validation("You must select an image to upload.")
	}
	if int64(len(data)) > limit {
		return nil, apierr.Validation(fmt.Sprintf("Image size should be less than %dMB.", limit>>20))
	}
	ct, ext, err := SniffImage(data, contentType, filename)
	if err != nil {
		return nil, err
	}
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "." || name == "/" {
		name = ""
	}
	return &imagePayload{data: data, contentType: ct, ext: ext, name: name}, nil
}

func (s *mediaService) upload(ctx context.Context, category gcp.BucketCategory, img *imagePayload) (*Attachment, error) {
	key := s.buckets.Prefix(category) + uuid.NewString() + "." + img.ext
	if err := s.buckets.UploadFile(dbctx.Context{Ctx: ctx}, category, key, img.contentType, bytes.NewReader(img.data)); err != nil {
		s.log.Warn("Upload failed", "category", category, "key", key, "error", err)
		return nil, ErrUploadFailed
	}
	return &Attachment{
		URL:         s.buckets.GetPublicURL(category, key),
		Path:        key,
		Name:        img.name,
		ContentType: img.contentType,
		Size:        int64(len(img.data)),
	}, nil
}

var (
	ErrNotImage     = apierr.Validation("File must be an image.")
	ErrUploadFailed = apierr.New(http.StatusBadGateway, "upload_failed", errors.New("Image upload failed. Please try again."))
)

// SniffImage identifies a raster image by decoding its header. SVG has no
// decoder and is accepted on its declared content type or extension.
func SniffImage(data []byte, contentType, filename string) (string, string, error) {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	if ct == "image/svg+xml" || strings.EqualFold(path.Ext(filename), ".svg") {
		if !bytes.Contains(bytes.ToLower(data[:min(len(data), 1024)]), []byte("<svg")) {
			return "", "", ErrNotImage
		}
		return "image/svg+xml", "svg", nil
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", "", ErrNotImage
	}
	switch format {
	case "jpeg":
		return "image/jpeg", "jpg", nil
	case "png", "gif", "webp":
		return "image/" + format, format, nil
	default:
		return "", "", ErrNotImage
	}
}

func DataURI(contentType string, data []byte) string {
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
