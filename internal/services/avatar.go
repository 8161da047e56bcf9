package services

import (
	"bytes"
	"context"
	"fmt"
	"hash/fnv"
	"image"
	"image/color"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/google/uuid"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/yungbote/idearoom-admin/internal/platform/apierr"
	"github.com/yungbote/idearoom-admin/internal/platform/dbctx"
	"github.com/yungbote/idearoom-admin/internal/platform/gcp"
	"github.com/yungbote/idearoom-admin/internal/platform/logger"
)

const avatarSize = 512

// AvatarService renders lecturer portraits: an initials placeholder for
// lecturers without a photo, or a circular crop of an uploaded one.
type AvatarService interface {
	Generate(ctx context.Context, fullName string) (*Attachment, error)
	FromImage(ctx context.Context, raw []byte) (*Attachment, error)
	Render(fullName string) (bytes.Buffer, error)
}

type avatarService struct {
	log      *logger.Logger
	buckets  gcp.BucketService
	font     *truetype.Font
	fontFace font.Face
	palette  []color.NRGBA
}

var avatarPalette = []color.NRGBA{
	{R: 0x1E, G: 0x88, B: 0xE5, A: 0xFF},
	{R: 0x43, G: 0xA0, B: 0x47, A: 0xFF},
	{R: 0xE5, G: 0x39, B: 0x35, A: 0xFF},
	{R: 0x8E, G: 0x24, B: 0xAA, A: 0xFF},
	{R: 0xFB, G: 0x8C, B: 0x00, A: 0xFF},
	{R: 0x00, G: 0x89, B: 0x7B, A: 0xFF},
	{R: 0x3F, G: 0x51, B: 0xB5, A: 0xFF},
	{R: 0x6D, G: 0x4C, B: 0x41, A: 0xFF},
}

func NewAvatarService(log *logger.Logger, buckets gcp.BucketService) (AvatarService, error) {
	parsed, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse avatar font: %w", err)
	}
	face := truetype.NewFace(parsed, &truetype.Options{
		Size:    206,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	return &avatarService{
		log:      log.With("service", "AvatarService"),
		buckets:  buckets,
		font:     parsed,
		fontFace: face,
		palette:  avatarPalette,
	}, nil
}

func (as *avatarService) Generate(ctx context.Context, fullName string) (*Attachment, error) {
	if strings.TrimSpace(fullName) == "" {
		return nil, apierr.Validation("Full name is required")
	}
	buf, err := as.Render(fullName)
	if err != nil {
		return nil, err
	}
	return as.store(ctx, buf.Bytes())
}

func (as *avatarService) FromImage(ctx context.Context, raw []byte) (*Attachment, error) {
	if len(raw) > AvatarMaxBytes {
		return nil, apierr.Validation("Image size should be less than 2MB.")
	}
	processed, err := processUploadedAvatar(raw, avatarSize)
	if err != nil {
		return nil, err
	}
	return as.store(ctx, processed.Bytes())
}

func (as *avatarService) store(ctx context.Context, png []byte) (*Attachment, error) {
	key := as.buckets.Prefix(gcp.BucketCategoryAvatar) + uuid.NewString() + ".png"
	if err := as.buckets.UploadFile(dbctx.Context{Ctx: ctx}, gcp.BucketCategoryAvatar, key, "image/png", bytes.NewReader(png)); err != nil {
		as.log.Warn("Avatar upload failed", "key", key, "error", err)
		return nil, ErrUploadFailed
	}
	return &Attachment{
		URL:         as.buckets.GetPublicURL(gcp.BucketCategoryAvatar, key),
		Path:        key,
		Name:        "avatar.png",
		ContentType: "image/png",
		Size:        int64(len(png)),
	}, nil
}

func (as *avatarService) Render(fullName string) (bytes.Buffer, error) {
	dc := gg.NewContext(avatarSize, avatarSize)

	dc.DrawCircle(float64(avatarSize)/2, float64(avatarSize)/2, float64(avatarSize)/2)
	dc.Clip()

	dc.SetColor(as.pickColor(fullName))
	dc.DrawRectangle(0, 0, float64(avatarSize), float64(avatarSize))
	dc.Fill()

	// Glyphs the font lacks are skipped; a name with none left gets a plain disc.
	if initials := as.drawable(computeInitials(fullName)); initials != "" {
		dc.SetFontFace(as.fontFace)
		tw, th := dc.MeasureString(initials)
		cx, cy := float64(avatarSize)/2, float64(avatarSize)/2
		dc.SetColor(color.White)
		dc.DrawString(initials, cx-(tw/2)+5, cy+(th/2)-10)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return buf, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf, nil
}

func (as *avatarService) drawable(s string) string {
	var b strings.Builder
	for _, r := range s {
		if as.font.Index(r) != 0 {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// pickColor is stable per name so regenerating keeps the same background.
func (as *avatarService) pickColor(name string) color.NRGBA {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(strings.TrimSpace(name))))
	return as.palette[h.Sum32()%uint32(len(as.palette))]
}

func processUploadedAvatar(raw []byte, size int) (bytes.Buffer, error) {
	var out bytes.Buffer

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return out, ErrNotImage
	}

	b := img.Bounds()
	w := b.Dx()
	h := b.Dy()
	side := w
	if h < w {
		side = h
	}
	x0 := b.Min.X + (w-side)/2
	y0 := b.Min.Y + (h-side)/2

	cropRect := image.Rect(0, 0, side, side)
	cropped := image.NewRGBA(cropRect)
	draw.Draw(cropped, cropRect, img, image.Point{X: x0, Y: y0}, draw.Src)

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), cropped, cropped.Bounds(), draw.Over, nil)

	dc := gg.NewContext(size, size)
	dc.DrawCircle(float64(size)/2, float64(size)/2, float64(size)/2)
	dc.Clip()
	dc.DrawImage(dst, 0, 0)

	if err := dc.EncodePNG(&out); err != nil {
		return out, fmt.Errorf("encode png: %w", err)
	}
	return out, nil
}

// computeInitials takes the first letter of the first and last words.
func computeInitials(fullName string) string {
	words := strings.FieldsFunc(fullName, func(r rune) bool {
		return unicode.IsSpace(r) || r == '-' || r == '.'
	})
	if len(words) == 0 {
		return ""
	}
	first := func(s string) string {
		r, _ := utf8.DecodeRuneInString(s)
		return string(unicode.ToTitle(r))
	}
	if len(words) == 1 {
		return first(words[0])
	}
	return first(words[0]) + first(words[len(words)-1])
}
