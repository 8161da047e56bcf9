package services

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"strings"
	"testing"

	"github.com/yungbote/idearoom-admin/internal/platform/logger"
)

func TestComputeInitials(t *testing.T) {
	cases := map[string]string{
		"nino beridze":          "NB",
		"  Giorgi  ":            "G",
		"Anna-Maria Smith":      "AS",
		"":                      "",
		"Dr. Levan Tsertsvadze": "DT",
	}
	for in, want := range cases {
		if got := computeInitials(in); got != want {
			t.Fatalf("%q: want=%q got=%q", in, want, got)
		}
	}
}

func TestRenderProducesSquarePNG(t *testing.T) {
	svc, err := NewAvatarService(logger.Nop(), newFakeBuckets())
	if err != nil {
		t.Fatalf("NewAvatarService: %v", err)
	}
	for _, name := range []string{"Nino Beridze", "ნინო ბერიძე"} {
		buf, err := svc.Render(name)
		if err != nil {
			t.Fatalf("Render %q: %v", name, err)
		}
		img, err := png.Decode(bytes.NewReader(buf.Bytes()))
		if err != nil {
			t.Fatalf("decode %q: %v", name, err)
		}
		if b := img.Bounds(); b.Dx() != avatarSize || b.Dy() != avatarSize {
			t.Fatalf("size: got=%v", b)
		}
		// Corners fall outside the circle.
		if _, _, _, a := img.At(0, 0).RGBA(); a != 0 {
			t.Fatalf("corner should be transparent")
		}
	}
}

func TestPickColorIsStable(t *testing.T) {
	svc, _ := NewAvatarService(logger.Nop(), newFakeBuckets())
	as := svc.(*avatarService)
	if as.pickColor("Nino Beridze") != as.pickColor("  nino beridze ") {
		t.Fatalf("color should not depend on case or padding")
	}
}

func TestGenerateAndFromImageUpload(t *testing.T) {
	fb := newFakeBuckets()
	svc, _ := NewAvatarService(logger.Nop(), fb)
	ctx := context.Background()

	att, err := svc.Generate(ctx, "Nino Beridze")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.HasPrefix(att.Path, "avatars/") || att.ContentType != "image/png" {
		t.Fatalf("attachment: got=%+v", att)
	}
	if _, err := svc.Generate(ctx, "  "); err == nil {
		t.Fatalf("blank name must fail")
	}

	att, err = svc.FromImage(ctx, pngBytes(t, 40, 20))
	if err != nil {
		t.Fatalf("FromImage: %v", err)
	}
	stored := fb.objects["avatar/"+att.Path]
	cfg, _, err := image.DecodeConfig(bytes.NewReader(stored))
	if err != nil || cfg.Width != avatarSize || cfg.Height != avatarSize {
		t.Fatalf("stored avatar: cfg=%+v err=%v", cfg, err)
	}
	if _, err := svc.FromImage(ctx, []byte("nope")); err != ErrNotImage {
		t.Fatalf("non-image: want ErrNotImage got=%v", err)
	}
}
