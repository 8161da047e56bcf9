package gcp

import (
	"errors"
	"testing"
)

func clearStorageEnv(t *testing.T) {
	t.Helper()
	t.Setenv("OBJECT_STORAGE_MODE", "")
	t.Setenv("STORAGE_EMULATOR_HOST", "")
	t.Setenv("OBJECT_STORAGE_PUBLIC_BASE_URL", "")
	for _, def := range bucketDefaults {
		t.Setenv(def.env+"_GCS_BUCKET_NAME", "")
		t.Setenv(def.env+"_CDN_DOMAIN", "")
	}
}

func TestResolveObjectStorageConfigDefaults(t *testing.T) {
	clearStorageEnv(t)

	cfg, err := ResolveObjectStorageConfigFromEnv()
	if err != nil {
		t.Fatalf("ResolveObjectStorageConfigFromEnv: %v", err)
	}
	if cfg.Mode != ObjectStorageModeGCS {
		t.Fatalf("mode: want=%q got=%q", ObjectStorageModeGCS, cfg.Mode)
	}
	cases := map[BucketCategory]string{
		BucketCategoryBlog:     "blog-images",
		BucketCategoryCourse:   "course-images",
		BucketCategoryLecturer: "lecturers",
		BucketCategoryPublic:   "public",
		BucketCategoryAvatar:   "avatars",
	}
	for category, want := range cases {
		if got := cfg.Buckets[category].Name; got != want {
			t.Fatalf("%s bucket: want=%q got=%q", category, want, got)
		}
	}
	if got := cfg.Buckets[BucketCategoryPublic].Prefix; got != "offers/" {
		t.Fatalf("public prefix: want=offers/ got=%q", got)
	}
	if !cfg.Buckets[BucketCategoryBlog].NoOverwrite {
		t.Fatalf("blog uploads should not overwrite")
	}
}

func TestResolveObjectStorageConfigOverrides(t *testing.T) {
	clearStorageEnv(t)
	t.Setenv("BLOG_GCS_BUCKET_NAME", "idearoom-blog")
	t.Setenv("BLOG_CDN_DOMAIN", "cdn.example.com")

	cfg, err := ResolveObjectStorageConfigFromEnv()
	if err != nil {
		t.Fatalf("ResolveObjectStorageConfigFromEnv: %v", err)
	}
	b := cfg.Buckets[BucketCategoryBlog]
	if b.Name != "idearoom-blog" || b.CDNDomain != "cdn.example.com" {
		t.Fatalf("blog bucket: got=%+v", b)
	}
}

func TestResolveObjectStorageConfigModes(t *testing.T) {
	cases := []struct {
		name     string
		mode     string
		emulator string
		want     ObjectStorageMode
		wantCode ObjectStorageConfigErrorCode
	}{
		{name: "emulator implied by host", emulator: "http://fake-gcs:4443", want: ObjectStorageModeGCSEmulator},
		{name: "explicit gcs ignores host", mode: "gcs", emulator: "http://fake-gcs:4443", want: ObjectStorageModeGCS},
		{name: "disabled", mode: "DISABLED", want: ObjectStorageModeDisabled},
		{name: "invalid mode", mode: "local", wantCode: ObjectStorageConfigErrorInvalidMode},
		{name: "missing emulator host", mode: "gcs_emulator", wantCode: ObjectStorageConfigErrorMissingEmulatorHost},
		{name: "relative emulator host", mode: "gcs_emulator", emulator: "fake-gcs:4443", wantCode: ObjectStorageConfigErrorInvalidEmulatorHost},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			clearStorageEnv(t)
			t.Setenv("OBJECT_STORAGE_MODE", tc.mode)
			t.Setenv("STORAGE_EMULATOR_HOST", tc.emulator)

			cfg, err := ResolveObjectStorageConfigFromEnv()
			if tc.wantCode != "" {
				var cerr *ObjectStorageConfigError
				if !errors.As(err, &cerr) || cerr.Code != tc.wantCode {
					t.Fatalf("error: want code=%s got=%v", tc.wantCode, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveObjectStorageConfigFromEnv: %v", err)
			}
			if cfg.Mode != tc.want {
				t.Fatalf("mode: want=%q got=%q", tc.want, cfg.Mode)
			}
		})
	}
}

func TestParseBucketCategory(t *testing.T) {
	if c, ok := ParseBucketCategory(" Public "); !ok || c != BucketCategoryPublic {
		t.Fatalf("ParseBucketCategory: got=%q ok=%v", c, ok)
	}
	if _, ok := ParseBucketCategory("material"); ok {
		t.Fatalf("unknown category should not parse")
	}
}
