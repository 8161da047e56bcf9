package gcp

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/yungbote/idearoom-admin/internal/platform/envutil"
)

type ObjectStorageMode string

const (
	ObjectStorageModeGCS         ObjectStorageMode = "gcs"
	ObjectStorageModeGCSEmulator ObjectStorageMode = "gcs_emulator"
	// ObjectStorageModeDisabled rejects every upload. Offered course images
	// still work through the inline data URI fallback.
	ObjectStorageModeDisabled ObjectStorageMode = "disabled"
)

// BucketCategory names the asset family an upload belongs to.
type BucketCategory string

const (
	BucketCategoryBlog     BucketCategory = "blog"
	BucketCategoryCourse   BucketCategory = "course"
	BucketCategoryLecturer BucketCategory = "lecturer"
	BucketCategoryPublic   BucketCategory = "public"
	BucketCategoryAvatar   BucketCategory = "avatar"
)

func BucketCategories() []BucketCategory {
	return []BucketCategory{
		BucketCategoryBlog,
		BucketCategoryCourse,
		BucketCategoryLecturer,
		BucketCategoryPublic,
		BucketCategoryAvatar,
	}
}

func ParseBucketCategory(s string) (BucketCategory, bool) {
	c := BucketCategory(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range BucketCategories() {
		if c == known {
			return c, true
		}
	}
	return "", false
}

type BucketConfig struct {
	Name         string
	CDNDomain    string
	Prefix       string
	CacheControl string
	// NoOverwrite makes an upload fail when the key already exists.
	NoOverwrite bool
}

type ObjectStorageConfig struct {
	Mode          ObjectStorageMode
	EmulatorHost  string
	PublicBaseURL string
	Buckets       map[BucketCategory]BucketConfig
}

func (cfg ObjectStorageConfig) IsEmulatorMode() bool {
	return cfg.Mode == ObjectStorageModeGCSEmulator
}

type bucketDefault struct {
	env    string
	config BucketConfig
}

var bucketDefaults = map[BucketCategory]bucketDefault{
	BucketCategoryBlog:     {env: "BLOG", config: BucketConfig{Name: "blog-images", CacheControl: "public, max-age=3600", NoOverwrite: true}},
	BucketCategoryCourse:   {env: "COURSE", config: BucketConfig{Name: "course-images", CacheControl: "public, max-age=3600"}},
	BucketCategoryLecturer: {env: "LECTURER", config: BucketConfig{Name: "lecturers", CacheControl: "public, max-age=3600"}},
	BucketCategoryPublic:   {env: "PUBLIC", config: BucketConfig{Name: "public", Prefix: "offers/", CacheControl: "public, max-age=31536000"}},
	BucketCategoryAvatar:   {env: "AVATAR", config: BucketConfig{Name: "avatars", Prefix: "avatars/", CacheControl: "public, max-age=3600", NoOverwrite: true}},
}

// ResolveObjectStorageConfigFromEnv reads OBJECT_STORAGE_MODE,
// STORAGE_EMULATOR_HOST, OBJECT_STORAGE_PUBLIC_BASE_URL and the per category
// <CATEGORY>_GCS_BUCKET_NAME / <CATEGORY>_CDN_DOMAIN pairs.
func ResolveObjectStorageConfigFromEnv() (ObjectStorageConfig, error) {
	cfg := ObjectStorageConfig{
		EmulatorHost:  strings.TrimRight(envutil.String("STORAGE_EMULATOR_HOST", ""), "/"),
		PublicBaseURL: strings.TrimRight(envutil.String("OBJECT_STORAGE_PUBLIC_BASE_URL", ""), "/"),
		Buckets:       make(map[BucketCategory]BucketConfig, len(bucketDefaults)),
	}

	rawMode := envutil.String("OBJECT_STORAGE_MODE", "")
	switch mode := ObjectStorageMode(strings.ToLower(rawMode)); mode {
	case "":
		if cfg.EmulatorHost != "" {
			cfg.Mode = ObjectStorageModeGCSEmulator
		} else {
			cfg.Mode = ObjectStorageModeGCS
		}
	case ObjectStorageModeGCS, ObjectStorageModeGCSEmulator, ObjectStorageModeDisabled:
		cfg.Mode = mode
	default:
		return cfg, &ObjectStorageConfigError{Code: ObjectStorageConfigErrorInvalidMode, Value: rawMode}
	}

	for category, def := range bucketDefaults {
		b := def.config
		b.Name = envutil.String(def.env+"_GCS_BUCKET_NAME", b.Name)
		b.CDNDomain = envutil.String(def.env+"_CDN_DOMAIN", "")
		cfg.Buckets[category] = b
	}

	if err := ValidateObjectStorageConfig(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func ValidateObjectStorageConfig(cfg ObjectStorageConfig) error {
	switch cfg.Mode {
	case ObjectStorageModeGCS, ObjectStorageModeDisabled:
	case ObjectStorageModeGCSEmulator:
		if cfg.EmulatorHost == "" {
			return &ObjectStorageConfigError{Code: ObjectStorageConfigErrorMissingEmulatorHost}
		}
		if !isAbsoluteURL(cfg.EmulatorHost) {
			return &ObjectStorageConfigError{Code: ObjectStorageConfigErrorInvalidEmulatorHost, Value: cfg.EmulatorHost}
		}
	default:
		return &ObjectStorageConfigError{Code: ObjectStorageConfigErrorInvalidMode, Value: string(cfg.Mode)}
	}
	if cfg.PublicBaseURL != "" && !isAbsoluteURL(cfg.PublicBaseURL) {
		return &ObjectStorageConfigError{Code: ObjectStorageConfigErrorInvalidPublicBase, Value: cfg.PublicBaseURL}
	}
	if cfg.Mode == ObjectStorageModeDisabled {
		return nil
	}
	for category, b := range cfg.Buckets {
		if strings.TrimSpace(b.Name) == "" {
			return fmt.Errorf("missing bucket name for category %q", category)
		}
	}
	return nil
}

func isAbsoluteURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && strings.TrimSpace(u.Scheme) != "" && strings.TrimSpace(u.Host) != ""
}

type ObjectStorageConfigErrorCode string

const (
	ObjectStorageConfigErrorInvalidMode         ObjectStorageConfigErrorCode = "invalid_mode"
	ObjectStorageConfigErrorMissingEmulatorHost ObjectStorageConfigErrorCode = "missing_emulator_host"
	ObjectStorageConfigErrorInvalidEmulatorHost ObjectStorageConfigErrorCode = "invalid_emulator_host"
	ObjectStorageConfigErrorInvalidPublicBase   ObjectStorageConfigErrorCode = "invalid_public_base_url"
)

type ObjectStorageConfigError struct {
	Code  ObjectStorageConfigErrorCode
	Value string
}

func (e *ObjectStorageConfigError) Error() string {
	if e == nil {
		return "invalid object storage config"
	}
	switch e.Code {
	case ObjectStorageConfigErrorInvalidMode:
		return fmt.Sprintf("invalid OBJECT_STORAGE_MODE=%q (allowed: %q, %q, %q)",
			e.Value, ObjectStorageModeGCS, ObjectStorageModeGCSEmulator, ObjectStorageModeDisabled)
	case ObjectStorageConfigErrorMissingEmulatorHost:
		return fmt.Sprintf("OBJECT_STORAGE_MODE=%q requires STORAGE_EMULATOR_HOST to be set", ObjectStorageModeGCSEmulator)
	case ObjectStorageConfigErrorInvalidEmulatorHost:
		return fmt.Sprintf("invalid STORAGE_EMULATOR_HOST=%q; expected absolute URL like http://fake-gcs:4443", e.Value)
	case ObjectStorageConfigErrorInvalidPublicBase:
		return fmt.Sprintf("invalid OBJECT_STORAGE_PUBLIC_BASE_URL=%q; expected absolute URL like http://localhost:4443", e.Value)
	default:
		return "invalid object storage config"
	}
}
