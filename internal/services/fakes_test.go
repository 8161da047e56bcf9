package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"

	"github.com/yungbote/idearoom-admin/internal/platform/dbctx"
	"github.com/yungbote/idearoom-admin/internal/platform/gcp"
	"github.com/yungbote/idearoom-admin/internal/realtime"
)

type fakeBuckets struct {
	mu      sync.Mutex
	objects map[string][]byte
	fail    error
	deleted []string
}

func newFakeBuckets() *fakeBuckets {
	return &fakeBuckets{objects: map[string][]byte{}}
}

func (f *fakeBuckets) UploadFile(dbc dbctx.Context, category gcp.BucketCategory, key, contentType string, file io.Reader) error {
	if f.fail != nil {
		return f.fail
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[string(category)+"/"+key] = buf.Bytes()
	return nil
}

func (f *fakeBuckets) DeleteFile(dbc dbctx.Context, category gcp.BucketCategory, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, key)
	delete(f.objects, string(category)+"/"+key)
	return nil
}

func (f *fakeBuckets) GetPublicURL(category gcp.BucketCategory, key string) string {
	return "https://cdn.test/" + string(category) + "/" + key
}

func (f *fakeBuckets) Prefix(category gcp.BucketCategory) string {
	switch category {
	case gcp.BucketCategoryPublic:
		return "offers/"
	case gcp.BucketCategoryAvatar:
		return "avatars/"
	default:
		return ""
	}
}

var errUploadDown = errors.New("bucket unavailable")

type recordingEmitter struct {
	mu      sync.Mutex
	changes []realtime.Change
}

func (e *recordingEmitter) Emit(ctx context.Context, ch realtime.Change) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.changes = append(e.changes, ch)
}

func (e *recordingEmitter) last() realtime.Change {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.changes) == 0 {
		return realtime.Change{}
	}
	return e.changes[len(e.changes)-1]
}

func (e *recordingEmitter) count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.changes)
}
