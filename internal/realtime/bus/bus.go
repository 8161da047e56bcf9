package bus

import (
	"context"

	"github.com/yungbote/idearoom-admin/internal/realtime"
)

// Bus carries changes between server instances.
type Bus interface {
	Publish(ctx context.Context, ch realtime.Change) error
	StartForwarder(ctx context.Context, onChange func(ch realtime.Change)) error
	Close() error
}
