package realtime

import (
	"sync"

	"github.com/google/uuid"

	"github.com/yungbote/idearoom-admin/internal/platform/logger"
)

type SSEClient struct {
	ID        uuid.UUID
	SessionID uuid.UUID
	Channels  map[string]bool
	Outbound  chan SSEMessage
	done      chan struct{}
	closeOnce sync.Once
	Logger    *logger.Logger
}

// Done is closed when the client is shut down by the hub.
func (c *SSEClient) Done() <-chan struct{} { return c.done }
