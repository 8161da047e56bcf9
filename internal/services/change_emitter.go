package services

import (
	"context"

	"github.com/yungbote/idearoom-admin/internal/observability"
	"github.com/yungbote/idearoom-admin/internal/platform/logger"
	"github.com/yungbote/idearoom-admin/internal/realtime"
	"github.com/yungbote/idearoom-admin/internal/realtime/bus"
)

// ChangeEmitter publishes committed writes to stream subscribers.
type ChangeEmitter interface {
	Emit(ctx context.Context, ch realtime.Change)
}

type HubEmitter struct{ Hub *realtime.SSEHub }

func (e *HubEmitter) Emit(ctx context.Context, ch realtime.Change) {
	e.Hub.Publish(ch)
}

// BusEmitter publishes through the cross-instance bus; every instance's
// forwarder delivers to its own hub.
type BusEmitter struct {
	Bus bus.Bus
	Log *logger.Logger
}

func (e *BusEmitter) Emit(ctx context.Context, ch realtime.Change) {
	if err := e.Bus.Publish(ctx, ch); err != nil && e.Log != nil {
		e.Log.Warn("Failed to publish change", "table", ch.Table, "type", ch.Type, "id", ch.ID, "error", err)
	}
}

// NopEmitter is used when database triggers produce the changes.
type NopEmitter struct{}

func (NopEmitter) Emit(ctx context.Context, ch realtime.Change) {}

// MetricsEmitter counts committed writes before passing them on.
type MetricsEmitter struct {
	Next    ChangeEmitter
	Metrics *observability.Metrics
}

func (e *MetricsEmitter) Emit(ctx context.Context, ch realtime.Change) {
	e.Metrics.IncWrite(ch.Table, string(ch.Type))
	if e.Next != nil {
		e.Next.Emit(ctx, ch)
	}
}
