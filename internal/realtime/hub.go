package realtime

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/idearoom-admin/internal/platform/logger"
)

const outboundBuffer = 64

// SSEHub fans change messages out to stream clients by channel. Channels are
// table names.
type SSEHub struct {
	mu            sync.RWMutex
	logger        *logger.Logger
	subscriptions map[string]map[*SSEClient]bool
	heartbeat     time.Duration
}

func NewSSEHub(log *logger.Logger) *SSEHub {
	return &SSEHub{
		logger:        log.With("component", "SSEHub"),
		subscriptions: make(map[string]map[*SSEClient]bool),
		heartbeat:     15 * time.Second,
	}
}

// SetHeartbeat changes the keep-alive interval for streams served afterwards.
func (hub *SSEHub) SetHeartbeat(d time.Duration) {
	if d > 0 {
		hub.heartbeat = d
	}
}

func (hub *SSEHub) NewSSEClient(sessionID uuid.UUID) *SSEClient {
	id := uuid.New()
	return &SSEClient{
		ID:        id,
		SessionID: sessionID,
		Channels:  make(map[string]bool),
		Outbound:  make(chan SSEMessage, outboundBuffer),
		done:      make(chan struct{}),
		Logger:    hub.logger.With("clientID", id),
	}
}

func (hub *SSEHub) AddChannel(client *SSEClient, channel string) {
	channel = strings.TrimSpace(channel)
	if channel == "" {
		return
	}
	hub.mu.Lock()
	defer hub.mu.Unlock()

	// A closed client has a closed Outbound; registering it would make
	// Broadcast send on a closed channel.
	select {
	case <-client.done:
		return
	default:
	}
	client.Channels[channel] = true
	if hub.subscriptions[channel] == nil {
		hub.subscriptions[channel] = make(map[*SSEClient]bool)
	}
	hub.subscriptions[channel][client] = true
	hub.logger.Debug("SSE client subscribed", "clientID", client.ID, "table", channel)
}

func (hub *SSEHub) RemoveChannel(client *SSEClient, channel string) {
	channel = strings.TrimSpace(channel)
	if channel == "" {
		return
	}
	hub.mu.Lock()
	defer hub.mu.Unlock()
	hub.detachLocked(client, channel)
}

// RemoveClient drops every subscription the client holds.
func (hub *SSEHub) RemoveClient(client *SSEClient) {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	for channel := range client.Channels {
		hub.detachLocked(client, channel)
	}
}

func (hub *SSEHub) detachLocked(client *SSEClient, channel string) {
	delete(client.Channels, channel)
	subs := hub.subscriptions[channel]
	delete(subs, client)
	if len(subs) == 0 {
		delete(hub.subscriptions, channel)
	}
	hub.logger.Debug("SSE client unsubscribed", "clientID", client.ID, "table", channel)
}

// Subscribers returns how many clients listen on channel.
func (hub *SSEHub) Subscribers(channel string) int {
	hub.mu.RLock()
	defer hub.mu.RUnlock()
	return len(hub.subscriptions[channel])
}

// Broadcast never blocks; a client whose buffer is full misses the message.
func (hub *SSEHub) Broadcast(msg SSEMessage) {
	hub.mu.RLock()
	defer hub.mu.RUnlock()

	if msg.Channel == "" {
		return
	}
	clientsMap, ok := hub.subscriptions[msg.Channel]
	if !ok {
		return
	}
	for c := range clientsMap {
		select {
		case c.Outbound <- msg:
		default:
			hub.logger.Warn("Dropping SSE message; outbound buffer full", "clientID", c.ID, "channel", msg.Channel)
		}
	}
}

// Publish broadcasts a change on its table channel.
func (hub *SSEHub) Publish(ch Change) {
	hub.Broadcast(ch.Message())
}

// ServeHTTP streams the client's queue as SSE until the request ends or the
// client is closed. Comment lines keep idle proxies from cutting the stream.
func (hub *SSEHub) ServeHTTP(w http.ResponseWriter, r *http.Request, client *SSEClient) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported!", http.StatusInternalServerError)
		return
	}
	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")

	comment := func(text string) {
		_, _ = fmt.Fprintf(w, ": %s\n\n", text)
		flusher.Flush()
	}
	comment("connected")

	ticker := time.NewTicker(hub.heartbeat)
	defer ticker.Stop()
	for {
		select {
		case <-r.Context().Done():
			hub.logger.Debug("SSE client disconnected", "clientID", client.ID, "err", r.Context().Err())
			return
		case <-client.done:
			return
		case <-ticker.C:
			comment("ping")
		case msg, ok := <-client.Outbound:
			if !ok {
				return
			}
			data, err := json.Marshal(msg)
			if err != nil {
				hub.logger.Warn("Failed to marshal SSE message", "error", err, "table", msg.Channel)
				continue
			}
			_, _ = fmt.Fprintf(w, "event: message\ndata: %s\n\n", data)
			flusher.Flush()
		}
	}
}

// CloseClient detaches the client from every channel before closing its
// outbound queue, so no broadcast can race the close. Safe to call twice.
func (hub *SSEHub) CloseClient(client *SSEClient) {
	client.closeOnce.Do(func() {
		close(client.done)
		hub.RemoveClient(client)
		close(client.Outbound)
	})
}
