package handlers

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/idearoom-admin/internal/domain"
	"github.com/yungbote/idearoom-admin/internal/http/response"
	"github.com/yungbote/idearoom-admin/internal/observability"
	"github.com/yungbote/idearoom-admin/internal/platform/ctxutil"
	"github.com/yungbote/idearoom-admin/internal/platform/logger"
	"github.com/yungbote/idearoom-admin/internal/realtime"
)

type RealtimeHandler struct {
	log     *logger.Logger
	hub     *realtime.SSEHub
	metrics *observability.Metrics

	mu      sync.RWMutex
	clients map[uuid.UUID]*realtime.SSEClient // key: session id
}

func NewRealtimeHandler(log *logger.Logger, hub *realtime.SSEHub, metrics *observability.Metrics) *RealtimeHandler {
	return &RealtimeHandler{
		log:     log.With("handler", "RealtimeHandler"),
		hub:     hub,
		metrics: metrics,
		clients: make(map[uuid.UUID]*realtime.SSEClient),
	}
}

// Stream opens the change stream for this session. ?channel= may repeat to
// subscribe up front; a session reconnecting replaces its previous stream.
func (h *RealtimeHandler) Stream(c *gin.Context) {
	sd := ctxutil.GetSessionData(c.Request.Context())
	if !sd.Authenticated() {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized")
		return
	}
	channels := c.QueryArray("channel")
	for _, ch := range channels {
		if !validChannel(ch) {
			response.RespondError(c, http.StatusBadRequest, "invalid channel")
			return
		}
	}
	sessionID := sd.SessionID

	h.mu.Lock()
	if existing, ok := h.clients[sessionID]; ok {
		h.hub.CloseClient(existing)
		delete(h.clients, sessionID)
	}
	client := h.hub.NewSSEClient(sessionID)
	h.clients[sessionID] = client
	h.mu.Unlock()

	for _, ch := range channels {
		h.hub.AddChannel(client, ch)
	}
	h.log.Debug("Stream open", "session_id", sessionID.String(), "client_id", client.ID.String())
	h.metrics.SSEClientInc()
	defer h.metrics.SSEClientDec()

	h.hub.ServeHTTP(c.Writer, c.Request, client)

	h.mu.Lock()
	if h.clients[sessionID] == client {
		delete(h.clients, sessionID)
	}
	h.mu.Unlock()
	h.hub.CloseClient(client)
}

func (h *RealtimeHandler) Subscribe(c *gin.Context) {
	client, channel, ok := h.lookup(c)
	if !ok {
		return
	}
	h.hub.AddChannel(client, channel)
	response.RespondOK(c, gin.H{"message": "subscribed", "channel": channel})
}

func (h *RealtimeHandler) Unsubscribe(c *gin.Context) {
	client, channel, ok := h.lookup(c)
	if !ok {
		return
	}
	h.hub.RemoveChannel(client, channel)
	response.RespondOK(c, gin.H{"message": "unsubscribed", "channel": channel})
}

func (h *RealtimeHandler) lookup(c *gin.Context) (*realtime.SSEClient, string, bool) {
	sd := ctxutil.GetSessionData(c.Request.Context())
	if !sd.Authenticated() {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized")
		return nil, "", false
	}
	var req struct {
		Channel string `json:"channel"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || !validChannel(req.Channel) {
		response.RespondError(c, http.StatusBadRequest, "invalid channel")
		return nil, "", false
	}
	h.mu.RLock()
	client, exists := h.clients[sd.SessionID]
	h.mu.RUnlock()
	if !exists {
		response.RespondError(c, http.StatusConflict, "no active stream for this session")
		return nil, "", false
	}
	return client, req.Channel, true
}

// validChannel accepts only the admin tables.
func validChannel(ch string) bool {
	for _, t := range domain.Tables() {
		if ch == t {
			return true
		}
	}
	return false
}
