package middleware

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/idearoom-admin/internal/observability"
	"github.com/yungbote/idearoom-admin/internal/platform/ctxutil"
	"github.com/yungbote/idearoom-admin/internal/platform/logger"
)

const (
	headerTraceID   = "X-Trace-Id"
	headerRequestID = "X-Request-Id"

	streamRoute = "/api/realtime/stream"
)

// Probes and scrapes are logged at debug so they do not drown out edits.
var quietRoutes = map[string]bool{
	"/healthcheck": true,
	"/metrics":     true,
}

func routeOf(c *gin.Context) string {
	if r := c.FullPath(); r != "" {
		return r
	}
	return "unmatched"
}

// AttachTraceContext stores request and trace ids on the request context and
// echoes them back. Incoming headers win, then the otel span, then a fresh uuid.
func AttachTraceContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		ids := ctxutil.RequestIDs{
			Trace:   strings.TrimSpace(c.GetHeader(headerTraceID)),
			Request: strings.TrimSpace(c.GetHeader(headerRequestID)),
		}
		if ids.Trace == "" {
			if sc := trace.SpanContextFromContext(c.Request.Context()); sc.HasTraceID() {
				ids.Trace = sc.TraceID().String()
			}
		}
		if ids.Trace == "" {
			ids.Trace = uuid.NewString()
		}
		if ids.Request == "" {
			ids.Request = uuid.NewString()
		}
		c.Request = c.Request.WithContext(ctxutil.WithRequestIDs(c.Request.Context(), ids))
		c.Header(headerTraceID, ids.Trace)
		c.Header(headerRequestID, ids.Request)
		c.Next()
	}
}

// RequestLogger logs one line per finished request. Realtime streams log on
// disconnect, so their duration is the connection lifetime.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := routeOf(c)
		status := c.Writer.Status()
		kv := append([]interface{}{
			"method", c.Request.Method,
			"route", route,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
		}, ctxutil.LogFields(c.Request.Context())...)
		if len(c.Errors) > 0 {
			kv = append(kv, "error", c.Errors.Last().Error())
		}

		msg := "HTTP request"
		if route == streamRoute {
			msg = "Realtime stream closed"
		}
		switch {
		case status >= 500:
			log.Error(msg, kv...)
		case status >= 400:
			log.Warn(msg, kv...)
		case quietRoutes[route]:
			log.Debug(msg, kv...)
		default:
			log.Info(msg, kv...)
		}
	}
}

// Metrics counts every request. Latency skips the realtime stream, whose
// duration would swamp the histogram.
func Metrics(m *observability.Metrics) gin.HandlerFunc {
	if m == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		start := time.Now()
		m.ApiInflightInc()
		defer m.ApiInflightDec()
		c.Next()

		route := routeOf(c)
		status := strconv.Itoa(c.Writer.Status())
		if route == streamRoute {
			m.CountAPI(c.Request.Method, route, status)
			return
		}
		m.ObserveAPI(c.Request.Method, route, status, time.Since(start))
	}
}
