package observability

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/yungbote/idearoom-admin/internal/platform/envutil"
	"github.com/yungbote/idearoom-admin/internal/platform/logger"
)

// Metrics is a small Prometheus text exporter for the admin API. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	apiRequests *family
	apiLatency  *histogram
	apiInflight *family
	apiReqError *family
	writes      *family
	uploads     *family
	logins      *family
	sseClients  *family
	changesFwd  *family
	dbStats     *family
	redisUp     *family
	redisPing   *family
}

var (
	initOnce sync.Once
	instance *Metrics
)

func Enabled() bool {
	return envutil.Bool("METRICS_ENABLED", false)
}

func Current() *Metrics {
	return instance
}

// Init returns nil unless METRICS_ENABLED is set.
func Init(log *logger.Logger) *Metrics {
	if !Enabled() {
		return nil
	}
	initOnce.Do(func() {
		instance = New()
		if log != nil {
			log.Info("Metrics enabled")
		}
	})
	return instance
}

// New builds an unregistered Metrics; tests use it directly.
func New() *Metrics {
	return &Metrics{
		apiRequests: counter("idearoom_api_requests_total", "Total API requests by method/route/status.", "method", "route", "status"),
		apiLatency: newHistogram(
			"idearoom_api_request_duration_seconds",
			"API request latency in seconds by method/route/status.",
			[]float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			"method", "route", "status",
		),
		apiInflight: gauge("idearoom_api_inflight_requests", "In-flight API requests."),
		apiReqError: counter("idearoom_api_requests_error_total", "API requests answered with a 5xx status."),
		writes:      counter("idearoom_writes_total", "Committed writes by table/type.", "table", "type"),
		uploads:     counter("idearoom_uploads_total", "Image attach outcomes by category.", "category", "outcome"),
		logins:      counter("idearoom_logins_total", "Login attempts by outcome.", "outcome"),
		sseClients:  gauge("idearoom_sse_clients", "Connected change stream clients."),
		changesFwd:  counter("idearoom_changes_forwarded_total", "Changes delivered to the hub by source.", "source"),
		dbStats:     gauge("idearoom_db_pool", "Database connection pool stats.", "stat"),
		redisUp:     gauge("idearoom_redis_up", "1 when the realtime bus redis answers ping."),
		redisPing:   gauge("idearoom_redis_ping_seconds", "Redis ping latency in seconds."),
	}
}

func (m *Metrics) StartServer(ctx context.Context, log *logger.Logger, addr string) {
	if m == nil {
		return
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           http.HandlerFunc(m.WriteHTTP),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = srv.Shutdown(shutdownCtx)
		cancel()
	}()
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if log != nil {
				log.Error("metrics server failed", "error", err, "addr", addr)
			}
		}
	}()
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, r *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	for _, f := range []*family{
		m.apiRequests, m.apiInflight, m.apiReqError,
		m.writes, m.uploads, m.logins, m.sseClients, m.changesFwd,
		m.dbStats, m.redisUp, m.redisPing,
	} {
		if err := f.write(w); err != nil {
			return err
		}
	}
	return m.apiLatency.write(w)
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	method, route, status = apiLabels(method, route, status)
	m.CountAPI(method, route, status)
	m.apiLatency.observe(dur.Seconds(), method, route, status)
}

// CountAPI records a request without a latency sample.
func (m *Metrics) CountAPI(method, route, status string) {
	if m == nil {
		return
	}
	method, route, status = apiLabels(method, route, status)
	m.apiRequests.add(1, method, route, status)
	if strings.HasPrefix(status, "5") {
		m.apiReqError.add(1)
	}
}

func apiLabels(method, route, status string) (string, string, string) {
	if method == "" {
		method = "UNKNOWN"
	}
	if route == "" {
		route = "unknown"
	}
	if status == "" {
		status = "0"
	}
	return method, route, status
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.add(1)
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.add(-1)
}

func (m *Metrics) IncWrite(table, typ string) {
	if m == nil {
		return
	}
	m.writes.add(1, table, typ)
}

// IncUpload records an attach outcome: uploaded, inline or failed.
func (m *Metrics) IncUpload(category, outcome string) {
	if m == nil {
		return
	}
	m.uploads.add(1, category, outcome)
}

func (m *Metrics) IncLogin(ok bool) {
	if m == nil {
		return
	}
	m.logins.add(1, strconv.FormatBool(ok))
}

func (m *Metrics) SSEClientInc() {
	if m == nil {
		return
	}
	m.sseClients.add(1)
}

func (m *Metrics) SSEClientDec() {
	if m == nil {
		return
	}
	m.sseClients.add(-1)
}

func (m *Metrics) IncChangeForwarded(source string) {
	if m == nil {
		return
	}
	m.changesFwd.add(1, source)
}
