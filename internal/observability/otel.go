package observability

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.27.0"

	"github.com/yungbote/idearoom-admin/internal/platform/envutil"
	"github.com/yungbote/idearoom-admin/internal/platform/logger"
)

const defaultServiceName = "idearoom-admin"

type OtelConfig struct {
	ServiceName string
	Environment string
	Version     string
}

// traceSettings is the OTEL_* environment, read once at startup.
type traceSettings struct {
	enabled  bool
	endpoint string
	insecure bool
	headers  map[string]string
	ratio    float64
}

func traceSettingsFromEnv() traceSettings {
	return traceSettings{
		enabled:  envutil.Bool("OTEL_ENABLED", false),
		endpoint: envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		insecure: envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", false),
		headers:  parseHeaders(envutil.List("OTEL_EXPORTER_OTLP_HEADERS", nil)),
		ratio:    parseRatio(envutil.String("OTEL_SAMPLER_RATIO", "")),
	}
}

// parseHeaders reads "k=v" pairs, dropping anything without both halves.
func parseHeaders(pairs []string) map[string]string {
	var out map[string]string
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		if !ok || k == "" || v == "" {
			continue
		}
		if out == nil {
			out = map[string]string{}
		}
		out[k] = v
	}
	return out
}

// parseRatio clamps to [0,1]; blank or junk samples everything.
func parseRatio(raw string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	switch {
	case err != nil:
		return 1
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}

func (s traceSettings) exporter(ctx context.Context) (sdktrace.SpanExporter, error) {
	if s.endpoint == "" {
		return stdouttrace.New(stdouttrace.WithPrettyPrint())
	}
	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(s.endpoint)}
	if s.insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	if len(s.headers) > 0 {
		opts = append(opts, otlptracehttp.WithHeaders(s.headers))
	}
	return otlptracehttp.New(ctx, opts...)
}

var (
	otelOnce     sync.Once
	otelShutdown func(context.Context) error
)

// InitOTel installs the global tracer provider when OTEL_ENABLED is set. The
// returned shutdown func is nil when tracing is off.
func InitOTel(ctx context.Context, log *logger.Logger, cfg OtelConfig) func(context.Context) error {
	otelOnce.Do(func() {
		s := traceSettingsFromEnv()
		if !s.enabled {
			return
		}
		if log == nil {
			log = logger.Nop()
		}
		name := strings.TrimSpace(cfg.ServiceName)
		if name == "" {
			name = defaultServiceName
		}
		res, err := resource.New(ctx, resource.WithAttributes(
			semconv.ServiceNameKey.String(name),
			semconv.ServiceVersionKey.String(strings.TrimSpace(cfg.Version)),
			attribute.String("deployment.environment", strings.TrimSpace(cfg.Environment)),
		))
		if err != nil {
			log.Warn("otel resource init failed (continuing)", "error", err)
		}

		opts := []sdktrace.TracerProviderOption{
			sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(s.ratio))),
			sdktrace.WithResource(res),
		}
		exp, err := s.exporter(ctx)
		switch {
		case err != nil:
			log.Warn("otel exporter init failed (continuing)", "error", err)
		case s.endpoint == "":
			log.Warn("otel using stdout exporter (no OTLP endpoint configured)")
		}
		if exp != nil {
			opts = append(opts, sdktrace.WithBatcher(exp, sdktrace.WithBatchTimeout(5*time.Second)))
		}

		tp := sdktrace.NewTracerProvider(opts...)
		otel.SetTracerProvider(tp)
		otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		))
		otelShutdown = tp.Shutdown
		log.Info("otel tracing initialized", "service", name, "endpoint", s.endpoint, "ratio", s.ratio)
	})
	return otelShutdown
}
