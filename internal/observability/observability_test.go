package observability

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/api/blogs", "200", time.Millisecond)
	m.IncWrite("blogs", "INSERT")
	m.SSEClientInc()
	var buf bytes.Buffer
	if err := m.WritePrometheus(&buf); err != nil || buf.Len() != 0 {
		t.Fatalf("nil metrics: err=%v out=%q", err, buf.String())
	}
}

func TestWritePrometheus(t *testing.T) {
	m := New()
	m.ObserveAPI("GET", "/api/blogs", "200", 20*time.Millisecond)
	m.ObserveAPI("POST", "/api/blogs", "500", time.Second)
	m.IncUpload("public", "inline")
	m.IncLogin(false)

	var buf bytes.Buffer
	if err := m.WritePrometheus(&buf); err != nil {
		t.Fatalf("WritePrometheus: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`idearoom_api_requests_total{method="GET",route="/api/blogs",status="200"} 1.000000`,
		`idearoom_api_requests_error_total 1.000000`,
		`idearoom_uploads_total{category="public",outcome="inline"} 1.000000`,
		`idearoom_logins_total{outcome="false"} 1.000000`,
		`idearoom_api_request_duration_seconds_bucket{method="GET",route="/api/blogs",status="200",le="0.025"} 1`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing line %q in:\n%s", want, out)
		}
	}
}

func TestTraceSettingsFromEnv(t *testing.T) {
	t.Setenv("OTEL_ENABLED", "true")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "authorization=Bearer x, bad, =v,k=")
	t.Setenv("OTEL_SAMPLER_RATIO", "7")
	s := traceSettingsFromEnv()
	if !s.enabled {
		t.Fatalf("enabled: want=true")
	}
	if len(s.headers) != 1 || s.headers["authorization"] != "Bearer x" {
		t.Fatalf("headers: got=%v", s.headers)
	}
	if s.ratio != 1 {
		t.Fatalf("ratio clamp: want=1 got=%v", s.ratio)
	}
	if r := parseRatio("-0.5"); r != 0 {
		t.Fatalf("negative ratio: want=0 got=%v", r)
	}
	if r := parseRatio("0.25"); r != 0.25 {
		t.Fatalf("ratio: want=0.25 got=%v", r)
	}
}

func TestWritePrometheusSortsSeries(t *testing.T) {
	m := New()
	m.IncWrite("lecturers", "DELETE")
	m.IncWrite("blogs", "INSERT")
	m.IncWrite("blogs", "INSERT")

	var buf bytes.Buffer
	_ = m.WritePrometheus(&buf)
	out := buf.String()
	blogs := strings.Index(out, `idearoom_writes_total{table="blogs",type="INSERT"} 2.000000`)
	lecturers := strings.Index(out, `idearoom_writes_total{table="lecturers",type="DELETE"} 1.000000`)
	if blogs < 0 || lecturers < 0 || blogs > lecturers {
		t.Fatalf("series order: blogs=%d lecturers=%d\n%s", blogs, lecturers, out)
	}
}

func TestLabelSetEscapes(t *testing.T) {
	got := labelSet([]string{"route", "status"}, []string{`/a"b`})
	if got != `{route="/a\"b",status="unknown"}` {
		t.Fatalf("labelSet: got=%s", got)
	}
	if got := withLe("", "0.5"); got != `{le="0.5"}` {
		t.Fatalf("withLe: got=%s", got)
	}
}
