package observability

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// family is a counter or gauge keyed by label values. Series are written
// in label order so scrapes diff cleanly.
type family struct {
	name   string
	help   string
	kind   string
	labels []string

	mu     sync.Mutex
	series map[string]float64
}

func counter(name, help string, labels ...string) *family {
	return &family{name: name, help: help, kind: "counter", labels: labels, series: map[string]float64{}}
}

func gauge(name, help string, labels ...string) *family {
	return &family{name: name, help: help, kind: "gauge", labels: labels, series: map[string]float64{}}
}

func (f *family) add(v float64, values ...string) {
	key := labelSet(f.labels, values)
	f.mu.Lock()
	f.series[key] += v
	f.mu.Unlock()
}

func (f *family) set(v float64, values ...string) {
	key := labelSet(f.labels, values)
	f.mu.Lock()
	f.series[key] = v
	f.mu.Unlock()
}

func (f *family) write(w io.Writer) error {
	f.mu.Lock()
	keys := sortedKeys(f.series)
	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%s%s %f", f.name, k, f.series[k]))
	}
	f.mu.Unlock()
	return writeFamily(w, f.name, f.help, f.kind, lines)
}

type histogram struct {
	name    string
	help    string
	labels  []string
	buckets []float64

	mu     sync.Mutex
	series map[string]*buckets
}

type buckets struct {
	counts []uint64 // cumulative per bound, then +Inf
	sum    float64
}

func newHistogram(name, help string, bounds []float64, labels ...string) *histogram {
	return &histogram{name: name, help: help, labels: labels, buckets: bounds, series: map[string]*buckets{}}
}

func (h *histogram) observe(v float64, values ...string) {
	key := labelSet(h.labels, values)
	h.mu.Lock()
	defer h.mu.Unlock()
	b, ok := h.series[key]
	if !ok {
		b = &buckets{counts: make([]uint64, len(h.buckets)+1)}
		h.series[key] = b
	}
	b.sum += v
	for i, bound := range h.buckets {
		if v <= bound {
			b.counts[i]++
		}
	}
	b.counts[len(h.buckets)]++
}

func (h *histogram) write(w io.Writer) error {
	h.mu.Lock()
	var lines []string
	for _, k := range sortedKeys(h.series) {
		b := h.series[k]
		for i, bound := range h.buckets {
			le := strconv.FormatFloat(bound, 'g', -1, 64)
			lines = append(lines, fmt.Sprintf("%s_bucket%s %d", h.name, withLe(k, le), b.counts[i]))
		}
		total := b.counts[len(h.buckets)]
		lines = append(lines,
			fmt.Sprintf("%s_bucket%s %d", h.name, withLe(k, "+Inf"), total),
			fmt.Sprintf("%s_sum%s %f", h.name, k, b.sum),
			fmt.Sprintf("%s_count%s %d", h.name, k, total),
		)
	}
	h.mu.Unlock()
	return writeFamily(w, h.name, h.help, "histogram", lines)
}

func writeFamily(w io.Writer, name, help, kind string, lines []string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "# HELP %s %s\n# TYPE %s %s\n", name, help, name, kind)
	for _, l := range lines {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// labelSet renders {a="x",b="y"}; missing values become "unknown".
func labelSet(names, values []string) string {
	if len(names) == 0 {
		return ""
	}
	parts := make([]string, len(names))
	for i, name := range names {
		val := "unknown"
		if i < len(values) {
			val = values[i]
		}
		parts[i] = name + `="` + escapeLabel(val) + `"`
	}
	return "{" + strings.Join(parts, ",") + "}"
}

var labelEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)

func escapeLabel(v string) string { return labelEscaper.Replace(v) }

func withLe(labels, le string) string {
	if labels == "" {
		return `{le="` + le + `"}`
	}
	return strings.TrimSuffix(labels, "}") + `,le="` + le + `"}`
}
