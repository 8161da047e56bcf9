package console

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Table is the client-side view of one resource: the fetched records plus
// a search term and a sort order, both applied locally.
type Table[T any] struct {
	cols Columns[T]

	mu      sync.RWMutex
	records []*T
	loaded  bool
	search  string
	field   string
	desc    bool
}

func NewTable[T any](cols Columns[T]) *Table[T] {
	return &Table[T]{cols: cols, field: FieldCreatedAt, desc: true}
}

func (t *Table[T]) Columns() Columns[T] { return t.cols }

// Load replaces the records and marks the table as fetched.
func (t *Table[T]) Load(records []*T) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.records = append([]*T(nil), records...)
	t.loaded = true
}

// Loading reports whether the first fetch has not finished yet.
func (t *Table[T]) Loading() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return !t.loaded
}

// Empty reports a fetched table with nothing matching the current search.
func (t *Table[T]) Empty() bool {
	return !t.Loading() && len(t.Rows()) == 0
}

func (t *Table[T]) Search(term string) {
	t.mu.Lock()
	t.search = strings.TrimSpace(term)
	t.mu.Unlock()
}

// SortBy toggles the direction when field is already the sort field and
// otherwise starts field ascending.
func (t *Table[T]) SortBy(field string) error {
	if !t.cols.sortable(field) {
		return fmt.Errorf("%s: cannot sort by %q", t.cols.Kind, field)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if field == t.field {
		t.desc = !t.desc
		return nil
	}
	t.field = field
	t.desc = false
	return nil
}

// Sort returns the active sort field and whether it is descending.
func (t *Table[T]) Sort() (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.field, t.desc
}

// Rows returns the searched and sorted view.
func (t *Table[T]) Rows() []*T {
	t.mu.RLock()
	term := strings.ToLower(t.search)
	field, desc := t.field, t.desc
	out := make([]*T, 0, len(t.records))
	for _, rec := range t.records {
		if term == "" || t.matches(rec, term) {
			out = append(out, rec)
		}
	}
	t.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		c := compareValues(t.cols.value(out[i], field), t.cols.value(out[j], field))
		if desc {
			return c > 0
		}
		return c < 0
	})
	return out
}

func (t *Table[T]) matches(rec *T, term string) bool {
	for _, s := range t.cols.Text(rec) {
		if strings.Contains(strings.ToLower(s), term) {
			return true
		}
	}
	return false
}

// Len counts every record regardless of search.
func (t *Table[T]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.records)
}

// Find returns the record with id and its position in the unsorted records.
func (t *Table[T]) Find(id uint) (*T, int) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.find(id)
}

func (t *Table[T]) find(id uint) (*T, int) {
	for i, rec := range t.records {
		if t.cols.ID(rec) == id {
			return rec, i
		}
	}
	return nil, -1
}

// Prepend adds rec in front. A record already present is replaced in place.
func (t *Table[T]) Prepend(rec *T) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, i := t.find(t.cols.ID(rec)); i >= 0 {
		t.records[i] = rec
		return
	}
	t.records = append([]*T{rec}, t.records...)
}

// Replace swaps the record with the same id. It reports false when there is none.
func (t *Table[T]) Replace(rec *T) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, i := t.find(t.cols.ID(rec))
	if i < 0 {
		return false
	}
	t.records[i] = rec
	return true
}

// Remove drops the record with id and returns it with its former position.
func (t *Table[T]) Remove(id uint) (*T, int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	rec, i := t.find(id)
	if i < 0 {
		return nil, -1
	}
	t.records = append(t.records[:i:i], t.records[i+1:]...)
	return rec, i
}

// Restore puts a removed record back at pos unless it reappeared meanwhile.
func (t *Table[T]) Restore(rec *T, pos int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, i := t.find(t.cols.ID(rec)); i >= 0 {
		return
	}
	if pos < 0 || pos > len(t.records) {
		pos = len(t.records)
	}
	t.records = append(t.records[:pos:pos], append([]*T{rec}, t.records[pos:]...)...)
}

// compareValues orders dates by instant, numbers numerically and anything
// else as case-insensitive text. Missing values sort first.
func compareValues(a, b any) int {
	if ta, ok := a.(time.Time); ok {
		if tb, ok := b.(time.Time); ok {
			return ta.Compare(tb)
		}
	}
	if na, ok := number(a); ok {
		if nb, ok := number(b); ok {
			switch {
			case na < nb:
				return -1
			case na > nb:
				return 1
			}
			return 0
		}
	}
	return strings.Compare(strings.ToLower(text(a)), strings.ToLower(text(b)))
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func text(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case fmt.Stringer:
		return s.String()
	}
	return fmt.Sprint(v)
}
