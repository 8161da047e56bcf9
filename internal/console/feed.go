package console

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/yungbote/idearoom-admin/internal/realtime"
)

// ErrStale is returned when a change cannot be merged locally and the
// table has to be fetched again.
var ErrStale = errors.New("change carried no record; reload required")

// Optimistic applies a local edit before the remote call it mirrors and
// undoes it when that call fails.
type Optimistic struct {
	Notifier *Notifier
}

// Run calls apply, then remote. On failure the undo returned by apply runs
// and failure is shown; otherwise success is shown when set.
func (o Optimistic) Run(ctx context.Context, apply func() (undo func()), remote func(ctx context.Context) error, success, failure string) error {
	undo := apply()
	if err := remote(ctx); err != nil {
		if undo != nil {
			undo()
		}
		o.notify(NoticeError, failure)
		return err
	}
	o.notify(NoticeSuccess, success)
	return nil
}

func (o Optimistic) notify(level NoticeLevel, msg string) {
	if o.Notifier != nil && msg != "" {
		o.Notifier.Notify(level, msg)
	}
}

// Feed merges change notifications into a Table.
type Feed[T any] struct {
	table    *Table[T]
	notifier *Notifier

	mu      sync.Mutex
	own     map[uint]int // deletes issued by this session, awaiting their change
	applied func(realtime.Change)
}

func NewFeed[T any](table *Table[T], notifier *Notifier) *Feed[T] {
	if notifier == nil {
		notifier = NewNotifier(DefaultNoticeTTL)
	}
	return &Feed[T]{table: table, notifier: notifier, own: map[uint]int{}}
}

func (f *Feed[T]) Table() *Table[T] { return f.table }

func (f *Feed[T]) Notifier() *Notifier { return f.notifier }

// OnApplied registers a callback run after every merged change.
func (f *Feed[T]) OnApplied(fn func(realtime.Change)) {
	f.mu.Lock()
	f.applied = fn
	f.mu.Unlock()
}

// Apply merges one change: inserts are prepended, updates replace the
// matching record and deletes remove it. Changes of other tables are ignored.
func (f *Feed[T]) Apply(ch realtime.Change) error {
	cols := f.table.Columns()
	if ch.Table != cols.Channel {
		return nil
	}
	switch ch.Type {
	case realtime.ChangeInsert, realtime.ChangeUpdate:
		rec := new(T)
		ok, err := ch.Decode(rec)
		if err != nil {
			return fmt.Errorf("decode %s change: %w", ch.Table, err)
		}
		if !ok {
			return ErrStale
		}
		if ch.Type == realtime.ChangeInsert {
			f.table.Prepend(rec)
		} else {
			f.table.Replace(rec)
		}
	case realtime.ChangeDelete:
		f.table.Remove(ch.ID)
		if !f.settle(ch.ID) {
			f.notifier.Notify(NoticeInfo, cols.Kind+" was deleted by another admin")
		}
	default:
		return fmt.Errorf("unknown change type %q", ch.Type)
	}
	f.mu.Lock()
	fn := f.applied
	f.mu.Unlock()
	if fn != nil {
		fn(ch)
	}
	return nil
}

// Delete removes id at once and asks remote to delete it. A failed call
// puts the record back where it was.
func (f *Feed[T]) Delete(ctx context.Context, id uint, remote func(ctx context.Context, id uint) error) error {
	kind := f.table.Columns().Kind
	f.expect(id)
	apply := func() func() {
		rec, pos := f.table.Remove(id)
		return func() {
			f.settle(id)
			if rec != nil {
				f.table.Restore(rec, pos)
			}
		}
	}
	call := func(ctx context.Context) error { return remote(ctx, id) }
	return Optimistic{Notifier: f.notifier}.Run(ctx, apply, call,
		kind+" successfully deleted",
		"Failed to delete "+strings.ToLower(kind)+". Please try again.")
}

func (f *Feed[T]) expect(id uint) {
	f.mu.Lock()
	f.own[id]++
	f.mu.Unlock()
}

// settle consumes one pending own delete of id.
func (f *Feed[T]) settle(id uint) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := f.own[id]
	if n == 0 {
		return false
	}
	if n == 1 {
		delete(f.own, id)
	} else {
		f.own[id] = n - 1
	}
	return true
}
