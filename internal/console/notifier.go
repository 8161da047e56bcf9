package console

import (
	"sync"
	"time"
)

type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeInfo    NoticeLevel = "info"
	NoticeError   NoticeLevel = "error"
)

const DefaultNoticeTTL = 3 * time.Second

type Notice struct {
	Level   NoticeLevel
	Message string
	At      time.Time
}

// Notifier holds at most one transient notice. A notice disappears once its
// TTL has passed; a newer notice replaces an older one.
type Notifier struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	current *Notice
	onShow  func(Notice)
}

func NewNotifier(ttl time.Duration) *Notifier {
	if ttl <= 0 {
		ttl = DefaultNoticeTTL
	}
	return &Notifier{ttl: ttl, now: time.Now}
}

// WithClock swaps the time source.
func (n *Notifier) WithClock(now func() time.Time) *Notifier {
	n.now = now
	return n
}

// OnShow registers a callback run for every new notice.
func (n *Notifier) OnShow(fn func(Notice)) {
	n.mu.Lock()
	n.onShow = fn
	n.mu.Unlock()
}

func (n *Notifier) Notify(level NoticeLevel, msg string) {
	notice := Notice{Level: level, Message: msg, At: n.now()}
	n.mu.Lock()
	n.current = &notice
	fn := n.onShow
	n.mu.Unlock()
	if fn != nil {
		fn(notice)
	}
}

// Current returns the visible notice, if any.
func (n *Notifier) Current() (Notice, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current == nil {
		return Notice{}, false
	}
	if n.now().Sub(n.current.At) >= n.ttl {
		n.current = nil
		return Notice{}, false
	}
	return *n.current, true
}
