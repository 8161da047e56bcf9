package console

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/yungbote/idearoom-admin/internal/platform/logger"
	"github.com/yungbote/idearoom-admin/internal/realtime"
)

// Subscription is one open change stream. Close releases every channel it
// listened on, whatever state the stream is in.
type Subscription struct {
	log     *logger.Logger
	body    io.ReadCloser
	cancel  context.CancelFunc
	changes chan realtime.Change
	done    chan struct{}

	closeOnce sync.Once
	mu        sync.Mutex
	err       error
}

func newSubscription(log *logger.Logger, body io.ReadCloser, cancel context.CancelFunc) *Subscription {
	s := &Subscription{
		log:     log,
		body:    body,
		cancel:  cancel,
		changes: make(chan realtime.Change, 64),
		done:    make(chan struct{}),
	}
	go s.run()
	return s
}

// Changes is closed when the stream ends.
func (s *Subscription) Changes() <-chan realtime.Change { return s.changes }

// Err reports why the stream ended; nil after Close.
func (s *Subscription) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Subscription) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.cancel()
		_ = s.body.Close()
	})
}

func (s *Subscription) run() {
	defer close(s.changes)
	defer s.Close()
	err := readEvents(s.body, func(event, data string) error {
		if event != "" && event != "message" {
			return nil
		}
		var msg realtime.SSEMessage
		if err := json.Unmarshal([]byte(data), &msg); err != nil {
			s.log.Warn("Undecodable change event", "error", err)
			return nil
		}
		select {
		case s.changes <- msg.Data:
			return nil
		case <-s.done:
			return errClosed
		}
	})
	if err != nil && !s.closed() && !errors.Is(err, context.Canceled) {
		s.mu.Lock()
		s.err = err
		s.mu.Unlock()
	}
}

var errClosed = errors.New("subscription closed")

func (s *Subscription) closed() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// readEvents splits an event stream into (event, data) pairs. Comment lines
// such as the keep-alive ping are skipped. An event not terminated by a blank
// line before EOF is discarded.
func readEvents(r io.Reader, onEvent func(event, data string) error) error {
	br := bufio.NewReader(r)
	var (
		eventName string
		dataLines []string
	)
	flush := func() error {
		if len(dataLines) == 0 {
			eventName = ""
			return nil
		}
		data := strings.Join(dataLines, "\n")
		ev := eventName
		eventName, dataLines = "", nil
		return onEvent(ev, data)
	}

	for {
		line, err := br.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		line = strings.TrimRight(line, "\r\n")
		switch {
		case line == "":
			if err := flush(); err != nil {
				return err
			}
		case strings.HasPrefix(line, ":"):
		case strings.HasPrefix(line, "event:"):
			eventName = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			dataLines = append(dataLines, strings.TrimSpace(strings.TrimPrefix(line, "data:")))
		}
	}
}
