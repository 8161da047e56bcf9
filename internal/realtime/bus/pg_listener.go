package bus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/yungbote/idearoom-admin/internal/platform/logger"
	"github.com/yungbote/idearoom-admin/internal/realtime"
)

// PGListener turns NOTIFY payloads from the table change triggers into changes.
type PGListener struct {
	log     *logger.Logger
	dsn     string
	channel string
	backoff time.Duration
}

func NewPGListener(log *logger.Logger, dsn, channel string) *PGListener {
	return &PGListener{
		log:     log.With("service", "PGListener"),
		dsn:     dsn,
		channel: channel,
		backoff: 2 * time.Second,
	}
}

// Start connects and listens in the background until ctx is done. The first
// connection must succeed; later failures reconnect with a fixed backoff.
func (l *PGListener) Start(ctx context.Context, onChange func(ch realtime.Change)) error {
	if onChange == nil {
		return fmt.Errorf("onChange callback required")
	}
	conn, err := l.connect(ctx)
	if err != nil {
		return err
	}
	go l.loop(ctx, conn, onChange)
	return nil
}

func (l *PGListener) connect(ctx context.Context) (*pgx.Conn, error) {
	conn, err := pgx.Connect(ctx, l.dsn)
	if err != nil {
		return nil, fmt.Errorf("pg listen connect: %w", err)
	}
	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{l.channel}.Sanitize()); err != nil {
		_ = conn.Close(ctx)
		return nil, fmt.Errorf("pg listen %s: %w", l.channel, err)
	}
	l.log.Info("Listening for table changes", "channel", l.channel)
	return conn, nil
}

func (l *PGListener) loop(ctx context.Context, conn *pgx.Conn, onChange func(ch realtime.Change)) {
	defer func() {
		if conn != nil {
			_ = conn.Close(context.Background())
		}
	}()
	for {
		if conn == nil {
			select {
			case <-ctx.Done():
				return
			case <-time.After(l.backoff):
			}
			c, err := l.connect(ctx)
			if err != nil {
				l.log.Warn("pg listener reconnect failed", "error", err)
				continue
			}
			conn = c
		}

		n, err := conn.WaitForNotification(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			l.log.Warn("pg listener lost connection", "error", err)
			_ = conn.Close(context.Background())
			conn = nil
			continue
		}
		ch, err := ParseNotification(n.Payload)
		if err != nil {
			l.log.Warn("bad change notification", "error", err)
			continue
		}
		onChange(ch)
	}
}

// ParseNotification decodes a trigger payload.
func ParseNotification(payload string) (realtime.Change, error) {
	var ch realtime.Change
	if err := json.Unmarshal([]byte(payload), &ch); err != nil {
		return realtime.Change{}, err
	}
	if ch.Table == "" {
		return realtime.Change{}, fmt.Errorf("notification without table")
	}
	switch ch.Type {
	case realtime.ChangeInsert, realtime.ChangeUpdate, realtime.ChangeDelete:
	default:
		return realtime.Change{}, fmt.Errorf("unknown change type %q", ch.Type)
	}
	return ch, nil
}
