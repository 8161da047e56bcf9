package realtime

import (
	"encoding/json"
	"time"
)

type ChangeType string

const (
	ChangeInsert ChangeType = "INSERT"
	ChangeUpdate ChangeType = "UPDATE"
	ChangeDelete ChangeType = "DELETE"
)

// Change is one row-level change on an admin table. New carries the row as
// written for inserts and updates; it is omitted for deletes and when the
// row was too large to ship, in which case Truncated is set.
type Change struct {
	Table     string          `json:"table"`
	Type      ChangeType      `json:"type"`
	ID        uint            `json:"id"`
	New       json.RawMessage `json:"new,omitempty"`
	Actor     string          `json:"actor,omitempty"`
	At        time.Time       `json:"at"`
	Truncated bool            `json:"truncated,omitempty"`
}

// NewChange marshals rec into the change payload.
func NewChange(table string, typ ChangeType, id uint, rec any, actor string) (Change, error) {
	ch := Change{
		Table: table,
		Type:  typ,
		ID:    id,
		Actor: actor,
		At:    time.Now().UTC(),
	}
	if rec != nil && typ != ChangeDelete {
		raw, err := json.Marshal(rec)
		if err != nil {
			return Change{}, err
		}
		ch.New = raw
	}
	return ch, nil
}

// Decode unmarshals New into out. It reports false when there is nothing to decode.
func (c Change) Decode(out any) (bool, error) {
	if len(c.New) == 0 || c.Truncated {
		return false, nil
	}
	if err := json.Unmarshal(c.New, out); err != nil {
		return false, err
	}
	return true, nil
}

// Message wraps the change for delivery on its table channel.
func (c Change) Message() SSEMessage {
	return SSEMessage{
		Channel: c.Table,
		Event:   SSEEvent(c.Type),
		Data:    c,
	}
}
