package bus

import (
	"testing"

	"github.com/yungbote/idearoom-admin/internal/realtime"
)

func TestParseNotification(t *testing.T) {
	ch, err := ParseNotification(`{"table":"blogs","type":"UPDATE","id":4,"actor":"s1","at":"2024-05-01T10:00:00.123456+00:00","new":{"id":4,"title":"x"}}`)
	if err != nil {
		t.Fatalf("ParseNotification: %v", err)
	}
	if ch.Table != "blogs" || ch.Type != realtime.ChangeUpdate || ch.ID != 4 || ch.Actor != "s1" {
		t.Fatalf("unexpected change: %+v", ch)
	}
	var row struct {
		Title string `json:"title"`
	}
	if ok, err := ch.Decode(&row); err != nil || !ok || row.Title != "x" {
		t.Fatalf("Decode: ok=%v err=%v row=%+v", ok, err, row)
	}
}

func TestParseNotificationTruncated(t *testing.T) {
	ch, err := ParseNotification(`{"table":"offered_course","type":"INSERT","id":9,"at":"2024-05-01T10:00:00+00:00","truncated":true}`)
	if err != nil {
		t.Fatalf("ParseNotification: %v", err)
	}
	if !ch.Truncated || len(ch.New) != 0 {
		t.Fatalf("want truncated without row, got=%+v", ch)
	}
}

func TestParseNotificationRejectsUnknown(t *testing.T) {
	for _, payload := range []string{
		`not json`,
		`{"type":"INSERT","id":1}`,
		`{"table":"blogs","type":"TRUNCATE"}`,
	} {
		if _, err := ParseNotification(payload); err == nil {
			t.Fatalf("payload %q: want error", payload)
		}
	}
}
