package envutil

import (
	"testing"
	"time"
)

func TestSecondsAcceptsIntegersAndDurations(t *testing.T) {
	t.Setenv("X_TTL", "90")
	if got := Seconds("X_TTL", time.Minute); got != 90*time.Second {
		t.Fatalf("int seconds: want=90s got=%s", got)
	}
	t.Setenv("X_TTL", "2h")
	if got := Seconds("X_TTL", time.Minute); got != 2*time.Hour {
		t.Fatalf("duration: want=2h got=%s", got)
	}
	t.Setenv("X_TTL", "soon")
	if got := Seconds("X_TTL", time.Minute); got != time.Minute {
		t.Fatalf("invalid: want default got=%s", got)
	}
}

func TestListAndBool(t *testing.T) {
	t.Setenv("X_LIST", " a, ,b ")
	got := List("X_LIST", nil)
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("List: got=%v", got)
	}
	t.Setenv("X_BOOL", "off")
	if Bool("X_BOOL", true) {
		t.Fatalf("Bool: want=false")
	}
	t.Setenv("X_BOOL", "maybe")
	if !Bool("X_BOOL", true) {
		t.Fatalf("Bool: want default true")
	}
}
