package logger

import (
	"strings"
	"testing"
)

func TestSanitizeRedactsCredentialsAndPII(t *testing.T) {
	kv := sanitizeKVs([]interface{}{
		"password", "hunter2",
		"email", "admin@example.com",
		"phoneNumber", "555-0100",
		"title", "Intro to Go",
	})
	got := map[string]interface{}{}
	for i := 0; i+1 < len(kv); i += 2 {
		got[kv[i].(string)] = kv[i+1]
	}
	for _, key := range []string{"password", "email", "phoneNumber"} {
		if got[key] != "[REDACTED]" {
			t.Fatalf("%s: want=[REDACTED] got=%v", key, got[key])
		}
	}
	if got["title"] != "Intro to Go" {
		t.Fatalf("title: want passthrough got=%v", got["title"])
	}
}

func TestSanitizeHashesSessionIDs(t *testing.T) {
	kv := sanitizeKVs([]interface{}{"session_id", "abc-123"})
	s, ok := kv[1].(string)
	if !ok || !strings.HasPrefix(s, "hash:") {
		t.Fatalf("session_id: want hashed value got=%v", kv[1])
	}
	again := sanitizeKVs([]interface{}{"session_id", "abc-123"})
	if again[1] != kv[1] {
		t.Fatalf("hash should be stable: %v vs %v", kv[1], again[1])
	}
}

func TestNewHonoursLogLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")
	log, err := New("development")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if log.SugaredLogger.Desugar().Core().Enabled(-1) {
		t.Fatalf("debug should be disabled at LOG_LEVEL=error")
	}
}
