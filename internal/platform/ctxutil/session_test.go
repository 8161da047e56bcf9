package ctxutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestGetSessionDataDefaultsToAnonymous(t *testing.T) {
	sd := GetSessionData(context.Background())
	if sd.Authenticated() {
		t.Fatalf("empty context should be anonymous")
	}
	if Actor(context.Background()) != "" {
		t.Fatalf("anonymous actor should be empty")
	}
}

func TestActorUsesSessionID(t *testing.T) {
	id := uuid.New()
	ctx := WithSessionData(context.Background(), &SessionData{Status: SessionAuthenticated, SessionID: id})
	if got := Actor(ctx); got != id.String() {
		t.Fatalf("actor: want=%s got=%s", id, got)
	}
}
