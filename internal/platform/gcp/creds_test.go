package gcp

import "testing"

func TestStorageClientOptionsPicksFirstCredentialSource(t *testing.T) {
	env := map[string]string{
		"GOOGLE_APPLICATION_CREDENTIALS": "/etc/keys/sa.json",
	}
	opts := storageClientOptions(func(k string) string { return env[k] })
	if len(opts) != 2 {
		t.Fatalf("options: want=2 (scope+creds) got=%d", len(opts))
	}

	none := storageClientOptions(func(string) string { return "" })
	if len(none) != 1 {
		t.Fatalf("options without creds: want=1 (scope) got=%d", len(none))
	}
}
