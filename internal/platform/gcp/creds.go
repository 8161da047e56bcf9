package gcp

import (
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// Credential sources, most specific first. Each may hold inline JSON or a
// key file path. None set means application default credentials.
var credentialEnv = []string{
	"IDEAROOM_GCS_CREDENTIALS",
	"GOOGLE_APPLICATION_CREDENTIALS_JSON",
	"GOOGLE_APPLICATION_CREDENTIALS",
}

func storageClientOptions(getenv func(string) string) []option.ClientOption {
	if getenv == nil {
		getenv = os.Getenv
	}
	opts := []option.ClientOption{option.WithScopes(storage.ScopeReadWrite)}
	for _, name := range credentialEnv {
		creds := strings.TrimSpace(getenv(name))
		switch {
		case creds == "":
			continue
		case strings.HasPrefix(creds, "{"):
			return append(opts, option.WithCredentialsJSON([]byte(creds)))
		default:
			return append(opts, option.WithCredentialsFile(creds))
		}
	}
	return opts
}
