package ctxutil

import "context"

type requestIDsKey struct{}

// RequestIDs correlate one admin request across logs, spans and responses.
type RequestIDs struct {
	Trace   string
	Request string
}

func WithRequestIDs(ctx context.Context, ids RequestIDs) context.Context {
	return context.WithValue(ctx, requestIDsKey{}, ids)
}

func RequestIDsFrom(ctx context.Context) (RequestIDs, bool) {
	if ctx == nil {
		return RequestIDs{}, false
	}
	ids, ok := ctx.Value(requestIDsKey{}).(RequestIDs)
	return ids, ok
}

// LogFields returns the request ids and writing actor as logger key/values.
func LogFields(ctx context.Context) []interface{} {
	var kv []interface{}
	if ids, ok := RequestIDsFrom(ctx); ok {
		if ids.Trace != "" {
			kv = append(kv, "trace_id", ids.Trace)
		}
		if ids.Request != "" {
			kv = append(kv, "request_id", ids.Request)
		}
	}
	if actor := Actor(ctx); actor != "" {
		kv = append(kv, "session_id", actor)
	}
	return kv
}
