package domain

import (
	"fmt"
	"strconv"
	"strings"

	"gorm.io/datatypes"
)

// StringList is a JSON array column of strings.
type StringList = datatypes.JSONSlice[string]

// NormalizeStrings coerces nil or empty lists to [""]; the remote schema
// rejects empty arrays on these columns.
func NormalizeStrings(in []string) StringList {
	if len(in) == 0 {
		return StringList{""}
	}
	return StringList(in)
}

// CompactStrings trims entries and drops blanks. The result may be empty.
func CompactStrings(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// DedupStrings keeps the first occurrence of each entry, case-insensitively.
func DedupStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		k := strings.ToLower(s)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, s)
	}
	return out
}

// HasNonEmpty reports whether at least one entry has non-blank text.
func HasNonEmpty(in []string) bool {
	for _, s := range in {
		if strings.TrimSpace(s) != "" {
			return true
		}
	}
	return false
}

// CoerceArrayFields rewrites loosely typed request bodies in place: a field
// that is present but not an array becomes [""] when falsy and [value]
// otherwise. When fillMissing is set, absent fields become [""] too.
func CoerceArrayFields(body map[string]any, fillMissing bool, fields ...string) {
	for _, f := range fields {
		v, present := body[f]
		if !present {
			if fillMissing {
				body[f] = []any{""}
			}
			continue
		}
		switch t := v.(type) {
		case []any:
			for i, item := range t {
				if _, ok := item.(string); !ok {
					t[i] = scalarString(item)
				}
			}
			if len(t) == 0 {
				body[f] = []any{""}
			}
		default:
			if Truthy(v) {
				body[f] = []any{scalarString(v)}
			} else {
				body[f] = []any{""}
			}
		}
	}
}

// Truthy follows the loose truthiness of JSON request values.
func Truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0
	default:
		return true
	}
}

func scalarString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
