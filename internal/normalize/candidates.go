package normalize

import "strings"

// Every fallback chain of the normalizer goes through these helpers so the
// precedence rules live in one place: candidates are listed highest priority
// first, a nil candidate is absent.

// firstPresent returns the first non-nil candidate.
func firstPresent(candidates ...any) any {
	for _, c := range candidates {
		if c != nil {
			return c
		}
	}
	return nil
}

// firstString returns the first candidate that is a string with non-space
// content, trimmed.
func firstString(candidates ...any) (string, bool) {
	for _, c := range candidates {
		s, ok := c.(string)
		if !ok {
			continue
		}
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			return trimmed, true
		}
	}
	return "", false
}

// field walks nested objects, e.g. field(data, "owner_detail", "name").
// Missing keys and non-object values yield nil.
func field(data map[string]any, path ...string) any {
	var current any = data
	for _, key := range path {
		object, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		current = object[key]
	}
	return current
}
