package albert

import "strings"

// EnsurePrefix returns id with prefix prepended when missing. Callers may pass
// either "123" or "INV123"; both resolve to "INV123". The comparison is
// case-insensitive and empty ids are returned unchanged.
func EnsurePrefix(id, prefix string) string {
	id = strings.TrimSpace(id)
	if id == "" || prefix == "" {
		return id
	}

	if len(id) >= len(prefix) && strings.EqualFold(id[:len(prefix)], prefix) {
		return prefix + id[len(prefix):]
	}

	return prefix + id
}

// EnsurePrefixes applies EnsurePrefix to every id.
func EnsurePrefixes(ids []string, prefix string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = EnsurePrefix(id, prefix)
	}

	return out
}
