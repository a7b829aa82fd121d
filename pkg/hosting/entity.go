package hosting

import (
	"context"
	"sort"
)

// Entity is a remote object addressed by its API URL.
type Entity interface {
	// URL is the absolute API URL and the identity of the entity.
	URL() string

	// Data returns the raw provider document, fetching it on first use.
	Data(ctx context.Context) (map[string]any, error)

	// Refresh discards the cached document and fetches it again.
	Refresh(ctx context.Context) error
}

// Equal reports whether a and b refer to the same remote object.
// Two nil entities are equal.
func Equal(a, b Entity) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.URL() == b.URL()
}

// Key returns the map key for e. Entities that are Equal share a Key.
func Key(e Entity) string {
	if e == nil {
		return ""
	}
	return e.URL()
}

// Unique drops entities whose URL was already seen, keeping order.
func Unique[E Entity](entities []E) []E {
	seen := make(map[string]bool, len(entities))
	out := entities[:0:0]
	for _, e := range entities {
		k := Key(e)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, e)
	}
	return out
}

// SortedSet returns the distinct values of s in ascending order.
// Collections the providers treat as sets (labels, hook URLs, affected
// files) are returned this way.
func SortedSet(s []string) []string {
	seen := make(map[string]bool, len(s))
	out := make([]string, 0, len(s))
	for _, v := range s {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
