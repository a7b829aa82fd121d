package integrations

import (
	"net/http"
	"strconv"
	"sync"
	"time"
)

// RateLimit is the quota state reported by the most recent response.
type RateLimit struct {
	Limit     int
	Remaining int
	Reset     time.Time
}

// Known reports whether any response carried rate limit headers.
func (r RateLimit) Known() bool { return !r.Reset.IsZero() || r.Limit > 0 }

// rateLimitTracker records the quota headers seen on responses. GitHub
// sends X-RateLimit-*, GitLab sends RateLimit-*. Both use a Unix timestamp
// for the reset.
type rateLimitTracker struct {
	mu    sync.Mutex
	state RateLimit
}

// update records the quota headers of h and returns the new state. ok is
// false when h carries none.
func (t *rateLimitTracker) update(h http.Header) (state RateLimit, ok bool) {
	remaining, ok := headerInt(h, "X-RateLimit-Remaining", "RateLimit-Remaining")
	if !ok {
		return RateLimit{}, false
	}
	limit, _ := headerInt(h, "X-RateLimit-Limit", "RateLimit-Limit")
	reset, _ := headerInt(h, "X-RateLimit-Reset", "RateLimit-Reset")

	t.mu.Lock()
	defer t.mu.Unlock()
	t.state.Remaining = remaining
	t.state.Limit = limit
	if reset > 0 {
		t.state.Reset = time.Unix(int64(reset), 0)
	}
	return t.state, true
}

func (t *rateLimitTracker) snapshot() RateLimit {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

func headerInt(h http.Header, names ...string) (int, bool) {
	for _, name := range names {
		if v := h.Get(name); v != "" {
			n, err := strconv.Atoi(v)
			if err == nil {
				return n, true
			}
		}
	}
	return 0, false
}
