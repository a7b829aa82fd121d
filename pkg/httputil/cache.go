package httputil

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/RaiVaibhav/IGitt/pkg/cache"
)

// Entry is what the access layer remembers about one GET response.
//
// Body is the raw response body. Link and NextPage are kept so that a
// 304 Not Modified on page N can still be followed to page N+1.
type Entry struct {
	ETag         string          `json:"etag,omitempty"`
	LastModified string          `json:"last_modified,omitempty"`
	Link         string          `json:"link,omitempty"`
	NextPage     string          `json:"next_page,omitempty"`
	Body         json.RawMessage `json:"body"`
}

// Validated reports whether the entry carries a validator usable for a
// conditional request.
func (e Entry) Validated() bool {
	return e.ETag != "" || e.LastModified != ""
}

// Condition sets If-None-Match and If-Modified-Since on req from the entry.
func (e Entry) Condition(req *http.Request) {
	if e.ETag != "" {
		req.Header.Set("If-None-Match", e.ETag)
	}
	if e.LastModified != "" {
		req.Header.Set("If-Modified-Since", e.LastModified)
	}
}

// Header returns the pagination headers stored with the entry, so a cached
// page can be treated like a fresh one by [NextURL].
func (e Entry) Header() http.Header {
	h := make(http.Header)
	if e.Link != "" {
		h.Set("Link", e.Link)
	}
	if e.NextPage != "" {
		h.Set("X-Next-Page", e.NextPage)
	}
	return h
}

// EntryFromResponse builds an entry from a 200 response and its body.
// ok is false when the response carries neither ETag nor Last-Modified,
// in which case there is nothing worth storing.
func EntryFromResponse(resp *http.Response, body []byte) (e Entry, ok bool) {
	e = Entry{
		ETag:         resp.Header.Get("ETag"),
		LastModified: resp.Header.Get("Last-Modified"),
		Link:         resp.Header.Get("Link"),
		NextPage:     resp.Header.Get("X-Next-Page"),
		Body:         body,
	}
	return e, e.Validated()
}

// ResponseCache stores validator entries keyed by request URL on top of a
// [cache.Cache] backend.
//
// Keys are the full request URL including query string, hashed with
// SHA-256 so arbitrary URLs are safe for every backend.
//
// Use [ResponseCache.Namespace] to create scoped views that prefix keys,
// avoiding collisions between different hosts or credentials:
//
//	github := rc.Namespace("github:")
//	gitlab := rc.Namespace("gitlab:")
type ResponseCache struct {
	backend cache.Cache
	ttl     time.Duration
	prefix  string
}

// NewResponseCache creates a ResponseCache over backend.
//
// A nil backend selects [cache.NewMemoryCache]. A ttl of 0 means entries
// never expire, which is the right default: a stale entry costs one 200
// instead of a 304, never a wrong answer.
func NewResponseCache(backend cache.Cache, ttl time.Duration) *ResponseCache {
	if backend == nil {
		backend = cache.NewMemoryCache()
	}
	return &ResponseCache{backend: backend, ttl: ttl}
}

// Backend returns the underlying store.
func (c *ResponseCache) Backend() cache.Cache { return c.backend }

// TTL returns the time-to-live used for new entries.
func (c *ResponseCache) TTL() time.Duration { return c.ttl }

// Get returns the entry stored for url.
//
// Return values indicate three outcomes:
//   - (entry, true, nil): an entry was found.
//   - (Entry{}, false, nil): no entry, or the stored bytes could not be decoded.
//   - (Entry{}, false, err): the backend failed.
func (c *ResponseCache) Get(ctx context.Context, url string) (Entry, bool, error) {
	data, ok, err := c.backend.Get(ctx, c.key(url))
	if err != nil || !ok {
		return Entry{}, false, err
	}
	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return Entry{}, false, nil
	}
	return e, true, nil
}

// Put stores e for url, replacing any previous entry.
func (c *ResponseCache) Put(ctx context.Context, url string, e Entry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return c.backend.Set(ctx, c.key(url), data, c.ttl)
}

// Delete drops the entry for url.
func (c *ResponseCache) Delete(ctx context.Context, url string) error {
	return c.backend.Delete(ctx, c.key(url))
}

// Namespace returns a new ResponseCache that prefixes all keys with prefix.
// The returned cache shares the backend and TTL of the parent. Calls can be
// chained: rc.Namespace("github:").Namespace("token-a:").
func (c *ResponseCache) Namespace(prefix string) *ResponseCache {
	return &ResponseCache{
		backend: c.backend,
		ttl:     c.ttl,
		prefix:  c.prefix + prefix,
	}
}

func (c *ResponseCache) key(url string) string {
	return "http:" + c.prefix + cache.Hash([]byte(url))
}
