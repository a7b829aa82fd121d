package integrations

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/RaiVaibhav/IGitt/pkg/auth"
	"github.com/RaiVaibhav/IGitt/pkg/cache"
	"github.com/RaiVaibhav/IGitt/pkg/httputil"
	"github.com/RaiVaibhav/IGitt/pkg/observability"
)

// Config configures a [Client].
type Config struct {
	// BaseURL is the API root, e.g. https://api.github.com. Required.
	BaseURL string

	// Token authorizes every request. Nil sends unauthenticated requests.
	Token auth.Token

	// HTTPClient performs requests. Defaults to [NewHTTPClient].
	HTTPClient *http.Client

	// Cache stores conditional-request validators. Nil selects a
	// process-lifetime [cache.MemoryCache].
	Cache cache.Cache

	// CacheTTL bounds how long a stored validator is kept. Zero keeps it
	// for the lifetime of the backend.
	CacheTTL time.Duration

	// CacheNamespace scopes cache keys, e.g. "github:". Also used as the
	// key type reported to observability cache hooks.
	CacheNamespace string

	// Headers are applied to all requests made through this client.
	Headers map[string]string

	// PerPage is set as per_page on GET requests that do not already carry
	// one. Zero leaves the provider default.
	PerPage int

	// Logger receives one debug line per exchange. Nil discards.
	Logger *log.Logger
}

// Client is the HTTP access layer shared by the hosting adapters.
//
// Fetch builds the request URL, authorizes it, follows pagination, replays
// stored validators on GET so that unchanged resources come back as 304,
// and decodes the JSON body. Non-2xx responses become *APIError.
//
// A Client is safe for concurrent use.
type Client struct {
	base      *url.URL
	token     auth.Token
	http      *http.Client
	responses *httputil.ResponseCache
	keyType   string
	headers   map[string]string
	perPage   int
	logger    *log.Logger
	limits    rateLimitTracker
}

// NewClient creates a Client from cfg.
func NewClient(cfg Config) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", cfg.BaseURL)
	}

	hc := cfg.HTTPClient
	if hc == nil {
		hc = NewHTTPClient()
	}
	backend := cfg.Cache
	if backend == nil {
		backend = cache.NewMemoryCache()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	keyType := strings.TrimSuffix(cfg.CacheNamespace, ":")
	if keyType == "" {
		keyType = base.Host
	}

	return &Client{
		base:      base,
		token:     cfg.Token,
		http:      hc,
		responses: httputil.NewResponseCache(backend, cfg.CacheTTL).Namespace(cfg.CacheNamespace),
		keyType:   keyType,
		headers:   cfg.Headers,
		perPage:   cfg.PerPage,
		logger:    logger,
	}, nil
}

// BaseURL returns the API root without a trailing slash.
func (c *Client) BaseURL() string { return c.base.String() }

// Token returns the credential used by the client. It may be nil.
func (c *Client) Token() auth.Token { return c.token }

// RateLimit returns the quota reported by the last response that carried
// rate limit headers.
func (c *Client) RateLimit() RateLimit { return c.limits.snapshot() }

// Get fetches path with GET.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (any, error) {
	return c.Fetch(ctx, http.MethodGet, path, query, nil)
}

// Post sends body to path with POST.
func (c *Client) Post(ctx context.Context, path string, body any) (any, error) {
	return c.Fetch(ctx, http.MethodPost, path, nil, body)
}

// Put sends body to path with PUT.
func (c *Client) Put(ctx context.Context, path string, body any) (any, error) {
	return c.Fetch(ctx, http.MethodPut, path, nil, body)
}

// Patch sends body to path with PATCH.
func (c *Client) Patch(ctx context.Context, path string, body any) (any, error) {
	return c.Fetch(ctx, http.MethodPatch, path, nil, body)
}

// Delete sends DELETE to path. body may be nil.
func (c *Client) Delete(ctx context.Context, path string, body any) (any, error) {
	return c.Fetch(ctx, http.MethodDelete, path, nil, body)
}

// Fetch performs method on path and returns the decoded JSON result.
//
// path is resolved against the base URL unless it is already absolute.
// query is merged into any query string already present on path.
//
// When a response links to a next page (Link rel="next", or X-Next-Page),
// the same request is repeated for every following page and the items are
// concatenated into one []any in page order. Search results of the form
// {"total_count": n, "items": [...]} contribute their items.
//
// Empty responses decode to an empty map[string]any.
func (c *Client) Fetch(ctx context.Context, method, path string, query url.Values, body any) (any, error) {
	u, err := c.resolve(method, path, query)
	if err != nil {
		return nil, err
	}

	var payload []byte
	if body != nil {
		if payload, err = json.Marshal(body); err != nil {
			return nil, fmt.Errorf("encode %s %s body: %w", method, u, err)
		}
	}

	var (
		items   []any
		paged   bool
		visited = map[string]bool{}
	)
	for next := u; next != ""; {
		visited[next] = true
		result, header, err := c.do(ctx, method, next, payload)
		if err != nil {
			return nil, err
		}

		list, isList := asList(result)
		next = httputil.NextURL(next, header)
		if visited[next] {
			next = ""
		}
		if !isList {
			if !paged && next == "" {
				return result, nil
			}
			// A non-list page in the middle of a listing ends it.
			break
		}
		paged = true
		items = append(items, list...)
	}
	if items == nil {
		items = []any{}
	}
	return items, nil
}

// envelopeKeys are the list fields of counted envelopes.
var envelopeKeys = []string{"items", "repositories"}

// asList returns the items of a list result, unwrapping counted envelopes.
func asList(v any) ([]any, bool) {
	switch t := v.(type) {
	case []any:
		return t, true
	case map[string]any:
		if _, ok := t["total_count"]; !ok {
			return nil, false
		}
		for _, k := range envelopeKeys {
			if items, ok := t[k].([]any); ok {
				return items, true
			}
		}
	}
	return nil, false
}

func (c *Client) resolve(method, path string, query url.Values) (string, error) {
	var (
		u   *url.URL
		err error
	)
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		u, err = url.Parse(path)
	} else {
		if !strings.HasPrefix(path, "/") {
			path = "/" + path
		}
		u, err = url.Parse(c.base.String() + path)
	}
	if err != nil {
		return "", fmt.Errorf("invalid request path %q: %w", path, err)
	}

	q := u.Query()
	for k, vs := range query {
		q.Del(k)
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	if method == http.MethodGet && c.perPage > 0 && q.Get("per_page") == "" {
		q.Set("per_page", strconv.Itoa(c.perPage))
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// do performs a single exchange and returns the decoded body together with
// the headers that drive pagination.
func (c *Client) do(ctx context.Context, method, rawURL string, payload []byte) (any, http.Header, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return nil, nil, &APIError{Method: method, URL: rawURL, Err: err}
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	// Cache keys use the URL before authorization, so query tokens never
	// reach the store.
	var (
		entry  httputil.Entry
		cached bool
	)
	if method == http.MethodGet {
		entry, cached, _ = c.responses.Get(ctx, rawURL)
		if cached {
			entry.Condition(req)
		} else {
			observability.Cache().OnCacheMiss(ctx, c.keyType)
		}
	}

	if c.token != nil {
		if err := c.token.Authorize(ctx, req); err != nil {
			return nil, nil, &APIError{Method: method, URL: rawURL, Err: fmt.Errorf("authorize: %w", err)}
		}
	}

	hooks := observability.HTTP()
	host, path := req.URL.Host, req.URL.Path
	hooks.OnRequest(ctx, method, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, method, host, path, err)
		return nil, nil, &APIError{Method: method, URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		hooks.OnError(ctx, method, host, path, err)
		return nil, nil, &APIError{Method: method, URL: rawURL, Err: err}
	}
	took := time.Since(start)
	hooks.OnResponse(ctx, method, host, path, resp.StatusCode, took)
	c.logger.Debug("fetch", "method", method, "url", rawURL, "status", resp.StatusCode, "took", took.Round(time.Millisecond))
	if rl, ok := c.limits.update(resp.Header); ok {
		hooks.OnRateLimit(ctx, host, rl.Remaining, rl.Reset)
	}

	header := resp.Header
	switch {
	case resp.StatusCode == http.StatusNotModified && cached:
		observability.Cache().OnCacheHit(ctx, c.keyType)
		body, header = entry.Body, entry.Header()
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, nil, &APIError{Method: method, URL: rawURL, StatusCode: resp.StatusCode, Body: string(body)}
	case method == http.MethodGet:
		if e, ok := httputil.EntryFromResponse(resp, body); ok {
			if err := c.responses.Put(ctx, rawURL, e); err == nil {
				observability.Cache().OnCacheSet(ctx, c.keyType, len(body))
			}
		}
	}

	result, err := decode(resp.StatusCode, body)
	if err != nil {
		return nil, nil, fmt.Errorf("decode %s %s: %w", method, rawURL, err)
	}
	return result, header, nil
}

func decode(status int, body []byte) (any, error) {
	body = bytes.TrimSpace(body)
	if status == http.StatusNoContent || len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return map[string]any{}, nil
	}
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, err
	}
	return v, nil
}
