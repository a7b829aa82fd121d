package integrations

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/RaiVaibhav/IGitt/pkg/auth"
	igerr "github.com/RaiVaibhav/IGitt/pkg/errors"
	"github.com/RaiVaibhav/IGitt/pkg/observability"
)

func newTestClient(t *testing.T, srv *httptest.Server, cfg Config) *Client {
	t.Helper()
	cfg.BaseURL = srv.URL
	cfg.HTTPClient = srv.Client()
	c, err := NewClient(cfg)
	if err != nil {
		t.Fatalf("NewClient() error: %v", err)
	}
	return c
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		base    string
		wantErr bool
	}{
		{"github", "https://api.github.com", false},
		{"trailing slash", "https://gitlab.com/api/v4/", false},
		{"empty", "", true},
		{"no scheme", "api.github.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewClient(Config{BaseURL: tt.base})
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewClient(%q) error = %v, wantErr %v", tt.base, err, tt.wantErr)
			}
			if err == nil && c.BaseURL()[len(c.BaseURL())-1] == '/' {
				t.Errorf("BaseURL() = %q, should not end with slash", c.BaseURL())
			}
		})
	}
}

func TestFetchFollowsLinkPagination(t *testing.T) {
	const pages = 3
	var requests atomic.Int32

	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		if page == 0 {
			page = 1
		}
		if page < pages {
			w.Header().Set("Link", fmt.Sprintf(`<%s/items?page=%d>; rel="next", <%s/items?page=%d>; rel="last"`, srv.URL, page+1, srv.URL, pages))
		}
		_ = json.NewEncoder(w).Encode([]int{page*10 + 1, page*10 + 2})
	}))
	defer srv.Close()

	c := newTestClient(t, srv, Config{})
	got, err := c.Get(context.Background(), "/items", nil)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}

	want := []any{11.0, 12.0, 21.0, 22.0, 31.0, 32.0}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Get() = %v, want %v", got, want)
	}
	if requests.Load() != pages {
		t.Errorf("requests = %d, want %d", requests.Load(), pages)
	}
}

func TestFetchFollowsXNextPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("page") {
		case "", "1":
			w.Header().Set("X-Next-Page", "2")
			_, _ = w.Write([]byte(`[{"iid":1}]`))
		case "2":
			w.Header().Set("X-Next-Page", "")
			_, _ = w.Write([]byte(`[{"iid":2}]`))
		}
	}))
	defer srv.Close()

	c := newTestClient(t, srv, Config{})
	got, err := c.Get(context.Background(), "/projects/1/issues", nil)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	objs := AsObjects(got)
	if len(objs) != 2 || Int(objs[0], "iid") != 1 || Int(objs[1], "iid") != 2 {
		t.Errorf("Get() = %v", got)
	}
}

func TestFetchUnwrapsSearchResults(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "" {
			w.Header().Set("Link", fmt.Sprintf(`<%s/search/issues?page=2>; rel="next"`, srv.URL))
			_, _ = w.Write([]byte(`{"total_count":2,"incomplete_results":false,"items":[{"number":1}]}`))
			return
		}
		_, _ = w.Write([]byte(`{"total_count":2,"incomplete_results":false,"items":[{"number":2}]}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, Config{})
	got, err := c.Get(context.Background(), "/search/issues", nil)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if n := len(AsObjects(got)); n != 2 {
		t.Errorf("items = %d, want 2", n)
	}
}

func TestFetchSingleObject(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"full_name":"gitmate-test-user/test","id":49558751}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, Config{})
	got, err := c.Get(context.Background(), "/repos/gitmate-test-user/test", nil)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	m := AsObject(got)
	if Str(m, "full_name") != "gitmate-test-user/test" || Int(m, "id") != 49558751 {
		t.Errorf("Get() = %v", got)
	}
}

func TestFetchConditionalRequest(t *testing.T) {
	var (
		requests  atomic.Int32
		remaining atomic.Int32
	)
	remaining.Store(5000)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.Header().Set("ETag", `W/"v1"`)
		if r.Header.Get("If-None-Match") == `W/"v1"` {
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(int(remaining.Load())))
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(int(remaining.Add(-1))))
		_, _ = w.Write([]byte(`{"name":"test"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, Config{})
	ctx := context.Background()

	first, err := c.Get(ctx, "/repos/a/test", nil)
	if err != nil {
		t.Fatalf("first Get() error: %v", err)
	}
	quota := c.RateLimit().Remaining

	second, err := c.Get(ctx, "/repos/a/test", nil)
	if err != nil {
		t.Fatalf("second Get() error: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("cached body differs: %v != %v", first, second)
	}
	if requests.Load() != 2 {
		t.Errorf("requests = %d, want 2", requests.Load())
	}
	if got := c.RateLimit().Remaining; got != quota {
		t.Errorf("quota changed on 304: %d -> %d", quota, got)
	}
}

func TestFetchConditionalKeepsPagination(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		etag := `"p` + page + `"`
		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", etag)
		if page == "" {
			w.Header().Set("Link", fmt.Sprintf(`<%s/labels?page=2>; rel="next"`, srv.URL))
			_, _ = w.Write([]byte(`[{"name":"a"}]`))
			return
		}
		_, _ = w.Write([]byte(`[{"name":"b"}]`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, Config{})
	for i := range 2 {
		got, err := c.Get(context.Background(), "/labels", nil)
		if err != nil {
			t.Fatalf("Get() #%d error: %v", i, err)
		}
		if n := len(AsObjects(got)); n != 2 {
			t.Errorf("Get() #%d items = %d, want 2", i, n)
		}
	}
}

func TestFetchEmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := newTestClient(t, srv, Config{})
	got, err := c.Delete(context.Background(), "/repos/a/b/labels/x", nil)
	if err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	m, ok := got.(map[string]any)
	if !ok || len(m) != 0 {
		t.Errorf("Delete() = %#v, want empty map", got)
	}
}

func TestFetchAPIError(t *testing.T) {
	const body = `{"message":"Validation Failed","errors":[{"resource":"Label","code":"already_exists"}]}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, Config{})
	_, err := c.Post(context.Background(), "/repos/a/b/labels", map[string]string{"name": "x"})

	var apiErr *APIError
	if !errorsAs(err, &apiErr) {
		t.Fatalf("error = %T %v, want *APIError", err, err)
	}
	if apiErr.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("StatusCode = %d", apiErr.StatusCode)
	}
	if apiErr.Body != body {
		t.Errorf("Body = %q, want verbatim provider body", apiErr.Body)
	}
	if apiErr.Message() != "Validation Failed" {
		t.Errorf("Message() = %q", apiErr.Message())
	}
	if apiErr.Method != http.MethodPost {
		t.Errorf("Method = %q", apiErr.Method)
	}
}

func TestFetchNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	c := newTestClient(t, srv, Config{})
	srv.Close()

	_, err := c.Get(context.Background(), "/user", nil)
	if !igerr.Is(err, igerr.ErrCodeNetwork) {
		t.Errorf("error = %v, want NETWORK_ERROR code", err)
	}
	if StatusCode(err) != 0 {
		t.Errorf("StatusCode = %d, want 0", StatusCode(err))
	}
}

func TestFetchQueryAndPerPage(t *testing.T) {
	var got []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = append(got, r.Method+" "+r.URL.RequestURI())
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, Config{PerPage: 100})
	ctx := context.Background()
	_, _ = c.Get(ctx, "/user/repos?affiliation=owner", nil)
	_, _ = c.Get(ctx, "/search/issues", map[string][]string{"q": {"repo:a/b"}, "per_page": {"30"}})
	_, _ = c.Post(ctx, "/repos/a/b/issues", map[string]string{"title": "t"})

	want := []string{
		"GET /user/repos?affiliation=owner&per_page=100",
		"GET /search/issues?per_page=30&q=repo%3Aa%2Fb",
		"POST /repos/a/b/issues",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("requests = %q, want %q", got, want)
	}
}

func TestFetchAuthorizes(t *testing.T) {
	var header, query string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header = r.Header.Get("Authorization")
		query = r.URL.Query().Get("private_token")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	ctx := context.Background()
	_, _ = newTestClient(t, srv, Config{Token: auth.NewStaticToken("gh")}).Get(ctx, "/user", nil)
	if header != "Bearer gh" {
		t.Errorf("Authorization = %q", header)
	}

	_, _ = newTestClient(t, srv, Config{Token: auth.NewQueryToken("gl")}).Get(ctx, "/user", nil)
	if query != "gl" {
		t.Errorf("private_token = %q", query)
	}
}

func TestRateLimitHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("RateLimit-Limit", "600")
		w.Header().Set("RateLimit-Remaining", "599")
		w.Header().Set("RateLimit-Reset", "1700000000")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, Config{})
	if c.RateLimit().Known() {
		t.Error("RateLimit() should be unknown before any response")
	}
	_, _ = c.Get(context.Background(), "/user", nil)

	rl := c.RateLimit()
	if rl.Limit != 600 || rl.Remaining != 599 || rl.Reset.Unix() != 1700000000 {
		t.Errorf("RateLimit() = %+v", rl)
	}
}

type rateLimitRecorder struct {
	observability.NoopHTTPHooks
	host      string
	remaining int
}

func (r *rateLimitRecorder) OnRateLimit(_ context.Context, host string, remaining int, _ time.Time) {
	r.host, r.remaining = host, remaining
}

func TestRateLimitHook(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RateLimit-Remaining", "0")
		w.Header().Set("X-RateLimit-Reset", "1700000000")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	rec := &rateLimitRecorder{remaining: -1}
	observability.SetHTTPHooks(rec)
	t.Cleanup(observability.Reset)

	if _, err := newTestClient(t, srv, Config{}).Get(context.Background(), "/rate_limit", nil); err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if rec.remaining != 0 || "http://"+rec.host != srv.URL {
		t.Errorf("OnRateLimit got host=%q remaining=%d", rec.host, rec.remaining)
	}
}
