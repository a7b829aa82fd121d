package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/RaiVaibhav/IGitt/internal/config"
	"github.com/RaiVaibhav/IGitt/pkg/auth"
	"github.com/RaiVaibhav/IGitt/pkg/hosting"
	"github.com/RaiVaibhav/IGitt/pkg/integrations"
	"github.com/RaiVaibhav/IGitt/pkg/integrations/github"
	"github.com/RaiVaibhav/IGitt/pkg/observability"
)

// newTestCLI returns a CLI writing results to out, isolated from the
// user's config and sessions.
func newTestCLI(t *testing.T, out *bytes.Buffer) *CLI {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CACHE_HOME", filepath.Join(home, "cache"))
	for _, k := range []string{"IGITT_CONFIG", "IGITT_CACHE", "GITHUB_TOKEN", "GITLAB_TOKEN", "REDIS_ADDR", "REDIS_DB", "XDG_CONFIG_HOME"} {
		t.Setenv(k, "")
	}
	t.Cleanup(observability.Reset)
	c := New(&bytes.Buffer{}, log.InfoLevel)
	c.Out = out
	return c
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	c := newTestCLI(t, &bytes.Buffer{})
	root := c.RootCommand()

	want := []string{"repo", "issue", "mr", "search", "commit", "content", "org", "user", "repos", "cache", "webhook", "auth", "completion"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd == root {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestRootCommandRejectsBadFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"output", []string{"--output", "xml", "cache", "path"}, "unknown output format"},
		{"provider", []string{"--provider", "bitbucket", "cache", "path"}, "unknown provider"},
		{"missing config", []string{"--config", "/nonexistent/igitt.toml", "cache", "path"}, "igitt.toml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCLI(t, &bytes.Buffer{})
			root := c.RootCommand()
			root.SetArgs(tt.args)
			err := root.ExecuteContext(context.Background())
			if err == nil {
				t.Fatalf("Execute(%v) = nil, want error", tt.args)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestCachePathCommand(t *testing.T) {
	var out bytes.Buffer
	c := newTestCLI(t, &out)
	root := c.RootCommand()
	root.SetArgs([]string{"cache", "path"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != string(config.CacheMemory) {
		t.Errorf("cache path = %q, want %q", got, config.CacheMemory)
	}
}

func TestCacheLocation(t *testing.T) {
	c := newTestCLI(t, &bytes.Buffer{})

	c.config.Cache = config.Cache{Backend: config.CacheRedis, RedisAddr: "localhost:6379", RedisDB: 2}
	got, err := c.cacheLocation()
	if err != nil {
		t.Fatal(err)
	}
	if got != "redis://localhost:6379/2" {
		t.Errorf("cacheLocation() = %q", got)
	}

	c.config.Cache = config.Cache{Backend: config.CacheFile, Dir: "/var/cache/igitt"}
	if got, _ = c.cacheLocation(); got != "/var/cache/igitt" {
		t.Errorf("cacheLocation() = %q, want configured dir", got)
	}
}

func TestNewCacheNoCacheFlag(t *testing.T) {
	c := newTestCLI(t, &bytes.Buffer{})
	c.config.Cache.Backend = config.CacheRedis
	c.flags.noCache = true

	store, err := c.newCache(context.Background())
	if err != nil {
		t.Fatalf("newCache() error: %v", err)
	}
	defer store.Close()
	if err := store.Set(context.Background(), "k", []byte("v"), time.Minute); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := store.Get(context.Background(), "k"); ok {
		t.Error("--no-cache should disable caching")
	}
}

func TestParseProvider(t *testing.T) {
	for _, s := range []string{"github", "gitlab"} {
		if p, err := parseProvider(s); err != nil || string(p) != s {
			t.Errorf("parseProvider(%q) = %q, %v", s, p, err)
		}
	}
	if _, err := parseProvider("GitHub"); err == nil {
		t.Error("parseProvider should be case sensitive")
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"12", 12, false},
		{"#7", 7, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"abc", 0, true},
	}
	for _, tt := range tests {
		got, err := parseNumber(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("parseNumber(%q) = %d, %v", tt.in, got, err)
		}
	}
}

func TestSearchFlagsFilter(t *testing.T) {
	f := searchFlags{createdAfter: "2024-01-02", updatedBefore: "2024-03-04T05:06:07Z"}
	filter, err := f.filter()
	if err != nil {
		t.Fatalf("filter() error: %v", err)
	}
	if want := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC); !filter.CreatedAfter.Equal(want) {
		t.Errorf("CreatedAfter = %v, want %v", filter.CreatedAfter, want)
	}
	if want := time.Date(2024, 3, 4, 5, 6, 7, 0, time.UTC); !filter.UpdatedBefore.Equal(want) {
		t.Errorf("UpdatedBefore = %v, want %v", filter.UpdatedBefore, want)
	}
	if !filter.CreatedBefore.IsZero() || !filter.UpdatedAfter.IsZero() {
		t.Error("unset flags should stay zero")
	}

	bad := searchFlags{createdBefore: "yesterday"}
	if _, err := bad.filter(); err == nil {
		t.Error("filter() should reject unparsable times")
	}
}

func TestStatusStyle(t *testing.T) {
	if statusStyle("success").Render("x") != StyleSuccess.Render("x") {
		t.Error("success should render in the success style")
	}
	if statusStyle("running").Render("x") != StyleWarning.Render("x") {
		t.Error("running should render in the warning style")
	}
	if statusStyle("bogus").Render("x") != StyleDim.Render("x") {
		t.Error("unknown statuses should render dim")
	}
	if statusStyle("failed").Render("x") != StyleFailure.Render("x") {
		t.Error("failed should render in the failure style")
	}
}

func TestStateStyle(t *testing.T) {
	for state, want := range map[string]string{
		"open":   StyleSuccess.Render("x"),
		"merged": StyleMerged.Render("x"),
		"closed": StyleDim.Render("x"),
	} {
		if got := stateStyle(state).Render("x"); got != want {
			t.Errorf("stateStyle(%q) = %q, want %q", state, got, want)
		}
	}
}

func TestStatusLinesGoToStatusWriter(t *testing.T) {
	var buf bytes.Buffer
	old := statusOut
	statusOut = &buf
	t.Cleanup(func() { statusOut = old })

	printSuccess("Cleared %d cached entries", 3)
	printKeyValue("Code", "ABCD-1234")

	out := buf.String()
	if !strings.Contains(out, "Cleared 3 cached entries") || !strings.Contains(out, "ABCD-1234") {
		t.Errorf("status output = %q", out)
	}
}

func TestEmit(t *testing.T) {
	v := commitView{SHA: "abc", URL: "https://example.com/c/abc"}

	tests := []struct {
		format string
		check  func(t *testing.T, out []byte)
	}{
		{outputJSON, func(t *testing.T, out []byte) {
			var got commitView
			if err := json.Unmarshal(out, &got); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if got != v {
				t.Errorf("json = %+v, want %+v", got, v)
			}
		}},
		{outputYAML, func(t *testing.T, out []byte) {
			var got commitView
			if err := yaml.Unmarshal(out, &got); err != nil {
				t.Fatalf("invalid yaml: %v", err)
			}
			if got != v {
				t.Errorf("yaml = %+v, want %+v", got, v)
			}
		}},
		{outputText, func(t *testing.T, out []byte) {
			if string(out) != "text abc\n" {
				t.Errorf("text = %q", out)
			}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var out bytes.Buffer
			c := &CLI{Out: &out, flags: globalFlags{output: tt.format}}
			err := c.emit(v, func(w io.Writer) { fmt.Fprintln(w, "text", v.SHA) })
			if err != nil {
				t.Fatalf("emit() error: %v", err)
			}
			tt.check(t, out.Bytes())
		})
	}
}

func TestLoadRepoView(t *testing.T) {
	mux := http.NewServeMux()
	reply := func(status int, v any) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_ = json.NewEncoder(w).Encode(v)
		}
	}
	mux.Handle("GET /repos/o/r", reply(http.StatusOK, map[string]any{"full_name": "o/r", "id": 42}))
	mux.Handle("GET /repos/o/r/labels", reply(http.StatusOK, []map[string]any{{"name": "bug"}, {"name": "area/ui"}}))
	mux.Handle("GET /repos/o/r/hooks", reply(http.StatusForbidden, map[string]any{"message": "Must have admin rights"}))
	mux.Handle("GET /repos/o/r/issues", reply(http.StatusOK, []map[string]any{
		{"number": 1, "title": "a"},
		{"number": 2, "title": "b", "pull_request": map[string]any{}},
	}))
	mux.Handle("GET /repos/o/r/pulls", reply(http.StatusOK, []map[string]any{{"number": 2}}))

	srv := httptest.NewServer(mux)
	defer srv.Close()
	client, err := github.NewClient(integrations.Config{BaseURL: srv.URL, HTTPClient: srv.Client()})
	if err != nil {
		t.Fatal(err)
	}

	v, err := loadRepoView(context.Background(), github.New(client), "o/r")
	if err != nil {
		t.Fatalf("loadRepoView() error: %v", err)
	}
	if v.Provider != string(hosting.GitHub) || v.FullName != "o/r" || v.ID != 42 {
		t.Errorf("view = %+v", v)
	}
	if !strings.HasSuffix(v.WebURL, "/o/r") {
		t.Errorf("WebURL = %q", v.WebURL)
	}
	if !slices.Equal(v.Labels, []string{"area/ui", "bug"}) {
		t.Errorf("Labels = %v", v.Labels)
	}
	if v.Hooks != nil {
		t.Errorf("Hooks = %v, want none without admin rights", v.Hooks)
	}
	if v.OpenIssues != 1 || v.OpenMergeRequests != 1 {
		t.Errorf("counts = %d issues, %d merge requests", v.OpenIssues, v.OpenMergeRequests)
	}
}

func TestCacheScope(t *testing.T) {
	ctx := context.Background()
	if got := cacheScope(ctx, nil); got != "anonymous:" {
		t.Errorf("cacheScope(nil) = %q", got)
	}
	a := cacheScope(ctx, auth.NewStaticToken("token-a"))
	b := cacheScope(ctx, auth.NewStaticToken("token-b"))
	if a == b {
		t.Error("different tokens should get different scopes")
	}
	if strings.Contains(a, "token-a") {
		t.Error("scope should not contain the raw token")
	}
	if a != cacheScope(ctx, auth.NewStaticToken("token-a")) {
		t.Error("scope should be stable for one token")
	}
}

func TestRepoArg(t *testing.T) {
	tests := []struct {
		provider hosting.Provider
		arg      string
		want     hosting.Provider
		wantName string
	}{
		{hosting.GitHub, "gitmate/igitt", hosting.GitHub, "gitmate/igitt"},
		{hosting.GitLab, "12345", hosting.GitLab, "12345"},
		{hosting.GitHub, "https://gitlab.com/group/sub/repo", hosting.GitLab, "group/sub/repo"},
		{hosting.GitLab, "git@github.com:octo/hello.git", hosting.GitHub, "octo/hello"},
		{hosting.GitLab, "https://git.example.com/team/repo", hosting.GitLab, "team/repo"},
	}
	for _, tt := range tests {
		got, name := repoArg(tt.provider, tt.arg)
		if got != tt.want || name != tt.wantName {
			t.Errorf("repoArg(%s, %q) = %s, %q; want %s, %q", tt.provider, tt.arg, got, name, tt.want, tt.wantName)
		}
	}
}
