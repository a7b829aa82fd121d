package github

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/RaiVaibhav/IGitt/pkg/auth"
	igerr "github.com/RaiVaibhav/IGitt/pkg/errors"
	"github.com/RaiVaibhav/IGitt/pkg/hosting"
	"github.com/RaiVaibhav/IGitt/pkg/integrations"
)

const testToken = "secret-token"

func newTestHoster(t *testing.T, handler http.Handler) *Hoster {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(integrations.Config{
		BaseURL:    srv.URL,
		Token:      auth.NewStaticToken(testToken),
		HTTPClient: srv.Client(),
	})
	if err != nil {
		t.Fatalf("NewClient() error: %v", err)
	}
	return New(client)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		t.Errorf("decode %s %s body: %v", r.Method, r.URL.Path, err)
	}
	return body
}

// requestLog records "METHOD /path" for every request.
type requestLog struct {
	mu   sync.Mutex
	seen []string
}

func (l *requestLog) wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		l.mu.Lock()
		l.seen = append(l.seen, r.Method+" "+r.URL.Path)
		l.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (l *requestLog) count(entry string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, s := range l.seen {
		if s == entry {
			n++
		}
	}
	return n
}

func (l *requestLog) total() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.seen)
}

func mustRepo(t *testing.T, h *Hoster, name string) hosting.Repository {
	t.Helper()
	repo, err := h.GetRepo(name)
	if err != nil {
		t.Fatalf("GetRepo(%q) error: %v", name, err)
	}
	return repo
}

func TestNewClientDefaults(t *testing.T) {
	var accept, perPage string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accept = r.Header.Get("Accept")
		perPage = r.URL.Query().Get("per_page")
		writeJSON(w, http.StatusOK, []any{})
	}))
	defer srv.Close()

	client, err := NewClient(integrations.Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := client.Get(context.Background(), "/user/repos", nil); err != nil {
		t.Fatal(err)
	}
	if accept != mediaType {
		t.Errorf("Accept = %q, want %q", accept, mediaType)
	}
	if perPage != "100" {
		t.Errorf("per_page = %q, want 100", perPage)
	}

	def, err := NewClient(integrations.Config{})
	if err != nil {
		t.Fatal(err)
	}
	if def.BaseURL() != DefaultBaseURL {
		t.Errorf("BaseURL() = %q, want %q", def.BaseURL(), DefaultBaseURL)
	}
}

func TestGetRepoAddressing(t *testing.T) {
	log := &requestLog{}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repositories/49558751", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"id": 49558751, "full_name": "gitmate-test-user/test"})
	})
	h := newTestHoster(t, log.wrap(mux))
	ctx := context.Background()

	byName := mustRepo(t, h, "gitmate-test-user/test")
	if got, want := byName.URL(), h.Client().BaseURL()+"/repos/gitmate-test-user/test"; got != want {
		t.Errorf("URL() = %q, want %q", got, want)
	}
	name, err := byName.FullName(ctx)
	if err != nil || name != "gitmate-test-user/test" {
		t.Errorf("FullName() = %q, %v", name, err)
	}
	if log.total() != 0 {
		t.Errorf("name addressed repository made %d requests", log.total())
	}

	byID := mustRepo(t, h, "49558751")
	if got, want := byID.URL(), h.Client().BaseURL()+"/repositories/49558751"; got != want {
		t.Errorf("URL() = %q, want %q", got, want)
	}
	name, err = byID.FullName(ctx)
	if err != nil || name != "gitmate-test-user/test" {
		t.Errorf("FullName() = %q, %v", name, err)
	}
	id, err := byID.Identifier(ctx)
	if err != nil || id != 49558751 {
		t.Errorf("Identifier() = %d, %v", id, err)
	}
	if log.total() != 1 {
		t.Errorf("requests = %d, want 1", log.total())
	}

	for _, bad := range []string{"", "noslash", "-bad/repo", "a/b/c", "0"} {
		if _, err := h.GetRepo(bad); !igerr.Is(err, igerr.ErrCodeInvalidRepo) {
			t.Errorf("GetRepo(%q) error = %v, want INVALID_REPO", bad, err)
		}
	}
}

func TestCloneURLAndTopLevelOrg(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/gitmate-test-user/test", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"full_name": "gitmate-test-user/test",
			"clone_url": "https://github.com/gitmate-test-user/test.git",
		})
	})
	h := newTestHoster(t, mux)
	repo := mustRepo(t, h, "gitmate-test-user/test")
	ctx := context.Background()

	got, err := repo.CloneURL(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if want := "https://" + testToken + "@github.com/gitmate-test-user/test.git"; got != want {
		t.Errorf("CloneURL() = %q, want %q", got, want)
	}

	org, err := repo.TopLevelOrg(ctx)
	if err != nil || org.Name() != "gitmate-test-user" {
		t.Errorf("TopLevelOrg() = %v, %v", org, err)
	}
}

func TestLabelLifecycle(t *testing.T) {
	var (
		mu     sync.Mutex
		labels = []string{"a", "b", "c"}
	)
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/o/r/labels", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		var out []map[string]any
		for _, l := range labels {
			out = append(out, map[string]any{"name": l})
		}
		writeJSON(w, http.StatusOK, out)
	})
	mux.HandleFunc("POST /repos/o/r/labels", func(w http.ResponseWriter, r *http.Request) {
		body := decodeBody(t, r)
		if body["color"] != "555555" {
			t.Errorf("color = %v, want 555555", body["color"])
		}
		mu.Lock()
		labels = append(labels, body["name"].(string))
		mu.Unlock()
		writeJSON(w, http.StatusCreated, body)
	})
	mux.HandleFunc("DELETE /repos/o/r/labels/{name}", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		labels = slices.DeleteFunc(labels, func(l string) bool { return l == r.PathValue("name") })
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	})

	repo := mustRepo(t, newTestHoster(t, mux), "o/r")
	ctx := context.Background()

	if err := repo.CreateLabel(ctx, "d", "#555555"); err != nil {
		t.Fatalf("CreateLabel() error: %v", err)
	}
	got, _ := repo.Labels(ctx)
	if want := []string{"a", "b", "c", "d"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Labels() = %v, want %v", got, want)
	}

	err := repo.CreateLabel(ctx, "c", "#555555")
	if !igerr.Is(err, igerr.ErrCodeAlreadyExists) || igerr.UserMessage(err) != "c already exists." {
		t.Errorf("CreateLabel(existing) error = %v", err)
	}

	if err := repo.DeleteLabel(ctx, "d"); err != nil {
		t.Fatalf("DeleteLabel() error: %v", err)
	}
	got, _ = repo.Labels(ctx)
	if want := []string{"a", "b", "c"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Labels() = %v, want %v", got, want)
	}

	err = repo.DeleteLabel(ctx, "d")
	if !igerr.Is(err, igerr.ErrCodeDoesntExist) || igerr.UserMessage(err) != "d doesnt exist." {
		t.Errorf("DeleteLabel(missing) error = %v", err)
	}
}

func TestHooks(t *testing.T) {
	var (
		mu     sync.Mutex
		hooks  []map[string]any
		nextID = 1
		posted []map[string]any
	)
	log := &requestLog{}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/o/r/hooks", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		out := append([]map[string]any{{"id": 99, "config": map[string]any{}}}, hooks...)
		writeJSON(w, http.StatusOK, out)
	})
	mux.HandleFunc("POST /repos/o/r/hooks", func(w http.ResponseWriter, r *http.Request) {
		body := decodeBody(t, r)
		mu.Lock()
		body["id"] = nextID
		nextID++
		hooks = append(hooks, body)
		posted = append(posted, body)
		mu.Unlock()
		writeJSON(w, http.StatusCreated, body)
	})
	mux.HandleFunc("DELETE /repos/o/r/hooks/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	repo := mustRepo(t, newTestHoster(t, log.wrap(mux)), "o/r")
	ctx := context.Background()

	if err := repo.RegisterHook(ctx, "http://some.url/in/the/world", ""); err != nil {
		t.Fatal(err)
	}
	if err := repo.RegisterHook(ctx, "http://some.url/in/the/world", ""); err != nil {
		t.Fatal(err)
	}
	if n := log.count("POST /repos/o/r/hooks"); n != 1 {
		t.Fatalf("register twice posted %d hooks, want 1", n)
	}
	if got := posted[0]["events"]; !reflect.DeepEqual(got, []any{"*"}) {
		t.Errorf("default events = %v, want [*]", got)
	}
	if posted[0]["name"] != "web" || posted[0]["active"] != true {
		t.Errorf("hook body = %v", posted[0])
	}
	if _, ok := posted[0]["config"].(map[string]any)["secret"]; ok {
		t.Error("secret sent although none was given")
	}

	err := repo.RegisterHook(ctx, "http://some.url/i/have/a/secret", "mylittlesecret",
		hosting.EventIssue, hosting.EventIssueComment, hosting.EventMergeRequestComment)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := posted[1]["events"], []any{"issues", "issue_comment"}; !reflect.DeepEqual(got, want) {
		t.Errorf("events = %v, want %v", got, want)
	}
	if got := posted[1]["config"].(map[string]any)["secret"]; got != "mylittlesecret" {
		t.Errorf("secret = %v", got)
	}

	urls, err := repo.Hooks(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"http://some.url/i/have/a/secret", "http://some.url/in/the/world"}; !reflect.DeepEqual(urls, want) {
		t.Errorf("Hooks() = %v, want %v", urls, want)
	}

	// A second hook for the same URL, as registered by another tool.
	mu.Lock()
	hooks = append(hooks, map[string]any{"id": 42, "config": map[string]any{"url": "http://some.url/in/the/world"}})
	mu.Unlock()

	if err := repo.DeleteHook(ctx, "http://some.url/in/the/world"); err != nil {
		t.Fatal(err)
	}
	if log.count("DELETE /repos/o/r/hooks/1") != 1 || log.count("DELETE /repos/o/r/hooks/42") != 1 {
		t.Errorf("DeleteHook did not remove every matching hook: %v", log.seen)
	}
	if err := repo.DeleteHook(ctx, "http://unknown"); err != nil {
		t.Errorf("DeleteHook(unknown) error: %v", err)
	}
}

func TestFilterIssues(t *testing.T) {
	var state string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/o/r/issues", func(w http.ResponseWriter, r *http.Request) {
		state = r.URL.Query().Get("state")
		writeJSON(w, http.StatusOK, []map[string]any{
			{"number": 1, "title": "bug"},
			{"number": 2, "title": "pr", "pull_request": map[string]any{"url": "x"}},
			{"number": 3, "title": "feature"},
		})
	})
	repo := mustRepo(t, newTestHoster(t, mux), "o/r")
	ctx := context.Background()

	issues, err := repo.FilterIssues(ctx, hosting.StateClosed)
	if err != nil {
		t.Fatal(err)
	}
	if state != "closed" {
		t.Errorf("state = %q, want closed", state)
	}
	var numbers []int
	for _, i := range issues {
		numbers = append(numbers, i.Number())
	}
	if !reflect.DeepEqual(numbers, []int{1, 3}) {
		t.Errorf("numbers = %v, want [1 3]", numbers)
	}
	if title, _ := issues[1].Title(ctx); title != "feature" {
		t.Errorf("Title() = %q, want seeded title", title)
	}

	if _, err := repo.Issues(ctx); err != nil || state != "open" {
		t.Errorf("Issues() state = %q, err = %v", state, err)
	}
	if _, err := repo.FilterIssues(ctx, hosting.StateMerged); !igerr.Is(err, igerr.ErrCodeUnmapped) {
		t.Errorf("FilterIssues(merged) error = %v, want UNMAPPED", err)
	}
}

func TestCommitsEmptyRepository(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/o/empty/commits", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusConflict, map[string]any{"message": "Git Repository is empty."})
	})
	mux.HandleFunc("GET /repos/o/r/commits", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]any{{"sha": "aaa"}, {"sha": "bbb"}})
	})
	h := newTestHoster(t, mux)
	ctx := context.Background()

	commits, err := mustRepo(t, h, "o/empty").Commits(ctx)
	if err != nil || len(commits) != 0 {
		t.Errorf("Commits() = %v, %v, want empty", commits, err)
	}

	commits, err = mustRepo(t, h, "o/r").Commits(ctx)
	if err != nil || len(commits) != 2 {
		t.Fatalf("Commits() = %v, %v", commits, err)
	}
	if sha, _ := commits[1].SHA(ctx); sha != "bbb" {
		t.Errorf("SHA() = %q", sha)
	}
}

func TestSearchRejectsConflictingFilter(t *testing.T) {
	log := &requestLog{}
	h := newTestHoster(t, log.wrap(http.NotFoundHandler()))
	repo := mustRepo(t, h, "o/r")
	now := time.Now()

	_, err := repo.SearchIssues(context.Background(), hosting.SearchFilter{CreatedAfter: now, CreatedBefore: now})
	if !igerr.Is(err, igerr.ErrCodeConfigConflict) {
		t.Errorf("SearchIssues() error = %v, want CONFIG_CONFLICT", err)
	}
	_, err = repo.SearchMergeRequests(context.Background(), hosting.SearchFilter{UpdatedAfter: now, UpdatedBefore: now})
	if !igerr.Is(err, igerr.ErrCodeConfigConflict) {
		t.Errorf("SearchMergeRequests() error = %v, want CONFIG_CONFLICT", err)
	}
	if log.total() != 0 {
		t.Errorf("conflicting filter made %d requests", log.total())
	}
}

func TestSearch(t *testing.T) {
	var queries []string
	log := &requestLog{}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /search/issues", func(w http.ResponseWriter, r *http.Request) {
		queries = append(queries, r.URL.Query().Get("q"))
		if pp := r.URL.Query().Get("per_page"); pp != "100" {
			t.Errorf("per_page = %q", pp)
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"total_count": 2,
			"items": []map[string]any{
				{"number": 5, "title": "first"},
				{"number": 9, "title": "second"},
			},
		})
	})
	repo := mustRepo(t, newTestHoster(t, log.wrap(mux)), "o/r")
	ctx := context.Background()
	at := time.Date(2017, 6, 1, 12, 30, 0, 0, time.UTC)

	seq, err := repo.SearchIssues(ctx, hosting.SearchFilter{CreatedAfter: at, UpdatedBefore: at})
	if err != nil {
		t.Fatal(err)
	}
	var titles []string
	for issue := range seq {
		title, _ := issue.Title(ctx)
		titles = append(titles, title)
	}
	if !reflect.DeepEqual(titles, []string{"first", "second"}) {
		t.Errorf("titles = %v", titles)
	}

	mrs, err := repo.SearchMergeRequests(ctx, hosting.SearchFilter{CreatedBefore: at, UpdatedAfter: at})
	if err != nil {
		t.Fatal(err)
	}
	var numbers []int
	for mr := range mrs {
		numbers = append(numbers, mr.Number())
	}
	if !reflect.DeepEqual(numbers, []int{5, 9}) {
		t.Errorf("numbers = %v", numbers)
	}

	want := []string{
		" type:issue state:open repo:o/r created:>=2017-06-01T12:30:00Z updated:<2017-06-01T12:30:00Z",
		" type:pr state:open repo:o/r created:<2017-06-01T12:30:00Z updated:>=2017-06-01T12:30:00Z",
	}
	if !reflect.DeepEqual(queries, want) {
		t.Errorf("queries = %q, want %q", queries, want)
	}
	if log.total() != 2 {
		t.Errorf("requests = %d, want 2 (results are hydrated)", log.total())
	}
}

func TestCreateOperations(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /repos/o/r/issues", func(w http.ResponseWriter, r *http.Request) {
		body := decodeBody(t, r)
		writeJSON(w, http.StatusCreated, map[string]any{"number": 12, "title": body["title"], "state": "open"})
	})
	mux.HandleFunc("POST /repos/o/r/pulls", func(w http.ResponseWriter, r *http.Request) {
		body := decodeBody(t, r)
		if body["base"] != "master" || body["head"] != "feature" {
			t.Errorf("pull body = %v", body)
		}
		writeJSON(w, http.StatusCreated, map[string]any{
			"number": 7,
			"state":  "open",
			"base":   map[string]any{"ref": "master", "repo": map[string]any{"full_name": "upstream/r"}},
			"head":   map[string]any{"ref": "feature", "repo": map[string]any{"full_name": "o/r"}},
		})
	})
	mux.HandleFunc("PUT /repos/o/r/contents/docs/new.md", func(w http.ResponseWriter, r *http.Request) {
		body := decodeBody(t, r)
		if body["content"] != "aGVsbG8=" || body["message"] != "add" {
			t.Errorf("file body = %v", body)
		}
		if _, ok := body["branch"]; ok {
			t.Error("branch sent although none was given")
		}
		writeJSON(w, http.StatusCreated, map[string]any{"content": map[string]any{"path": "docs/new.md"}})
	})
	mux.HandleFunc("POST /repos/o/r/forks", func(w http.ResponseWriter, r *http.Request) {
		body := decodeBody(t, r)
		if body["organization"] != "org" {
			t.Errorf("fork body = %v", body)
		}
		writeJSON(w, http.StatusAccepted, map[string]any{"id": 3, "full_name": "org/r"})
	})
	mux.HandleFunc("DELETE /repos/o/r", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	h := newTestHoster(t, mux)
	repo := mustRepo(t, h, "o/r")
	ctx := context.Background()

	issue, err := repo.CreateIssue(ctx, "test issue title", "test body")
	if err != nil || issue.Number() != 12 {
		t.Fatalf("CreateIssue() = %v, %v", issue, err)
	}

	mr, err := repo.CreateMergeRequest(ctx, hosting.MergeRequestOptions{Title: "t", Base: "master", Head: "feature"})
	if err != nil {
		t.Fatal(err)
	}
	if got, want := mr.URL(), h.Client().BaseURL()+"/repos/upstream/r/pulls/7"; got != want {
		t.Errorf("merge request URL = %q, want %q", got, want)
	}
	if branch, _ := mr.HeadBranchName(ctx); branch != "feature" {
		t.Errorf("HeadBranchName() = %q", branch)
	}

	content, err := repo.CreateFile(ctx, hosting.FileOptions{Path: "docs/new.md", Message: "add", Content: "hello"})
	if err != nil || content.Path() != "docs/new.md" {
		t.Fatalf("CreateFile() = %v, %v", content, err)
	}
	if _, err := repo.CreateFile(ctx, hosting.FileOptions{Path: "../escape"}); !igerr.Is(err, igerr.ErrCodeInvalidPath) {
		t.Errorf("CreateFile(traversal) error = %v", err)
	}

	fork, err := repo.CreateFork(ctx, hosting.ForkOptions{Organization: "org"})
	if err != nil {
		t.Fatal(err)
	}
	if name, _ := fork.FullName(ctx); name != "org/r" {
		t.Errorf("fork FullName() = %q", name)
	}

	if err := repo.Delete(ctx); err != nil {
		t.Errorf("Delete() error: %v", err)
	}
}

func TestHosterListings(t *testing.T) {
	var affiliation []string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /user/repos", func(w http.ResponseWriter, r *http.Request) {
		affiliation = append(affiliation, r.URL.Query().Get("affiliation"))
		writeJSON(w, http.StatusOK, []map[string]any{
			{"full_name": "me/admin", "permissions": map[string]any{"admin": true, "push": true}},
			{"full_name": "me/push", "permissions": map[string]any{"admin": false, "push": true}},
			{"full_name": "me/read", "permissions": map[string]any{"admin": false, "push": false}},
		})
	})
	h := newTestHoster(t, mux)
	ctx := context.Background()

	names := func(repos []hosting.Repository, err error) []string {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
		var out []string
		for _, r := range repos {
			n, _ := r.FullName(ctx)
			out = append(out, n)
		}
		return out
	}

	if got := names(h.MasterRepositories(ctx)); !reflect.DeepEqual(got, []string{"me/admin"}) {
		t.Errorf("MasterRepositories() = %v", got)
	}
	if got := names(h.WriteRepositories(ctx)); !reflect.DeepEqual(got, []string{"me/admin", "me/push"}) {
		t.Errorf("WriteRepositories() = %v", got)
	}
	if got := names(h.OwnedRepositories(ctx)); len(got) != 3 {
		t.Errorf("OwnedRepositories() = %v", got)
	}
	if !reflect.DeepEqual(affiliation, []string{"", "", "owner"}) {
		t.Errorf("affiliation params = %q", affiliation)
	}
	if h.Provider() != hosting.GitHub {
		t.Errorf("Provider() = %q", h.Provider())
	}
}

func TestOrganization(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /users/gitmate", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"login": "gitmate", "type": "Organization"})
	})
	mux.HandleFunc("GET /users/sils", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"login": "sils", "type": "User"})
	})
	mux.HandleFunc("GET /orgs/gitmate", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"login": "gitmate", "description": "bots"})
	})
	mux.HandleFunc("GET /orgs/gitmate/members", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("role") == "admin" {
			writeJSON(w, http.StatusOK, []map[string]any{{"login": "boss"}})
			return
		}
		writeJSON(w, http.StatusOK, []map[string]any{{"login": "boss"}, {"login": "dev"}, {"login": "ops"}})
	})
	mux.HandleFunc("GET /users/sils/repos", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]any{{"full_name": "sils/a"}})
	})
	h := newTestHoster(t, mux)
	ctx := context.Background()

	org := h.Organization("gitmate")
	if n, err := org.BillableUsers(ctx); err != nil || n != 3 {
		t.Errorf("BillableUsers() = %d, %v", n, err)
	}
	owners, err := org.Owners(ctx)
	if err != nil || len(owners) != 1 {
		t.Fatalf("Owners() = %v, %v", owners, err)
	}
	if name, _ := owners[0].Username(ctx); name != "boss" {
		t.Errorf("owner = %q", name)
	}
	if d, _ := org.Description(ctx); d != "bots" {
		t.Errorf("Description() = %q", d)
	}
	if u, _ := org.WebURL(ctx); u != "https://github.com/gitmate" {
		t.Errorf("WebURL() = %q", u)
	}
	if subs, err := org.Suborgs(ctx); err != nil || len(subs) != 0 {
		t.Errorf("Suborgs() = %v, %v", subs, err)
	}

	user := h.Organization("sils")
	if n, err := user.BillableUsers(ctx); err != nil || n != 1 {
		t.Errorf("user BillableUsers() = %d, %v", n, err)
	}
	masters, err := user.Masters(ctx)
	if err != nil || len(masters) != 1 {
		t.Fatalf("user Masters() = %v, %v", masters, err)
	}
	if name, _ := masters[0].Username(ctx); name != "sils" {
		t.Errorf("master = %q", name)
	}
	repos, err := user.Repositories(ctx)
	if err != nil || len(repos) != 1 {
		t.Errorf("user Repositories() = %v, %v", repos, err)
	}
}

func TestUser(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /user", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"login": "me", "id": 7})
	})
	h := newTestHoster(t, mux)
	ctx := context.Background()

	me := h.User("")
	if name, err := me.Username(ctx); err != nil || name != "me" {
		t.Errorf("Username() = %q, %v", name, err)
	}
	if id, _ := me.Identifier(ctx); id != 7 {
		t.Errorf("Identifier() = %d", id)
	}
	if u, _ := h.User("sils").WebURL(ctx); u != "https://github.com/sils" {
		t.Errorf("WebURL() = %q", u)
	}
}

func TestInstallationRepositories(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /user/installations/5/repositories", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"total_count":  2,
			"repositories": []map[string]any{{"full_name": "o/a"}, {"full_name": "o/b"}},
		})
	})
	h := newTestHoster(t, mux)

	inst := h.Installation(5)
	repos, err := inst.Repositories(context.Background())
	if err != nil || len(repos) != 2 {
		t.Fatalf("Repositories() = %v, %v", repos, err)
	}
	if inst.Identifier() != 5 {
		t.Errorf("Identifier() = %d", inst.Identifier())
	}
}

func TestFilePathsAreEscaped(t *testing.T) {
	log := &requestLog{}
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method + " " + r.URL.Path {
		case "GET /repos/o/r":
			writeJSON(w, http.StatusOK, map[string]any{"id": 1, "full_name": "o/r"})
		case "PUT /repos/o/r/contents/docs/a#b.md":
			writeJSON(w, http.StatusCreated, map[string]any{"content": map[string]any{"path": "docs/a#b.md", "sha": "s1"}})
		case "GET /repos/o/r/contents/docs/a#b.md":
			writeJSON(w, http.StatusOK, map[string]any{"path": "docs/a#b.md", "sha": "s1", "content": "aGk=", "encoding": "base64"})
		case "DELETE /repos/o/r/contents/docs/a#b.md":
			writeJSON(w, http.StatusOK, map[string]any{})
		default:
			writeJSON(w, http.StatusNotFound, map[string]any{"message": "Not Found"})
		}
	})
	h := newTestHoster(t, log.wrap(handler))
	repo := mustRepo(t, h, "o/r")
	ctx := context.Background()

	content, err := repo.CreateFile(ctx, hosting.FileOptions{Path: "docs/a#b.md", Message: "add", Content: "hi"})
	if err != nil {
		t.Fatalf("CreateFile() error: %v", err)
	}
	if text, err := content.Text(ctx); err != nil || text != "hi" {
		t.Errorf("Text() = %q, %v", text, err)
	}
	if err := content.Update(ctx, "update", "bye", ""); err != nil {
		t.Errorf("Update() error: %v", err)
	}
	if err := content.Delete(ctx, "remove", ""); err != nil {
		t.Errorf("Delete() error: %v", err)
	}
	if n := log.count("PUT /repos/o/r/contents/docs/a#b.md"); n != 2 {
		t.Errorf("PUT to escaped path = %d, want 2 (create, update); seen %v", n, log.seen)
	}
	if n := log.count("DELETE /repos/o/r/contents/docs/a#b.md"); n != 1 {
		t.Errorf("DELETE to escaped path = %d, want 1; seen %v", n, log.seen)
	}
}

func TestEscapePath(t *testing.T) {
	tests := map[string]string{
		"README.md":        "README.md",
		"docs/a#b.md":      "docs/a%23b.md",
		"q?.txt":           "q%3F.txt",
		"100%/x y.md":      "100%25/x%20y.md",
		"nested/dir/f.txt": "nested/dir/f.txt",
	}
	for in, want := range tests {
		if got := escapePath(in); got != want {
			t.Errorf("escapePath(%q) = %q, want %q", in, got, want)
		}
	}
}
