package integrations

import (
	"net/http"
	"net/url"
	"strings"
	"time"
)

const httpTimeout = 10 * time.Second

// NewHTTPClient creates an HTTP client with a standard timeout for API requests.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}

var repoURLReplacer = strings.NewReplacer(
	"git@github.com:", "https://github.com/",
	"git://github.com/", "https://github.com/",
	"git@gitlab.com:", "https://gitlab.com/",
	"git://gitlab.com/", "https://gitlab.com/",
)

// NormalizeRepoURL converts various repository URL formats to canonical HTTPS form.
// Handles git@, git://, and git+ prefixes, and removes .git suffixes.
// Returns empty string if raw is empty.
func NormalizeRepoURL(raw string) string {
	if raw == "" {
		return ""
	}
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "git+")
	s = repoURLReplacer.Replace(s)
	s = strings.TrimSuffix(s, "/")
	return strings.TrimSuffix(s, ".git")
}

// SplitRepoURL splits a repository web or clone URL into its host and full
// name, e.g. "https://gitlab.com/group/sub/repo.git" into "gitlab.com" and
// "group/sub/repo". ok is false for anything that is not an http(s) URL
// with at least an owner and a name.
func SplitRepoURL(raw string) (host, fullName string, ok bool) {
	u, err := url.Parse(NormalizeRepoURL(raw))
	if err != nil || (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
		return "", "", false
	}
	fullName = strings.Trim(u.Path, "/")
	// GitLab web URLs put tree/blob views after "/-/".
	if i := strings.Index(fullName, "/-/"); i >= 0 {
		fullName = fullName[:i]
	}
	if strings.Count(fullName, "/") < 1 {
		return "", "", false
	}
	// Userinfo (e.g. a token in a clone URL) is dropped.
	return u.Hostname(), fullName, true
}

// URLEncode escapes s as a single path segment, slashes included. GitLab
// expects namespaced project and file paths this way ("group%2Frepo").
func URLEncode(s string) string { return url.PathEscape(s) }
