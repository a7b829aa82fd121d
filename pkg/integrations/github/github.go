package github

import (
	"context"
	"net/url"
	"strconv"

	"github.com/RaiVaibhav/IGitt/pkg/hosting"
	"github.com/RaiVaibhav/IGitt/pkg/integrations"
)

const (
	// DefaultBaseURL is the REST API root of github.com.
	DefaultBaseURL = "https://api.github.com"

	// WebURL is the browser root of github.com.
	WebURL = "https://github.com"

	mediaType = "application/vnd.github.v3+json"
	perPage   = 100
)

// NewClient creates an access layer client with GitHub defaults applied to
// the unset fields of cfg.
func NewClient(cfg integrations.Config) (*integrations.Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.CacheNamespace == "" {
		cfg.CacheNamespace = "github:"
	}
	if cfg.PerPage == 0 {
		cfg.PerPage = perPage
	}
	headers := map[string]string{"Accept": mediaType}
	for k, v := range cfg.Headers {
		headers[k] = v
	}
	cfg.Headers = headers
	return integrations.NewClient(cfg)
}

// Hoster is the GitHub implementation of [hosting.Hoster].
type Hoster struct {
	client *integrations.Client
}

// New creates a Hoster on top of client.
func New(client *integrations.Client) *Hoster {
	return &Hoster{client: client}
}

// Client returns the access layer used by the hoster.
func (h *Hoster) Client() *integrations.Client { return h.client }

// Provider returns [hosting.GitHub].
func (h *Hoster) Provider() hosting.Provider { return hosting.GitHub }

// GetRepo returns the repository "owner/name" or the repository with the
// given numeric ID.
func (h *Hoster) GetRepo(name string) (hosting.Repository, error) {
	if err := ValidateFullName(name); err != nil {
		return nil, err
	}
	return newRepository(h.client, name), nil
}

// MasterRepositories lists the repositories the user administers.
func (h *Hoster) MasterRepositories(ctx context.Context) ([]hosting.Repository, error) {
	return h.userRepos(ctx, nil, func(r map[string]any) bool {
		return integrations.Path(r, "permissions", "admin") == true
	})
}

// OwnedRepositories lists the repositories owned by the user.
func (h *Hoster) OwnedRepositories(ctx context.Context) ([]hosting.Repository, error) {
	return h.userRepos(ctx, url.Values{"affiliation": {"owner"}}, nil)
}

// WriteRepositories lists the repositories the user can push to.
func (h *Hoster) WriteRepositories(ctx context.Context) ([]hosting.Repository, error) {
	return h.userRepos(ctx, nil, func(r map[string]any) bool {
		return integrations.Path(r, "permissions", "push") == true
	})
}

func (h *Hoster) userRepos(ctx context.Context, query url.Values, keep func(map[string]any) bool) ([]hosting.Repository, error) {
	v, err := h.client.Get(ctx, "/user/repos", query)
	if err != nil {
		return nil, err
	}
	var out []hosting.Repository
	for _, r := range integrations.AsObjects(v) {
		if keep == nil || keep(r) {
			out = append(out, repositoryFromData(h.client, r))
		}
	}
	return hosting.Unique(out), nil
}

// User returns the user with the given login, or the authenticated user
// for "".
func (h *Hoster) User(name string) hosting.User {
	return newUser(h.client, name)
}

// Organization returns the organization (or user) with the given login.
func (h *Hoster) Organization(name string) hosting.Organization {
	return newOrganization(h.client, name)
}

// Installation returns the GitHub App installation with the given ID.
func (h *Hoster) Installation(id int64) *Installation {
	return newInstallation(h.client, id)
}

func isNumeric(s string) bool {
	_, err := strconv.ParseInt(s, 10, 64)
	return err == nil
}

var _ hosting.Hoster = (*Hoster)(nil)
