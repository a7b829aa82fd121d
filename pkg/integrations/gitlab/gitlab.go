package gitlab

import (
	"context"
	"net/url"
	"strconv"

	"github.com/RaiVaibhav/IGitt/pkg/auth"
	"github.com/RaiVaibhav/IGitt/pkg/hosting"
	"github.com/RaiVaibhav/IGitt/pkg/integrations"
)

const (
	// DefaultBaseURL is the REST API root of gitlab.com.
	DefaultBaseURL = "https://gitlab.com/api/v4"

	// WebURL is the browser root of gitlab.com.
	WebURL = "https://gitlab.com"

	perPage = 100
)

// Access levels of project and group members.
const (
	accessDeveloper  = 30
	accessMaintainer = 40
	accessOwner      = 50
)

// NewPrivateToken returns a personal or project access token, sent as the
// private_token query parameter.
func NewPrivateToken(value string) auth.Token { return auth.NewQueryToken(value) }

// NewOAuthToken returns an OAuth access token, sent as a Bearer header.
func NewOAuthToken(value string) auth.Token { return auth.NewStaticToken(value) }

// NewClient creates an access layer client with GitLab defaults applied to
// the unset fields of cfg.
func NewClient(cfg integrations.Config) (*integrations.Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.CacheNamespace == "" {
		cfg.CacheNamespace = "gitlab:"
	}
	if cfg.PerPage == 0 {
		cfg.PerPage = perPage
	}
	return integrations.NewClient(cfg)
}

// Hoster is the GitLab implementation of [hosting.Hoster].
type Hoster struct {
	client *integrations.Client
}

// New creates a Hoster on top of client.
func New(client *integrations.Client) *Hoster {
	return &Hoster{client: client}
}

// Client returns the access layer used by the hoster.
func (h *Hoster) Client() *integrations.Client { return h.client }

// Provider returns [hosting.GitLab].
func (h *Hoster) Provider() hosting.Provider { return hosting.GitLab }

// GetRepo returns the project "namespace/name" (subgroups allowed) or the
// project with the given numeric ID.
func (h *Hoster) GetRepo(name string) (hosting.Repository, error) {
	if err := ValidateFullName(name); err != nil {
		return nil, err
	}
	return newRepository(h.client, name), nil
}

// MasterRepositories lists the projects the user maintains.
func (h *Hoster) MasterRepositories(ctx context.Context) ([]hosting.Repository, error) {
	return h.projects(ctx, url.Values{
		"membership":       {"true"},
		"min_access_level": {strconv.Itoa(accessMaintainer)},
	})
}

// OwnedRepositories lists the projects owned by the user.
func (h *Hoster) OwnedRepositories(ctx context.Context) ([]hosting.Repository, error) {
	return h.projects(ctx, url.Values{"owned": {"true"}})
}

// WriteRepositories lists the projects the user can push to.
func (h *Hoster) WriteRepositories(ctx context.Context) ([]hosting.Repository, error) {
	return h.projects(ctx, url.Values{
		"membership":       {"true"},
		"min_access_level": {strconv.Itoa(accessDeveloper)},
	})
}

func (h *Hoster) projects(ctx context.Context, query url.Values) ([]hosting.Repository, error) {
	v, err := h.client.Get(ctx, "/projects", query)
	if err != nil {
		return nil, err
	}
	return repositoriesFromData(h.client, v), nil
}

// User returns the user with the given username or numeric ID, or the
// authenticated user for "".
func (h *Hoster) User(name string) hosting.User {
	return newUser(h.client, name)
}

// Organization returns the group (or user namespace) with the given full
// path.
func (h *Hoster) Organization(name string) hosting.Organization {
	return newOrganization(h.client, name)
}

func repositoriesFromData(client *integrations.Client, v any) []hosting.Repository {
	var out []hosting.Repository
	for _, data := range integrations.AsObjects(v) {
		out = append(out, repositoryFromData(client, data))
	}
	return hosting.Unique(out)
}

// projectPath returns the API path of a project by ID or full name.
func projectPath(name string) string {
	if isNumeric(name) {
		return "/projects/" + name
	}
	return "/projects/" + integrations.URLEncode(name)
}

func isNumeric(s string) bool {
	_, err := strconv.ParseInt(s, 10, 64)
	return err == nil
}

var _ hosting.Hoster = (*Hoster)(nil)
