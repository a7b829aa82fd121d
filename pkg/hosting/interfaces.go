package hosting

import (
	"context"
	"iter"
	"time"
)

// Provider names a hosting service.
type Provider string

const (
	GitHub Provider = "github"
	GitLab Provider = "gitlab"
)

// Hoster is the entry point for one hosting service and credential.
type Hoster interface {
	Provider() Provider

	// GetRepo returns a repository by full name ("owner/name", GitLab
	// subgroups allowed) or numeric ID. No request is made.
	GetRepo(name string) (Repository, error)

	// MasterRepositories lists repositories the user administers.
	MasterRepositories(ctx context.Context) ([]Repository, error)

	// OwnedRepositories lists repositories owned by the user.
	OwnedRepositories(ctx context.Context) ([]Repository, error)

	// WriteRepositories lists repositories the user can push to.
	WriteRepositories(ctx context.Context) ([]Repository, error)

	// User returns a user by name, or the authenticated user for "".
	User(name string) User

	// Organization returns an organization (GitLab: group) by name.
	Organization(name string) Organization

	// HandleWebhook translates a webhook delivery. event is the value of
	// the provider's event header. Unknown events fail with
	// ErrCodeUnsupported.
	HandleWebhook(ctx context.Context, event string, payload []byte) (Delivery, error)
}

// Repository is a hosted Git repository.
type Repository interface {
	Entity

	Identifier(ctx context.Context) (int64, error)
	FullName(ctx context.Context) (string, error)
	WebURL(ctx context.Context) (string, error)

	// TopLevelOrg is the first segment of the full name as organization.
	TopLevelOrg(ctx context.Context) (Organization, error)

	// CloneURL is an HTTPS clone URL with the credential embedded, so a
	// plain git clone works without further setup.
	CloneURL(ctx context.Context) (string, error)

	// Labels returns the label names, sorted.
	Labels(ctx context.Context) ([]string, error)
	// CreateLabel fails with ErrCodeAlreadyExists if name is present.
	// color is an HTML colour; a leading # is optional.
	CreateLabel(ctx context.Context, name, color string) error
	// DeleteLabel fails with ErrCodeDoesntExist if name is absent.
	DeleteLabel(ctx context.Context, name string) error

	// Hooks returns the URLs of registered webhooks, sorted.
	Hooks(ctx context.Context) ([]string, error)
	// RegisterHook does nothing if a hook for url exists. No events means
	// all events.
	RegisterHook(ctx context.Context, url, secret string, events ...WebhookEvent) error
	// DeleteHook removes every hook for url and does nothing if there is none.
	DeleteHook(ctx context.Context, url string) error

	GetIssue(ctx context.Context, number int) (Issue, error)
	GetMergeRequest(ctx context.Context, number int) (MergeRequest, error)
	GetCommit(ctx context.Context, sha string) (Commit, error)
	GetContent(ctx context.Context, path string) (Content, error)
	Issues(ctx context.Context) ([]Issue, error)
	FilterIssues(ctx context.Context, state State) ([]Issue, error)
	MergeRequests(ctx context.Context) ([]MergeRequest, error)

	CreateIssue(ctx context.Context, title, body string) (Issue, error)
	CreateMergeRequest(ctx context.Context, opts MergeRequestOptions) (MergeRequest, error)
	CreateFile(ctx context.Context, opts FileOptions) (Content, error)

	// Commits lists the repository's commits. An empty repository yields
	// an empty list, not an error.
	Commits(ctx context.Context) ([]Commit, error)

	CreateFork(ctx context.Context, opts ForkOptions) (Repository, error)
	Delete(ctx context.Context) error

	// SearchIssues and SearchMergeRequests list open items within the
	// filter's time window. The filter is validated before any request;
	// the returned sequence yields entities hydrated from the search
	// results without further requests.
	SearchIssues(ctx context.Context, filter SearchFilter) (iter.Seq[Issue], error)
	SearchMergeRequests(ctx context.Context, filter SearchFilter) (iter.Seq[MergeRequest], error)
}

// Commit is a single commit in a repository.
type Commit interface {
	Entity

	SHA(ctx context.Context) (string, error)
	Repository() Repository

	// Parent is the first parent.
	Parent(ctx context.Context) (Commit, error)

	// PatchForFile returns the diff of one file. It fails with
	// ErrCodeDoesntExist if the file is not part of the commit.
	PatchForFile(ctx context.Context, file string) (string, error)

	// UnifiedDiff returns the diff of all files, concatenated.
	UnifiedDiff(ctx context.Context) (string, error)

	// Statuses lists statuses, keeping only the newest per context.
	Statuses(ctx context.Context) ([]CommitStatus, error)
	SetStatus(ctx context.Context, status CommitStatus) error

	Comment(ctx context.Context, message string, opts CommentOptions) error
}

// Issue is an issue in a repository's tracker.
type Issue interface {
	Entity

	Number() int
	Repository() Repository

	Title(ctx context.Context) (string, error)
	SetTitle(ctx context.Context, title string) error
	Description(ctx context.Context) (string, error)
	State(ctx context.Context) (State, error)
	Labels(ctx context.Context) ([]string, error)
	Author(ctx context.Context) (User, error)
	Created(ctx context.Context) (time.Time, error)
	Updated(ctx context.Context) (time.Time, error)

	Close(ctx context.Context) error
	Reopen(ctx context.Context) error
	AddComment(ctx context.Context, body string) (Comment, error)
}

// MergeRequest is a pull request (GitHub) or merge request (GitLab).
type MergeRequest interface {
	Issue

	Base(ctx context.Context) (Commit, error)
	Head(ctx context.Context) (Commit, error)
	BaseBranchName(ctx context.Context) (string, error)
	HeadBranchName(ctx context.Context) (string, error)
	Commits(ctx context.Context) ([]Commit, error)

	// AffectedFiles returns the changed paths, sorted.
	AffectedFiles(ctx context.Context) ([]string, error)
	Diffstat(ctx context.Context) (additions, deletions int, err error)
}

// Comment is a comment on an issue, merge request or commit.
type Comment interface {
	Entity

	Body(ctx context.Context) (string, error)
	Author(ctx context.Context) (User, error)
}

// Content is a single file in a repository.
type Content interface {
	Entity

	Path() string

	// Fetch loads the file at ref. An empty ref selects DefaultBranch.
	Fetch(ctx context.Context, ref string) error
	// Text returns the decoded file content.
	Text(ctx context.Context) (string, error)
	Update(ctx context.Context, message, content, branch string) error
	Delete(ctx context.Context, message, branch string) error
}

// Organization is a GitHub organization or GitLab group. Users can stand
// in for organizations; they own their personal repositories.
type Organization interface {
	Entity

	Name() string
	Description(ctx context.Context) (string, error)
	WebURL(ctx context.Context) (string, error)
	BillableUsers(ctx context.Context) (int, error)
	Owners(ctx context.Context) ([]User, error)
	Masters(ctx context.Context) ([]User, error)
	Suborgs(ctx context.Context) ([]Organization, error)
	Repositories(ctx context.Context) ([]Repository, error)
}

// User is an account on the hosting service.
type User interface {
	Entity

	Username(ctx context.Context) (string, error)
	Identifier(ctx context.Context) (int64, error)
	WebURL(ctx context.Context) (string, error)
}

// Installation is a GitHub App installation.
type Installation interface {
	Entity

	Identifier() int64
	Repositories(ctx context.Context) ([]Repository, error)
}
