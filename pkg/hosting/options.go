package hosting

import (
	"time"

	"github.com/RaiVaibhav/IGitt/pkg/errors"
)

// SearchTimeFormat is the timestamp layout used in search queries.
const SearchTimeFormat = "2006-01-02T15:04:05Z"

// SearchFilter restricts a search to a creation and update window.
// Zero times are ignored. For each field at most one bound may be set.
type SearchFilter struct {
	CreatedAfter  time.Time
	CreatedBefore time.Time
	UpdatedAfter  time.Time
	UpdatedBefore time.Time
}

// Validate rejects filters that set both bounds of the same field.
func (f SearchFilter) Validate() error {
	if (!f.CreatedAfter.IsZero() && !f.CreatedBefore.IsZero()) ||
		(!f.UpdatedAfter.IsZero() && !f.UpdatedBefore.IsZero()) {
		return errors.New(errors.ErrCodeConfigConflict, "cannot process before and after date simultaneously")
	}
	return nil
}

// CommitStatus is one status entry on a commit. Statuses are keyed by
// Context: setting a status replaces any existing one with the same Context.
type CommitStatus struct {
	Status      Status
	Description string
	Context     string
	TargetURL   string
}

// CommentOptions places a commit comment.
//
// With File and Line set, the comment is attached to that line if the line
// is part of the commit's diff; otherwise it is posted as a general comment
// prefixed with the location. With MergeRequest set, the comment goes to
// that merge request's discussion instead of the commit.
type CommentOptions struct {
	File         string
	Line         int
	MergeRequest int
}

// MergeRequestOptions describes a merge request to open.
type MergeRequestOptions struct {
	Title string
	Body  string
	Base  string // target branch
	Head  string // source branch

	// TargetProjectID selects a different target project on GitLab, for
	// merge requests from a fork.
	TargetProjectID int64
}

// FileOptions describes a file to create.
type FileOptions struct {
	Path    string
	Message string
	Content string
	Branch  string // empty selects the default branch
}

// ForkOptions selects where a fork is created. Both empty forks into the
// authenticated user's namespace.
type ForkOptions struct {
	Organization string // GitHub
	Namespace    string // GitLab
}

// DefaultBranch is used by content operations when no branch is given.
const DefaultBranch = "master"
