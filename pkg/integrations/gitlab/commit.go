package gitlab

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	igerr "github.com/RaiVaibhav/IGitt/pkg/errors"
	"github.com/RaiVaibhav/IGitt/pkg/hosting"
	"github.com/RaiVaibhav/IGitt/pkg/integrations"
)

var fullSHA = regexp.MustCompile(`^[0-9a-f]{40}$`)

// Commit is a commit in a GitLab project. It can be addressed by any
// revision the API resolves, such as a short SHA or a branch name.
type Commit struct {
	*integrations.Object
	repo string
	rev  string
}

func newCommit(client *integrations.Client, repo, rev string) *Commit {
	return &Commit{
		Object: integrations.NewObject(client, projectPath(repo)+"/repository/commits/"+integrations.URLEncode(rev)),
		repo:   repo,
		rev:    rev,
	}
}

func commitFromData(client *integrations.Client, repo string, data map[string]any) *Commit {
	c := newCommit(client, repo, integrations.Str(data, "id"))
	c.SetData(data)
	return c
}

// SHA returns the full commit SHA. A commit addressed by another revision
// is fetched to resolve it.
func (c *Commit) SHA(ctx context.Context) (string, error) {
	if fullSHA.MatchString(c.rev) {
		return c.rev, nil
	}
	return c.Field(ctx, "id")
}

func (c *Commit) Repository() hosting.Repository { return newRepository(c.Client(), c.repo) }

func (c *Commit) Parent(ctx context.Context) (hosting.Commit, error) {
	data, err := c.Data(ctx)
	if err != nil {
		return nil, err
	}
	parents := integrations.List(data, "parent_ids")
	if len(parents) == 0 {
		return nil, igerr.New(igerr.ErrCodeDoesntExist, "commit %s has no parent", c.rev)
	}
	sha, _ := parents[0].(string)
	return newCommit(c.Client(), c.repo, sha), nil
}

func (c *Commit) diff(ctx context.Context) ([]map[string]any, error) {
	v, err := c.Client().Get(ctx, c.Path()+"/diff", nil)
	if err != nil {
		return nil, err
	}
	return integrations.AsObjects(v), nil
}

// PatchForFile returns the diff of file, matched by its new or old path.
func (c *Commit) PatchForFile(ctx context.Context, file string) (string, error) {
	diffs, err := c.diff(ctx)
	if err != nil {
		return "", err
	}
	for _, d := range diffs {
		if integrations.Str(d, "new_path") == file || integrations.Str(d, "old_path") == file {
			return integrations.Str(d, "diff"), nil
		}
	}
	return "", igerr.New(igerr.ErrCodeDoesntExist, "The file does not exist.")
}

func (c *Commit) UnifiedDiff(ctx context.Context) (string, error) {
	diffs, err := c.diff(ctx)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, d := range diffs {
		fmt.Fprintf(&b, "--- a/%s\n+++ b/%s\n", integrations.Str(d, "old_path"), integrations.Str(d, "new_path"))
		if patch := integrations.Str(d, "diff"); patch != "" {
			b.WriteString(strings.TrimSuffix(patch, "\n") + "\n")
		}
	}
	return b.String(), nil
}

// Statuses lists the commit's statuses, the first per name winning. The
// statuses resource is keyed by the full SHA.
func (c *Commit) Statuses(ctx context.Context) ([]hosting.CommitStatus, error) {
	sha, err := c.SHA(ctx)
	if err != nil {
		return nil, err
	}
	v, err := c.Client().Get(ctx, projectPath(c.repo)+"/repository/commits/"+sha+"/statuses", nil)
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	var out []hosting.CommitStatus
	for _, s := range integrations.AsObjects(v) {
		name := integrations.Str(s, "name")
		if seen[name] {
			continue
		}
		seen[name] = true
		status, err := statusTable.Decode(integrations.Str(s, "status"))
		if err != nil {
			return nil, err
		}
		out = append(out, hosting.CommitStatus{
			Status:      status,
			Description: integrations.Str(s, "description"),
			Context:     name,
			TargetURL:   integrations.Str(s, "target_url"),
		})
	}
	return out, nil
}

// SetStatus adds a status, replacing the one with the same name.
func (c *Commit) SetStatus(ctx context.Context, status hosting.CommitStatus) error {
	state, err := statusTable.Encode(status.Status)
	if err != nil {
		return err
	}
	sha, err := c.SHA(ctx)
	if err != nil {
		return err
	}
	body := map[string]any{
		"state":       state,
		"description": status.Description,
		"name":        status.Context,
	}
	if status.TargetURL != "" {
		body["target_url"] = status.TargetURL
	}
	_, err = c.Client().Post(ctx, projectPath(c.repo)+"/statuses/"+sha, body)
	return err
}

// Comment places a note on the commit, or on merge request
// opts.MergeRequest. See [hosting.CommentOptions].
func (c *Commit) Comment(ctx context.Context, message string, opts hosting.CommentOptions) error {
	body := map[string]any{"note": message, "line_type": "new"}

	inline := false
	if opts.File != "" && opts.Line != 0 {
		patch, err := c.PatchForFile(ctx, opts.File)
		if err != nil && !igerr.Is(err, igerr.ErrCodeDoesntExist) {
			return err
		}
		if err == nil {
			if index, ok := integrations.DiffIndex(patch, opts.Line); ok && index > 0 {
				inline = true
				body["line"] = index
				body["path"] = opts.File
			}
		}
	}
	if !inline {
		body["note"] = integrations.LocatedComment(c.rev, opts.File, opts.Line, message)
	}

	path := c.Path() + "/comments"
	if opts.MergeRequest != 0 {
		body["body"] = body["note"]
		path = fmt.Sprintf("%s/merge_requests/%d/notes", projectPath(c.repo), opts.MergeRequest)
	}
	_, err := c.Client().Post(ctx, path, body)
	return err
}

var _ hosting.Commit = (*Commit)(nil)
