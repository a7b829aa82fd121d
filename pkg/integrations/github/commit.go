package github

import (
	"context"
	"fmt"
	"strings"

	igerr "github.com/RaiVaibhav/IGitt/pkg/errors"
	"github.com/RaiVaibhav/IGitt/pkg/hosting"
	"github.com/RaiVaibhav/IGitt/pkg/integrations"
)

// Commit is a commit in a GitHub repository.
type Commit struct {
	*integrations.Object
	repo string
	sha  string
}

func newCommit(client *integrations.Client, repo, sha string) *Commit {
	return &Commit{
		Object: integrations.NewObject(client, "/repos/"+repo+"/commits/"+sha),
		repo:   repo,
		sha:    sha,
	}
}

func commitFromData(client *integrations.Client, repo string, data map[string]any) *Commit {
	c := newCommit(client, repo, integrations.Str(data, "sha"))
	c.SetData(data)
	return c
}

func (c *Commit) SHA(context.Context) (string, error) { return c.sha, nil }

func (c *Commit) Repository() hosting.Repository { return newRepository(c.Client(), c.repo) }

// Parent returns the first parent.
func (c *Commit) Parent(ctx context.Context) (hosting.Commit, error) {
	data, err := c.Data(ctx)
	if err != nil {
		return nil, err
	}
	parents := integrations.AsObjects(data["parents"])
	if len(parents) == 0 {
		return nil, igerr.New(igerr.ErrCodeDoesntExist, "commit %s has no parent", c.sha)
	}
	return newCommit(c.Client(), c.repo, integrations.Str(parents[0], "sha")), nil
}

func (c *Commit) files(ctx context.Context) ([]map[string]any, error) {
	data, err := c.Data(ctx)
	if err != nil {
		return nil, err
	}
	return integrations.AsObjects(data["files"]), nil
}

func (c *Commit) PatchForFile(ctx context.Context, file string) (string, error) {
	files, err := c.files(ctx)
	if err != nil {
		return "", err
	}
	for _, f := range files {
		if integrations.Str(f, "filename") == file {
			return integrations.Str(f, "patch"), nil
		}
	}
	return "", igerr.New(igerr.ErrCodeDoesntExist, "The file does not exist.")
}

// UnifiedDiff joins the patches of all files, each under a ---/+++ header.
func (c *Commit) UnifiedDiff(ctx context.Context) (string, error) {
	files, err := c.files(ctx)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, f := range files {
		name := integrations.Str(f, "filename")
		prev := integrations.Str(f, "previous_filename")
		if prev == "" {
			prev = name
		}
		fmt.Fprintf(&b, "--- a/%s\n+++ b/%s\n", prev, name)
		if patch := integrations.Str(f, "patch"); patch != "" {
			b.WriteString(strings.TrimSuffix(patch, "\n") + "\n")
		}
	}
	return b.String(), nil
}

// Statuses lists the commit's statuses. GitHub returns them newest first,
// so the first entry per context is the current one.
func (c *Commit) Statuses(ctx context.Context) ([]hosting.CommitStatus, error) {
	v, err := c.Client().Get(ctx, "/repos/"+c.repo+"/commits/"+c.sha+"/statuses", nil)
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	var out []hosting.CommitStatus
	for _, s := range integrations.AsObjects(v) {
		name := integrations.Str(s, "context")
		if seen[name] {
			continue
		}
		seen[name] = true
		status, err := statusTable.Decode(integrations.Str(s, "state"))
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

// SetStatus adds a status, replacing the one with the same context.
func (c *Commit) SetStatus(ctx context.Context, status hosting.CommitStatus) error {
	state, err := statusTable.Encode(status.Status)
	if err != nil {
		return err
	}
	body := map[string]any{
		"state":       state,
		"description": status.Description,
		"context":     status.Context,
	}
	if status.TargetURL != "" {
		body["target_url"] = status.TargetURL
	}
	_, err = c.Client().Post(ctx, "/repos/"+c.repo+"/statuses/"+c.sha, body)
	return err
}

// Comment places a comment on the commit. See [hosting.CommentOptions].
func (c *Commit) Comment(ctx context.Context, message string, opts hosting.CommentOptions) error {
	body := map[string]any{"body": message}

	position := 0
	if opts.File != "" && opts.Line != 0 {
		patch, err := c.PatchForFile(ctx, opts.File)
		if err != nil && !igerr.Is(err, igerr.ErrCodeDoesntExist) {
			return err
		}
		if err == nil {
			if index, ok := integrations.DiffIndex(patch, opts.Line); ok && index > 0 {
				position = index
				body["position"] = index
				body["path"] = opts.File
			}
		}
	}
	if position == 0 {
		body["body"] = integrations.LocatedComment(c.sha, opts.File, opts.Line, message)
	}

	var path string
	switch {
	case opts.MergeRequest == 0:
		path = fmt.Sprintf("/repos/%s/commits/%s/comments", c.repo, c.sha)
	case position != 0:
		body["commit_id"] = c.sha
		path = fmt.Sprintf("/repos/%s/pulls/%d/comments", c.repo, opts.MergeRequest)
	default:
		path = fmt.Sprintf("/repos/%s/issues/%d/comments", c.repo, opts.MergeRequest)
	}
	_, err := c.Client().Post(ctx, path, body)
	return err
}

var _ hosting.Commit = (*Commit)(nil)
