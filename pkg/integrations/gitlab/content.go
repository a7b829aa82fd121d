package gitlab

import (
	"context"
	"encoding/base64"
	"net/url"

	"github.com/RaiVaibhav/IGitt/pkg/hosting"
	"github.com/RaiVaibhav/IGitt/pkg/integrations"
)

// Content is a file in a GitLab repository.
type Content struct {
	*integrations.Object
	repo string
	path string
}

func newContent(client *integrations.Client, repo, path string) *Content {
	c := &Content{
		Object: integrations.NewObject(client, projectPath(repo)+"/repository/files/"+integrations.URLEncode(path)),
		repo:   repo,
		path:   path,
	}
	c.SetQuery(url.Values{"ref": {hosting.DefaultBranch}})
	return c
}

func (c *Content) Path() string { return c.path }

// Fetch loads the file at ref.
func (c *Content) Fetch(ctx context.Context, ref string) error {
	c.SetQuery(url.Values{"ref": {orDefaultBranch(ref)}})
	return c.Refresh(ctx)
}

func (c *Content) Text(ctx context.Context) (string, error) {
	data, err := c.Data(ctx)
	if err != nil {
		return "", err
	}
	raw := integrations.Str(data, "content")
	if integrations.Str(data, "encoding") != "base64" {
		return raw, nil
	}
	b, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Update commits new content to branch. The fetched version's last commit
// guards against overwriting concurrent changes.
func (c *Content) Update(ctx context.Context, message, content, branch string) error {
	data, err := c.Data(ctx)
	if err != nil {
		return err
	}
	encoded := base64.StdEncoding.EncodeToString([]byte(content))
	body := map[string]any{
		"branch":         orDefaultBranch(branch),
		"commit_message": message,
		"content":        encoded,
		"encoding":       "base64",
	}
	if last := integrations.Str(data, "last_commit_id"); last != "" {
		body["last_commit_id"] = last
	}
	if _, err := c.Client().Put(ctx, c.Object.Path(), body); err != nil {
		return err
	}
	data["content"] = encoded
	data["encoding"] = "base64"
	delete(data, "last_commit_id")
	return nil
}

func (c *Content) Delete(ctx context.Context, message, branch string) error {
	_, err := c.Client().Delete(ctx, c.Object.Path(), map[string]any{
		"branch":         orDefaultBranch(branch),
		"commit_message": message,
	})
	return err
}

func orDefaultBranch(branch string) string {
	if branch == "" {
		return hosting.DefaultBranch
	}
	return branch
}

var _ hosting.Content = (*Content)(nil)
