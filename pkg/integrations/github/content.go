package github

import (
	"context"
	"encoding/base64"
	"net/url"
	"strings"

	"github.com/RaiVaibhav/IGitt/pkg/hosting"
	"github.com/RaiVaibhav/IGitt/pkg/integrations"
)

// Content is a file in a GitHub repository.
type Content struct {
	*integrations.Object
	repo string
	path string
}

func newContent(client *integrations.Client, repo, path string) *Content {
	c := &Content{
		Object: integrations.NewObject(client, "/repos/"+repo+"/contents/"+escapePath(path)),
		repo:   repo,
		path:   path,
	}
	c.SetQuery(url.Values{"ref": {hosting.DefaultBranch}})
	return c
}

// escapePath escapes each segment of a repository file path, so names
// containing '#', '?' or '%' stay part of the path.
func escapePath(path string) string {
	segs := strings.Split(path, "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return strings.Join(segs, "/")
}

// Path returns the file path relative to the repository root.
func (c *Content) Path() string { return c.path }

// Fetch loads the file at ref.
func (c *Content) Fetch(ctx context.Context, ref string) error {
	if ref == "" {
		ref = hosting.DefaultBranch
	}
	c.SetQuery(url.Values{"ref": {ref}})
	return c.Refresh(ctx)
}

// Text returns the decoded file content, loading the default branch
// version if nothing was fetched yet.
func (c *Content) Text(ctx context.Context) (string, error) {
	data, err := c.Data(ctx)
	if err != nil {
		return "", err
	}
	raw := integrations.Str(data, "content")
	if integrations.Str(data, "encoding") != "base64" {
		return raw, nil
	}
	b, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(raw, "\n", ""))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Update commits new content over the fetched version.
func (c *Content) Update(ctx context.Context, message, content, branch string) error {
	data, err := c.Data(ctx)
	if err != nil {
		return err
	}
	sha := integrations.Str(data, "sha")
	encoded := base64.StdEncoding.EncodeToString([]byte(content))
	v, err := c.Client().Put(ctx, c.Object.Path(), map[string]any{
		"path":    c.path,
		"message": message,
		"content": encoded,
		"sha":     sha,
		"branch":  orDefaultBranch(branch),
	})
	if err != nil {
		return err
	}
	data["sha"] = integrations.Str(integrations.Map(integrations.AsObject(v), "content"), "sha")
	data["content"] = encoded
	data["encoding"] = "base64"
	return nil
}

// Delete removes the fetched version of the file.
func (c *Content) Delete(ctx context.Context, message, branch string) error {
	sha, err := c.Field(ctx, "sha")
	if err != nil {
		return err
	}
	_, err = c.Client().Delete(ctx, c.Object.Path(), map[string]any{
		"path":    c.path,
		"message": message,
		"sha":     sha,
		"branch":  orDefaultBranch(branch),
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
