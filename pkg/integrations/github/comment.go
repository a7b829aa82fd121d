package github

import (
	"context"
	"fmt"

	"github.com/RaiVaibhav/IGitt/pkg/hosting"
	"github.com/RaiVaibhav/IGitt/pkg/integrations"
)

// Comment is a comment on an issue, pull request or commit.
type Comment struct {
	*integrations.Object
}

func issueCommentFromData(client *integrations.Client, repo string, data map[string]any) *Comment {
	path := fmt.Sprintf("/repos/%s/issues/comments/%d", repo, integrations.Int(data, "id"))
	return &Comment{Object: integrations.NewObjectFromData(client, path, data)}
}

func (c *Comment) Body(ctx context.Context) (string, error) { return c.Field(ctx, "body") }

func (c *Comment) Author(ctx context.Context) (hosting.User, error) {
	data, err := c.Data(ctx)
	if err != nil {
		return nil, err
	}
	return userFromData(c.Client(), integrations.Map(data, "user")), nil
}

var _ hosting.Comment = (*Comment)(nil)
