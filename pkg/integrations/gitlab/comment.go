package gitlab

import (
	"context"
	"fmt"

	"github.com/RaiVaibhav/IGitt/pkg/hosting"
	"github.com/RaiVaibhav/IGitt/pkg/integrations"
)

// Comment is a note on an issue, merge request or commit.
type Comment struct {
	*integrations.Object
}

// noteFromData creates the note with the given data below parent, the API
// path of the noteable.
func noteFromData(client *integrations.Client, parent string, data map[string]any) *Comment {
	path := fmt.Sprintf("%s/notes/%d", parent, integrations.Int(data, "id"))
	return &Comment{Object: integrations.NewObjectFromData(client, path, data)}
}

func (c *Comment) Body(ctx context.Context) (string, error) { return c.Field(ctx, "body") }

func (c *Comment) Author(ctx context.Context) (hosting.User, error) {
	data, err := c.Data(ctx)
	if err != nil {
		return nil, err
	}
	return userFromData(c.Client(), integrations.Map(data, "author")), nil
}

var _ hosting.Comment = (*Comment)(nil)
