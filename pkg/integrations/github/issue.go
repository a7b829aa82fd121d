package github

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/RaiVaibhav/IGitt/pkg/hosting"
	"github.com/RaiVaibhav/IGitt/pkg/integrations"
)

// Issue is a GitHub issue.
type Issue struct {
	*integrations.Object
	repo   string
	number int
}

func newIssue(client *integrations.Client, repo string, number int) *Issue {
	return &Issue{
		Object: integrations.NewObject(client, fmt.Sprintf("/repos/%s/issues/%d", repo, number)),
		repo:   repo,
		number: number,
	}
}

func issueFromData(client *integrations.Client, repo string, data map[string]any) *Issue {
	i := newIssue(client, repo, int(integrations.Int(data, "number")))
	i.SetData(data)
	return i
}

// Number returns the issue number within its repository.
func (i *Issue) Number() int { return i.number }

// Repository returns the repository the issue belongs to.
func (i *Issue) Repository() hosting.Repository { return newRepository(i.Client(), i.repo) }

func (i *Issue) Title(ctx context.Context) (string, error) { return i.Field(ctx, "title") }

func (i *Issue) SetTitle(ctx context.Context, title string) error {
	_, err := i.Update(ctx, http.MethodPatch, map[string]any{"title": title})
	return err
}

func (i *Issue) Description(ctx context.Context) (string, error) { return i.Field(ctx, "body") }

func (i *Issue) State(ctx context.Context) (hosting.State, error) {
	s, err := i.Field(ctx, "state")
	if err != nil {
		return 0, err
	}
	return stateTable.Decode(s)
}

// Labels returns the label names attached to the issue, sorted.
func (i *Issue) Labels(ctx context.Context) ([]string, error) {
	data, err := i.Data(ctx)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, l := range integrations.AsObjects(data["labels"]) {
		names = append(names, integrations.Str(l, "name"))
	}
	return hosting.SortedSet(names), nil
}

func (i *Issue) Author(ctx context.Context) (hosting.User, error) {
	data, err := i.Data(ctx)
	if err != nil {
		return nil, err
	}
	return userFromData(i.Client(), integrations.Map(data, "user")), nil
}

func (i *Issue) Created(ctx context.Context) (time.Time, error) { return i.timeField(ctx, "created_at") }
func (i *Issue) Updated(ctx context.Context) (time.Time, error) { return i.timeField(ctx, "updated_at") }

func (i *Issue) timeField(ctx context.Context, key string) (time.Time, error) {
	data, err := i.Data(ctx)
	if err != nil {
		return time.Time{}, err
	}
	return integrations.Time(data, key), nil
}

func (i *Issue) Close(ctx context.Context) error  { return i.setState(ctx, "closed") }
func (i *Issue) Reopen(ctx context.Context) error { return i.setState(ctx, "open") }

func (i *Issue) setState(ctx context.Context, state string) error {
	_, err := i.Update(ctx, http.MethodPatch, map[string]any{"state": state})
	return err
}

// AddComment posts a comment to the issue's discussion. Pull requests
// share this endpoint.
func (i *Issue) AddComment(ctx context.Context, body string) (hosting.Comment, error) {
	v, err := i.Client().Post(ctx, fmt.Sprintf("/repos/%s/issues/%d/comments", i.repo, i.number), map[string]any{"body": body})
	if err != nil {
		return nil, err
	}
	return issueCommentFromData(i.Client(), i.repo, integrations.AsObject(v)), nil
}

var _ hosting.Issue = (*Issue)(nil)
