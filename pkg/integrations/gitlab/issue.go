package gitlab

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/RaiVaibhav/IGitt/pkg/hosting"
	"github.com/RaiVaibhav/IGitt/pkg/integrations"
)

// Issue is a GitLab issue, numbered by its project-scoped iid.
type Issue struct {
	*integrations.Object
	repo   string
	number int
}

func newIssue(client *integrations.Client, repo string, number int) *Issue {
	return &Issue{
		Object: integrations.NewObject(client, fmt.Sprintf("%s/issues/%d", projectPath(repo), number)),
		repo:   repo,
		number: number,
	}
}

func issueFromData(client *integrations.Client, repo string, data map[string]any) *Issue {
	i := newIssue(client, repo, int(integrations.Int(data, "iid")))
	i.SetData(data)
	return i
}

func (i *Issue) Number() int { return i.number }

func (i *Issue) Repository() hosting.Repository { return newRepository(i.Client(), i.repo) }

func (i *Issue) Title(ctx context.Context) (string, error) { return i.Field(ctx, "title") }

func (i *Issue) SetTitle(ctx context.Context, title string) error {
	_, err := i.Update(ctx, http.MethodPut, map[string]any{"title": title})
	return err
}

func (i *Issue) Description(ctx context.Context) (string, error) { return i.Field(ctx, "description") }

func (i *Issue) State(ctx context.Context) (hosting.State, error) {
	s, err := i.Field(ctx, "state")
	if err != nil {
		return 0, err
	}
	return issueStateTable.Decode(s)
}

// Labels returns the label names, sorted. Both the plain and the detailed
// label representation are understood.
func (i *Issue) Labels(ctx context.Context) ([]string, error) {
	data, err := i.Data(ctx)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, l := range integrations.List(data, "labels") {
		switch l := l.(type) {
		case string:
			names = append(names, l)
		case map[string]any:
			names = append(names, integrations.Str(l, "name"))
		}
	}
	return hosting.SortedSet(names), nil
}

func (i *Issue) Author(ctx context.Context) (hosting.User, error) {
	data, err := i.Data(ctx)
	if err != nil {
		return nil, err
	}
	return userFromData(i.Client(), integrations.Map(data, "author")), nil
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

func (i *Issue) Close(ctx context.Context) error  { return i.stateEvent(ctx, "close") }
func (i *Issue) Reopen(ctx context.Context) error { return i.stateEvent(ctx, "reopen") }

func (i *Issue) stateEvent(ctx context.Context, event string) error {
	_, err := i.Update(ctx, http.MethodPut, map[string]any{"state_event": event})
	return err
}

// AddComment adds a note to the discussion.
func (i *Issue) AddComment(ctx context.Context, body string) (hosting.Comment, error) {
	v, err := i.Client().Post(ctx, i.Path()+"/notes", map[string]any{"body": body})
	if err != nil {
		return nil, err
	}
	return noteFromData(i.Client(), i.Path(), integrations.AsObject(v)), nil
}

var _ hosting.Issue = (*Issue)(nil)
