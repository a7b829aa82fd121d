package gitlab

import (
	"context"
	"net/url"

	"github.com/RaiVaibhav/IGitt/pkg/hosting"
	"github.com/RaiVaibhav/IGitt/pkg/integrations"
)

// Organization is a GitLab group, addressed by its full path. A user
// namespace works as well; the user then is the only member.
type Organization struct {
	*integrations.Object
	name string
	kind string // "group" or "user", resolved lazily
}

func newOrganization(client *integrations.Client, name string) *Organization {
	return &Organization{
		Object: integrations.NewObject(client, "/groups/"+integrations.URLEncode(name)),
		name:   name,
	}
}

func (o *Organization) Name() string { return o.name }

func (o *Organization) isUser(ctx context.Context) (bool, error) {
	if o.kind == "" {
		v, err := o.Client().Get(ctx, "/namespaces/"+integrations.URLEncode(o.name), nil)
		if err != nil {
			return false, err
		}
		o.kind = integrations.Str(integrations.AsObject(v), "kind")
	}
	return o.kind == "user", nil
}

func (o *Organization) Description(ctx context.Context) (string, error) {
	user, err := o.isUser(ctx)
	if err != nil || user {
		return "", err
	}
	return o.Field(ctx, "description")
}

func (o *Organization) WebURL(ctx context.Context) (string, error) {
	user, err := o.isUser(ctx)
	if err != nil {
		return "", err
	}
	if user {
		return WebURL + "/" + o.name, nil
	}
	return o.Field(ctx, "web_url")
}

// members lists the group's members including inherited ones, keeping
// those with at least minLevel access.
func (o *Organization) members(ctx context.Context, minLevel int64) ([]hosting.User, error) {
	v, err := o.Client().Get(ctx, o.Path()+"/members/all", nil)
	if err != nil {
		return nil, err
	}
	var out []hosting.User
	for _, m := range integrations.AsObjects(v) {
		if integrations.Int(m, "access_level") >= minLevel {
			out = append(out, userFromData(o.Client(), m))
		}
	}
	return hosting.Unique(out), nil
}

// BillableUsers is the member count, or 1 for a user namespace.
func (o *Organization) BillableUsers(ctx context.Context) (int, error) {
	user, err := o.isUser(ctx)
	if err != nil {
		return 0, err
	}
	if user {
		return 1, nil
	}
	members, err := o.members(ctx, 0)
	if err != nil {
		return 0, err
	}
	return len(members), nil
}

// Owners lists the members with owner access.
func (o *Organization) Owners(ctx context.Context) ([]hosting.User, error) {
	return o.withLevel(ctx, accessOwner)
}

// Masters lists the members with maintainer access or more.
func (o *Organization) Masters(ctx context.Context) ([]hosting.User, error) {
	return o.withLevel(ctx, accessMaintainer)
}

func (o *Organization) withLevel(ctx context.Context, level int64) ([]hosting.User, error) {
	user, err := o.isUser(ctx)
	if err != nil {
		return nil, err
	}
	if user {
		return []hosting.User{newUser(o.Client(), o.name)}, nil
	}
	return o.members(ctx, level)
}

// Suborgs lists the direct subgroups.
func (o *Organization) Suborgs(ctx context.Context) ([]hosting.Organization, error) {
	user, err := o.isUser(ctx)
	if err != nil {
		return nil, err
	}
	if user {
		return []hosting.Organization{}, nil
	}
	v, err := o.Client().Get(ctx, o.Path()+"/subgroups", nil)
	if err != nil {
		return nil, err
	}
	out := []hosting.Organization{}
	for _, data := range integrations.AsObjects(v) {
		sub := newOrganization(o.Client(), integrations.Str(data, "full_path"))
		sub.kind = "group"
		sub.SetData(data)
		out = append(out, sub)
	}
	return out, nil
}

// Repositories lists the projects of the group and its subgroups, or the
// personal projects of a user.
func (o *Organization) Repositories(ctx context.Context) ([]hosting.Repository, error) {
	user, err := o.isUser(ctx)
	if err != nil {
		return nil, err
	}
	path, query := o.Path()+"/projects", url.Values{"include_subgroups": {"true"}}
	if user {
		path, query = "/users/"+url.PathEscape(o.name)+"/projects", nil
	}
	v, err := o.Client().Get(ctx, path, query)
	if err != nil {
		return nil, err
	}
	return repositoriesFromData(o.Client(), v), nil
}

var _ hosting.Organization = (*Organization)(nil)
