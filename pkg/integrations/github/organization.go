package github

import (
	"context"
	"net/url"

	"github.com/RaiVaibhav/IGitt/pkg/hosting"
	"github.com/RaiVaibhav/IGitt/pkg/integrations"
)

// Organization is a GitHub organization. A user login works as well; the
// user then is the only member and owns its personal repositories.
type Organization struct {
	*integrations.Object
	name string
	kind string // "Organization" or "User", resolved lazily
}

func newOrganization(client *integrations.Client, name string) *Organization {
	return &Organization{Object: integrations.NewObject(client, "/orgs/"+name), name: name}
}

func (o *Organization) Name() string { return o.name }

func (o *Organization) isUser(ctx context.Context) (bool, error) {
	if o.kind == "" {
		v, err := o.Client().Get(ctx, "/users/"+o.name, nil)
		if err != nil {
			return false, err
		}
		o.kind = integrations.Str(integrations.AsObject(v), "type")
	}
	return o.kind == "User", nil
}

// Description returns the organization's description. Users have none.
func (o *Organization) Description(ctx context.Context) (string, error) {
	user, err := o.isUser(ctx)
	if err != nil || user {
		return "", err
	}
	return o.Field(ctx, "description")
}

func (o *Organization) WebURL(context.Context) (string, error) {
	return WebURL + "/" + o.name, nil
}

// BillableUsers is the member count, or 1 for a user.
func (o *Organization) BillableUsers(ctx context.Context) (int, error) {
	user, err := o.isUser(ctx)
	if err != nil {
		return 0, err
	}
	if user {
		return 1, nil
	}
	v, err := o.Client().Get(ctx, "/orgs/"+o.name+"/members", nil)
	if err != nil {
		return 0, err
	}
	return len(integrations.AsObjects(v)), nil
}

// Owners lists the organization's admins, or the user itself.
func (o *Organization) Owners(ctx context.Context) ([]hosting.User, error) {
	user, err := o.isUser(ctx)
	if err != nil {
		return nil, err
	}
	if user {
		return []hosting.User{newUser(o.Client(), o.name)}, nil
	}
	v, err := o.Client().Get(ctx, "/orgs/"+o.name+"/members", url.Values{"role": {"admin"}})
	if err != nil {
		return nil, err
	}
	var out []hosting.User
	for _, data := range integrations.AsObjects(v) {
		out = append(out, userFromData(o.Client(), data))
	}
	return out, nil
}

// Masters equals Owners; GitHub has no separate maintainer role on
// organizations.
func (o *Organization) Masters(ctx context.Context) ([]hosting.User, error) {
	return o.Owners(ctx)
}

// Suborgs is always empty on GitHub.
func (o *Organization) Suborgs(context.Context) ([]hosting.Organization, error) {
	return []hosting.Organization{}, nil
}

func (o *Organization) Repositories(ctx context.Context) ([]hosting.Repository, error) {
	user, err := o.isUser(ctx)
	if err != nil {
		return nil, err
	}
	path := "/orgs/" + o.name + "/repos"
	if user {
		path = "/users/" + o.name + "/repos"
	}
	v, err := o.Client().Get(ctx, path, nil)
	if err != nil {
		return nil, err
	}
	var out []hosting.Repository
	for _, data := range integrations.AsObjects(v) {
		out = append(out, repositoryFromData(o.Client(), data))
	}
	return out, nil
}

var _ hosting.Organization = (*Organization)(nil)
