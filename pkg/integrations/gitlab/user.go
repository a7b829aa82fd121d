package gitlab

import (
	"context"
	"net/url"
	"strconv"

	igerr "github.com/RaiVaibhav/IGitt/pkg/errors"
	"github.com/RaiVaibhav/IGitt/pkg/hosting"
	"github.com/RaiVaibhav/IGitt/pkg/integrations"
)

// User is a GitLab account, addressed by numeric ID or username. The zero
// name stands for the authenticated user.
type User struct {
	*integrations.Object
	name string
}

// newUser creates a user. GitLab only resolves usernames through the
// users search, so a user given by name is loaded from there.
func newUser(client *integrations.Client, name string) *User {
	switch {
	case name == "":
		return &User{Object: integrations.NewObject(client, "/user")}
	case isNumeric(name):
		return &User{Object: integrations.NewObject(client, "/users/"+name)}
	}
	u := &User{Object: integrations.NewObject(client, "/users/"+url.PathEscape(name)), name: name}
	u.SetLoader(func(ctx context.Context) (map[string]any, error) {
		v, err := client.Get(ctx, "/users", url.Values{"username": {name}})
		if err != nil {
			return nil, err
		}
		found := integrations.AsObjects(v)
		if len(found) == 0 {
			return nil, igerr.New(igerr.ErrCodeNotFound, "user %s not found", name)
		}
		return found[0], nil
	})
	return u
}

// userFromData addresses the user by ID when the data carries one, the
// form every API response uses.
func userFromData(client *integrations.Client, data map[string]any) *User {
	var u *User
	if id := integrations.Int(data, "id"); id != 0 {
		u = newUser(client, strconv.FormatInt(id, 10))
		u.name = integrations.Str(data, "username")
	} else {
		u = newUser(client, integrations.Str(data, "username"))
	}
	u.SetData(data)
	return u
}

func (u *User) Username(ctx context.Context) (string, error) {
	if u.name != "" {
		return u.name, nil
	}
	return u.Field(ctx, "username")
}

func (u *User) Identifier(ctx context.Context) (int64, error) {
	data, err := u.Data(ctx)
	if err != nil {
		return 0, err
	}
	return integrations.Int(data, "id"), nil
}

func (u *User) WebURL(ctx context.Context) (string, error) {
	data, err := u.Data(ctx)
	if err != nil {
		return "", err
	}
	if w := integrations.Str(data, "web_url"); w != "" {
		return w, nil
	}
	return WebURL + "/" + integrations.Str(data, "username"), nil
}

var _ hosting.User = (*User)(nil)
