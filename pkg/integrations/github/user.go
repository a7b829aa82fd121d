package github

import (
	"context"

	"github.com/RaiVaibhav/IGitt/pkg/hosting"
	"github.com/RaiVaibhav/IGitt/pkg/integrations"
)

// User is a GitHub account. The zero name stands for the authenticated
// user.
type User struct {
	*integrations.Object
	name string
}

func newUser(client *integrations.Client, name string) *User {
	path := "/user"
	if name != "" {
		path = "/users/" + name
	}
	return &User{Object: integrations.NewObject(client, path), name: name}
}

func userFromData(client *integrations.Client, data map[string]any) *User {
	u := newUser(client, integrations.Str(data, "login"))
	u.SetData(data)
	return u
}

func (u *User) Username(ctx context.Context) (string, error) {
	if u.name != "" {
		return u.name, nil
	}
	return u.Field(ctx, "login")
}

func (u *User) Identifier(ctx context.Context) (int64, error) {
	data, err := u.Data(ctx)
	if err != nil {
		return 0, err
	}
	return integrations.Int(data, "id"), nil
}

func (u *User) WebURL(ctx context.Context) (string, error) {
	name, err := u.Username(ctx)
	if err != nil {
		return "", err
	}
	return WebURL + "/" + name, nil
}

var _ hosting.User = (*User)(nil)
