package github

import (
	"context"
	"strconv"

	"github.com/RaiVaibhav/IGitt/pkg/auth"
	"github.com/RaiVaibhav/IGitt/pkg/hosting"
	"github.com/RaiVaibhav/IGitt/pkg/integrations"
)

// Installation is a GitHub App installation.
type Installation struct {
	*integrations.Object
	id int64
}

func newInstallation(client *integrations.Client, id int64) *Installation {
	path := "/app/installations/" + strconv.FormatInt(id, 10)
	return &Installation{Object: integrations.NewObject(client, path), id: id}
}

func installationFromData(client *integrations.Client, data map[string]any) *Installation {
	i := newInstallation(client, integrations.Int(data, "id"))
	i.SetData(data)
	return i
}

func (i *Installation) Identifier() int64 { return i.id }

// Repositories lists the repositories the installation can access. With an
// installation token the installation's own listing is used; any other
// token must belong to a user who can see the installation.
func (i *Installation) Repositories(ctx context.Context) ([]hosting.Repository, error) {
	path := "/user/installations/" + strconv.FormatInt(i.id, 10) + "/repositories"
	if tok, ok := i.Client().Token().(*auth.InstallationToken); ok && tok.InstallationID() == i.id {
		path = "/installation/repositories"
	}
	v, err := i.Client().Get(ctx, path, nil)
	if err != nil {
		return nil, err
	}
	var out []hosting.Repository
	for _, data := range integrations.AsObjects(v) {
		out = append(out, repositoryFromData(i.Client(), data))
	}
	return out, nil
}

var _ hosting.Installation = (*Installation)(nil)
