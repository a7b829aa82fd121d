// Package gitlab implements the hosting interfaces on the GitLab REST API
// (v4).
//
// # Usage
//
//	client, err := gitlab.NewClient(integrations.Config{
//	    Token: gitlab.NewPrivateToken(os.Getenv("GITLAB_TOKEN")),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	repo, err := gitlab.New(client).GetRepo("group/subgroup/project")
//
// # Authentication
//
// Personal and project access tokens travel as the private_token query
// parameter ([NewPrivateToken]); OAuth tokens as a Bearer header
// ([NewOAuthToken]). The cache key never includes either.
//
// # Addressing
//
// Projects are addressed by numeric ID or by URL-encoded full path; both
// forms work for every nested resource, so issues, merge requests and
// commits keep the form their project was created with. Groups are
// organizations, and subgroups are reported by Suborgs.
//
// Issues and merge requests are numbered by their project-scoped iid.
package gitlab
