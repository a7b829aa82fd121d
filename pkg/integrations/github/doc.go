// Package github implements the hosting interfaces for GitHub.
//
// # Usage
//
//	client, err := github.NewClient(integrations.Config{
//	    Token: auth.NewStaticToken(os.Getenv("GITHUB_TOKEN")),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	hoster := github.New(client)
//
//	repo, err := hoster.GetRepo("gitmate-test-user/test")
//	labels, err := repo.Labels(ctx)
//
// Repositories can be addressed by full name or by numeric ID. A
// repository addressed by ID resolves its full name with one request when
// an operation needs it.
//
// # Authentication
//
// Any [auth.Token] works: personal access tokens and OAuth tokens as
// [auth.StaticToken], GitHub App JWTs and installation tokens as
// [auth.JSONWebToken] and [auth.InstallationToken]. [OAuthClient] obtains
// an OAuth token through the device flow.
//
// # Translation tables
//
// Commit status states, issue states and webhook events are translated
// through [hosting.Table] values. GitHub reports issue and pull request
// comments under the same event name, so the webhook table cannot decode
// issue_comment; [Hoster.HandleWebhook] tells them apart by the payload.
//
// # Webhooks
//
// [Hoster.HandleWebhook] understands the issues, pull_request,
// issue_comment, status, installation and installation_repositories
// events. Anything else fails with errors.ErrCodeUnsupported.
package github
