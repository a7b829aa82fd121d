// Package pkg holds the libraries behind igitt, a provider-neutral client
// for Git hosting services.
//
// # Overview
//
// Code written against the interfaces in [hosting] runs unchanged against
// GitHub and GitLab. The pkg directory is organized as:
//
//  1. [hosting] - Entity interfaces (Hoster, Repository, Issue, MergeRequest,
//     Commit, Content, Organization, User) and the shared enums
//  2. [integrations] - HTTP access layer with pagination and conditional
//     caching, plus the [integrations/github] and [integrations/gitlab]
//     adapters
//  3. [auth] - Token variants: static, query parameter, GitHub App JWT and
//     installation tokens
//  4. [cache] - Validator cache backends (memory, file, redis)
//  5. [webhook] - HTTP receiver that verifies and translates deliveries
//
// # Quick Start
//
//	client, _ := github.NewClient(integrations.Config{
//	    Token: auth.NewStaticToken(os.Getenv("GITHUB_TOKEN")),
//	})
//	h := github.New(client)
//
//	repo, _ := h.GetRepo("gitmate-test-user/test")
//	issue, _ := repo.CreateIssue(ctx, "Flaky test", "Fails on CI only.")
//	_, _ = issue.AddComment(ctx, "Looking into it.")
//	_ = issue.Close(ctx)
//
// Switching to GitLab only changes the constructor:
//
//	client, _ := gitlab.NewClient(integrations.Config{
//	    Token: gitlab.NewPrivateToken(os.Getenv("GITLAB_TOKEN")),
//	})
//	h := gitlab.New(client)
//
// # Supporting Packages
//
// [errors] - Coded errors (DOESNT_EXIST, UNSUPPORTED, ...) and input
// validation.
//
// [httputil] - Cached HTTP response storage keyed by URL.
//
// [observability] - Hooks for HTTP, cache and webhook events.
//
// [session] - Stored logins for the command-line tool.
//
// [buildinfo] - Version information set at link time.
//
// [hosting]: https://pkg.go.dev/github.com/RaiVaibhav/IGitt/pkg/hosting
// [integrations]: https://pkg.go.dev/github.com/RaiVaibhav/IGitt/pkg/integrations
// [integrations/github]: https://pkg.go.dev/github.com/RaiVaibhav/IGitt/pkg/integrations/github
// [integrations/gitlab]: https://pkg.go.dev/github.com/RaiVaibhav/IGitt/pkg/integrations/gitlab
// [auth]: https://pkg.go.dev/github.com/RaiVaibhav/IGitt/pkg/auth
// [cache]: https://pkg.go.dev/github.com/RaiVaibhav/IGitt/pkg/cache
// [webhook]: https://pkg.go.dev/github.com/RaiVaibhav/IGitt/pkg/webhook
// [errors]: https://pkg.go.dev/github.com/RaiVaibhav/IGitt/pkg/errors
// [httputil]: https://pkg.go.dev/github.com/RaiVaibhav/IGitt/pkg/httputil
// [observability]: https://pkg.go.dev/github.com/RaiVaibhav/IGitt/pkg/observability
// [session]: https://pkg.go.dev/github.com/RaiVaibhav/IGitt/pkg/session
// [buildinfo]: https://pkg.go.dev/github.com/RaiVaibhav/IGitt/pkg/buildinfo
package pkg
