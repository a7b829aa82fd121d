// Package integrations provides the HTTP access layer for Git hosting APIs.
//
// # Overview
//
// The provider adapters live in subpackages:
//
//   - [github]: GitHub REST v3
//   - [gitlab]: GitLab REST v4
//
// Both are built on two types from this package:
//
//   - [Client]: authorized requests, pagination, conditional caching and
//     JSON decoding. Non-2xx responses become [*APIError], which carries the
//     provider's status and raw body.
//   - [Object]: the lazily loaded JSON state behind every entity, addressed
//     by an API path and compared by absolute URL.
//
// # Client Pattern
//
//	client, err := integrations.NewClient(integrations.Config{
//	    BaseURL: "https://api.github.com",
//	    Token:   auth.NewStaticToken(token),
//	    PerPage: 100,
//	})
//	labels, err := client.Get(ctx, "/repos/owner/name/labels", nil)
//
// A list endpoint returns one []any holding every page. The decoded values
// are plain map[string]any trees; [Str], [Int], [Bool], [Map] and [List]
// read them without type assertions at every call site.
//
// # Conditional Requests
//
// Every GET response with an ETag or Last-Modified header is stored in the
// configured [cache.Cache] (an in-memory map by default). The next GET for
// the same URL replays the validators, and a 304 answer is served from the
// stored body without counting against GitHub's rate limit.
//
// [github]: github.com/RaiVaibhav/IGitt/pkg/integrations/github
// [gitlab]: github.com/RaiVaibhav/IGitt/pkg/integrations/gitlab
// [cache.Cache]: github.com/RaiVaibhav/IGitt/pkg/cache.Cache
package integrations
