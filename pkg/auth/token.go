// Package auth provides the credentials used to authorize hosting API calls.
//
// Every variant implements [Token]: it can attach itself to an outgoing
// request and can report its raw value, which adapters embed into clone
// URLs. Variants differ in where the credential goes and whether it expires:
//
//   - [StaticToken]: Authorization: Bearer header. GitHub personal and OAuth
//     tokens, GitLab OAuth tokens.
//   - [QueryToken]: private_token query parameter. GitLab private tokens.
//   - [JSONWebToken]: RS256-signed GitHub App JWT, re-signed when expired.
//   - [InstallationToken]: GitHub App installation token exchanged with a
//     JWT, re-exchanged shortly before expiry.
//
// Expiring variants also implement [Expirer]. Refresh happens inside
// Authorize, so callers never see an expired credential.
package auth

import (
	"context"
	"net/http"
	"strings"
)

// Token is a credential that can authorize a request.
type Token interface {
	// Authorize attaches the credential to req, refreshing it first if it
	// has expired.
	Authorize(ctx context.Context, req *http.Request) error

	// Value returns the raw credential.
	Value(ctx context.Context) (string, error)
}

// Expirer is implemented by tokens with a limited lifetime.
type Expirer interface {
	Expired() bool
	Refresh(ctx context.Context) error
}

// StaticToken is a fixed credential sent as a Bearer Authorization header.
type StaticToken struct {
	value string
}

// NewStaticToken creates a bearer token.
func NewStaticToken(value string) *StaticToken {
	return &StaticToken{value: strings.TrimSpace(value)}
}

// Authorize sets the Authorization header.
func (t *StaticToken) Authorize(_ context.Context, req *http.Request) error {
	req.Header.Set("Authorization", "Bearer "+t.value)
	return nil
}

// Value returns the token.
func (t *StaticToken) Value(context.Context) (string, error) {
	return t.value, nil
}

// QueryTokenParam is the query parameter name used by [QueryToken].
const QueryTokenParam = "private_token"

// QueryToken is a fixed credential sent as the private_token query
// parameter, the way GitLab accepts private access tokens.
type QueryToken struct {
	value string
}

// NewQueryToken creates a query parameter token.
func NewQueryToken(value string) *QueryToken {
	return &QueryToken{value: strings.TrimSpace(value)}
}

// Authorize adds private_token to the request URL, replacing any previous value.
func (t *QueryToken) Authorize(_ context.Context, req *http.Request) error {
	q := req.URL.Query()
	q.Set(QueryTokenParam, t.value)
	req.URL.RawQuery = q.Encode()
	return nil
}

// Value returns the token.
func (t *QueryToken) Value(context.Context) (string, error) {
	return t.value, nil
}

// ensureFresh refreshes tok when it reports itself expired.
func ensureFresh(ctx context.Context, tok Expirer) error {
	if !tok.Expired() {
		return nil
	}
	return tok.Refresh(ctx)
}

var (
	_ Token = (*StaticToken)(nil)
	_ Token = (*QueryToken)(nil)
)
