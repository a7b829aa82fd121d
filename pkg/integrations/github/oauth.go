package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/RaiVaibhav/IGitt/pkg/integrations"
)

// DefaultClientID is the OAuth App client ID used by the igitt CLI.
// Client IDs are public; the device flow needs no secret.
//
// Set GITHUB_CLIENT_ID to use your own OAuth App.
const DefaultClientID = "Ov23liyPM58WU6hMeP7E"

// DefaultScopes are requested by the device flow: enough to manage
// repositories, hooks and issues.
const DefaultScopes = "read:user user:email repo admin:repo_hook"

// OAuthConfig configures an [OAuthClient].
type OAuthConfig struct {
	ClientID string
	Scopes   string

	// WebURL is the OAuth host. Defaults to [WebURL].
	WebURL string

	// HTTPClient defaults to [integrations.NewHTTPClient].
	HTTPClient *http.Client
}

// OAuthToken is an OAuth access token response.
type OAuthToken struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Scope       string `json:"scope"`
}

// OAuthError is an error answer of the OAuth endpoints.
type OAuthError struct {
	Code        string `json:"error"`
	Description string `json:"error_description"`
}

func (e *OAuthError) Error() string {
	if e.Description == "" {
		return e.Code
	}
	return e.Code + ": " + e.Description
}

// Device flow answers that mean "ask again later".
const (
	errAuthorizationPending = "authorization_pending"
	errSlowDown             = "slow_down"
)

// pollUnit scales device flow intervals, which are given in seconds.
var pollUnit = time.Second

// DeviceCodeResponse contains the response from requesting a device code.
type DeviceCodeResponse struct {
	DeviceCode      string `json:"device_code"`
	UserCode        string `json:"user_code"`
	VerificationURI string `json:"verification_uri"`
	ExpiresIn       int    `json:"expires_in"`
	Interval        int    `json:"interval"`
}

// OAuthClient runs the OAuth device authorization flow.
type OAuthClient struct {
	config OAuthConfig
	http   *http.Client
}

// NewOAuthClient creates an OAuth client, filling unset config fields.
func NewOAuthClient(config OAuthConfig) *OAuthClient {
	if config.ClientID == "" {
		config.ClientID = DefaultClientID
	}
	if config.Scopes == "" {
		config.Scopes = DefaultScopes
	}
	if config.WebURL == "" {
		config.WebURL = WebURL
	}
	hc := config.HTTPClient
	if hc == nil {
		hc = integrations.NewHTTPClient()
	}
	return &OAuthClient{config: config, http: hc}
}

// RequestDeviceCode initiates the device authorization flow.
// The user must visit the VerificationURI and enter the UserCode.
func (c *OAuthClient) RequestDeviceCode(ctx context.Context) (*DeviceCodeResponse, error) {
	var result DeviceCodeResponse
	err := c.postForm(ctx, "/login/device/code", url.Values{
		"client_id": {c.config.ClientID},
		"scope":     {c.config.Scopes},
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// PollForToken polls for the access token after the user was shown the
// user code. It waits interval seconds between attempts (at least 5) and
// backs off when asked to. It returns when the user authorized or denied
// the request, the code expired, or ctx is done.
func (c *OAuthClient) PollForToken(ctx context.Context, deviceCode string, interval int) (*OAuthToken, error) {
	if interval < 5 {
		interval = 5
	}
	wait := time.Duration(interval) * pollUnit

	timer := time.NewTimer(wait)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}

		var token OAuthToken
		err := c.postForm(ctx, "/login/oauth/access_token", url.Values{
			"client_id":   {c.config.ClientID},
			"device_code": {deviceCode},
			"grant_type":  {"urn:ietf:params:oauth:grant-type:device_code"},
		}, &token)

		var oerr *OAuthError
		switch {
		case err == nil:
			return &token, nil
		case errors.As(err, &oerr) && oerr.Code == errAuthorizationPending:
		case errors.As(err, &oerr) && oerr.Code == errSlowDown:
			wait += 5 * pollUnit
		default:
			return nil, err
		}
		timer.Reset(wait)
	}
}

// postForm posts a form and decodes the JSON answer into out, or returns
// an *OAuthError if the answer carries one.
func (c *OAuthClient) postForm(ctx context.Context, path string, form url.Values, out any) error {
	endpoint := strings.TrimRight(c.config.WebURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	var oerr OAuthError
	if err := json.Unmarshal(raw, &oerr); err == nil && oerr.Code != "" {
		return &oerr
	}
	if resp.StatusCode >= 300 {
		return &integrations.APIError{Method: http.MethodPost, URL: endpoint, StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return json.Unmarshal(raw, out)
}
