package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// RotationMargin is how far before expiry an installation token is
// re-exchanged. GitHub installation tokens live for an hour.
const RotationMargin = 5 * time.Minute

// DefaultGitHubAPI is the API root used when no base URL is configured.
const DefaultGitHubAPI = "https://api.github.com"

// InstallationConfig configures an [InstallationToken].
type InstallationConfig struct {
	JWT            *JSONWebToken
	InstallationID int64

	// BaseURL is the GitHub API root. Defaults to DefaultGitHubAPI.
	BaseURL string

	// HTTPClient performs the token exchange. Defaults to a client with a
	// 10 second timeout.
	HTTPClient *http.Client
}

// InstallationToken is a GitHub App installation access token.
// It is exchanged for the App JWT on first use and again whenever it is
// within RotationMargin of expiry. Concurrent refreshes share one exchange.
type InstallationToken struct {
	jwt            *JSONWebToken
	installationID int64
	baseURL        string
	http           *http.Client
	now            func() time.Time

	group singleflight.Group

	mu        sync.Mutex
	value     string
	expiresAt time.Time
}

// NewInstallationToken creates an installation token. No request is made
// until the token is first used.
func NewInstallationToken(cfg InstallationConfig) (*InstallationToken, error) {
	if cfg.JWT == nil {
		return nil, fmt.Errorf("installation token: app jwt is required")
	}
	if cfg.InstallationID <= 0 {
		return nil, fmt.Errorf("installation token: invalid installation id %d", cfg.InstallationID)
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultGitHubAPI
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	return &InstallationToken{
		jwt:            cfg.JWT,
		installationID: cfg.InstallationID,
		baseURL:        base,
		http:           hc,
		now:            time.Now,
	}, nil
}

// InstallationID returns the installation this token acts for.
func (t *InstallationToken) InstallationID() int64 { return t.installationID }

// JWT returns the App token used for the exchange.
func (t *InstallationToken) JWT() *JSONWebToken { return t.jwt }

// ExpiresAt returns the expiry reported by GitHub, or the zero time before
// the first exchange.
func (t *InstallationToken) ExpiresAt() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.expiresAt
}

// Expired reports whether the token is missing or within RotationMargin of
// its expiry.
func (t *InstallationToken) Expired() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.value == "" || !t.now().Before(t.expiresAt.Add(-RotationMargin))
}

// Refresh exchanges the App JWT for a new installation token.
func (t *InstallationToken) Refresh(ctx context.Context) error {
	_, err, _ := t.group.Do("refresh", func() (any, error) {
		token, expiresAt, err := t.exchange(ctx)
		if err != nil {
			return nil, err
		}
		t.mu.Lock()
		t.value = token
		t.expiresAt = expiresAt
		t.mu.Unlock()
		return nil, nil
	})
	return err
}

func (t *InstallationToken) exchange(ctx context.Context) (string, time.Time, error) {
	jwt, err := t.jwt.Value(ctx)
	if err != nil {
		return "", time.Time{}, err
	}

	url := t.baseURL + "/app/installations/" + strconv.FormatInt(t.installationID, 10) + "/access_tokens"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("create token exchange request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+jwt)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := t.http.Do(req)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("token exchange request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", time.Time{}, fmt.Errorf("token exchange returned HTTP %d: %s", resp.StatusCode, body)
	}

	var result struct {
		Token     string    `json:"token"`
		ExpiresAt time.Time `json:"expires_at"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", time.Time{}, fmt.Errorf("decode token exchange response: %w", err)
	}
	if result.Token == "" {
		return "", time.Time{}, fmt.Errorf("token exchange returned empty token")
	}
	return result.Token, result.ExpiresAt, nil
}

// Value returns a valid installation token, exchanging a new one if needed.
func (t *InstallationToken) Value(ctx context.Context) (string, error) {
	if err := ensureFresh(ctx, t); err != nil {
		return "", err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.value, nil
}

// Authorize sets a Bearer Authorization header with the installation token.
func (t *InstallationToken) Authorize(ctx context.Context, req *http.Request) error {
	v, err := t.Value(ctx)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+v)
	return nil
}

var (
	_ Token   = (*InstallationToken)(nil)
	_ Expirer = (*InstallationToken)(nil)
)
