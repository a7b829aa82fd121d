package github

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func withFastPolling(t *testing.T) {
	t.Helper()
	prev := pollUnit
	pollUnit = time.Millisecond
	t.Cleanup(func() { pollUnit = prev })
}

func TestDeviceFlow(t *testing.T) {
	withFastPolling(t)

	var polls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("POST /login/device/code", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Error(err)
		}
		if r.Form.Get("client_id") != DefaultClientID || r.Form.Get("scope") != DefaultScopes {
			t.Errorf("form = %v", r.Form)
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"device_code":      "dev-1",
			"user_code":        "ABCD-1234",
			"verification_uri": "https://github.com/login/device",
			"interval":         1,
		})
	})
	mux.HandleFunc("POST /login/oauth/access_token", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		if r.Form.Get("device_code") != "dev-1" {
			t.Errorf("device_code = %q", r.Form.Get("device_code"))
		}
		switch polls.Add(1) {
		case 1:
			writeJSON(w, http.StatusOK, map[string]any{"error": "authorization_pending"})
		case 2:
			writeJSON(w, http.StatusOK, map[string]any{"error": "slow_down"})
		default:
			writeJSON(w, http.StatusOK, map[string]any{"access_token": "gho_abc", "token_type": "bearer", "scope": "repo"})
		}
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewOAuthClient(OAuthConfig{WebURL: srv.URL})
	ctx := context.Background()

	code, err := c.RequestDeviceCode(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if code.UserCode != "ABCD-1234" {
		t.Errorf("UserCode = %q", code.UserCode)
	}

	token, err := c.PollForToken(ctx, code.DeviceCode, code.Interval)
	if err != nil {
		t.Fatal(err)
	}
	if token.AccessToken != "gho_abc" {
		t.Errorf("AccessToken = %q", token.AccessToken)
	}
	if polls.Load() != 3 {
		t.Errorf("polls = %d, want 3", polls.Load())
	}
}

func TestDeviceFlowDenied(t *testing.T) {
	withFastPolling(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"error": "access_denied", "error_description": "The user has denied your application access."})
	}))
	defer srv.Close()

	_, err := NewOAuthClient(OAuthConfig{WebURL: srv.URL}).PollForToken(context.Background(), "dev", 0)
	var oerr *OAuthError
	if !errors.As(err, &oerr) || oerr.Code != "access_denied" {
		t.Fatalf("error = %v, want access_denied", err)
	}
}

func TestDeviceFlowContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewOAuthClient(OAuthConfig{WebURL: "http://127.0.0.1:1"}).PollForToken(ctx, "dev", 5)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}
