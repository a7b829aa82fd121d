// Package session persists the credentials the igitt CLI obtains through
// "igitt auth login".
//
// A [Session] holds one access token together with the account it belongs
// to and the hosting provider that issued it. Sessions expire; stores drop
// expired sessions on read.
//
// # Usage
//
//	store, err := session.NewCLIStore(hosting.GitHub)
//	if err != nil {
//	    return err
//	}
//	sess, err := session.New(hosting.GitHub, token, session.Account{ID: 1, Login: "octocat"}, session.DefaultTTL)
//	if err != nil {
//	    return err
//	}
//	err = store.SaveSession(ctx, sess)
//
// The file store keeps one JSON file per session under
// ~/.config/igitt/sessions/.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/RaiVaibhav/IGitt/pkg/hosting"
)

// Account identifies the user a token was issued to.
type Account struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
}

// Session stores user session data.
type Session struct {
	ID          string           `json:"id"`
	Provider    hosting.Provider `json:"provider"`
	AccessToken string           `json:"access_token"`
	User        Account          `json:"user"`
	ExpiresAt   time.Time        `json:"expires_at"`
	CreatedAt   time.Time        `json:"created_at"`
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// UserID returns "{provider}:{id}", a key unique across providers.
func (s *Session) UserID() string {
	if s == nil || s.User.ID == 0 {
		return ""
	}
	return fmt.Sprintf("%s:%d", s.Provider, s.User.ID)
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID.
	// Returns nil, nil if the session doesn't exist or has expired.
	Get(ctx context.Context, sessionID string) (*Session, error)

	// Set stores a session.
	Set(ctx context.Context, session *Session) error

	// Delete removes a session.
	Delete(ctx context.Context, sessionID string) error

	// Cleanup removes expired sessions and returns how many it removed.
	Cleanup(ctx context.Context) (int, error)
}

// DefaultTTL is the lifetime of a CLI session.
const DefaultTTL = 30 * 24 * time.Hour

// GenerateID returns a random (version 4) UUID.
func GenerateID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}
	return id.String(), nil
}

// New creates a session for the given provider, token and account.
func New(provider hosting.Provider, accessToken string, user Account, ttl time.Duration) (*Session, error) {
	id, err := GenerateID()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return &Session{
		ID:          id,
		Provider:    provider,
		AccessToken: accessToken,
		User:        user,
		ExpiresAt:   now.Add(ttl),
		CreatedAt:   now,
	}, nil
}
