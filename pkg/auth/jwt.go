package auth

import (
	"context"
	"crypto/rsa"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const (
	// jwtLifetime is the longest lifetime GitHub accepts for an App JWT.
	jwtLifetime = 10 * time.Minute

	// jwtBackdate is subtracted from iat to tolerate clock drift.
	jwtBackdate = 60 * time.Second
)

// JSONWebToken authenticates as a GitHub App. It is signed with the App's
// private key and re-signed on demand once expired.
//
// JSONWebToken is safe for concurrent use. Two goroutines racing to refresh
// both produce valid signatures; the later one wins.
type JSONWebToken struct {
	appID int64
	key   *rsa.PrivateKey
	now   func() time.Time

	mu        sync.Mutex
	value     string
	expiresAt time.Time
}

// NewJSONWebToken parses a PEM encoded RSA private key (PKCS1 or PKCS8) and
// signs the first JWT.
func NewJSONWebToken(appID int64, privateKeyPEM []byte) (*JSONWebToken, error) {
	key, err := jwt.ParseRSAPrivateKeyFromPEM(privateKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("parse app private key: %w", err)
	}
	return newJSONWebToken(appID, key, time.Now)
}

func newJSONWebToken(appID int64, key *rsa.PrivateKey, now func() time.Time) (*JSONWebToken, error) {
	t := &JSONWebToken{appID: appID, key: key, now: now}
	if err := t.Refresh(context.Background()); err != nil {
		return nil, err
	}
	return t, nil
}

// AppID returns the GitHub App ID used as issuer.
func (t *JSONWebToken) AppID() int64 { return t.appID }

// Expired reports whether the current signature is past its exp claim.
func (t *JSONWebToken) Expired() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return !t.now().Before(t.expiresAt)
}

// Refresh signs a new JWT with iat backdated by a minute and a ten minute
// expiry.
func (t *JSONWebToken) Refresh(context.Context) error {
	now := t.now()
	claims := jwt.RegisteredClaims{
		Issuer:    strconv.FormatInt(t.appID, 10),
		IssuedAt:  jwt.NewNumericDate(now.Add(-jwtBackdate)),
		ExpiresAt: jwt.NewNumericDate(now.Add(jwtLifetime)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(t.key)
	if err != nil {
		return fmt.Errorf("sign app jwt: %w", err)
	}

	t.mu.Lock()
	t.value = signed
	t.expiresAt = claims.ExpiresAt.Time
	t.mu.Unlock()
	return nil
}

// Value returns a valid signed JWT, re-signing if necessary.
func (t *JSONWebToken) Value(ctx context.Context) (string, error) {
	if err := ensureFresh(ctx, t); err != nil {
		return "", err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.value, nil
}

// Authorize sets a Bearer Authorization header with the JWT.
func (t *JSONWebToken) Authorize(ctx context.Context, req *http.Request) error {
	v, err := t.Value(ctx)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+v)
	return nil
}

var (
	_ Token   = (*JSONWebToken)(nil)
	_ Expirer = (*JSONWebToken)(nil)
)
