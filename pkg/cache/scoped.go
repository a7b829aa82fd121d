package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// scoped prefixes every key before delegating to an inner cache.
type scoped struct {
	inner  Cache
	prefix string
}

// Scoped wraps a cache so that all keys are prefixed.
// This is used to keep entries made with different credentials apart, since
// a private repository may answer differently for each token.
//
// Example usage:
//
//	shared := cache.NewMemoryCache()
//	gh := cache.Scoped(shared, "github:"+cache.Fingerprint(token)+":")
//	gl := cache.Scoped(shared, "gitlab:")
//
// Closing a scoped cache does not close the inner cache.
func Scoped(inner Cache, prefix string) Cache {
	if inner == nil {
		inner = NewNullCache()
	}
	if prefix == "" {
		return inner
	}
	return &scoped{inner: inner, prefix: prefix}
}

func (s *scoped) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return s.inner.Get(ctx, s.prefix+key)
}

func (s *scoped) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return s.inner.Set(ctx, s.prefix+key, data, ttl)
}

func (s *scoped) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, s.prefix+key)
}

func (s *scoped) Close() error { return nil }

// Hash returns the hex SHA-256 digest of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Fingerprint identifies a secret in a key prefix without storing it.
func Fingerprint(secret string) string {
	return Hash([]byte(secret))[:12]
}

// NullCache never stores anything, so every GET is unconditional.
type NullCache struct{}

func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error { return nil }
func (NullCache) Close() error { return nil }
