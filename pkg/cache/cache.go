// Package cache provides key/value storage backends for HTTP validator data.
//
// # Overview
//
// The access layer in [integrations] remembers, per request URL, the last
// response body together with its ETag and Last-Modified validators. This
// package supplies the stores those entries live in:
//
//   - [MemoryCache]: process-wide map, the default. Entries are never evicted.
//   - [FileCache]: JSON files under a directory, used by the CLI so that
//     validators survive between invocations.
//   - [RedisCache]: shared store for several processes using the same tokens.
//   - [NullCache]: stores nothing; disables conditional requests.
//
// [Scoped] prefixes every key so one backend can serve several providers or
// credentials without collisions.
//
// All backends store opaque bytes. Serialization of entries is the concern
// of [httputil.ResponseCache].
//
// [integrations]: github.com/RaiVaibhav/IGitt/pkg/integrations
// [httputil.ResponseCache]: github.com/RaiVaibhav/IGitt/pkg/httputil.ResponseCache
package cache

import (
	"context"
	"time"
)

// Cache is the storage interface shared by all backends.
//
// Get returns (nil, false, nil) on a miss. A ttl of zero passed to Set means
// the entry does not expire.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
