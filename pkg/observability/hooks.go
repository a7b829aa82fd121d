// Package observability lets the application watch what the hosting
// adapters do without the adapters importing a metrics or tracing backend.
//
// Libraries report events through the getters:
//
//	observability.HTTP().OnRequest(ctx, method, host, path)
//
// and main installs receivers once at startup:
//
//	observability.NewLogHooks(logger).Install()
//
// Until something is installed every getter returns a no-op receiver.
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// CacheHooks receives events from the conditional-request cache.
// keyType names the cache namespace, for example "github" or "gitlab".
type CacheHooks interface {
	// OnCacheHit records a 304 answered from a stored body.
	OnCacheHit(ctx context.Context, keyType string)
	// OnCacheMiss records a GET sent without validators.
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives events from the API clients.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, host, path string)
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)
	// OnError records a transport failure. Non-2xx responses go to
	// OnResponse.
	OnError(ctx context.Context, method, host, path string, err error)
	// OnRateLimit reports the quota headers of a response.
	OnRateLimit(ctx context.Context, host string, remaining int, reset time.Time)
}

// WebhookHooks receives events from the webhook receiver.
type WebhookHooks interface {
	// OnDelivery records a delivery once it has been verified and parsed.
	// action is empty when err is non-nil.
	OnDelivery(ctx context.Context, provider, event, deliveryID, action string, err error)
}

type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}
func (NoopHTTPHooks) OnRateLimit(context.Context, string, int, time.Time)                    {}

type NoopWebhookHooks struct{}

func (NoopWebhookHooks) OnDelivery(context.Context, string, string, string, string, error) {}

// registry holds one installed receiver. The box type keeps atomic.Value
// happy when receivers of different concrete types are stored.
type registry[T any] struct {
	v    atomic.Value
	noop T
}

type box[T any] struct{ h T }

func (r *registry[T]) get() T {
	if b, ok := r.v.Load().(box[T]); ok {
		return b.h
	}
	return r.noop
}

func (r *registry[T]) set(h T) { r.v.Store(box[T]{h}) }

var (
	cacheHooks   = &registry[CacheHooks]{noop: NoopCacheHooks{}}
	httpHooks    = &registry[HTTPHooks]{noop: NoopHTTPHooks{}}
	webhookHooks = &registry[WebhookHooks]{noop: NoopWebhookHooks{}}
)

// SetCacheHooks installs h. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		cacheHooks.set(h)
	}
}

// SetHTTPHooks installs h. A nil h is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h != nil {
		httpHooks.set(h)
	}
}

// SetWebhookHooks installs h. A nil h is ignored.
func SetWebhookHooks(h WebhookHooks) {
	if h != nil {
		webhookHooks.set(h)
	}
}

func Cache() CacheHooks     { return cacheHooks.get() }
func HTTP() HTTPHooks       { return httpHooks.get() }
func Webhook() WebhookHooks { return webhookHooks.get() }

// Reset puts the no-op receivers back. Tests call it in t.Cleanup.
func Reset() {
	cacheHooks.set(cacheHooks.noop)
	httpHooks.set(httpHooks.noop)
	webhookHooks.set(webhookHooks.noop)
}
