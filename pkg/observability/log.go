package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every hook event to a logger at debug level.
// It implements CacheHooks, HTTPHooks and WebhookHooks.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks creates hooks that log to logger. A nil logger uses the
// charmbracelet default logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	if logger == nil {
		logger = log.Default()
	}
	return &LogHooks{logger: logger.WithPrefix("igitt")}
}

// Install registers h for every hook category.
func (h *LogHooks) Install() {
	SetHTTPHooks(h)
	SetCacheHooks(h)
	SetWebhookHooks(h)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("not modified", "cache", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("unconditional request", "cache", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("stored validators", "cache", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("request", "method", method, "host", host, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, host, path string, statusCode int, duration time.Duration) {
	h.logger.Debug("response", "method", method, "host", host, "path", path, "status", statusCode, "took", duration.Round(time.Millisecond))
}

func (h *LogHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Warn("request failed", "method", method, "host", host, "path", path, "err", err)
}

// OnRateLimit warns once the quota is used up.
func (h *LogHooks) OnRateLimit(_ context.Context, host string, remaining int, reset time.Time) {
	if remaining > 0 {
		h.logger.Debug("rate limit", "host", host, "remaining", remaining)
		return
	}
	h.logger.Warn("rate limit exhausted", "host", host, "reset", reset.Format(time.RFC3339))
}

func (h *LogHooks) OnDelivery(_ context.Context, provider, event, deliveryID, action string, err error) {
	if err != nil {
		h.logger.Warn("webhook rejected", "provider", provider, "event", event, "delivery", deliveryID, "err", err)
		return
	}
	h.logger.Info("webhook", "provider", provider, "event", event, "delivery", deliveryID, "action", action)
}

var (
	_ CacheHooks   = (*LogHooks)(nil)
	_ HTTPHooks    = (*LogHooks)(nil)
	_ WebhookHooks = (*LogHooks)(nil)
)
