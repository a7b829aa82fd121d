package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "github")
	c.OnCacheMiss(ctx, "gitlab")
	c.OnCacheSet(ctx, "github", 1024)

	// HTTP hooks
	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "api.github.com", "/repos/a/b")
	h.OnResponse(ctx, "GET", "api.github.com", "/repos/a/b", 200, time.Second)
	h.OnError(ctx, "GET", "api.github.com", "/repos/a/b", nil)
	h.OnRateLimit(ctx, "api.github.com", 10, time.Now())

	// Webhook hooks
	w := NoopWebhookHooks{}
	w.OnDelivery(ctx, "github", "issues", "id", "issue_opened", nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}
	if _, ok := Webhook().(NoopWebhookHooks); !ok {
		t.Error("Webhook() should return NoopWebhookHooks by default")
	}

	// Set custom hooks
	customCache := &testCacheHooks{name: "cache"}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{name: "http"}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("Reset() should restore NoopHTTPHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testHTTPHooks{name: "http"}
	SetHTTPHooks(custom)

	// Setting nil should be ignored
	SetHTTPHooks(nil)

	if HTTP() != custom {
		t.Error("SetHTTPHooks(nil) should be ignored")
	}

	Reset()
}

func TestLogHooks(t *testing.T) {
	defer Reset()

	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	lh := NewLogHooks(logger)
	lh.Install()

	ctx := context.Background()
	HTTP().OnResponse(ctx, "GET", "api.github.com", "/user", 304, 12*time.Millisecond)
	HTTP().OnRateLimit(ctx, "gitlab.com", 0, time.Unix(0, 0).UTC())
	Cache().OnCacheHit(ctx, "github")
	Webhook().OnDelivery(ctx, "gitlab", "Issue Hook", "d-1", "", errors.New("bad token"))

	out := buf.String()
	for _, want := range []string{"status=304", "not modified", "rate limit exhausted", "1970-01-01T00:00:00Z", "webhook rejected", "bad token"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestHooksSwapWhileInUse(t *testing.T) {
	defer Reset()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 1000; i++ {
			HTTP().OnRequest(context.Background(), "GET", "gitlab.com", "/api/v4/projects")
		}
	}()
	for i := 0; i < 100; i++ {
		SetHTTPHooks(&testHTTPHooks{name: "swap"})
		Reset()
	}
	<-done
}

// Test implementations
type testCacheHooks struct {
	NoopCacheHooks
	name string
}
type testHTTPHooks struct {
	NoopHTTPHooks
	name string
}
