package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

// lockedBuffer is a bytes.Buffer safe for the spinner goroutine.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinnerDrawsMessage(t *testing.T) {
	var out lockedBuffer
	s := newSpinner("Fetching repositories...")
	s.w = &out
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.SetMessage("Reading 3 repositories...")
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	got := out.String()
	if !strings.Contains(got, "Fetching repositories...") || !strings.Contains(got, "Reading 3 repositories...") {
		t.Errorf("spinner output = %q", got)
	}
	if s.Cancelled() {
		t.Error("Stop should not count as cancellation")
	}
}

func TestSpinnerWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := newSpinnerWithContext(ctx, "Loading repository...")
	s.w = &lockedBuffer{}
	s.Start()

	cancel()
	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("spinner should report cancellation of its context")
	}
	s.Stop()
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinner("Verifying session...")
	s.w = &lockedBuffer{}
	s.Start()
	s.Start()
	s.Stop()
	s.Stop()
}

func TestSpinnerStopWithoutStart(t *testing.T) {
	done := make(chan struct{})
	go func() {
		newSpinner("never started").Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop on an unstarted spinner blocked")
	}
}

func TestWithSpinner(t *testing.T) {
	want := errors.New("boom")
	if err := withSpinner(context.Background(), "Working...", func() error { return want }); !errors.Is(err, want) {
		t.Errorf("withSpinner() error = %v, want %v", err, want)
	}
	called := false
	_ = withSpinner(context.Background(), "Working...", func() error { called = true; return nil })
	if !called {
		t.Error("withSpinner did not call fn")
	}
}
