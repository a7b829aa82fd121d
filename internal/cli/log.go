// Package cli implements the igitt command-line interface.
//
// igitt talks to GitHub and GitLab through the provider-neutral entities of
// the hosting package. The same commands work against both providers; the
// --provider flag picks one.
//
// # Commands
//
//   - repo, repos: inspect repositories, labels, hooks, forks
//   - issue, mr: list, create, comment on and close issues and merge requests
//   - commit, content: statuses, patches and file contents
//   - search: date-filtered issue and merge request search
//   - org, user: organization and user details
//   - webhook: receive deliveries and log their actions
//   - auth, cache: credentials and the HTTP response cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, including
// every HTTP request. Loggers are passed through context.Context.
package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns a logger with short timestamps. Debug level adds the
// caller, which helps when following a request through the adapters.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		ReportCaller:    level <= log.DebugLevel,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs how long an operation took.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs a formatted message with the elapsed time, rounded to the
// millisecond, as a structured field.
func (p *progress) done(format string, args ...any) {
	p.logger.Info(fmt.Sprintf(format, args...), "elapsed", time.Since(p.start).Round(time.Millisecond))
}

type loggerKey struct{}

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext falls back to log.Default when ctx carries no logger.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
