// Package webhook receives GitHub and GitLab webhook deliveries over HTTP,
// authenticates them and hands the translated [hosting.Delivery] to a
// [Handler].
//
// Routes:
//
//	POST /github   X-Hub-Signature-256 checked against the GitHub secret
//	POST /gitlab   X-Gitlab-Token compared with the GitLab secret
//	GET  /healthz
//
// A provider route is mounted only if a hoster for it is configured.
// Events the adapters cannot translate are acknowledged with 202 so the
// provider does not retry them.
package webhook

import (
	"context"
	"crypto/subtle"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	gh "github.com/google/go-github/v71/github"
	"github.com/google/uuid"

	igerr "github.com/RaiVaibhav/IGitt/pkg/errors"
	"github.com/RaiVaibhav/IGitt/pkg/hosting"
	"github.com/RaiVaibhav/IGitt/pkg/observability"
)

// DefaultMaxBodyBytes matches the largest payload GitHub sends.
const DefaultMaxBodyBytes = 25 << 20

const (
	gitlabTokenHeader    = "X-Gitlab-Token"
	gitlabEventHeader    = "X-Gitlab-Event"
	gitlabDeliveryHeader = "X-Gitlab-Event-UUID"
)

// Handler processes a translated delivery. An error answers the provider
// with 500, which makes it retry.
type Handler interface {
	HandleDelivery(ctx context.Context, provider hosting.Provider, d hosting.Delivery) error
}

// HandlerFunc adapts a function to [Handler].
type HandlerFunc func(ctx context.Context, provider hosting.Provider, d hosting.Delivery) error

func (f HandlerFunc) HandleDelivery(ctx context.Context, provider hosting.Provider, d hosting.Delivery) error {
	return f(ctx, provider, d)
}

// Config configures [NewRouter].
type Config struct {
	GitHub       hosting.Hoster
	GitHubSecret string

	GitLab       hosting.Hoster
	GitLabSecret string

	Handler Handler

	// MaxBodyBytes limits payload size. Defaults to DefaultMaxBodyBytes.
	MaxBodyBytes int64

	// Logger receives one line per delivery. Nil discards.
	Logger *log.Logger
}

type receiver struct {
	cfg    Config
	logger *log.Logger
}

// NewRouter returns the webhook HTTP handler.
func NewRouter(cfg Config) http.Handler {
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.Handler == nil {
		cfg.Handler = HandlerFunc(func(context.Context, hosting.Provider, hosting.Delivery) error { return nil })
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	rc := &receiver{cfg: cfg, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	if cfg.GitHub != nil {
		r.Post("/github", rc.github)
	}
	if cfg.GitLab != nil {
		r.Post("/gitlab", rc.gitlab)
	}
	return r
}

func (rc *receiver) github(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, rc.cfg.MaxBodyBytes)
	event := gh.WebHookType(r)
	id := deliveryID(gh.DeliveryID(r))

	payload, err := gh.ValidatePayload(r, []byte(rc.cfg.GitHubSecret))
	if err != nil {
		rc.reject(w, r, hosting.GitHub, event, id, http.StatusUnauthorized, err)
		return
	}
	if event == "ping" {
		w.WriteHeader(http.StatusOK)
		return
	}
	rc.dispatch(w, r, rc.cfg.GitHub, event, id, payload)
}

func (rc *receiver) gitlab(w http.ResponseWriter, r *http.Request) {
	event := r.Header.Get(gitlabEventHeader)
	id := deliveryID(r.Header.Get(gitlabDeliveryHeader))

	if secret := rc.cfg.GitLabSecret; secret != "" {
		token := r.Header.Get(gitlabTokenHeader)
		if subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
			rc.reject(w, r, hosting.GitLab, event, id, http.StatusUnauthorized, errors.New("invalid gitlab token"))
			return
		}
	}
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, rc.cfg.MaxBodyBytes))
	if err != nil {
		rc.reject(w, r, hosting.GitLab, event, id, http.StatusRequestEntityTooLarge, err)
		return
	}
	rc.dispatch(w, r, rc.cfg.GitLab, event, id, payload)
}

func (rc *receiver) dispatch(w http.ResponseWriter, r *http.Request, h hosting.Hoster, event, id string, payload []byte) {
	ctx := r.Context()
	provider := h.Provider()
	start := time.Now()

	d, err := h.HandleWebhook(ctx, event, payload)
	switch {
	case igerr.Is(err, igerr.ErrCodeUnsupported):
		observability.Webhook().OnDelivery(ctx, string(provider), event, id, "", err)
		rc.logger.Debug("webhook ignored", "provider", provider, "event", event, "delivery", id)
		w.WriteHeader(http.StatusAccepted)
		return
	case err != nil:
		rc.reject(w, r, provider, event, id, http.StatusBadRequest, err)
		return
	}

	err = rc.cfg.Handler.HandleDelivery(ctx, provider, d)
	observability.Webhook().OnDelivery(ctx, string(provider), event, id, d.Action.String(), err)
	if err != nil {
		rc.logger.Error("webhook handler failed", "provider", provider, "action", d.Action, "delivery", id, "err", err)
		http.Error(w, "handler failed", http.StatusInternalServerError)
		return
	}
	rc.logger.Info("webhook", "provider", provider, "action", d.Action, "delivery", id, "took", time.Since(start))
	w.WriteHeader(http.StatusNoContent)
}

func (rc *receiver) reject(w http.ResponseWriter, r *http.Request, provider hosting.Provider, event, id string, status int, err error) {
	observability.Webhook().OnDelivery(r.Context(), string(provider), event, id, "", err)
	rc.logger.Warn("webhook rejected", "provider", provider, "event", event, "delivery", id, "status", status, "err", err)
	http.Error(w, http.StatusText(status), status)
}

// deliveryID returns the provider's delivery ID, or a fresh one for logs
// when the provider sent none.
func deliveryID(given string) string {
	if given != "" {
		return given
	}
	return uuid.NewString()
}

// Serve runs the router on addr until ctx is done, then shuts down
// gracefully.
func Serve(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// GenerateSecret returns a random secret suitable for registering a hook.
func GenerateSecret() string {
	return uuid.NewString()
}
