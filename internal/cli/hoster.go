package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/RaiVaibhav/IGitt/internal/config"
	"github.com/RaiVaibhav/IGitt/pkg/auth"
	"github.com/RaiVaibhav/IGitt/pkg/buildinfo"
	"github.com/RaiVaibhav/IGitt/pkg/cache"
	"github.com/RaiVaibhav/IGitt/pkg/hosting"
	"github.com/RaiVaibhav/IGitt/pkg/integrations"
	"github.com/RaiVaibhav/IGitt/pkg/integrations/github"
	"github.com/RaiVaibhav/IGitt/pkg/integrations/gitlab"
	"github.com/RaiVaibhav/IGitt/pkg/session"
)

// hoster returns the hoster selected by --provider.
func (c *CLI) hoster(ctx context.Context) (hosting.Hoster, error) {
	provider, err := parseProvider(c.flags.provider)
	if err != nil {
		return nil, err
	}
	return c.newHoster(ctx, provider)
}

// newHoster builds a hoster for provider with credentials from the config
// file, the environment or a stored "auth login" session, in that order.
func (c *CLI) newHoster(ctx context.Context, provider hosting.Provider) (hosting.Hoster, error) {
	token, err := c.token(ctx, provider)
	if err != nil {
		return nil, err
	}
	if token == nil {
		loggerFromContext(ctx).Debug("no credentials, sending anonymous requests", "provider", provider)
	}
	return c.hosterWithToken(ctx, provider, token)
}

func (c *CLI) hosterWithToken(ctx context.Context, provider hosting.Provider, token auth.Token) (hosting.Hoster, error) {
	backend, err := c.newCache(ctx)
	if err != nil {
		return nil, err
	}

	cfg := integrations.Config{
		Token:          token,
		Cache:          cache.Scoped(backend, cacheScope(ctx, token)),
		CacheTTL:       c.config.Cache.TTL.Duration,
		CacheNamespace: string(provider) + ":",
		Headers:        map[string]string{"User-Agent": buildinfo.UserAgent()},
		Logger:         loggerFromContext(ctx),
	}

	switch provider {
	case hosting.GitLab:
		cfg.BaseURL = c.config.GitLab.BaseURL
		client, err := gitlab.NewClient(cfg)
		if err != nil {
			return nil, err
		}
		return gitlab.New(client), nil
	default:
		cfg.BaseURL = c.config.GitHub.BaseURL
		client, err := github.NewClient(cfg)
		if err != nil {
			return nil, err
		}
		return github.New(client), nil
	}
}

// cacheScope keeps cached bodies of different credentials apart: a private
// repository answers differently per token.
func cacheScope(ctx context.Context, token auth.Token) string {
	switch t := token.(type) {
	case nil:
		return "anonymous:"
	case *auth.InstallationToken:
		return fmt.Sprintf("installation-%d:", t.InstallationID())
	}
	value, err := token.Value(ctx)
	if err != nil {
		return "anonymous:"
	}
	return cache.Fingerprint(value) + ":"
}

// token resolves the credential for provider. A nil token without error
// means anonymous access.
func (c *CLI) token(ctx context.Context, provider hosting.Provider) (auth.Token, error) {
	switch provider {
	case hosting.GitLab:
		gl := c.config.GitLab
		if gl.Token != "" {
			if gl.TokenType == config.TokenOAuth {
				return gitlab.NewOAuthToken(gl.Token), nil
			}
			return gitlab.NewPrivateToken(gl.Token), nil
		}
	default:
		gh := c.config.GitHub
		if gh.AppID != 0 {
			return installationToken(gh)
		}
		if gh.Token != "" {
			return auth.NewStaticToken(gh.Token), nil
		}
	}

	sess, err := loadSession(ctx, provider)
	if err != nil || sess == nil {
		return nil, err
	}
	if provider == hosting.GitLab {
		return gitlab.NewPrivateToken(sess.AccessToken), nil
	}
	return auth.NewStaticToken(sess.AccessToken), nil
}

func installationToken(gh config.GitHub) (auth.Token, error) {
	key, err := os.ReadFile(gh.PrivateKeyFile)
	if err != nil {
		return nil, fmt.Errorf("read github app key: %w", err)
	}
	jwt, err := auth.NewJSONWebToken(gh.AppID, key)
	if err != nil {
		return nil, err
	}
	return auth.NewInstallationToken(auth.InstallationConfig{
		JWT:            jwt,
		InstallationID: gh.InstallationID,
		BaseURL:        gh.BaseURL,
	})
}

// repository resolves a repository argument: a full name or numeric ID on
// the selected provider, or a web or clone URL of github.com or gitlab.com,
// which selects the provider itself.
func (c *CLI) repository(ctx context.Context, arg string) (hosting.Hoster, hosting.Repository, error) {
	h, name, err := c.repoHoster(ctx, arg)
	if err != nil {
		return nil, nil, err
	}
	repo, err := h.GetRepo(name)
	if err != nil {
		return nil, nil, err
	}
	return h, repo, nil
}

// repoHoster returns the hoster for a repository argument and the name to
// look up on it.
func (c *CLI) repoHoster(ctx context.Context, arg string) (hosting.Hoster, string, error) {
	provider, err := parseProvider(c.flags.provider)
	if err != nil {
		return nil, "", err
	}
	provider, name := repoArg(provider, arg)
	h, err := c.newHoster(ctx, provider)
	if err != nil {
		return nil, "", err
	}
	return h, name, nil
}

func repoArg(provider hosting.Provider, arg string) (hosting.Provider, string) {
	host, fullName, ok := integrations.SplitRepoURL(arg)
	if !ok {
		return provider, arg
	}
	switch host {
	case "github.com":
		provider = hosting.GitHub
	case "gitlab.com":
		provider = hosting.GitLab
	}
	return provider, fullName
}

func loadSession(ctx context.Context, provider hosting.Provider) (*session.Session, error) {
	store, err := session.NewCLIStore(provider)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}
	return store.GetSession(ctx)
}
