package cli

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/exec"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/RaiVaibhav/IGitt/pkg/auth"
	"github.com/RaiVaibhav/IGitt/pkg/hosting"
	"github.com/RaiVaibhav/IGitt/pkg/integrations/github"
	"github.com/RaiVaibhav/IGitt/pkg/integrations/gitlab"
	"github.com/RaiVaibhav/IGitt/pkg/session"
)

// authCommand creates the auth command with subcommands.
func (c *CLI) authCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Log in to a hosting provider",
		Long: `Log in to GitHub or GitLab and keep the token for later commands.

GitHub uses the device flow, so no browser callback is needed. GitLab takes
a personal access token with --token. Sessions are stored per provider in
~/.config/igitt/sessions/. Tokens from the config file or the GITHUB_TOKEN
and GITLAB_TOKEN variables take precedence over stored sessions.`,
	}

	cmd.AddCommand(c.authLoginCommand())
	cmd.AddCommand(c.authLogoutCommand())
	cmd.AddCommand(c.authWhoamiCommand())

	return cmd
}

// authLoginCommand creates the login subcommand.
func (c *CLI) authLoginCommand() *cobra.Command {
	var token string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate and store the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			provider, err := parseProvider(c.flags.provider)
			if err != nil {
				return err
			}
			if existing, _ := loadSession(ctx, provider); existing != nil {
				printInfo("Already logged in to %s as @%s", provider, existing.User.Login)
				printDetail("Run 'igitt auth logout -p %s' first to re-authenticate", provider)
				return nil
			}

			switch {
			case token != "":
				_, err = c.saveLogin(ctx, provider, token)
			case provider == hosting.GitLab:
				return fmt.Errorf("gitlab login needs a personal access token: igitt auth login -p gitlab --token <token>")
			default:
				_, err = c.runGitHubLogin(ctx)
			}
			return err
		},
	}
	cmd.Flags().StringVar(&token, "token", "", "store this access token instead of running the device flow")
	return cmd
}

// authLogoutCommand creates the logout subcommand.
func (c *CLI) authLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			provider, err := parseProvider(c.flags.provider)
			if err != nil {
				return err
			}
			store, err := session.NewCLIStore(provider)
			if err != nil {
				return fmt.Errorf("open session store: %w", err)
			}
			if err := store.DeleteSession(cmd.Context()); err != nil {
				return fmt.Errorf("delete session: %w", err)
			}
			printSuccess("Logged out of %s", provider)
			return nil
		},
	}
}

// authWhoamiCommand creates the whoami subcommand.
func (c *CLI) authWhoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the authenticated user",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			provider, err := parseProvider(c.flags.provider)
			if err != nil {
				return err
			}
			h, err := c.newHoster(ctx, provider)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
			defer cancel()

			spinner := newSpinnerWithContext(ctx, "Verifying session...")
			spinner.Start()
			v, err := loadUserView(ctx, h.User(""))
			if err != nil {
				spinner.StopWithError("Not authenticated")
				return fmt.Errorf("verify session: %w", err)
			}
			spinner.Stop()

			sess, _ := loadSession(ctx, provider)
			return c.emit(v, func(w io.Writer) {
				fprintKeyValue(w, "Provider", string(provider))
				fprintKeyValue(w, "Username", "@"+v.Username)
				fprintKeyValue(w, "URL", StyleLink.Render(v.WebURL))
				if sess != nil {
					fprintKeyValue(w, "Logged in", sess.CreatedAt.Format("Jan 2, 2006"))
					fprintKeyValue(w, "Expires", sess.ExpiresAt.Format("Jan 2, 2006"))
				}
			})
		},
	}
}

// =============================================================================
// Session Management
// =============================================================================

// saveLogin verifies token by loading the authenticated user and stores
// the session.
func (c *CLI) saveLogin(ctx context.Context, provider hosting.Provider, token string) (*session.Session, error) {
	var tok auth.Token = auth.NewStaticToken(token)
	if provider == hosting.GitLab {
		tok = gitlab.NewPrivateToken(token)
	}
	h, err := c.hosterWithToken(ctx, provider, tok)
	if err != nil {
		return nil, err
	}
	user, err := loadUserView(ctx, h.User(""))
	if err != nil {
		return nil, fmt.Errorf("fetch user: %w", err)
	}

	store, err := session.NewCLIStore(provider)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}
	sess, err := session.New(provider, token, session.Account{ID: user.ID, Login: user.Username}, session.DefaultTTL)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	if err := store.SaveSession(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	printSuccess("Logged in to %s as @%s", provider, user.Username)
	return sess, nil
}

// =============================================================================
// Device Flow Login
// =============================================================================

func (c *CLI) runGitHubLogin(ctx context.Context) (*session.Session, error) {
	clientID := os.Getenv("GITHUB_CLIENT_ID")
	if clientID == "" {
		clientID = github.DefaultClientID
	}

	oauthClient := github.NewOAuthClient(github.OAuthConfig{ClientID: clientID})

	loginCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	deviceResp, err := oauthClient.RequestDeviceCode(loginCtx)
	if err != nil {
		return nil, fmt.Errorf("request device code: %w", err)
	}

	printNewline()
	printInfo("%s", StyleTitle.Render("GitHub Device Authorization"))
	printNewline()
	printKeyValue("Code", StyleNumber.Render(deviceResp.UserCode))
	printKeyValue("URL", StyleLink.Render(deviceResp.VerificationURI))
	printNewline()

	if err := openBrowser(deviceResp.VerificationURI); err != nil {
		printDetail("Copy the URL above and paste it in your browser")
	} else {
		printDetail("Opening browser...")
	}
	printInline("Waiting for authorization...")

	token, err := oauthClient.PollForToken(loginCtx, deviceResp.DeviceCode, deviceResp.Interval)
	printNewline()
	if err != nil {
		return nil, fmt.Errorf("authorization failed: %w", err)
	}

	return c.saveLogin(loginCtx, hosting.GitHub, token.AccessToken)
}

func openBrowser(rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme != "https" && parsed.Scheme != "http" {
		return fmt.Errorf("URL scheme must be http or https, got %q", parsed.Scheme)
	}

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", rawURL)
	case "linux":
		cmd = exec.Command("xdg-open", rawURL)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", rawURL)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
	return cmd.Start()
}
