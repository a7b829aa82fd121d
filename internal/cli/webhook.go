package cli

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/RaiVaibhav/IGitt/pkg/hosting"
	"github.com/RaiVaibhav/IGitt/pkg/webhook"
)

// webhookCommand creates the webhook command.
func (c *CLI) webhookCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "webhook",
		Short: "Receive webhook deliveries",
	}
	cmd.AddCommand(c.webhookServeCommand())
	return cmd
}

// webhookServeCommand creates the "webhook serve" subcommand.
func (c *CLI) webhookServeCommand() *cobra.Command {
	var addr, githubSecret, gitlabSecret string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve POST /github and POST /gitlab and log every delivery",
		Long: `Serve webhook deliveries from GitHub and GitLab.

Deliveries are verified with the configured secrets, translated into actions
and the entities they concern, and logged. Register the endpoint with
'igitt repo hook add <repo> https://<host>/<provider> --generate-secret'.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg := c.config.Webhook
			if addr == "" {
				addr = cfg.Addr
			}
			if githubSecret == "" {
				githubSecret = cfg.GitHubSecret
			}
			if gitlabSecret == "" {
				gitlabSecret = cfg.GitLabSecret
			}

			gh, err := c.newHoster(ctx, hosting.GitHub)
			if err != nil {
				return err
			}
			gl, err := c.newHoster(ctx, hosting.GitLab)
			if err != nil {
				return err
			}
			if githubSecret == "" {
				logger.Warn("no github secret, accepting unsigned deliveries")
			}
			if gitlabSecret == "" {
				logger.Warn("no gitlab secret, accepting deliveries without token")
			}

			router := webhook.NewRouter(webhook.Config{
				GitHub:       gh,
				GitHubSecret: githubSecret,
				GitLab:       gl,
				GitLabSecret: gitlabSecret,
				Handler:      deliveryLogger(logger),
				Logger:       logger,
			})

			printSuccess("Listening on %s", StyleHighlight.Render(addr))
			printDetail("POST /github  POST /gitlab  GET /healthz")
			return webhook.Serve(ctx, addr, router)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().StringVar(&githubSecret, "github-secret", "", "GitHub webhook secret")
	cmd.Flags().StringVar(&gitlabSecret, "gitlab-secret", "", "GitLab webhook token")
	return cmd
}

// deliveryLogger returns a handler that logs the action of a delivery and
// the URLs of its entities.
func deliveryLogger(logger *log.Logger) webhook.Handler {
	return webhook.HandlerFunc(func(_ context.Context, provider hosting.Provider, d hosting.Delivery) error {
		urls := make([]string, 0, len(d.Objects)+len(d.Repositories))
		for _, o := range d.Objects {
			urls = append(urls, o.URL())
		}
		for _, r := range d.Repositories {
			urls = append(urls, r.URL())
		}
		logger.Info("delivery", "provider", provider, "action", d.Action, "objects", strings.Join(urls, " "))
		return nil
	})
}
