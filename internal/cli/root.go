package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/RaiVaibhav/IGitt/internal/config"
	"github.com/RaiVaibhav/IGitt/pkg/buildinfo"
	"github.com/RaiVaibhav/IGitt/pkg/hosting"
	"github.com/RaiVaibhav/IGitt/pkg/observability"
)

// RootCommand creates the root cobra command with all subcommands registered.
//
// Before any subcommand runs, the configuration file is loaded, the log
// level is set from --verbose, the logger is attached to the command
// context and HTTP and cache events are routed into it.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "igitt talks to GitHub and GitLab through one interface",
		Long: `igitt manages repositories, issues, merge requests, commits and webhooks
on GitHub and GitLab with the same commands, whichever provider hosts them.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := LogInfo
			if c.flags.verbose {
				level = LogDebug
			}
			c.SetLogLevel(level)
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			observability.NewLogHooks(c.Logger).Install()

			switch c.flags.output {
			case outputText, outputJSON, outputYAML:
			default:
				return fmt.Errorf("unknown output format %q (want text, json or yaml)", c.flags.output)
			}
			if _, err := parseProvider(c.flags.provider); err != nil {
				return err
			}

			cfg, err := config.Load(c.flags.configPath)
			if err != nil {
				return err
			}
			c.config = cfg
			if cfg.Path != "" {
				c.Logger.Debug("loaded config", "path", cfg.Path)
			}
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.BoolVarP(&c.flags.verbose, "verbose", "v", false, "enable verbose logging")
	flags.StringVarP(&c.flags.provider, "provider", "p", string(hosting.GitHub), "hosting provider (github, gitlab)")
	flags.StringVarP(&c.flags.output, "output", "o", outputText, "output format (text, json, yaml)")
	flags.BoolVar(&c.flags.noCache, "no-cache", false, "do not reuse cached responses")
	flags.StringVar(&c.flags.configPath, "config", "", "config file (default $IGITT_CONFIG or ~/.config/igitt/config.toml)")

	root.AddCommand(c.repoCommand())
	root.AddCommand(c.issueCommand())
	root.AddCommand(c.mergeRequestCommand())
	root.AddCommand(c.searchCommand())
	root.AddCommand(c.commitCommand())
	root.AddCommand(c.contentCommand())
	root.AddCommand(c.orgCommand())
	root.AddCommand(c.userCommand())
	root.AddCommand(c.reposCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.webhookCommand())
	root.AddCommand(c.authCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func parseProvider(s string) (hosting.Provider, error) {
	switch p := hosting.Provider(s); p {
	case hosting.GitHub, hosting.GitLab:
		return p, nil
	}
	return "", fmt.Errorf("unknown provider %q (want github or gitlab)", s)
}
