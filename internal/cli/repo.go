package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/RaiVaibhav/IGitt/pkg/hosting"
	"github.com/RaiVaibhav/IGitt/pkg/webhook"
)

// repoCommand creates the repo command with subcommands.
func (c *CLI) repoCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repo",
		Short: "Inspect and manage a repository",
		Long: `Inspect and manage a repository.

Repositories are named "owner/name" on GitHub and "namespace/name" on GitLab,
where the namespace may contain subgroups. Numeric IDs are accepted too, as
are web and clone URLs of github.com and gitlab.com, which pick the provider.`,
	}

	cmd.AddCommand(c.repoShowCommand())
	cmd.AddCommand(c.repoLabelsCommand())
	cmd.AddCommand(c.repoLabelCommand())
	cmd.AddCommand(c.repoHooksCommand())
	cmd.AddCommand(c.repoHookCommand())
	cmd.AddCommand(c.repoCommitsCommand())
	cmd.AddCommand(c.repoForkCommand())
	cmd.AddCommand(c.repoDeleteCommand())

	return cmd
}

// repoShowCommand creates the "repo show" subcommand.
func (c *CLI) repoShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <repo>",
		Short: "Show a repository summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			h, name, err := c.repoHoster(ctx, args[0])
			if err != nil {
				return err
			}

			var v repoView
			err = withSpinner(ctx, "Loading repository...", func() (err error) {
				v, err = loadRepoView(ctx, h, name)
				return err
			})
			if err != nil {
				return err
			}

			return c.emit(v, func(w io.Writer) {
				fprintKeyValue(w, "Repository", StyleTitle.Render(v.FullName))
				fprintKeyValue(w, "Provider", v.Provider)
				fprintKeyValue(w, "ID", fmt.Sprint(v.ID))
				fprintKeyValue(w, "URL", StyleLink.Render(v.WebURL))
				fprintKeyValue(w, "Issues", StyleNumber.Render(fmt.Sprint(v.OpenIssues))+" open")
				fprintKeyValue(w, "Merge reqs", StyleNumber.Render(fmt.Sprint(v.OpenMergeRequests))+" open")
				fprintKeyValue(w, "Labels", strings.Join(v.Labels, ", "))
				if len(v.Hooks) > 0 {
					fprintKeyValue(w, "Hooks", strings.Join(v.Hooks, ", "))
				}
			})
		},
	}
}

// loadRepoView loads the summary sections concurrently. Entities are not
// safe for concurrent use, so every section resolves its own Repository.
func loadRepoView(ctx context.Context, h hosting.Hoster, name string) (repoView, error) {
	v := repoView{Provider: string(h.Provider())}
	logger := loggerFromContext(ctx)

	g, ctx := errgroup.WithContext(ctx)
	section := func(load func(repo hosting.Repository) error) {
		g.Go(func() error {
			repo, err := h.GetRepo(name)
			if err != nil {
				return err
			}
			return load(repo)
		})
	}

	section(func(repo hosting.Repository) error {
		var err error
		if v.FullName, err = repo.FullName(ctx); err != nil {
			return err
		}
		if v.ID, err = repo.Identifier(ctx); err != nil {
			return err
		}
		v.WebURL, err = repo.WebURL(ctx)
		return err
	})
	section(func(repo hosting.Repository) error {
		labels, err := repo.Labels(ctx)
		v.Labels = labels
		return err
	})
	section(func(repo hosting.Repository) error {
		hooks, err := repo.Hooks(ctx)
		if err != nil {
			// Listing hooks needs admin rights.
			logger.Debug("skipping hooks", "err", err)
			return nil
		}
		v.Hooks = hooks
		return nil
	})
	section(func(repo hosting.Repository) error {
		issues, err := repo.Issues(ctx)
		v.OpenIssues = len(issues)
		return err
	})
	section(func(repo hosting.Repository) error {
		mrs, err := repo.MergeRequests(ctx)
		v.OpenMergeRequests = len(mrs)
		return err
	})

	return v, g.Wait()
}

// repoLabelsCommand creates the "repo labels" subcommand.
func (c *CLI) repoLabelsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "labels <repo>",
		Short: "List the labels of a repository",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, repo, err := c.repository(ctx, args[0])
			if err != nil {
				return err
			}
			labels, err := repo.Labels(ctx)
			if err != nil {
				return err
			}
			return c.emit(labels, func(w io.Writer) {
				for _, l := range labels {
					fprintItem(w, l)
				}
			})
		},
	}
}

// repoLabelCommand creates the "repo label" command with add and rm.
func (c *CLI) repoLabelCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "label",
		Short: "Create or delete a label",
	}

	var color string
	add := &cobra.Command{
		Use:   "add <repo> <name>",
		Short: "Create a label",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, repo, err := c.repository(ctx, args[0])
			if err != nil {
				return err
			}
			if err := repo.CreateLabel(ctx, args[1], color); err != nil {
				return err
			}
			printSuccess("Created label %s", StyleHighlight.Render(args[1]))
			return nil
		},
	}
	add.Flags().StringVar(&color, "color", "ededed", "label color as hex, with or without #")

	rm := &cobra.Command{
		Use:   "rm <repo> <name>",
		Short: "Delete a label",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, repo, err := c.repository(ctx, args[0])
			if err != nil {
				return err
			}
			if err := repo.DeleteLabel(ctx, args[1]); err != nil {
				return err
			}
			printSuccess("Deleted label %s", StyleHighlight.Render(args[1]))
			return nil
		},
	}

	cmd.AddCommand(add, rm)
	return cmd
}

// repoHooksCommand creates the "repo hooks" subcommand.
func (c *CLI) repoHooksCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "hooks <repo>",
		Short: "List the webhook URLs of a repository",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, repo, err := c.repository(ctx, args[0])
			if err != nil {
				return err
			}
			hooks, err := repo.Hooks(ctx)
			if err != nil {
				return err
			}
			return c.emit(hooks, func(w io.Writer) {
				for _, h := range hooks {
					fprintItem(w, h)
				}
			})
		},
	}
}

// repoHookCommand creates the "repo hook" command with add and rm.
func (c *CLI) repoHookCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hook",
		Short: "Register or remove a webhook",
	}

	var (
		secret         string
		generateSecret bool
		events         []string
	)
	add := &cobra.Command{
		Use:   "add <repo> <url>",
		Short: "Register a webhook (no-op if the URL is already registered)",
		Long: `Register a webhook for the given URL.

Without --event the hook subscribes to every event. Known events: ` + eventList() + `.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if generateSecret {
				if secret != "" {
					return fmt.Errorf("--secret and --generate-secret are mutually exclusive")
				}
				secret = webhook.GenerateSecret()
			}
			parsed := make([]hosting.WebhookEvent, 0, len(events))
			for _, e := range events {
				ev, err := hosting.ParseWebhookEvent(e)
				if err != nil {
					return err
				}
				parsed = append(parsed, ev)
			}

			_, repo, err := c.repository(ctx, args[0])
			if err != nil {
				return err
			}
			if err := repo.RegisterHook(ctx, args[1], secret, parsed...); err != nil {
				return err
			}
			printSuccess("Registered %s", StyleLink.Render(args[1]))
			if generateSecret {
				printKeyValue("Secret", secret)
				printDetail("Pass it to 'igitt webhook serve' as the %s secret", c.flags.provider)
			}
			return nil
		},
	}
	add.Flags().StringVar(&secret, "secret", "", "shared secret used to sign deliveries")
	add.Flags().BoolVar(&generateSecret, "generate-secret", false, "generate a random secret and print it")
	add.Flags().StringSliceVar(&events, "event", nil, "event to subscribe to (repeatable)")

	rm := &cobra.Command{
		Use:   "rm <repo> <url>",
		Short: "Remove every webhook with the given URL",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, repo, err := c.repository(ctx, args[0])
			if err != nil {
				return err
			}
			if err := repo.DeleteHook(ctx, args[1]); err != nil {
				return err
			}
			printSuccess("Removed %s", StyleLink.Render(args[1]))
			return nil
		},
	}

	cmd.AddCommand(add, rm)
	return cmd
}

func eventList() string {
	var names []string
	for _, e := range hosting.AllWebhookEvents() {
		names = append(names, e.String())
	}
	return strings.Join(names, ", ")
}

// repoCommitsCommand creates the "repo commits" subcommand.
func (c *CLI) repoCommitsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "commits <repo>",
		Short: "List the commits on the default branch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, repo, err := c.repository(ctx, args[0])
			if err != nil {
				return err
			}
			commits, err := repo.Commits(ctx)
			if err != nil {
				return err
			}
			views := make([]commitView, 0, len(commits))
			for _, cm := range commits {
				sha, err := cm.SHA(ctx)
				if err != nil {
					return err
				}
				views = append(views, commitView{SHA: sha, URL: cm.URL()})
			}
			return c.emit(views, func(w io.Writer) {
				if len(views) == 0 {
					printInfo("Repository has no commits")
				}
				for _, v := range views {
					fprintItem(w, v.SHA)
				}
			})
		},
	}
}

// repoForkCommand creates the "repo fork" subcommand.
func (c *CLI) repoForkCommand() *cobra.Command {
	var opts hosting.ForkOptions
	cmd := &cobra.Command{
		Use:   "fork <repo>",
		Short: "Fork a repository",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, repo, err := c.repository(ctx, args[0])
			if err != nil {
				return err
			}
			fork, err := repo.CreateFork(ctx, opts)
			if err != nil {
				return err
			}
			name, err := fork.FullName(ctx)
			if err != nil {
				return err
			}
			printSuccess("Forked to %s", StyleHighlight.Render(name))
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.Organization, "org", "", "GitHub organization to fork into")
	cmd.Flags().StringVar(&opts.Namespace, "namespace", "", "GitLab namespace to fork into")
	return cmd
}

// repoDeleteCommand creates the "repo delete" subcommand.
func (c *CLI) repoDeleteCommand() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <repo>",
		Short: "Delete a repository",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				printWarning("Deleting %s cannot be undone", args[0])
				printNextStep("Confirm with", fmt.Sprintf("igitt repo delete %s --yes", args[0]))
				return nil
			}
			ctx := cmd.Context()
			_, repo, err := c.repository(ctx, args[0])
			if err != nil {
				return err
			}
			if err := repo.Delete(ctx); err != nil {
				return err
			}
			printSuccess("Deleted %s", args[0])
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm deletion")
	return cmd
}
