package cli

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/RaiVaibhav/IGitt/pkg/hosting"
)

// Repository listings accepted by "repos --access".
const (
	accessOwned  = "owned"
	accessWrite  = "write"
	accessMaster = "master"
)

// reposCommand creates the repos command.
func (c *CLI) reposCommand() *cobra.Command {
	var (
		access      string
		interactive bool
	)
	cmd := &cobra.Command{
		Use:   "repos",
		Short: "List repositories of the authenticated user",
		Long: `List repositories of the authenticated user.

--access selects the listing: owned repositories, repositories the user can
push to (write), or repositories the user administers (master).

With --interactive a picker opens; the chosen repository is summarized.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			h, err := c.hoster(ctx)
			if err != nil {
				return err
			}

			spinner := newSpinnerWithContext(ctx, "Fetching repositories...")
			spinner.Start()
			repos, err := listRepositories(ctx, h, access)
			var rows []repoRow
			if err == nil {
				spinner.SetMessage(fmt.Sprintf("Reading %d repositories...", len(repos)))
				rows, err = repoRows(ctx, repos)
			}
			spinner.Stop()
			if err != nil {
				return err
			}

			if !interactive {
				return c.emit(rows, func(w io.Writer) {
					for _, r := range rows {
						fprintItem(w, r.FullName)
					}
				})
			}

			if len(rows) == 0 {
				printInfo("No repositories")
				return nil
			}
			final, err := tea.NewProgram(NewRepoListModel(rows), tea.WithContext(ctx)).Run()
			if err != nil {
				return fmt.Errorf("repository picker: %w", err)
			}
			picked := final.(RepoListModel).Selected
			if picked == nil {
				return nil
			}
			v, err := loadRepoView(ctx, h, picked.FullName)
			if err != nil {
				return err
			}
			return c.emit(v, func(w io.Writer) {
				fprintKeyValue(w, "Repository", StyleTitle.Render(v.FullName))
				fprintKeyValue(w, "URL", StyleLink.Render(v.WebURL))
				fprintKeyValue(w, "Issues", fmt.Sprint(v.OpenIssues)+" open")
				fprintKeyValue(w, "Merge reqs", fmt.Sprint(v.OpenMergeRequests)+" open")
				printNextStep("Labels and hooks", "igitt repo show "+v.FullName)
			})
		},
	}
	cmd.Flags().StringVar(&access, "access", accessOwned, "listing to show (owned, write, master)")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "pick a repository interactively")
	return cmd
}

func listRepositories(ctx context.Context, h hosting.Hoster, access string) ([]hosting.Repository, error) {
	switch access {
	case accessOwned:
		return h.OwnedRepositories(ctx)
	case accessWrite:
		return h.WriteRepositories(ctx)
	case accessMaster:
		return h.MasterRepositories(ctx)
	}
	return nil, fmt.Errorf("unknown access %q (want owned, write or master)", access)
}

// repoRows reads the listing fields. Listed repositories are seeded from
// the listing response, so no further requests are made.
func repoRows(ctx context.Context, repos []hosting.Repository) ([]repoRow, error) {
	rows := make([]repoRow, 0, len(repos))
	for _, r := range repos {
		var row repoRow
		var err error
		if row.FullName, err = r.FullName(ctx); err != nil {
			return nil, err
		}
		if row.ID, err = r.Identifier(ctx); err != nil {
			return nil, err
		}
		if row.WebURL, err = r.WebURL(ctx); err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}
