package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/RaiVaibhav/IGitt/pkg/hosting"
)

// searchFlags holds the raw date filters shared by the search subcommands.
type searchFlags struct {
	createdAfter, createdBefore string
	updatedAfter, updatedBefore string
}

func (f *searchFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.createdAfter, "created-after", "", "only items created at or after this time")
	cmd.Flags().StringVar(&f.createdBefore, "created-before", "", "only items created before this time")
	cmd.Flags().StringVar(&f.updatedAfter, "updated-after", "", "only items updated at or after this time")
	cmd.Flags().StringVar(&f.updatedBefore, "updated-before", "", "only items updated before this time")
}

// filter parses the flags. Times are RFC 3339 or a plain date.
func (f *searchFlags) filter() (hosting.SearchFilter, error) {
	var out hosting.SearchFilter
	for _, p := range []struct {
		raw string
		dst *time.Time
	}{
		{f.createdAfter, &out.CreatedAfter},
		{f.createdBefore, &out.CreatedBefore},
		{f.updatedAfter, &out.UpdatedAfter},
		{f.updatedBefore, &out.UpdatedBefore},
	} {
		if p.raw == "" {
			continue
		}
		t, err := parseTime(p.raw)
		if err != nil {
			return out, err
		}
		*p.dst = t
	}
	return out, nil
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q (want RFC 3339 or YYYY-MM-DD)", s)
}

// searchCommand creates the search command with subcommands.
func (c *CLI) searchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search open issues and merge requests by date",
		Long: `Search open issues and merge requests by creation or update date.

At most one of --created-after and --created-before may be given, and
likewise for the updated filters.`,
	}

	cmd.AddCommand(c.searchIssuesCommand())
	cmd.AddCommand(c.searchMergeRequestsCommand())

	return cmd
}

// searchIssuesCommand creates the "search issues" subcommand.
func (c *CLI) searchIssuesCommand() *cobra.Command {
	var flags searchFlags
	cmd := &cobra.Command{
		Use:   "issues <repo>",
		Short: "Search open issues",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			filter, err := flags.filter()
			if err != nil {
				return err
			}
			_, repo, err := c.repository(ctx, args[0])
			if err != nil {
				return err
			}
			prog := newProgress(loggerFromContext(ctx))
			results, err := repo.SearchIssues(ctx, filter)
			if err != nil {
				return err
			}
			views := []issueView{}
			for is := range results {
				v, err := loadIssueView(ctx, is)
				if err != nil {
					return err
				}
				views = append(views, v)
			}
			prog.done("Found %d issues", len(views))
			return c.emit(views, func(w io.Writer) {
				for _, v := range views {
					writeIssueLine(w, v)
				}
			})
		},
	}
	flags.register(cmd)
	return cmd
}

// searchMergeRequestsCommand creates the "search mrs" subcommand.
func (c *CLI) searchMergeRequestsCommand() *cobra.Command {
	var flags searchFlags
	cmd := &cobra.Command{
		Use:     "mrs <repo>",
		Aliases: []string{"prs"},
		Short:   "Search open merge requests",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			filter, err := flags.filter()
			if err != nil {
				return err
			}
			_, repo, err := c.repository(ctx, args[0])
			if err != nil {
				return err
			}
			prog := newProgress(loggerFromContext(ctx))
			results, err := repo.SearchMergeRequests(ctx, filter)
			if err != nil {
				return err
			}
			views := []issueView{}
			for mr := range results {
				v, err := loadIssueView(ctx, mr)
				if err != nil {
					return err
				}
				views = append(views, v)
			}
			prog.done("Found %d merge requests", len(views))
			return c.emit(views, func(w io.Writer) {
				for _, v := range views {
					writeIssueLine(w, v)
				}
			})
		},
	}
	flags.register(cmd)
	return cmd
}
