package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/RaiVaibhav/IGitt/pkg/hosting"
)

// issueCommand creates the issue command with subcommands.
func (c *CLI) issueCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Work with issues",
	}

	cmd.AddCommand(c.issueListCommand())
	cmd.AddCommand(c.issueShowCommand())
	cmd.AddCommand(c.issueCreateCommand())
	cmd.AddCommand(c.issueStateCommand("close", "Close an issue", hosting.Issue.Close))
	cmd.AddCommand(c.issueStateCommand("reopen", "Reopen an issue", hosting.Issue.Reopen))
	cmd.AddCommand(c.issueCommentCommand())

	return cmd
}

// issueListCommand creates the "issue list" subcommand.
func (c *CLI) issueListCommand() *cobra.Command {
	var state string
	cmd := &cobra.Command{
		Use:   "list <repo>",
		Short: "List issues",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := hosting.ParseState(state)
			if err != nil {
				return err
			}
			_, repo, err := c.repository(ctx, args[0])
			if err != nil {
				return err
			}
			issues, err := repo.FilterIssues(ctx, st)
			if err != nil {
				return err
			}
			views := make([]issueView, 0, len(issues))
			for _, is := range issues {
				v, err := loadIssueView(ctx, is)
				if err != nil {
					return err
				}
				views = append(views, v)
			}
			return c.emit(views, func(w io.Writer) {
				for _, v := range views {
					writeIssueLine(w, v)
				}
			})
		},
	}
	cmd.Flags().StringVar(&state, "state", "open", "issue state (open, closed, all)")
	return cmd
}

// issueShowCommand creates the "issue show" subcommand.
func (c *CLI) issueShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <repo> <number>",
		Short: "Show an issue",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			is, err := c.issue(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			v, err := loadIssueView(ctx, is)
			if err != nil {
				return err
			}
			description, err := is.Description(ctx)
			if err != nil {
				return err
			}
			return c.emit(v, func(w io.Writer) {
				writeIssue(w, v)
				if description != "" {
					fmt.Fprintln(w)
					fmt.Fprintln(w, description)
				}
			})
		},
	}
}

// issueCreateCommand creates the "issue create" subcommand.
func (c *CLI) issueCreateCommand() *cobra.Command {
	var title, body string
	cmd := &cobra.Command{
		Use:   "create <repo>",
		Short: "Open an issue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, repo, err := c.repository(ctx, args[0])
			if err != nil {
				return err
			}
			is, err := repo.CreateIssue(ctx, title, body)
			if err != nil {
				return err
			}
			printSuccess("Opened issue %s", StyleNumber.Render(fmt.Sprintf("#%d", is.Number())))
			return nil
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "issue title")
	cmd.Flags().StringVarP(&body, "body", "b", "", "issue description")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

// issueStateCommand creates the "issue close" and "issue reopen" subcommands.
func (c *CLI) issueStateCommand(use, short string, apply func(hosting.Issue, context.Context) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <repo> <number>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			is, err := c.issue(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			if err := apply(is, ctx); err != nil {
				return err
			}
			state, err := is.State(ctx)
			if err != nil {
				return err
			}
			printSuccess("Issue #%d is %s", is.Number(), state)
			return nil
		},
	}
}

// issueCommentCommand creates the "issue comment" subcommand. It also
// comments on merge requests, which share the issue number space on GitHub.
func (c *CLI) issueCommentCommand() *cobra.Command {
	var mergeRequest bool
	cmd := &cobra.Command{
		Use:   "comment <repo> <number> <body>",
		Short: "Comment on an issue or merge request",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var target hosting.Issue
			var err error
			if mergeRequest {
				target, err = c.mergeRequest(ctx, args[0], args[1])
			} else {
				target, err = c.issue(ctx, args[0], args[1])
			}
			if err != nil {
				return err
			}
			comment, err := target.AddComment(ctx, strings.Join(args[2:], " "))
			if err != nil {
				return err
			}
			printSuccess("Commented")
			printDetail("%s", comment.URL())
			return nil
		},
	}
	cmd.Flags().BoolVar(&mergeRequest, "mr", false, "the number is a merge request")
	return cmd
}

func (c *CLI) issue(ctx context.Context, repoName, number string) (hosting.Issue, error) {
	n, err := parseNumber(number)
	if err != nil {
		return nil, err
	}
	_, repo, err := c.repository(ctx, repoName)
	if err != nil {
		return nil, err
	}
	return repo.GetIssue(ctx, n)
}

func (c *CLI) mergeRequest(ctx context.Context, repoName, number string) (hosting.MergeRequest, error) {
	n, err := parseNumber(number)
	if err != nil {
		return nil, err
	}
	_, repo, err := c.repository(ctx, repoName)
	if err != nil {
		return nil, err
	}
	return repo.GetMergeRequest(ctx, n)
}

func parseNumber(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimPrefix(s, "#"))
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return n, nil
}

// =============================================================================
// Merge requests
// =============================================================================

// mergeRequestCommand creates the mr command with subcommands.
func (c *CLI) mergeRequestCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "mr",
		Aliases: []string{"pr"},
		Short:   "Work with merge requests (pull requests on GitHub)",
	}

	cmd.AddCommand(c.mergeRequestListCommand())
	cmd.AddCommand(c.mergeRequestShowCommand())
	cmd.AddCommand(c.mergeRequestCreateCommand())

	return cmd
}

// mergeRequestListCommand creates the "mr list" subcommand.
func (c *CLI) mergeRequestListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list <repo>",
		Short: "List open merge requests",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, repo, err := c.repository(ctx, args[0])
			if err != nil {
				return err
			}
			mrs, err := repo.MergeRequests(ctx)
			if err != nil {
				return err
			}
			views := make([]issueView, 0, len(mrs))
			for _, mr := range mrs {
				v, err := loadIssueView(ctx, mr)
				if err != nil {
					return err
				}
				views = append(views, v)
			}
			return c.emit(views, func(w io.Writer) {
				for _, v := range views {
					writeIssueLine(w, v)
				}
			})
		},
	}
}

// mergeRequestShowCommand creates the "mr show" subcommand.
func (c *CLI) mergeRequestShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <repo> <number>",
		Short: "Show a merge request with its diffstat",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			mr, err := c.mergeRequest(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			v, err := loadMergeRequestView(ctx, mr)
			if err != nil {
				return err
			}
			return c.emit(v, func(w io.Writer) {
				writeIssue(w, v.issueView)
				fprintKeyValue(w, "Branches", v.Head+" "+iconArrow+" "+v.Base)
				fprintKeyValue(w, "Diffstat", StyleSuccess.Render(fmt.Sprintf("+%d", v.Additions))+" "+
					StyleWarning.Render(fmt.Sprintf("-%d", v.Deletions)))
				for _, f := range v.Files {
					fprintItem(w, f)
				}
			})
		},
	}
}

// mergeRequestCreateCommand creates the "mr create" subcommand.
func (c *CLI) mergeRequestCreateCommand() *cobra.Command {
	var opts hosting.MergeRequestOptions
	cmd := &cobra.Command{
		Use:   "create <repo>",
		Short: "Open a merge request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, repo, err := c.repository(ctx, args[0])
			if err != nil {
				return err
			}
			mr, err := repo.CreateMergeRequest(ctx, opts)
			if err != nil {
				return err
			}
			printSuccess("Opened merge request %s", StyleNumber.Render(fmt.Sprintf("#%d", mr.Number())))
			return nil
		},
	}
	cmd.Flags().StringVarP(&opts.Title, "title", "t", "", "merge request title")
	cmd.Flags().StringVarP(&opts.Body, "body", "b", "", "merge request description")
	cmd.Flags().StringVar(&opts.Base, "base", hosting.DefaultBranch, "branch to merge into")
	cmd.Flags().StringVar(&opts.Head, "head", "", "branch to merge from")
	cmd.Flags().Int64Var(&opts.TargetProjectID, "target-project", 0, "GitLab project ID to open the request against")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("head")
	return cmd
}
