package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	igerr "github.com/RaiVaibhav/IGitt/pkg/errors"
	"github.com/RaiVaibhav/IGitt/pkg/hosting"
)

// commitCommand creates the commit command with subcommands.
func (c *CLI) commitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "commit",
		Short: "Inspect commits, set statuses and comment",
	}

	cmd.AddCommand(c.commitShowCommand())
	cmd.AddCommand(c.commitStatusesCommand())
	cmd.AddCommand(c.commitStatusCommand())
	cmd.AddCommand(c.commitPatchCommand())
	cmd.AddCommand(c.commitCommentCommand())

	return cmd
}

func (c *CLI) commit(ctx context.Context, repoName, sha string) (hosting.Commit, error) {
	_, repo, err := c.repository(ctx, repoName)
	if err != nil {
		return nil, err
	}
	return repo.GetCommit(ctx, sha)
}

// commitShowCommand creates the "commit show" subcommand.
func (c *CLI) commitShowCommand() *cobra.Command {
	var diff bool
	cmd := &cobra.Command{
		Use:   "show <repo> <sha>",
		Short: "Show a commit and its parent",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cm, err := c.commit(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			v := commitView{URL: cm.URL()}
			if v.SHA, err = cm.SHA(ctx); err != nil {
				return err
			}
			parent, err := cm.Parent(ctx)
			switch {
			case igerr.Is(err, igerr.ErrCodeDoesntExist):
			case err != nil:
				return err
			default:
				if v.Parent, err = parent.SHA(ctx); err != nil {
					return err
				}
			}
			var unified string
			if diff {
				if unified, err = cm.UnifiedDiff(ctx); err != nil {
					return err
				}
			}
			return c.emit(v, func(w io.Writer) {
				fprintKeyValue(w, "Commit", StyleHighlight.Render(v.SHA))
				if v.Parent != "" {
					fprintKeyValue(w, "Parent", v.Parent)
				}
				fprintKeyValue(w, "URL", StyleLink.Render(v.URL))
				if unified != "" {
					fmt.Fprintln(w)
					fmt.Fprint(w, unified)
				}
			})
		},
	}
	cmd.Flags().BoolVar(&diff, "diff", false, "print the unified diff")
	return cmd
}

// commitStatusesCommand creates the "commit statuses" subcommand.
func (c *CLI) commitStatusesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "statuses <repo> <sha>",
		Short: "List the latest status per context",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cm, err := c.commit(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			statuses, err := cm.Statuses(ctx)
			if err != nil {
				return err
			}
			views := make([]statusView, 0, len(statuses))
			for _, s := range statuses {
				views = append(views, statusView{
					Context:     s.Context,
					Status:      s.Status.String(),
					Description: s.Description,
					TargetURL:   s.TargetURL,
				})
			}
			return c.emit(views, func(w io.Writer) {
				for _, v := range views {
					fprintKeyValue(w, v.Context, statusStyle(v.Status).Render(v.Status)+" "+StyleDim.Render(v.Description))
				}
			})
		},
	}
}

// commitStatusCommand creates the "commit status" subcommand.
func (c *CLI) commitStatusCommand() *cobra.Command {
	var (
		state  string
		status hosting.CommitStatus
	)
	cmd := &cobra.Command{
		Use:   "status <repo> <sha>",
		Short: "Set a commit status, replacing the one with the same context",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var err error
			if status.Status, err = hosting.ParseStatus(state); err != nil {
				return err
			}
			cm, err := c.commit(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			if err := cm.SetStatus(ctx, status); err != nil {
				return err
			}
			printSuccess("Set %s to %s", StyleHighlight.Render(status.Context), status.Status)
			return nil
		},
	}
	cmd.Flags().StringVar(&state, "state", "", "status (pending, running, success, failed, error, canceled)")
	cmd.Flags().StringVar(&status.Context, "context", "igitt", "status context")
	cmd.Flags().StringVar(&status.Description, "description", "", "status description")
	cmd.Flags().StringVar(&status.TargetURL, "url", "", "link shown with the status")
	_ = cmd.MarkFlagRequired("state")
	return cmd
}

// commitPatchCommand creates the "commit patch" subcommand.
func (c *CLI) commitPatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "patch <repo> <sha> <file>",
		Short: "Print the patch a commit applies to one file",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cm, err := c.commit(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			patch, err := cm.PatchForFile(ctx, args[2])
			if err != nil {
				return err
			}
			return c.emit(map[string]string{"file": args[2], "patch": patch}, func(w io.Writer) {
				fmt.Fprintln(w, patch)
			})
		},
	}
}

// commitCommentCommand creates the "commit comment" subcommand.
func (c *CLI) commitCommentCommand() *cobra.Command {
	var opts hosting.CommentOptions
	cmd := &cobra.Command{
		Use:   "comment <repo> <sha> <message>",
		Short: "Comment on a commit",
		Long: `Comment on a commit.

With --file and --line the comment is placed inline. If the line is not part
of the diff, the comment is posted as a regular comment naming the location.
With --mr the comment goes to the merge request discussion instead.`,
		Args: cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if opts.Line != 0 && opts.File == "" {
				return fmt.Errorf("--line requires --file")
			}
			cm, err := c.commit(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			if err := cm.Comment(ctx, strings.Join(args[2:], " "), opts); err != nil {
				return err
			}
			printSuccess("Commented on %s", args[1])
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.File, "file", "", "file to comment on")
	cmd.Flags().IntVar(&opts.Line, "line", 0, "line in the new version of --file")
	cmd.Flags().IntVar(&opts.MergeRequest, "mr", 0, "merge request to post the comment to")
	return cmd
}
