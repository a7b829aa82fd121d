package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/RaiVaibhav/IGitt/pkg/hosting"
	"github.com/RaiVaibhav/IGitt/pkg/integrations"
)

// contentCommand creates the content command with subcommands.
func (c *CLI) contentCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "content",
		Short: "Read and write repository files",
	}

	cmd.AddCommand(c.contentGetCommand())
	cmd.AddCommand(c.contentPutCommand())
	cmd.AddCommand(c.contentRmCommand())

	return cmd
}

// fetchContent loads path at ref.
func (c *CLI) fetchContent(ctx context.Context, repoName, path, ref string) (hosting.Repository, hosting.Content, error) {
	_, repo, err := c.repository(ctx, repoName)
	if err != nil {
		return nil, nil, err
	}
	content, err := repo.GetContent(ctx, path)
	if err != nil {
		return repo, nil, err
	}
	return repo, content, content.Fetch(ctx, ref)
}

// contentGetCommand creates the "content get" subcommand.
func (c *CLI) contentGetCommand() *cobra.Command {
	var ref string
	cmd := &cobra.Command{
		Use:   "get <repo> <path>",
		Short: "Print a file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, content, err := c.fetchContent(ctx, args[0], args[1], ref)
			if err != nil {
				return err
			}
			text, err := content.Text(ctx)
			if err != nil {
				return err
			}
			v := contentView{Path: content.Path(), Ref: ref, Text: text}
			return c.emit(v, func(w io.Writer) {
				fmt.Fprint(w, text)
			})
		},
	}
	cmd.Flags().StringVar(&ref, "ref", hosting.DefaultBranch, "branch, tag or commit to read")
	return cmd
}

// contentPutCommand creates the "content put" subcommand.
func (c *CLI) contentPutCommand() *cobra.Command {
	var message, branch, from string
	cmd := &cobra.Command{
		Use:   "put <repo> <path>",
		Short: "Create or update a file from a local file or stdin",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			data, err := readInput(cmd, from)
			if err != nil {
				return err
			}
			if message == "" {
				message = "Update " + args[1]
			}

			repo, content, err := c.fetchContent(ctx, args[0], args[1], branch)
			switch {
			case integrations.IsNotFound(err) && content != nil:
				_, err = repo.CreateFile(ctx, hosting.FileOptions{
					Path:    args[1],
					Message: message,
					Content: string(data),
					Branch:  branch,
				})
				if err != nil {
					return err
				}
				printSuccess("Created %s", StyleHighlight.Render(args[1]))
				return nil
			case err != nil:
				return err
			}

			if err := content.Update(ctx, message, string(data), branch); err != nil {
				return err
			}
			printSuccess("Updated %s", StyleHighlight.Render(args[1]))
			return nil
		},
	}
	cmd.Flags().StringVarP(&message, "message", "m", "", "commit message")
	cmd.Flags().StringVar(&branch, "branch", hosting.DefaultBranch, "branch to commit to")
	cmd.Flags().StringVarP(&from, "file", "f", "-", "local file to upload, - for stdin")
	return cmd
}

func readInput(cmd *cobra.Command, from string) ([]byte, error) {
	if from == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(from)
}

// contentRmCommand creates the "content rm" subcommand.
func (c *CLI) contentRmCommand() *cobra.Command {
	var message, branch string
	cmd := &cobra.Command{
		Use:   "rm <repo> <path>",
		Short: "Delete a file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, content, err := c.fetchContent(ctx, args[0], args[1], branch)
			if err != nil {
				return err
			}
			if message == "" {
				message = "Delete " + args[1]
			}
			if err := content.Delete(ctx, message, branch); err != nil {
				return err
			}
			printSuccess("Deleted %s", StyleHighlight.Render(args[1]))
			return nil
		},
	}
	cmd.Flags().StringVarP(&message, "message", "m", "", "commit message")
	cmd.Flags().StringVar(&branch, "branch", hosting.DefaultBranch, "branch to commit to")
	return cmd
}
