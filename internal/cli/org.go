package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/RaiVaibhav/IGitt/pkg/hosting"
)

// orgCommand creates the org command.
func (c *CLI) orgCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "org",
		Short: "Inspect organizations and GitLab groups",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show <name>",
		Short: "Show an organization with its owners, maintainers and sub-organizations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			h, err := c.hoster(ctx)
			if err != nil {
				return err
			}
			v, err := loadOrgView(ctx, h.Organization(args[0]))
			if err != nil {
				return err
			}
			return c.emit(v, func(w io.Writer) {
				fprintKeyValue(w, "Organization", StyleTitle.Render(v.Name))
				if v.Description != "" {
					fprintKeyValue(w, "Description", v.Description)
				}
				fprintKeyValue(w, "URL", StyleLink.Render(v.WebURL))
				fprintKeyValue(w, "Billable", StyleNumber.Render(fmt.Sprint(v.BillableUsers))+" users")
				fprintKeyValue(w, "Owners", strings.Join(v.Owners, ", "))
				fprintKeyValue(w, "Masters", strings.Join(v.Masters, ", "))
				for _, s := range v.Suborgs {
					fprintItem(w, s)
				}
			})
		},
	})
	return cmd
}

func loadOrgView(ctx context.Context, org hosting.Organization) (orgView, error) {
	v := orgView{Name: org.Name()}
	var err error
	if v.Description, err = org.Description(ctx); err != nil {
		return v, err
	}
	if v.WebURL, err = org.WebURL(ctx); err != nil {
		return v, err
	}
	if v.BillableUsers, err = org.BillableUsers(ctx); err != nil {
		return v, err
	}
	owners, err := org.Owners(ctx)
	if err != nil {
		return v, err
	}
	if v.Owners, err = usernames(ctx, owners); err != nil {
		return v, err
	}
	masters, err := org.Masters(ctx)
	if err != nil {
		return v, err
	}
	if v.Masters, err = usernames(ctx, masters); err != nil {
		return v, err
	}
	suborgs, err := org.Suborgs(ctx)
	if err != nil {
		return v, err
	}
	v.Suborgs = make([]string, 0, len(suborgs))
	for _, s := range suborgs {
		v.Suborgs = append(v.Suborgs, s.Name())
	}
	return v, nil
}

// userCommand creates the user command.
func (c *CLI) userCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Inspect users",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show [username]",
		Short: "Show a user, or the authenticated user",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			h, err := c.hoster(ctx)
			if err != nil {
				return err
			}
			name := ""
			if len(args) == 1 {
				name = strings.TrimPrefix(args[0], "@")
			}
			v, err := loadUserView(ctx, h.User(name))
			if err != nil {
				return err
			}
			return c.emit(v, func(w io.Writer) {
				fprintKeyValue(w, "Username", "@"+v.Username)
				fprintKeyValue(w, "ID", fmt.Sprint(v.ID))
				fprintKeyValue(w, "URL", StyleLink.Render(v.WebURL))
			})
		},
	})
	return cmd
}
