package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/tasker/internal/cli/formatter"
)

func newCategoryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "category",
		Aliases: []string{"cat"},
		Short:   "Manage categories",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add NAME",
			Short: "Create a category",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx := cmd.Context()
				owner, err := app.owner(ctx)
				if err != nil {
					return err
				}
				c, err := app.Categories.Create(ctx, owner, strings.Join(args, " "))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created category %s %s\n", formatter.TruncID(c.ID), formatter.Bold(c.Name))
				return nil
			},
		},
		&cobra.Command{
			Use:     "list",
			Aliases: []string{"ls"},
			Short:   "List categories in sort order",
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx := cmd.Context()
				owner, err := app.owner(ctx)
				if err != nil {
					return err
				}
				cats, err := app.Categories.List(ctx, owner)
				if err != nil {
					return err
				}
				if len(cats) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("No categories."))
					return nil
				}
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatCategoryList(cats))
				return nil
			},
		},
		&cobra.Command{
			Use:   "rename CATEGORY NAME",
			Short: "Rename a category",
			Args:  cobra.MinimumNArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx := cmd.Context()
				owner, err := app.owner(ctx)
				if err != nil {
					return err
				}
				id, err := resolveCategoryID(ctx, app, owner, args[0])
				if err != nil {
					return err
				}
				c, err := app.Categories.Rename(ctx, owner, id, strings.Join(args[1:], " "))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Renamed to %s\n", formatter.Bold(c.Name))
				return nil
			},
		},
		&cobra.Command{
			Use:   "reorder CATEGORY...",
			Short: "Set category order to the given sequence",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx := cmd.Context()
				owner, err := app.owner(ctx)
				if err != nil {
					return err
				}
				ids := make([]string, len(args))
				for i, a := range args {
					if ids[i], err = resolveCategoryID(ctx, app, owner, a); err != nil {
						return err
					}
				}
				if err := app.Categories.Reorder(ctx, owner, ids); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Reordered %d categories.\n", len(ids))
				return nil
			},
		},
		&cobra.Command{
			Use:     "rm CATEGORY",
			Aliases: []string{"delete"},
			Short:   "Delete a category; its tasks become uncategorized",
			Args:    cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx := cmd.Context()
				owner, err := app.owner(ctx)
				if err != nil {
					return err
				}
				id, err := resolveCategoryID(ctx, app, owner, args[0])
				if err != nil {
					return err
				}
				if err := app.Categories.Delete(ctx, owner, id); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Deleted.")
				return nil
			},
		},
	)

	return cmd
}
