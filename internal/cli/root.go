package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the top-level "tasker" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "tasker",
		Short:         "Tasks, categories and commitments from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if app.Bootstrap == nil {
				return nil
			}
			return app.Bootstrap(configPath)
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ./tasker.yaml or ~/.tasker/tasker.yaml)")
	root.PersistentFlags().StringVar(&app.token, "token", "", "access token (default $"+TokenEnv+" or the stored session)")

	root.AddCommand(
		newAuthCmd(app),
		newTaskCmd(app),
		newCategoryCmd(app),
		newCommitCmd(app),
		newSuggestCmd(app),
		newServeCmd(app),
	)

	return root
}
