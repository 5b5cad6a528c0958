package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/tasker/internal/cli/formatter"
	"github.com/alexanderramin/tasker/internal/domain"
)

func newSuggestCmd(app *App) *cobra.Command {
	var add bool

	cmd := &cobra.Command{
		Use:   "suggest TASK",
		Short: "Suggest subtasks for a task",
		Long: `Asks the configured suggestion backend for subtasks of TASK.
Suggestions matching an existing subtask are dropped. With --add the
remaining suggestions are appended as subtasks.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Suggestions == nil {
				return fmt.Errorf("%w: no suggestion backend configured", domain.ErrSuggestionFailed)
			}
			ctx := cmd.Context()
			owner, err := app.owner(ctx)
			if err != nil {
				return err
			}
			id, err := resolveTaskID(ctx, app, owner, args[0])
			if err != nil {
				return err
			}
			t, err := app.Tasks.Get(ctx, owner, id)
			if err != nil {
				return err
			}
			subs, err := app.Tasks.ListSubtasks(ctx, owner, id)
			if err != nil {
				return err
			}
			existing := make([]string, len(subs))
			for i, s := range subs {
				existing[i] = s.Title
			}

			suggestions, err := app.Suggestions.SuggestSubtasks(ctx, t.Title, t.Description, existing)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(suggestions) == 0 {
				fmt.Fprintln(out, formatter.Dim("No new suggestions."))
				return nil
			}

			fmt.Fprintln(out, formatter.Header("Suggested subtasks"))
			for _, s := range suggestions {
				if !add {
					fmt.Fprintf(out, "  • %s\n", s)
					continue
				}
				sub, err := app.Tasks.AddSubtask(ctx, owner, id, s)
				if err != nil {
					return fmt.Errorf("adding %q: %w", s, err)
				}
				fmt.Fprintf(out, "  %s %s\n", formatter.TruncID(sub.ID), sub.Title)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&add, "add", false, "append the suggestions as subtasks")

	return cmd
}
