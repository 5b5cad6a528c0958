package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/tasker/internal/cli/formatter"
	"github.com/alexanderramin/tasker/internal/domain"
)

func newTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "task",
		Aliases: []string{"t"},
		Short:   "Manage tasks, projects and lists",
	}

	cmd.AddCommand(
		newTaskAddCmd(app),
		newTaskListCmd(app),
		newTaskShowCmd(app),
		newTaskUpdateCmd(app),
		newTaskCompleteCmd(app, true),
		newTaskCompleteCmd(app, false),
		newTaskUndoCmd(app),
		newTaskRestoreCmd(app),
		newTaskSubtaskCmd(app),
		newTaskReorderCmd(app),
		newTaskLibraryCmd(app),
		newTaskRemoveCmd(app),
	)

	return cmd
}

func newTaskAddCmd(app *App) *cobra.Command {
	var (
		typ                      domain.TaskType
		priority                 domain.Priority
		notes, category, project string
		parent                   string
		inLibrary                bool
	)

	cmd := &cobra.Command{
		Use:   "add TITLE",
		Short: "Append a task to the end of its list",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			owner, err := app.owner(ctx)
			if err != nil {
				return err
			}

			t := &domain.Task{
				Title:       strings.Join(args, " "),
				Type:        typ,
				Priority:    priority,
				IsInLibrary: inLibrary,
			}
			if notes != "" {
				t.Description = &notes
			}
			if category != "" {
				id, err := resolveCategoryID(ctx, app, owner, category)
				if err != nil {
					return err
				}
				t.CategoryID = &id
			}
			if project != "" {
				id, err := resolveTaskID(ctx, app, owner, project)
				if err != nil {
					return err
				}
				t.ProjectID = &id
			}
			if parent != "" {
				id, err := resolveTaskID(ctx, app, owner, parent)
				if err != nil {
					return err
				}
				t.ParentTaskID = &id
			}

			if err := app.Tasks.Append(ctx, owner, t); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s\n", formatter.TruncID(t.ID), formatter.Bold(t.Title))
			return nil
		},
	}

	taskTypeFlag(cmd.Flags(), &typ)
	priorityFlag(cmd.Flags(), &priority)
	cmd.Flags().StringVar(&notes, "notes", "", "description")
	cmd.Flags().StringVar(&category, "category", "", "category name or ID")
	cmd.Flags().StringVar(&project, "project", "", "project task ID")
	cmd.Flags().StringVar(&parent, "parent", "", "parent task ID")
	cmd.Flags().BoolVar(&inLibrary, "library", false, "file the task in the library")

	return cmd
}

func newTaskListCmd(app *App) *cobra.Command {
	var (
		typ                 domain.TaskType
		category, project   string
		done, open, library bool
		all                 bool
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List top-level tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			owner, err := app.owner(ctx)
			if err != nil {
				return err
			}
			if done && open {
				return fmt.Errorf("%w: --done and --open are exclusive", domain.ErrInvalidInput)
			}

			var f domain.TaskFilter
			if !all {
				f.ParentTaskID = domain.Null[string]()
				f.IsInLibrary = &library
			}
			if typ != "" {
				f.Type = &typ
			}
			if done || open {
				f.IsCompleted = &done
			}
			if category != "" {
				id, err := resolveCategoryID(ctx, app, owner, category)
				if err != nil {
					return err
				}
				f.CategoryID = domain.Some(&id)
			}
			if project != "" {
				id, err := resolveTaskID(ctx, app, owner, project)
				if err != nil {
					return err
				}
				f.ProjectID = domain.Some(&id)
			}

			tasks, err := app.Tasks.List(ctx, owner, f)
			if err != nil {
				return err
			}
			if len(tasks) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("No tasks."))
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTaskList(tasks, app.now()))
			return nil
		},
	}

	taskTypeFlag(cmd.Flags(), &typ)
	cmd.Flags().StringVar(&category, "category", "", "only tasks in this category")
	cmd.Flags().StringVar(&project, "project", "", "only tasks in this project")
	cmd.Flags().BoolVar(&done, "done", false, "only completed tasks")
	cmd.Flags().BoolVar(&open, "open", false, "only open tasks")
	cmd.Flags().BoolVar(&library, "library", false, "list the library instead of active tasks")
	cmd.Flags().BoolVar(&all, "all", false, "include subtasks and library tasks")

	return cmd
}

func newTaskShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show a task with its subtasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTaskDetail(t, subs, app.now()))
			return nil
		},
	}
}

func newTaskUpdateCmd(app *App) *cobra.Command {
	var (
		title, notes, category, project string
		typ                             domain.TaskType
		priority                        domain.Priority
	)

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Change task fields; an empty --notes, --category or --project clears it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			owner, err := app.owner(ctx)
			if err != nil {
				return err
			}
			id, err := resolveTaskID(ctx, app, owner, args[0])
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			var p domain.TaskPatch
			if flags.Changed("title") {
				p.Title = domain.Some(title)
			}
			if flags.Changed("notes") {
				p.Description = optionalText(notes)
			}
			if flags.Changed("type") {
				p.Type = domain.Some(typ)
			}
			if flags.Changed("priority") {
				p.Priority = domain.Some(priority)
			}
			if flags.Changed("category") {
				p.CategoryID = domain.Null[string]()
				if category != "" {
					cid, err := resolveCategoryID(ctx, app, owner, category)
					if err != nil {
						return err
					}
					p.CategoryID = domain.Some(&cid)
				}
			}
			if flags.Changed("project") {
				p.ProjectID = domain.Null[string]()
				if project != "" {
					pid, err := resolveTaskID(ctx, app, owner, project)
					if err != nil {
						return err
					}
					p.ProjectID = domain.Some(&pid)
				}
			}
			if p.Empty() {
				return fmt.Errorf("%w: nothing to update", domain.ErrInvalidInput)
			}

			t, err := app.Tasks.Update(ctx, owner, id, p)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s %s\n", formatter.TruncID(t.ID), formatter.Bold(t.Title))
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&notes, "notes", "", "new description")
	taskTypeFlag(cmd.Flags(), &typ)
	priorityFlag(cmd.Flags(), &priority)
	cmd.Flags().StringVar(&category, "category", "", "category name or ID")
	cmd.Flags().StringVar(&project, "project", "", "project task ID")

	return cmd
}

func optionalText(s string) domain.Optional[*string] {
	if s == "" {
		return domain.Null[string]()
	}
	return domain.Some(&s)
}

func newTaskCompleteCmd(app *App, completed bool) *cobra.Command {
	use, short, verb := "complete ID", "Mark a task done; a parent completes its subtasks", "Completed"
	if !completed {
		use, short, verb = "uncomplete ID", "Reopen a task", "Reopened"
	}

	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			owner, err := app.owner(ctx)
			if err != nil {
				return err
			}
			id, err := resolveTaskID(ctx, app, owner, args[0])
			if err != nil {
				return err
			}
			t, err := app.Tasks.SetCompleted(ctx, owner, id, completed)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", verb, formatter.CheckBox(t.IsCompleted), t.Title)
			return nil
		},
	}
}

func newTaskUndoCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "undo ID",
		Short: "Reopen a task and restore its subtasks as they were before completion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			owner, err := app.owner(ctx)
			if err != nil {
				return err
			}
			id, err := resolveTaskID(ctx, app, owner, args[0])
			if err != nil {
				return err
			}
			t, err := app.Tasks.UndoCompletion(ctx, owner, id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Undone %s %s\n", formatter.CheckBox(t.IsCompleted), t.Title)
			return nil
		},
	}
}

func newTaskRestoreCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "restore PARENT STATE...",
		Short: "Set subtask completion in sibling order (true/false per subtask)",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			owner, err := app.owner(ctx)
			if err != nil {
				return err
			}
			id, err := resolveTaskID(ctx, app, owner, args[0])
			if err != nil {
				return err
			}
			states := make([]bool, 0, len(args)-1)
			for _, a := range args[1:] {
				b, err := strconv.ParseBool(a)
				if err != nil {
					return fmt.Errorf("%w: state %q is not a boolean", domain.ErrInvalidInput, a)
				}
				states = append(states, b)
			}
			if err := app.Tasks.RestoreSubtaskStates(ctx, owner, id, states); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Restored %d subtask states.\n", len(states))
			return nil
		},
	}
}

func newTaskSubtaskCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "subtask PARENT TITLE",
		Short: "Append a subtask under a task",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			owner, err := app.owner(ctx)
			if err != nil {
				return err
			}
			parentID, err := resolveTaskID(ctx, app, owner, args[0])
			if err != nil {
				return err
			}
			sub, err := app.Tasks.AddSubtask(ctx, owner, parentID, strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added subtask %s %s\n", formatter.TruncID(sub.ID), formatter.Bold(sub.Title))
			return nil
		},
	}
}

func newTaskReorderCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reorder ID...",
		Short: "Set sibling order to the given sequence",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			owner, err := app.owner(ctx)
			if err != nil {
				return err
			}
			ids, err := resolveTaskIDs(ctx, app, owner, args)
			if err != nil {
				return err
			}
			if err := app.Tasks.Reorder(ctx, owner, ids); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reordered %d tasks.\n", len(ids))
			return nil
		},
	}
}

func newTaskLibraryCmd(app *App) *cobra.Command {
	var remove bool

	cmd := &cobra.Command{
		Use:   "library ID",
		Short: "Move a task into the library, or back out with --remove",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			owner, err := app.owner(ctx)
			if err != nil {
				return err
			}
			id, err := resolveTaskID(ctx, app, owner, args[0])
			if err != nil {
				return err
			}
			if err := app.Tasks.MoveToLibrary(ctx, owner, id, !remove); err != nil {
				return err
			}
			if remove {
				fmt.Fprintln(cmd.OutOrStdout(), "Moved out of the library.")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "Moved to the library.")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&remove, "remove", false, "move the task back out of the library")

	return cmd
}

func newTaskRemoveCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"delete"},
		Short:   "Delete a task with its subtasks and commitments",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			owner, err := app.owner(ctx)
			if err != nil {
				return err
			}
			id, err := resolveTaskID(ctx, app, owner, args[0])
			if err != nil {
				return err
			}
			if !yes {
				ok, err := confirm(app, "delete task "+id[:min(8, len(id))])
				if err != nil || !ok {
					return err
				}
			}
			if err := app.Tasks.Delete(ctx, owner, id); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Deleted.")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")

	return cmd
}
