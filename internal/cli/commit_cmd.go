package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/tasker/internal/cli/formatter"
	"github.com/alexanderramin/tasker/internal/domain"
)

func newCommitCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "commit",
		Short: "Commit tasks to daily, weekly, monthly or yearly plans",
	}

	cmd.AddCommand(
		newCommitAddCmd(app),
		newCommitListCmd(app),
		newCommitBreakdownCmd(app),
		newCommitScheduleCmd(app),
		newCommitReorderCmd(app),
		newCommitRemoveCmd(app),
	)

	return cmd
}

func (a *App) today() time.Time {
	now := a.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func newCommitAddCmd(app *App) *cobra.Command {
	timeframe := domain.TimeframeDaily
	section := domain.SectionTodo
	var date *time.Time

	cmd := &cobra.Command{
		Use:   "add TASK",
		Short: "Commit a task to the period containing --date (default today)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			owner, err := app.owner(ctx)
			if err != nil {
				return err
			}
			taskID, err := resolveTaskID(ctx, app, owner, args[0])
			if err != nil {
				return err
			}
			c := &domain.Commitment{
				TaskID:         taskID,
				Timeframe:      timeframe,
				Section:        section,
				CommitmentDate: app.today(),
			}
			if date != nil {
				c.CommitmentDate = *date
			}
			if err := app.Commitments.Commit(ctx, owner, c); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Committed %s to %s %s\n",
				formatter.TruncID(c.ID), c.Timeframe, c.CommitmentDate.Format(time.DateOnly))
			return nil
		},
	}

	timeframeFlag(cmd.Flags(), &timeframe)
	sectionFlag(cmd.Flags(), &section)
	cmd.Flags().Var(dateFlag{&date}, "date", "any date inside the period (YYYY-MM-DD)")

	return cmd
}

func newCommitListCmd(app *App) *cobra.Command {
	timeframe := domain.TimeframeDaily
	var (
		section domain.Section
		date    *time.Time
		task    string
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List commitments for the period containing --date (default today)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			owner, err := app.owner(ctx)
			if err != nil {
				return err
			}

			day := app.today()
			if date != nil {
				day = *date
			}
			start := timeframe.PeriodStart(day)
			f := domain.CommitmentFilter{Timeframe: &timeframe, Date: &start}
			if section != "" {
				f.Section = &section
			}
			if task != "" {
				id, err := resolveTaskID(ctx, app, owner, task)
				if err != nil {
					return err
				}
				f = domain.CommitmentFilter{TaskID: &id}
			}

			cs, err := app.Commitments.List(ctx, owner, f)
			if err != nil {
				return err
			}
			if len(cs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("No commitments."))
				return nil
			}
			titles, err := taskTitles(ctx, app, owner)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatCommitmentList(cs, titles))
			return nil
		},
	}

	timeframeFlag(cmd.Flags(), &timeframe)
	sectionFlag(cmd.Flags(), &section)
	cmd.Flags().Var(dateFlag{&date}, "date", "any date inside the period (YYYY-MM-DD)")
	cmd.Flags().StringVar(&task, "task", "", "every commitment of this task, across periods")

	return cmd
}

func taskTitles(ctx context.Context, app *App, owner string) (map[string]string, error) {
	tasks, err := app.Tasks.List(ctx, owner, domain.TaskFilter{})
	if err != nil {
		return nil, err
	}
	titles := make(map[string]string, len(tasks))
	for _, t := range tasks {
		titles[t.ID] = t.Title
	}
	return titles, nil
}

func newCommitBreakdownCmd(app *App) *cobra.Command {
	timeframe := domain.TimeframeDaily
	section := domain.SectionTodo
	var date *time.Time

	cmd := &cobra.Command{
		Use:   "breakdown PARENT",
		Short: "Commit the parent's task to a finer period inside the parent's period",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			owner, err := app.owner(ctx)
			if err != nil {
				return err
			}
			parentID, err := resolveCommitmentID(ctx, app, owner, args[0])
			if err != nil {
				return err
			}
			day := app.today()
			if date != nil {
				day = *date
			}
			c, err := app.Commitments.Breakdown(ctx, owner, parentID, timeframe, day, section)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Broke down into %s %s %s\n",
				formatter.TruncID(c.ID), c.Timeframe, c.CommitmentDate.Format(time.DateOnly))
			return nil
		},
	}

	timeframeFlag(cmd.Flags(), &timeframe)
	sectionFlag(cmd.Flags(), &section)
	cmd.Flags().Var(dateFlag{&date}, "date", "date inside the parent's period (YYYY-MM-DD)")

	return cmd
}

func newCommitScheduleCmd(app *App) *cobra.Command {
	var (
		at       string
		duration int
		unset    bool
	)

	cmd := &cobra.Command{
		Use:   "schedule COMMITMENT",
		Short: "Place a commitment on the day's timeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			owner, err := app.owner(ctx)
			if err != nil {
				return err
			}
			id, err := resolveCommitmentID(ctx, app, owner, args[0])
			if err != nil {
				return err
			}

			var (
				when *domain.TimeOfDay
				mins *int
			)
			if !unset {
				if at == "" {
					return fmt.Errorf("%w: --at or --clear is required", domain.ErrInvalidInput)
				}
				tod, err := domain.ParseTimeOfDay(at)
				if err != nil {
					return err
				}
				when = &tod
				if duration > 0 {
					mins = &duration
				}
			}

			c, err := app.Commitments.Schedule(ctx, owner, id, when, mins)
			if err != nil {
				return err
			}
			if c.ScheduledTime == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Unscheduled.")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Scheduled at %s\n", c.ScheduledTime)
			return nil
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "start time (HH:MM)")
	cmd.Flags().IntVar(&duration, "duration", 0, "duration in minutes")
	cmd.Flags().BoolVar(&unset, "clear", false, "remove the commitment from the timeline")

	return cmd
}

func newCommitReorderCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reorder COMMITMENT...",
		Short: "Set commitment order within a section",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			owner, err := app.owner(ctx)
			if err != nil {
				return err
			}
			ids := make([]string, len(args))
			for i, a := range args {
				if ids[i], err = resolveCommitmentID(ctx, app, owner, a); err != nil {
					return err
				}
			}
			if err := app.Commitments.Reorder(ctx, owner, ids); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reordered %d commitments.\n", len(ids))
			return nil
		},
	}
}

func newCommitRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm COMMITMENT",
		Aliases: []string{"delete"},
		Short:   "Remove a commitment and its breakdowns",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			owner, err := app.owner(ctx)
			if err != nil {
				return err
			}
			id, err := resolveCommitmentID(ctx, app, owner, args[0])
			if err != nil {
				return err
			}
			if err := app.Commitments.Delete(ctx, owner, id); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Removed.")
			return nil
		},
	}
}
