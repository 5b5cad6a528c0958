package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/tasker/internal/domain"
)

// FormatTaskList renders tasks as a table in the given order.
func FormatTaskList(tasks []*domain.Task, now time.Time) string {
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		done := ""
		if t.CompletedDate != nil {
			done = Dim(RelativeDateFrom(*t.CompletedDate, now))
		}
		title := t.Title
		if t.IsInLibrary {
			title += " " + Dim("(library)")
		}
		rows = append(rows, []string{
			TruncID(t.ID),
			CheckBox(t.IsCompleted),
			title,
			TypeBadge(t.Type),
			PriorityBadge(t.Priority),
			done,
		})
	}
	return RenderTable([]string{"ID", "", "TITLE", "TYPE", "PRIORITY", "DONE"}, rows)
}

// FormatTaskDetail renders one task with its direct subtasks.
func FormatTaskDetail(t *domain.Task, subtasks []*domain.Task, now time.Time) string {
	var b strings.Builder
	b.WriteString(Header(t.Title))
	b.WriteString("\n")

	field := func(label, value string) {
		fmt.Fprintf(&b, "%s %s\n", Dim(fmt.Sprintf("%-10s", label)), value)
	}
	field("id", t.ID)
	field("type", TypeBadge(t.Type))
	field("priority", PriorityBadge(t.Priority))
	field("status", CheckBox(t.IsCompleted))
	if t.CompletedDate != nil {
		field("completed", RelativeDateFrom(*t.CompletedDate, now))
	}
	if t.Description != nil && *t.Description != "" {
		field("notes", *t.Description)
	}
	if t.CategoryID != nil {
		field("category", TruncID(*t.CategoryID))
	}
	if t.ProjectID != nil {
		field("project", TruncID(*t.ProjectID))
	}
	if t.ParentTaskID != nil {
		field("parent", TruncID(*t.ParentTaskID))
	}
	field("created", t.CreatedDate.Format("2006-01-02 15:04"))

	if len(subtasks) > 0 {
		b.WriteString("\n")
		b.WriteString(Header("Subtasks"))
		b.WriteString("\n")
		for i, s := range subtasks {
			fmt.Fprintf(&b, "%s %s %s\n", Dim(strconv.Itoa(i)), CheckBox(s.IsCompleted), s.Title)
		}
	}
	return b.String()
}

func FormatCategoryList(cats []*domain.Category) string {
	rows := make([][]string, 0, len(cats))
	for _, c := range cats {
		rows = append(rows, []string{TruncID(c.ID), strconv.Itoa(c.SortOrder), c.Name})
	}
	return RenderTable([]string{"ID", "ORDER", "NAME"}, rows)
}

// FormatCommitmentList renders commitments with their task titles, looked up
// in titles by task id.
func FormatCommitmentList(cs []*domain.Commitment, titles map[string]string) string {
	rows := make([][]string, 0, len(cs))
	for _, c := range cs {
		title, ok := titles[c.TaskID]
		if !ok {
			title = Dim(c.TaskID)
		}
		when := ""
		if c.ScheduledTime != nil {
			when = c.ScheduledTime.String()
			if c.DurationMinutes != nil {
				when += " " + Dim(FormatMinutes(*c.DurationMinutes))
			}
		}
		rows = append(rows, []string{
			TruncID(c.ID),
			string(c.Timeframe),
			c.CommitmentDate.Format("2006-01-02"),
			SectionBadge(c.Section),
			title,
			when,
		})
	}
	return RenderTable([]string{"ID", "TIMEFRAME", "PERIOD", "SECTION", "TASK", "AT"}, rows)
}
