package repository

import (
	"strings"

	"github.com/alexanderramin/tasker/internal/domain"
)

// Explicit field -> column tables. Query text, patches and filters are built
// from these; nothing is derived from struct tags or reflection.

var taskColumns = map[domain.TaskField]string{
	domain.TaskFieldID:              "id",
	domain.TaskFieldOwnerID:         "user_id",
	domain.TaskFieldTitle:           "title",
	domain.TaskFieldDescription:     "description",
	domain.TaskFieldType:            "type",
	domain.TaskFieldIsCompleted:     "is_completed",
	domain.TaskFieldCompletedDate:   "completed_date",
	domain.TaskFieldCreatedDate:     "created_date",
	domain.TaskFieldModifiedDate:    "modified_date",
	domain.TaskFieldSortOrder:       "sort_order",
	domain.TaskFieldIsInLibrary:     "is_in_library",
	domain.TaskFieldSubtaskSnapshot: "previous_subtask_states",
	domain.TaskFieldPriority:        "priority",
	domain.TaskFieldCategoryID:      "category_id",
	domain.TaskFieldProjectID:       "project_id",
	domain.TaskFieldParentTaskID:    "parent_task_id",
}

var categoryColumns = map[domain.CategoryField]string{
	domain.CategoryFieldID:          "id",
	domain.CategoryFieldOwnerID:     "user_id",
	domain.CategoryFieldName:        "name",
	domain.CategoryFieldSortOrder:   "sort_order",
	domain.CategoryFieldType:        "type",
	domain.CategoryFieldCreatedDate: "created_date",
}

var commitmentColumns = map[domain.CommitmentField]string{
	domain.CommitmentFieldID:                 "id",
	domain.CommitmentFieldOwnerID:            "user_id",
	domain.CommitmentFieldTaskID:             "task_id",
	domain.CommitmentFieldTimeframe:          "timeframe",
	domain.CommitmentFieldSection:            "section",
	domain.CommitmentFieldCommitmentDate:     "commitment_date",
	domain.CommitmentFieldSortOrder:          "sort_order",
	domain.CommitmentFieldCreatedDate:        "created_date",
	domain.CommitmentFieldParentCommitmentID: "parent_commitment_id",
	domain.CommitmentFieldScheduledTime:      "scheduled_time",
	domain.CommitmentFieldDurationMinutes:    "duration_minutes",
}

// columnList joins the columns of fields, in order, for SELECT and INSERT.
func columnList[F comparable](fields []F, table map[F]string) string {
	cols := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = table[f]
	}
	return strings.Join(cols, ", ")
}

// placeholders returns "?, ?, ..." for n values.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// Canonical column lists, in the order of the domain field slices.
var (
	taskColumnList       = columnList(domain.TaskFields, taskColumns)
	categoryColumnList   = columnList(domain.CategoryFields, categoryColumns)
	commitmentColumnList = columnList(domain.CommitmentFields, commitmentColumns)
)

// orderBySiblings is the listing order shared by every entity: ascending
// sort order, newest first among equal sort orders.
const orderBySiblings = ` ORDER BY sort_order ASC, created_date DESC`
