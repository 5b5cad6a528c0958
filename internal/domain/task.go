package domain

import (
	"fmt"
	"strings"
	"time"
)

// Task is a task, a project or a list, discriminated by Type.
type Task struct {
	ID          string
	OwnerID     string
	Title       string
	Description *string
	Type        TaskType

	IsCompleted   bool
	CompletedDate *time.Time

	CreatedDate  time.Time
	ModifiedDate time.Time

	SortOrder   int
	IsInLibrary bool

	// SubtaskSnapshot holds the completion states of the direct subtasks,
	// in sibling order, captured when the task was last completed.
	SubtaskSnapshot []bool

	Priority Priority

	CategoryID   *string
	ProjectID    *string
	ParentTaskID *string
}

// Validate checks the fields a caller controls.
func (t *Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("%w: task title is required", ErrInvalidInput)
	}
	if !ValidTaskTypes[t.Type] {
		return fmt.Errorf("%w: unknown task type %q", ErrInvalidInput, t.Type)
	}
	if !ValidPriorities[t.Priority] {
		return fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, t.Priority)
	}
	if t.IsCompleted != (t.CompletedDate != nil) {
		return fmt.Errorf("%w: completion date must be set iff the task is completed", ErrInvalidInput)
	}
	if t.ParentTaskID != nil && *t.ParentTaskID == t.ID {
		return fmt.Errorf("%w: a task cannot be its own subtask", ErrInvalidInput)
	}
	if t.ProjectID != nil && *t.ProjectID == t.ID {
		return fmt.Errorf("%w: a project cannot contain itself", ErrInvalidInput)
	}
	return nil
}

// IsSubtask reports whether the task has a parent task.
func (t *Task) IsSubtask() bool {
	return t.ParentTaskID != nil
}

// TaskPatch lists the fields of a partial task update. Absent fields are not
// written. ModifiedDate is always refreshed by the service.
type TaskPatch struct {
	Title           Optional[string]
	Description     Optional[*string]
	Type            Optional[TaskType]
	IsCompleted     Optional[bool]
	CompletedDate   Optional[*time.Time]
	SortOrder       Optional[int]
	IsInLibrary     Optional[bool]
	SubtaskSnapshot Optional[[]bool]
	Priority        Optional[Priority]
	CategoryID      Optional[*string]
	ProjectID       Optional[*string]
	ParentTaskID    Optional[*string]
}

// Empty reports whether no field is supplied.
func (p TaskPatch) Empty() bool {
	return !p.Title.Present && !p.Description.Present && !p.Type.Present &&
		!p.IsCompleted.Present && !p.CompletedDate.Present && !p.SortOrder.Present &&
		!p.IsInLibrary.Present && !p.SubtaskSnapshot.Present && !p.Priority.Present &&
		!p.CategoryID.Present && !p.ProjectID.Present && !p.ParentTaskID.Present
}

// Validate checks supplied values.
func (p TaskPatch) Validate() error {
	if p.Title.Present && strings.TrimSpace(p.Title.Value) == "" {
		return fmt.Errorf("%w: task title cannot be blank", ErrInvalidInput)
	}
	if p.Type.Present && !ValidTaskTypes[p.Type.Value] {
		return fmt.Errorf("%w: unknown task type %q", ErrInvalidInput, p.Type.Value)
	}
	if p.Priority.Present && !ValidPriorities[p.Priority.Value] {
		return fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, p.Priority.Value)
	}
	return nil
}

// TaskFilter selects owned tasks. Nil fields do not constrain the result.
// For the reference fields a supplied nil pointer matches rows where the
// reference is NULL.
type TaskFilter struct {
	Type            *TaskType
	ParentTaskID    Optional[*string]
	ProjectID       Optional[*string]
	CategoryID      Optional[*string]
	IsCompleted     *bool
	IsInLibrary     *bool
	CompletedAfter  *time.Time // inclusive
	CompletedBefore *time.Time // exclusive
}

// SiblingFilter returns the filter selecting the siblings t will be
// appended among: the parent's subtasks, the project's top-level tasks, or
// the top-level rows of t's type.
func SiblingFilter(t *Task) TaskFilter {
	switch {
	case t.ParentTaskID != nil:
		return TaskFilter{ParentTaskID: Some(t.ParentTaskID)}
	case t.ProjectID != nil:
		return TaskFilter{
			ProjectID:    Some(t.ProjectID),
			ParentTaskID: Some[*string](nil),
		}
	default:
		typ := t.Type
		return TaskFilter{
			Type:         &typ,
			ProjectID:    Some[*string](nil),
			ParentTaskID: Some[*string](nil),
		}
	}
}
