package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/tasker/internal/db"
	"github.com/alexanderramin/tasker/internal/domain"
)

// SQLTaskRepo implements TaskRepo on the shared SQL schema.
type SQLTaskRepo struct {
	db db.DBTX
}

// NewSQLTaskRepo creates a new SQLTaskRepo.
func NewSQLTaskRepo(conn db.DBTX) *SQLTaskRepo {
	return &SQLTaskRepo{db: conn}
}

func taskCol(f domain.TaskField) string {
	return taskColumns[f]
}

func (r *SQLTaskRepo) Create(ctx context.Context, t *domain.Task) error {
	states, err := encodeStates(t.SubtaskSnapshot)
	if err != nil {
		return err
	}
	byField := map[domain.TaskField]any{
		domain.TaskFieldID:              t.ID,
		domain.TaskFieldOwnerID:         t.OwnerID,
		domain.TaskFieldTitle:           t.Title,
		domain.TaskFieldDescription:     nullableString(t.Description),
		domain.TaskFieldType:            string(t.Type),
		domain.TaskFieldIsCompleted:     boolToInt(t.IsCompleted),
		domain.TaskFieldCompletedDate:   nullableTimestamp(t.CompletedDate),
		domain.TaskFieldCreatedDate:     formatTimestamp(t.CreatedDate),
		domain.TaskFieldModifiedDate:    formatTimestamp(t.ModifiedDate),
		domain.TaskFieldSortOrder:       t.SortOrder,
		domain.TaskFieldIsInLibrary:     boolToInt(t.IsInLibrary),
		domain.TaskFieldSubtaskSnapshot: states,
		domain.TaskFieldPriority:        string(t.Priority),
		domain.TaskFieldCategoryID:      nullableString(t.CategoryID),
		domain.TaskFieldProjectID:       nullableString(t.ProjectID),
		domain.TaskFieldParentTaskID:    nullableString(t.ParentTaskID),
	}
	args := make([]any, len(domain.TaskFields))
	for i, f := range domain.TaskFields {
		args[i] = byField[f]
	}

	query := `INSERT INTO tasks (` + taskColumnList + `) VALUES (` + placeholders(len(args)) + `)`
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("inserting task: %w", db.Classify(err))
	}
	return nil
}

func (r *SQLTaskRepo) GetByID(ctx context.Context, ownerID, id string) (*domain.Task, error) {
	query := `SELECT ` + taskColumnList + ` FROM tasks WHERE id = ? AND user_id = ?`
	t, err := scanTask(r.db.QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("task %s: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}
	return t, nil
}

func (r *SQLTaskRepo) List(ctx context.Context, ownerID string, f domain.TaskFilter) ([]*domain.Task, error) {
	w := taskWhere(ownerID, f)
	query := `SELECT ` + taskColumnList + ` FROM tasks` + w.String() + orderBySiblings
	rows, err := r.db.QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", db.Classify(err))
	}
	defer rows.Close()

	tasks := []*domain.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", db.Classify(err))
	}
	return tasks, nil
}

func (r *SQLTaskRepo) MaxSortOrder(ctx context.Context, ownerID string, f domain.TaskFilter) (*int, error) {
	w := taskWhere(ownerID, f)
	query := `SELECT MAX(sort_order) FROM tasks` + w.String()
	var maxOrder sql.NullInt64
	if err := r.db.QueryRowContext(ctx, query, w.args...).Scan(&maxOrder); err != nil {
		return nil, fmt.Errorf("reading max task sort order: %w", db.Classify(err))
	}
	return intFromNull(maxOrder), nil
}

func (r *SQLTaskRepo) Update(ctx context.Context, ownerID, id string, p domain.TaskPatch, modified time.Time) error {
	set, err := taskAssignments(p)
	if err != nil {
		return err
	}
	set.set(taskCol(domain.TaskFieldModifiedDate), formatTimestamp(modified))

	query := `UPDATE tasks SET ` + set.String() + ` WHERE id = ? AND user_id = ?`
	args := append(set.args, id, ownerID)
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating task: %w", db.Classify(err))
	}
	return requireAffected(res, "task", id)
}

func (r *SQLTaskRepo) Delete(ctx context.Context, ownerID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ? AND user_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("deleting task: %w", db.Classify(err))
	}
	return requireAffected(res, "task", id)
}

// taskAssignments translates the supplied fields of p into column writes.
func taskAssignments(p domain.TaskPatch) (*assignments, error) {
	a := &assignments{}
	if p.Title.Present {
		a.set(taskCol(domain.TaskFieldTitle), p.Title.Value)
	}
	if p.Description.Present {
		a.set(taskCol(domain.TaskFieldDescription), nullableString(p.Description.Value))
	}
	if p.Type.Present {
		a.set(taskCol(domain.TaskFieldType), string(p.Type.Value))
	}
	if p.IsCompleted.Present {
		a.set(taskCol(domain.TaskFieldIsCompleted), boolToInt(p.IsCompleted.Value))
	}
	if p.CompletedDate.Present {
		a.set(taskCol(domain.TaskFieldCompletedDate), nullableTimestamp(p.CompletedDate.Value))
	}
	if p.SortOrder.Present {
		a.set(taskCol(domain.TaskFieldSortOrder), p.SortOrder.Value)
	}
	if p.IsInLibrary.Present {
		a.set(taskCol(domain.TaskFieldIsInLibrary), boolToInt(p.IsInLibrary.Value))
	}
	if p.SubtaskSnapshot.Present {
		states, err := encodeStates(p.SubtaskSnapshot.Value)
		if err != nil {
			return nil, err
		}
		a.set(taskCol(domain.TaskFieldSubtaskSnapshot), states)
	}
	if p.Priority.Present {
		a.set(taskCol(domain.TaskFieldPriority), string(p.Priority.Value))
	}
	if p.CategoryID.Present {
		a.set(taskCol(domain.TaskFieldCategoryID), nullableString(p.CategoryID.Value))
	}
	if p.ProjectID.Present {
		a.set(taskCol(domain.TaskFieldProjectID), nullableString(p.ProjectID.Value))
	}
	if p.ParentTaskID.Present {
		a.set(taskCol(domain.TaskFieldParentTaskID), nullableString(p.ParentTaskID.Value))
	}
	return a, nil
}

func taskWhere(ownerID string, f domain.TaskFilter) *where {
	w := &where{}
	w.add(taskCol(domain.TaskFieldOwnerID)+" = ?", ownerID)
	if f.Type != nil {
		w.add(taskCol(domain.TaskFieldType)+" = ?", string(*f.Type))
	}
	if f.ParentTaskID.Present {
		w.nullableEq(taskCol(domain.TaskFieldParentTaskID), f.ParentTaskID.Value)
	}
	if f.ProjectID.Present {
		w.nullableEq(taskCol(domain.TaskFieldProjectID), f.ProjectID.Value)
	}
	if f.CategoryID.Present {
		w.nullableEq(taskCol(domain.TaskFieldCategoryID), f.CategoryID.Value)
	}
	if f.IsCompleted != nil {
		w.add(taskCol(domain.TaskFieldIsCompleted)+" = ?", boolToInt(*f.IsCompleted))
	}
	if f.IsInLibrary != nil {
		w.add(taskCol(domain.TaskFieldIsInLibrary)+" = ?", boolToInt(*f.IsInLibrary))
	}
	if f.CompletedAfter != nil {
		w.add(taskCol(domain.TaskFieldCompletedDate)+" >= ?", formatTimestamp(*f.CompletedAfter))
	}
	if f.CompletedBefore != nil {
		w.add(taskCol(domain.TaskFieldCompletedDate)+" < ?", formatTimestamp(*f.CompletedBefore))
	}
	return w
}

func scanTask(s scanner) (*domain.Task, error) {
	var t domain.Task
	var typ, priority, created, modified string
	var isCompleted, inLibrary int
	var description, completed, states, categoryID, projectID, parentID sql.NullString

	byField := map[domain.TaskField]any{
		domain.TaskFieldID:              &t.ID,
		domain.TaskFieldOwnerID:         &t.OwnerID,
		domain.TaskFieldTitle:           &t.Title,
		domain.TaskFieldDescription:     &description,
		domain.TaskFieldType:            &typ,
		domain.TaskFieldIsCompleted:     &isCompleted,
		domain.TaskFieldCompletedDate:   &completed,
		domain.TaskFieldCreatedDate:     &created,
		domain.TaskFieldModifiedDate:    &modified,
		domain.TaskFieldSortOrder:       &t.SortOrder,
		domain.TaskFieldIsInLibrary:     &inLibrary,
		domain.TaskFieldSubtaskSnapshot: &states,
		domain.TaskFieldPriority:        &priority,
		domain.TaskFieldCategoryID:      &categoryID,
		domain.TaskFieldProjectID:       &projectID,
		domain.TaskFieldParentTaskID:    &parentID,
	}
	dest := make([]any, len(domain.TaskFields))
	for i, f := range domain.TaskFields {
		dest[i] = byField[f]
	}
	if err := s.Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning task: %w", db.Classify(err))
	}

	t.Type = domain.TaskType(typ)
	t.Priority = domain.Priority(priority)
	t.IsCompleted = intToBool(isCompleted)
	t.IsInLibrary = intToBool(inLibrary)
	t.Description = stringFromNull(description)
	t.CategoryID = stringFromNull(categoryID)
	t.ProjectID = stringFromNull(projectID)
	t.ParentTaskID = stringFromNull(parentID)
	t.CompletedDate = parseNullableTime(completed, timestampLayout)

	var err error
	if t.CreatedDate, err = parseTimestamp(created); err != nil {
		return nil, fmt.Errorf("parsing created_date: %w", err)
	}
	if t.ModifiedDate, err = parseTimestamp(modified); err != nil {
		return nil, fmt.Errorf("parsing modified_date: %w", err)
	}
	if t.SubtaskSnapshot, err = decodeStates(states); err != nil {
		return nil, err
	}
	return &t, nil
}

// requireAffected turns an update or delete that matched no owned row into
// ErrNotFound.
func requireAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", entity, id, domain.ErrNotFound)
	}
	return nil
}
