package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/tasker/internal/domain"
	"github.com/alexanderramin/tasker/internal/repository"
	"github.com/google/uuid"
)

type taskService struct {
	tasks      repository.TaskRepo
	categories repository.CategoryRepo
	observer   UseCaseObserver
}

func NewTaskService(tasks repository.TaskRepo, categories repository.CategoryRepo, observers ...UseCaseObserver) TaskService {
	return &taskService{
		tasks:      tasks,
		categories: categories,
		observer:   useCaseObserverOrNoop(observers),
	}
}

func (s *taskService) Create(ctx context.Context, ownerID string, t *domain.Task) (err error) {
	defer observe(ctx, s.observer, "task-create", time.Now().UTC(), map[string]any{"type": string(t.Type)}, &err)

	s.prepare(ownerID, t)
	if err = t.Validate(); err != nil {
		return err
	}
	if err = s.checkReferences(ctx, ownerID, t.ParentTaskID, t.ProjectID, t.CategoryID); err != nil {
		return err
	}
	return s.tasks.Create(ctx, t)
}

func (s *taskService) Append(ctx context.Context, ownerID string, t *domain.Task) (err error) {
	fields := map[string]any{}
	defer observe(ctx, s.observer, "task-append", time.Now().UTC(), fields, &err)

	s.prepare(ownerID, t)
	if err = t.Validate(); err != nil {
		return err
	}
	if err = s.checkReferences(ctx, ownerID, t.ParentTaskID, t.ProjectID, t.CategoryID); err != nil {
		return err
	}
	// Read-then-write: concurrent appends may pick the same sort order.
	// Ties are broken by creation date when listing.
	var maxOrder *int
	maxOrder, err = s.tasks.MaxSortOrder(ctx, ownerID, domain.SiblingFilter(t))
	if err != nil {
		return fmt.Errorf("computing next sort order: %w", err)
	}
	t.SortOrder = 0
	if maxOrder != nil {
		t.SortOrder = *maxOrder + 1
	}
	fields["sort_order"] = t.SortOrder
	return s.tasks.Create(ctx, t)
}

// prepare assigns identity, ownership, timestamps and defaults.
func (s *taskService) prepare(ownerID string, t *domain.Task) {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	t.OwnerID = ownerID
	now := time.Now().UTC()
	t.CreatedDate = now
	t.ModifiedDate = now
	t.Title = strings.TrimSpace(t.Title)
	if t.Type == "" {
		t.Type = domain.TaskTypeTask
	}
	if t.Priority == "" {
		t.Priority = domain.PriorityMedium
	}
	if t.IsCompleted && t.CompletedDate == nil {
		t.CompletedDate = &now
	}
}

// checkReferences resolves each non-nil reference within ownerID. The foreign
// keys only prove existence, so a row owned by someone else reads as missing.
func (s *taskService) checkReferences(ctx context.Context, ownerID string, parentID, projectID, categoryID *string) error {
	if parentID != nil {
		if _, err := s.tasks.GetByID(ctx, ownerID, *parentID); err != nil {
			return fmt.Errorf("parent task %s: %w", *parentID, err)
		}
	}
	if projectID != nil {
		if _, err := s.tasks.GetByID(ctx, ownerID, *projectID); err != nil {
			return fmt.Errorf("project %s: %w", *projectID, err)
		}
	}
	if categoryID != nil {
		if _, err := s.categories.GetByID(ctx, ownerID, *categoryID); err != nil {
			return fmt.Errorf("category %s: %w", *categoryID, err)
		}
	}
	return nil
}

func (s *taskService) AddSubtask(ctx context.Context, ownerID, parentID, title string) (*domain.Task, error) {
	parent, err := s.tasks.GetByID(ctx, ownerID, parentID)
	if err != nil {
		return nil, err
	}
	sub := &domain.Task{
		Title:        title,
		Type:         domain.TaskTypeTask,
		ParentTaskID: &parent.ID,
		ProjectID:    parent.ProjectID,
		CategoryID:   parent.CategoryID,
	}
	if err := s.Append(ctx, ownerID, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *taskService) Get(ctx context.Context, ownerID, id string) (*domain.Task, error) {
	return s.tasks.GetByID(ctx, ownerID, id)
}

func (s *taskService) Update(ctx context.Context, ownerID, id string, p domain.TaskPatch) (task *domain.Task, err error) {
	defer observe(ctx, s.observer, "task-update", time.Now().UTC(), map[string]any{"task_id": id}, &err)

	if p.Empty() {
		return nil, fmt.Errorf("%w: nothing to update", domain.ErrInvalidInput)
	}
	if err = p.Validate(); err != nil {
		return nil, err
	}
	if p.ParentTaskID.Present && p.ParentTaskID.Value != nil && *p.ParentTaskID.Value == id {
		return nil, fmt.Errorf("%w: a task cannot be its own subtask", domain.ErrInvalidInput)
	}
	if p.ProjectID.Present && p.ProjectID.Value != nil && *p.ProjectID.Value == id {
		return nil, fmt.Errorf("%w: a project cannot contain itself", domain.ErrInvalidInput)
	}
	if p.Title.Present {
		p.Title.Value = strings.TrimSpace(p.Title.Value)
	}

	var current *domain.Task
	if current, err = s.tasks.GetByID(ctx, ownerID, id); err != nil {
		return nil, err
	}
	if err = s.checkReferences(ctx, ownerID, p.ParentTaskID.Value, p.ProjectID.Value, p.CategoryID.Value); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	switch {
	case p.IsCompleted.Present && !p.CompletedDate.Present:
		if p.IsCompleted.Value == current.IsCompleted {
			p.CompletedDate = domain.Some(current.CompletedDate)
		} else {
			p.CompletedDate = domain.Some(completionDate(p.IsCompleted.Value, now))
		}
	case p.IsCompleted.Present:
		if p.IsCompleted.Value != (p.CompletedDate.Value != nil) {
			return nil, fmt.Errorf("%w: completion date must be set iff the task is completed", domain.ErrInvalidInput)
		}
	case p.CompletedDate.Present:
		return nil, fmt.Errorf("%w: completion date can only change with the completion flag", domain.ErrInvalidInput)
	}

	if err = s.tasks.Update(ctx, ownerID, id, p, now); err != nil {
		return nil, err
	}
	return s.tasks.GetByID(ctx, ownerID, id)
}

func (s *taskService) Delete(ctx context.Context, ownerID, id string) (err error) {
	defer observe(ctx, s.observer, "task-delete", time.Now().UTC(), map[string]any{"task_id": id}, &err)
	return s.tasks.Delete(ctx, ownerID, id)
}

func (s *taskService) List(ctx context.Context, ownerID string, f domain.TaskFilter) ([]*domain.Task, error) {
	return s.tasks.List(ctx, ownerID, f)
}

func (s *taskService) ListSubtasks(ctx context.Context, ownerID, parentID string) ([]*domain.Task, error) {
	if _, err := s.tasks.GetByID(ctx, ownerID, parentID); err != nil {
		return nil, err
	}
	return s.tasks.List(ctx, ownerID, domain.TaskFilter{ParentTaskID: domain.Some(&parentID)})
}

// SetCompleted writes the task first, then each direct subtask in sibling
// order. Writes are independent: a failure part way through leaves earlier
// writes in place and returns the failing step's error. Completing a task
// that is already complete writes nothing, so the snapshot taken by the first
// completion survives.
func (s *taskService) SetCompleted(ctx context.Context, ownerID, id string, completed bool) (task *domain.Task, err error) {
	fields := map[string]any{"task_id": id, "completed": completed}
	defer observe(ctx, s.observer, "task-set-completed", time.Now().UTC(), fields, &err)

	if task, err = s.tasks.GetByID(ctx, ownerID, id); err != nil {
		return nil, err
	}
	if completed && task.IsCompleted {
		fields["noop"] = true
		return task, nil
	}
	var subtasks []*domain.Task
	subtasks, err = s.tasks.List(ctx, ownerID, domain.TaskFilter{ParentTaskID: domain.Some(&id)})
	if err != nil {
		return nil, fmt.Errorf("listing subtasks: %w", err)
	}
	fields["subtasks"] = len(subtasks)

	now := time.Now().UTC()
	completedDate := completionDate(completed, now)
	patch := domain.TaskPatch{
		IsCompleted:   domain.Some(completed),
		CompletedDate: domain.Some(completedDate),
	}
	parentPatch := patch
	if completed {
		states := make([]bool, len(subtasks))
		for i, sub := range subtasks {
			states[i] = sub.IsCompleted
		}
		parentPatch.SubtaskSnapshot = domain.Some(states)
	}
	if err = s.tasks.Update(ctx, ownerID, id, parentPatch, now); err != nil {
		return nil, err
	}
	for _, sub := range subtasks {
		if err = s.tasks.Update(ctx, ownerID, sub.ID, patch, now); err != nil {
			return nil, fmt.Errorf("cascading completion to subtask %s: %w", sub.ID, err)
		}
	}
	return s.tasks.GetByID(ctx, ownerID, id)
}

// RestoreSubtaskStates applies states to the direct subtasks by position.
// Subtasks already in the requested state are not written; subtasks beyond
// len(states) are left untouched.
func (s *taskService) RestoreSubtaskStates(ctx context.Context, ownerID, parentID string, states []bool) (err error) {
	fields := map[string]any{"task_id": parentID, "states": len(states)}
	defer observe(ctx, s.observer, "task-restore-subtasks", time.Now().UTC(), fields, &err)

	var subtasks []*domain.Task
	subtasks, err = s.ListSubtasks(ctx, ownerID, parentID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	written := 0
	for i, sub := range subtasks {
		if i >= len(states) {
			break
		}
		if sub.IsCompleted == states[i] {
			continue
		}
		patch := domain.TaskPatch{
			IsCompleted:   domain.Some(states[i]),
			CompletedDate: domain.Some(completionDate(states[i], now)),
		}
		if err = s.tasks.Update(ctx, ownerID, sub.ID, patch, now); err != nil {
			return fmt.Errorf("restoring subtask %s: %w", sub.ID, err)
		}
		written++
	}
	fields["written"] = written
	return nil
}

// UndoCompletion reverts a completion: the task and its subtasks are
// uncompleted, then the subtask states captured at completion are restored
// and the snapshot is cleared.
func (s *taskService) UndoCompletion(ctx context.Context, ownerID, id string) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	snapshot := task.SubtaskSnapshot

	if _, err := s.SetCompleted(ctx, ownerID, id, false); err != nil {
		return nil, err
	}
	if snapshot == nil {
		return s.tasks.GetByID(ctx, ownerID, id)
	}
	if err := s.RestoreSubtaskStates(ctx, ownerID, id, snapshot); err != nil {
		return nil, err
	}
	if err := s.tasks.Update(ctx, ownerID, id, domain.TaskPatch{SubtaskSnapshot: domain.Some[[]bool](nil)}, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("clearing subtask snapshot: %w", err)
	}
	return s.tasks.GetByID(ctx, ownerID, id)
}

// Reorder assigns sort orders 0..n-1 following ids, one write per task.
func (s *taskService) Reorder(ctx context.Context, ownerID string, ids []string) (err error) {
	defer observe(ctx, s.observer, "task-reorder", time.Now().UTC(), map[string]any{"count": len(ids)}, &err)

	now := time.Now().UTC()
	for i, id := range ids {
		if err = s.tasks.Update(ctx, ownerID, id, domain.TaskPatch{SortOrder: domain.Some(i)}, now); err != nil {
			return fmt.Errorf("reordering task %s: %w", id, err)
		}
	}
	return nil
}

func (s *taskService) MoveToLibrary(ctx context.Context, ownerID, id string, inLibrary bool) error {
	return s.tasks.Update(ctx, ownerID, id, domain.TaskPatch{IsInLibrary: domain.Some(inLibrary)}, time.Now().UTC())
}

func completionDate(completed bool, now time.Time) *time.Time {
	if !completed {
		return nil
	}
	return &now
}
