package service

import (
	"context"
	"time"

	"github.com/alexanderramin/tasker/internal/domain"
)

// Every operation takes the caller's owner id, obtained from the identity
// boundary, as an opaque scoping key.

type TaskService interface {
	Create(ctx context.Context, ownerID string, t *domain.Task) error
	// Append creates t at the end of its siblings.
	Append(ctx context.Context, ownerID string, t *domain.Task) error
	AddSubtask(ctx context.Context, ownerID, parentID, title string) (*domain.Task, error)
	Get(ctx context.Context, ownerID, id string) (*domain.Task, error)
	Update(ctx context.Context, ownerID, id string, p domain.TaskPatch) (*domain.Task, error)
	Delete(ctx context.Context, ownerID, id string) error
	List(ctx context.Context, ownerID string, f domain.TaskFilter) ([]*domain.Task, error)
	ListSubtasks(ctx context.Context, ownerID, parentID string) ([]*domain.Task, error)
	SetCompleted(ctx context.Context, ownerID, id string, completed bool) (*domain.Task, error)
	RestoreSubtaskStates(ctx context.Context, ownerID, parentID string, states []bool) error
	UndoCompletion(ctx context.Context, ownerID, id string) (*domain.Task, error)
	Reorder(ctx context.Context, ownerID string, ids []string) error
	MoveToLibrary(ctx context.Context, ownerID, id string, inLibrary bool) error
}

type CategoryService interface {
	Create(ctx context.Context, ownerID, name string) (*domain.Category, error)
	Get(ctx context.Context, ownerID, id string) (*domain.Category, error)
	List(ctx context.Context, ownerID string) ([]*domain.Category, error)
	Rename(ctx context.Context, ownerID, id, name string) (*domain.Category, error)
	Update(ctx context.Context, ownerID, id string, p domain.CategoryPatch) (*domain.Category, error)
	Delete(ctx context.Context, ownerID, id string) error
	Reorder(ctx context.Context, ownerID string, ids []string) error
}

type CommitmentService interface {
	Commit(ctx context.Context, ownerID string, c *domain.Commitment) error
	Get(ctx context.Context, ownerID, id string) (*domain.Commitment, error)
	List(ctx context.Context, ownerID string, f domain.CommitmentFilter) ([]*domain.Commitment, error)
	Update(ctx context.Context, ownerID, id string, p domain.CommitmentPatch) (*domain.Commitment, error)
	Delete(ctx context.Context, ownerID, id string) error
	// Breakdown commits the parent's task to a finer timeframe inside the
	// parent's period, linked to the parent.
	Breakdown(ctx context.Context, ownerID, parentID string, tf domain.Timeframe, date time.Time, section domain.Section) (*domain.Commitment, error)
	ListChildren(ctx context.Context, ownerID, parentID string) ([]*domain.Commitment, error)
	Schedule(ctx context.Context, ownerID, id string, at *domain.TimeOfDay, durationMinutes *int) (*domain.Commitment, error)
	Reorder(ctx context.Context, ownerID string, ids []string) error
}
