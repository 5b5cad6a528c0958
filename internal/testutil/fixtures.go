package testutil

import (
	"time"

	"github.com/alexanderramin/tasker/internal/domain"
	"github.com/google/uuid"
)

// Task options
type TaskOption func(*domain.Task)

func WithTaskType(typ domain.TaskType) TaskOption {
	return func(t *domain.Task) {
		t.Type = typ
	}
}

func WithParentTask(id string) TaskOption {
	return func(t *domain.Task) {
		t.ParentTaskID = &id
	}
}

func WithProject(id string) TaskOption {
	return func(t *domain.Task) {
		t.ProjectID = &id
	}
}

func WithCategory(id string) TaskOption {
	return func(t *domain.Task) {
		t.CategoryID = &id
	}
}

func WithSortOrder(n int) TaskOption {
	return func(t *domain.Task) {
		t.SortOrder = n
	}
}

func WithPriority(p domain.Priority) TaskOption {
	return func(t *domain.Task) {
		t.Priority = p
	}
}

func WithDescription(d string) TaskOption {
	return func(t *domain.Task) {
		t.Description = &d
	}
}

// WithCompleted marks the task completed at the given time.
func WithCompleted(at time.Time) TaskOption {
	return func(t *domain.Task) {
		t.IsCompleted = true
		t.CompletedDate = &at
	}
}

func WithCreatedDate(at time.Time) TaskOption {
	return func(t *domain.Task) {
		t.CreatedDate = at
		t.ModifiedDate = at
	}
}

func WithInLibrary() TaskOption {
	return func(t *domain.Task) {
		t.IsInLibrary = true
	}
}

func NewTestTask(ownerID, title string, opts ...TaskOption) *domain.Task {
	now := time.Now().UTC()
	t := &domain.Task{
		ID:           uuid.New().String(),
		OwnerID:      ownerID,
		Title:        title,
		Type:         domain.TaskTypeTask,
		Priority:     domain.PriorityMedium,
		CreatedDate:  now,
		ModifiedDate: now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func NewTestCategory(ownerID, name string) *domain.Category {
	return &domain.Category{
		ID:          uuid.New().String(),
		OwnerID:     ownerID,
		Name:        name,
		CreatedDate: time.Now().UTC(),
	}
}

// Commitment options
type CommitmentOption func(*domain.Commitment)

func WithTimeframe(tf domain.Timeframe) CommitmentOption {
	return func(c *domain.Commitment) {
		c.Timeframe = tf
	}
}

func WithSection(s domain.Section) CommitmentOption {
	return func(c *domain.Commitment) {
		c.Section = s
	}
}

func WithCommitmentDate(d time.Time) CommitmentOption {
	return func(c *domain.Commitment) {
		c.CommitmentDate = d
	}
}

func WithParentCommitment(id string) CommitmentOption {
	return func(c *domain.Commitment) {
		c.ParentCommitmentID = &id
	}
}

// NewTestCommitment creates a daily target commitment for today.
func NewTestCommitment(ownerID, taskID string, opts ...CommitmentOption) *domain.Commitment {
	now := time.Now().UTC()
	c := &domain.Commitment{
		ID:             uuid.New().String(),
		OwnerID:        ownerID,
		TaskID:         taskID,
		Timeframe:      domain.TimeframeDaily,
		Section:        domain.SectionTarget,
		CommitmentDate: domain.TimeframeDaily.PeriodStart(now),
		CreatedDate:    now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewOwnerID returns a fresh opaque owner id.
func NewOwnerID() string {
	return uuid.New().String()
}
