package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/tasker/internal/domain"
	"github.com/alexanderramin/tasker/internal/repository"
	"github.com/google/uuid"
)

type commitmentService struct {
	commitments repository.CommitmentRepo
	tasks       repository.TaskRepo
	observer    UseCaseObserver
}

func NewCommitmentService(commitments repository.CommitmentRepo, tasks repository.TaskRepo, observers ...UseCaseObserver) CommitmentService {
	return &commitmentService{
		commitments: commitments,
		tasks:       tasks,
		observer:    useCaseObserverOrNoop(observers),
	}
}

// Commit places a task into a planning slot. The date is normalized to the
// start of its timeframe period and the commitment is appended to the slot.
func (s *commitmentService) Commit(ctx context.Context, ownerID string, c *domain.Commitment) (err error) {
	fields := map[string]any{"timeframe": string(c.Timeframe)}
	defer observe(ctx, s.observer, "commitment-commit", time.Now().UTC(), fields, &err)

	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	c.OwnerID = ownerID
	c.CreatedDate = time.Now().UTC()
	if c.Section == "" {
		c.Section = domain.SectionTodo
	}
	if err = c.Validate(); err != nil {
		return err
	}
	c.CommitmentDate = c.Timeframe.PeriodStart(c.CommitmentDate)

	if _, err = s.tasks.GetByID(ctx, ownerID, c.TaskID); err != nil {
		return err
	}

	var maxOrder *int
	maxOrder, err = s.commitments.MaxSortOrder(ctx, ownerID, c.Timeframe, c.CommitmentDate, c.Section)
	if err != nil {
		return fmt.Errorf("computing next sort order: %w", err)
	}
	c.SortOrder = 0
	if maxOrder != nil {
		c.SortOrder = *maxOrder + 1
	}
	fields["date"] = c.CommitmentDate.Format("2006-01-02")
	return s.commitments.Create(ctx, c)
}

func (s *commitmentService) Get(ctx context.Context, ownerID, id string) (*domain.Commitment, error) {
	return s.commitments.GetByID(ctx, ownerID, id)
}

func (s *commitmentService) List(ctx context.Context, ownerID string, f domain.CommitmentFilter) ([]*domain.Commitment, error) {
	if f.Date != nil && f.Timeframe != nil {
		d := f.Timeframe.PeriodStart(*f.Date)
		f.Date = &d
	}
	return s.commitments.List(ctx, ownerID, f)
}

func (s *commitmentService) Update(ctx context.Context, ownerID, id string, p domain.CommitmentPatch) (c *domain.Commitment, err error) {
	defer observe(ctx, s.observer, "commitment-update", time.Now().UTC(), map[string]any{"commitment_id": id}, &err)

	if p.Empty() {
		return nil, fmt.Errorf("%w: nothing to update", domain.ErrInvalidInput)
	}
	if err = p.Validate(); err != nil {
		return nil, err
	}
	if p.CommitmentDate.Present {
		var existing *domain.Commitment
		if existing, err = s.commitments.GetByID(ctx, ownerID, id); err != nil {
			return nil, err
		}
		p.CommitmentDate.Value = existing.Timeframe.PeriodStart(p.CommitmentDate.Value)
	}
	if err = s.commitments.Update(ctx, ownerID, id, p); err != nil {
		return nil, err
	}
	return s.commitments.GetByID(ctx, ownerID, id)
}

func (s *commitmentService) Delete(ctx context.Context, ownerID, id string) (err error) {
	defer observe(ctx, s.observer, "commitment-delete", time.Now().UTC(), map[string]any{"commitment_id": id}, &err)
	return s.commitments.Delete(ctx, ownerID, id)
}

func (s *commitmentService) Breakdown(ctx context.Context, ownerID, parentID string, tf domain.Timeframe, date time.Time, section domain.Section) (*domain.Commitment, error) {
	parent, err := s.commitments.GetByID(ctx, ownerID, parentID)
	if err != nil {
		return nil, err
	}
	if !tf.FinerThan(parent.Timeframe) {
		return nil, fmt.Errorf("%w: %s is not finer than %s", domain.ErrInvalidInput, tf, parent.Timeframe)
	}
	if !parent.Timeframe.Contains(parent.CommitmentDate, date) {
		return nil, fmt.Errorf("%w: %s is outside the %s period starting %s", domain.ErrInvalidInput,
			date.Format("2006-01-02"), parent.Timeframe, parent.CommitmentDate.Format("2006-01-02"))
	}
	child := &domain.Commitment{
		TaskID:             parent.TaskID,
		Timeframe:          tf,
		Section:            section,
		CommitmentDate:     date,
		ParentCommitmentID: &parent.ID,
	}
	if err := s.Commit(ctx, ownerID, child); err != nil {
		return nil, err
	}
	return child, nil
}

func (s *commitmentService) ListChildren(ctx context.Context, ownerID, parentID string) ([]*domain.Commitment, error) {
	if _, err := s.commitments.GetByID(ctx, ownerID, parentID); err != nil {
		return nil, err
	}
	return s.commitments.List(ctx, ownerID, domain.CommitmentFilter{ParentCommitmentID: domain.Some(&parentID)})
}

// Schedule places a commitment on the day timeline. A nil time clears the
// placement.
func (s *commitmentService) Schedule(ctx context.Context, ownerID, id string, at *domain.TimeOfDay, durationMinutes *int) (*domain.Commitment, error) {
	return s.Update(ctx, ownerID, id, domain.CommitmentPatch{
		ScheduledTime:   domain.Some(at),
		DurationMinutes: domain.Some(durationMinutes),
	})
}

func (s *commitmentService) Reorder(ctx context.Context, ownerID string, ids []string) error {
	for i, id := range ids {
		if err := s.commitments.Update(ctx, ownerID, id, domain.CommitmentPatch{SortOrder: domain.Some(i)}); err != nil {
			return fmt.Errorf("reordering commitment %s: %w", id, err)
		}
	}
	return nil
}
