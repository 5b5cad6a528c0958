package domain

import (
	"fmt"
	"time"
)

// Commitment binds a task to a planning timeframe, date and section.
type Commitment struct {
	ID                 string
	OwnerID            string
	TaskID             string
	Timeframe          Timeframe
	Section            Section
	CommitmentDate     time.Time
	SortOrder          int
	CreatedDate        time.Time
	ParentCommitmentID *string

	// Timeline placement.
	ScheduledTime   *TimeOfDay
	DurationMinutes *int
}

func (c *Commitment) Validate() error {
	if c.TaskID == "" {
		return fmt.Errorf("%w: commitment task is required", ErrInvalidInput)
	}
	if _, ok := timeframeRank[c.Timeframe]; !ok {
		return fmt.Errorf("%w: unknown timeframe %q", ErrInvalidInput, c.Timeframe)
	}
	if c.Section != SectionTarget && c.Section != SectionTodo {
		return fmt.Errorf("%w: unknown section %q", ErrInvalidInput, c.Section)
	}
	if c.CommitmentDate.IsZero() {
		return fmt.Errorf("%w: commitment date is required", ErrInvalidInput)
	}
	if c.DurationMinutes != nil && *c.DurationMinutes <= 0 {
		return fmt.Errorf("%w: duration must be positive", ErrInvalidInput)
	}
	return nil
}

type CommitmentPatch struct {
	Section         Optional[Section]
	CommitmentDate  Optional[time.Time]
	SortOrder       Optional[int]
	ScheduledTime   Optional[*TimeOfDay]
	DurationMinutes Optional[*int]
}

func (p CommitmentPatch) Empty() bool {
	return !p.Section.Present && !p.CommitmentDate.Present && !p.SortOrder.Present &&
		!p.ScheduledTime.Present && !p.DurationMinutes.Present
}

func (p CommitmentPatch) Validate() error {
	if p.Section.Present && p.Section.Value != SectionTarget && p.Section.Value != SectionTodo {
		return fmt.Errorf("%w: unknown section %q", ErrInvalidInput, p.Section.Value)
	}
	if p.DurationMinutes.Present && p.DurationMinutes.Value != nil && *p.DurationMinutes.Value <= 0 {
		return fmt.Errorf("%w: duration must be positive", ErrInvalidInput)
	}
	return nil
}

// CommitmentFilter selects owned commitments. DateFrom is inclusive, DateTo
// exclusive.
type CommitmentFilter struct {
	TaskID             *string
	Timeframe          *Timeframe
	Section            *Section
	Date               *time.Time
	DateFrom           *time.Time
	DateTo             *time.Time
	ParentCommitmentID Optional[*string]
}
