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

// SQLCommitmentRepo implements CommitmentRepo.
type SQLCommitmentRepo struct {
	db db.DBTX
}

func NewSQLCommitmentRepo(conn db.DBTX) *SQLCommitmentRepo {
	return &SQLCommitmentRepo{db: conn}
}

func commitmentCol(f domain.CommitmentField) string {
	return commitmentColumns[f]
}

func (r *SQLCommitmentRepo) Create(ctx context.Context, c *domain.Commitment) error {
	byField := map[domain.CommitmentField]any{
		domain.CommitmentFieldID:                 c.ID,
		domain.CommitmentFieldOwnerID:            c.OwnerID,
		domain.CommitmentFieldTaskID:             c.TaskID,
		domain.CommitmentFieldTimeframe:          string(c.Timeframe),
		domain.CommitmentFieldSection:            string(c.Section),
		domain.CommitmentFieldCommitmentDate:     c.CommitmentDate.Format(dateLayout),
		domain.CommitmentFieldSortOrder:          c.SortOrder,
		domain.CommitmentFieldCreatedDate:        formatTimestamp(c.CreatedDate),
		domain.CommitmentFieldParentCommitmentID: nullableString(c.ParentCommitmentID),
		domain.CommitmentFieldScheduledTime:      nullableTimeOfDay(c.ScheduledTime),
		domain.CommitmentFieldDurationMinutes:    nullableIntToValue(c.DurationMinutes),
	}
	args := make([]any, len(domain.CommitmentFields))
	for i, f := range domain.CommitmentFields {
		args[i] = byField[f]
	}

	query := `INSERT INTO commitments (` + commitmentColumnList + `) VALUES (` + placeholders(len(args)) + `)`
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("inserting commitment: %w", db.Classify(err))
	}
	return nil
}

func (r *SQLCommitmentRepo) GetByID(ctx context.Context, ownerID, id string) (*domain.Commitment, error) {
	query := `SELECT ` + commitmentColumnList + ` FROM commitments WHERE id = ? AND user_id = ?`
	c, err := scanCommitment(r.db.QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("commitment %s: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}
	return c, nil
}

func (r *SQLCommitmentRepo) List(ctx context.Context, ownerID string, f domain.CommitmentFilter) ([]*domain.Commitment, error) {
	w := &where{}
	w.add(commitmentCol(domain.CommitmentFieldOwnerID)+" = ?", ownerID)
	if f.TaskID != nil {
		w.add(commitmentCol(domain.CommitmentFieldTaskID)+" = ?", *f.TaskID)
	}
	if f.Timeframe != nil {
		w.add(commitmentCol(domain.CommitmentFieldTimeframe)+" = ?", string(*f.Timeframe))
	}
	if f.Section != nil {
		w.add(commitmentCol(domain.CommitmentFieldSection)+" = ?", string(*f.Section))
	}
	if f.Date != nil {
		w.add(commitmentCol(domain.CommitmentFieldCommitmentDate)+" = ?", f.Date.Format(dateLayout))
	}
	if f.DateFrom != nil {
		w.add(commitmentCol(domain.CommitmentFieldCommitmentDate)+" >= ?", f.DateFrom.Format(dateLayout))
	}
	if f.DateTo != nil {
		w.add(commitmentCol(domain.CommitmentFieldCommitmentDate)+" < ?", f.DateTo.Format(dateLayout))
	}
	if f.ParentCommitmentID.Present {
		w.nullableEq(commitmentCol(domain.CommitmentFieldParentCommitmentID), f.ParentCommitmentID.Value)
	}

	query := `SELECT ` + commitmentColumnList + ` FROM commitments` + w.String() + orderBySiblings
	rows, err := r.db.QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("listing commitments: %w", db.Classify(err))
	}
	defer rows.Close()

	commitments := []*domain.Commitment{}
	for rows.Next() {
		c, err := scanCommitment(rows)
		if err != nil {
			return nil, err
		}
		commitments = append(commitments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating commitments: %w", db.Classify(err))
	}
	return commitments, nil
}

func (r *SQLCommitmentRepo) MaxSortOrder(ctx context.Context, ownerID string, tf domain.Timeframe, date time.Time, section domain.Section) (*int, error) {
	query := `SELECT MAX(sort_order) FROM commitments
		WHERE user_id = ? AND timeframe = ? AND commitment_date = ? AND section = ?`
	var maxOrder sql.NullInt64
	err := r.db.QueryRowContext(ctx, query, ownerID, string(tf), date.Format(dateLayout), string(section)).Scan(&maxOrder)
	if err != nil {
		return nil, fmt.Errorf("reading max commitment sort order: %w", db.Classify(err))
	}
	return intFromNull(maxOrder), nil
}

func (r *SQLCommitmentRepo) Update(ctx context.Context, ownerID, id string, p domain.CommitmentPatch) error {
	set := &assignments{}
	if p.Section.Present {
		set.set(commitmentCol(domain.CommitmentFieldSection), string(p.Section.Value))
	}
	if p.CommitmentDate.Present {
		set.set(commitmentCol(domain.CommitmentFieldCommitmentDate), p.CommitmentDate.Value.Format(dateLayout))
	}
	if p.SortOrder.Present {
		set.set(commitmentCol(domain.CommitmentFieldSortOrder), p.SortOrder.Value)
	}
	if p.ScheduledTime.Present {
		set.set(commitmentCol(domain.CommitmentFieldScheduledTime), nullableTimeOfDay(p.ScheduledTime.Value))
	}
	if p.DurationMinutes.Present {
		set.set(commitmentCol(domain.CommitmentFieldDurationMinutes), nullableIntToValue(p.DurationMinutes.Value))
	}
	if set.empty() {
		return fmt.Errorf("%w: nothing to update", domain.ErrInvalidInput)
	}

	query := `UPDATE commitments SET ` + set.String() + ` WHERE id = ? AND user_id = ?`
	res, err := r.db.ExecContext(ctx, query, append(set.args, id, ownerID)...)
	if err != nil {
		return fmt.Errorf("updating commitment: %w", db.Classify(err))
	}
	return requireAffected(res, "commitment", id)
}

func (r *SQLCommitmentRepo) Delete(ctx context.Context, ownerID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM commitments WHERE id = ? AND user_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("deleting commitment: %w", db.Classify(err))
	}
	return requireAffected(res, "commitment", id)
}

func nullableTimeOfDay(t *domain.TimeOfDay) any {
	if t == nil {
		return nil
	}
	return t.String()
}

func scanCommitment(s scanner) (*domain.Commitment, error) {
	var c domain.Commitment
	var timeframe, section, date, created string
	var parentID, scheduled sql.NullString
	var duration sql.NullInt64

	byField := map[domain.CommitmentField]any{
		domain.CommitmentFieldID:                 &c.ID,
		domain.CommitmentFieldOwnerID:            &c.OwnerID,
		domain.CommitmentFieldTaskID:             &c.TaskID,
		domain.CommitmentFieldTimeframe:          &timeframe,
		domain.CommitmentFieldSection:            &section,
		domain.CommitmentFieldCommitmentDate:     &date,
		domain.CommitmentFieldSortOrder:          &c.SortOrder,
		domain.CommitmentFieldCreatedDate:        &created,
		domain.CommitmentFieldParentCommitmentID: &parentID,
		domain.CommitmentFieldScheduledTime:      &scheduled,
		domain.CommitmentFieldDurationMinutes:    &duration,
	}
	dest := make([]any, len(domain.CommitmentFields))
	for i, f := range domain.CommitmentFields {
		dest[i] = byField[f]
	}
	if err := s.Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning commitment: %w", db.Classify(err))
	}

	c.Timeframe = domain.Timeframe(timeframe)
	c.Section = domain.Section(section)
	c.ParentCommitmentID = stringFromNull(parentID)
	c.DurationMinutes = intFromNull(duration)

	var err error
	if c.CommitmentDate, err = time.Parse(dateLayout, date); err != nil {
		return nil, fmt.Errorf("parsing commitment_date: %w", err)
	}
	if c.CreatedDate, err = parseTimestamp(created); err != nil {
		return nil, fmt.Errorf("parsing created_date: %w", err)
	}
	if scheduled.Valid && scheduled.String != "" {
		tod, err := domain.ParseTimeOfDay(scheduled.String)
		if err != nil {
			return nil, fmt.Errorf("parsing scheduled_time: %w", err)
		}
		c.ScheduledTime = &tod
	}
	return &c, nil
}
