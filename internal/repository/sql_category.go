package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/tasker/internal/db"
	"github.com/alexanderramin/tasker/internal/domain"
)

// SQLCategoryRepo implements CategoryRepo.
type SQLCategoryRepo struct {
	db db.DBTX
}

func NewSQLCategoryRepo(conn db.DBTX) *SQLCategoryRepo {
	return &SQLCategoryRepo{db: conn}
}

func (r *SQLCategoryRepo) Create(ctx context.Context, c *domain.Category) error {
	byField := map[domain.CategoryField]any{
		domain.CategoryFieldID:          c.ID,
		domain.CategoryFieldOwnerID:     c.OwnerID,
		domain.CategoryFieldName:        c.Name,
		domain.CategoryFieldSortOrder:   c.SortOrder,
		domain.CategoryFieldType:        c.Type,
		domain.CategoryFieldCreatedDate: formatTimestamp(c.CreatedDate),
	}
	args := make([]any, len(domain.CategoryFields))
	for i, f := range domain.CategoryFields {
		args[i] = byField[f]
	}

	query := `INSERT INTO categories (` + categoryColumnList + `) VALUES (` + placeholders(len(args)) + `)`
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("inserting category: %w", db.Classify(err))
	}
	return nil
}

func (r *SQLCategoryRepo) GetByID(ctx context.Context, ownerID, id string) (*domain.Category, error) {
	query := `SELECT ` + categoryColumnList + ` FROM categories WHERE id = ? AND user_id = ?`
	c, err := scanCategory(r.db.QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("category %s: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}
	return c, nil
}

func (r *SQLCategoryRepo) List(ctx context.Context, ownerID string) ([]*domain.Category, error) {
	query := `SELECT ` + categoryColumnList + ` FROM categories WHERE user_id = ?` + orderBySiblings
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", db.Classify(err))
	}
	defer rows.Close()

	categories := []*domain.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating categories: %w", db.Classify(err))
	}
	return categories, nil
}

func (r *SQLCategoryRepo) MaxSortOrder(ctx context.Context, ownerID string) (*int, error) {
	var maxOrder sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		`SELECT MAX(sort_order) FROM categories WHERE user_id = ?`, ownerID).Scan(&maxOrder)
	if err != nil {
		return nil, fmt.Errorf("reading max category sort order: %w", db.Classify(err))
	}
	return intFromNull(maxOrder), nil
}

func (r *SQLCategoryRepo) Update(ctx context.Context, ownerID, id string, p domain.CategoryPatch) error {
	set := &assignments{}
	if p.Name.Present {
		set.set(categoryColumns[domain.CategoryFieldName], p.Name.Value)
	}
	if p.SortOrder.Present {
		set.set(categoryColumns[domain.CategoryFieldSortOrder], p.SortOrder.Value)
	}
	if p.Type.Present {
		set.set(categoryColumns[domain.CategoryFieldType], p.Type.Value)
	}
	if set.empty() {
		return fmt.Errorf("%w: nothing to update", domain.ErrInvalidInput)
	}

	query := `UPDATE categories SET ` + set.String() + ` WHERE id = ? AND user_id = ?`
	res, err := r.db.ExecContext(ctx, query, append(set.args, id, ownerID)...)
	if err != nil {
		return fmt.Errorf("updating category: %w", db.Classify(err))
	}
	return requireAffected(res, "category", id)
}

// Delete removes the category. Tasks referencing it keep existing with the
// reference cleared by the foreign key.
func (r *SQLCategoryRepo) Delete(ctx context.Context, ownerID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ? AND user_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("deleting category: %w", db.Classify(err))
	}
	return requireAffected(res, "category", id)
}

func scanCategory(s scanner) (*domain.Category, error) {
	var c domain.Category
	var created string
	byField := map[domain.CategoryField]any{
		domain.CategoryFieldID:          &c.ID,
		domain.CategoryFieldOwnerID:     &c.OwnerID,
		domain.CategoryFieldName:        &c.Name,
		domain.CategoryFieldSortOrder:   &c.SortOrder,
		domain.CategoryFieldType:        &c.Type,
		domain.CategoryFieldCreatedDate: &created,
	}
	dest := make([]any, len(domain.CategoryFields))
	for i, f := range domain.CategoryFields {
		dest[i] = byField[f]
	}
	if err := s.Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning category: %w", db.Classify(err))
	}
	var err error
	if c.CreatedDate, err = parseTimestamp(created); err != nil {
		return nil, fmt.Errorf("parsing created_date: %w", err)
	}
	return &c, nil
}
