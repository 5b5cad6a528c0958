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

type categoryService struct {
	categories repository.CategoryRepo
	observer   UseCaseObserver
}

func NewCategoryService(categories repository.CategoryRepo, observers ...UseCaseObserver) CategoryService {
	return &categoryService{
		categories: categories,
		observer:   useCaseObserverOrNoop(observers),
	}
}

// Create appends a category after the owner's existing ones.
func (s *categoryService) Create(ctx context.Context, ownerID, name string) (c *domain.Category, err error) {
	defer observe(ctx, s.observer, "category-create", time.Now().UTC(), map[string]any{"name": name}, &err)

	c = &domain.Category{
		ID:          uuid.New().String(),
		OwnerID:     ownerID,
		Name:        strings.TrimSpace(name),
		CreatedDate: time.Now().UTC(),
	}
	if err = c.Validate(); err != nil {
		return nil, err
	}
	var maxOrder *int
	if maxOrder, err = s.categories.MaxSortOrder(ctx, ownerID); err != nil {
		return nil, fmt.Errorf("computing next sort order: %w", err)
	}
	if maxOrder != nil {
		c.SortOrder = *maxOrder + 1
	}
	if err = s.categories.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *categoryService) Get(ctx context.Context, ownerID, id string) (*domain.Category, error) {
	return s.categories.GetByID(ctx, ownerID, id)
}

func (s *categoryService) List(ctx context.Context, ownerID string) ([]*domain.Category, error) {
	return s.categories.List(ctx, ownerID)
}

func (s *categoryService) Rename(ctx context.Context, ownerID, id, name string) (*domain.Category, error) {
	return s.Update(ctx, ownerID, id, domain.CategoryPatch{Name: domain.Some(name)})
}

func (s *categoryService) Update(ctx context.Context, ownerID, id string, p domain.CategoryPatch) (c *domain.Category, err error) {
	defer observe(ctx, s.observer, "category-update", time.Now().UTC(), map[string]any{"category_id": id}, &err)

	if p.Empty() {
		return nil, fmt.Errorf("%w: nothing to update", domain.ErrInvalidInput)
	}
	if err = p.Validate(); err != nil {
		return nil, err
	}
	if p.Name.Present {
		p.Name.Value = strings.TrimSpace(p.Name.Value)
	}
	if err = s.categories.Update(ctx, ownerID, id, p); err != nil {
		return nil, err
	}
	return s.categories.GetByID(ctx, ownerID, id)
}

// Delete removes the category; tasks tagged with it keep existing untagged.
func (s *categoryService) Delete(ctx context.Context, ownerID, id string) (err error) {
	defer observe(ctx, s.observer, "category-delete", time.Now().UTC(), map[string]any{"category_id": id}, &err)
	return s.categories.Delete(ctx, ownerID, id)
}

func (s *categoryService) Reorder(ctx context.Context, ownerID string, ids []string) error {
	for i, id := range ids {
		if err := s.categories.Update(ctx, ownerID, id, domain.CategoryPatch{SortOrder: domain.Some(i)}); err != nil {
			return fmt.Errorf("reordering category %s: %w", id, err)
		}
	}
	return nil
}
