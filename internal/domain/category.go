package domain

import (
	"fmt"
	"strings"
	"time"
)

// Category is a user-defined named tag. Name is unique per owner.
type Category struct {
	ID          string
	OwnerID     string
	Name        string
	SortOrder   int
	Type        string // legacy, stored but never filtered on
	CreatedDate time.Time
}

func (c *Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: category name is required", ErrInvalidInput)
	}
	return nil
}

type CategoryPatch struct {
	Name      Optional[string]
	SortOrder Optional[int]
	Type      Optional[string]
}

func (p CategoryPatch) Empty() bool {
	return !p.Name.Present && !p.SortOrder.Present && !p.Type.Present
}

func (p CategoryPatch) Validate() error {
	if p.Name.Present && strings.TrimSpace(p.Name.Value) == "" {
		return fmt.Errorf("%w: category name cannot be blank", ErrInvalidInput)
	}
	return nil
}
