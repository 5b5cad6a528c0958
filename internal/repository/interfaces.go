package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/tasker/internal/domain"
)

// Every owned-record method takes the owner id and scopes each statement to
// it. A row owned by someone else is indistinguishable from a missing one.

type TaskRepo interface {
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, ownerID, id string) (*domain.Task, error)
	List(ctx context.Context, ownerID string, f domain.TaskFilter) ([]*domain.Task, error)
	// MaxSortOrder returns the largest sort order among rows matching f, or
	// nil when there are none.
	MaxSortOrder(ctx context.Context, ownerID string, f domain.TaskFilter) (*int, error)
	Update(ctx context.Context, ownerID, id string, p domain.TaskPatch, modified time.Time) error
	Delete(ctx context.Context, ownerID, id string) error
}

type CategoryRepo interface {
	Create(ctx context.Context, c *domain.Category) error
	GetByID(ctx context.Context, ownerID, id string) (*domain.Category, error)
	List(ctx context.Context, ownerID string) ([]*domain.Category, error)
	MaxSortOrder(ctx context.Context, ownerID string) (*int, error)
	Update(ctx context.Context, ownerID, id string, p domain.CategoryPatch) error
	Delete(ctx context.Context, ownerID, id string) error
}

type CommitmentRepo interface {
	Create(ctx context.Context, c *domain.Commitment) error
	GetByID(ctx context.Context, ownerID, id string) (*domain.Commitment, error)
	List(ctx context.Context, ownerID string, f domain.CommitmentFilter) ([]*domain.Commitment, error)
	// MaxSortOrder returns the largest sort order within one planning slot
	// (timeframe, date, section), or nil when the slot is empty.
	MaxSortOrder(ctx context.Context, ownerID string, tf domain.Timeframe, date time.Time, section domain.Section) (*int, error)
	Update(ctx context.Context, ownerID, id string, p domain.CommitmentPatch) error
	Delete(ctx context.Context, ownerID, id string) error
}

type UserRepo interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdatePasswordHash(ctx context.Context, id, hash string) error
}

type IdentityRepo interface {
	Create(ctx context.Context, i *domain.Identity) error
	Get(ctx context.Context, provider domain.IdentityProvider, subject string) (*domain.Identity, error)
}

type PasswordResetRepo interface {
	Create(ctx context.Context, r *domain.PasswordReset) error
	GetByHash(ctx context.Context, tokenHash string) (*domain.PasswordReset, error)
	MarkUsed(ctx context.Context, tokenHash string, at time.Time) error
}

// RevokedTokenRepo persists signed-out session ids until they expire.
type RevokedTokenRepo interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string, now time.Time) (bool, error)
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}
