package identity

import (
	"context"

	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// UserFilter narrows user listings
type UserFilter struct {
	shared.Filter
	Role   *Role
	Active *bool
}

// UserRepository persists users
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*User, error)
	// FindByEmail looks a user up across companies; emails are globally unique for sign-in.
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter UserFilter) ([]User, int64, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Save(ctx context.Context, user *User) error
	DeleteForCompany(ctx context.Context, companyID, id uuid.UUID) error
}
