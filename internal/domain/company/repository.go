package company

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists companies
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Company, error)
	FindAllActive(ctx context.Context) ([]Company, error)
	Save(ctx context.Context, c *Company) error
}
