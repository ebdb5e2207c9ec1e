package sales

import (
	"context"
	"errors"
	"strings"

	"github.com/bizledger/backend/internal/domain/sales"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SequenceSource returns the highest sequence issued under prefix in the company
type SequenceSource func(ctx context.Context, companyID uuid.UUID, prefix string) (int64, error)

// NumberAllocator issues per-company document numbers.
//
// Automatic numbers are proposed as highest+1 and retried when a concurrent
// writer took the same number first. A number chosen by the client is used
// as is and a collision is reported straight back.
type NumberAllocator struct {
	maxRetries int
	logger     *zap.Logger
}

// NewNumberAllocator creates a NumberAllocator. maxRetries is the total number of attempts.
func NewNumberAllocator(maxRetries int, logger *zap.Logger) *NumberAllocator {
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &NumberAllocator{maxRetries: maxRetries, logger: logger}
}

// Allocate stores a document under a number and returns the number used.
// create must persist the document and return sales.ErrNumberTaken on a duplicate.
func (a *NumberAllocator) Allocate(
	ctx context.Context,
	companyID uuid.UUID,
	prefix, explicit string,
	highest SequenceSource,
	create func(number string) error,
) (string, error) {
	if strings.TrimSpace(explicit) != "" {
		number := sales.NormalizeNumber(explicit)
		if err := create(number); err != nil {
			return "", err
		}
		return number, nil
	}

	var lastErr error
	for attempt := 1; attempt <= a.maxRetries; attempt++ {
		seq, err := highest(ctx, companyID, prefix)
		if err != nil {
			return "", err
		}
		number := sales.NextNumber(prefix, seq)

		err = create(number)
		if err == nil {
			return number, nil
		}
		if !errors.Is(err, sales.ErrNumberTaken) {
			return "", err
		}
		lastErr = err
		a.logger.Warn("Document number collision, retrying",
			zap.String("company_id", companyID.String()),
			zap.String("number", number),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", a.maxRetries))
	}
	return "", lastErr
}
