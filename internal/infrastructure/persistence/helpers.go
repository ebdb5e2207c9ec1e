package persistence

import (
	"context"
	"math"

	"github.com/bizledger/backend/internal/domain/sales"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/bizledger/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const sequenceBatch = 50

// saveScoped updates a company-owned row in place, or inserts it when no row
// with that id exists. When versioned, the update only lands over an older
// stored version; a stale write returns shared.ErrConcurrencyConflict.
func saveScoped(ctx context.Context, db *gorm.DB, companyID, id uuid.UUID, version int, versioned bool, model any) error {
	q := db.WithContext(ctx).Scopes(tenant.Scope(companyID)).Where("id = ?", id)
	if versioned {
		q = q.Where("version < ?", version)
	}
	res := q.Select("*").Updates(model)
	if res.Error != nil {
		return translateWriteError(res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := db.WithContext(ctx).Model(model).
		Scopes(tenant.Scope(companyID)).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		if versioned {
			return shared.ErrConcurrencyConflict
		}
		return nil
	}
	return translateWriteError(db.WithContext(ctx).Create(model).Error)
}

// deleteScoped removes one company-owned row, returning shared.ErrNotFound when nothing matched
func deleteScoped(ctx context.Context, db *gorm.DB, companyID, id uuid.UUID, model any) error {
	res := db.WithContext(ctx).Scopes(tenant.Scope(companyID)).Where("id = ?", id).Delete(model)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// applyDateRange narrows column to the inclusive window of dates
func applyDateRange(q *gorm.DB, column string, dates shared.DateRange) *gorm.DB {
	if dates.From != nil {
		q = q.Where(column+" >= ?", *dates.From)
	}
	if dates.To != nil {
		q = q.Where(column+" <= ?", *dates.To)
	}
	return q
}

// maxSequence finds the highest numeric suffix among a company's document
// numbers issued under prefix. Numbers are grouped by length, longest first;
// inside a group, lexical order of all-digit suffixes is numeric order, so the
// first parseable number of a group is that group's maximum. Shorter groups
// are only read while they could still hold a larger value.
func maxSequence(ctx context.Context, db *gorm.DB, model any, column string, companyID uuid.UUID, prefix string) (int64, error) {
	prefix = sales.NormalizeNumber(prefix)
	pattern := escapeLike(prefix) + "%"
	length := "LENGTH(" + column + ")"

	base := func() *gorm.DB {
		return db.WithContext(ctx).Model(model).
			Scopes(tenant.Scope(companyID)).
			Where(column+" LIKE ? ESCAPE '\\'", pattern)
	}

	var lengths []int
	if err := base().Select(length).Group(length).Order(length + " DESC").Pluck(length, &lengths).Error; err != nil {
		return 0, err
	}

	best := int64(0)
	for _, l := range lengths {
		width := l - len(prefix)
		if width <= 0 || maxForWidth(width) <= best {
			break
		}
		seq, found, err := firstSequenceOfLength(base, column, length, l, prefix)
		if err != nil {
			return 0, err
		}
		if found && seq > best {
			best = seq
		}
	}
	return best, nil
}

func firstSequenceOfLength(base func() *gorm.DB, column, length string, l int, prefix string) (int64, bool, error) {
	for offset := 0; ; offset += sequenceBatch {
		var numbers []string
		err := base().Where(length+" = ?", l).
			Order(column + " DESC").
			Offset(offset).Limit(sequenceBatch).
			Pluck(column, &numbers).Error
		if err != nil {
			return 0, false, err
		}
		for _, n := range numbers {
			if seq, ok := sales.ParseSequence(prefix, n); ok {
				return seq, true, nil
			}
		}
		if len(numbers) < sequenceBatch {
			return 0, false, nil
		}
	}
}

func maxForWidth(width int) int64 {
	if width >= 19 {
		return math.MaxInt64
	}
	return int64(math.Pow10(width)) - 1
}
