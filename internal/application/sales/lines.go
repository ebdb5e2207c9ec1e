package sales

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bizledger/backend/internal/domain/catalog"
	"github.com/bizledger/backend/internal/domain/sales"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// resolveLines turns requested lines into priced document lines.
// Every referenced item must exist in the company and be active.
func resolveLines(ctx context.Context, itemRepo catalog.ItemRepository, companyID uuid.UUID, reqs []LineItemRequest) (sales.LineItems, map[uuid.UUID]*catalog.Item, error) {
	if len(reqs) == 0 {
		return nil, nil, shared.NewValidationError("items", "at least one line item is required")
	}

	ids := make([]uuid.UUID, 0, len(reqs))
	seen := make(map[uuid.UUID]bool, len(reqs))
	for _, r := range reqs {
		if r.ItemID != uuid.Nil && !seen[r.ItemID] {
			seen[r.ItemID] = true
			ids = append(ids, r.ItemID)
		}
	}
	found, err := itemRepo.FindByIDs(ctx, companyID, ids)
	if err != nil {
		return nil, nil, err
	}
	items := make(map[uuid.UUID]*catalog.Item, len(found))
	for i := range found {
		items[found[i].ID] = &found[i]
	}

	v := &shared.ValidationError{}
	lines := make(sales.LineItems, 0, len(reqs))
	for i, r := range reqs {
		field := fmt.Sprintf("items[%d]", i)
		item, ok := items[r.ItemID]
		switch {
		case !ok:
			v.Add(field+".item_id", "item not found")
			continue
		case !item.Active:
			v.Add(field+".item_id", "item is inactive")
			continue
		}

		rate := item.Rate
		if r.Rate != nil {
			rate = *r.Rate
		}
		tax := item.TaxFor(r.Quantity.Mul(rate))
		if r.Tax != nil {
			tax = *r.Tax
		}
		desc := r.Description
		if desc == "" {
			desc = item.Name
		}

		li, err := sales.NewLineItem(item.ID, desc, r.Quantity, rate, tax)
		if err != nil {
			var ve *shared.ValidationError
			if errors.As(err, &ve) {
				for _, fe := range ve.Errors {
					v.Add(field+strings.TrimPrefix(fe.Field, "items"), fe.Message)
				}
				continue
			}
			return nil, nil, err
		}
		lines = append(lines, li)
	}
	if err := v.Err(); err != nil {
		return nil, nil, err
	}
	return lines, items, nil
}
