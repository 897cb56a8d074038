package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/warehouse/backend/internal/domain/catalog"
	"gorm.io/gorm"
)

// locationResolver turns the warehouse/aisle/shelf constraint triple into a
// product-ID inclusion set. The store cannot join the location table into
// the primary query, so the resolver issues its own queries and hands the
// planner an IDSet to intersect in.
type locationResolver struct {
	db *gorm.DB
}

// resolve returns the set of product IDs whose locations satisfy every
// supplied constraint on the same location row, unioned with legacy-column
// matches from the primary table. An empty set is a legitimate outcome and
// must be applied as a match-nothing constraint, never skipped.
func (r *locationResolver) resolve(ctx context.Context, filter catalog.ProductFilter) (*IDSet, error) {
	matched, err := r.resolveLocationTable(ctx, filter)
	if err != nil {
		return nil, err
	}

	// Legacy rows keep their aisle/shelf on the product itself. Those
	// columns carry no warehouse, so they only participate when the
	// filter does not constrain the site.
	if filter.Warehouse == "" && (filter.Aisle != "" || filter.Shelf != "") {
		legacy, err := r.resolveLegacyColumns(ctx, filter)
		if err != nil {
			return nil, err
		}
		matched = matched.Union(legacy)
	}

	return matched, nil
}

func (r *locationResolver) resolveLocationTable(ctx context.Context, filter catalog.ProductFilter) (*IDSet, error) {
	query := r.db.WithContext(ctx).Model(&catalog.ProductLocation{})

	// All constraints AND-ed: a match must satisfy every supplied field on
	// one location row, not across the product's rows.
	if filter.Warehouse != "" {
		query = query.Where("warehouse = ?", string(filter.Warehouse))
	}
	if filter.Aisle != "" {
		if aisleNeedsExactMatch(filter.Aisle) {
			query = query.Where("LOWER(aisle) = ?", strings.ToLower(filter.Aisle))
		} else {
			query = query.Where("LOWER(aisle) LIKE ?", "%"+strings.ToLower(filter.Aisle)+"%")
		}
	}
	if filter.Shelf != "" {
		if shelfNeedsExactMatch(filter.Shelf) {
			query = query.Where("UPPER(shelf) = ?", strings.ToUpper(filter.Shelf))
		} else {
			query = query.Where("LOWER(shelf) LIKE ?", "%"+strings.ToLower(filter.Shelf)+"%")
		}
	}

	var ids []uuid.UUID
	if err := query.Distinct("product_id").Pluck("product_id", &ids).Error; err != nil {
		return nil, err
	}
	return NewIDSet(ids...), nil
}

func (r *locationResolver) resolveLegacyColumns(ctx context.Context, filter catalog.ProductFilter) (*IDSet, error) {
	query := r.db.WithContext(ctx).Model(&catalog.Product{})

	if filter.Aisle != "" {
		query = query.Where("LOWER(aisle) LIKE ?", "%"+strings.ToLower(filter.Aisle)+"%")
	}
	if filter.Shelf != "" {
		query = query.Where("LOWER(shelf) LIKE ?", "%"+strings.ToLower(filter.Shelf)+"%")
	}

	var ids []uuid.UUID
	if err := query.Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return NewIDSet(ids...), nil
}

// aisleNeedsExactMatch distinguishes ambiguous numeric lookups from
// free-text drill-down: a purely numeric aisle compares exactly, so "1"
// cannot match "10" or "15". Anything with a non-digit, like "1A", matches
// as a substring and so also finds "1A-EXT".
func aisleNeedsExactMatch(aisle string) bool {
	for _, r := range aisle {
		if r < '0' || r > '9' {
			return false
		}
	}
	return aisle != ""
}

// shelfNeedsExactMatch applies the same rule to shelves: a single letter in
// the A-G rack range is an exact lookup, everything else a substring.
func shelfNeedsExactMatch(shelf string) bool {
	if len(shelf) != 1 {
		return false
	}
	r := rune(shelf[0])
	if r >= 'a' && r <= 'z' {
		r -= 'a' - 'A'
	}
	return r >= 'A' && r <= 'G'
}
