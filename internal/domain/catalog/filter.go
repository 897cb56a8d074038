package catalog

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warehouse/backend/internal/domain/inventory"
)

// ModificationScope selects which stock movements count as "modification"
// when filtering by last-modification window
type ModificationScope string

const (
	ModificationEntries ModificationScope = "entries"
	ModificationExits   ModificationScope = "exits"
	ModificationBoth    ModificationScope = "both"
)

// DateWindow is a tagged date constraint: either everything before a single
// date, or everything within an inclusive range. The two modes are mutually
// exclusive; which constructor was used decides the interpretation.
type DateWindow struct {
	from *time.Time
	to   time.Time
}

// BeforeDate constrains to rows strictly before the given date
func BeforeDate(t time.Time) DateWindow {
	return DateWindow{to: t}
}

// BetweenDates constrains to rows within the inclusive range [from, to]
func BetweenDates(from, to time.Time) DateWindow {
	return DateWindow{from: &from, to: to}
}

// IsRange reports whether the window carries a lower bound
func (w DateWindow) IsRange() bool {
	return w.from != nil
}

// From returns the lower bound; only meaningful when IsRange is true
func (w DateWindow) From() time.Time {
	if w.from == nil {
		return time.Time{}
	}
	return *w.from
}

// To returns the upper bound
func (w DateWindow) To() time.Time {
	return w.to
}

// ProductFilter describes one query intent against the catalog. All fields
// are optional; the zero value matches every active product. A populated
// filter is never mutated by the engine.
type ProductFilter struct {
	Search       string
	Category     string
	BatchTracked *bool
	SupplierCode string

	StockCurrentMin *decimal.Decimal
	StockCurrentMax *decimal.Decimal
	StockMinimumMin *decimal.Decimal
	StockMinimumMax *decimal.Decimal
	PriceMin        *decimal.Decimal
	PriceMax        *decimal.Decimal

	Warehouse Warehouse
	Aisle     string
	Shelf     string

	CreatedWindow  *DateWindow
	ModifiedWindow *DateWindow
	ModifiedScope  ModificationScope

	LowStock         bool
	StockNearMinimum bool
	BatchStatuses    []inventory.BatchStatus

	IncludeInactive bool
}

// HasLocationConstraint reports whether any of the location triple is set
func (f ProductFilter) HasLocationConstraint() bool {
	return f.Warehouse != "" || f.Aisle != "" || f.Shelf != ""
}

// MovementScoped reports whether the modification filter needs a movement
// existence lookup (entries or exits; "both" stays on the primary table)
func (f ProductFilter) MovementScoped() bool {
	return f.ModifiedScope == ModificationEntries || f.ModifiedScope == ModificationExits
}

// HasDerivedConditions reports whether the filter contains any condition
// that cannot be pushed down to the store: same-row column comparisons
// (low stock, near minimum) or secondary-table existence checks (movement
// direction, batch status). Any of these forces the full-scan path.
func (f ProductFilter) HasDerivedConditions() bool {
	return f.LowStock ||
		f.StockNearMinimum ||
		len(f.BatchStatuses) > 0 ||
		f.MovementScoped()
}

// MovementType maps the modification scope to the movement direction probed
// by the existence lookup. Only valid when the scope is entries or exits.
func (f ProductFilter) MovementType() inventory.MovementType {
	if f.ModifiedScope == ModificationExits {
		return inventory.MovementExit
	}
	return inventory.MovementEntry
}
