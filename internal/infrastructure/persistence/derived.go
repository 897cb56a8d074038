package persistence

import (
	"github.com/warehouse/backend/internal/domain/catalog"
)

// Derived filters compare two columns of the same row or depend on a
// secondary-table existence probe, neither of which the store can evaluate
// in a single query. They run in memory over the full scanned corpus,
// strictly after the scan and strictly before pagination. Each filter
// narrows the working set for the next and preserves the scan order.

// filterLowStock keeps products whose stock is at or below their minimum
func filterLowStock(products []catalog.Product) []catalog.Product {
	result := make([]catalog.Product, 0, len(products))
	for _, p := range products {
		if p.IsLowStock() {
			result = append(result, p)
		}
	}
	return result
}

// filterNearMinimum keeps products inside the warning band above minimum.
// Rows already at or below minimum are excluded; this band is disjoint
// from the low-stock condition.
func filterNearMinimum(products []catalog.Product) []catalog.Product {
	result := make([]catalog.Product, 0, len(products))
	for _, p := range products {
		if p.IsNearMinimum() {
			result = append(result, p)
		}
	}
	return result
}

// filterByIDSet keeps products whose ID is in the set. An empty set
// collapses the working set to empty; the filter is never skipped.
func filterByIDSet(products []catalog.Product, set *IDSet) []catalog.Product {
	result := make([]catalog.Product, 0, len(products))
	for _, p := range products {
		if set.Contains(p.ID) {
			result = append(result, p)
		}
	}
	return result
}
