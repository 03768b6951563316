package store

import "github.com/wildfireconsulting/quantix/internal/domain"

// tableState is what the load-time migrations operate on: the parsed records
// plus the column set the persisted header actually declared.
type tableState struct {
	records []*domain.ProductRecord
	columns map[string]bool
}

// migrations run once at load time, oldest first. Each returns true when it
// changed the table, which forces a persist before Load returns.
var migrations = []func(*tableState) bool{
	migrateSeedMissingColumns,
	migrateCanonicalIDs,
	migrateClampQuantities,
}

// migrateSeedMissingColumns covers tables written by older versions with a
// narrower column set. gocsv already left the zero defaults in place (decimal
// zero for the monetary columns, empty otherwise); the table just has to be
// rewritten so the canonical header is persisted.
func migrateSeedMissingColumns(st *tableState) bool {
	if len(st.columns) == 0 {
		return true
	}
	for _, col := range domain.ProductColumns {
		if !st.columns[col] {
			return true
		}
	}
	return false
}

// migrateCanonicalIDs normalizes ids that a legacy writer stored as numbers.
func migrateCanonicalIDs(st *tableState) bool {
	changed := false
	for _, rec := range st.records {
		if canonical := CanonicalID(rec.ProductID); canonical != rec.ProductID {
			rec.ProductID = canonical
			changed = true
		}
	}
	return changed
}

// migrateClampQuantities repairs rows where a legacy writer let stock or
// prices go negative; neither is ever observably negative to readers.
func migrateClampQuantities(st *tableState) bool {
	changed := false
	for _, rec := range st.records {
		if rec.Quantity < 0 {
			rec.Quantity = 0
			changed = true
		}
		if rec.MinStock < 0 {
			rec.MinStock = 0
			changed = true
		}
		if rec.CostPrice.IsNegative() {
			rec.CostPrice = domain.Money{}
			changed = true
		}
		if rec.SellPrice.IsNegative() {
			rec.SellPrice = domain.Money{}
			changed = true
		}
	}
	return changed
}
