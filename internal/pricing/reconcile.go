package pricing

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// Gateway is the catalog store the exchange reads from and writes to.
type Gateway interface {
	// GetCatalog loads the current snapshot for a brand.
	GetCatalog(ctx context.Context, brand string) (Catalog, error)
	Persister
}

// Persister writes single catalog entities back to the store.
// Each call receives the complete updated record.
type Persister interface {
	UpdateProduct(ctx context.Context, p Product) error
	UpdateInterior(ctx context.Context, in Interior) error
}

// Report summarizes one import run.
type Report struct {
	// SuccessCount counts rows that matched an entity and persisted.
	SuccessCount int
	// Errors lists lookup and persistence failures in file order.
	Errors []string
	// Unchanged counts matched rows whose price already equals the stored
	// value. They are not persisted.
	Unchanged int
	// Skipped counts records dropped before reconciliation.
	Skipped int
}

// Change describes one successfully applied price change.
type Change struct {
	Kind     Kind   `json:"type"`
	EntityID string `json:"entity_id"`
	// ProductID is set for base price and option changes.
	ProductID string `json:"product_id,omitempty"`
	GroupID   string `json:"group_id,omitempty"`
	OldPrice  string `json:"old_price"`
	NewPrice  string `json:"new_price"`
}

// ReconcileOption configures a reconcile run.
type ReconcileOption func(*reconciler)

// OnChange registers a callback invoked after each successful update.
func OnChange(fn func(Change)) ReconcileOption {
	return func(r *reconciler) {
		r.onChange = fn
	}
}

type reconciler struct {
	work     Catalog
	store    Persister
	report   Report
	onChange func(Change)
}

// Reconcile applies rows to the catalog snapshot in file order and returns
// the report together with the updated copy of the snapshot.
//
// Each matched row patches a copy of its entity and persists it before the
// next row is considered. The copy replaces the entity in the working
// snapshot only when persistence succeeds, so a later row for the same
// entity builds on the last successful write. The input snapshot is never
// modified. Rows that would not change the stored price are counted as
// unchanged and not persisted. Failures are recorded and never stop the run.
func Reconcile(ctx context.Context, rows []PriceRow, snapshot Catalog, store Persister, opts ...ReconcileOption) (Report, Catalog) {
	r := &reconciler{
		work:   snapshot.Clone(),
		store:  store,
		report: Report{Errors: []string{}},
	}
	for _, opt := range opts {
		opt(r)
	}

	for _, row := range rows {
		switch row := row.(type) {
		case BasePriceRow:
			r.applyBasePrice(ctx, row)
		case OptionRow:
			r.applyOption(ctx, row)
		case InteriorRow:
			r.applyInterior(ctx, row)
		}
	}

	return r.report, r.work
}

func (r *reconciler) applyBasePrice(ctx context.Context, row BasePriceRow) {
	pi := r.work.productIndex(row.ProductID)
	if pi < 0 {
		r.fail("Product not found: %s", row.ProductID)
		return
	}

	if r.work.Products[pi].BasePrice.Equal(row.Price) {
		r.report.Unchanged++
		return
	}

	updated := r.work.Products[pi].Clone()
	old := updated.BasePrice
	updated.BasePrice = row.Price

	if err := r.store.UpdateProduct(ctx, updated); err != nil {
		r.fail("Error updating product %s: %s", row.ProductID, err.Error())
		return
	}

	r.work.Products[pi] = updated
	r.succeed(Change{
		Kind:      KindBasePrice,
		EntityID:  row.ProductID,
		ProductID: row.ProductID,
		OldPrice:  formatPrice(old),
		NewPrice:  formatPrice(row.Price),
	})
}

func (r *reconciler) applyOption(ctx context.Context, row OptionRow) {
	pi := r.work.productIndex(row.ProductID)
	if pi < 0 {
		r.fail("Product not found: %s", row.ProductID)
		return
	}
	gi := r.work.Products[pi].groupIndex(row.GroupID)
	if gi < 0 {
		r.fail("Group not found: %s in %s", row.GroupID, row.ProductID)
		return
	}
	oi := r.work.Products[pi].Groups[gi].optionIndex(row.OptionID)
	if oi < 0 {
		r.fail("Option not found: %s in %s", row.OptionID, row.GroupID)
		return
	}

	current := decimal.Zero
	if d := r.work.Products[pi].Groups[gi].Options[oi].PriceDelta; d != nil {
		current = *d
	}
	if current.Equal(row.Price) {
		r.report.Unchanged++
		return
	}

	updated := r.work.Products[pi].Clone()
	opt := &updated.Groups[gi].Options[oi]
	delta := row.Price
	opt.PriceDelta = &delta

	if err := r.store.UpdateProduct(ctx, updated); err != nil {
		r.fail("Error updating option %s: %s", row.OptionID, err.Error())
		return
	}

	r.work.Products[pi] = updated
	r.succeed(Change{
		Kind:      KindOption,
		EntityID:  row.OptionID,
		ProductID: row.ProductID,
		GroupID:   row.GroupID,
		OldPrice:  formatPrice(current),
		NewPrice:  formatPrice(row.Price),
	})
}

func (r *reconciler) applyInterior(ctx context.Context, row InteriorRow) {
	ii := r.work.interiorIndex(row.OptionID)
	if ii < 0 {
		r.fail("Interior not found: %s", row.OptionID)
		return
	}

	if r.work.Interiors[ii].Price.Equal(row.Price) {
		r.report.Unchanged++
		return
	}

	updated := r.work.Interiors[ii]
	old := updated.Price
	updated.Price = row.Price

	if err := r.store.UpdateInterior(ctx, updated); err != nil {
		r.fail("Error updating interior %s: %s", row.OptionID, err.Error())
		return
	}

	r.work.Interiors[ii] = updated
	r.succeed(Change{
		Kind:     KindInterior,
		EntityID: row.OptionID,
		OldPrice: formatPrice(old),
		NewPrice: formatPrice(row.Price),
	})
}

func (r *reconciler) fail(format string, args ...any) {
	r.report.Errors = append(r.report.Errors, fmt.Sprintf(format, args...))
}

func (r *reconciler) succeed(c Change) {
	r.report.SuccessCount++
	if r.onChange != nil {
		r.onChange(c)
	}
}
