package lineitems

import (
	"context"
	"sync"
	"time"

	"github.com/jpcarvalho/recibo/internal/category"
	"github.com/jpcarvalho/recibo/internal/receipt"
)

// Row holds the state of one editable line item. Every row owns its own
// catalog result, a generation counter for in-flight catalog loads and a
// guard against duplicate in-flight suggestions, so a slow or failed call on
// one row never blocks or corrupts another.
type Row struct {
	Item       receipt.LineItem
	Categories []category.Category
	Loading    bool
	Suggesting bool
	Created    int // categories created by the last suggestion run
	Err        error

	catalogGen int
}

// Table is an arena of row states keyed by the stable line-item index.
type Table struct {
	mu      sync.Mutex
	catalog *category.Catalog
	engine  *category.Engine
	policy  category.StaggerPolicy
	rows    []*Row
}

func NewTable(catalog *category.Catalog, engine *category.Engine, policy category.StaggerPolicy) *Table {
	return &Table{
		catalog: catalog,
		engine:  engine,
		policy:  policy,
	}
}

// Load materializes recognized line items into rows. Quantity and pricing
// are normalized regardless of recognition quality so manual correction
// stays possible.
func (t *Table) Load(items []receipt.LineItem) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.rows = make([]*Row, len(items))
	for i, item := range items {
		item.Index = i
		item.CreateObject = true
		item.Normalize()
		t.rows[i] = &Row{Item: item, Loading: true}
	}
}

func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.rows)
}

// Row returns a snapshot of one row.
func (t *Table) Row(index int) (Row, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if index < 0 || index >= len(t.rows) {
		return Row{}, false
	}

	return *t.rows[index], true
}

// Items returns the current line items, for writing back into the draft
// before submission.
func (t *Table) Items() []receipt.LineItem {
	t.mu.Lock()
	defer t.mu.Unlock()

	items := make([]receipt.LineItem, len(t.rows))
	for i, row := range t.rows {
		items[i] = row.Item
	}

	return items
}

// Delay returns the staggered launch delay for the automatic suggestion of
// the row at the given index.
func (t *Table) Delay(index int) time.Duration {
	return t.policy.Delay(index)
}

// SetObjectType switches a row to a new object type. The row's previous
// category selection and catalog are invalidated, and any in-flight catalog
// load for the row is superseded: its result will be discarded on arrival,
// not merged.
func (t *Table) SetObjectType(index int, objectType category.ObjectType) {
	t.mu.Lock()
	defer t.mu.Unlock()

	row, ok := t.row(index)
	if !ok || row.Item.ObjectType == objectType {
		return
	}

	row.Item.ObjectType = objectType
	row.Item.Category = ""
	row.Categories = nil
	row.Loading = true
	row.Err = nil
	row.catalogGen++
}

// SetCategory records a manual category selection for a row.
func (t *Table) SetCategory(index int, name string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if row, ok := t.row(index); ok {
		row.Item.Category = name
	}
}

// ToggleCreate flips whether the row becomes an inventory object on commit.
func (t *Table) ToggleCreate(index int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if row, ok := t.row(index); ok {
		row.Item.CreateObject = !row.Item.CreateObject
	}
}

// LoadCatalog fetches the catalog for a row's current object type and
// applies the result, restoring a previously selected category by
// case-insensitive name match. The result is dropped when the row's object
// type changed while the load was in flight.
func (t *Table) LoadCatalog(ctx context.Context, index int) error {
	t.mu.Lock()

	row, ok := t.row(index)
	if !ok {
		t.mu.Unlock()
		return nil
	}

	objectType := row.Item.ObjectType
	prior := row.Item.Category
	gen := row.catalogGen
	row.Loading = true
	t.mu.Unlock()

	categories, err := t.catalog.List(ctx, objectType)

	t.mu.Lock()
	defer t.mu.Unlock()

	if row.catalogGen != gen {
		// Superseded by an object-type change; discard.
		return nil
	}

	row.Loading = false
	row.Categories = categories
	row.Err = err

	if err != nil {
		return err
	}

	row.Item.Category = category.Reselect(categories, prior)

	return nil
}

// Suggest runs the suggestion flow for one row: remote suggestion, catalog
// reload, then auto-selection of the top candidate when the reloaded catalog
// contains it. The started return is false when a suggestion for this row is
// already in flight; duplicate triggers are dropped until the first one
// settles.
func (t *Table) Suggest(ctx context.Context, index int, vendor string) (started bool, err error) {
	t.mu.Lock()

	row, ok := t.row(index)
	if !ok || row.Suggesting {
		t.mu.Unlock()
		return false, nil
	}

	row.Suggesting = true

	req := category.SuggestRequest{
		Description: row.Item.Description,
		ObjectType:  row.Item.ObjectType,
		AmountCents: row.Item.TotalPrice,
		Vendor:      vendor,
	}
	t.mu.Unlock()

	outcome, suggestErr := t.engine.Suggest(ctx, req)

	t.mu.Lock()
	defer t.mu.Unlock()

	row.Suggesting = false

	if suggestErr != nil {
		row.Err = suggestErr
		return true, suggestErr
	}

	// The row may have switched object type while the suggestion was in
	// flight; the answer no longer applies to it.
	if row.Item.ObjectType != req.ObjectType {
		return true, nil
	}

	row.Loading = false
	row.Err = nil
	row.Categories = outcome.Categories
	row.Created = len(outcome.Created)
	row.catalogGen++

	if outcome.Selected != "" {
		row.Item.Category = outcome.Selected
	}

	return true, nil
}

func (t *Table) row(index int) (*Row, bool) {
	if index < 0 || index >= len(t.rows) {
		return nil, false
	}

	return t.rows[index], true
}
