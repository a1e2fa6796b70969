package category

import (
	"context"
	"fmt"
)

//go:generate mockgen -source=engine.go -destination=suggester_mock.go -package=category
type Suggester interface {
	SuggestCategory(ctx context.Context, req SuggestRequest) (*SuggestResult, error)
}

type SuggestRequest struct {
	Description string
	ObjectType  ObjectType
	AmountCents int64
	Vendor      string
}

// SuggestResult is the raw remote answer: the ranked candidate list plus any
// categories the remote service created as a side effect of suggesting.
type SuggestResult struct {
	All     []Category
	Created []Category
}

// Outcome is a settled suggestion run: the freshly reloaded catalog and the
// auto-selected entry, if the top suggestion survived the reload.
type Outcome struct {
	Categories []Category
	Created    []Category
	Selected   string
}

// Engine asks the AI service to classify one line item. Because the service
// may create categories while answering, the catalog for the object type is
// stale after every call and is reloaded before any selection is applied.
type Engine struct {
	suggester Suggester
	catalog   *Catalog
}

func NewEngine(suggester Suggester, catalog *Catalog) *Engine {
	return &Engine{suggester: suggester, catalog: catalog}
}

// Suggest requests a classification and reconciles the result against the
// reloaded catalog. The first remote candidate is the top suggestion; it is
// selected only when the reloaded catalog contains it by case-insensitive
// name match. A missing match is not an error, just no selection.
func (e *Engine) Suggest(ctx context.Context, req SuggestRequest) (*Outcome, error) {
	result, err := e.suggester.SuggestCategory(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("suggesting category for %q: %w", req.Description, err)
	}

	categories, err := e.catalog.List(ctx, req.ObjectType)
	if err != nil {
		return nil, err
	}

	outcome := &Outcome{
		Categories: categories,
		Created:    result.Created,
	}

	if len(result.All) > 0 {
		outcome.Selected = Reselect(categories, result.All[0].Name)
	}

	return outcome, nil
}
