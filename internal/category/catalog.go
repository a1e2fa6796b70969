package category

import (
	"context"
	"fmt"
	"strings"
)

//go:generate mockgen -source=catalog.go -destination=lister_mock.go -package=category
type Lister interface {
	ListCategories(ctx context.Context, objectType ObjectType) ([]Category, error)
}

// Catalog fetches the classification catalog for an object type. Each caller
// (one per line-item row) invokes it independently; there is no shared
// result between object types.
type Catalog struct {
	lister Lister
}

func NewCatalog(lister Lister) *Catalog {
	return &Catalog{lister: lister}
}

// List returns the catalog for an object type. On failure it returns an
// empty catalog together with the error, so the caller can render an
// explicit empty/error state instead of keeping a stale loading indicator.
func (c *Catalog) List(ctx context.Context, objectType ObjectType) ([]Category, error) {
	categories, err := c.lister.ListCategories(ctx, objectType)
	if err != nil {
		return []Category{}, fmt.Errorf("listing %s categories: %w", objectType, err)
	}

	return categories, nil
}

// Reselect returns the catalog entry matching a previously selected name, or
// "" when the reloaded catalog no longer carries it. Matching is a
// case-insensitive exact comparison; no fuzzy matching.
func Reselect(categories []Category, prior string) string {
	if prior == "" {
		return ""
	}

	for _, c := range categories {
		if strings.EqualFold(c.Name, prior) {
			return c.Name
		}
	}

	return ""
}
