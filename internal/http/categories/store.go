package categories

import (
	"fmt"
	"strings"
	"sync"

	"github.com/jpcarvalho/recibo/internal/category"
)

// Store is the in-memory category catalog behind the stub API. Identity is
// the (object type, lowercased name) pair.
type Store struct {
	mu         sync.Mutex
	categories map[category.ObjectType][]category.Category
}

func NewStore() *Store {
	return &Store{categories: make(map[category.ObjectType][]category.Category)}
}

// Seeded returns a store preloaded with a small default catalog per object
// type, mirroring a freshly bootstrapped backend.
func Seeded() *Store {
	s := NewStore()

	seed := map[category.ObjectType][]category.Category{
		category.TypeAsset: {
			{Name: "Electronics", Description: "Computers, monitors and peripherals", Icon: "laptop", Color: "#0d6efd"},
			{Name: "Furniture", Description: "Desks, chairs and storage", Icon: "chair", Color: "#6f42c1"},
		},
		category.TypeConsumable: {
			{Name: "Office Supplies", Description: "Paper, pens and everyday materials", Icon: "pen", Color: "#198754"},
			{Name: "Cleaning", Description: "Cleaning and maintenance products", Icon: "spray-can", Color: "#20c997"},
		},
		category.TypeComponent: {
			{Name: "Spare Parts", Description: "Replacement parts and components", Icon: "gear", Color: "#fd7e14"},
		},
		category.TypeService: {
			{Name: "Subscriptions", Description: "Recurring service charges", Icon: "repeat", Color: "#dc3545"},
		},
		category.TypeSoftware: {
			{Name: "Licenses", Description: "Software licenses and seats", Icon: "key", Color: "#0dcaf0"},
		},
	}

	for objectType, cats := range seed {
		for _, c := range cats {
			_ = s.Add(objectType, c)
		}
	}

	return s
}

// List returns the catalog for an object type, copied so callers cannot
// mutate the store.
func (s *Store) List(objectType category.ObjectType) []category.Category {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := s.categories[objectType]
	out := make([]category.Category, len(stored))
	copy(out, stored)

	return out
}

// Add registers a category. Names are unique per object type,
// case-insensitively.
func (s *Store) Add(objectType category.ObjectType, c category.Category) error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("category name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.categories[objectType] {
		if strings.EqualFold(existing.Name, c.Name) {
			return fmt.Errorf("category %q already exists for %s", c.Name, objectType)
		}
	}

	s.categories[objectType] = append(s.categories[objectType], c)

	return nil
}
