package receipt

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/jpcarvalho/recibo/internal/category"
)

// LineItem is one purchasable entry within a receipt, convertible into a
// trackable inventory object. Prices are stored as cents.
type LineItem struct {
	Index        int // stable position key within the draft
	Description  string
	Quantity     int
	UnitPrice    int64
	TotalPrice   int64
	ObjectType   category.ObjectType
	Category     string
	CreateObject bool
}

// Normalize coerces recognition output into a valid editable row so manual
// correction stays possible even when the backend returns partial or
// malformed values. Quantity becomes a positive integer (default 1), the
// total price defaults to quantity x unit price when the backend omitted it,
// and unknown object types fall back to consumable.
func (li *LineItem) Normalize() {
	if li.Description == "" {
		li.Description = "Unknown item"
	}

	if li.Quantity < 1 {
		li.Quantity = 1
	}

	if li.UnitPrice < 0 {
		li.UnitPrice = 0
	}

	if li.TotalPrice <= 0 {
		li.TotalPrice = int64(li.Quantity) * li.UnitPrice
	}

	if li.ObjectType == "" {
		li.ObjectType = category.TypeConsumable
	}
}

// Draft is the editable receipt owned by the session until submission.
type Draft struct {
	ID           uuid.UUID
	VendorName   string
	Date         string // YYYY-MM-DD
	TotalAmount  int64  // cents
	Description  string
	SerialNumber string
	Quantity     int
	SourceFile   string
	LineItems    []LineItem
}

func NewDraft() *Draft {
	return &Draft{
		ID:       uuid.New(),
		Date:     time.Now().Format(time.DateOnly),
		Quantity: 1,
	}
}

// CentsFromFloat converts a decimal currency amount from the wire into
// cents, rounding to the nearest cent.
func CentsFromFloat(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

var dateLayouts = []string{
	time.DateOnly,
	"2006-01-02T15:04:05Z07:00",
	"01/02/2006",
	"02-01-2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

// NormalizeDate parses a recognized date string and reports it in
// YYYY-MM-DD form. Unparseable input is rejected rather than guessed, so an
// existing value in the draft is left alone.
func NormalizeDate(s string) (string, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(time.DateOnly), true
		}
	}

	return "", false
}
