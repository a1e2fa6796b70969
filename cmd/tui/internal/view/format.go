package view

import (
	"fmt"
	"math"
	"strconv"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jpcarvalho/recibo/internal/category"
)

var titleCaser = cases.Title(language.English)

// FormatPrice renders cents as a dollar amount with two decimals.
func FormatPrice(cents int64) string {
	return fmt.Sprintf("$%.2f", float64(cents)/100.0)
}

// TypeLabel renders an object type for display.
func TypeLabel(t category.ObjectType) string {
	return titleCaser.String(string(t))
}

// ParseMoney converts a user-entered decimal amount into cents.
func ParseMoney(s string) (int64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}

	return int64(math.Round(f * 100)), nil
}

// Truncate shortens a string for narrow table cells.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}

	if max <= 3 {
		return s[:max]
	}

	return s[:max-3] + "..."
}
