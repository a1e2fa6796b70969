package view_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpcarvalho/recibo/cmd/tui/internal/view"
	"github.com/jpcarvalho/recibo/internal/category"
)

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "$0.00", view.FormatPrice(0))
	assert.Equal(t, "$4.50", view.FormatPrice(450))
	assert.Equal(t, "$352.29", view.FormatPrice(35229))
}

func TestParseMoney(t *testing.T) {
	type testCase struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}

	tests := []testCase{
		{name: "Plain", input: "352.29", want: 35229},
		{name: "Integer", input: "5", want: 500},
		{name: "SingleDecimal", input: "4.5", want: 450},
		{name: "RoundsToCent", input: "19.999", want: 2000},
		{name: "Empty", input: "", wantErr: true},
		{name: "Words", input: "twelve", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := view.ParseMoney(tt.input)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTypeLabel(t *testing.T) {
	assert.Equal(t, "Asset", view.TypeLabel(category.TypeAsset))
	assert.Equal(t, "Consumable", view.TypeLabel(category.TypeConsumable))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", view.Truncate("short", 10))
	assert.Equal(t, "exactly-ten", view.Truncate("exactly-ten", 11))
	assert.Equal(t, "a long ...", view.Truncate("a long description", 10))
	assert.Equal(t, "ab", view.Truncate("abcdef", 2))
}
