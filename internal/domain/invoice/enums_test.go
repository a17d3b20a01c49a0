package invoice

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/theplanbeta/invoice/internal/domain/shared"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"A1", LevelA1, false},
		{"b2", LevelB2, false},
		{"A1-Hybrid", LevelA1Hybrid, false},
		{"a1 hybrid", LevelA1Hybrid, false},
		{"A1_HYBRID", LevelA1Hybrid, false},
		{"C1", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseMonthAndBatch(t *testing.T) {
	m, err := ParseMonth("MARCH")
	require.NoError(t, err)
	assert.Equal(t, March, m)

	_, err = ParseMonth("Marchember")
	assert.Error(t, err)

	b, err := ParseBatch(" evening ")
	require.NoError(t, err)
	assert.Equal(t, BatchEvening, b)

	_, err = ParseBatch("night")
	assert.Error(t, err)

	assert.Len(t, AllMonths(), 12)
}

func TestPricingTable(t *testing.T) {
	table := DefaultPricing()
	assert.Len(t, table.Entries(), 5)
	assert.Equal(t, LevelA1, table.Entries()[0].Level)

	for _, l := range AllLevels() {
		_, ok := table.Lookup(l)
		assert.True(t, ok, "missing %s", l)
	}

	r, g, b := table.Color(LevelA1).RGB()
	assert.Equal(t, []int{16, 185, 129}, []int{r, g, b})

	r, g, b = table.Color("C1").RGB()
	assert.Equal(t, []int{0, 0, 0}, []int{r, g, b})

	_, err := NewPricingTable(
		LevelPricing{Level: LevelA1, FeeEUR: decimal.NewFromInt(1)},
		LevelPricing{Level: LevelA1, FeeEUR: decimal.NewFromInt(2)},
	)
	assert.Error(t, err)

	_, err = NewPricingTable(LevelPricing{Level: LevelA2, FeeINR: decimal.NewFromInt(-1)})
	assert.Error(t, err)
}

func TestAmount(t *testing.T) {
	tests := []struct {
		in   Amount
		want string
	}{
		{"134", "134"},
		{"abc", "0"},
		{"", "0"},
		{"12abc", "12"},
		{" 7.5 ", "7.5"},
		{".5", "0.5"},
		{"-3", "-3"},
		{"1e3", "1000"},
		{"12.", "12"},
		{"1e18", "0"},
		{"1e16", "0"},
		{"1e15", "1000000000000000"},
		{"2e-3", "0.002"},
		{"1e999999999", "0"},
		{"1e-999999999", "0"},
		{"5E0000000000000002", "500"},
		{"1" + Amount(strings.Repeat("0", 80)), "0"},
	}

	for _, tt := range tests {
		t.Run(string(tt.in), func(t *testing.T) {
			assert.True(t, decimal.RequireFromString(tt.want).Equal(tt.in.Decimal()), "got %s", tt.in.Decimal())
		})
	}
}

func TestAmount_StrictDecimal(t *testing.T) {
	tests := []struct {
		in      Amount
		want    string
		wantErr bool
	}{
		{"134", "134", false},
		{"", "0", false},
		{"1.5e2", "150", false},
		{"12abc", "", true},
		{"-3", "", true},
		{"1e999999999", "", true},
		{"1e-999999999", "", true},
		{"2e15", "", true},
		{"0." + Amount(strings.Repeat("1", 100)), "", true},
	}

	for _, tt := range tests {
		t.Run(string(tt.in), func(t *testing.T) {
			got, err := tt.in.StrictDecimal()
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, shared.ErrInvalidAmount)
				return
			}
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestAmount_UnmarshalJSON(t *testing.T) {
	var item LineItem
	require.NoError(t, json.Unmarshal([]byte(`{"level":"A1","amount":134}`), &item))
	assert.Equal(t, Amount("134"), item.Amount)

	require.NoError(t, json.Unmarshal([]byte(`{"level":"A1","amount":"14000.50"}`), &item))
	assert.Equal(t, Amount("14000.50"), item.Amount)

	require.NoError(t, json.Unmarshal([]byte(`{"level":"A1","amount":null}`), &item))
	assert.True(t, item.Amount.IsBlank())
}
