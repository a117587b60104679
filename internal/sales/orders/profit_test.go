package orders

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestLineProfit(t *testing.T) {
	cases := []struct {
		name string
		item OrderItem
		want string
	}{
		{
			name: "discounted line without cost data",
			item: OrderItem{
				UnitPrice:       dec("100"),
				Quantity:        2,
				DiscountPercent: dec("10"),
				UnitCostUSD:     decimal.Zero,
				ExchangeRate:    decimal.Zero,
			},
			want: "180",
		},
		{
			name: "cost converted at the snapshotted rate",
			item: OrderItem{
				UnitPrice:       dec("250"),
				Quantity:        3,
				DiscountPercent: decimal.Zero,
				UnitCostUSD:     dec("2"),
				ExchangeRate:    dec("41.5"),
			},
			// (250 - 83) * 3
			want: "501",
		},
		{
			name: "zero rate falls back to zero cost",
			item: OrderItem{
				UnitPrice:       dec("50"),
				Quantity:        1,
				DiscountPercent: decimal.Zero,
				UnitCostUSD:     dec("4"),
				ExchangeRate:    decimal.Zero,
			},
			want: "50",
		},
		{
			name: "full discount yields negative profit when cost present",
			item: OrderItem{
				UnitPrice:       dec("100"),
				Quantity:        1,
				DiscountPercent: dec("100"),
				UnitCostUSD:     dec("1"),
				ExchangeRate:    dec("40"),
			},
			want: "-40",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := LineProfit(tc.item)
			assert.True(t, got.Equal(dec(tc.want)), "want %s got %s", tc.want, got)
		})
	}
}

func TestLineProfitIsDeterministic(t *testing.T) {
	item := OrderItem{
		UnitPrice:       dec("199.99"),
		Quantity:        7,
		DiscountPercent: dec("12.5"),
		UnitCostUSD:     dec("1.37"),
		ExchangeRate:    dec("41.23"),
	}
	first := LineProfit(item)
	second := LineProfit(item)
	require.True(t, first.Equal(second))
	require.Equal(t, first.String(), second.String())
}

func TestLineRevenueIgnoresCost(t *testing.T) {
	item := OrderItem{
		UnitPrice:       dec("80"),
		Quantity:        5,
		DiscountPercent: dec("25"),
		UnitCostUSD:     dec("999"),
		ExchangeRate:    dec("999"),
	}
	assert.True(t, LineRevenue(item).Equal(dec("300")))
}
