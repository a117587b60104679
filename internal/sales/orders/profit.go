package orders

import "github.com/shopspring/decimal"

var percentBase = decimal.NewFromInt(100)

// LineRevenue returns the realized retail value of one sold line: the
// snapshotted unit price after discount, times quantity.
func LineRevenue(item OrderItem) decimal.Decimal {
	discounted := item.UnitPrice.Mul(percentBase.Sub(item.DiscountPercent)).Div(percentBase)
	return discounted.Mul(decimal.NewFromInt(int64(item.Quantity)))
}

// LineProfit returns the realized profit of one sold line, derived purely
// from the snapshot fields stored on the item. When either the foreign cost
// or the exchange rate is missing or zero the cost is treated as zero and
// the full realized retail counts as profit; legacy rows without cost data
// are expected and are not an error.
func LineProfit(item OrderItem) decimal.Decimal {
	retail := item.UnitPrice.Mul(percentBase.Sub(item.DiscountPercent)).Div(percentBase)

	cost := decimal.Zero
	if item.UnitCostUSD.IsPositive() && item.ExchangeRate.IsPositive() {
		cost = item.UnitCostUSD.Mul(item.ExchangeRate)
	}

	return retail.Sub(cost).Mul(decimal.NewFromInt(int64(item.Quantity)))
}
