package reporting

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/velora-beauty/velora/internal/catalog"
	"github.com/velora-beauty/velora/internal/sales/orders"
)

// RankEntry is one row of a top-N ranking or group breakdown.
type RankEntry struct {
	Key       string          `json:"-"`
	ProductID *int64          `json:"product_id,omitempty"`
	Label     string          `json:"label"`
	Amount    decimal.Decimal `json:"amount"`
}

// rankedTotals accumulates amounts per key while remembering first-seen
// order, so ties in the final sort stay deterministic across identical
// requests.
type rankedTotals struct {
	keys    []string
	entries map[string]*RankEntry
}

func newRankedTotals() *rankedTotals {
	return &rankedTotals{entries: make(map[string]*RankEntry)}
}

func (r *rankedTotals) add(key, label string, productID *int64, amount decimal.Decimal) {
	entry, ok := r.entries[key]
	if !ok {
		entry = &RankEntry{Key: key, ProductID: productID, Label: label, Amount: decimal.Zero}
		r.entries[key] = entry
		r.keys = append(r.keys, key)
	}
	entry.Amount = entry.Amount.Add(amount)
}

// ordered returns entries in first-seen order.
func (r *rankedTotals) ordered() []RankEntry {
	out := make([]RankEntry, 0, len(r.keys))
	for _, key := range r.keys {
		out = append(out, *r.entries[key])
	}
	return out
}

// Accumulation is the immutable result of folding one order set. All monetary
// figures are derived from snapshot fields on the line items.
type Accumulation struct {
	Revenue        decimal.Decimal
	Profit         decimal.Decimal
	OrderCount     int
	DistinctBuyers int
	Daily          map[time.Time]DayTotals
	Products       []RankEntry
	Customers      []RankEntry
	Groups         []RankEntry
}

// Accumulate folds an order set into one aggregate. The shard index
// attributes each line to a catalog group; lines whose product id misses
// every shard go to the Other bucket. The input is not mutated.
func Accumulate(orderSet []orders.Order, index catalog.ShardIndex) Accumulation {
	var (
		revenue   = decimal.Zero
		profit    = decimal.Zero
		buyers    = make(map[int64]struct{})
		daily     = make(map[time.Time]DayTotals)
		products  = newRankedTotals()
		customers = newRankedTotals()
		groups    = newRankedTotals()
	)

	for _, order := range orderSet {
		day := DayKey(order.OrderDate)
		buyers[order.CustomerID] = struct{}{}

		var orderRevenue, orderProfit decimal.Decimal
		for _, item := range order.Items {
			lineRevenue := orders.LineRevenue(item)
			lineProfit := orders.LineProfit(item)
			orderRevenue = orderRevenue.Add(lineRevenue)
			orderProfit = orderProfit.Add(lineProfit)

			products.add(productKey(item), item.ProductName, item.ProductID, lineRevenue)

			group := catalog.GroupOther
			if item.ProductID != nil {
				if g, ok := index.GroupFor(*item.ProductID); ok {
					group = g
				}
			}
			groups.add(group.Key(), group.Label(), nil, lineRevenue)
		}

		revenue = revenue.Add(orderRevenue)
		profit = profit.Add(orderProfit)

		totals := daily[day]
		totals.Sales = totals.Sales.Add(orderRevenue)
		totals.Profit = totals.Profit.Add(orderProfit)
		daily[day] = totals

		customers.add(fmt.Sprintf("customer:%d", order.CustomerID), order.CustomerName, nil, orderRevenue)
	}

	return Accumulation{
		Revenue:        revenue,
		Profit:         profit,
		OrderCount:     len(orderSet),
		DistinctBuyers: len(buyers),
		Daily:          daily,
		Products:       products.ordered(),
		Customers:      customers.ordered(),
		Groups:         groups.ordered(),
	}
}

// productKey identifies a product across line items. Lines whose product was
// deleted from its shard carry a nil id and fall back to the snapshot name.
func productKey(item orders.OrderItem) string {
	if item.ProductID != nil {
		return fmt.Sprintf("product:%d", *item.ProductID)
	}
	return "name:" + item.ProductName
}

// TopN returns at most n entries sorted descending by amount. The sort is
// stable over first-seen order, so equal amounts keep their relative position
// and repeated identical requests produce identical rankings.
func TopN(entries []RankEntry, n int) []RankEntry {
	sorted := make([]RankEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Amount.GreaterThan(sorted[j].Amount)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
