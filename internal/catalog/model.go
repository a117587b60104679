package catalog

import (
	"github.com/shopspring/decimal"
)

// Group identifies one shard of the product catalog. Each group maps to its
// own physical table; the enumeration is fixed at compile time and callers
// never address shards by raw table name.
type Group struct {
	key   string
	label string
	table string
}

// Key returns the stable machine-readable group identifier.
func (g Group) Key() string { return g.key }

// Label returns the human-readable group name used in report breakdowns.
func (g Group) Label() string { return g.label }

// IsZero reports whether the group is the zero value.
func (g Group) IsZero() bool { return g.key == "" }

// Groups enumerates every catalog shard.
var Groups = []Group{
	{key: "creams", label: "Creams", table: "products_creams"},
	{key: "serums", label: "Serums", table: "products_serums"},
	{key: "masks", label: "Masks", table: "products_masks"},
	{key: "cleansers", label: "Cleansers", table: "products_cleansers"},
	{key: "toners", label: "Toners", table: "products_toners"},
	{key: "scrubs", label: "Scrubs", table: "products_scrubs"},
	{key: "face_oils", label: "Face Oils", table: "products_face_oils"},
	{key: "lipsticks", label: "Lipsticks", table: "products_lipsticks"},
	{key: "mascaras", label: "Mascaras", table: "products_mascaras"},
	{key: "eyeshadows", label: "Eyeshadows", table: "products_eyeshadows"},
	{key: "foundations", label: "Foundations", table: "products_foundations"},
	{key: "powders", label: "Powders", table: "products_powders"},
	{key: "blushes", label: "Blushes", table: "products_blushes"},
	{key: "concealers", label: "Concealers", table: "products_concealers"},
	{key: "nail_polish", label: "Nail Polish", table: "products_nail_polish"},
	{key: "hair_care", label: "Hair Care", table: "products_hair_care"},
	{key: "perfumes", label: "Perfumes", table: "products_perfumes"},
	{key: "accessories", label: "Accessories", table: "products_accessories"},
}

// GroupOther is the sentinel bucket for products that cannot be attributed to
// any shard (deleted products or a degraded shard read).
var GroupOther = Group{key: "other", label: "Other"}

// GroupByKey resolves a group from its key.
func GroupByKey(key string) (Group, bool) {
	for _, g := range Groups {
		if g.key == key {
			return g, true
		}
	}
	return Group{}, false
}

// Product is one catalog row. Retail price is in the shop currency; cost is
// kept in the foreign reference currency together with the current exchange
// rate. These live values are snapshotted onto order lines at sale time and
// are never consulted for historical reporting.
type Product struct {
	ID           int64           `json:"id" db:"id"`
	Name         string          `json:"name" db:"name"`
	RetailPrice  decimal.Decimal `json:"retail_price" db:"retail_price"`
	CostUSD      decimal.Decimal `json:"cost_usd" db:"cost_usd"`
	ExchangeRate decimal.Decimal `json:"exchange_rate" db:"exchange_rate"`
	Quantity     int             `json:"quantity" db:"quantity"`
	Group        string          `json:"group"`
}
