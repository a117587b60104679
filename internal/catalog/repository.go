package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// ErrUnknownGroup indicates a group key outside the fixed enumeration.
var ErrUnknownGroup = errors.New("unknown catalog group")

// ShardReader is the capability the shard index builder needs: one id-only
// read per shard table.
type ShardReader interface {
	ShardIDs(ctx context.Context, group Group) ([]int64, error)
}

// ProductNamer resolves display names for a set of product ids across shards.
type ProductNamer interface {
	ProductNames(ctx context.Context, ids []int64) (map[int64]string, error)
}

// Repository reads the sharded product catalog from PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ShardIDs returns every product id stored in the group's shard table.
func (r *Repository) ShardIDs(ctx context.Context, group Group) ([]int64, error) {
	if group.table == "" {
		return nil, ErrUnknownGroup
	}
	rows, err := r.pool.Query(ctx, fmt.Sprintf(`SELECT id FROM %s`, group.table))
	if err != nil {
		return nil, fmt.Errorf("catalog: scan shard %s: %w", group.key, err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ListProducts returns the full rows of one shard, ordered by name.
func (r *Repository) ListProducts(ctx context.Context, group Group) ([]Product, error) {
	if group.table == "" {
		return nil, ErrUnknownGroup
	}
	query := fmt.Sprintf(`SELECT id, name, retail_price::text, cost_usd::text, exchange_rate::text, quantity
FROM %s
ORDER BY name ASC, id ASC`, group.table)
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("catalog: list products %s: %w", group.key, err)
	}
	defer rows.Close()

	products := []Product{}
	for rows.Next() {
		var (
			p                 Product
			price, cost, rate string
		)
		if err := rows.Scan(&p.ID, &p.Name, &price, &cost, &rate, &p.Quantity); err != nil {
			return nil, err
		}
		if p.RetailPrice, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("catalog: product %d retail price: %w", p.ID, err)
		}
		if p.CostUSD, err = decimal.NewFromString(cost); err != nil {
			return nil, fmt.Errorf("catalog: product %d cost: %w", p.ID, err)
		}
		if p.ExchangeRate, err = decimal.NewFromString(rate); err != nil {
			return nil, fmt.Errorf("catalog: product %d exchange rate: %w", p.ID, err)
		}
		p.Group = group.key
		products = append(products, p)
	}
	return products, rows.Err()
}

// ProductNames looks up display names for the given ids across all shards.
// Ids not present in any shard are simply absent from the result.
func (r *Repository) ProductNames(ctx context.Context, ids []int64) (map[int64]string, error) {
	names := make(map[int64]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	selects := make([]string, 0, len(Groups))
	for _, g := range Groups {
		selects = append(selects, fmt.Sprintf(`SELECT id, name FROM %s WHERE id = ANY($1)`, g.table))
	}
	query := strings.Join(selects, "\nUNION ALL\n")

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("catalog: product names: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		if _, ok := names[id]; !ok {
			names[id] = name
		}
	}
	return names, rows.Err()
}
