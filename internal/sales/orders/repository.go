package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/velora-beauty/velora/internal/platform/db"
)

var ErrNotFound = errors.New("record not found")

// Repository reads and writes orders. The reporting engine uses the
// window-scoped read path only.
type Repository interface {
	Get(ctx context.Context, id int64) (*Order, error)
	List(ctx context.Context, req ListOrdersRequest) ([]Order, int, error)
	ListWithItems(ctx context.Context, from, to time.Time, status *OrderStatus) ([]Order, error)
	Create(ctx context.Context, order Order) (int64, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const orderColumns = `o.id, o.uuid, o.customer_id, c.name AS customer_name, o.order_date, o.status,
o.total_amount::text, o.manager_id, o.created_at, o.updated_at`

func (r *repository) Get(ctx context.Context, id int64) (*Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders o JOIN customers c ON o.customer_id = c.id WHERE o.id = $1`, orderColumns)
	row := r.pool.QueryRow(ctx, query, id)
	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	items, err := r.itemsForOrders(ctx, []int64{order.ID})
	if err != nil {
		return nil, err
	}
	order.Items = items[order.ID]
	return &order, nil
}

func (r *repository) List(ctx context.Context, req ListOrdersRequest) ([]Order, int, error) {
	var conditions []string
	var args []interface{}
	argPos := 1

	if req.Status != nil {
		conditions = append(conditions, fmt.Sprintf("o.status = $%d", argPos))
		args = append(args, *req.Status)
		argPos++
	}
	if req.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("o.order_date >= $%d", argPos))
		args = append(args, *req.DateFrom)
		argPos++
	}
	if req.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("o.order_date <= $%d", argPos))
		args = append(args, *req.DateTo)
		argPos++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + conditions[0]
		for i := 1; i < len(conditions); i++ {
			whereClause += " AND " + conditions[i]
		}
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM orders o %s", whereClause)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s
FROM orders o
JOIN customers c ON o.customer_id = c.id
%s
ORDER BY o.order_date DESC, o.id DESC
LIMIT $%d OFFSET $%d`, orderColumns, whereClause, argPos, argPos+1)
	args = append(args, req.Limit, req.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, order)
	}
	return result, total, rows.Err()
}

// ListWithItems fetches every order in the inclusive window, with its line
// items and customer display name, in two round trips total.
func (r *repository) ListWithItems(ctx context.Context, from, to time.Time, status *OrderStatus) ([]Order, error) {
	var args []interface{}
	args = append(args, from, to)
	statusClause := ""
	if status != nil {
		statusClause = " AND o.status = $3"
		args = append(args, *status)
	}

	query := fmt.Sprintf(`SELECT %s
FROM orders o
JOIN customers c ON o.customer_id = c.id
WHERE o.order_date >= $1 AND o.order_date <= $2%s
ORDER BY o.order_date ASC, o.id ASC`, orderColumns, statusClause)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("orders: list window: %w", err)
	}
	defer rows.Close()

	result := []Order{}
	ids := []int64{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, order)
		ids = append(ids, order.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return result, nil
	}

	items, err := r.itemsForOrders(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range result {
		result[i].Items = items[result[i].ID]
	}
	return result, nil
}

func (r *repository) Create(ctx context.Context, order Order) (int64, error) {
	var orderID int64
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var managerID pgtype.Int8
		if order.ManagerID != nil {
			managerID = pgtype.Int8{Int64: *order.ManagerID, Valid: true}
		}
		err := tx.QueryRow(ctx, `INSERT INTO orders (uuid, customer_id, order_date, status, total_amount, manager_id, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW()) RETURNING id`,
			order.UUID, order.CustomerID, order.OrderDate, order.Status, order.TotalAmount.String(), managerID).Scan(&orderID)
		if err != nil {
			return fmt.Errorf("orders: insert order: %w", err)
		}

		for _, item := range order.Items {
			var productID pgtype.Int8
			if item.ProductID != nil {
				productID = pgtype.Int8{Int64: *item.ProductID, Valid: true}
			}
			if _, err := tx.Exec(ctx, `INSERT INTO order_items (order_id, product_id, product_name, unit_price, quantity, discount_percent, unit_cost_usd, exchange_rate)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
				orderID, productID, item.ProductName, item.UnitPrice.String(), item.Quantity,
				item.DiscountPercent.String(), item.UnitCostUSD.String(), item.ExchangeRate.String()); err != nil {
				return fmt.Errorf("orders: insert item: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return orderID, nil
}

func (r *repository) itemsForOrders(ctx context.Context, orderIDs []int64) (map[int64][]OrderItem, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, order_id, product_id, product_name, unit_price::text, quantity, discount_percent::text, unit_cost_usd::text, exchange_rate::text
FROM order_items
WHERE order_id = ANY($1)
ORDER BY order_id ASC, id ASC`, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("orders: list items: %w", err)
	}
	defer rows.Close()

	items := make(map[int64][]OrderItem)
	for rows.Next() {
		var (
			item                        OrderItem
			productID                   pgtype.Int8
			price, discount, cost, rate string
		)
		if err := rows.Scan(&item.ID, &item.OrderID, &productID, &item.ProductName,
			&price, &item.Quantity, &discount, &cost, &rate); err != nil {
			return nil, err
		}
		if productID.Valid {
			item.ProductID = &productID.Int64
		}
		if item.UnitPrice, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("orders: item %d unit price: %w", item.ID, err)
		}
		if item.DiscountPercent, err = decimal.NewFromString(discount); err != nil {
			return nil, fmt.Errorf("orders: item %d discount: %w", item.ID, err)
		}
		if item.UnitCostUSD, err = decimal.NewFromString(cost); err != nil {
			return nil, fmt.Errorf("orders: item %d cost: %w", item.ID, err)
		}
		if item.ExchangeRate, err = decimal.NewFromString(rate); err != nil {
			return nil, fmt.Errorf("orders: item %d exchange rate: %w", item.ID, err)
		}
		items[item.OrderID] = append(items[item.OrderID], item)
	}
	return items, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(row rowScanner) (Order, error) {
	var (
		o         Order
		total     string
		managerID pgtype.Int8
		orderDate pgtype.Timestamptz
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)
	err := row.Scan(&o.ID, &o.UUID, &o.CustomerID, &o.CustomerName, &orderDate, &o.Status,
		&total, &managerID, &createdAt, &updatedAt)
	if err != nil {
		return Order{}, err
	}
	if o.TotalAmount, err = decimal.NewFromString(total); err != nil {
		return Order{}, fmt.Errorf("orders: order %d total: %w", o.ID, err)
	}
	if managerID.Valid {
		o.ManagerID = &managerID.Int64
	}
	if orderDate.Valid {
		o.OrderDate = orderDate.Time
	}
	if createdAt.Valid {
		o.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		o.UpdatedAt = updatedAt.Time
	}
	return o, nil
}
