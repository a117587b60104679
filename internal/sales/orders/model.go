package orders

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus tracks an order through the back-office pipeline.
type OrderStatus string

const (
	StatusOrdered          OrderStatus = "ORDERED"
	StatusShipped          OrderStatus = "SHIPPED"
	StatusReceived         OrderStatus = "RECEIVED"
	StatusCalculation      OrderStatus = "CALCULATION"
	StatusAwaitingApproval OrderStatus = "AWAITING_APPROVAL"
	StatusPaidByClient     OrderStatus = "PAID_BY_CLIENT"
	StatusWrittenOff       OrderStatus = "WRITTEN_OFF"
	StatusReadyForPickup   OrderStatus = "READY_FOR_PICKUP"
)

// ValidStatuses is the set of accepted order statuses.
var ValidStatuses = map[OrderStatus]bool{
	StatusOrdered:          true,
	StatusShipped:          true,
	StatusReceived:         true,
	StatusCalculation:      true,
	StatusAwaitingApproval: true,
	StatusPaidByClient:     true,
	StatusWrittenOff:       true,
	StatusReadyForPickup:   true,
}

// Order is a customer order with its line items. The reporting engine only
// ever reads orders; status transitions and creation happen elsewhere.
type Order struct {
	ID           int64           `json:"id" db:"id"`
	UUID         string          `json:"uuid" db:"uuid"`
	CustomerID   int64           `json:"customer_id" db:"customer_id"`
	CustomerName string          `json:"customer_name" db:"customer_name"`
	OrderDate    time.Time       `json:"order_date" db:"order_date"`
	Status       OrderStatus     `json:"status" db:"status"`
	TotalAmount  decimal.Decimal `json:"total_amount" db:"total_amount"`
	ManagerID    *int64          `json:"manager_id,omitempty" db:"manager_id"`
	Items        []OrderItem     `json:"items,omitempty" db:"-"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at" db:"updated_at"`
}

// OrderItem is one sold line. Every pricing field is a snapshot taken at
// sale time: unit retail price in the shop currency, the discount, and the
// unit cost in the foreign reference currency together with the exchange
// rate that was in effect. Later catalog changes never touch these values,
// which is what makes historical profit reproducible.
type OrderItem struct {
	ID              int64           `json:"id" db:"id"`
	OrderID         int64           `json:"order_id" db:"order_id"`
	ProductID       *int64          `json:"product_id,omitempty" db:"product_id"`
	ProductName     string          `json:"product_name" db:"product_name"`
	UnitPrice       decimal.Decimal `json:"unit_price" db:"unit_price"`
	Quantity        int             `json:"quantity" db:"quantity"`
	DiscountPercent decimal.Decimal `json:"discount_percent" db:"discount_percent"`
	UnitCostUSD     decimal.Decimal `json:"unit_cost_usd" db:"unit_cost_usd"`
	ExchangeRate    decimal.Decimal `json:"exchange_rate" db:"exchange_rate"`
}
