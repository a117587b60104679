package expenses

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is an operating cost entered by the back office. Expenses are
// subtracted from gross profit when reports compute net profit.
type Expense struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
	SpentAt   time.Time       `json:"spent_at"`
	Notes     *string         `json:"notes,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}
