package orders

import "time"

type ListOrdersRequest struct {
	Status   *OrderStatus `json:"status,omitempty"`
	DateFrom *time.Time   `json:"date_from,omitempty"`
	DateTo   *time.Time   `json:"date_to,omitempty"`
	Limit    int          `json:"limit" validate:"gte=0,lte=1000"`
	Offset   int          `json:"offset" validate:"gte=0"`
}

type ListOrdersResponse struct {
	Orders []Order `json:"orders"`
	Total  int     `json:"total"`
	Limit  int     `json:"limit"`
	Offset int     `json:"offset"`
}
