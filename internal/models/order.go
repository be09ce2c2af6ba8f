package models

import "time"

// Order is a completed checkout: the cart contents at the moment the
// checkout validation passed, priced in points.
type Order struct {
	ID        int64       `json:"id"`
	UID       string      `json:"uid"`
	UserID    int64       `json:"user_id"`
	Total     float64     `json:"total"`
	Lines     []OrderLine `json:"lines"`
	CreatedAt time.Time   `json:"created_at"`
}

// OrderLine mirrors a cart line frozen into an order.
type OrderLine struct {
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}
