package models

import "time"

// Product is an item of the rewards catalogue. Price is expressed in points,
// the same unit the ledger accounts in.
type Product struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// ProductView is the catalogue payload enriched with the purchasability
// decision for the requesting user. Message carries the replacement text the
// client shows instead of the add-to-cart control.
type ProductView struct {
	Product
	Purchasable bool   `json:"purchasable"`
	Message     string `json:"message,omitempty"`
}
