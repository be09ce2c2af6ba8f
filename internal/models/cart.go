package models

// CartLine is a single line of a user's cart. UnitPrice is a snapshot of the
// product price in points taken when the line was added.
type CartLine struct {
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// Subtotal returns the line contribution to the cart total.
func (l CartLine) Subtotal() float64 {
	return l.UnitPrice * float64(l.Quantity)
}

// Cart holds the session-scoped cart of one user.
type Cart struct {
	UserID int64      `json:"user_id"`
	Lines  []CartLine `json:"lines"`
}

// Total sums unit price times quantity over all lines.
func (c Cart) Total() float64 {
	var total float64
	for _, l := range c.Lines {
		total += l.Subtotal()
	}
	return total
}

// Line returns the line for the given product, or nil if the product is not
// in the cart.
func (c Cart) Line(productID int64) *CartLine {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			return &c.Lines[i]
		}
	}
	return nil
}
