// Package points implements the balance calculator: the single source of
// truth for whether a user can afford a purchase given the ledger balance
// and the current cart contents.
//
// Failure policy, per class:
//   - balance reads fail closed to zero ("I don't know the balance" means
//     "you have none", so an outage blocks purchases instead of granting
//     unlimited credit);
//   - the derived available amount fails open to the raw balance when the
//     cart cannot be read, so a cart-store hiccup does not block everything.
package points

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mhoralek/pointmarket/internal/lib/sl"
	"github.com/mhoralek/pointmarket/internal/models"
)

// Ledger is the subset of the ledger client the calculator reads from.
type Ledger interface {
	Balance(ctx context.Context, userID int64, pointType string) (float64, error)
	PointType(ctx context.Context) (string, error)
}

// CartReader loads the current cart of a user.
type CartReader interface {
	Get(ctx context.Context, userID int64) (*models.Cart, error)
}

// Calculator computes balances, cart totals and affordability.
type Calculator struct {
	ledger Ledger
	carts  CartReader
	log    *slog.Logger
	dedup  *sl.Deduper
}

// NewCalculator creates a Calculator over the ledger and cart store.
func NewCalculator(ledger Ledger, carts CartReader, log *slog.Logger) *Calculator {
	return &Calculator{
		ledger: ledger,
		carts:  carts,
		log:    log,
		dedup:  sl.NewDeduper(sl.DefaultDedupWindow),
	}
}

// pointType resolves the ledger point type, memoized in the per-request
// cache when one is installed on the context.
func (c *Calculator) pointType(ctx context.Context) (string, error) {
	cache := cacheFrom(ctx)
	if cache == nil {
		return c.ledger.PointType(ctx)
	}

	cache.mu.Lock()
	defer cache.mu.Unlock()
	if cache.resolved {
		return cache.pointType, nil
	}
	pt, err := c.ledger.PointType(ctx)
	if err != nil {
		return "", err
	}
	cache.pointType = pt
	cache.resolved = true
	return pt, nil
}

// UserBalance returns the user's ledger balance. Any failure, including
// point-type resolution, yields zero.
func (c *Calculator) UserBalance(ctx context.Context, userID int64) float64 {
	pt, err := c.pointType(ctx)
	if err != nil {
		c.debugf("point type resolution failed", err)
		return 0
	}
	balance, err := c.ledger.Balance(ctx, userID, pt)
	if err != nil {
		c.debugf("balance read failed", err)
		return 0
	}
	if balance < 0 {
		return 0
	}
	return balance
}

// CartTotal sums unit price times quantity over the user's cart lines,
// optionally excluding one product. Zero excludeProductID means no
// exclusion. An unreadable cart counts as empty.
func (c *Calculator) CartTotal(ctx context.Context, userID, excludeProductID int64) float64 {
	cart, err := c.carts.Get(ctx, userID)
	if err != nil {
		c.debugf("cart read failed", err)
		return 0
	}

	var total float64
	for _, line := range cart.Lines {
		if line.ProductID == excludeProductID {
			continue
		}
		total += line.Subtotal()
	}
	return total
}

// AvailablePoints returns max(0, balance − cart total). When the cart
// cannot be read the raw balance is returned instead (fail-open for the
// derived value only).
func (c *Calculator) AvailablePoints(ctx context.Context, userID int64) float64 {
	balance := c.UserBalance(ctx, userID)

	cart, err := c.carts.Get(ctx, userID)
	if err != nil {
		c.debugf("cart read failed, using raw balance", err)
		return balance
	}

	available := balance - cart.Total()
	if available < 0 {
		return 0
	}
	return available
}

// AvailableAfterExcluding is AvailablePoints with one product's existing
// cart line left out of the total, used when evaluating a hypothetical
// re-addition so the line is not counted twice.
func (c *Calculator) AvailableAfterExcluding(ctx context.Context, userID, excludeProductID int64) float64 {
	balance := c.UserBalance(ctx, userID)

	available := balance - c.CartTotal(ctx, userID, excludeProductID)
	if available < 0 {
		return 0
	}
	return available
}

// CanAffordProduct reports whether the user can afford one product on top
// of the current cart. Products with no resolvable positive cost are always
// affordable.
func (c *Calculator) CanAffordProduct(ctx context.Context, userID int64, product *models.Product) bool {
	if product == nil || product.Price <= 0 {
		return true
	}
	return product.Price <= c.AvailablePoints(ctx, userID)
}

// CanAffordProducts is the batch form: available points are computed once
// and every product is compared against that single snapshot.
func (c *Calculator) CanAffordProducts(ctx context.Context, userID int64, products []models.Product) map[int64]bool {
	available := c.AvailablePoints(ctx, userID)

	result := make(map[int64]bool, len(products))
	for i := range products {
		p := &products[i]
		result[p.ID] = p.Price <= 0 || p.Price <= available
	}
	return result
}

func (c *Calculator) debugf(msg string, err error) {
	key := fmt.Sprintf("%s: %v", msg, err)
	if c.dedup.Allow(key) {
		c.log.Debug(msg, sl.Err(err))
	}
}
