// Package cart implements the session-scoped shopping cart kept in Redis.
// Line items snapshot the product price in points at the moment of adding.
package cart

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mhoralek/pointmarket/internal/models"
)

// cartTTL is how long an untouched cart survives in Redis.
const cartTTL = 48 * time.Hour

// Cache is the subset of the Redis wrapper the cart service needs.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// Service stores and mutates user carts.
type Service struct {
	cache Cache
	log   *slog.Logger
}

// NewService creates a cart service over the given cache.
func NewService(cache Cache, log *slog.Logger) *Service {
	return &Service{
		cache: cache,
		log:   log,
	}
}

func cartKey(userID int64) string {
	return fmt.Sprintf("cart:%d", userID)
}

// Get loads the user's cart. A missing key is an empty cart, not an error.
func (s *Service) Get(ctx context.Context, userID int64) (*models.Cart, error) {
	const op = "cart.Get"

	c := &models.Cart{UserID: userID}
	found, err := s.cache.Get(ctx, cartKey(userID), c)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !found {
		return &models.Cart{UserID: userID}, nil
	}
	c.UserID = userID
	return c, nil
}

// AddItem adds quantity units of the product to the cart, merging with an
// existing line of the same product. The unit price is snapshotted from the
// product at this moment.
func (s *Service) AddItem(ctx context.Context, userID int64, product *models.Product, quantity int) (*models.Cart, error) {
	const op = "cart.AddItem"

	if quantity <= 0 {
		return nil, fmt.Errorf("%s: quantity must be positive", op)
	}

	c, err := s.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if line := c.Line(product.ID); line != nil {
		line.Quantity += quantity
	} else {
		c.Lines = append(c.Lines, models.CartLine{
			ProductID: product.ID,
			Name:      product.Name,
			Quantity:  quantity,
			UnitPrice: product.Price,
		})
	}

	if err := s.cache.Set(ctx, cartKey(userID), c, cartTTL); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

// RemoveItem drops the product's line from the cart. Removing a product
// that is not in the cart is a no-op.
func (s *Service) RemoveItem(ctx context.Context, userID, productID int64) (*models.Cart, error) {
	const op = "cart.RemoveItem"

	c, err := s.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	lines := c.Lines[:0]
	for _, line := range c.Lines {
		if line.ProductID != productID {
			lines = append(lines, line)
		}
	}
	c.Lines = lines

	if err := s.cache.Set(ctx, cartKey(userID), c, cartTTL); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

// Clear removes the whole cart, used after a successful checkout.
func (s *Service) Clear(ctx context.Context, userID int64) error {
	const op = "cart.Clear"
	if err := s.cache.Invalidate(ctx, cartKey(userID)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
