package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mhoralek/pointmarket/internal/cart"
	"github.com/mhoralek/pointmarket/internal/ledger"
	"github.com/mhoralek/pointmarket/internal/models"
)

// ErrEmptyCart is returned when checkout runs on an empty cart.
var ErrEmptyCart = errors.New("cart is empty")

// OrderRepository is the contract of the order store.
type OrderRepository interface {
	CreateOrder(ctx context.Context, order models.Order) (int64, error)
	ListOrdersByUser(ctx context.Context, userID int64, limit int) ([]models.Order, error)
}

// LedgerDebitor posts debit entries to the points ledger.
type LedgerDebitor interface {
	PointType(ctx context.Context) (string, error)
	Debit(ctx context.Context, entry ledger.EntryRequest) error
}

// OrderService turns a validated cart into an order and spends the points.
// The checkout gate must have passed before PlaceOrder is called.
type OrderService struct {
	carts  *cart.Service
	repo   OrderRepository
	ledger LedgerDebitor
	log    *slog.Logger
}

// NewOrderService creates an OrderService.
func NewOrderService(carts *cart.Service, repo OrderRepository, ledgerDebitor LedgerDebitor, log *slog.Logger) *OrderService {
	return &OrderService{
		carts:  carts,
		repo:   repo,
		ledger: ledgerDebitor,
		log:    log,
	}
}

// PlaceOrder freezes the cart into an order, debits the ledger and clears
// the cart. The debit runs after the order is stored; there is no
// cross-system transaction, the checkout gate re-check just before this
// call keeps the window small.
func (s *OrderService) PlaceOrder(ctx context.Context, userID int64) (*models.Order, error) {
	const op = "services.OrderService.PlaceOrder"

	c, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(c.Lines) == 0 {
		return nil, ErrEmptyCart
	}

	order := models.Order{
		UID:    uuid.NewString(),
		UserID: userID,
		Total:  c.Total(),
	}
	for _, line := range c.Lines {
		order.Lines = append(order.Lines, models.OrderLine{
			ProductID: line.ProductID,
			Name:      line.Name,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
	}

	id, err := s.repo.CreateOrder(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	order.ID = id

	pointType, err := s.ledger.PointType(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	err = s.ledger.Debit(ctx, ledger.EntryRequest{
		UserID:    userID,
		PointType: pointType,
		Amount:    order.Total,
		Reference: "order:" + order.UID,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.carts.Clear(ctx, userID); err != nil {
		s.log.Warn("failed to clear cart after checkout",
			slog.Int64("user_id", userID), slog.String("order_uid", order.UID))
	}

	s.log.Info("order placed",
		slog.Int64("order_id", id), slog.Int64("user_id", userID), slog.Float64("total", order.Total))
	return &order, nil
}

// ListByUser returns the user's recent orders.
func (s *OrderService) ListByUser(ctx context.Context, userID int64, limit int) ([]models.Order, error) {
	return s.repo.ListOrdersByUser(ctx, userID, limit)
}
