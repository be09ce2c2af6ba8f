package points

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mhoralek/pointmarket/internal/models"
)

type stubLedger struct {
	balance        float64
	balanceErr     error
	pointType      string
	pointTypeErr   error
	pointTypeCalls int
}

func (s *stubLedger) Balance(_ context.Context, _ int64, _ string) (float64, error) {
	return s.balance, s.balanceErr
}

func (s *stubLedger) PointType(_ context.Context) (string, error) {
	s.pointTypeCalls++
	return s.pointType, s.pointTypeErr
}

type stubCarts struct {
	cart *models.Cart
	err  error
}

func (s *stubCarts) Get(_ context.Context, userID int64) (*models.Cart, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.cart != nil {
		return s.cart, nil
	}
	return &models.Cart{UserID: userID}, nil
}

func newCalculator(ledger *stubLedger, carts *stubCarts) *Calculator {
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return NewCalculator(ledger, carts, log)
}

func cartWith(lines ...models.CartLine) *models.Cart {
	return &models.Cart{UserID: 1, Lines: lines}
}

func TestAvailablePointsClampedAtZero(t *testing.T) {
	tests := []struct {
		name     string
		balance  float64
		cart     *models.Cart
		expected float64
	}{
		{name: "empty cart", balance: 500, cart: cartWith(), expected: 500},
		{name: "partial cart", balance: 500, cart: cartWith(models.CartLine{ProductID: 1, Quantity: 1, UnitPrice: 200}), expected: 300},
		{name: "cart equals balance", balance: 100, cart: cartWith(models.CartLine{ProductID: 1, Quantity: 1, UnitPrice: 100}), expected: 0},
		{name: "cart exceeds balance", balance: 100, cart: cartWith(models.CartLine{ProductID: 1, Quantity: 3, UnitPrice: 100}), expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calc := newCalculator(&stubLedger{balance: tt.balance, pointType: "body"}, &stubCarts{cart: tt.cart})
			assert.Equal(t, tt.expected, calc.AvailablePoints(context.Background(), 1))
		})
	}
}

func TestUserBalanceFailsClosedToZero(t *testing.T) {
	calc := newCalculator(&stubLedger{balanceErr: errors.New("ledger down"), pointType: "body"}, &stubCarts{})
	assert.Equal(t, 0.0, calc.UserBalance(context.Background(), 1))

	calc = newCalculator(&stubLedger{balance: 100, pointTypeErr: errors.New("no setting")}, &stubCarts{})
	assert.Equal(t, 0.0, calc.UserBalance(context.Background(), 1))
}

func TestAvailablePointsFailsOpenToRawBalance(t *testing.T) {
	calc := newCalculator(&stubLedger{balance: 500, pointType: "body"}, &stubCarts{err: errors.New("redis down")})
	// derived-value errors fall back to the raw balance, not zero
	assert.Equal(t, 500.0, calc.AvailablePoints(context.Background(), 1))
}

func TestCartTotalExcludesProduct(t *testing.T) {
	carts := &stubCarts{cart: cartWith(
		models.CartLine{ProductID: 1, Quantity: 2, UnitPrice: 100},
		models.CartLine{ProductID: 2, Quantity: 1, UnitPrice: 50},
	)}
	calc := newCalculator(&stubLedger{balance: 1000, pointType: "body"}, carts)

	assert.Equal(t, 250.0, calc.CartTotal(context.Background(), 1, 0))
	assert.Equal(t, 50.0, calc.CartTotal(context.Background(), 1, 1))
	assert.Equal(t, 200.0, calc.CartTotal(context.Background(), 1, 2))
}

func TestNoDoubleCountForProductAlreadyInCart(t *testing.T) {
	// Cart holds 1 unit of product 1 at 100 points, balance 100:
	// available is 0, but re-evaluating the same line must pass.
	carts := &stubCarts{cart: cartWith(models.CartLine{ProductID: 1, Quantity: 1, UnitPrice: 100})}
	calc := newCalculator(&stubLedger{balance: 100, pointType: "body"}, carts)
	ctx := context.Background()

	assert.Equal(t, 0.0, calc.AvailablePoints(ctx, 1))
	assert.Equal(t, 100.0, calc.AvailableAfterExcluding(ctx, 1, 1))
}

func TestCanAffordProduct(t *testing.T) {
	carts := &stubCarts{cart: cartWith(models.CartLine{ProductID: 9, Quantity: 1, UnitPrice: 200})}
	calc := newCalculator(&stubLedger{balance: 500, pointType: "body"}, carts)
	ctx := context.Background()

	assert.True(t, calc.CanAffordProduct(ctx, 1, &models.Product{ID: 2, Price: 250}))
	assert.False(t, calc.CanAffordProduct(ctx, 1, &models.Product{ID: 3, Price: 350}))
	// zero or invalid cost is always affordable
	assert.True(t, calc.CanAffordProduct(ctx, 1, &models.Product{ID: 4, Price: 0}))
	assert.True(t, calc.CanAffordProduct(ctx, 1, nil))
}

func TestCanAffordProductZeroCostWithLedgerError(t *testing.T) {
	calc := newCalculator(&stubLedger{balanceErr: errors.New("ledger down"), pointType: "body"}, &stubCarts{})
	ctx := context.Background()

	assert.False(t, calc.CanAffordProduct(ctx, 1, &models.Product{ID: 1, Price: 1}))
	assert.True(t, calc.CanAffordProduct(ctx, 1, &models.Product{ID: 2, Price: 0}))
}

func TestBatchAgreesWithSingle(t *testing.T) {
	carts := &stubCarts{cart: cartWith(models.CartLine{ProductID: 9, Quantity: 1, UnitPrice: 200})}
	calc := newCalculator(&stubLedger{balance: 500, pointType: "body"}, carts)
	ctx := context.Background()

	products := []models.Product{
		{ID: 1, Price: 0},
		{ID: 2, Price: 250},
		{ID: 3, Price: 300},
		{ID: 4, Price: 350},
	}
	batch := calc.CanAffordProducts(ctx, 1, products)
	for i := range products {
		p := &products[i]
		assert.Equal(t, calc.CanAffordProduct(ctx, 1, p), batch[p.ID], "product %d", p.ID)
	}
}

func TestPointTypeMemoizedPerRequest(t *testing.T) {
	ledger := &stubLedger{balance: 100, pointType: "body"}
	calc := newCalculator(ledger, &stubCarts{})

	ctx := WithRequestCache(context.Background())
	calc.UserBalance(ctx, 1)
	calc.UserBalance(ctx, 1)
	calc.AvailablePoints(ctx, 1)
	assert.Equal(t, 1, ledger.pointTypeCalls)

	// a new request resolves again
	ctx = WithRequestCache(context.Background())
	calc.UserBalance(ctx, 1)
	assert.Equal(t, 2, ledger.pointTypeCalls)
}

func TestNegativeBalanceClamped(t *testing.T) {
	calc := newCalculator(&stubLedger{balance: -50, pointType: "body"}, &stubCarts{})
	assert.Equal(t, 0.0, calc.UserBalance(context.Background(), 1))
}
