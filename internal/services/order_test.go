package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhoralek/pointmarket/internal/cart"
	"github.com/mhoralek/pointmarket/internal/ledger"
	"github.com/mhoralek/pointmarket/internal/models"
)

func (m *memoryCache) Invalidate(_ context.Context, key string) error {
	delete(m.data, key)
	return nil
}

type stubOrderRepo struct {
	created *models.Order
	err     error
}

func (s *stubOrderRepo) CreateOrder(_ context.Context, order models.Order) (int64, error) {
	s.created = &order
	return 99, s.err
}

func (s *stubOrderRepo) ListOrdersByUser(_ context.Context, _ int64, _ int) ([]models.Order, error) {
	return nil, nil
}

type stubDebitor struct {
	entries []ledger.EntryRequest
	err     error
}

func (s *stubDebitor) PointType(_ context.Context) (string, error) {
	return "body", nil
}

func (s *stubDebitor) Debit(_ context.Context, entry ledger.EntryRequest) error {
	s.entries = append(s.entries, entry)
	return s.err
}

func TestPlaceOrder(t *testing.T) {
	carts := cart.NewService(newMemoryCache(), testLogger())
	ctx := context.Background()
	_, err := carts.AddItem(ctx, 7, &models.Product{ID: 1, Name: "Vrtačka", Price: 100}, 2)
	require.NoError(t, err)

	repo := &stubOrderRepo{}
	debitor := &stubDebitor{}
	svc := NewOrderService(carts, repo, debitor, testLogger())

	order, err := svc.PlaceOrder(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(99), order.ID)
	assert.Equal(t, 200.0, order.Total)
	require.Len(t, debitor.entries, 1)
	assert.Equal(t, 200.0, debitor.entries[0].Amount)

	// cart is cleared after checkout
	c, err := carts.Get(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, c.Lines)
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	carts := cart.NewService(newMemoryCache(), testLogger())
	svc := NewOrderService(carts, &stubOrderRepo{}, &stubDebitor{}, testLogger())

	_, err := svc.PlaceOrder(context.Background(), 7)
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestPlaceOrderStoreFailureDoesNotDebit(t *testing.T) {
	carts := cart.NewService(newMemoryCache(), testLogger())
	ctx := context.Background()
	_, err := carts.AddItem(ctx, 7, &models.Product{ID: 1, Name: "Vrtačka", Price: 100}, 1)
	require.NoError(t, err)

	debitor := &stubDebitor{}
	svc := NewOrderService(carts, &stubOrderRepo{err: errors.New("db down")}, debitor, testLogger())

	_, err = svc.PlaceOrder(ctx, 7)
	assert.Error(t, err)
	assert.Empty(t, debitor.entries)
}
