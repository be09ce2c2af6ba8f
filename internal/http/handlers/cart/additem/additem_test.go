package additem

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/mhoralek/pointmarket/internal/gate"
	"github.com/mhoralek/pointmarket/internal/http/middlewarectx"
	"github.com/mhoralek/pointmarket/internal/models"
	"github.com/mhoralek/pointmarket/internal/storage"
)

type ProductSourceMock struct {
	mock.Mock
}

func (m *ProductSourceMock) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	args := m.Called(ctx, id)
	product, _ := args.Get(0).(*models.Product)
	return product, args.Error(1)
}

type CartServiceMock struct {
	mock.Mock
}

func (m *CartServiceMock) AddItem(ctx context.Context, userID int64, product *models.Product, quantity int) (*models.Cart, error) {
	args := m.Called(ctx, userID, product, quantity)
	cart, _ := args.Get(0).(*models.Cart)
	return cart, args.Error(1)
}

type GatekeeperMock struct {
	mock.Mock
}

func (m *GatekeeperMock) ValidateAddToCart(ctx context.Context, userID int64, product *models.Product, quantity int) gate.Decision {
	args := m.Called(ctx, userID, product, quantity)
	return args.Get(0).(gate.Decision)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func authedRequest(body []byte) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/cart/items", bytes.NewReader(body))
	ctx := context.WithValue(req.Context(), middlewarectx.UserID, int64(1))
	return req.WithContext(ctx)
}

func TestAddItemHandler_ServeHTTP(t *testing.T) {
	product := &models.Product{ID: 5, Name: "Poukaz", Price: 300}

	t.Run("allowed add returns updated cart", func(t *testing.T) {
		products := new(ProductSourceMock)
		carts := new(CartServiceMock)
		gatekeeper := new(GatekeeperMock)

		products.On("GetProduct", mock.Anything, int64(5)).Return(product, nil).Once()
		gatekeeper.On("ValidateAddToCart", mock.Anything, int64(1), product, 2).
			Return(gate.Decision{Allowed: true}).Once()
		carts.On("AddItem", mock.Anything, int64(1), product, 2).
			Return(&models.Cart{UserID: 1, Lines: []models.CartLine{
				{ProductID: 5, Quantity: 2, UnitPrice: 300},
			}}, nil).Once()

		handler := New(newNoopLogger(), products, carts, gatekeeper)
		body, _ := json.Marshal(Request{ProductID: 5, Quantity: 2})
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, authedRequest(body))

		assert.Equal(t, http.StatusOK, rec.Code)

		var got map[string]any
		assert.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		data := got["data"].(map[string]any)
		assert.Equal(t, float64(600), data["total"])

		products.AssertExpectations(t)
		gatekeeper.AssertExpectations(t)
		carts.AssertExpectations(t)
	})

	t.Run("blocked add returns the gate message", func(t *testing.T) {
		products := new(ProductSourceMock)
		carts := new(CartServiceMock)
		gatekeeper := new(GatekeeperMock)

		products.On("GetProduct", mock.Anything, int64(5)).Return(product, nil).Once()
		gatekeeper.On("ValidateAddToCart", mock.Anything, int64(1), product, 2).
			Return(gate.Decision{Allowed: false, Message: "Na tento nákup nemáte dostatek bodů, chybí vám 50 bodů."}).Once()

		handler := New(newNoopLogger(), products, carts, gatekeeper)
		body, _ := json.Marshal(Request{ProductID: 5, Quantity: 2})
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, authedRequest(body))

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

		var got map[string]any
		assert.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Contains(t, got["error"], "chybí vám 50 bodů")

		carts.AssertNotCalled(t, "AddItem", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown product returns 404", func(t *testing.T) {
		products := new(ProductSourceMock)
		carts := new(CartServiceMock)
		gatekeeper := new(GatekeeperMock)

		products.On("GetProduct", mock.Anything, int64(99)).Return(nil, storage.ErrNotFound).Once()

		handler := New(newNoopLogger(), products, carts, gatekeeper)
		body, _ := json.Marshal(Request{ProductID: 99, Quantity: 1})
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, authedRequest(body))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("zero quantity fails validation", func(t *testing.T) {
		handler := New(newNoopLogger(), new(ProductSourceMock), new(CartServiceMock), new(GatekeeperMock))
		body, _ := json.Marshal(Request{ProductID: 5, Quantity: 0})
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, authedRequest(body))

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("missing user id returns 401", func(t *testing.T) {
		products := new(ProductSourceMock)
		handler := New(newNoopLogger(), products, new(CartServiceMock), new(GatekeeperMock))
		body, _ := json.Marshal(Request{ProductID: 5, Quantity: 1})

		req := httptest.NewRequest(http.MethodPost, "/cart/items", bytes.NewReader(body))
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
