package list

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/mhoralek/pointmarket/internal/models"
	"github.com/mhoralek/pointmarket/internal/services"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) List(ctx context.Context, limit, offset int) ([]models.ZebricekEntry, error) {
	args := m.Called(ctx, limit, offset)
	entries, _ := args.Get(0).([]models.ZebricekEntry)
	return entries, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestZebricekListHandler_ServeHTTP(t *testing.T) {
	t.Run("returns a page with ranks", func(t *testing.T) {
		serviceMock := new(ServiceMock)
		serviceMock.On("List", mock.Anything, 10, 20).
			Return([]models.ZebricekEntry{
				{Rank: 21, UserID: 4, Username: "novak", Points: 1200},
				{Rank: 22, UserID: 9, Username: "svoboda", Points: 1100},
			}, nil).Once()

		handler := New(newNoopLogger(), serviceMock)

		req := httptest.NewRequest(http.MethodGet, "/zebricek?limit=10&offset=20", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var got map[string]any
		assert.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		data := got["data"].(map[string]any)
		assert.Equal(t, float64(2), data["count"])

		entries := data["entries"].([]any)
		first := entries[0].(map[string]any)
		assert.Equal(t, float64(21), first["rank"])
		assert.Equal(t, "novak", first["username"])

		serviceMock.AssertExpectations(t)
	})

	t.Run("bad paging falls back to defaults", func(t *testing.T) {
		serviceMock := new(ServiceMock)
		serviceMock.On("List", mock.Anything, services.DefaultZebricekLimit, 0).
			Return([]models.ZebricekEntry{}, nil).Once()

		handler := New(newNoopLogger(), serviceMock)

		req := httptest.NewRequest(http.MethodGet, "/zebricek?limit=abc&offset=-5", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		serviceMock.AssertExpectations(t)
	})

	t.Run("service error returns 500", func(t *testing.T) {
		serviceMock := new(ServiceMock)
		serviceMock.On("List", mock.Anything, services.DefaultZebricekLimit, 0).
			Return(nil, errors.New("ledger down")).Once()

		handler := New(newNoopLogger(), serviceMock)

		req := httptest.NewRequest(http.MethodGet, "/zebricek", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
