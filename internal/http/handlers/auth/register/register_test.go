package register

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/mhoralek/pointmarket/internal/models"
	"github.com/mhoralek/pointmarket/internal/services"
	"github.com/mhoralek/pointmarket/internal/storage"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Register(ctx context.Context, req models.RegisterRequest) (int64, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(int64), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func validRequest() models.RegisterRequest {
	return models.RegisterRequest{
		Username: "novak1",
		Email:    "novak@example.com",
		Password: "password123",
		ICO:      "45274649",
	}
}

func TestRegisterHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    any
		mockID         int64
		mockErr        error
		callService    bool
		wantStatusCode int
		wantError      string
		wantStatus     string
	}{
		{
			name:           "valid registration",
			requestBody:    validRequest(),
			mockID:         7,
			callService:    true,
			wantStatusCode: http.StatusOK,
			wantStatus:     "OK",
		},
		{
			name:           "invalid json body",
			requestBody:    "not a json",
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid request body",
			wantStatus:     "Error",
		},
		{
			name: "validation error - missing password",
			requestBody: models.RegisterRequest{
				Username: "novak1",
				Email:    "novak@example.com",
				ICO:      "45274649",
			},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantError:      "field Password is a required field",
			wantStatus:     "Error",
		},
		{
			name:           "invalid ico checksum",
			requestBody:    validRequest(),
			mockErr:        services.ErrInvalidICO,
			callService:    true,
			wantStatusCode: http.StatusUnprocessableEntity,
			wantError:      "Zadané IČO není platné.",
			wantStatus:     "Error",
		},
		{
			name:           "username taken",
			requestBody:    validRequest(),
			mockErr:        storage.ErrUserExists,
			callService:    true,
			wantStatusCode: http.StatusConflict,
			wantError:      "Uživatelské jméno je již obsazené.",
			wantStatus:     "Error",
		},
		{
			name:           "service error",
			requestBody:    validRequest(),
			mockErr:        errors.New("db down"),
			callService:    true,
			wantStatusCode: http.StatusInternalServerError,
			wantError:      "failed to register user",
			wantStatus:     "Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock := new(ServiceMock)
			if tt.callService {
				serviceMock.On("Register", mock.Anything, mock.Anything).
					Return(tt.mockID, tt.mockErr).Once()
			}

			handler := New(newNoopLogger(), serviceMock)

			var bodyBytes []byte
			var err error
			switch v := tt.requestBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				bodyBytes, err = json.Marshal(tt.requestBody)
				if err != nil {
					t.Fatal(err)
				}
			}

			req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader(bodyBytes))
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			err = json.NewDecoder(rec.Body).Decode(&got)
			assert.NoError(t, err)
			assert.Equal(t, tt.wantStatus, got["status"])

			if tt.wantError != "" {
				errStr, ok := got["error"].(string)
				assert.True(t, ok)
				assert.Equal(t, tt.wantError, errStr)
			} else {
				data, ok := got["data"].(map[string]any)
				assert.True(t, ok)
				assert.Equal(t, float64(7), data["id"])
				assert.Equal(t, models.StatusAwaitingReview, data["status"])
			}

			serviceMock.AssertExpectations(t)
		})
	}
}
