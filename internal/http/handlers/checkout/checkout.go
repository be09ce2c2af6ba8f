// Package checkout implements the checkout endpoint: the final gate check
// against the raw balance, then order placement and the point debit.
package checkout

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/mhoralek/pointmarket/internal/gate"
	"github.com/mhoralek/pointmarket/internal/http/middlewarectx"
	"github.com/mhoralek/pointmarket/internal/http/response"
	"github.com/mhoralek/pointmarket/internal/lib/sl"
	"github.com/mhoralek/pointmarket/internal/models"
	"github.com/mhoralek/pointmarket/internal/services"
)

// OrderPlacer freezes the cart into an order and debits the points.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, userID int64) (*models.Order, error)
}

// Gatekeeper runs the final checkout validation.
type Gatekeeper interface {
	ValidateCheckout(ctx context.Context, userID int64) gate.Decision
}

type Handler struct {
	log    *slog.Logger
	orders OrderPlacer
	gate   Gatekeeper
}

func New(log *slog.Logger, orders OrderPlacer, gatekeeper Gatekeeper) *Handler {
	return &Handler{
		log:    log,
		orders: orders,
		gate:   gatekeeper,
	}
}

// ServeHTTP godoc
// @Summary Check out the cart
// @Description Re-validates the whole cart against the raw balance and places the order. A cart total equal to the balance passes.
// @Tags Cart
// @Produce json
// @Success 200 {object} map[string]any "Order placed"
// @Failure 401 {object} response.ErrorResponse "Not authorized"
// @Failure 409 {object} response.ErrorResponse "Cart is empty"
// @Failure 422 {object} response.ErrorResponse "Cart total over the balance"
// @Failure 500 {object} response.ErrorResponse "Order placement failed"
// @Router /checkout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.checkout"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userID, ok := r.Context().Value(middlewarectx.UserID).(int64)
	if !ok || userID == 0 {
		log.Error("user id not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	if d := h.gate.ValidateCheckout(r.Context(), userID); !d.Allowed {
		log.Info("checkout blocked", slog.Int64("user_id", userID))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error(d.Message))
		return
	}

	order, err := h.orders.PlaceOrder(r.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrEmptyCart) {
			log.Info("empty cart checkout attempt", slog.Int64("user_id", userID))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("cart is empty"))
			return
		}
		log.Error("failed to place order", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to place order"))
		return
	}

	log.Info("order placed", slog.String("order_uid", order.UID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"order": order,
	}))
}
