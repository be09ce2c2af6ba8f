// Package view implements the cart view: the lines, the point total and
// whether the cart is still covered by the member's balance.
package view

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/mhoralek/pointmarket/internal/http/middlewarectx"
	"github.com/mhoralek/pointmarket/internal/http/response"
	"github.com/mhoralek/pointmarket/internal/lib/sl"
	"github.com/mhoralek/pointmarket/internal/models"
)

// CartSource reads the user's cart.
type CartSource interface {
	Get(ctx context.Context, userID int64) (*models.Cart, error)
}

// BalanceSource reads the user's point balance.
type BalanceSource interface {
	UserBalance(ctx context.Context, userID int64) float64
}

type Handler struct {
	log      *slog.Logger
	carts    CartSource
	balances BalanceSource
}

func New(log *slog.Logger, carts CartSource, balances BalanceSource) *Handler {
	return &Handler{
		log:      log,
		carts:    carts,
		balances: balances,
	}
}

// ServeHTTP godoc
// @Summary View the cart
// @Description Returns the cart lines, the point total and the current balance, so the client can flag a cart that outgrew the balance.
// @Tags Cart
// @Produce json
// @Success 200 {object} map[string]any "Cart contents"
// @Failure 401 {object} response.ErrorResponse "Not authorized"
// @Failure 500 {object} response.ErrorResponse "Cart read failed"
// @Router /cart [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cart.view"

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

	cart, err := h.carts.Get(r.Context(), userID)
	if err != nil {
		log.Error("failed to read cart", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to read cart"))
		return
	}

	balance := h.balances.UserBalance(r.Context(), userID)
	total := cart.Total()

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"cart":           cart,
		"total":          total,
		"balance":        balance,
		"within_balance": total <= balance,
	}))
}
