// Package removeitem implements removing a product line from the cart.
package removeitem

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/mhoralek/pointmarket/internal/http/middlewarectx"
	"github.com/mhoralek/pointmarket/internal/http/response"
	"github.com/mhoralek/pointmarket/internal/lib/sl"
	"github.com/mhoralek/pointmarket/internal/models"
)

// CartService removes a product line from the user's cart.
type CartService interface {
	RemoveItem(ctx context.Context, userID, productID int64) (*models.Cart, error)
}

type Handler struct {
	log   *slog.Logger
	carts CartService
}

func New(log *slog.Logger, carts CartService) *Handler {
	return &Handler{
		log:   log,
		carts: carts,
	}
}

// ServeHTTP godoc
// @Summary Remove a product from the cart
// @Description Removes the product line from the cart. Removing a product that is not in the cart is a no-op.
// @Tags Cart
// @Produce json
// @Param productID path int true "Product id"
// @Success 200 {object} map[string]any "Updated cart"
// @Failure 400 {object} response.ErrorResponse "Invalid product id"
// @Failure 401 {object} response.ErrorResponse "Not authorized"
// @Failure 500 {object} response.ErrorResponse "Cart update failed"
// @Router /cart/items/{productID} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cart.removeitem"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	productID, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil || productID <= 0 {
		log.Error("invalid product id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid product id"))
		return
	}

	userID, ok := r.Context().Value(middlewarectx.UserID).(int64)
	if !ok || userID == 0 {
		log.Error("user id not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	cart, err := h.carts.RemoveItem(r.Context(), userID, productID)
	if err != nil {
		log.Error("failed to remove item", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to remove item from cart"))
		return
	}

	log.Info("item removed from cart", slog.Int64("product_id", productID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"cart":  cart,
		"total": cart.Total(),
	}))
}
