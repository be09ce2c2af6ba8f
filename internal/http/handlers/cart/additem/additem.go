// Package additem implements adding a product to the cart. The add is
// validated by the purchasability gate first; a blocking decision returns
// the user-facing message with the missing points.
package additem

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/mhoralek/pointmarket/internal/gate"
	"github.com/mhoralek/pointmarket/internal/http/middlewarectx"
	"github.com/mhoralek/pointmarket/internal/http/response"
	"github.com/mhoralek/pointmarket/internal/lib/sl"
	"github.com/mhoralek/pointmarket/internal/models"
	"github.com/mhoralek/pointmarket/internal/storage"
)

// ProductSource fetches a catalogue product by id.
type ProductSource interface {
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
}

// CartService adds a product line to the user's cart.
type CartService interface {
	AddItem(ctx context.Context, userID int64, product *models.Product, quantity int) (*models.Cart, error)
}

// Gatekeeper validates the add against the available points.
type Gatekeeper interface {
	ValidateAddToCart(ctx context.Context, userID int64, product *models.Product, quantity int) gate.Decision
}

// Request is the JSON payload with the product and quantity to add.
type Request struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"required,gt=0"`
}

type Handler struct {
	log      *slog.Logger
	products ProductSource
	carts    CartService
	gate     Gatekeeper
	validate *validator.Validate
}

func New(log *slog.Logger, products ProductSource, carts CartService, gatekeeper Gatekeeper) *Handler {
	return &Handler{
		log:      log,
		products: products,
		carts:    carts,
		gate:     gatekeeper,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Add a product to the cart
// @Description Validates affordability through the purchasability gate and adds the product line. A blocked add returns the message with the missing points.
// @Tags Cart
// @Accept json
// @Produce json
// @Param request body Request true "Product and quantity"
// @Success 200 {object} map[string]any "Updated cart"
// @Failure 400 {object} response.ErrorResponse "Invalid JSON"
// @Failure 404 {object} response.ErrorResponse "Product not found"
// @Failure 422 {object} response.ErrorResponse "Not enough points"
// @Failure 500 {object} response.ErrorResponse "Cart update failed"
// @Router /cart/items [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cart.additem"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	userID, ok := r.Context().Value(middlewarectx.UserID).(int64)
	if !ok || userID == 0 {
		log.Error("user id not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	product, err := h.products.GetProduct(r.Context(), req.ProductID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("product not found", slog.Int64("product_id", req.ProductID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("product not found"))
			return
		}
		log.Error("failed to load product", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to load product"))
		return
	}

	if d := h.gate.ValidateAddToCart(r.Context(), userID, product, req.Quantity); !d.Allowed {
		log.Info("add to cart blocked", slog.Int64("product_id", product.ID))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error(d.Message))
		return
	}

	cart, err := h.carts.AddItem(r.Context(), userID, product, req.Quantity)
	if err != nil {
		log.Error("failed to add item", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to add item to cart"))
		return
	}

	log.Info("item added to cart", slog.Int64("product_id", product.ID), slog.Int("quantity", req.Quantity))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"cart":  cart,
		"total": cart.Total(),
	}))
}
