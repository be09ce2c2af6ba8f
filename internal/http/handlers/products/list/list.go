// Package list implements the catalogue listing with the purchasability
// decision computed per product for the requesting user.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/mhoralek/pointmarket/internal/gate"
	"github.com/mhoralek/pointmarket/internal/http/middlewarectx"
	"github.com/mhoralek/pointmarket/internal/http/response"
	"github.com/mhoralek/pointmarket/internal/lib/sl"
	"github.com/mhoralek/pointmarket/internal/models"
)

// Catalog lists the active products of the rewards catalogue.
type Catalog interface {
	ListActiveProducts(ctx context.Context, limit, offset int) ([]models.Product, error)
}

// Gatekeeper decides purchasability for a batch of products.
type Gatekeeper interface {
	DisplayBatch(ctx context.Context, userID int64, products []models.Product) map[int64]gate.Decision
}

type Handler struct {
	log     *slog.Logger
	catalog Catalog
	gate    Gatekeeper
}

func New(log *slog.Logger, catalog Catalog, gatekeeper Gatekeeper) *Handler {
	return &Handler{
		log:     log,
		catalog: catalog,
		gate:    gatekeeper,
	}
}

// ServeHTTP godoc
// @Summary List catalogue products
// @Description Returns the active products with a per-product purchasability flag for the requesting user. The whole page is evaluated against one balance snapshot.
// @Tags Products
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {object} map[string]any "Product list"
// @Failure 401 {object} response.ErrorResponse "Not authorized"
// @Failure 500 {object} response.ErrorResponse "Listing failed"
// @Router /products [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.products.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 20
	}
	offset, err := strconv.Atoi(r.URL.Query().Get("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}

	userID, ok := r.Context().Value(middlewarectx.UserID).(int64)
	if !ok || userID == 0 {
		log.Error("user id not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	products, err := h.catalog.ListActiveProducts(r.Context(), limit, offset)
	if err != nil {
		log.Error("failed to list products", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list products"))
		return
	}

	decisions := h.gate.DisplayBatch(r.Context(), userID, products)

	views := make([]models.ProductView, 0, len(products))
	for _, p := range products {
		d := decisions[p.ID]
		views = append(views, models.ProductView{
			Product:     p,
			Purchasable: d.Allowed,
			Message:     d.Message,
		})
	}

	log.Info("products listed", slog.Int("count", len(views)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"count":    len(views),
		"products": views,
	}))
}
