// Package list implements the žebříček endpoint: the annual leaderboard
// page, cached briefly so repeated views do not hammer the ledger.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/mhoralek/pointmarket/internal/http/response"
	"github.com/mhoralek/pointmarket/internal/lib/sl"
	"github.com/mhoralek/pointmarket/internal/models"
	"github.com/mhoralek/pointmarket/internal/services"
)

// Service reads a leaderboard page.
type Service interface {
	List(ctx context.Context, limit, offset int) ([]models.ZebricekEntry, error)
}

type Handler struct {
	log     *slog.Logger
	service Service
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Annual points leaderboard
// @Description Returns a page of the žebříček ordered by points earned this year, with absolute ranks.
// @Tags Zebricek
// @Produce json
// @Param limit query int false "Page size" default(25)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {object} map[string]any "Leaderboard page"
// @Failure 500 {object} response.ErrorResponse "Leaderboard read failed"
// @Router /zebricek [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.zebricek.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = services.DefaultZebricekLimit
	}
	offset, err := strconv.Atoi(r.URL.Query().Get("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}

	entries, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		log.Error("failed to read leaderboard", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to read leaderboard"))
		return
	}

	log.Info("leaderboard page read", slog.Int("count", len(entries)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"count":   len(entries),
		"entries": entries,
	}))
}
