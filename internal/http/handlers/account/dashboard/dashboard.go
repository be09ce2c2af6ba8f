// Package dashboard implements the account overview endpoint.
package dashboard

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

// Service builds the account dashboard.
type Service interface {
	Dashboard(ctx context.Context, userID int64) (*models.Dashboard, error)
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
// @Summary Account dashboard
// @Description Returns the balance, available points, cart total, pending submission points and the recent activity of the account.
// @Tags Account
// @Produce json
// @Success 200 {object} models.Dashboard "Dashboard data"
// @Failure 401 {object} response.ErrorResponse "Not authorized"
// @Failure 500 {object} response.ErrorResponse "Dashboard build failed"
// @Router /account/dashboard [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.dashboard"

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

	dash, err := h.service.Dashboard(r.Context(), userID)
	if err != nil {
		log.Error("failed to build dashboard", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to build dashboard"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(dash))
}
