// Package progress implements the acceptance-progress endpoint: where the
// member stands between registration and full membership and how many
// points wait in pending submissions.
package progress

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

// Service builds the progress summary.
type Service interface {
	Progress(ctx context.Context, userID int64) (*models.Progress, error)
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
// @Summary Membership progress
// @Description Returns the registration status, pending submission points, annual points and leaderboard rank of the account.
// @Tags Account
// @Produce json
// @Success 200 {object} models.Progress "Progress data"
// @Failure 401 {object} response.ErrorResponse "Not authorized"
// @Failure 500 {object} response.ErrorResponse "Progress build failed"
// @Router /account/progress [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.progress"

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

	prog, err := h.service.Progress(r.Context(), userID)
	if err != nil {
		log.Error("failed to build progress", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to build progress"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(prog))
}
