// Package list implements listing the member's own submissions.
package list

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

// Service lists the submissions of a user.
type Service interface {
	ListByUser(ctx context.Context, userID int64) ([]models.Submission, error)
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
// @Summary List own submissions
// @Description Returns the member's realizace and faktury with their review status and assigned points.
// @Tags Submissions
// @Produce json
// @Success 200 {object} map[string]any "Submission list"
// @Failure 401 {object} response.ErrorResponse "Not authorized"
// @Failure 500 {object} response.ErrorResponse "Listing failed"
// @Router /submissions [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.submission.list"

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

	submissions, err := h.service.ListByUser(r.Context(), userID)
	if err != nil {
		log.Error("failed to list submissions", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list submissions"))
		return
	}

	log.Info("submissions listed", slog.Int("count", len(submissions)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"count":       len(submissions),
		"submissions": submissions,
	}))
}
