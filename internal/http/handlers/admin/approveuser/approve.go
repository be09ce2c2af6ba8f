// Package approveuser implements the admin approval of a registration:
// the account moves from awaiting review to full membership and the
// purchase routes open up.
package approveuser

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/mhoralek/pointmarket/internal/http/response"
	"github.com/mhoralek/pointmarket/internal/lib/sl"
	"github.com/mhoralek/pointmarket/internal/models"
	"github.com/mhoralek/pointmarket/internal/storage"
)

// Service approves a pending registration.
type Service interface {
	ApproveUser(ctx context.Context, userID int64) error
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
// @Summary Approve a registration
// @Description Moves an awaiting-review account to full membership. Approving an already approved account fails.
// @Tags Admin
// @Produce json
// @Param userID path int true "User id"
// @Success 200 {object} map[string]any "User approved"
// @Failure 400 {object} response.ErrorResponse "Invalid user id"
// @Failure 404 {object} response.ErrorResponse "User not found or not awaiting review"
// @Failure 500 {object} response.ErrorResponse "Approval failed"
// @Router /admin/users/{userID}/approve [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.approveuser"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil || userID <= 0 {
		log.Error("invalid user id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid user id"))
		return
	}

	if err := h.service.ApproveUser(r.Context(), userID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("user not found or not awaiting review", slog.Int64("user_id", userID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found or not awaiting review"))
			return
		}
		log.Error("failed to approve user", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to approve user"))
		return
	}

	log.Info("user approved", slog.Int64("user_id", userID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"user_id": userID,
		"status":  models.StatusFullMember,
	}))
}
