// Package rejectsubmission implements the admin rejection of a pending
// submission with a reason shown to the author.
package rejectsubmission

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/mhoralek/pointmarket/internal/http/response"
	"github.com/mhoralek/pointmarket/internal/lib/sl"
	"github.com/mhoralek/pointmarket/internal/storage"
)

// Service rejects a pending submission.
type Service interface {
	Reject(ctx context.Context, uid, reason string) error
}

// Request carries the rejection reason.
type Request struct {
	Reason string `json:"reason" validate:"required"`
}

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Reject a submission
// @Description Rejects a pending submission with a reason. No points are credited.
// @Tags Admin
// @Accept json
// @Produce json
// @Param uid path string true "Submission uid"
// @Param request body Request true "Rejection reason"
// @Success 200 {object} map[string]any "Submission rejected"
// @Failure 400 {object} response.ErrorResponse "Invalid JSON"
// @Failure 404 {object} response.ErrorResponse "Submission not found"
// @Failure 409 {object} response.ErrorResponse "Submission already resolved"
// @Failure 500 {object} response.ErrorResponse "Rejection failed"
// @Router /admin/submissions/{uid}/reject [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.rejectsubmission"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	uid := chi.URLParam(r, "uid")
	if uid == "" {
		log.Error("missing submission uid")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing submission uid"))
		return
	}

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

	if err := h.service.Reject(r.Context(), uid, req.Reason); err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			log.Info("submission not found", slog.String("uid", uid))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("submission not found"))
		case errors.Is(err, storage.ErrAlreadyDone):
			log.Info("submission already resolved", slog.String("uid", uid))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("submission already resolved"))
		default:
			log.Error("failed to reject submission", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to reject submission"))
		}
		return
	}

	log.Info("submission rejected", slog.String("uid", uid))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"uid": uid,
	}))
}
