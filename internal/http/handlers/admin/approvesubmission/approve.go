// Package approvesubmission implements the admin approval of a pending
// submission: the points are credited through the ledger and an event is
// published for the notification pipeline.
package approvesubmission

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

// Service approves a pending submission with the given point value.
type Service interface {
	Approve(ctx context.Context, uid string, points float64) error
}

// Request carries the point value assigned on approval.
type Request struct {
	Points float64 `json:"points" validate:"required,gt=0"`
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
// @Summary Approve a submission
// @Description Approves a pending submission and credits the assigned points to its author. Resolving an already resolved submission fails.
// @Tags Admin
// @Accept json
// @Produce json
// @Param uid path string true "Submission uid"
// @Param request body Request true "Assigned points"
// @Success 200 {object} map[string]any "Submission approved"
// @Failure 400 {object} response.ErrorResponse "Invalid JSON"
// @Failure 404 {object} response.ErrorResponse "Submission not found"
// @Failure 409 {object} response.ErrorResponse "Submission already resolved"
// @Failure 500 {object} response.ErrorResponse "Approval failed"
// @Router /admin/submissions/{uid}/approve [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.approvesubmission"

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

	if err := h.service.Approve(r.Context(), uid, req.Points); err != nil {
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
			log.Error("failed to approve submission", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to approve submission"))
		}
		return
	}

	log.Info("submission approved", slog.String("uid", uid), slog.Float64("points", req.Points))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"uid":    uid,
		"points": req.Points,
	}))
}
