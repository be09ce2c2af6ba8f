// Package register implements the registration endpoint: credentials plus a
// company IČO that is validated and, when the registry answers, prefilled
// from ARES.
package register

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/mhoralek/pointmarket/internal/http/response"
	"github.com/mhoralek/pointmarket/internal/lib/sl"
	"github.com/mhoralek/pointmarket/internal/models"
	"github.com/mhoralek/pointmarket/internal/services"
	"github.com/mhoralek/pointmarket/internal/storage"
)

// Service registers a new account and returns its id.
type Service interface {
	Register(ctx context.Context, req models.RegisterRequest) (int64, error)
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
// @Summary Register a new member account
// @Description Creates an account in the awaiting-review state. The IČO is checksum-validated and company data is prefilled from ARES when available.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body models.RegisterRequest true "Registration data"
// @Success 200 {object} map[string]any "Account created"
// @Failure 400 {object} response.ErrorResponse "Invalid JSON"
// @Failure 409 {object} response.ErrorResponse "Username already taken"
// @Failure 422 {object} response.ErrorResponse "Validation failed"
// @Failure 500 {object} response.ErrorResponse "Registration failed"
// @Router /register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.String("username", req.Username))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	id, err := h.service.Register(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidICO):
			log.Info("invalid ico rejected", slog.String("ico", req.ICO))
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("Zadané IČO není platné."))
		case errors.Is(err, storage.ErrUserExists):
			log.Info("username already taken", slog.String("username", req.Username))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("Uživatelské jméno je již obsazené."))
		default:
			log.Error("registration failed", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to register user"))
		}
		return
	}

	log.Info("user registered", slog.Int64("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"id":       id,
		"username": req.Username,
		"status":   models.StatusAwaitingReview,
	}))
}
