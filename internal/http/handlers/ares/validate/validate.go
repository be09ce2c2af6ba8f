// Package validate implements the IČO validation endpoint used by the
// registration form: checksum check first, then an ARES registry lookup
// that prefills the company data. Registry failures degrade to manual
// entry instead of blocking the form.
package validate

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/mhoralek/pointmarket/internal/ares"
	"github.com/mhoralek/pointmarket/internal/http/response"
	"github.com/mhoralek/pointmarket/internal/lib/ico"
	"github.com/mhoralek/pointmarket/internal/lib/sl"
	"github.com/mhoralek/pointmarket/internal/models"
)

// Registry looks a subject up in ARES by IČO.
type Registry interface {
	Lookup(ctx context.Context, icoNumber string) (*models.Company, error)
}

// Request is the JSON payload with the IČO to validate.
type Request struct {
	ICO string `json:"ico" validate:"required,len=8,numeric"`
}

type Handler struct {
	log      *slog.Logger
	registry Registry
	validate *validator.Validate
}

func New(log *slog.Logger, registry Registry) *Handler {
	return &Handler{
		log:      log,
		registry: registry,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Validate an IČO and prefill company data
// @Description Checks the IČO checksum and looks the subject up in the ARES registry. When the registry is unavailable the response asks for manual entry instead of failing the form.
// @Tags Ares
// @Accept json
// @Produce json
// @Param request body Request true "IČO to validate"
// @Success 200 {object} map[string]any "Validation result"
// @Failure 400 {object} response.ErrorResponse "Invalid JSON"
// @Failure 422 {object} response.ErrorResponse "Malformed or invalid IČO"
// @Router /ares/validate [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.ares.validate"

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

	if !ico.IsValid(req.ICO) {
		log.Info("ico checksum failed", slog.String("ico", req.ICO))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error("Zadané IČO není platné."))
		return
	}

	company, err := h.registry.Lookup(r.Context(), req.ICO)
	if err != nil {
		var lookupErr *ares.LookupError
		if errors.As(err, &lookupErr) {
			log.Info("ares lookup failed", sl.Err(err),
				slog.Bool("manual_entry", lookupErr.ManualEntry))
			render.JSON(w, r, response.StatusOKWithData(map[string]any{
				"found":        false,
				"manual_entry": lookupErr.ManualEntry,
				"message":      lookupErr.Message,
			}))
			return
		}
		log.Error("ares lookup failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to validate ico"))
		return
	}

	log.Info("ares subject found", slog.String("ico", req.ICO))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"found":   true,
		"company": company,
	}))
}
