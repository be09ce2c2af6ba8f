package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
	"github.com/mhoralek/pointmarket/internal/http/response"
	"github.com/mhoralek/pointmarket/internal/lib/sl"
	"github.com/mhoralek/pointmarket/internal/models"
)

// StatusReader reads the registration status of a user.
type StatusReader interface {
	GetRegistrationStatus(ctx context.Context, userID int64) (string, error)
}

const msgAwaitingReview = "Váš účet čeká na schválení. Nakupovat budete moci po dokončení registrace."

// RegistrationStatusMiddleware creates a middleware that blocks purchase
// routes for accounts whose registration is still awaiting review.
//
// A failed status read lets the request through; the checkout path has its
// own gate and the middleware must not lock members out on an outage.
func RegistrationStatusMiddleware(log *slog.Logger, statuses StatusReader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := r.Context().Value(UserID).(int64)
			if !ok || userID == 0 {
				log.Error("user identification missing")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("user identification missing"))
				return
			}

			status, err := statuses.GetRegistrationStatus(r.Context(), userID)
			if err != nil {
				log.Error("failed to get registration status", sl.Err(err))
				next.ServeHTTP(w, r)
				return
			}

			if status == models.StatusAwaitingReview {
				log.Info("account awaiting review, purchase route denied",
					slog.Int64("user_id", userID))
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error(msgAwaitingReview))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
