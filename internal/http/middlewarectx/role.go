package middlewarectx

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
	"github.com/mhoralek/pointmarket/internal/http/response"
)

// RequireRole creates a middleware that only lets through requests whose
// context role matches the given one. Everything else gets HTTP 403.
func RequireRole(role string, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, ok := r.Context().Value(Role).(string)
			if !ok || got != role {
				log.Error("access denied", slog.String("required_role", role))
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error("access denied"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
