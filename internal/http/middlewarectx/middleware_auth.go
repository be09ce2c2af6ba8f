// Package middlewarectx contains the HTTP middleware of the service and the
// context keys it fills in.
//
// JWTMiddleware checks the JWT token in the Authorization header, parses it
// with the local token maker and on success stores the username, role and
// user id in the request context for the handlers.
//
// On a failed check it responds with HTTP 401 Unauthorized.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/mhoralek/pointmarket/internal/http/response"
	"github.com/mhoralek/pointmarket/internal/lib/jwt"
	"github.com/mhoralek/pointmarket/internal/lib/sl"
)

// Key is the type for the HTTP request context keys.
type Key string

const (
	// User is the context key for the username.
	User Key = "username"
	// Role is the context key for the user role.
	Role Key = "role"
	// UserID is the context key for the numeric user id.
	UserID Key = "user_id"
)

// JWTMiddleware returns an HTTP middleware that checks the JWT in the
// Authorization header.
//
// When the token is valid it stores the username, role and user id in the
// request context, otherwise it responds with HTTP 401 Unauthorized.
func JWTMiddleware(maker jwt.Maker, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			const op = "middlewarectx.JWTMiddleware"

			log = log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Error("missing or invalid authorization header")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("missing or invalid authorization header"))
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			claims, err := maker.ParseToken(tokenStr)
			if err != nil {
				log.Error("invalid or expired token", sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid or expired token"))
				return
			}
			ctx := context.WithValue(r.Context(), User, claims.Username)
			ctx = context.WithValue(ctx, Role, claims.Role)
			ctx = context.WithValue(ctx, UserID, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
