package middlewarectx

import (
	"net/http"

	"github.com/mhoralek/pointmarket/internal/points"
)

// RequestCacheMiddleware installs the per-request point calculation cache
// into the context, so repeated balance and point-type lookups within one
// request hit the ledger only once.
func RequestCacheMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := points.WithRequestCache(r.Context())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
