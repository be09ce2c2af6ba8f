package points

import (
	"context"
	"sync"
)

type reqCacheKey struct{}

// requestCache memoizes the resolved point type for the lifetime of one
// HTTP request. The point type is an administrative ledger setting, so one
// resolution per request is enough; carrying it longer would hide setting
// changes between requests.
type requestCache struct {
	mu        sync.Mutex
	pointType string
	resolved  bool
}

// WithRequestCache returns a context carrying a fresh per-request cache.
// The HTTP middleware installs one at the start of every request.
func WithRequestCache(ctx context.Context) context.Context {
	return context.WithValue(ctx, reqCacheKey{}, &requestCache{})
}

func cacheFrom(ctx context.Context) *requestCache {
	c, _ := ctx.Value(reqCacheKey{}).(*requestCache)
	return c
}
