package pointmarket

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/mhoralek/pointmarket/internal/ares"
	"github.com/mhoralek/pointmarket/internal/cart"
	"github.com/mhoralek/pointmarket/internal/gate"
	"github.com/mhoralek/pointmarket/internal/lib/jwt"
	"github.com/mhoralek/pointmarket/internal/points"
	"github.com/mhoralek/pointmarket/internal/services"
	"github.com/mhoralek/pointmarket/internal/storage"

	"github.com/mhoralek/pointmarket/internal/http/handlers/account/dashboard"
	"github.com/mhoralek/pointmarket/internal/http/handlers/account/progress"
	"github.com/mhoralek/pointmarket/internal/http/handlers/admin/approvesubmission"
	"github.com/mhoralek/pointmarket/internal/http/handlers/admin/approveuser"
	"github.com/mhoralek/pointmarket/internal/http/handlers/admin/rejectsubmission"
	aresvalidate "github.com/mhoralek/pointmarket/internal/http/handlers/ares/validate"
	"github.com/mhoralek/pointmarket/internal/http/handlers/auth/login"
	"github.com/mhoralek/pointmarket/internal/http/handlers/auth/register"
	"github.com/mhoralek/pointmarket/internal/http/handlers/cart/additem"
	"github.com/mhoralek/pointmarket/internal/http/handlers/cart/removeitem"
	cartview "github.com/mhoralek/pointmarket/internal/http/handlers/cart/view"
	"github.com/mhoralek/pointmarket/internal/http/handlers/checkout"
	productlist "github.com/mhoralek/pointmarket/internal/http/handlers/products/list"
	submissioncreate "github.com/mhoralek/pointmarket/internal/http/handlers/submission/create"
	submissionlist "github.com/mhoralek/pointmarket/internal/http/handlers/submission/list"
	zebriceklist "github.com/mhoralek/pointmarket/internal/http/handlers/zebricek/list"
	zebricekposition "github.com/mhoralek/pointmarket/internal/http/handlers/zebricek/position"
	"github.com/mhoralek/pointmarket/internal/http/middlewarectx"
)

// Deps carries everything the route table wires into handlers.
type Deps struct {
	JWTMaker    jwt.Maker
	Storage     *storage.Storage
	Calculator  *points.Calculator
	Gate        *gate.Gate
	Carts       *cart.Service
	Ares        *ares.Client
	Auth        *services.AuthService
	Submissions *services.SubmissionService
	Zebricek    *services.ZebricekService
	Orders      *services.OrderService
	Accounts    *services.AccountService
}

// RegisterRoutes registers all routes of the service.
func RegisterRoutes(r chi.Router, logger *slog.Logger, d *Deps) {
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Open endpoints
		r.Post("/register", register.New(logger, d.Auth).ServeHTTP)
		r.Post("/login", login.New(logger, d.Auth).ServeHTTP)
		r.Post("/ares/validate", aresvalidate.New(logger, d.Ares).ServeHTTP)
		r.Get("/zebricek", zebriceklist.New(logger, d.Zebricek).ServeHTTP)

		// Authenticated endpoints
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(d.JWTMaker, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Use(middlewarectx.RequestCacheMiddleware())

			r.Get("/products", productlist.New(logger, d.Storage, d.Gate).ServeHTTP)
			r.Get("/cart", cartview.New(logger, d.Carts, d.Calculator).ServeHTTP)
			r.Get("/account/dashboard", dashboard.New(logger, d.Accounts).ServeHTTP)
			r.Get("/account/progress", progress.New(logger, d.Accounts).ServeHTTP)
			r.Get("/zebricek/position", zebricekposition.New(logger, d.Zebricek).ServeHTTP)
			r.Post("/submissions", submissioncreate.New(logger, d.Submissions).ServeHTTP)
			r.Get("/submissions", submissionlist.New(logger, d.Submissions).ServeHTTP)

			// Purchase routes additionally closed to accounts awaiting review
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RegistrationStatusMiddleware(logger, d.Storage))

				r.Post("/cart/items", additem.New(logger, d.Storage, d.Carts, d.Gate).ServeHTTP)
				r.Delete("/cart/items/{productID}", removeitem.New(logger, d.Carts).ServeHTTP)
				r.Post("/checkout", checkout.New(logger, d.Orders, d.Gate).ServeHTTP)
			})

			// Admin endpoints
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireRole("admin", logger))

				r.Post("/admin/submissions/{uid}/approve", approvesubmission.New(logger, d.Submissions).ServeHTTP)
				r.Post("/admin/submissions/{uid}/reject", rejectsubmission.New(logger, d.Submissions).ServeHTTP)
				r.Post("/admin/users/{userID}/approve", approveuser.New(logger, d.Auth).ServeHTTP)
			})
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
