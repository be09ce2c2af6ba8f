// Package pointmarket assembles the points-market service: storage, cache,
// the ledger and ARES clients, the purchasability gate and the HTTP server.
package pointmarket

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/mhoralek/pointmarket/internal/ares"
	"github.com/mhoralek/pointmarket/internal/cache"
	"github.com/mhoralek/pointmarket/internal/cart"
	"github.com/mhoralek/pointmarket/internal/config"
	"github.com/mhoralek/pointmarket/internal/gate"
	"github.com/mhoralek/pointmarket/internal/ledger"
	"github.com/mhoralek/pointmarket/internal/lib/jwt"
	"github.com/mhoralek/pointmarket/internal/lib/rabbitmq"
	"github.com/mhoralek/pointmarket/internal/migrations"
	"github.com/mhoralek/pointmarket/internal/points"
	"github.com/mhoralek/pointmarket/internal/services"
	"github.com/mhoralek/pointmarket/internal/storage"

	"github.com/streadway/amqp"
)

// App is the assembled service with its HTTP server and owned connections.
type App struct {
	server     *http.Server
	logger     *slog.Logger
	db         *storage.Storage
	rabbitConn *amqp.Connection
}

// New builds the full dependency graph from the configuration.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	rabbitConn, err := rabbitmq.Connect(cfg.RabbitURL, cfg.RabbitRetries, cfg.RabbitDelay)
	if err != nil {
		return nil, err
	}
	rabbitCh, err := rabbitmq.SetupChannel(rabbitConn, rabbitmq.GetSubmissionQueues())
	if err != nil {
		return nil, err
	}
	publisher := rabbitmq.NewPublisher(rabbitCh, rabbitmq.Exchange)

	ledgerClient := ledger.NewClient(cfg.LedgerBaseURL, cfg.LedgerToken, cfg.LedgerTimeout)
	aresClient := ares.NewClient(cfg.AresBaseURL, cfg.AresTimeout)
	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	cartService := cart.NewService(cacheRedis, logger)
	calculator := points.NewCalculator(ledgerClient, cartService, logger)
	purchaseGate := gate.New(calculator, db, logger)

	authService := services.NewAuthService(db, aresClient, jwtMaker, logger)
	submissionService := services.NewSubmissionService(db, ledgerClient, publisher, logger)
	zebricekService := services.NewZebricekService(ledgerClient, cacheRedis, logger)
	orderService := services.NewOrderService(cartService, db, ledgerClient, logger)
	accountService := services.NewAccountService(calculator, submissionService, orderService,
		zebricekService, ledgerClient, db, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, &Deps{
		JWTMaker:    jwtMaker,
		Storage:     db,
		Calculator:  calculator,
		Gate:        purchaseGate,
		Carts:       cartService,
		Ares:        aresClient,
		Auth:        authService,
		Submissions: submissionService,
		Zebricek:    zebricekService,
		Orders:      orderService,
		Accounts:    accountService,
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:     srv,
		logger:     logger,
		db:         db,
		rabbitConn: rabbitConn,
	}, nil
}

// Run starts the HTTP server and blocks until the context is cancelled or
// the server fails, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if cerr := a.rabbitConn.Close(); cerr != nil {
			a.logger.Error("failed to close rabbitmq connection", slog.Any("err", cerr))
		}
		if cerr := a.db.DB.Close(); cerr != nil {
			a.logger.Error("failed to close database", slog.Any("err", cerr))
		}
		return err
	}
}
