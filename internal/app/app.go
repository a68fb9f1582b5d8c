package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/xenking/ojo-prints/db"
	"github.com/xenking/ojo-prints/internal/catalogfile"
	"github.com/xenking/ojo-prints/internal/domain/cart"
	"github.com/xenking/ojo-prints/internal/domain/checkout"
	"github.com/xenking/ojo-prints/internal/domain/pricing"
	"github.com/xenking/ojo-prints/internal/domain/product"
	"github.com/xenking/ojo-prints/internal/domain/search"
	"github.com/xenking/ojo-prints/internal/handler"
	"github.com/xenking/ojo-prints/internal/repository"
	"github.com/xenking/ojo-prints/pkg/health"
	"github.com/xenking/ojo-prints/pkg/httpmiddleware"
)

// Run builds the catalog and services, starts the HTTP server, and handles
// graceful shutdown. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing", zap.String("addr", cfg.Addr))

	healthSvc := health.New()
	healthSvc.Register(health.Liveness, "goroutines", health.GoroutineCountCheck(10000))

	source, pool, err := catalogSource(ctx, lg, cfg)
	if err != nil {
		return err
	}
	if pool != nil {
		defer pool.Close()
		healthSvc.Register(health.Readiness, "postgres", health.PingCheck(pool), health.WithTimeout(5*time.Second))
	}

	products, err := source.Load(ctx)
	if err != nil {
		return errors.Wrap(err, "load catalog")
	}
	catalog, err := product.NewCatalog(products)
	if err != nil {
		return errors.Wrap(err, "build catalog")
	}
	lg.Info("Catalog loaded", zap.Int("products", catalog.Len()))
	healthSvc.Register(health.Readiness, "catalog", health.NonEmptyCheck("catalog", catalog.Len))

	// Domain services.
	prices := pricing.NewEngine()
	carts, err := cart.NewService(catalog, prices, cart.WithMeterProvider(m.MeterProvider()))
	if err != nil {
		return errors.Wrap(err, "create cart service")
	}
	h, err := handler.NewHandler(handler.Config{
		ImageBaseURL: cfg.ImageBaseURL,
		Brand: handler.Brand{
			Name:     cfg.Brand.Name,
			Tagline:  cfg.Brand.Tagline,
			Location: cfg.Brand.Location,
			Email:    cfg.Brand.Email,
			HeroNote: cfg.Brand.HeroNote,
			LogoSrcs: product.DriveImageURLs(cfg.Brand.LogoFileID, cfg.Brand.LogoResourceKey),
		},
	}, handler.Deps{
		Catalog:  catalog,
		Prices:   prices,
		Search:   search.NewService(catalog, prices, search.WithTracerProvider(m.TracerProvider())),
		Carts:    carts,
		Checkout: checkout.NewResolver(cfg.CheckoutFallbackURL),
	}, m.MeterProvider())
	if err != nil {
		return errors.Wrap(err, "create handler")
	}

	healthSvc.Start(ctx, 10*time.Second)
	healthSvc.SetReady(true)

	router := chi.NewRouter()
	router.Use(
		httpmiddleware.Instrument("shop-api", httpmiddleware.ChiRoute, m),
		httpmiddleware.LogRequests(httpmiddleware.ChiRoute),
		middleware.Compress(5),
	)
	router.Get("/livez", healthSvc.Handler(health.Liveness))
	router.Get("/readyz", healthSvc.Handler(health.Readiness))
	router.Mount("/api", h.Routes())

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler: httpmiddleware.Wrap(router,
			httpmiddleware.Recovery(lg),
			httpmiddleware.CORS(httpmiddleware.CORSConfig{
				AllowOrigins:     cfg.CORS.Origins,
				AllowHeaders:     []string{"Content-Type", httpmiddleware.RequestIDHeader},
				ExposeHeaders:    []string{httpmiddleware.RequestIDHeader},
				AllowCredentials: cfg.CORS.AllowCredentials,
				MaxAge:           86400,
			}),
			httpmiddleware.RateLimitWithCleanup(ctx, httpmiddleware.RateLimitConfig{
				Max:    cfg.RateLimit.Max,
				Window: cfg.RateLimit.Window,
			}),
			httpmiddleware.RequestID(),
			httpmiddleware.InjectLogger(lg),
		),
	}

	// Graceful shutdown: wait for context cancellation, drain, then stop.
	shutdownDone := make(chan struct{})
	go func() {
		<-ctx.Done()
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
		healthSvc.Stop()
		close(shutdownDone)
	}()

	lg.Info("Server listening", zap.String("addr", cfg.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server")
	}
	<-shutdownDone
	return nil
}

// catalogSource picks where the catalog is read from: PostgreSQL, a catalog
// file, or the embedded seed catalog. The pool is non-nil only for PostgreSQL.
func catalogSource(ctx context.Context, lg *zap.Logger, cfg *Config) (product.Source, *pgxpool.Pool, error) {
	switch {
	case cfg.DatabaseURL != "":
		pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, errors.Wrap(err, "create db pool")
		}
		if err := repository.RunMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, errors.Wrap(err, "run migrations")
		}
		lg.Info("Using PostgreSQL catalog")
		return repository.NewProductRepository(pool), pool, nil
	case cfg.CatalogFile != "":
		lg.Info("Using catalog file", zap.String("path", cfg.CatalogFile))
		return catalogfile.File(cfg.CatalogFile), nil, nil
	default:
		lg.Info("Using embedded catalog")
		return catalogfile.Bytes(db.Catalog), nil, nil
	}
}
