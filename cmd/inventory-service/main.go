package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chemstock/chemstock-backend/internal/auth/client"
	authhandler "github.com/chemstock/chemstock-backend/internal/auth/handler"
	"github.com/chemstock/chemstock-backend/internal/auth/jwt"
	authservice "github.com/chemstock/chemstock-backend/internal/auth/service"
	"github.com/chemstock/chemstock-backend/internal/inventory/consumers"
	"github.com/chemstock/chemstock-backend/internal/inventory/events"
	"github.com/chemstock/chemstock-backend/internal/inventory/handler"
	"github.com/chemstock/chemstock-backend/internal/inventory/repository"
	"github.com/chemstock/chemstock-backend/internal/inventory/service"
	"github.com/chemstock/chemstock-backend/internal/inventory/store"
	"github.com/chemstock/chemstock-backend/pkg/config"
	"github.com/chemstock/chemstock-backend/pkg/httputil"
	"github.com/chemstock/chemstock-backend/pkg/i18n"
	"github.com/chemstock/chemstock-backend/pkg/logger"
	"github.com/chemstock/chemstock-backend/pkg/messaging"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/google/uuid"
	"github.com/unrolled/secure"
	"golang.org/x/sync/errgroup"
)

const serviceName = "inventory-service"

func main() {
	// Load configuration with validation (fails fast in production if required config is missing)
	cfg, err := config.LoadWithValidation(serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(serviceName, cfg.Server.Environment)
	log.Info().Str("backend", cfg.Storage.Backend).Msg("starting Inventory Service")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("inventory service stopped with error")
	}
	log.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	backend, err := store.Open(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer backend.Close()

	repo := repository.New(backend, repository.NewLocker(backend, cfg.Storage.Redis.LockTTL, log), log,
		repository.WithSeeding(cfg.Storage.Seed))
	if cfg.Storage.Seed {
		if err := repo.Seed(ctx); err != nil {
			return fmt.Errorf("seed storage: %w", err)
		}
	}

	instance := serviceName + "@" + uuid.NewString()[:8]

	// Events are optional; a nil publisher drops them
	var (
		rmq       *messaging.RabbitMQ
		publisher *events.InventoryEventPublisher
	)
	if cfg.RabbitMQ.Enabled {
		rmq, err = messaging.New(&cfg.RabbitMQ, log)
		if err != nil {
			return fmt.Errorf("connect rabbitmq: %w", err)
		}
		defer rmq.Close()

		publisher, err = events.NewInventoryEventPublisher(rmq, instance, log)
		if err != nil {
			return fmt.Errorf("create event publisher: %w", err)
		}
	}

	inventoryService := service.NewInventoryService(repo, nil, publisher, log,
		service.WithTextGenerator(service.NewHTTPGenerator(cfg.Insight)))

	// Other instances sharing the store tell us when our product index is stale
	if rmq != nil {
		indexSync, err := consumers.NewIndexSyncConsumer(rmq, instance, inventoryService, log)
		if err != nil {
			return fmt.Errorf("create index sync consumer: %w", err)
		}
		if err := indexSync.Start(ctx); err != nil {
			return fmt.Errorf("start index sync consumer: %w", err)
		}
	}

	jwtManager := jwt.NewManager(&cfg.JWT)
	authService := authservice.NewAuthService(
		client.NewEmployeeClient(cfg.Services, log),
		repo,
		jwtManager,
		cfg.Auth.DemoFallback,
		log,
	)

	r := newRouter(cfg, log, routerDeps{
		inventory: handler.NewHandlers(inventoryService, log),
		auth:      authhandler.NewAuthHandler(authService, log),
		guard:     httputil.Authenticate(jwtManager, cfg.Auth.Required),
		health: func(ctx context.Context) map[string]interface{} {
			status := map[string]interface{}{
				"status":  "healthy",
				"service": serviceName,
				"storage": backend.Health(ctx),
			}
			if rmq != nil {
				status["rabbitmq"] = rmq.Health()
			}
			return status
		},
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("server forced to shutdown")
			return err
		}
		return nil
	})

	return g.Wait()
}

type routerDeps struct {
	inventory *handler.Handlers
	auth      *authhandler.AuthHandler
	guard     func(http.Handler) http.Handler
	health    func(ctx context.Context) map[string]interface{}
}

func newRouter(cfg *config.Config, log *logger.Logger, deps routerDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(httputil.RequestID)
	r.Use(httputil.Logger(log))
	r.Use(httputil.Recoverer(log))
	r.Use(i18n.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID", "Accept-Language"},
		ExposedHeaders:   []string{"X-Request-ID", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
		SSLProxyHeaders:    map[string]string{"X-Forwarded-Proto": "https"},
		IsDevelopment:      !cfg.IsProductionLike(),
	}).Handler)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, http.StatusOK, deps.health(r.Context()))
	})

	rate := cfg.Auth.LoginRatePerMinute
	if rate <= 0 {
		rate = 10
	}
	loginLimiter := httprate.Limit(rate, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP))

	deps.auth.Mount(r, loginLimiter, deps.guard)
	deps.inventory.Mount(r, deps.guard)

	return r
}
