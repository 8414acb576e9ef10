package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Lixing-Zhang/products-api/internal/config"
	"github.com/Lixing-Zhang/products-api/internal/events"
	"github.com/Lixing-Zhang/products-api/internal/handlers"
	"github.com/Lixing-Zhang/products-api/internal/middleware"
	"github.com/Lixing-Zhang/products-api/internal/repository"
	"github.com/Lixing-Zhang/products-api/internal/seed"
	"github.com/Lixing-Zhang/products-api/internal/service"
	"github.com/Lixing-Zhang/products-api/pkg/logger"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gocql/gocql"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	log.Info("starting products api server",
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"store", cfg.Store.Driver,
		"log_level", cfg.LogLevel,
	)

	// Initialize repository
	var (
		productRepo repository.ProductRepository
		session     *gocql.Session
	)
	switch cfg.Store.Driver {
	case config.DriverCassandra:
		session, err = repository.NewCassandraSession(cfg.Cassandra, log)
		if err != nil {
			log.Error("failed to open cassandra session", "error", err)
			os.Exit(1)
		}
		productRepo = repository.NewCassandraProductRepository(session)
		log.Info("connected to cassandra",
			"contact_points", cfg.Cassandra.ContactPoints,
			"keyspace", cfg.Cassandra.Keyspace,
			"consistency", cfg.Cassandra.Consistency,
		)
	default:
		productRepo = repository.NewInMemoryProductRepository()
	}

	// Initialize event publisher
	var publisher events.Publisher = events.NopPublisher{}
	if cfg.Events.AMQPURL != "" {
		amqpPublisher, err := events.NewAMQPPublisher(cfg.Events.AMQPURL, cfg.Events.Queue)
		if err != nil {
			log.Error("failed to connect event publisher", "error", err)
			os.Exit(1)
		}
		publisher = amqpPublisher
		log.Info("publishing product events", "queue", cfg.Events.Queue)
	}

	// Initialize services
	productService := service.NewProductService(productRepo, publisher, log)

	// Import seed products
	if len(cfg.Seed.Sources) > 0 {
		log.Info("loading seed products...", "sources", len(cfg.Seed.Sources))
		loader := seed.NewLoader(log, cfg.Seed.AWSRegion)
		if _, err := loader.Seed(context.Background(), productService, cfg.Seed.Sources); err != nil {
			log.Error("failed to seed products", "error", err)
			os.Exit(1)
		}
	}

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(log, productService)
	productHandler := handlers.NewProductHandler(productService, log)

	// Create router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(time.Duration(cfg.Server.RequestTimeout) * time.Second))
	r.Use(chimiddleware.StripSlashes)

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", "api_key"},
		ExposedHeaders:   []string{"Location"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Register health check endpoint
	r.Get("/health", healthHandler.ServeHTTP)

	// Product endpoints; writes require an API key when keys are configured
	r.Mount("/products", productHandler.Routes(middleware.APIKeyAuth(cfg.Auth)))

	// Create HTTP server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	if err := run(srv, log, time.Duration(cfg.Server.ShutdownTimeout)*time.Second); err != nil {
		log.Error("server stopped with error", "error", err)
		os.Exit(1)
	}

	log.Info("closing other resources...")
	if err := publisher.Close(); err != nil {
		log.Warn("failed to close event publisher", "error", err)
	}
	if session != nil {
		session.Close()
	}

	log.Info("server stopped gracefully")
}

// run serves until SIGINT or SIGTERM, then drains in-flight requests for at
// most shutdownTimeout.
func run(srv *http.Server, log *slog.Logger, shutdownTimeout time.Duration) error {
	signalCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(signalCtx)

	g.Go(func() error {
		log.Info("server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}
