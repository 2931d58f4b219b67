package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/toffycaluga/tienda-backend/internal/catalog"
	"github.com/toffycaluga/tienda-backend/internal/config"
	"github.com/toffycaluga/tienda-backend/internal/customer"
	"github.com/toffycaluga/tienda-backend/internal/db"
	tiendaHttp "github.com/toffycaluga/tienda-backend/internal/handler/http"
	"github.com/toffycaluga/tienda-backend/internal/order"
	"github.com/toffycaluga/tienda-backend/internal/tag"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	log.Logger = log.With().Str("service", "tienda-backend").Logger()

	log.Info().Msg("Starting tienda-backend...")

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	database, err := db.New(cfg.Postgres)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}

	if err := database.ApplyMigrations(cfg.Postgres); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply migrations")
	}

	catalogRepo := catalog.NewRepository(database.Pool)
	catalogSvc := catalog.NewService(catalogRepo)

	customerRepo := customer.NewRepository(database.Pool)
	customerSvc := customer.NewService(customerRepo)

	tagRepo := tag.NewRepository(database.Pool)
	tagSvc := tag.NewService(tagRepo)

	orderRepo := order.NewRepository(database.Pool)
	orderSvc := order.NewService(orderRepo, customerSvc, catalogSvc)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(tiendaHttp.ActorMiddleware)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	tiendaHttp.NewProductHandler(catalogSvc).RegisterRoutes(router)
	tiendaHttp.NewCustomerHandler(customerSvc).RegisterRoutes(router)
	tiendaHttp.NewTagHandler(tagSvc).RegisterRoutes(router)
	tiendaHttp.NewOrderHandler(orderSvc).RegisterRoutes(router)

	server := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.App.Port).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Str("port", cfg.App.Port).Msg("Server failed")
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)
	<-stopCh

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server shutdown failed")
	}

	database.Close()

	log.Info().Msg("tienda-backend stopped gracefully.")
}
