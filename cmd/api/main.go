package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/alvarocristensen-eng/alke-wallet-simple/internal/adapter/handler"
	"github.com/alvarocristensen-eng/alke-wallet-simple/internal/adapter/middleware"
	"github.com/alvarocristensen-eng/alke-wallet-simple/internal/adapter/storage"
	"github.com/alvarocristensen-eng/alke-wallet-simple/internal/core/config"
	"github.com/alvarocristensen-eng/alke-wallet-simple/internal/core/fx"
	"github.com/alvarocristensen-eng/alke-wallet-simple/internal/core/service"
	"github.com/alvarocristensen-eng/alke-wallet-simple/internal/core/worker"
)

func main() {
	// 1. Load config
	cfg := config.LoadConfig()

	// 2. Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// 3. Pick the account store. State is in-memory unless DATABASE_URL
	// points at Postgres.
	var store service.AccountStore
	if cfg.DatabaseURL != "" {
		dbPool, err := storage.ConnectDB(cfg.DatabaseURL)
		if err != nil {
			slog.Error("Database connection failed", "error", err)
			os.Exit(1)
		}
		defer dbPool.Close()
		if err := storage.Migrate(context.Background(), dbPool); err != nil {
			slog.Error("Migration failed", "error", err)
			os.Exit(1)
		}
		store = storage.NewPostgresStore(dbPool)
		slog.Info("Using Postgres account store")
	} else {
		store = storage.NewMemoryStore()
		slog.Info("Using in-memory account store")
	}

	// 4. Wire rates, events and the service
	rates := fx.NewFixedRates(cfg.USDToCLP)
	events := make(chan service.Event, 64)
	svc := service.NewAccountService(store, rates, service.WithEvents(events))

	accountHandler := &handler.AccountHandler{Service: svc}

	// 5. Setup fiber
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	app.Use(cors.New())

	// 6. Routes
	idem := middleware.NewIdempotencyCache(24 * time.Hour)
	api := app.Group("/v1")

	api.Post("/accounts", accountHandler.CreateAccount)
	api.Get("/accounts/:id/balance", accountHandler.GetBalance)
	api.Get("/accounts/:id/transactions", accountHandler.GetTransactions)

	mutating := api.Use(middleware.Idempotency(idem))
	mutating.Post("/accounts/:id/deposit", accountHandler.Deposit)
	mutating.Post("/accounts/:id/withdraw", accountHandler.Withdraw)
	mutating.Post("/accounts/:id/convert", accountHandler.Convert)

	// 7. Start the webhook dispatcher
	dispatcherDone := worker.StartWebhookDispatcher(cfg.WebhookURL, events)

	// Graceful shutdown: finish in-flight requests, then drain.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("Server starting", "env", cfg.Env, "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("Server forced to shutdown", "error", err)
		}
	}()

	<-stop
	slog.Info("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}

	// Let queued webhook deliveries finish before the process dies.
	close(events)
	select {
	case <-dispatcherDone:
	case <-time.After(15 * time.Second):
		slog.Warn("Webhook queue did not drain in time")
	}

	slog.Info("Server exited")
}
