package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/bilasin/bilasin/internal"
	"github.com/bilasin/bilasin/internal/bootstrap"
	"github.com/bilasin/bilasin/internal/httpx"
	"github.com/bilasin/bilasin/internal/middleware"
	"github.com/bilasin/bilasin/internal/notify"
	"github.com/bilasin/bilasin/internal/postgres"
	"github.com/bilasin/bilasin/internal/service"
)

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return fmt.Errorf("failed to load timezone: %w", err)
	}

	// Initialize database/sql connection for migrations
	logger.Info("Connecting to database...")
	sqlDB, err := sql.Open("pgx", cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}

	// Run migrations
	logger.Info("Running database migrations...")
	if err := internal.RunMigrations(sqlDB); err != nil {
		sqlDB.Close()
		return fmt.Errorf("migration failed: %w", err)
	}
	sqlDB.Close()
	logger.Info("Database migrations completed successfully")

	// Initialize pgx connection pool for the application
	pool, err := postgres.Connect(ctx, cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}
	defer pool.Close()
	logger.Info("Database connection established")

	// Initialize stores
	orderStore := postgres.NewOrderStore(pool)
	serviceStore := postgres.NewServiceStore(pool)
	settingStore := postgres.NewSettingStore(pool)
	adminStore := postgres.NewAdminStore(pool)

	// Seed default data when enabled
	if err := bootstrap.EnsureDefaultData(ctx, cfg.Seed, adminStore, serviceStore, settingStore, logger); err != nil {
		return fmt.Errorf("bootstrap failed: %w", err)
	}

	// Initialize the WhatsApp notification pipeline
	gateway := notify.NewFonnteClient(cfg.Fonnte.BaseURL)
	dispatcher := notify.NewDispatcher(gateway, logger, notify.DispatcherConfig{
		QueueSize:   cfg.Fonnte.QueueSize,
		SendTimeout: cfg.Fonnte.SendTimeout,
	})
	defer dispatcher.Stop()

	// Initialize services
	orderService := service.NewOrderService(orderStore, serviceStore, settingStore, dispatcher, logger, loc)
	catalogService := service.NewCatalogService(serviceStore)
	settingsService := service.NewSettingsService(settingStore)
	accountService := service.NewAccountService(adminStore, logger)

	// Initialize Prometheus metrics
	metrics := middleware.NewMetrics("bilasin")

	// Build the router
	handler := httpx.NewHandler(orderService, catalogService, settingsService, accountService, logger)
	router := httpx.NewRouter(handler, adminStore, metrics, logger)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server", "address", server.Addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	// Drain in-flight requests, then flush queued notifications
	logger.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
