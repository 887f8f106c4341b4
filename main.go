package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"profitdesk/config"
	"profitdesk/database"
	"profitdesk/handlers"
	"profitdesk/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.Config{}).Error("Failed to load configuration", logger.FieldError, err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level: logger.ParseLevel(cfg.LogLevel),
		JSON:  cfg.IsProduction(),
	})
	logger.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		log.Error("Invalid configuration", logger.FieldError, err)
		os.Exit(1)
	}

	// Initialize database
	db, err := database.Open(cfg.DatabaseURL, database.LogLevel(cfg.DBLogLevel))
	if err != nil {
		log.Error("Failed to initialize database", logger.FieldError, err)
		os.Exit(1)
	}
	defer database.Close(db)

	if err := database.SeedAdmin(context.Background(), db, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Error("Failed to seed admin user", logger.FieldError, err)
		os.Exit(1)
	}

	server := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           handlers.NewRouter(cfg, db, log),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("Server starting", "addr", server.Addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server failed", logger.FieldError, err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", logger.FieldError, err)
	}
}
