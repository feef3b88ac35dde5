package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"NetWatch/internal/config"
	"NetWatch/internal/dependencies"
	"NetWatch/internal/server"
	"NetWatch/internal/services"
	"NetWatch/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config %s", err)
	}

	log := logger.Setup(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	log.Info("Starting NetWatch",
		slog.String("name", cfg.App.Name),
		slog.String("version", cfg.App.Version),
		slog.Int("port", cfg.Server.Port),
	)

	initCtx, cancelInit := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelInit()

	container, err := dependencies.NewContainer(initCtx, cfg, log)
	if err != nil {
		log.Error("Failed to create dependency container", "error", err)
		os.Exit(1)
	}
	defer container.Close()

	// Both engines run as supervised background tasks for the lifetime
	// of the process.
	engineCtx, cancelEngines := context.WithCancel(context.Background())
	supervisor := services.NewSupervisor(log.With("component", "supervisor"))
	supervisor.Add("health-check", container.HealthService.Run)
	supervisor.Add("inventory-sync", container.SyncService.Run)
	supervisor.Start(engineCtx)

	srv := server.New(&server.Config{
		Port: cfg.Server.Port,
		Mode: cfg.Server.Mode,
	}, container)

	go func() {
		if err := srv.Start(); err != nil {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Graceful shutdown
	cancelEngines()
	supervisor.Wait()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("Server stopped gracefully")
}
