package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/DeskFolio/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/infrastructure/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Flags override env and file values
	port := flag.String("port", cfg.Server.Port, "Server port")
	host := flag.String("host", cfg.Server.Host, "Server host")
	storageDriver := flag.String("storage", cfg.Storage.Driver, "Storage driver (memory, diskv, sqlite)")
	dataDir := flag.String("data", cfg.Storage.Path, "Data directory for file-backed storage")
	wallpaperDir := flag.String("wallpapers", cfg.Wallpapers.Dir, "Wallpaper image directory")
	dev := flag.Bool("dev", cfg.Logging.Development, "Development mode (colored logs, debug level)")
	flag.Parse()

	cfg.Server.Port = *port
	cfg.Server.Host = *host
	cfg.Storage.Driver = *storageDriver
	cfg.Storage.Path = *dataDir
	cfg.Wallpapers.Dir = *wallpaperDir
	cfg.Logging.Development = *dev

	logCfg := logging.Config{Level: cfg.Logging.Level, Development: cfg.Logging.Development}
	if cfg.Logging.Development && cfg.Logging.Level == "info" {
		logCfg.Level = "debug"
	}
	logger, err := logging.New(logCfg)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	srv, err := server.New(cfg, logger, server.Options{})
	if err != nil {
		logger.Fatal("Failed to create server", zap.Error(err))
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Run()
	}()

	select {
	case sig := <-sigChan:
		logger.Info("Shutting down gracefully", zap.String("signal", sig.String()))
	case err := <-errChan:
		if err != nil {
			logger.Error("Server error", zap.Error(err))
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Std())
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}
}
