package main

import (
	"context"
	"os/signal"
	"syscall"

	"accessibilityhire/internal/config"
	"accessibilityhire/internal/logger"
	"accessibilityhire/internal/server"
)

func main() {
	// Load configuration
	cfg := config.New()
	log := logger.New(cfg.Log)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv, err := server.New(cfg, log)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}
	defer func() {
		if err := srv.Close(); err != nil {
			log.WithError(err).Warn("close failed")
		}
	}()

	if err := srv.Run(ctx); err != nil {
		log.Errorf("Server error: %v", err)
	}
}
