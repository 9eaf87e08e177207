package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sm8ta/bike_inventory_service/internal/app"
	"github.com/sm8ta/bike_inventory_service/internal/config"

	_ "github.com/lib/pq"
)

// @title Bike Inventory API
// @version 1.0
// @description Bicycle inventory with versioned, transactional updates

// @host localhost:8000
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Loading environment
	cfg, err := config.New()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// Create app
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	application, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to create app: %v", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- application.Run()
	}()

	// Graceful shutdown
	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			log.Printf("Server stopped: %v", err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := application.Stop(shutdownCtx); err != nil {
		log.Printf("Failed to stop app: %v", err)
		os.Exit(1)
	}
}
