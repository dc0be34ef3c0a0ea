// Package main is the entry point for Bitácora, the combat session tracker.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/samdwyer/bitacora/internal/config"
	"github.com/samdwyer/bitacora/internal/game"
	"github.com/samdwyer/bitacora/internal/telemetry"
)

func main() {
	// Load .env for local development; settings may also come from the
	// environment directly.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set up OTEL environment variables from our .env variables
	setupOTelEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	shutdown, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		log.Printf("Warning: telemetry setup failed: %v", err)
		log.Printf("Tracker will run without observability")
	} else {
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				log.Printf("Error shutting down telemetry: %v", err)
			}
		}()
	}

	logger, closeLog, err := cfg.Logger()
	if err != nil {
		log.Fatalf("Failed to open log: %v", err)
	}
	defer closeLog()

	store, closeStore, err := cfg.OpenStore(logger)
	if err != nil {
		log.Fatalf("Failed to open profile store: %v", err)
	}
	defer closeStore()
	logger.Info("profile store ready", "backend", cfg.ProfileBackend)

	g, err := game.New(store, cfg.SessionOptions(), logger)
	if err != nil {
		log.Fatalf("Failed to initialize terminal: %v", err)
	}

	if err := g.Run(ctx); err != nil {
		logger.Error("tracker stopped", "error", err)
		log.Printf("Tracker error: %v", err)
	}
}

// setupOTelEnv configures OTEL environment variables from our custom env vars.
func setupOTelEnv() {
	apiKey := os.Getenv("HONEYCOMB_BITACORA_API_KEY")
	if apiKey == "" {
		return
	}
	if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") == "" {
		os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "https://api.honeycomb.io")
	}

	// The .env file may hold an unexpanded variable reference, so the
	// header is built here.
	dataset := os.Getenv("HONEYCOMB_BITACORA_DATASET")
	if dataset == "" {
		dataset = "bitacora"
	}
	os.Setenv("OTEL_EXPORTER_OTLP_HEADERS",
		fmt.Sprintf("x-honeycomb-team=%s,x-honeycomb-dataset=%s", apiKey, dataset))
}
