// Package main is the entry point for the LuminaSlides server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"luminaslides/internal/ai"
	"luminaslides/internal/brand"
	"luminaslides/internal/cache"
	"luminaslides/internal/config"
	"luminaslides/internal/handlers"
	"luminaslides/internal/router"
	"luminaslides/internal/studio"
)

func main() {
	// Structured logger — outputs JSON in production, text in development.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Initialize the AI provider registry with all configured providers.
	providerConfigs := map[string]ai.ProviderConfig{
		"gemini": {APIKey: cfg.GeminiAPIKey, Model: cfg.GeminiModel, ModelImage: cfg.GeminiModelImage, BaseURL: cfg.GeminiBaseURL},
		"openai": {APIKey: cfg.OpenAIAPIKey, Model: cfg.OpenAIModel, BaseURL: cfg.OpenAIBaseURL},
	}
	aiRegistry := ai.NewRegistry(cfg.AIProvider, providerConfigs)

	slog.Info("ai providers initialized",
		"active", aiRegistry.ActiveName(),
		"available", aiRegistry.Available(),
	)

	// Connect to Valkey (brand identity + parked deck persistence).
	// The studio works without it; sessions just won't survive restarts.
	var brandStore *brand.Store
	var deckCache *cache.DeckCache
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Warn("valkey unavailable — brand and session persistence disabled", "error", err)
	} else {
		defer valkeyClient.Close()
		brandStore = brand.NewStore(valkeyClient)
		deckCache = cache.NewDeckCache(valkeyClient, cache.DefaultDeckTTL)
	}

	// The credential flag starts armed when the active provider has a key;
	// the first failing call clears it.
	_, credErr := aiRegistry.Active()

	workflowOpts := studio.Options{
		Probe:        brand.NewProbe(),
		Logger:       logger,
		CredentialOK: credErr == nil,
	}
	if brandStore != nil {
		workflowOpts.Brands = brandStore
	}
	if deckCache != nil {
		workflowOpts.Decks = deckCache
	}
	workflow := studio.New(aiRegistry, workflowOpts)

	// Resume the last session if a completed deck was parked.
	if deckCache != nil {
		if parked := deckCache.LoadLast(context.Background()); parked != nil {
			workflow.Restore(parked)
			slog.Info("restored parked deck", "title", parked.Title, "slides", len(parked.Slides))
		}
	}

	// Create handler groups with their dependencies.
	api := handlers.NewStudio(workflow, aiRegistry, brandStore, providerConfigs)

	// Set up the Chi router with all middleware and routes.
	r := router.New(api)

	// Create the HTTP server with sensible timeouts.
	// WriteTimeout must accommodate slide edits that wait on LLM responses.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 180 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
