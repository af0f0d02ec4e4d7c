package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/user/vida-loka-geracoes/config"
	"github.com/user/vida-loka-geracoes/internal/game"
	"github.com/user/vida-loka-geracoes/internal/gateway"
	"github.com/user/vida-loka-geracoes/internal/interfaces"
	"github.com/user/vida-loka-geracoes/internal/server"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "./config/config.json", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Set up logger
	logger := setupLogger(cfg.Server.LogLevel)
	defer logger.Sync()

	// Load game content
	catalog, err := game.NewDataLoader(cfg.Game.DataDir).LoadCatalog()
	if err != nil {
		logger.Fatal("Failed to load catalog", zap.Error(err))
	}
	logger.Info("Loaded catalog",
		zap.Int("focuses", len(catalog.Focuses)),
		zap.Int("challenges", len(catalog.Challenges)),
		zap.Int("shop_items", len(catalog.Shop)))

	// Open the save slot store
	store, closeStore, err := openSaveStore(cfg.Storage)
	if err != nil {
		logger.Fatal("Failed to open save store", zap.Error(err))
	}
	defer closeStore.Close()

	// Connect to the content generator
	ctx := context.Background()
	generator, err := gateway.NewGeminiGenerator(ctx, cfg.Gateway.APIKey, cfg.Gateway.Model)
	if err != nil {
		logger.Fatal("Failed to create content generator", zap.Error(err))
	}
	defer generator.Close()

	policy := gateway.RetryPolicy{
		Attempts:       cfg.Gateway.Attempts,
		Backoff:        time.Duration(cfg.Gateway.BackoffMS) * time.Millisecond,
		AttemptTimeout: time.Duration(cfg.Gateway.AttemptTimeoutSeconds) * time.Second,
	}
	contentGateway := gateway.New(generator, policy, logger)

	// Initialize game manager
	roller := game.NewDiceRoller()
	if cfg.Game.Seed != 0 {
		roller = game.NewSeededDiceRoller(cfg.Game.Seed)
	}
	gameManager := game.NewGameManager(game.OptionsFromConfig(cfg), contentGateway, store, catalog, roller)
	gameManager.Logger = logger

	// Resume the last session, if any
	if _, err := gameManager.Load(ctx); err != nil && !errors.Is(err, interfaces.ErrSaveNotFound) {
		logger.Error("Failed to load saved game", zap.Error(err))
	}

	// Set up HTTP server
	timeout := time.Duration(cfg.Server.RequestTimeoutSeconds) * time.Second
	httpServer := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: server.New(gameManager, catalog, logger, timeout).Router(),
	}

	// Start HTTP server
	go func() {
		logger.Info("Starting HTTP server", zap.String("port", cfg.Server.Port))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server stopped", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	waitForShutdown(httpServer, gameManager, logger)
}

func setupLogger(level string) *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if lvl, err := zap.ParseAtomicLevel(level); err == nil {
		config.Level = lvl
	}
	logger, _ := config.Build()
	return logger
}

// openSaveStore returns the configured store and the closer to release it
func openSaveStore(cfg config.StorageConfig) (interfaces.SaveStore, io.Closer, error) {
	switch cfg.Driver {
	case "sqlite3":
		store, err := game.OpenSQLiteSaveStore(cfg.DSN)
		if err != nil {
			return nil, nil, err
		}
		return store, store, nil
	case "file", "":
		store, err := game.NewFileSaveStore(cfg.Dir)
		if err != nil {
			return nil, nil, err
		}
		return store, io.NopCloser(nil), nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

func waitForShutdown(httpServer *http.Server, gameManager *game.GameManager, logger *zap.Logger) {
	// Set up channel for shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Wait for shutdown signal
	sig := <-sigChan
	logger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	// Perform cleanup
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("Failed to shut down HTTP server", zap.Error(err))
	}
	if err := gameManager.Save(ctx); err != nil {
		logger.Error("Failed to save game on shutdown", zap.Error(err))
	}
	logger.Info("Shutting down")
}
