package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/AIBlockOfficial/valence-market/config"
	"github.com/AIBlockOfficial/valence-market/internal/api/handlers"
	"github.com/AIBlockOfficial/valence-market/internal/api/logger"
	"github.com/AIBlockOfficial/valence-market/internal/api/routes"
	"github.com/AIBlockOfficial/valence-market/internal/exchange"
	"github.com/AIBlockOfficial/valence-market/internal/storage"
	"github.com/AIBlockOfficial/valence-market/internal/storage/file"
	"github.com/AIBlockOfficial/valence-market/internal/storage/memory"
	"github.com/AIBlockOfficial/valence-market/internal/storage/postgres"
	"github.com/AIBlockOfficial/valence-market/internal/storage/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger with config
	logLevel := logger.INFO
	switch cfg.Logger.Level {
	case "DEBUG":
		logLevel = logger.DEBUG
	case "WARN":
		logLevel = logger.WARN
	case "ERROR":
		logLevel = logger.ERROR
	}
	logger.SetMinLevel(logLevel)

	logger.Info("Starting Valence Market API Server", map[string]interface{}{
		"version": "1.0.0",
	})

	// Build storage layers based on configuration
	marketStore, tradeLog := buildStorageLayers(cfg)

	// Create the exchange on top of the storage layers
	ex := exchange.NewExchange(marketStore, marketStore, tradeLog)
	defer func() {
		if err := ex.Close(); err != nil {
			logger.Error("Failed to close exchange", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}()

	// Create market holder for dependency injection
	marketHolder := handlers.NewMarketHolder(ex)

	// Setup routes with middleware
	handler := routes.SetupRoutes(marketHolder, routes.Options{
		MaxBodyBytes:   cfg.API.MaxBodyBytes,
		AllowedOrigins: cfg.API.AllowedOrigins,
	})

	// Create HTTP server with config
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", map[string]interface{}{
			"port":    cfg.Server.Port,
			"address": fmt.Sprintf("http://localhost:%s", cfg.Server.Port),
		})

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed to start", map[string]interface{}{
				"error": err.Error(),
			})
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Server shutting down...", nil)

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", map[string]interface{}{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	logger.Info("Server exited successfully", nil)
}

// buildStorageLayers constructs the storage layers based on configuration.
// Returns a composite market store layering memory, Redis, and Postgres, and
// the trade audit log.
func buildStorageLayers(cfg *config.Config) (*storage.CompositeMarketStore, storage.TradeLog) {
	var listingStores []storage.ListingStore
	var bookStores []storage.BookStore
	var tradeLogs []storage.TradeLog

	// L1: In-memory (fastest) - if enabled
	if cfg.Memory.Enabled {
		memStore := memory.NewMarketStore()
		listingStores = append(listingStores, memStore)
		bookStores = append(bookStores, memStore)

		logger.Info("In-memory storage layer enabled", nil)
	}

	// L2: Redis (distributed document store) - if enabled
	if cfg.Redis.Enabled {
		redisCfg := redis.RedisConfig{
			Host:         cfg.Redis.Host,
			Port:         cfg.Redis.Port,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			MaxRetries:   cfg.Redis.MaxRetries,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			TLSEnabled:   cfg.Redis.TLSEnabled,
		}

		redisStore, err := redis.NewMarketStore(redisCfg)
		if err != nil {
			logger.Warn("Failed to connect to Redis, continuing without distributed cache", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			logger.Info("Redis connected successfully", map[string]interface{}{
				"host": cfg.Redis.Host,
				"port": cfg.Redis.Port,
			})
			listingStores = append(listingStores, redisStore)
			bookStores = append(bookStores, redisStore)
		}
	}

	// L3: PostgreSQL (persistent storage) - if enabled
	if cfg.Database.Enabled {
		pgCfg := postgres.PostgresConfig{
			Host:            cfg.Database.Host,
			Port:            cfg.Database.Port,
			Database:        cfg.Database.Name,
			User:            cfg.Database.User,
			Password:        cfg.Database.Password,
			MaxConns:        cfg.Database.MaxConns,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
			SSLMode:         cfg.Database.SSLMode,
		}

		pgStore, err := postgres.NewMarketStore(pgCfg)
		if err != nil {
			logger.Warn("Failed to connect to PostgreSQL, continuing without persistent storage", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			logger.Info("PostgreSQL connected successfully", map[string]interface{}{
				"host":     cfg.Database.Host,
				"database": cfg.Database.Name,
			})
			listingStores = append(listingStores, pgStore)
			bookStores = append(bookStores, pgStore)
			tradeLogs = append(tradeLogs, postgres.NewTradeLog(pgStore.Pool()))
		}
	}

	// L4: File trade log (audit trail) - always enabled
	if fileLog, err := file.NewTradeLog(cfg.Market.TradeLogPath); err == nil {
		tradeLogs = append(tradeLogs, fileLog)
		logger.Info("Trade file log enabled", map[string]interface{}{
			"path": cfg.Market.TradeLogPath,
		})
	}

	marketStore := storage.NewCompositeMarketStore(listingStores, bookStores)

	var tradeLog storage.TradeLog
	switch len(tradeLogs) {
	case 0:
		tradeLog = nil
	case 1:
		tradeLog = tradeLogs[0]
	default:
		tradeLog = storage.NewCompositeTradeLog(tradeLogs...)
	}

	logger.Info("Storage layers initialized", map[string]interface{}{
		"listing_layers": len(listingStores),
		"book_layers":    len(bookStores),
		"trade_logs":     len(tradeLogs),
	})

	return marketStore, tradeLog
}
