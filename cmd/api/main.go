package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Pesokrava/marketplace_sync/internal/config"
	"github.com/Pesokrava/marketplace_sync/internal/delivery/events"
	httpDelivery "github.com/Pesokrava/marketplace_sync/internal/delivery/http"
	"github.com/Pesokrava/marketplace_sync/internal/delivery/http/handler"
	"github.com/Pesokrava/marketplace_sync/internal/mapper"
	"github.com/Pesokrava/marketplace_sync/internal/marketplace"
	"github.com/Pesokrava/marketplace_sync/internal/pkg/cache"
	"github.com/Pesokrava/marketplace_sync/internal/pkg/database"
	"github.com/Pesokrava/marketplace_sync/internal/pkg/logger"
	cacheRepo "github.com/Pesokrava/marketplace_sync/internal/repository/cache"
	"github.com/Pesokrava/marketplace_sync/internal/repository/postgres"
	"github.com/Pesokrava/marketplace_sync/internal/usecase/product"
	"github.com/Pesokrava/marketplace_sync/internal/usecase/publish"
	syncUsecase "github.com/Pesokrava/marketplace_sync/internal/usecase/sync"

	_ "github.com/Pesokrava/marketplace_sync/docs"
)

// @title Marketplace Sync API
// @version 1.0
// @description Bidirectional product/order synchronization between the internal catalog and an external marketplace.

// @contact.name API Support
// @contact.url http://github.com/Pesokrava/marketplace_sync

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @tag.name Sync
// @tag.description Synchronization and order import endpoints

// @tag.name Products
// @tag.description Internal and marketplace product endpoints

// @tag.name Publish
// @tag.description Refined product publishing

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger := logger.New(cfg.Env)
	appLogger.Info("Starting Marketplace Sync API...")

	appLogger.Info("Connecting to PostgreSQL...")
	db, err := database.WaitForDB(cfg, 10, 2*time.Second)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", err)
	}
	defer db.Close()
	appLogger.Info("Connected to PostgreSQL successfully")

	appLogger.Info("Connecting to Redis...")
	redisClient, err := cache.WaitForRedis(cfg, 10, 2*time.Second)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", err)
	}
	defer redisClient.Close()
	appLogger.Info("Connected to Redis successfully")

	appLogger.Info("Connecting to NATS...")
	publisher, err := events.NewPublisher(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to create NATS publisher", err)
	}
	defer publisher.Close()

	productRepo := postgres.NewProductRepository(db)
	orderRepo := postgres.NewOrderRepository(db)
	redisCache := cacheRepo.NewRedisCache(
		redisClient,
		cfg.Cache.MarketplaceListTTL,
		cfg.Cache.SyncResultTTL,
	)

	mpClient := marketplace.NewClient(cfg, appLogger)
	attrMapper := mapper.New(cfg.Marketplace.Type)

	productService := product.NewService(productRepo, appLogger)
	syncService := syncUsecase.NewService(
		productRepo,
		orderRepo,
		mpClient,
		attrMapper,
		redisCache,
		publisher,
		cfg.Marketplace.Type,
		cfg.Sync.Workers,
		appLogger,
	)
	publishService := publish.NewService(mpClient, productRepo, cfg.Marketplace.Type, appLogger)

	productHandler := handler.NewProductHandler(productService, mpClient, redisCache, cfg.Marketplace.Type, appLogger)
	syncHandler := handler.NewSyncHandler(syncService, publisher, redisCache, cfg.Marketplace.Type, appLogger)
	publishHandler := handler.NewPublishHandler(publishService, appLogger)

	router := httpDelivery.NewRouter(productHandler, syncHandler, publishHandler, cfg, appLogger)
	httpHandler := router.Setup()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      httpHandler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		appLogger.Infof("HTTP server listening on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("HTTP server failed", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", err)
	}

	appLogger.Info("Server stopped gracefully")
}
