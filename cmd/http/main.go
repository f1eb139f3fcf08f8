package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/rafaelleal24/shopping/docs"
	"github.com/rafaelleal24/shopping/internal/adapters/config"
	"github.com/rafaelleal24/shopping/internal/adapters/http"
	"github.com/rafaelleal24/shopping/internal/adapters/http/controllers"
	"github.com/rafaelleal24/shopping/internal/adapters/metrics"
	"github.com/rafaelleal24/shopping/internal/adapters/mongo"
	"github.com/rafaelleal24/shopping/internal/adapters/mongo/repository"
	"github.com/rafaelleal24/shopping/internal/adapters/outbox"
	"github.com/rafaelleal24/shopping/internal/adapters/rabbitmq"
	"github.com/rafaelleal24/shopping/internal/adapters/redis"
	"github.com/rafaelleal24/shopping/internal/core/domain"
	"github.com/rafaelleal24/shopping/internal/core/logger"
	"github.com/rafaelleal24/shopping/internal/core/service"
)

// @title       Shopping API
// @version     1.0
// @description Cart purchase API

// @host     localhost:8080
// @BasePath /

//go:generate swag init -d ../.. -g cmd/http/main.go -o ../../docs --parseInternal

func main() {
	cfg := config.NewConfig()
	if err := logger.Initialize(cfg.Logger.Endpoint, cfg.Logger.ServiceName, cfg.Logger.IsProduction); err != nil {
		// logger not available yet, fall back to stderr
		fmt.Fprintln(os.Stderr, "failed to initialize logger: "+err.Error())
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mongoClient, err := mongo.NewConnection(cfg.Mongo)
	if err != nil {
		logger.Fatal(ctx, "Failed to connect to MongoDB", err, nil)
	}
	defer mongo.Disconnect(mongoClient)
	logger.Info(ctx, "Connected to MongoDB", map[string]any{"database": cfg.Mongo.Database})

	redisClient, err := redis.NewConnection(cfg.Redis)
	if err != nil {
		logger.Fatal(ctx, "Failed to connect to Redis", err, nil)
	}
	defer redisClient.Close()
	logger.Info(ctx, "Connected to Redis", nil)

	broker, err := rabbitmq.NewPublisher(cfg.RabbitMQ)
	if err != nil {
		logger.Fatal(ctx, "Failed to connect to RabbitMQ", err, nil)
	}
	defer broker.Close()
	logger.Info(ctx, "Connected to RabbitMQ", nil)

	database := mongoClient.Database(cfg.Mongo.Database)
	productRepository := repository.NewProductRepository(database)
	outboxRepository := repository.NewOutboxRepository(database)
	txManager := mongo.NewTransactionManager(mongoClient)

	productCache := redis.NewCache[domain.Product](redisClient, "product-cache")
	idempotencyCache := redis.NewCache[service.IdempotencyEntry[domain.Purchase]](redisClient, "idempotency-cache")
	rateLimiter := redis.NewRateLimiter(redisClient)

	purchaseMetrics := metrics.New(cfg.Metrics)

	outboxHandler := outbox.NewHandler(outboxRepository, broker, cfg.Outbox)
	go outboxHandler.Start(ctx)
	logger.Info(ctx, "Outbox handler started", map[string]any{"interval": cfg.Outbox.Interval.String(), "batch_size": cfg.Outbox.BatchSize})

	shoppingService := service.NewShoppingService(productRepository, productCache, outboxRepository, txManager, purchaseMetrics)
	idempotencyService := service.NewIdempotencyService(idempotencyCache, service.IdempotencyOptions{
		TTL:          cfg.Purchase.IdempotencyTTL,
		PollInterval: cfg.Purchase.IdempotencyPollInterval,
		PollTimeout:  cfg.Purchase.IdempotencyPollTimeout,
	})
	checkoutService := service.NewCheckoutService(shoppingService, idempotencyService)

	healthController := controllers.NewHealthController([]controllers.HealthChecker{
		{Name: "mongodb", Check: func(ctx context.Context) error { return mongo.Ping(ctx, mongoClient) }},
		{Name: "redis", Check: redisClient.Ping},
		{Name: "rabbitmq", Check: func(context.Context) error { return broker.HealthCheck() }},
	})

	var routerOpts []http.RouterOption
	if cfg.Metrics.Enabled {
		routerOpts = append(routerOpts, http.WithMetrics(purchaseMetrics, purchaseMetrics.Handler()))
	}
	router := http.NewRouter(
		healthController,
		controllers.NewProductController(shoppingService),
		controllers.NewPurchaseController(checkoutService),
		rateLimiter,
		cfg.Purchase,
		routerOpts...,
	)

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info(ctx, "Received shutdown signal", map[string]any{"signal": sig.String()})
		cancel()
	}()

	logger.Info(ctx, "Starting HTTP server", map[string]any{"addr": cfg.HTTP.BindInterface + ":" + cfg.HTTP.Port})
	if err := router.ListenAndServe(ctx, cfg.HTTP); err != nil {
		logger.Fatal(ctx, "Failed to start HTTP server", err, nil)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := logger.Shutdown(shutdownCtx); err != nil {
		fmt.Fprintln(os.Stderr, "logger shutdown error: "+err.Error())
	}
}
