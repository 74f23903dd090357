package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	natsclient "github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	campayadapter "github.com/immodirect7-wq/immodirect/internal/adapter/campay"
	mongoadapter "github.com/immodirect7-wq/immodirect/internal/adapter/mongo"
	natsadapter "github.com/immodirect7-wq/immodirect/internal/adapter/nats"
	redisadapter "github.com/immodirect7-wq/immodirect/internal/adapter/redis"
	"github.com/immodirect7-wq/immodirect/internal/app/config"
	"github.com/immodirect7-wq/immodirect/internal/auth"
	"github.com/immodirect7-wq/immodirect/internal/platform/logger"
	"github.com/immodirect7-wq/immodirect/internal/platform/metrics"
	httpport "github.com/immodirect7-wq/immodirect/internal/port/http"
	"github.com/immodirect7-wq/immodirect/internal/port/http/handlers"
	"github.com/immodirect7-wq/immodirect/internal/port/http/respond"
	"github.com/immodirect7-wq/immodirect/internal/service"
)

type App struct {
	cfg         *config.Config
	log         logger.Logger
	server      *httpport.Server
	mongoClient *mongo.Client
	redisClient *redis.Client
	natsConn    *natsclient.Conn
}

func New(cfg *config.Config) (*App, error) {
	ctx := context.Background()

	appLogger, err := logger.NewZapLogger(logger.ZapLoggerConfig{
		Level:      cfg.Logger.Level,
		Encoding:   cfg.Logger.Encoding,
		TimeFormat: cfg.Logger.TimeFormat,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	appLogger.Info("Logger initialized")
	respond.SetLogger(appLogger)
	appLogger.Infof("Configuration loaded: Env=%s, HTTP Port: %s", cfg.Env, cfg.HTTPServer.Port)

	appLogger.Info("Initializing MongoDB client...")
	mongoClient, err := mongoadapter.NewClient(ctx, cfg.MongoDB)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize MongoDB client: %w", err)
	}
	if err := mongoadapter.EnsureTransactionIndexes(ctx, mongoClient, cfg.MongoDB); err != nil {
		return nil, fmt.Errorf("failed to ensure transaction indexes: %w", err)
	}
	if err := mongoadapter.EnsureUserIndexes(ctx, mongoClient, cfg.MongoDB); err != nil {
		return nil, fmt.Errorf("failed to ensure user indexes: %w", err)
	}
	if err := mongoadapter.EnsureFavoriteIndexes(ctx, mongoClient, cfg.MongoDB); err != nil {
		return nil, fmt.Errorf("failed to ensure favorite indexes: %w", err)
	}
	appLogger.Info("MongoDB client initialized successfully")

	appLogger.Info("Initializing Redis client...")
	redisClient, err := redisadapter.NewClient(ctx, cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Redis client: %w", err)
	}
	appLogger.Info("Redis client initialized successfully")

	appLogger.Info("Connecting to NATS...")
	natsConn, err := natsadapter.NewConnection(cfg.NATS)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	publisher, err := natsadapter.NewPublisher(natsConn)
	if err != nil {
		return nil, fmt.Errorf("failed to create NATS publisher: %w", err)
	}
	appLogger.Info("NATS publisher initialized successfully")

	transactionRepo := mongoadapter.NewTransactionRepository(mongoClient, cfg.MongoDB)
	listingRepo := mongoadapter.NewListingRepository(mongoClient, cfg.MongoDB)
	userRepo := mongoadapter.NewUserRepository(mongoClient, cfg.MongoDB)
	settingRepo := mongoadapter.NewSettingRepository(mongoClient, cfg.MongoDB)
	favoriteRepo := mongoadapter.NewFavoriteRepository(mongoClient, cfg.MongoDB)
	alertRepo := mongoadapter.NewAlertRepository(mongoClient, cfg.MongoDB)
	pageViewRepo := mongoadapter.NewPageViewRepository(mongoClient, cfg.MongoDB)

	pricingCache := redisadapter.NewPricingCache(redisClient)
	rateLimiter := redisadapter.NewRateLimiter(redisClient, cfg.RateLimit.Window, cfg.RateLimit.MaxRequests)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.New(registry)

	gateway := campayadapter.NewClient(cfg.Campay)
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)

	pricingService := service.NewPricingService(settingRepo, pricingCache, cfg.PricingCache.TTL, appLogger)
	paymentService := service.NewPaymentService(transactionRepo, listingRepo, userRepo, pricingService, gateway, publisher, appMetrics, appLogger)
	accessService := service.NewAccessService(listingRepo, userRepo, transactionRepo, pricingService, appLogger)
	listingService := service.NewListingService(listingRepo, userRepo, appLogger)
	userService := service.NewUserService(userRepo, appLogger)
	favoriteService := service.NewFavoriteService(favoriteRepo, listingRepo, appLogger)
	alertService := service.NewAlertService(alertRepo, appLogger)
	analyticsService := service.NewAnalyticsService(pageViewRepo, appLogger)

	router := httpport.NewRouter(httpport.RouterDeps{
		Auth:        handlers.NewAuthHandler(userService, tokens, appLogger),
		Listings:    handlers.NewListingHandler(listingService, accessService, userService, appLogger),
		Payments:    handlers.NewPaymentHandler(paymentService, appLogger),
		Webhook:     handlers.NewWebhookHandler(paymentService, appMetrics, appLogger),
		Settings:    handlers.NewSettingsHandler(pricingService, appLogger),
		Admin:       handlers.NewAdminHandler(userService, appLogger),
		Favorites:   handlers.NewFavoriteHandler(favoriteService, appLogger),
		Alerts:      handlers.NewAlertHandler(alertService, appLogger),
		Analytics:   handlers.NewAnalyticsHandler(analyticsService, appLogger),
		Health:      handlers.NewHealthHandler(),
		Tokens:      tokens,
		RateLimiter: rateLimiter,
		Registry:    registry,
		Logger:      appLogger,
	})

	server := httpport.NewServer(appLogger, cfg.HTTPServer, router)
	appLogger.Info("HTTP server instance created")

	return &App{
		cfg:         cfg,
		log:         appLogger,
		server:      server,
		mongoClient: mongoClient,
		redisClient: redisClient,
		natsConn:    natsConn,
	}, nil
}

func (a *App) Run() {
	a.log.Info("Starting application components...")

	go func() {
		if err := a.server.Start(); err != nil {
			a.log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()
	a.log.Info("HTTP server started in a goroutine")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	receivedSignal := <-quit
	a.log.Infof("Received shutdown signal: %v. Shutting down application...", receivedSignal)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTPServer.TimeoutGraceful+5*time.Second)
	defer cancel()

	if err := a.server.Stop(shutdownCtx); err != nil {
		a.log.Errorf("Error during HTTP server graceful shutdown: %v", err)
	} else {
		a.log.Info("HTTP server stopped successfully")
	}

	a.log.Info("Closing external connections...")

	if a.natsConn != nil {
		a.natsConn.Close()
		a.log.Info("NATS connection closed")
	}

	if a.mongoClient != nil {
		if err := a.mongoClient.Disconnect(shutdownCtx); err != nil {
			a.log.Errorf("Error disconnecting from MongoDB: %v", err)
		} else {
			a.log.Info("MongoDB connection closed successfully")
		}
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.log.Errorf("Error closing Redis client: %v", err)
		} else {
			a.log.Info("Redis client closed successfully")
		}
	}

	a.log.Info("Application shut down successfully")
}
