package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/dkellogg/advancepay-service/internal/config"
	"github.com/dkellogg/advancepay-service/internal/event"
	"github.com/dkellogg/advancepay-service/internal/handler"
	"github.com/dkellogg/advancepay-service/internal/repository"
	"github.com/dkellogg/advancepay-service/internal/service"
	"github.com/dkellogg/advancepay-service/internal/wallet"
	"github.com/dkellogg/advancepay-service/pkg/response"
)

func main() {
	// Optional .env for local development
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := initLogger(cfg)
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	// Initialize database
	db, err := initDB(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	// Initialize Redis
	redisClient := initRedis(cfg)
	defer redisClient.Close()

	// Initialize repositories
	rolloverRepo := repository.NewRolloverRepository(db)
	inquiryRepo := repository.NewInquiryRepository(db)

	// Wire the rollover event pipeline: bus, completion registry, logging
	// subscriber.
	bus := event.NewBus()
	completions := event.NewCompletionRegistry()
	completions.Attach(bus)
	event.NewRequestLogger(rolloverRepo, bus, logger).Attach()

	// Initialize services
	rolloverService := service.NewRolloverService(rolloverRepo, bus, completions, redisClient, cfg, logger)
	inquiryService := service.NewInquiryService(inquiryRepo, cfg, logger)

	walletClient, err := wallet.NewClient(cfg.Wallet, logger)
	if err != nil {
		logger.Fatal("Failed to initialize wallet client", zap.Error(err))
	}

	// Initialize handlers
	rolloverHandler := handler.NewRolloverHandler(rolloverService)
	inquiryHandler := handler.NewInquiryHandler(inquiryService)
	walletHandler := handler.NewWalletHandler(walletClient)
	healthHandler := handler.NewHealthHandler(db, redisClient)

	// Setup routes
	router := setupRoutes(rolloverHandler, inquiryHandler, walletHandler, healthHandler, logger)

	// Start server
	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

func initLogger(cfg *config.Config) *zap.Logger {
	if cfg.IsDevelopment() {
		logger, _ := zap.NewDevelopment()
		return logger
	}

	logger, _ := zap.NewProduction()
	return logger
}

func initDB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	return db, nil
}

func initRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func setupRoutes(
	rolloverHandler *handler.RolloverHandler,
	inquiryHandler *handler.InquiryHandler,
	walletHandler *handler.WalletHandler,
	healthHandler *handler.HealthHandler,
	logger *zap.Logger,
) *mux.Router {
	router := mux.NewRouter()
	router.Use(response.LoggingMiddleware(logger))

	// Health check
	router.HandleFunc("/health", healthHandler.Health).Methods("GET")
	router.HandleFunc("/health/ready", healthHandler.Ready).Methods("GET")

	// API routes
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/rollovers/{memberAccountNumber}", rolloverHandler.List).Methods("GET")
	api.HandleFunc("/rollovers/{memberAccountNumber}/{loanSuffix}/eligibility", rolloverHandler.Eligibility).Methods("GET")
	api.HandleFunc("/rollovers/request", rolloverHandler.Submit).Methods("POST")

	api.HandleFunc("/loans/decision", inquiryHandler.Decision).Methods("POST")
	api.HandleFunc("/loans/conditions/{memberAccountNumber}", inquiryHandler.Conditions).Methods("GET")
	api.HandleFunc("/loans/eligibility/{memberUUID}", inquiryHandler.Eligibility).Methods("GET")

	// Digital wallet SSO bridge
	walletAPI := router.PathPrefix("/api/digital-wallet").Subrouter()
	walletAPI.HandleFunc("/v1/sso-request/{accountNumber}/{accountIdentifier}/{deviceIdentifier}", walletHandler.SSORequest).Methods("GET")

	return router
}
