package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/dkellogg/advancepay-service/internal/config"
	"github.com/dkellogg/advancepay-service/internal/repository"
)

func main() {
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	logger.Info("Starting advance pay scheduler...")

	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	rolloverRepo := repository.NewRolloverRepository(db)
	inquiryRepo := repository.NewInquiryRepository(db)

	// Initialize cron scheduler
	c := cron.New(cron.WithSeconds())

	// Schedule tasks
	setupCronJobs(c, cfg, rolloverRepo, inquiryRepo, logger)

	// Start the scheduler
	c.Start()
	logger.Info("Scheduler started successfully")

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down scheduler...")
	<-c.Stop().Done()
	logger.Info("Scheduler stopped")
}

func setupCronJobs(
	c *cron.Cron,
	cfg *config.Config,
	rolloverRepo repository.RolloverRepository,
	inquiryRepo repository.InquiryRepository,
	logger *zap.Logger,
) {
	// Fail inquiries the decision engine never resolved, so members are not
	// left with rows stuck in processing.
	_, err := c.AddFunc(cfg.Scheduler.StaleInquirySchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		cutoff := time.Now().Add(-cfg.Inquiry.StaleAfter)
		failed, err := inquiryRepo.MarkStaleFailed(ctx, cutoff)
		if err != nil {
			logger.Error("stale inquiry sweep failed", zap.Error(err))
			return
		}

		if failed > 0 {
			logger.Info("stale inquiries marked failed", zap.Int64("count", failed))
		}
	})
	if err != nil {
		logger.Error("scheduling stale inquiry sweep", zap.Error(err))
	}

	// Purge aged rollover request logs past the retention window.
	_, err = c.AddFunc(cfg.Scheduler.LogPurgeSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		cutoff := time.Now().Add(-cfg.Scheduler.LogRetention)
		purged, err := rolloverRepo.PurgeRequestLogs(ctx, cutoff)
		if err != nil {
			logger.Error("request log purge failed", zap.Error(err))
			return
		}

		logger.Info("rollover request logs purged", zap.Int64("count", purged))
	})
	if err != nil {
		logger.Error("scheduling request log purge", zap.Error(err))
	}

	logger.Info("Cron jobs scheduled successfully")
}
