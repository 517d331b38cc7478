package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/bidzone/bidzone-backend/internal/auctions"
	"github.com/bidzone/bidzone-backend/internal/bidding"
	"github.com/bidzone/bidzone-backend/internal/cron"
	"github.com/bidzone/bidzone-backend/internal/deliveries"
	"github.com/bidzone/bidzone-backend/internal/ledger"
	"github.com/bidzone/bidzone-backend/internal/products"
	"github.com/bidzone/bidzone-backend/internal/settlement"
	"github.com/bidzone/bidzone-backend/pkg/config"
	"github.com/bidzone/bidzone-backend/pkg/db"
	"github.com/bidzone/bidzone-backend/pkg/instance"
	"github.com/bidzone/bidzone-backend/pkg/logger"
	"github.com/bidzone/bidzone-backend/pkg/metrics"
	"github.com/bidzone/bidzone-backend/pkg/migrate"
	"github.com/bidzone/bidzone-backend/pkg/outbox"
	"github.com/bidzone/bidzone-backend/pkg/redis"
)

const lockKeyFormat = "bz:settlement-worker:lock:%s"

func main() {
	logg := logger.New(logger.Options{ServiceName: "settlement-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "settlement-worker"

	logg = logger.New(logger.Options{
		ServiceName: "settlement-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	outboxService := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)

	ledgerService, err := ledger.NewService(ledger.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create ledger service", err)
		os.Exit(1)
	}

	deliveriesService, err := deliveries.NewService(deliveries.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create delivery service", err)
		os.Exit(1)
	}

	auctionRepo := auctions.NewRepository(dbClient.DB())
	auctionService, err := auctions.NewService(auctions.ServiceParams{
		Repo:        auctionRepo,
		ProductRepo: products.NewRepository(dbClient.DB()),
		Transactor:  dbClient,
		Outbox:      outboxService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auction service", err)
		os.Exit(1)
	}

	settlementService, err := settlement.NewService(settlement.ServiceParams{
		AuctionRepo: auctionRepo,
		BidRepo:     bidding.NewRepository(dbClient.DB()),
		Ledger:      ledgerService,
		Deliveries:  deliveriesService,
		Transactor:  dbClient,
		Outbox:      outboxService,
		Logger:      logg,
		Window:      cfg.Settlement.Window,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create settlement service", err)
		os.Exit(1)
	}

	activationJob, err := cron.NewAuctionActivationJob(cron.AuctionActivationJobParams{
		Logger:   logg,
		Auctions: auctionService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auction activation job", err)
		os.Exit(1)
	}

	sweepJob, err := cron.NewSettlementSweepJob(cron.SettlementSweepJobParams{
		Logger:     logg,
		Settlement: settlementService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create settlement sweep job", err)
		os.Exit(1)
	}

	metricsCollector := metrics.NewCronJobMetrics(prometheus.DefaultRegisterer)
	lock, err := cron.NewRedisLock(redisClient, lockKey(cfg.App.Env), 0)
	if err != nil {
		logg.Error(context.Background(), "failed to create cron lock", err)
		os.Exit(1)
	}

	registry := cron.NewRegistry(activationJob, sweepJob)
	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: registry,
		Lock:     lock,
		Metrics:  metricsCollector,
		Interval: cfg.Settlement.Interval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
		"instance":    instance.GetID(),
	})
	logg.Info(ctx, "starting settlement worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "settlement worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "settlement worker shutting down gracefully")
}

func lockKey(env string) string {
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf(lockKeyFormat, env)
}
