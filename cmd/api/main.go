package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/bidzone/bidzone-backend/api/routes"
	"github.com/bidzone/bidzone-backend/internal/auctions"
	"github.com/bidzone/bidzone-backend/internal/bidding"
	"github.com/bidzone/bidzone-backend/internal/customers"
	"github.com/bidzone/bidzone-backend/internal/deliveries"
	"github.com/bidzone/bidzone-backend/internal/ledger"
	"github.com/bidzone/bidzone-backend/internal/products"
	"github.com/bidzone/bidzone-backend/internal/settlement"
	"github.com/bidzone/bidzone-backend/internal/watchlist"
	"github.com/bidzone/bidzone-backend/pkg/auth/session"
	"github.com/bidzone/bidzone-backend/pkg/config"
	"github.com/bidzone/bidzone-backend/pkg/db"
	"github.com/bidzone/bidzone-backend/pkg/logger"
	"github.com/bidzone/bidzone-backend/pkg/migrate"
	"github.com/bidzone/bidzone-backend/pkg/outbox"
	"github.com/bidzone/bidzone-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
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

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	outboxService := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)

	ledgerService, err := ledger.NewService(ledger.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create ledger service", err)
		os.Exit(1)
	}

	productRepo := products.NewRepository(dbClient.DB())
	productService, err := products.NewService(productRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	auctionRepo := auctions.NewRepository(dbClient.DB())
	auctionService, err := auctions.NewService(auctions.ServiceParams{
		Repo:        auctionRepo,
		ProductRepo: productRepo,
		Transactor:  dbClient,
		Outbox:      outboxService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auction service", err)
		os.Exit(1)
	}

	bidRepo := bidding.NewRepository(dbClient.DB())
	biddingService, err := bidding.NewService(bidding.ServiceParams{
		Repo:        bidRepo,
		AuctionRepo: auctionRepo,
		Ledger:      ledgerService,
		Transactor:  dbClient,
		Outbox:      outboxService,
		Config:      cfg.Bidding,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create bidding service", err)
		os.Exit(1)
	}

	deliveriesService, err := deliveries.NewService(deliveries.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create delivery service", err)
		os.Exit(1)
	}

	customersService, err := customers.NewService(customers.ServiceParams{
		Repo:             customers.NewRepository(dbClient.DB()),
		Ledger:           ledgerService,
		Transactor:       dbClient,
		Outbox:           outboxService,
		Sessions:         sessionManager,
		JWTConfig:        cfg.JWT,
		InitialCoinGrant: cfg.Customers.InitialCoinGrant,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create customer service", err)
		os.Exit(1)
	}

	watchlistService, err := watchlist.NewService(watchlist.ServiceParams{
		WatchlistRepo: watchlist.NewRepository(dbClient.DB()),
		AuctionRepo:   auctionRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create watchlist service", err)
		os.Exit(1)
	}

	settlementService, err := settlement.NewService(settlement.ServiceParams{
		AuctionRepo: auctionRepo,
		BidRepo:     bidRepo,
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

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			sessionManager,
			customersService,
			ledgerService,
			deliveriesService,
			productService,
			auctionService,
			biddingService,
			watchlistService,
			settlementService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
