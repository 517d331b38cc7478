package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bidzone/bidzone-backend/api/controllers"
	"github.com/bidzone/bidzone-backend/api/middleware"
	auctionsvc "github.com/bidzone/bidzone-backend/internal/auctions"
	"github.com/bidzone/bidzone-backend/internal/bidding"
	"github.com/bidzone/bidzone-backend/internal/customers"
	"github.com/bidzone/bidzone-backend/internal/deliveries"
	"github.com/bidzone/bidzone-backend/internal/ledger"
	productsvc "github.com/bidzone/bidzone-backend/internal/products"
	"github.com/bidzone/bidzone-backend/internal/settlement"
	"github.com/bidzone/bidzone-backend/internal/watchlist"
	"github.com/bidzone/bidzone-backend/pkg/auth/session"
	"github.com/bidzone/bidzone-backend/pkg/config"
	"github.com/bidzone/bidzone-backend/pkg/db"
	"github.com/bidzone/bidzone-backend/pkg/enums"
	"github.com/bidzone/bidzone-backend/pkg/logger"
	"github.com/bidzone/bidzone-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	sessionChecker session.AccessSessionChecker,
	customersService customers.Service,
	ledgerService ledger.Service,
	deliveriesService deliveries.Service,
	productService productsvc.Service,
	auctionService auctionsvc.Service,
	biddingService bidding.Service,
	watchlistService watchlist.Service,
	settlementService settlement.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	// A typed-nil *redis.Client must not reach the middleware as a non-nil
	// interface.
	var idemStore redis.IdempotencyStore
	if redisClient != nil {
		idemStore = redisClient
	}

	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
		r.Post("/validate", controllers.PublicValidate(logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Registration is the only unauthenticated write surface.
		r.With(
			middleware.AuthRateLimit(registerPolicy, redisClient, logg),
			middleware.Idempotency(idemStore, logg),
		).Post("/customers", controllers.RegisterCustomer(customersService, logg))

		// Session endpoints authenticate via the presented token themselves
		// so expired access tokens can still refresh.
		r.Route("/sessions", func(r chi.Router) {
			r.Post("/refresh", controllers.SessionRefresh(customersService, cfg.JWT, logg))
			r.Post("/logout", controllers.SessionLogout(customersService, cfg.JWT, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, sessionChecker, logg))
			r.Use(middleware.Idempotency(idemStore, logg))

			r.Get("/ping", controllers.PrivatePing())

			r.Route("/customers/me", func(r chi.Router) {
				r.Get("/", controllers.CustomerMe(customersService, logg))
				r.Get("/balance", controllers.CustomerBalance(ledgerService, logg))
				r.Get("/transactions", controllers.CustomerTransactions(ledgerService, logg))
				r.Get("/deliveries", controllers.CustomerDeliveries(deliveriesService, logg))
			})

			r.Route("/products", func(r chi.Router) {
				r.Post("/", controllers.CreateProduct(productService, logg))
				r.Get("/", controllers.ListProducts(productService, logg))
				r.Get("/{productId}", controllers.GetProduct(productService, logg))
				r.Delete("/{productId}", controllers.DeleteProduct(productService, logg))
			})

			r.Route("/auctions", func(r chi.Router) {
				r.Post("/", controllers.CreateAuction(auctionService, logg))
				r.Get("/", controllers.ListAuctions(auctionService, logg))
				r.Get("/{auctionId}", controllers.GetAuction(auctionService, logg))
				r.Post("/{auctionId}/cancel", controllers.CancelAuction(auctionService, logg))
				r.Delete("/{auctionId}", controllers.DeleteAuction(auctionService, logg))
				r.Post("/{auctionId}/bids", controllers.PlaceBid(biddingService, logg))
				r.Get("/{auctionId}/bids", controllers.ListBids(biddingService, logg))
			})

			r.Route("/watchlist", func(r chi.Router) {
				r.Get("/", controllers.WatchlistList(watchlistService, logg))
				r.Post("/", controllers.WatchlistAddItem(watchlistService, logg))
				r.Delete("/{auctionId}", controllers.WatchlistRemoveItem(watchlistService, logg))
			})
		})
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionChecker, logg))
		r.Use(middleware.RequireRole(string(enums.ActorRoleAdmin), logg))
		r.Get("/ping", controllers.AdminPing())
		r.Post("/v1/settlement/run", controllers.SettlementRun(settlementService, logg))
	})

	return r
}
