package watchlist

import (
	"context"

	"github.com/google/uuid"

	"github.com/bidzone/bidzone-backend/internal/auctions"
	"github.com/bidzone/bidzone-backend/pkg/enums"
	pkgerrors "github.com/bidzone/bidzone-backend/pkg/errors"
)

// ServiceParams groups dependencies for the watchlist service.
type ServiceParams struct {
	WatchlistRepo *Repository
	AuctionRepo   auctions.Repository
}

// Service exposes business rules for watchlist management.
type Service interface {
	GetWatchlist(ctx context.Context, customerID uuid.UUID, cursor string, limit int) (ItemsPageDTO, error)
	AddItem(ctx context.Context, customerID, auctionID uuid.UUID) error
	RemoveItem(ctx context.Context, customerID, auctionID uuid.UUID) error
}

type service struct {
	watchlistRepo *Repository
	auctionRepo   auctions.Repository
}

// NewService builds a watchlist service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.WatchlistRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "watchlist repo is required")
	}
	if params.AuctionRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "auction repo is required")
	}
	return &service{
		watchlistRepo: params.WatchlistRepo,
		auctionRepo:   params.AuctionRepo,
	}, nil
}

// GetWatchlist returns the paginated watchlist for a customer.
func (s *service) GetWatchlist(ctx context.Context, customerID uuid.UUID, cursor string, limit int) (ItemsPageDTO, error) {
	if customerID == uuid.Nil {
		return ItemsPageDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	return s.watchlistRepo.ListItems(ctx, customerID, cursor, limit)
}

// AddItem ensures the auction exists and adds it to the watchlist.
func (s *service) AddItem(ctx context.Context, customerID, auctionID uuid.UUID) error {
	if customerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	if auctionID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "auction id is required")
	}
	auction, err := s.auctionRepo.FindByID(ctx, auctionID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load auction")
	}
	if auction == nil || auction.Status == enums.AuctionStatusDeleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "auction not found")
	}
	return s.watchlistRepo.AddItem(ctx, customerID, auctionID)
}

// RemoveItem drops the watchlist entry regardless of prior state.
func (s *service) RemoveItem(ctx context.Context, customerID, auctionID uuid.UUID) error {
	if customerID == uuid.Nil || auctionID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer id and auction id are required")
	}
	return s.watchlistRepo.RemoveItem(ctx, customerID, auctionID)
}
