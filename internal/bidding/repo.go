package bidding

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bidzone/bidzone-backend/pkg/db/models"
)

// Repository manages persistence for bids. One row per bidder per auction;
// raises update the row in place.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, bid *models.Bid) error
	Update(ctx context.Context, bid *models.Bid) error
	FindByAuctionAndBidder(ctx context.Context, auctionID, bidderID uuid.UUID) (*models.Bid, error)
	// FindByAuctionAndBidderForUpdate takes a row lock; callers must hold a transaction.
	FindByAuctionAndBidderForUpdate(ctx context.Context, auctionID, bidderID uuid.UUID) (*models.Bid, error)
	ListByAuction(ctx context.Context, auctionID uuid.UUID) ([]models.Bid, error)
	// ListStandingForUpdate locks every standing bid on the auction, highest
	// amount first with earlier bids winning ties.
	ListStandingForUpdate(ctx context.Context, auctionID uuid.UUID) ([]models.Bid, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a bid repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, bid *models.Bid) error {
	return r.db.WithContext(ctx).Create(bid).Error
}

func (r *repository) Update(ctx context.Context, bid *models.Bid) error {
	return r.db.WithContext(ctx).Save(bid).Error
}

func (r *repository) FindByAuctionAndBidder(ctx context.Context, auctionID, bidderID uuid.UUID) (*models.Bid, error) {
	var bid models.Bid
	err := r.db.WithContext(ctx).
		Where("auction_id = ? AND bidder_id = ?", auctionID, bidderID).
		First(&bid).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &bid, nil
}

func (r *repository) FindByAuctionAndBidderForUpdate(ctx context.Context, auctionID, bidderID uuid.UUID) (*models.Bid, error) {
	var bid models.Bid
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("auction_id = ? AND bidder_id = ?", auctionID, bidderID).
		First(&bid).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &bid, nil
}

func (r *repository) ListByAuction(ctx context.Context, auctionID uuid.UUID) ([]models.Bid, error) {
	var rows []models.Bid
	err := r.db.WithContext(ctx).
		Where("auction_id = ?", auctionID).
		Order("amount DESC").
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) ListStandingForUpdate(ctx context.Context, auctionID uuid.UUID) ([]models.Bid, error) {
	var rows []models.Bid
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("auction_id = ? AND standing = ?", auctionID, true).
		Order("amount DESC").
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}
