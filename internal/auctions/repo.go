package auctions

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bidzone/bidzone-backend/pkg/db/models"
	"github.com/bidzone/bidzone-backend/pkg/enums"
	"github.com/bidzone/bidzone-backend/pkg/pagination"
)

// Repository manages persistence for auctions.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, auction *models.Auction) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Auction, error)
	// FindByIDForUpdate takes a row lock; callers must hold a transaction.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Auction, error)
	Update(ctx context.Context, auction *models.Auction) error
	CountBids(ctx context.Context, auctionID uuid.UUID) (int64, error)
	List(ctx context.Context, filter ListFilter) ([]models.Auction, error)
	ListEndingWithin(ctx context.Context, from, to time.Time) ([]models.Auction, error)
	ListScheduledDue(ctx context.Context, now time.Time) ([]models.Auction, error)
}

// ListFilter narrows and pages the public auction listing.
type ListFilter struct {
	Status *enums.AuctionStatus
	Limit  int
	Cursor *pagination.Cursor
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an auction repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, auction *models.Auction) error {
	return r.db.WithContext(ctx).Create(auction).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Auction, error) {
	var auction models.Auction
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&auction).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &auction, nil
}

func (r *repository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Auction, error) {
	var auction models.Auction
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&auction).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &auction, nil
}

func (r *repository) Update(ctx context.Context, auction *models.Auction) error {
	return r.db.WithContext(ctx).Save(auction).Error
}

func (r *repository) CountBids(ctx context.Context, auctionID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Bid{}).
		Where("auction_id = ?", auctionID).
		Count(&count).Error
	return count, err
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]models.Auction, error) {
	query := r.db.WithContext(ctx).Model(&models.Auction{}).
		Where("status <> ?", enums.AuctionStatusDeleted)
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Cursor != nil {
		query = query.Where(
			"(created_at, id) < (?, ?)",
			filter.Cursor.CreatedAt, filter.Cursor.ID,
		)
	}

	var rows []models.Auction
	err := query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(filter.Limit).
		Find(&rows).Error
	return rows, err
}

func (r *repository) ListEndingWithin(ctx context.Context, from, to time.Time) ([]models.Auction, error) {
	var rows []models.Auction
	err := r.db.WithContext(ctx).
		Where("status = ?", enums.AuctionStatusActive).
		Where("ending_time BETWEEN ? AND ?", from, to).
		Order("ending_time ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) ListScheduledDue(ctx context.Context, now time.Time) ([]models.Auction, error) {
	var rows []models.Auction
	err := r.db.WithContext(ctx).
		Where("status = ?", enums.AuctionStatusScheduled).
		Where("starting_time <= ?", now).
		Order("starting_time ASC").
		Find(&rows).Error
	return rows, err
}
