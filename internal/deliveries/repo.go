package deliveries

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bidzone/bidzone-backend/pkg/db/models"
	"github.com/bidzone/bidzone-backend/pkg/pagination"
)

// Repository manages persistence for auction deliveries.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, delivery *models.Delivery) error
	FindByAuction(ctx context.Context, auctionID uuid.UUID) (*models.Delivery, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.Delivery, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a delivery repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, delivery *models.Delivery) error {
	return r.db.WithContext(ctx).Create(delivery).Error
}

func (r *repository) FindByAuction(ctx context.Context, auctionID uuid.UUID) (*models.Delivery, error) {
	var delivery models.Delivery
	err := r.db.WithContext(ctx).
		Where("auction_id = ?", auctionID).
		First(&delivery).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &delivery, nil
}

func (r *repository) ListByCustomer(ctx context.Context, customerID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.Delivery, error) {
	query := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID)
	if cursor != nil {
		query = query.Where(
			"(created_at, id) < (?, ?)",
			cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.Delivery
	err := query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
