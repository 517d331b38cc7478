package deliveries

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bidzone/bidzone-backend/pkg/db/models"
	pkgerrors "github.com/bidzone/bidzone-backend/pkg/errors"
	"github.com/bidzone/bidzone-backend/pkg/pagination"
)

// Service manages deliveries for auction winners. Creation happens inside
// settlement; the read side serves the customer's delivery list.
type Service interface {
	CreateForAuction(ctx context.Context, tx *gorm.DB, auctionID, customerID uuid.UUID) (*models.Delivery, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID, cursor string, limit int) ([]models.Delivery, string, error)
}

type service struct {
	repo Repository
}

// NewService builds a delivery service with the required dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery repo is required")
	}
	return &service{repo: repo}, nil
}

// CreateForAuction records the winner's delivery. The unique constraint on
// auction_id makes repeated settlement runs safe; an existing row is returned
// as-is.
func (s *service) CreateForAuction(ctx context.Context, tx *gorm.DB, auctionID, customerID uuid.UUID) (*models.Delivery, error) {
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction required")
	}
	if auctionID == uuid.Nil || customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "auction id and customer id are required")
	}

	repo := s.repo.WithTx(tx)
	existing, err := repo.FindByAuction(ctx, auctionID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	delivery := &models.Delivery{
		AuctionID:      auctionID,
		CustomerID:     customerID,
		TrackingNumber: newTrackingNumber(),
	}
	if err := repo.Create(ctx, delivery); err != nil {
		return nil, err
	}
	return delivery, nil
}

func (s *service) ListByCustomer(ctx context.Context, customerID uuid.UUID, cursor string, limit int) ([]models.Delivery, string, error) {
	if customerID == uuid.Nil {
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	parsed, err := pagination.ParseCursor(cursor)
	if err != nil {
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}

	normalized := pagination.NormalizeLimit(limit)
	rows, err := s.repo.ListByCustomer(ctx, customerID, normalized+1, parsed)
	if err != nil {
		return nil, "", err
	}

	next := ""
	if len(rows) > normalized {
		rows = rows[:normalized]
		last := rows[len(rows)-1]
		next = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return rows, next, nil
}

// newTrackingNumber issues a carrier-agnostic placeholder until a fulfillment
// integration assigns the real one.
func newTrackingNumber() string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "BZ-" + strings.ToUpper(raw[:12])
}
