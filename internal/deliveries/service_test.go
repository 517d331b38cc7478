package deliveries

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bidzone/bidzone-backend/pkg/db/models"
	pkgerrors "github.com/bidzone/bidzone-backend/pkg/errors"
	"github.com/bidzone/bidzone-backend/pkg/pagination"
)

type fakeRepository struct {
	byAuction map[uuid.UUID]*models.Delivery
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{byAuction: make(map[uuid.UUID]*models.Delivery)}
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepository) Create(ctx context.Context, delivery *models.Delivery) error {
	if delivery.ID == uuid.Nil {
		delivery.ID = uuid.New()
	}
	f.byAuction[delivery.AuctionID] = delivery
	return nil
}

func (f *fakeRepository) FindByAuction(ctx context.Context, auctionID uuid.UUID) (*models.Delivery, error) {
	return f.byAuction[auctionID], nil
}

func (f *fakeRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.Delivery, error) {
	var rows []models.Delivery
	for _, delivery := range f.byAuction {
		if delivery.CustomerID == customerID {
			rows = append(rows, *delivery)
		}
	}
	return rows, nil
}

func TestService_CreateForAuctionAssignsTracking(t *testing.T) {
	repo := newFakeRepository()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("service error: %v", err)
	}

	delivery, err := svc.CreateForAuction(context.Background(), &gorm.DB{}, uuid.New(), uuid.New())
	if err != nil {
		t.Fatalf("CreateForAuction error: %v", err)
	}
	if !strings.HasPrefix(delivery.TrackingNumber, "BZ-") {
		t.Fatalf("unexpected tracking number %q", delivery.TrackingNumber)
	}
}

func TestService_CreateForAuctionIsIdempotent(t *testing.T) {
	repo := newFakeRepository()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("service error: %v", err)
	}
	auctionID := uuid.New()
	customerID := uuid.New()

	first, err := svc.CreateForAuction(context.Background(), &gorm.DB{}, auctionID, customerID)
	if err != nil {
		t.Fatalf("first create error: %v", err)
	}
	second, err := svc.CreateForAuction(context.Background(), &gorm.DB{}, auctionID, customerID)
	if err != nil {
		t.Fatalf("second create error: %v", err)
	}
	if first.ID != second.ID {
		t.Fatal("repeated creation must return the existing delivery")
	}
	if len(repo.byAuction) != 1 {
		t.Fatalf("expected a single delivery row, got %d", len(repo.byAuction))
	}
}

func TestService_CreateForAuctionRequiresTx(t *testing.T) {
	svc, err := NewService(newFakeRepository())
	if err != nil {
		t.Fatalf("service error: %v", err)
	}

	_, err = svc.CreateForAuction(context.Background(), nil, uuid.New(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
