package watchlist

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bidzone/bidzone-backend/internal/auctions"
	"github.com/bidzone/bidzone-backend/pkg/db/models"
	"github.com/bidzone/bidzone-backend/pkg/enums"
	pkgerrors "github.com/bidzone/bidzone-backend/pkg/errors"
)

type fakeAuctionRepository struct {
	auctions map[uuid.UUID]*models.Auction
}

func newFakeAuctionRepository() *fakeAuctionRepository {
	return &fakeAuctionRepository{auctions: make(map[uuid.UUID]*models.Auction)}
}

func (f *fakeAuctionRepository) WithTx(tx *gorm.DB) auctions.Repository { return f }

func (f *fakeAuctionRepository) Create(ctx context.Context, auction *models.Auction) error {
	f.auctions[auction.ID] = auction
	return nil
}

func (f *fakeAuctionRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Auction, error) {
	return f.auctions[id], nil
}

func (f *fakeAuctionRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Auction, error) {
	return f.auctions[id], nil
}

func (f *fakeAuctionRepository) Update(ctx context.Context, auction *models.Auction) error {
	return nil
}

func (f *fakeAuctionRepository) CountBids(ctx context.Context, auctionID uuid.UUID) (int64, error) {
	return 0, nil
}

func (f *fakeAuctionRepository) List(ctx context.Context, filter auctions.ListFilter) ([]models.Auction, error) {
	return nil, nil
}

func (f *fakeAuctionRepository) ListEndingWithin(ctx context.Context, from, to time.Time) ([]models.Auction, error) {
	return nil, nil
}

func (f *fakeAuctionRepository) ListScheduledDue(ctx context.Context, now time.Time) ([]models.Auction, error) {
	return nil, nil
}

func newTestService(t *testing.T, auctionRepo auctions.Repository) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		WatchlistRepo: NewRepository(nil),
		AuctionRepo:   auctionRepo,
	})
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}
	return svc
}

func TestService_AddItemUnknownAuction(t *testing.T) {
	svc := newTestService(t, newFakeAuctionRepository())

	err := svc.AddItem(context.Background(), uuid.New(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestService_AddItemDeletedAuction(t *testing.T) {
	repo := newFakeAuctionRepository()
	auction := &models.Auction{ID: uuid.New(), Status: enums.AuctionStatusDeleted}
	repo.auctions[auction.ID] = auction
	svc := newTestService(t, repo)

	err := svc.AddItem(context.Background(), uuid.New(), auction.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestService_AddItemValidation(t *testing.T) {
	svc := newTestService(t, newFakeAuctionRepository())

	if err := svc.AddItem(context.Background(), uuid.Nil, uuid.New()); err == nil {
		t.Fatal("expected error for missing customer id")
	}
	if err := svc.AddItem(context.Background(), uuid.New(), uuid.Nil); err == nil {
		t.Fatal("expected error for missing auction id")
	}
}

func TestService_GetWatchlistRequiresCustomer(t *testing.T) {
	svc := newTestService(t, newFakeAuctionRepository())

	_, err := svc.GetWatchlist(context.Background(), uuid.Nil, "", 10)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
