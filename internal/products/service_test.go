package products

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bidzone/bidzone-backend/pkg/db/models"
	pkgerrors "github.com/bidzone/bidzone-backend/pkg/errors"
)

type fakeRepository struct {
	products map[uuid.UUID]*models.Product
	deleted  []uuid.UUID
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{products: make(map[uuid.UUID]*models.Product)}
}

func (f *fakeRepository) seed(sellerID uuid.UUID, inAuction bool) *models.Product {
	product := &models.Product{ID: uuid.New(), SellerID: sellerID, Name: "vintage lamp", InAuction: inAuction}
	f.products[product.ID] = product
	return product
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepository) Create(ctx context.Context, product *models.Product) error {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	f.products[product.ID] = product
	return nil
}

func (f *fakeRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return f.products[id], nil
}

func (f *fakeRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return f.products[id], nil
}

func (f *fakeRepository) SetInAuction(ctx context.Context, id uuid.UUID, inAuction bool) error {
	if product, ok := f.products[id]; ok {
		product.InAuction = inAuction
	}
	return nil
}

func (f *fakeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.products, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeRepository) List(ctx context.Context, filter ListFilter) ([]models.Product, error) {
	var rows []models.Product
	for _, product := range f.products {
		if filter.SellerID != nil && product.SellerID != *filter.SellerID {
			continue
		}
		rows = append(rows, *product)
		if len(rows) == filter.Limit {
			break
		}
	}
	return rows, nil
}

func newTestService(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}
	return svc
}

func TestService_CreateRequiresName(t *testing.T) {
	svc := newTestService(t, newFakeRepository())

	_, err := svc.Create(context.Background(), CreateInput{SellerID: uuid.New(), Name: "   "})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestService_CreateTrimsName(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(t, repo)

	product, err := svc.Create(context.Background(), CreateInput{SellerID: uuid.New(), Name: "  rare coin  "})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if product.Name != "rare coin" {
		t.Fatalf("expected trimmed name, got %q", product.Name)
	}
	if product.InAuction {
		t.Fatal("new product must not start in auction")
	}
}

func TestService_DeleteRefusesAuctionedProduct(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(t, repo)
	sellerID := uuid.New()
	product := repo.seed(sellerID, true)

	err := svc.Delete(context.Background(), sellerID, product.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
	if len(repo.deleted) != 0 {
		t.Fatal("product must not be deleted while auctioned")
	}
}

func TestService_DeleteRejectsForeignSeller(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(t, repo)
	product := repo.seed(uuid.New(), false)

	err := svc.Delete(context.Background(), uuid.New(), product.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden error, got %v", err)
	}
}

func TestService_DeleteRemovesIdleProduct(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(t, repo)
	sellerID := uuid.New()
	product := repo.seed(sellerID, false)

	if err := svc.Delete(context.Background(), sellerID, product.ID); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != product.ID {
		t.Fatalf("expected product %s deleted, got %v", product.ID, repo.deleted)
	}
}
