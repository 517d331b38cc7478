package products

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/bidzone/bidzone-backend/pkg/db/models"
	pkgerrors "github.com/bidzone/bidzone-backend/pkg/errors"
	"github.com/bidzone/bidzone-backend/pkg/pagination"
)

// Service exposes business rules for the product catalog.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Product, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Product, error)
	List(ctx context.Context, sellerID *uuid.UUID, cursor string, limit int) ([]models.Product, string, error)
	Delete(ctx context.Context, sellerID, productID uuid.UUID) error
}

// CreateInput carries the fields a seller provides for a new product.
type CreateInput struct {
	SellerID    uuid.UUID
	Name        string
	Description *string
	ImageURL    *string
}

type service struct {
	repo Repository
}

// NewService builds a product service with the required dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product repo is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Product, error) {
	if input.SellerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "seller id is required")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}

	product := &models.Product{
		SellerID:    input.SellerID,
		Name:        name,
		Description: input.Description,
		ImageURL:    input.ImageURL,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return product, nil
}

func (s *service) List(ctx context.Context, sellerID *uuid.UUID, cursor string, limit int) ([]models.Product, string, error) {
	parsed, err := pagination.ParseCursor(cursor)
	if err != nil {
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}

	normalized := pagination.NormalizeLimit(limit)
	rows, err := s.repo.List(ctx, ListFilter{SellerID: sellerID, Limit: normalized + 1, Cursor: parsed})
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

// Delete removes a product that is not attached to an auction. Ownership is
// enforced here so the handler only has to pass the authenticated seller.
func (s *service) Delete(ctx context.Context, sellerID, productID uuid.UUID) error {
	if sellerID == uuid.Nil || productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "seller id and product id are required")
	}
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		return err
	}
	if product == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if product.SellerID != sellerID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "product belongs to another seller")
	}
	if product.InAuction {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "product is attached to an auction")
	}
	return s.repo.Delete(ctx, productID)
}
