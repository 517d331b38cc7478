package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/bidzone/bidzone-backend/api/middleware"
	auctionsvc "github.com/bidzone/bidzone-backend/internal/auctions"
	"github.com/bidzone/bidzone-backend/pkg/db/models"
	"github.com/bidzone/bidzone-backend/pkg/enums"
	"github.com/bidzone/bidzone-backend/pkg/outbox"
)

type testAuctionService struct {
	createFn func(ctx context.Context, input auctionsvc.CreateInput) (*models.Auction, error)
	getFn    func(ctx context.Context, id uuid.UUID) (*models.Auction, error)
	listFn   func(ctx context.Context, status *enums.AuctionStatus, cursor string, limit int) ([]models.Auction, string, error)
	cancelFn func(ctx context.Context, id uuid.UUID, actor *outbox.ActorRef, reason string) (*models.Auction, error)
	deleteFn func(ctx context.Context, id uuid.UUID, actor *outbox.ActorRef) error
}

func (s *testAuctionService) Create(ctx context.Context, input auctionsvc.CreateInput) (*models.Auction, error) {
	if s.createFn != nil {
		return s.createFn(ctx, input)
	}
	return nil, nil
}

func (s *testAuctionService) Get(ctx context.Context, id uuid.UUID) (*models.Auction, error) {
	if s.getFn != nil {
		return s.getFn(ctx, id)
	}
	return nil, nil
}

func (s *testAuctionService) List(ctx context.Context, status *enums.AuctionStatus, cursor string, limit int) ([]models.Auction, string, error) {
	if s.listFn != nil {
		return s.listFn(ctx, status, cursor, limit)
	}
	return nil, "", nil
}

func (s *testAuctionService) Cancel(ctx context.Context, id uuid.UUID, actor *outbox.ActorRef, reason string) (*models.Auction, error) {
	if s.cancelFn != nil {
		return s.cancelFn(ctx, id, actor, reason)
	}
	return nil, nil
}

func (s *testAuctionService) Delete(ctx context.Context, id uuid.UUID, actor *outbox.ActorRef) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, id, actor)
	}
	return nil
}

func (s *testAuctionService) ActivateDue(ctx context.Context) (int, error) {
	return 0, nil
}

func TestCreateAuctionSuccess(t *testing.T) {
	sellerID := uuid.New()
	productID := uuid.New()
	starting := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	ending := starting.Add(24 * time.Hour)

	svc := &testAuctionService{
		createFn: func(ctx context.Context, input auctionsvc.CreateInput) (*models.Auction, error) {
			if input.SellerID != sellerID {
				t.Fatalf("unexpected seller %s", input.SellerID)
			}
			if input.ProductID != productID {
				t.Fatalf("unexpected product %s", input.ProductID)
			}
			if input.StartingPrice != 1000 {
				t.Fatalf("unexpected price %d", input.StartingPrice)
			}
			return &models.Auction{
				ID:            uuid.New(),
				ProductID:     input.ProductID,
				SellerID:      input.SellerID,
				Status:        enums.AuctionStatusScheduled,
				StartingPrice: input.StartingPrice,
				CurrentPrice:  input.StartingPrice,
				StartingTime:  input.StartingTime,
				EndingTime:    input.EndingTime,
			}, nil
		},
	}

	body := `{"product_id":"` + productID.String() + `","starting_price":1000,"starting_time":"` +
		starting.Format(time.RFC3339) + `","ending_time":"` + ending.Format(time.RFC3339) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auctions", strings.NewReader(body))
	req = req.WithContext(middleware.WithCustomerID(req.Context(), sellerID.String()))

	resp := httptest.NewRecorder()
	CreateAuction(svc, testLogger())(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	var envelope struct {
		Data auctionDTO `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data.Status != string(enums.AuctionStatusScheduled) {
		t.Fatalf("unexpected status %s", envelope.Data.Status)
	}
}

func TestCreateAuctionRejectsBadProductID(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auctions",
		strings.NewReader(`{"product_id":"nope","starting_price":1000,"starting_time":"2026-04-01T00:00:00Z","ending_time":"2026-04-02T00:00:00Z"}`))
	req = req.WithContext(middleware.WithCustomerID(req.Context(), uuid.NewString()))

	resp := httptest.NewRecorder()
	CreateAuction(&testAuctionService{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestListAuctionsFiltersStatus(t *testing.T) {
	var captured *enums.AuctionStatus
	svc := &testAuctionService{
		listFn: func(ctx context.Context, status *enums.AuctionStatus, cursor string, limit int) ([]models.Auction, string, error) {
			captured = status
			return []models.Auction{{ID: uuid.New(), Status: enums.AuctionStatusActive}}, "", nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auctions?status=active", nil)
	resp := httptest.NewRecorder()
	ListAuctions(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	if captured == nil || *captured != enums.AuctionStatusActive {
		t.Fatalf("expected active filter, got %v", captured)
	}
}

func TestListAuctionsRejectsUnknownStatus(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/auctions?status=paused", nil)
	resp := httptest.NewRecorder()
	ListAuctions(&testAuctionService{}, testLogger())(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCancelAuctionPassesActor(t *testing.T) {
	auctionID := uuid.New()
	customerID := uuid.New()
	svc := &testAuctionService{
		cancelFn: func(ctx context.Context, id uuid.UUID, actor *outbox.ActorRef, reason string) (*models.Auction, error) {
			if id != auctionID {
				t.Fatalf("unexpected auction %s", id)
			}
			if actor == nil || actor.CustomerID != customerID {
				t.Fatalf("expected actor %s, got %+v", customerID, actor)
			}
			return &models.Auction{ID: id, Status: enums.AuctionStatusCancelled}, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auctions/"+auctionID.String()+"/cancel", nil)
	req = req.WithContext(middleware.WithCustomerID(req.Context(), customerID.String()))
	req = addRouteParam(req, "auctionId", auctionID.String())

	resp := httptest.NewRecorder()
	CancelAuction(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
}

func TestDeleteAuctionInvalidID(t *testing.T) {
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/auctions/invalid", nil)
	req = req.WithContext(middleware.WithCustomerID(req.Context(), uuid.NewString()))
	req = addRouteParam(req, "auctionId", "invalid")

	resp := httptest.NewRecorder()
	DeleteAuction(&testAuctionService{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
