package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/bidzone/bidzone-backend/api/middleware"
	"github.com/bidzone/bidzone-backend/internal/bidding"
	"github.com/bidzone/bidzone-backend/pkg/db/models"
)

type testBiddingService struct {
	placeBidFn func(ctx context.Context, input bidding.PlaceBidInput) (*models.Bid, error)
	listBidsFn func(ctx context.Context, auctionID uuid.UUID) ([]models.Bid, error)
}

func (s *testBiddingService) PlaceBid(ctx context.Context, input bidding.PlaceBidInput) (*models.Bid, error) {
	if s.placeBidFn != nil {
		return s.placeBidFn(ctx, input)
	}
	return nil, nil
}

func (s *testBiddingService) ListBids(ctx context.Context, auctionID uuid.UUID) ([]models.Bid, error) {
	if s.listBidsFn != nil {
		return s.listBidsFn(ctx, auctionID)
	}
	return nil, nil
}

func TestPlaceBidSuccess(t *testing.T) {
	bidderID := uuid.New()
	auctionID := uuid.New()
	svc := &testBiddingService{
		placeBidFn: func(ctx context.Context, input bidding.PlaceBidInput) (*models.Bid, error) {
			if input.BidderID != bidderID {
				t.Fatalf("unexpected bidder %s", input.BidderID)
			}
			if input.AuctionID != auctionID {
				t.Fatalf("unexpected auction %s", input.AuctionID)
			}
			if input.Amount != 500 {
				t.Fatalf("unexpected amount %d", input.Amount)
			}
			return &models.Bid{ID: uuid.New(), AuctionID: auctionID, BidderID: bidderID, Amount: 500, Standing: true}, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auctions/"+auctionID.String()+"/bids", strings.NewReader(`{"amount":500}`))
	req = req.WithContext(middleware.WithCustomerID(req.Context(), bidderID.String()))
	req = addRouteParam(req, "auctionId", auctionID.String())

	resp := httptest.NewRecorder()
	PlaceBid(svc, testLogger())(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	var envelope struct {
		Data bidDTO `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data.Amount != 500 {
		t.Fatalf("unexpected amount in response: %d", envelope.Data.Amount)
	}
}

func TestPlaceBidMissingCustomer(t *testing.T) {
	auctionID := uuid.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auctions/"+auctionID.String()+"/bids", strings.NewReader(`{"amount":500}`))
	req = addRouteParam(req, "auctionId", auctionID.String())

	resp := httptest.NewRecorder()
	PlaceBid(&testBiddingService{}, testLogger())(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestPlaceBidRejectsZeroAmount(t *testing.T) {
	auctionID := uuid.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auctions/"+auctionID.String()+"/bids", strings.NewReader(`{"amount":0}`))
	req = req.WithContext(middleware.WithCustomerID(req.Context(), uuid.NewString()))
	req = addRouteParam(req, "auctionId", auctionID.String())

	resp := httptest.NewRecorder()
	PlaceBid(&testBiddingService{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestListBidsReturnsItems(t *testing.T) {
	auctionID := uuid.New()
	svc := &testBiddingService{
		listBidsFn: func(ctx context.Context, id uuid.UUID) ([]models.Bid, error) {
			return []models.Bid{
				{ID: uuid.New(), AuctionID: id, Amount: 700, Standing: true},
				{ID: uuid.New(), AuctionID: id, Amount: 400, Standing: true},
			}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auctions/"+auctionID.String()+"/bids", nil)
	req = addRouteParam(req, "auctionId", auctionID.String())

	resp := httptest.NewRecorder()
	ListBids(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	var envelope struct {
		Data pageDTO[bidDTO] `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if len(envelope.Data.Items) != 2 {
		t.Fatalf("expected 2 bids got %d", len(envelope.Data.Items))
	}
	if envelope.Data.Items[0].Amount != 700 {
		t.Fatalf("expected highest bid first, got %d", envelope.Data.Items[0].Amount)
	}
}
