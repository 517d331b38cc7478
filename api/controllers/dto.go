package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/bidzone/bidzone-backend/api/middleware"
	"github.com/bidzone/bidzone-backend/pkg/db/models"
	pkgerrors "github.com/bidzone/bidzone-backend/pkg/errors"
)

type customerDTO struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Tier      string    `json:"tier"`
	CreatedAt time.Time `json:"created_at"`
}

type productDTO struct {
	ID          uuid.UUID `json:"id"`
	SellerID    uuid.UUID `json:"seller_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	ImageURL    *string   `json:"image_url,omitempty"`
	InAuction   bool      `json:"in_auction"`
	CreatedAt   time.Time `json:"created_at"`
}

type auctionDTO struct {
	ID            uuid.UUID  `json:"id"`
	ProductID     uuid.UUID  `json:"product_id"`
	SellerID      uuid.UUID  `json:"seller_id"`
	Status        string     `json:"status"`
	StartingPrice int64      `json:"starting_price"`
	CurrentPrice  int64      `json:"current_price"`
	StartingTime  time.Time  `json:"starting_time"`
	EndingTime    time.Time  `json:"ending_time"`
	WinnerID      *uuid.UUID `json:"winner_id,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

type bidDTO struct {
	ID        uuid.UUID `json:"id"`
	AuctionID uuid.UUID `json:"auction_id"`
	BidderID  uuid.UUID `json:"bidder_id"`
	Amount    int64     `json:"amount"`
	Standing  bool      `json:"standing"`
	CreatedAt time.Time `json:"created_at"`
}

type transactionDTO struct {
	ID          uuid.UUID  `json:"id"`
	Type        string     `json:"type"`
	Status      string     `json:"status"`
	Amount      int64      `json:"amount"`
	Invoice     string     `json:"invoice"`
	ReferenceID uuid.UUID  `json:"reference_id"`
	AuctionID   *uuid.UUID `json:"auction_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type deliveryDTO struct {
	ID             uuid.UUID `json:"id"`
	AuctionID      uuid.UUID `json:"auction_id"`
	TrackingNumber string    `json:"tracking_number"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

type pageDTO[T any] struct {
	Items []T    `json:"items"`
	Next  string `json:"next,omitempty"`
}

func toCustomerDTO(c *models.Customer) customerDTO {
	return customerDTO{
		ID:        c.ID,
		Email:     c.Email,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Tier:      string(c.Tier),
		CreatedAt: c.CreatedAt,
	}
}

func toProductDTO(p *models.Product) productDTO {
	return productDTO{
		ID:          p.ID,
		SellerID:    p.SellerID,
		Name:        p.Name,
		Description: p.Description,
		ImageURL:    p.ImageURL,
		InAuction:   p.InAuction,
		CreatedAt:   p.CreatedAt,
	}
}

func toAuctionDTO(a *models.Auction) auctionDTO {
	return auctionDTO{
		ID:            a.ID,
		ProductID:     a.ProductID,
		SellerID:      a.SellerID,
		Status:        string(a.Status),
		StartingPrice: a.StartingPrice,
		CurrentPrice:  a.CurrentPrice,
		StartingTime:  a.StartingTime,
		EndingTime:    a.EndingTime,
		WinnerID:      a.WinnerID,
		CreatedAt:     a.CreatedAt,
	}
}

func toBidDTO(b *models.Bid) bidDTO {
	return bidDTO{
		ID:        b.ID,
		AuctionID: b.AuctionID,
		BidderID:  b.BidderID,
		Amount:    b.Amount,
		Standing:  b.Standing,
		CreatedAt: b.CreatedAt,
	}
}

func toTransactionDTO(t *models.Transaction) transactionDTO {
	return transactionDTO{
		ID:          t.ID,
		Type:        string(t.Type),
		Status:      string(t.Status),
		Amount:      t.Amount,
		Invoice:     t.Invoice,
		ReferenceID: t.ReferenceID,
		AuctionID:   t.AuctionID,
		CreatedAt:   t.CreatedAt,
	}
}

func toDeliveryDTO(d *models.Delivery) deliveryDTO {
	return deliveryDTO{
		ID:             d.ID,
		AuctionID:      d.AuctionID,
		TrackingNumber: d.TrackingNumber,
		Status:         string(d.Status),
		CreatedAt:      d.CreatedAt,
	}
}

// customerFromContext parses the authenticated customer id seeded by the auth
// middleware.
func customerFromContext(r *http.Request) (uuid.UUID, error) {
	raw := middleware.CustomerIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "customer context missing")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid customer id")
	}
	return id, nil
}

func parseUUIDParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, name))
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, name+" is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+name)
	}
	return id, nil
}

func parsePageQuery(r *http.Request) (string, int, error) {
	limit := 0
	if limitStr := strings.TrimSpace(r.URL.Query().Get("limit")); limitStr != "" {
		value, err := strconv.Atoi(limitStr)
		if err != nil || value <= 0 {
			return "", 0, pkgerrors.New(pkgerrors.CodeValidation, "limit must be a positive integer")
		}
		limit = value
	}
	cursor := strings.TrimSpace(r.URL.Query().Get("cursor"))
	return cursor, limit, nil
}
