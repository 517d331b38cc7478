package payloads

import (
	"time"

	"github.com/google/uuid"

	"github.com/bidzone/bidzone-backend/pkg/enums"
)

// AuctionCreatedEvent signals a product entering auction.
type AuctionCreatedEvent struct {
	AuctionID     uuid.UUID           `json:"auction_id"`
	ProductID     uuid.UUID           `json:"product_id"`
	SellerID      uuid.UUID           `json:"seller_id"`
	Status        enums.AuctionStatus `json:"status"`
	StartingPrice int64               `json:"starting_price"`
	StartingTime  time.Time           `json:"starting_time"`
	EndingTime    time.Time           `json:"ending_time"`
}

// AuctionActivatedEvent is emitted when a scheduled auction opens for bidding.
type AuctionActivatedEvent struct {
	AuctionID   uuid.UUID `json:"auction_id"`
	ActivatedAt time.Time `json:"activated_at"`
}

// AuctionCompletedEvent carries the settlement outcome for a closed auction.
type AuctionCompletedEvent struct {
	AuctionID    uuid.UUID `json:"auction_id"`
	ProductID    uuid.UUID `json:"product_id"`
	SellerID     uuid.UUID `json:"seller_id"`
	WinnerID     uuid.UUID `json:"winner_id"`
	WinningBid   int64     `json:"winning_bid"`
	RefundedBids int       `json:"refunded_bids"`
	CompletedAt  time.Time `json:"completed_at"`
}

// AuctionCancelledEvent is emitted when an admin cancels a bidless auction.
type AuctionCancelledEvent struct {
	AuctionID   uuid.UUID `json:"auction_id"`
	ProductID   uuid.UUID `json:"product_id"`
	CancelledAt time.Time `json:"cancelled_at"`
	Reason      string    `json:"reason,omitempty"`
}

// AuctionDeletedEvent is emitted when a bidless auction is removed and its
// product released back to the catalog.
type AuctionDeletedEvent struct {
	AuctionID uuid.UUID `json:"auction_id"`
	ProductID uuid.UUID `json:"product_id"`
	DeletedAt time.Time `json:"deleted_at"`
}

// BidPlacedEvent is emitted for both first bids and raises.
type BidPlacedEvent struct {
	BidID        uuid.UUID `json:"bid_id"`
	AuctionID    uuid.UUID `json:"auction_id"`
	BidderID     uuid.UUID `json:"bidder_id"`
	Amount       int64     `json:"amount"`
	DebitedCoins int64     `json:"debited_coins"`
	IsRaise      bool      `json:"is_raise"`
}

// BidRefundedEvent reports a losing bid returned during settlement.
type BidRefundedEvent struct {
	BidID     uuid.UUID `json:"bid_id"`
	AuctionID uuid.UUID `json:"auction_id"`
	BidderID  uuid.UUID `json:"bidder_id"`
	Amount    int64     `json:"amount"`
}

// DeliveryCreatedEvent tells downstream fulfillment to start shipping.
type DeliveryCreatedEvent struct {
	DeliveryID     uuid.UUID `json:"delivery_id"`
	AuctionID      uuid.UUID `json:"auction_id"`
	CustomerID     uuid.UUID `json:"customer_id"`
	TrackingNumber string    `json:"tracking_number"`
}

// CustomerRegisteredEvent is emitted when registration creates the customer
// and seeds the coin account.
type CustomerRegisteredEvent struct {
	CustomerID   uuid.UUID `json:"customer_id"`
	AccountID    uuid.UUID `json:"account_id"`
	InitialCoins int64     `json:"initial_coins"`
}
