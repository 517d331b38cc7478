package models

import (
	"time"

	"github.com/google/uuid"
)

// Bid is a bidder's single standing offer on an auction. Raising a bid
// updates the row in place; Standing flips to false once the bid is refunded.
type Bid struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	AuctionID uuid.UUID `gorm:"column:auction_id;type:uuid;not null;index:bids_auction_id_idx;uniqueIndex:bids_auction_bidder_key"`
	BidderID  uuid.UUID `gorm:"column:bidder_id;type:uuid;not null;uniqueIndex:bids_auction_bidder_key"`
	Amount    int64     `gorm:"column:amount;not null"`
	Standing  bool      `gorm:"column:standing;not null;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
