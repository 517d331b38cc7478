package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/bidzone/bidzone-backend/pkg/enums"
)

// Auction is the listing a product is sold through. CurrentPrice only ever
// moves upward while the auction is active.
type Auction struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID     uuid.UUID           `gorm:"column:product_id;type:uuid;not null;uniqueIndex:auctions_product_id_key"`
	SellerID      uuid.UUID           `gorm:"column:seller_id;type:uuid;not null;index:auctions_seller_id_idx"`
	Status        enums.AuctionStatus `gorm:"column:status;type:auction_status_enum;not null;index:auctions_status_ending_idx,priority:1"`
	StartingPrice int64               `gorm:"column:starting_price;not null"`
	CurrentPrice  int64               `gorm:"column:current_price;not null"`
	StartingTime  time.Time           `gorm:"column:starting_time;not null"`
	EndingTime    time.Time           `gorm:"column:ending_time;not null;index:auctions_status_ending_idx,priority:2"`
	WinnerID      *uuid.UUID          `gorm:"column:winner_id;type:uuid"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
