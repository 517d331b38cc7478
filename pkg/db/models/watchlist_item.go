package models

import (
	"time"

	"github.com/google/uuid"
)

// WatchlistItem links a customer to an auction they follow.
type WatchlistItem struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID uuid.UUID `gorm:"column:customer_id;type:uuid;not null;index:watchlist_items_customer_id_idx;uniqueIndex:watchlist_items_customer_auction_key"`
	AuctionID  uuid.UUID `gorm:"column:auction_id;type:uuid;not null;index:watchlist_items_auction_id_idx;uniqueIndex:watchlist_items_customer_auction_key"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}
