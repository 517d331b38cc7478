package watchlist

import (
	"time"

	"github.com/google/uuid"

	"github.com/bidzone/bidzone-backend/pkg/enums"
)

// WatchedAuction is the auction summary shown in a watchlist row.
type WatchedAuction struct {
	ID            uuid.UUID           `json:"id"`
	Status        enums.AuctionStatus `json:"status"`
	CurrentPrice  int64               `json:"current_price"`
	StartingPrice int64               `json:"starting_price"`
	StartingTime  time.Time           `json:"starting_time"`
	EndingTime    time.Time           `json:"ending_time"`
	ProductID     uuid.UUID           `json:"product_id"`
	ProductName   string              `json:"product_name"`
	ImageURL      *string             `json:"image_url,omitempty"`
}

// ItemDTO wraps the auction summary included in a watchlist row.
type ItemDTO struct {
	Auction   WatchedAuction `json:"auction"`
	CreatedAt time.Time      `json:"created_at"`
}

// PageMeta carries cursor pagination metadata for a watchlist page.
type PageMeta struct {
	Total   int    `json:"total"`
	Current string `json:"current,omitempty"`
	Next    string `json:"next,omitempty"`
}

// ItemsPageDTO returns a cursor-paginated watchlist view.
type ItemsPageDTO struct {
	Items      []ItemDTO `json:"items"`
	Pagination PageMeta  `json:"pagination"`
}
