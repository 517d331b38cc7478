package watchlist

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bidzone/bidzone-backend/pkg/db/models"
	"github.com/bidzone/bidzone-backend/pkg/enums"
	"github.com/bidzone/bidzone-backend/pkg/pagination"
)

// Repository encapsulates watchlist persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a watchlist repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// AddItem inserts a watchlist entry and ignores duplicates.
func (r *Repository) AddItem(ctx context.Context, customerID, auctionID uuid.UUID) error {
	if customerID == uuid.Nil || auctionID == uuid.Nil {
		return gorm.ErrInvalidValue
	}

	return r.db.WithContext(ctx).
		Exec(`INSERT INTO watchlist_items (customer_id, auction_id) VALUES (?, ?) ON CONFLICT (customer_id, auction_id) DO NOTHING`, customerID, auctionID).
		Error
}

// RemoveItem deletes the customer-auction entry if it exists.
func (r *Repository) RemoveItem(ctx context.Context, customerID, auctionID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("customer_id = ? AND auction_id = ?", customerID, auctionID).
		Delete(&models.WatchlistItem{}).
		Error
}

// ListItems returns a cursor-paginated view of the auctions a customer watches.
func (r *Repository) ListItems(ctx context.Context, customerID uuid.UUID, cursor string, limit int) (ItemsPageDTO, error) {
	normalizedLimit := pagination.NormalizeLimit(limit)
	limitWithBuffer := pagination.LimitWithBuffer(limit)
	cursorValue := strings.TrimSpace(cursor)
	decodedCursor, err := pagination.ParseCursor(cursorValue)
	if err != nil {
		return ItemsPageDTO{}, err
	}

	selectColumns := []string{
		"wi.id AS watchlist_id",
		"wi.created_at AS watchlist_created_at",
		"a.id AS auction_id",
		"a.status",
		"a.current_price",
		"a.starting_price",
		"a.starting_time",
		"a.ending_time",
		"p.id AS product_id",
		"p.name AS product_name",
		"p.image_url",
	}

	dataQuery := r.db.WithContext(ctx).
		Table("watchlist_items wi").
		Select(strings.Join(selectColumns, ", ")).
		Joins("JOIN auctions a ON a.id = wi.auction_id").
		Joins("JOIN products p ON p.id = a.product_id").
		Where("wi.customer_id = ?", customerID).
		Where("a.status <> ?", enums.AuctionStatusDeleted)

	if decodedCursor != nil {
		dataQuery = dataQuery.Where("(wi.created_at < ?) OR (wi.created_at = ? AND wi.id < ?)", decodedCursor.CreatedAt, decodedCursor.CreatedAt, decodedCursor.ID)
	}

	dataQuery = dataQuery.Order("wi.created_at DESC").Order("wi.id DESC").Limit(limitWithBuffer)

	var records []watchedAuctionRecord
	if err := dataQuery.Scan(&records).Error; err != nil {
		return ItemsPageDTO{}, err
	}

	resultRows := records
	nextCursor := ""
	if len(records) > normalizedLimit {
		resultRows = records[:normalizedLimit]
		last := resultRows[len(resultRows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.WatchlistCreatedAt,
			ID:        last.WatchlistID,
		})
	}

	items := make([]ItemDTO, 0, len(resultRows))
	for _, record := range resultRows {
		items = append(items, record.toDTO())
	}

	totalCount, err := r.countItems(ctx, customerID)
	if err != nil {
		return ItemsPageDTO{}, err
	}

	return ItemsPageDTO{
		Items: items,
		Pagination: PageMeta{
			Total:   int(totalCount),
			Current: cursorValue,
			Next:    nextCursor,
		},
	}, nil
}

func (r *Repository) countItems(ctx context.Context, customerID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.WatchlistItem{}).
		Where("customer_id = ?", customerID).
		Count(&count).
		Error; err != nil {
		return 0, err
	}
	return count, nil
}

type watchedAuctionRecord struct {
	WatchlistID        uuid.UUID           `gorm:"column:watchlist_id"`
	WatchlistCreatedAt time.Time           `gorm:"column:watchlist_created_at"`
	AuctionID          uuid.UUID           `gorm:"column:auction_id"`
	Status             enums.AuctionStatus `gorm:"column:status"`
	CurrentPrice       int64               `gorm:"column:current_price"`
	StartingPrice      int64               `gorm:"column:starting_price"`
	StartingTime       time.Time           `gorm:"column:starting_time"`
	EndingTime         time.Time           `gorm:"column:ending_time"`
	ProductID          uuid.UUID           `gorm:"column:product_id"`
	ProductName        string              `gorm:"column:product_name"`
	ImageURL           *string             `gorm:"column:image_url"`
}

func (r watchedAuctionRecord) toDTO() ItemDTO {
	return ItemDTO{
		Auction: WatchedAuction{
			ID:            r.AuctionID,
			Status:        r.Status,
			CurrentPrice:  r.CurrentPrice,
			StartingPrice: r.StartingPrice,
			StartingTime:  r.StartingTime,
			EndingTime:    r.EndingTime,
			ProductID:     r.ProductID,
			ProductName:   r.ProductName,
			ImageURL:      r.ImageURL,
		},
		CreatedAt: r.WatchlistCreatedAt,
	}
}
