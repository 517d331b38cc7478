package models

import (
	"time"

	"github.com/google/uuid"
)

// Product represents a seller-owned listing that can be put up for auction.
type Product struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SellerID    uuid.UUID `gorm:"column:seller_id;type:uuid;not null;index:products_seller_id_idx"`
	Name        string    `gorm:"column:name;not null"`
	Description *string   `gorm:"column:description"`
	ImageURL    *string   `gorm:"column:image_url"`
	InAuction   bool      `gorm:"column:in_auction;not null;default:false"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
