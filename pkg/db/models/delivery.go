package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/bidzone/bidzone-backend/pkg/enums"
)

// Delivery is created exactly once per completed auction for the winner.
type Delivery struct {
	ID             uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	AuctionID      uuid.UUID            `gorm:"column:auction_id;type:uuid;not null;uniqueIndex:deliveries_auction_id_key"`
	CustomerID     uuid.UUID            `gorm:"column:customer_id;type:uuid;not null;index:deliveries_customer_id_idx"`
	TrackingNumber string               `gorm:"column:tracking_number;not null"`
	Status         enums.DeliveryStatus `gorm:"column:status;type:delivery_status_enum;not null;default:'pending'"`
	CreatedAt      time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
