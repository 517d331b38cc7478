package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/bidzone/bidzone-backend/pkg/enums"
)

// Transaction records an immutable coin movement on an account. Rows are
// append-only; corrections are expressed as new refund entries.
type Transaction struct {
	ID          uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	AccountID   uuid.UUID               `gorm:"column:account_id;type:uuid;not null;index:transactions_account_id_idx"`
	CustomerID  uuid.UUID               `gorm:"column:customer_id;type:uuid;not null;index:transactions_customer_id_idx"`
	Type        enums.TransactionType   `gorm:"column:type;type:transaction_type_enum;not null"`
	Status      enums.TransactionStatus `gorm:"column:status;type:transaction_status_enum;not null"`
	Amount      int64                   `gorm:"column:amount;not null"`
	Invoice     string                  `gorm:"column:invoice;size:255;not null"`
	ReferenceID uuid.UUID               `gorm:"column:reference_id;type:uuid;not null;uniqueIndex:transactions_reference_id_key"`
	AuctionID   *uuid.UUID              `gorm:"column:auction_id;type:uuid"`
	CreatedAt   time.Time               `gorm:"column:created_at;autoCreateTime"`
}
