package models

import (
	"time"

	"github.com/google/uuid"
)

// Account holds a customer's coin balance. Balances are mutated only inside
// a transaction that also appends the matching Transaction row.
type Account struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID uuid.UUID `gorm:"column:customer_id;type:uuid;not null;uniqueIndex:accounts_customer_id_key"`
	Balance    int64     `gorm:"column:balance;not null;default:0"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
