package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/bidzone/bidzone-backend/pkg/enums"
)

// Customer represents the canonical identity entity.
type Customer struct {
	ID        uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email     string               `gorm:"column:email;type:text;not null;uniqueIndex:customers_email_key"`
	FirstName string               `gorm:"column:first_name;not null"`
	LastName  string               `gorm:"column:last_name;not null"`
	Tier      enums.MembershipTier `gorm:"column:tier;type:membership_tier_enum;not null;default:'bronze'"`
	IsActive  bool                 `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
