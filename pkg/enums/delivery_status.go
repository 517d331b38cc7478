package enums

import "fmt"

// DeliveryStatus maps to the delivery_status_enum enum in Postgres.
type DeliveryStatus string

const (
	DeliveryStatusPending   DeliveryStatus = "pending"
	DeliveryStatusShipped   DeliveryStatus = "shipped"
	DeliveryStatusDelivered DeliveryStatus = "delivered"
)

var validDeliveryStatuses = []DeliveryStatus{
	DeliveryStatusPending,
	DeliveryStatusShipped,
	DeliveryStatusDelivered,
}

// IsValid reports whether the value matches the canonical delivery status enum.
func (s DeliveryStatus) IsValid() bool {
	for _, candidate := range validDeliveryStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseDeliveryStatus converts raw input into DeliveryStatus.
func ParseDeliveryStatus(value string) (DeliveryStatus, error) {
	for _, candidate := range validDeliveryStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid delivery status %q", value)
}
