package enums

import "fmt"

// AuctionStatus maps to the auction_status_enum enum in Postgres.
type AuctionStatus string

const (
	AuctionStatusScheduled AuctionStatus = "scheduled"
	AuctionStatusActive    AuctionStatus = "active"
	AuctionStatusCompleted AuctionStatus = "completed"
	AuctionStatusCancelled AuctionStatus = "cancelled"
	AuctionStatusDeleted   AuctionStatus = "deleted"
)

var validAuctionStatuses = []AuctionStatus{
	AuctionStatusScheduled,
	AuctionStatusActive,
	AuctionStatusCompleted,
	AuctionStatusCancelled,
	AuctionStatusDeleted,
}

// IsValid reports whether the value matches the canonical auction status enum.
func (s AuctionStatus) IsValid() bool {
	for _, candidate := range validAuctionStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are allowed from the status.
func (s AuctionStatus) IsTerminal() bool {
	switch s {
	case AuctionStatusCompleted, AuctionStatusCancelled, AuctionStatusDeleted:
		return true
	}
	return false
}

// ParseAuctionStatus converts raw input into AuctionStatus.
func ParseAuctionStatus(value string) (AuctionStatus, error) {
	for _, candidate := range validAuctionStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid auction status %q", value)
}
