package enums

import "fmt"

// OutboxAggregateType maps to the aggregate_type enum in Postgres.
type OutboxAggregateType string

const (
	AggregateAuction     OutboxAggregateType = "auction"
	AggregateBid         OutboxAggregateType = "bid"
	AggregateDelivery    OutboxAggregateType = "delivery"
	AggregateCustomer    OutboxAggregateType = "customer"
	AggregateTransaction OutboxAggregateType = "transaction"
)

var validAggregateTypes = []OutboxAggregateType{
	AggregateAuction,
	AggregateBid,
	AggregateDelivery,
	AggregateCustomer,
	AggregateTransaction,
}

// IsValid reports whether the value matches the canonical aggregate_type enum.
func (a OutboxAggregateType) IsValid() bool {
	for _, candidate := range validAggregateTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseOutboxAggregateType converts raw input into OutboxAggregateType.
func ParseOutboxAggregateType(value string) (OutboxAggregateType, error) {
	for _, candidate := range validAggregateTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid aggregate type %q", value)
}

// OutboxEventType maps to the event_type enum in Postgres.
type OutboxEventType string

const (
	EventAuctionCreated     OutboxEventType = "auction_created"
	EventAuctionActivated   OutboxEventType = "auction_activated"
	EventAuctionCompleted   OutboxEventType = "auction_completed"
	EventAuctionCancelled   OutboxEventType = "auction_cancelled"
	EventAuctionDeleted     OutboxEventType = "auction_deleted"
	EventBidPlaced          OutboxEventType = "bid_placed"
	EventBidRefunded        OutboxEventType = "bid_refunded"
	EventDeliveryCreated    OutboxEventType = "delivery_created"
	EventCustomerRegistered OutboxEventType = "customer_registered"
	EventCoinsDeposited     OutboxEventType = "coins_deposited"
)

var validOutboxEventTypes = []OutboxEventType{
	EventAuctionCreated,
	EventAuctionActivated,
	EventAuctionCompleted,
	EventAuctionCancelled,
	EventAuctionDeleted,
	EventBidPlaced,
	EventBidRefunded,
	EventDeliveryCreated,
	EventCustomerRegistered,
	EventCoinsDeposited,
}

// IsValid reports whether the value matches the canonical event_type enum.
func (e OutboxEventType) IsValid() bool {
	for _, candidate := range validOutboxEventTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseOutboxEventType converts raw input into OutboxEventType.
func ParseOutboxEventType(value string) (OutboxEventType, error) {
	for _, candidate := range validOutboxEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid event type %q", value)
}
