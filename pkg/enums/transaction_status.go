package enums

import "fmt"

// TransactionStatus maps to the transaction_status_enum enum in Postgres.
type TransactionStatus string

const (
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCancelled TransactionStatus = "cancelled"
)

var validTransactionStatuses = []TransactionStatus{
	TransactionStatusCompleted,
	TransactionStatusPending,
	TransactionStatusCancelled,
}

// IsValid reports whether the value matches the canonical transaction status enum.
func (s TransactionStatus) IsValid() bool {
	for _, candidate := range validTransactionStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseTransactionStatus converts raw input into TransactionStatus.
func ParseTransactionStatus(value string) (TransactionStatus, error) {
	for _, candidate := range validTransactionStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid transaction status %q", value)
}
