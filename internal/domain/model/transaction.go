package model

import "time"

// TransactionType distinguishes ledger entry kinds.
type TransactionType string

const (
	TransactionTypeDeposit  TransactionType = "deposit"
	TransactionTypeCheckout TransactionType = "checkout"
)

// TransactionStatus describes ledger entry lifecycle. Entries are created
// pending and transition exactly once to a terminal status.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
)

// Transaction is a payment ledger entry recording one payment attempt. It is
// correlated to its order only through gateway session metadata, never by a
// foreign key.
type Transaction struct {
	ID         string
	UserID     string
	Type       TransactionType
	Amount     int64
	Status     TransactionStatus
	GatewayRef *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
