/**
 * @description
 * This file defines the ledger domain models and the request DTOs for money
 * movement operations. The `Transaction` struct is the central append-only
 * ledger record for every movement in the system.
 *
 * @notes
 * - Amounts are stored as `int64` in the smallest currency unit (cents).
 * - The ledger is append-only: rows are written exactly once as `completed`
 *   and are never updated or reversed by this service.
 * - `ToAccountID` is nil for unresolved external payments, where the sender is
 *   debited and no internal account is credited.
 */

package domain

import (
	"time"

	"github.com/google/uuid"
)

// Transaction types recorded in the ledger.
const (
	TransactionTypeTransfer   = "transfer"
	TransactionTypeDeposit    = "deposit"
	TransactionTypeWithdrawal = "withdrawal"
	TransactionTypePayment    = "payment"
)

// Transaction statuses. This service only ever writes `completed`; the other
// values exist for schema parity with systems that settle asynchronously.
const (
	TransactionStatusPending   = "pending"
	TransactionStatusCompleted = "completed"
	TransactionStatusFailed    = "failed"
	TransactionStatusCancelled = "cancelled"
)

// Transaction represents one ledger row.
// This struct maps directly to the `transactions` table.
type Transaction struct {
	ID              uuid.UUID  `json:"id"`
	FromAccountID   uuid.UUID  `json:"from_account_id"`
	ToAccountID     *uuid.UUID `json:"to_account_id,omitempty"`
	TransactionType string     `json:"transaction_type"` // 'transfer', 'deposit', 'withdrawal', 'payment'
	Status          string     `json:"status"`
	Amount          int64      `json:"amount"` // in cents
	ReferenceNumber string     `json:"reference_number"`
	RecipientName   *string    `json:"recipient_name,omitempty"`
	Description     string     `json:"description"`
	CreatedAt       time.Time  `json:"created_at"`
}

// TransferRequest is the DTO for incoming transfer API requests. Exactly the
// requested amount is moved; any fee is the caller's concern and must already
// be folded into `Amount`.
type TransferRequest struct {
	FromAccountID          uuid.UUID  `json:"from_account_id"`
	ToAccountID            *uuid.UUID `json:"to_account_id,omitempty"`
	Amount                 int64      `json:"amount"` // in cents
	Description            string     `json:"description"`
	RecipientName          string     `json:"recipient_name,omitempty"`
	RecipientAccountNumber string     `json:"recipient_account_number,omitempty"`
	SaveBeneficiary        bool       `json:"save_beneficiary,omitempty"`
}

// DepositRequest is the DTO for incoming deposit API requests.
type DepositRequest struct {
	AccountID   uuid.UUID `json:"account_id"`
	Amount      int64     `json:"amount"` // in cents
	Description string    `json:"description"`
}

// WithdrawRequest is the DTO for incoming withdrawal API requests.
type WithdrawRequest struct {
	AccountID   uuid.UUID `json:"account_id"`
	Amount      int64     `json:"amount"` // in cents
	Description string    `json:"description"`
}

// TransactionFilter controls the ledger search read path. String matching is a
// case-insensitive substring over description, recipient name, and reference
// number; date and amount bounds are inclusive.
type TransactionFilter struct {
	Query     string
	From      *time.Time
	To        *time.Time
	MinAmount *int64
	MaxAmount *int64
	Limit     int
	Offset    int
}

// TransactionSettledEvent is the message payload published after a ledger row
// is appended. Consumers (e.g., the notification dispatcher) receive it
// fire-and-forget; publish failures never affect the settled transaction.
type TransactionSettledEvent struct {
	TransactionID   uuid.UUID  `json:"transaction_id"`
	ReferenceNumber string     `json:"reference_number"`
	TransactionType string     `json:"transaction_type"`
	FromAccountID   uuid.UUID  `json:"from_account_id"`
	ToAccountID     *uuid.UUID `json:"to_account_id,omitempty"`
	Amount          int64      `json:"amount"`
	Timestamp       time.Time  `json:"timestamp"`
}

// AccountBlockedEvent is published when the fraud throttle freezes a user's
// accounts.
type AccountBlockedEvent struct {
	UserID    uuid.UUID `json:"user_id"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}
