/**
 * @description
 * This file defines the account-side domain models for the transfer service:
 * accounts, account types, user profiles, and saved beneficiaries. These structs
 * map directly to their corresponding database tables.
 *
 * @notes
 * - Balances are stored as `int64` in the smallest currency unit (cents), which
 *   avoids floating-point inaccuracies with financial data.
 * - Account status transitions are one-way in this service: an account becomes
 *   `frozen` through the fraud throttle and there is no unfreeze operation.
 */

package domain

import (
	"time"

	"github.com/google/uuid"
)

// Account statuses. A frozen account rejects debits but still accepts credits;
// a closed account rejects both.
const (
	AccountStatusActive = "active"
	AccountStatusFrozen = "frozen"
	AccountStatusClosed = "closed"
)

// Account represents a customer account holding a balance.
// This struct maps directly to the `accounts` table.
type Account struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"user_id"`
	AccountNumber string    `json:"account_number"`
	RoutingNumber string    `json:"routing_number"`
	SwiftCode     string    `json:"swift_code"`
	AccountTypeID uuid.UUID `json:"account_type_id"`
	Balance       int64     `json:"balance"` // in cents
	Status        string    `json:"status"`  // 'active', 'frozen', 'closed'
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// AccountType carries the product parameters attached to an account.
type AccountType struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"` // e.g., 'checking', 'savings'
	InterestRate float64   `json:"interest_rate"`
	MinBalance   int64     `json:"min_balance"` // in cents
	MaxBalance   int64     `json:"max_balance"` // in cents, 0 = no cap
	RequiresKYC  bool      `json:"requires_kyc"`
}

// Profile is the identity-provider-backed view of a user that the recipient
// resolver needs: the user id, display name, and email.
type Profile struct {
	UserID   uuid.UUID `json:"user_id"`
	FullName string    `json:"full_name"`
	Email    string    `json:"email"`
}

// Beneficiary represents a recipient a user chose to save during an external
// transfer. Pure reference data; it has no effect on transfer correctness.
type Beneficiary struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"user_id"`
	Name          string    `json:"name"`
	AccountNumber string    `json:"account_number"`
	Nickname      *string   `json:"nickname,omitempty"`
	BankName      *string   `json:"bank_name,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// CreateAccountRequest is the DTO for the account creation endpoint.
type CreateAccountRequest struct {
	AccountType string `json:"account_type"` // defaults to 'checking'
}
