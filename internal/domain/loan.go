/**
 * @description
 * This file defines the loan domain models: the loan record, the immutable
 * per-payment record, and the DTOs for loan application and payment requests.
 *
 * @notes
 * - Principal and payment amounts are `int64` cents; annual interest rates are
 *   percentages held as float64 (8.5 means 8.5% per year).
 * - Interest for a payment is accrued on the loan's current outstanding
 *   balance, not on a schedule fixed at origination, so the split between
 *   principal and interest drifts from the original quote when payment
 *   amounts vary.
 */

package domain

import (
	"time"

	"github.com/google/uuid"
)

// Loan statuses.
const (
	LoanStatusPending   = "pending"
	LoanStatusApproved  = "approved"
	LoanStatusActive    = "active"
	LoanStatusPaidOff   = "paid_off"
	LoanStatusRejected  = "rejected"
	LoanStatusDefaulted = "defaulted"
)

// Loan represents a loan record.
// This struct maps directly to the `loans` table.
type Loan struct {
	ID                 uuid.UUID `json:"id"`
	UserID             uuid.UUID `json:"user_id"`
	LoanType           string    `json:"loan_type"`
	Amount             int64     `json:"amount"`        // principal at origination, in cents
	InterestRate       float64   `json:"interest_rate"` // annual, percent
	TermMonths         int       `json:"term_months"`
	MonthlyPayment     int64     `json:"monthly_payment"`     // in cents, computed once at application
	OutstandingBalance int64     `json:"outstanding_balance"` // in cents
	Status             string    `json:"status"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// LoanPayment is the immutable record of a single payment event and its
// interest/principal split at payment time.
// This struct maps directly to the `loan_payments` table.
type LoanPayment struct {
	ID              uuid.UUID `json:"id"`
	LoanID          uuid.UUID `json:"loan_id"`
	Amount          int64     `json:"amount"`           // in cents
	PrincipalAmount int64     `json:"principal_amount"` // in cents
	InterestAmount  int64     `json:"interest_amount"`  // in cents
	CreatedAt       time.Time `json:"created_at"`
}

// LoanQuote is the deterministic result of pricing a loan application.
type LoanQuote struct {
	LoanType       string  `json:"loan_type"`
	InterestRate   float64 `json:"interest_rate"`   // annual, percent
	MonthlyPayment int64   `json:"monthly_payment"` // in cents
}

// ApplyLoanRequest is the DTO for loan application API requests.
type ApplyLoanRequest struct {
	LoanType   string `json:"loan_type"`
	Amount     int64  `json:"amount"` // in cents
	TermMonths int    `json:"term_months"`
}

// LoanPaymentRequest is the DTO for loan payment API requests. The payment is
// funded by debiting `AccountID` and appears in the ledger as a `payment` row.
type LoanPaymentRequest struct {
	AccountID uuid.UUID `json:"account_id"`
	Amount    int64     `json:"amount"` // in cents
}
