/**
 * @description
 * This file defines the `Repository` interface, which specifies the contract for
 * all data access operations required by the transfer service. The interface
 * decouples the business logic from the PostgreSQL implementation and lets tests
 * substitute stubs or in-memory fakes.
 *
 * @notes
 * - The Execute* methods are the only ledger mutators. Each one runs its debit,
 *   credit, and ledger append inside a single database transaction so a failed
 *   leg can never leave balances and the ledger out of step.
 *
 * @dependencies
 * - github.com/google/uuid: For UUID handling.
 * - internal/domain: For the service's domain models.
 */

package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/corebank/transfer-service/internal/domain"
)

var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrAccountFrozen       = errors.New("account is frozen; contact support")
	ErrAccountClosed       = errors.New("account is closed")
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrProfileNotFound     = errors.New("profile not found")
	ErrAccountTypeNotFound = errors.New("account type not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrLoanNotFound        = errors.New("loan not found")
	ErrLoanStateChanged    = errors.New("loan balance changed concurrently")
)

// TransferParams describes one atomic ledger mutation: a debit of
// FromAccountID, an optional credit of ToAccountID, and the append of exactly
// one transaction row. The debit is conditional on the account being active
// with sufficient balance.
type TransferParams struct {
	FromAccountID uuid.UUID
	ToAccountID   *uuid.UUID
	Type          string // 'transfer' or 'payment'
	Amount        int64  // in cents, > 0
	RecipientName *string
	Description   string
}

// LoanPaymentParams applies one loan payment: the funding account is debited,
// a `payment` ledger row is appended, a loan_payments row is inserted, and the
// loan's outstanding balance and status are updated. The loan update is
// conditional on ExpectedOutstanding so concurrent payments cannot both apply
// against the same balance.
type LoanPaymentParams struct {
	LoanID              uuid.UUID
	AccountID           uuid.UUID
	Amount              int64
	InterestAmount      int64
	PrincipalAmount     int64
	ExpectedOutstanding int64
	NewOutstanding      int64
	NewStatus           string
	Description         string
}

// Repository defines the set of methods for interacting with the database.
type Repository interface {
	// Accounts
	CreateAccount(ctx context.Context, account *domain.Account) (*domain.Account, error)
	FindAccountByID(ctx context.Context, accountID uuid.UUID) (*domain.Account, error)
	FindAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error)
	FindAccountsByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Account, error)
	FindAccountTypeByName(ctx context.Context, name string) (*domain.AccountType, error)
	FreezeAccountsByUserID(ctx context.Context, userID uuid.UUID) error

	// Profiles
	FindProfileByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)
	FindProfileByEmail(ctx context.Context, email string) (*domain.Profile, error)
	SearchProfilesByName(ctx context.Context, fragment string, limit int) ([]domain.Profile, error)

	// Ledger mutations (each executes as a single database transaction)
	ExecuteTransfer(ctx context.Context, params TransferParams) (*domain.Transaction, error)
	ExecuteDeposit(ctx context.Context, accountID uuid.UUID, amount int64, description string) (*domain.Transaction, error)
	ExecuteWithdrawal(ctx context.Context, accountID uuid.UUID, amount int64, description string) (*domain.Transaction, error)

	// Ledger reads
	CountDebitTransactions(ctx context.Context, accountID uuid.UUID) (int64, error)
	FindTransactionsByAccountID(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]domain.Transaction, error)
	SearchTransactions(ctx context.Context, userID uuid.UUID, filter domain.TransactionFilter) ([]domain.Transaction, error)

	// Beneficiaries
	CreateBeneficiary(ctx context.Context, beneficiary *domain.Beneficiary) error
	FindBeneficiariesByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Beneficiary, error)

	// Loans
	CreateLoan(ctx context.Context, loan *domain.Loan) error
	FindLoanByID(ctx context.Context, loanID uuid.UUID) (*domain.Loan, error)
	FindLoansByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Loan, error)
	ApplyLoanPayment(ctx context.Context, params LoanPaymentParams) (*domain.LoanPayment, *domain.Transaction, error)
}
