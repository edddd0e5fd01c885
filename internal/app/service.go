/**
 * @description
 * This file contains the core business logic for the transfer service. The
 * `Service` struct orchestrates all money movement operations, coordinating
 * between the database repository, the recipient resolver, the fraud
 * throttle, the rate limiter, and the event producer.
 *
 * Key features:
 * - Implements the main use cases: transfers, deposits, and withdrawals.
 * - Classifies each transfer as internal, resolved-external, or an unresolved
 *   external payment, and moves exactly the requested amount (fees are a
 *   caller-side concern, folded into the amount before it reaches here).
 * - Delegates the debit/credit/ledger-append to one atomic repository call so
 *   a failed leg can never leave balances and the ledger out of step.
 * - Publishes settlement events to RabbitMQ fire-and-forget.
 *
 * @dependencies
 * - github.com/google/uuid: For UUID generation.
 * - internal/domain, internal/store: For domain models and data access.
 * - pkg/rabbitmq: For event publishing.
 */

package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/corebank/transfer-service/internal/domain"
	"github.com/corebank/transfer-service/internal/store"
	"github.com/corebank/transfer-service/pkg/rabbitmq"
)

var (
	ErrInvalidAmount        = errors.New("amount must be a positive number")
	ErrInvalidTerm          = errors.New("term must be between 1 and 480 months")
	ErrMissingAccount       = errors.New("account id is required")
	ErrAmbiguousRecipient   = errors.New("recipient matches more than one profile; use an account number or email")
	ErrLoanPaidOff          = errors.New("loan is already paid off")
	ErrLoanNotPayable       = errors.New("loan is not in a payable state")
	ErrPaymentBelowInterest = errors.New("payment does not cover accrued interest")
)

// RateLimitError reports a rejected transfer attempt and when to retry.
type RateLimitError struct {
	RetryAfterSeconds int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("transfer rate limit exceeded; retry in %ds", e.RetryAfterSeconds)
}

// Defaults for new accounts. Routing and SWIFT identify this institution and
// are shared by every account it issues.
const (
	defaultAccountType = "checking"
	routingNumber      = "021000089"
	swiftCode          = "COREUS33"
)

// Service provides the core business logic for accounts, transfers, and loans.
type Service struct {
	repo     store.Repository
	resolver *Resolver
	events   rabbitmq.Publisher
	fraud    FraudPolicy
	limiter  RateLimiter

	eventExchange      string
	transferRatePerMin int
	clearingAccountID  *uuid.UUID
}

// NewService creates a new service instance. The fraud policy is required;
// events, limiter, and the clearing account are optional collaborators.
func NewService(repo store.Repository, events rabbitmq.Publisher, fraud FraudPolicy, eventExchange string) *Service {
	return &Service{
		repo:          repo,
		resolver:      NewResolver(repo),
		events:        events,
		fraud:         fraud,
		eventExchange: eventExchange,
	}
}

// SetTransferRateLimiter enables per-user transfer rate limiting.
func (s *Service) SetTransferRateLimiter(limiter RateLimiter, perMinute int) {
	s.limiter = limiter
	s.transferRatePerMin = perMinute
}

// SetClearingAccount routes unresolved external payments into an explicit
// clearing account instead of letting the debited amount leave every ledger.
func (s *Service) SetClearingAccount(accountID uuid.UUID) {
	s.clearingAccountID = &accountID
}

// CreateAccount opens a new account for the user with a zero balance.
func (s *Service) CreateAccount(ctx context.Context, userID uuid.UUID, req domain.CreateAccountRequest) (*domain.Account, error) {
	typeName := strings.TrimSpace(req.AccountType)
	if typeName == "" {
		typeName = defaultAccountType
	}
	accountType, err := s.repo.FindAccountTypeByName(ctx, typeName)
	if err != nil {
		return nil, err
	}

	account := &domain.Account{
		ID:            uuid.New(),
		UserID:        userID,
		AccountNumber: store.GenerateAccountNumber(),
		RoutingNumber: routingNumber,
		SwiftCode:     swiftCode,
		AccountTypeID: accountType.ID,
		Balance:       0,
		Status:        domain.AccountStatusActive,
	}
	created, err := s.repo.CreateAccount(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	log.Printf("level=info component=accounts msg=\"account created\" account_id=%s user_id=%s type=%s", created.ID, userID, typeName)
	return created, nil
}

// ListAccounts retrieves every account owned by the user.
func (s *Service) ListAccounts(ctx context.Context, userID uuid.UUID) ([]domain.Account, error) {
	return s.repo.FindAccountsByUserID(ctx, userID)
}

// GetAccount retrieves one of the user's accounts.
func (s *Service) GetAccount(ctx context.Context, userID, accountID uuid.UUID) (*domain.Account, error) {
	return s.ownedAccount(ctx, userID, accountID)
}

// Transfer moves money out of one of the user's accounts. The destination is
// classified as internal (destination account id given), resolved-external
// (recipient resolves to an internal account by number or name), or an
// unresolved external payment (sender debited, nothing credited unless a
// clearing account is configured).
func (s *Service) Transfer(ctx context.Context, userID uuid.UUID, req domain.TransferRequest) (*domain.Transaction, error) {
	if req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if req.FromAccountID == uuid.Nil {
		return nil, ErrMissingAccount
	}

	if err := s.consumeTransferBudget(ctx, userID); err != nil {
		return nil, err
	}

	sender, err := s.ownedAccount(ctx, userID, req.FromAccountID)
	if err != nil {
		return nil, err
	}
	// Fail fast on status; the store re-checks atomically at debit time.
	switch sender.Status {
	case domain.AccountStatusFrozen:
		return nil, store.ErrAccountFrozen
	case domain.AccountStatusClosed:
		return nil, store.ErrAccountClosed
	}

	params := store.TransferParams{
		FromAccountID: sender.ID,
		Amount:        req.Amount,
		Description:   req.Description,
	}

	external := false
	switch {
	case req.ToAccountID != nil:
		destination, err := s.repo.FindAccountByID(ctx, *req.ToAccountID)
		if err != nil {
			return nil, err
		}
		params.ToAccountID = &destination.ID
		params.Type = domain.TransactionTypeTransfer
		if name := strings.TrimSpace(req.RecipientName); name != "" {
			params.RecipientName = &name
		}

	default:
		external = true
		resolution, err := s.resolveRecipient(ctx, req)
		if err != nil {
			return nil, err
		}
		switch resolution.Status {
		case ResolutionExact:
			params.ToAccountID = &resolution.Account.ID
			params.Type = domain.TransactionTypeTransfer
			if resolution.DisplayName != "" {
				name := resolution.DisplayName
				params.RecipientName = &name
			}
		case ResolutionAmbiguous:
			return nil, ErrAmbiguousRecipient
		case ResolutionNotFound:
			// Unresolved external payment: the sender is debited and no
			// internal account is credited, unless a clearing account is
			// configured to absorb the outflow.
			params.Type = domain.TransactionTypePayment
			params.ToAccountID = s.clearingAccountID
			if name := strings.TrimSpace(req.RecipientName); name != "" {
				params.RecipientName = &name
			}
		}
	}

	record, err := s.repo.ExecuteTransfer(ctx, params)
	if err != nil {
		return nil, err
	}
	log.Printf("level=info component=transfer_engine msg=\"transfer settled\" reference=%s type=%s from_account=%s amount=%d",
		record.ReferenceNumber, record.TransactionType, record.FromAccountID, record.Amount)

	s.applyFraudThrottle(ctx, sender)
	s.publishSettled(ctx, record)

	if external && req.SaveBeneficiary {
		s.saveBeneficiary(ctx, userID, req, record)
	}
	return record, nil
}

// Deposit credits one of the user's accounts and appends a `deposit` ledger
// row. Frozen accounts still accept credits; only closed accounts reject.
func (s *Service) Deposit(ctx context.Context, userID uuid.UUID, req domain.DepositRequest) (*domain.Transaction, error) {
	if req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	account, err := s.ownedAccount(ctx, userID, req.AccountID)
	if err != nil {
		return nil, err
	}

	record, err := s.repo.ExecuteDeposit(ctx, account.ID, req.Amount, req.Description)
	if err != nil {
		return nil, err
	}
	log.Printf("level=info component=transfer_engine msg=\"deposit settled\" reference=%s account_id=%s amount=%d",
		record.ReferenceNumber, account.ID, req.Amount)

	s.publishSettled(ctx, record)
	return record, nil
}

// Withdraw debits one of the user's accounts and appends a `withdrawal`
// ledger row. Withdrawals do not feed the fraud throttle; only transfer and
// payment debits count toward it.
func (s *Service) Withdraw(ctx context.Context, userID uuid.UUID, req domain.WithdrawRequest) (*domain.Transaction, error) {
	if req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	account, err := s.ownedAccount(ctx, userID, req.AccountID)
	if err != nil {
		return nil, err
	}

	record, err := s.repo.ExecuteWithdrawal(ctx, account.ID, req.Amount, req.Description)
	if err != nil {
		return nil, err
	}
	log.Printf("level=info component=transfer_engine msg=\"withdrawal settled\" reference=%s account_id=%s amount=%d",
		record.ReferenceNumber, account.ID, req.Amount)

	s.publishSettled(ctx, record)
	return record, nil
}

// SearchTransactions runs the filtered ledger read path over the user's
// accounts.
func (s *Service) SearchTransactions(ctx context.Context, userID uuid.UUID, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	return s.repo.SearchTransactions(ctx, userID, filter)
}

// ListAccountTransactions retrieves the ledger rows touching one of the
// user's accounts.
func (s *Service) ListAccountTransactions(ctx context.Context, userID, accountID uuid.UUID, limit, offset int) ([]domain.Transaction, error) {
	if _, err := s.ownedAccount(ctx, userID, accountID); err != nil {
		return nil, err
	}
	return s.repo.FindTransactionsByAccountID(ctx, accountID, limit, offset)
}

// ListBeneficiaries retrieves the user's saved recipients.
func (s *Service) ListBeneficiaries(ctx context.Context, userID uuid.UUID) ([]domain.Beneficiary, error) {
	return s.repo.FindBeneficiariesByUserID(ctx, userID)
}

// resolveRecipient tries the caller-supplied account number first, then the
// free-text recipient name.
func (s *Service) resolveRecipient(ctx context.Context, req domain.TransferRequest) (Resolution, error) {
	if number := strings.TrimSpace(req.RecipientAccountNumber); number != "" {
		resolution, err := s.resolver.Resolve(ctx, number)
		if err != nil {
			return Resolution{}, err
		}
		if resolution.Status != ResolutionNotFound {
			return resolution, nil
		}
	}
	if name := strings.TrimSpace(req.RecipientName); name != "" {
		return s.resolver.Resolve(ctx, name)
	}
	return Resolution{Status: ResolutionNotFound}, nil
}

// consumeTransferBudget enforces the per-user transfer rate limit when one is
// configured. Limiter failures are logged and the transfer is allowed; the
// limiter protects throughput, it is not a correctness control.
func (s *Service) consumeTransferBudget(ctx context.Context, userID uuid.UUID) error {
	if s.limiter == nil || s.transferRatePerMin <= 0 {
		return nil
	}
	count, retryAfter, err := s.limiter.ConsumeRateLimit(ctx, "transfers", userID.String(), s.transferRatePerMin, time.Minute)
	if err != nil {
		log.Printf("level=warn component=transfer_engine msg=\"rate limiter unavailable; allowing transfer\" user_id=%s err=%v", userID, err)
		return nil
	}
	if count > s.transferRatePerMin {
		return &RateLimitError{RetryAfterSeconds: retryAfter}
	}
	return nil
}

// ownedAccount loads an account and verifies the caller owns it. A foreign
// account is reported as not found so the API does not leak its existence.
func (s *Service) ownedAccount(ctx context.Context, userID, accountID uuid.UUID) (*domain.Account, error) {
	if accountID == uuid.Nil {
		return nil, ErrMissingAccount
	}
	account, err := s.repo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.UserID != userID {
		return nil, store.ErrAccountNotFound
	}
	return account, nil
}

// publishSettled emits the transaction.settled event fire-and-forget. Publish
// failure is logged and swallowed; it never affects the settled transaction.
func (s *Service) publishSettled(ctx context.Context, record *domain.Transaction) {
	if s.events == nil || record == nil {
		return
	}
	event := domain.TransactionSettledEvent{
		TransactionID:   record.ID,
		ReferenceNumber: record.ReferenceNumber,
		TransactionType: record.TransactionType,
		FromAccountID:   record.FromAccountID,
		ToAccountID:     record.ToAccountID,
		Amount:          record.Amount,
		Timestamp:       time.Now().UTC(),
	}
	if err := s.events.Publish(ctx, s.eventExchange, "transaction.settled", event); err != nil {
		log.Printf("level=warn component=transfer_engine msg=\"settled event publish failed\" transaction_id=%s err=%v", record.ID, err)
	}
}

// saveBeneficiary records the external recipient when the caller opted in.
// Best-effort: failure is logged and never affects the settled transfer.
func (s *Service) saveBeneficiary(ctx context.Context, userID uuid.UUID, req domain.TransferRequest, record *domain.Transaction) {
	name := strings.TrimSpace(req.RecipientName)
	if name == "" && record.RecipientName != nil {
		name = *record.RecipientName
	}
	if name == "" {
		return
	}
	beneficiary := &domain.Beneficiary{
		ID:            uuid.New(),
		UserID:        userID,
		Name:          name,
		AccountNumber: strings.TrimSpace(req.RecipientAccountNumber),
	}
	if err := s.repo.CreateBeneficiary(ctx, beneficiary); err != nil {
		log.Printf("level=warn component=transfer_engine msg=\"beneficiary save failed\" user_id=%s err=%v", userID, err)
	}
}
