package app

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/corebank/transfer-service/internal/domain"
	"github.com/corebank/transfer-service/internal/store"
)

// fakeRepo is an in-memory Repository with the same debit/credit semantics as
// the Postgres implementation: debits are conditional on an active account
// with sufficient balance, credits only reject closed accounts, and each
// Execute* call either applies fully or not at all.
type fakeRepo struct {
	accounts      map[uuid.UUID]*domain.Account
	accountTypes  map[string]domain.AccountType
	profiles      []domain.Profile
	transactions  []domain.Transaction
	beneficiaries []domain.Beneficiary
	loans         map[uuid.UUID]*domain.Loan
	payments      []domain.LoanPayment
}

func newFakeRepo() *fakeRepo {
	checkingID := uuid.New()
	return &fakeRepo{
		accounts: make(map[uuid.UUID]*domain.Account),
		accountTypes: map[string]domain.AccountType{
			"checking": {ID: checkingID, Name: "checking"},
			"savings":  {ID: uuid.New(), Name: "savings", InterestRate: 1.5},
		},
		loans: make(map[uuid.UUID]*domain.Loan),
	}
}

func (f *fakeRepo) addAccount(userID uuid.UUID, balance int64, status string) *domain.Account {
	account := &domain.Account{
		ID:            uuid.New(),
		UserID:        userID,
		AccountNumber: store.GenerateAccountNumber(),
		AccountTypeID: f.accountTypes["checking"].ID,
		Balance:       balance,
		Status:        status,
	}
	f.accounts[account.ID] = account
	return account
}

func (f *fakeRepo) addProfile(fullName, email string) domain.Profile {
	profile := domain.Profile{UserID: uuid.New(), FullName: fullName, Email: email}
	f.profiles = append(f.profiles, profile)
	return profile
}

func (f *fakeRepo) CreateAccount(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	copied := *account
	copied.CreatedAt = time.Now()
	f.accounts[copied.ID] = &copied
	out := copied
	return &out, nil
}

func (f *fakeRepo) FindAccountByID(ctx context.Context, accountID uuid.UUID) (*domain.Account, error) {
	account, ok := f.accounts[accountID]
	if !ok {
		return nil, store.ErrAccountNotFound
	}
	copied := *account
	return &copied, nil
}

func (f *fakeRepo) FindAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	for _, account := range f.accounts {
		if account.AccountNumber == accountNumber {
			copied := *account
			return &copied, nil
		}
	}
	return nil, store.ErrAccountNotFound
}

func (f *fakeRepo) FindAccountsByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Account, error) {
	var out []domain.Account
	for _, account := range f.accounts {
		if account.UserID == userID {
			out = append(out, *account)
		}
	}
	return out, nil
}

func (f *fakeRepo) FindAccountTypeByName(ctx context.Context, name string) (*domain.AccountType, error) {
	accountType, ok := f.accountTypes[name]
	if !ok {
		return nil, store.ErrAccountTypeNotFound
	}
	return &accountType, nil
}

func (f *fakeRepo) FreezeAccountsByUserID(ctx context.Context, userID uuid.UUID) error {
	for _, account := range f.accounts {
		if account.UserID == userID && account.Status != domain.AccountStatusClosed {
			account.Status = domain.AccountStatusFrozen
		}
	}
	return nil
}

func (f *fakeRepo) FindProfileByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	for _, profile := range f.profiles {
		if profile.UserID == userID {
			copied := profile
			return &copied, nil
		}
	}
	return nil, store.ErrProfileNotFound
}

func (f *fakeRepo) FindProfileByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	for _, profile := range f.profiles {
		if strings.EqualFold(profile.Email, email) {
			copied := profile
			return &copied, nil
		}
	}
	return nil, store.ErrProfileNotFound
}

func (f *fakeRepo) SearchProfilesByName(ctx context.Context, fragment string, limit int) ([]domain.Profile, error) {
	var out []domain.Profile
	needle := strings.ToLower(fragment)
	for _, profile := range f.profiles {
		if strings.Contains(strings.ToLower(profile.FullName), needle) {
			out = append(out, profile)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

// debit applies the conditional debit, returning the sentinel matching the
// failure cause without mutating anything on failure.
func (f *fakeRepo) debit(accountID uuid.UUID, amount int64) error {
	account, ok := f.accounts[accountID]
	if !ok {
		return store.ErrAccountNotFound
	}
	switch account.Status {
	case domain.AccountStatusFrozen:
		return store.ErrAccountFrozen
	case domain.AccountStatusClosed:
		return store.ErrAccountClosed
	}
	if account.Balance < amount {
		return store.ErrInsufficientFunds
	}
	account.Balance -= amount
	return nil
}

func (f *fakeRepo) credit(accountID uuid.UUID, amount int64) error {
	account, ok := f.accounts[accountID]
	if !ok {
		return store.ErrAccountNotFound
	}
	if account.Status == domain.AccountStatusClosed {
		return store.ErrAccountClosed
	}
	account.Balance += amount
	return nil
}

func (f *fakeRepo) appendTransaction(txType string, from uuid.UUID, to *uuid.UUID, amount int64, recipientName *string, description string) *domain.Transaction {
	tx := domain.Transaction{
		ID:              uuid.New(),
		FromAccountID:   from,
		ToAccountID:     to,
		TransactionType: txType,
		Status:          domain.TransactionStatusCompleted,
		Amount:          amount,
		ReferenceNumber: store.GenerateReferenceNumber(),
		RecipientName:   recipientName,
		Description:     description,
		CreatedAt:       time.Now(),
	}
	f.transactions = append(f.transactions, tx)
	return &tx
}

func (f *fakeRepo) ExecuteTransfer(ctx context.Context, params store.TransferParams) (*domain.Transaction, error) {
	// Validate both legs before mutating so a failed credit cannot leave a
	// dangling debit.
	if params.ToAccountID != nil {
		destination, ok := f.accounts[*params.ToAccountID]
		if !ok {
			return nil, store.ErrAccountNotFound
		}
		if destination.Status == domain.AccountStatusClosed {
			return nil, store.ErrAccountClosed
		}
	}
	if err := f.debit(params.FromAccountID, params.Amount); err != nil {
		return nil, err
	}
	if params.ToAccountID != nil {
		if err := f.credit(*params.ToAccountID, params.Amount); err != nil {
			return nil, err
		}
	}
	return f.appendTransaction(params.Type, params.FromAccountID, params.ToAccountID, params.Amount, params.RecipientName, params.Description), nil
}

func (f *fakeRepo) ExecuteDeposit(ctx context.Context, accountID uuid.UUID, amount int64, description string) (*domain.Transaction, error) {
	if err := f.credit(accountID, amount); err != nil {
		return nil, err
	}
	return f.appendTransaction(domain.TransactionTypeDeposit, accountID, &accountID, amount, nil, description), nil
}

func (f *fakeRepo) ExecuteWithdrawal(ctx context.Context, accountID uuid.UUID, amount int64, description string) (*domain.Transaction, error) {
	if err := f.debit(accountID, amount); err != nil {
		return nil, err
	}
	return f.appendTransaction(domain.TransactionTypeWithdrawal, accountID, nil, amount, nil, description), nil
}

func (f *fakeRepo) CountDebitTransactions(ctx context.Context, accountID uuid.UUID) (int64, error) {
	var count int64
	for _, tx := range f.transactions {
		if tx.FromAccountID != accountID {
			continue
		}
		if tx.TransactionType == domain.TransactionTypeTransfer || tx.TransactionType == domain.TransactionTypePayment {
			count++
		}
	}
	return count, nil
}

func (f *fakeRepo) FindTransactionsByAccountID(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]domain.Transaction, error) {
	var out []domain.Transaction
	for _, tx := range f.transactions {
		if tx.FromAccountID == accountID || (tx.ToAccountID != nil && *tx.ToAccountID == accountID) {
			out = append(out, tx)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeRepo) SearchTransactions(ctx context.Context, userID uuid.UUID, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	owned := make(map[uuid.UUID]bool)
	for _, account := range f.accounts {
		if account.UserID == userID {
			owned[account.ID] = true
		}
	}
	var out []domain.Transaction
	for _, tx := range f.transactions {
		if !owned[tx.FromAccountID] && (tx.ToAccountID == nil || !owned[*tx.ToAccountID]) {
			continue
		}
		if filter.MinAmount != nil && tx.Amount < *filter.MinAmount {
			continue
		}
		if filter.MaxAmount != nil && tx.Amount > *filter.MaxAmount {
			continue
		}
		if filter.Query != "" {
			needle := strings.ToLower(filter.Query)
			name := ""
			if tx.RecipientName != nil {
				name = *tx.RecipientName
			}
			if !strings.Contains(strings.ToLower(tx.Description), needle) &&
				!strings.Contains(strings.ToLower(name), needle) &&
				!strings.Contains(strings.ToLower(tx.ReferenceNumber), needle) {
				continue
			}
		}
		out = append(out, tx)
	}
	return out, nil
}

func (f *fakeRepo) CreateBeneficiary(ctx context.Context, beneficiary *domain.Beneficiary) error {
	f.beneficiaries = append(f.beneficiaries, *beneficiary)
	return nil
}

func (f *fakeRepo) FindBeneficiariesByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Beneficiary, error) {
	var out []domain.Beneficiary
	for _, b := range f.beneficiaries {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeRepo) CreateLoan(ctx context.Context, loan *domain.Loan) error {
	copied := *loan
	copied.CreatedAt = time.Now()
	f.loans[copied.ID] = &copied
	return nil
}

func (f *fakeRepo) FindLoanByID(ctx context.Context, loanID uuid.UUID) (*domain.Loan, error) {
	loan, ok := f.loans[loanID]
	if !ok {
		return nil, store.ErrLoanNotFound
	}
	copied := *loan
	return &copied, nil
}

func (f *fakeRepo) FindLoansByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Loan, error) {
	var out []domain.Loan
	for _, loan := range f.loans {
		if loan.UserID == userID {
			out = append(out, *loan)
		}
	}
	return out, nil
}

func (f *fakeRepo) ApplyLoanPayment(ctx context.Context, params store.LoanPaymentParams) (*domain.LoanPayment, *domain.Transaction, error) {
	loan, ok := f.loans[params.LoanID]
	if !ok {
		return nil, nil, store.ErrLoanNotFound
	}
	if loan.OutstandingBalance != params.ExpectedOutstanding {
		return nil, nil, store.ErrLoanStateChanged
	}
	if err := f.debit(params.AccountID, params.Amount); err != nil {
		return nil, nil, err
	}
	loan.OutstandingBalance = params.NewOutstanding
	loan.Status = params.NewStatus

	payment := domain.LoanPayment{
		ID:              uuid.New(),
		LoanID:          params.LoanID,
		Amount:          params.Amount,
		PrincipalAmount: params.PrincipalAmount,
		InterestAmount:  params.InterestAmount,
		CreatedAt:       time.Now(),
	}
	f.payments = append(f.payments, payment)
	ledgerRow := f.appendTransaction(domain.TransactionTypePayment, params.AccountID, nil, params.Amount, nil, params.Description)
	return &payment, ledgerRow, nil
}

// fakePublisher records every published event.
type fakePublisher struct {
	published []publishedEvent
}

type publishedEvent struct {
	exchange   string
	routingKey string
	body       interface{}
}

func (p *fakePublisher) Publish(ctx context.Context, exchange, routingKey string, body interface{}) error {
	p.published = append(p.published, publishedEvent{exchange: exchange, routingKey: routingKey, body: body})
	return nil
}

func (p *fakePublisher) Close() {}

func (p *fakePublisher) count(routingKey string) int {
	n := 0
	for _, e := range p.published {
		if e.routingKey == routingKey {
			n++
		}
	}
	return n
}

// fixedRateLimiter always reports the same running count.
type fixedRateLimiter struct {
	count      int
	retryAfter int
	err        error
}

func (l *fixedRateLimiter) ConsumeRateLimit(ctx context.Context, scope, subject string, limit int, window time.Duration) (int, int, error) {
	return l.count, l.retryAfter, l.err
}

func newTestService(repo *fakeRepo, threshold int) (*Service, *fakePublisher) {
	events := &fakePublisher{}
	return NewService(repo, events, NewFraudPolicy(threshold), "corebank.events"), events
}

func totalBalance(repo *fakeRepo) int64 {
	var total int64
	for _, account := range repo.accounts {
		total += account.Balance
	}
	return total
}

func TestTransfer_InternalMovesExactAmount(t *testing.T) {
	repo := newFakeRepo()
	userID := uuid.New()
	sender := repo.addAccount(userID, 10_000, domain.AccountStatusActive)
	receiver := repo.addAccount(uuid.New(), 500, domain.AccountStatusActive)
	service, events := newTestService(repo, 100)

	tx, err := service.Transfer(context.Background(), userID, domain.TransferRequest{
		FromAccountID: sender.ID,
		ToAccountID:   &receiver.ID,
		Amount:        2_500,
		Description:   "rent share",
	})
	if err != nil {
		t.Fatalf("Transfer returned error: %v", err)
	}

	if repo.accounts[sender.ID].Balance != 7_500 {
		t.Errorf("sender balance = %d, want 7500", repo.accounts[sender.ID].Balance)
	}
	if repo.accounts[receiver.ID].Balance != 3_000 {
		t.Errorf("receiver balance = %d, want 3000", repo.accounts[receiver.ID].Balance)
	}
	if got := totalBalance(repo); got != 10_500 {
		t.Errorf("total balance = %d, want 10500 (internal transfers must conserve money)", got)
	}
	if tx.TransactionType != domain.TransactionTypeTransfer {
		t.Errorf("transaction type = %q, want transfer", tx.TransactionType)
	}
	if tx.Status != domain.TransactionStatusCompleted {
		t.Errorf("transaction status = %q, want completed", tx.Status)
	}
	if !strings.HasPrefix(tx.ReferenceNumber, "TXN-") {
		t.Errorf("reference number %q missing TXN- prefix", tx.ReferenceNumber)
	}
	if events.count("transaction.settled") != 1 {
		t.Errorf("settled events = %d, want 1", events.count("transaction.settled"))
	}
}

func TestTransfer_FrozenSenderRejectedWithoutMutation(t *testing.T) {
	repo := newFakeRepo()
	userID := uuid.New()
	sender := repo.addAccount(userID, 10_000, domain.AccountStatusFrozen)
	receiver := repo.addAccount(uuid.New(), 0, domain.AccountStatusActive)
	service, events := newTestService(repo, 100)

	_, err := service.Transfer(context.Background(), userID, domain.TransferRequest{
		FromAccountID: sender.ID,
		ToAccountID:   &receiver.ID,
		Amount:        1_000,
	})
	if !errors.Is(err, store.ErrAccountFrozen) {
		t.Fatalf("Transfer error = %v, want ErrAccountFrozen", err)
	}
	if repo.accounts[sender.ID].Balance != 10_000 || repo.accounts[receiver.ID].Balance != 0 {
		t.Errorf("balances mutated on rejected transfer: sender=%d receiver=%d",
			repo.accounts[sender.ID].Balance, repo.accounts[receiver.ID].Balance)
	}
	if len(repo.transactions) != 0 {
		t.Errorf("ledger rows = %d, want 0", len(repo.transactions))
	}
	if len(events.published) != 0 {
		t.Errorf("events published = %d, want 0", len(events.published))
	}
}

func TestTransfer_InsufficientFundsRejectedWithoutMutation(t *testing.T) {
	repo := newFakeRepo()
	userID := uuid.New()
	sender := repo.addAccount(userID, 500, domain.AccountStatusActive)
	receiver := repo.addAccount(uuid.New(), 0, domain.AccountStatusActive)
	service, _ := newTestService(repo, 100)

	_, err := service.Transfer(context.Background(), userID, domain.TransferRequest{
		FromAccountID: sender.ID,
		ToAccountID:   &receiver.ID,
		Amount:        501,
	})
	if !errors.Is(err, store.ErrInsufficientFunds) {
		t.Fatalf("Transfer error = %v, want ErrInsufficientFunds", err)
	}
	if repo.accounts[sender.ID].Balance != 500 {
		t.Errorf("sender balance = %d, want 500", repo.accounts[sender.ID].Balance)
	}
	if len(repo.transactions) != 0 {
		t.Errorf("ledger rows = %d, want 0", len(repo.transactions))
	}
}

func TestTransfer_InvalidRequestsRejected(t *testing.T) {
	repo := newFakeRepo()
	userID := uuid.New()
	sender := repo.addAccount(userID, 10_000, domain.AccountStatusActive)
	service, _ := newTestService(repo, 100)

	tests := []struct {
		name    string
		req     domain.TransferRequest
		wantErr error
	}{
		{"zero amount", domain.TransferRequest{FromAccountID: sender.ID, Amount: 0}, ErrInvalidAmount},
		{"negative amount", domain.TransferRequest{FromAccountID: sender.ID, Amount: -5}, ErrInvalidAmount},
		{"missing account", domain.TransferRequest{Amount: 100}, ErrMissingAccount},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.Transfer(context.Background(), userID, tc.req)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("Transfer error = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestTransfer_ForeignAccountReportedNotFound(t *testing.T) {
	repo := newFakeRepo()
	owner := uuid.New()
	account := repo.addAccount(owner, 10_000, domain.AccountStatusActive)
	service, _ := newTestService(repo, 100)

	_, err := service.Transfer(context.Background(), uuid.New(), domain.TransferRequest{
		FromAccountID: account.ID,
		Amount:        100,
	})
	if !errors.Is(err, store.ErrAccountNotFound) {
		t.Fatalf("Transfer from foreign account error = %v, want ErrAccountNotFound", err)
	}
}

func TestTransfer_FraudThresholdFreezesAtExactCount(t *testing.T) {
	repo := newFakeRepo()
	userID := uuid.New()
	sender := repo.addAccount(userID, 100_000, domain.AccountStatusActive)
	receiver := repo.addAccount(uuid.New(), 0, domain.AccountStatusActive)
	service, events := newTestService(repo, 2)

	req := domain.TransferRequest{FromAccountID: sender.ID, ToAccountID: &receiver.ID, Amount: 1_000}

	// First debit: count 1 < threshold 2, account stays active.
	if _, err := service.Transfer(context.Background(), userID, req); err != nil {
		t.Fatalf("first transfer: %v", err)
	}
	if repo.accounts[sender.ID].Status != domain.AccountStatusActive {
		t.Fatalf("account frozen after first debit; threshold must not fire early")
	}
	if events.count("account.blocked") != 0 {
		t.Fatalf("account.blocked published before threshold")
	}

	// Second debit settles, then the throttle freezes the account.
	if _, err := service.Transfer(context.Background(), userID, req); err != nil {
		t.Fatalf("second transfer: %v", err)
	}
	if repo.accounts[sender.ID].Status != domain.AccountStatusFrozen {
		t.Fatalf("account not frozen after reaching threshold")
	}
	if events.count("account.blocked") != 1 {
		t.Errorf("account.blocked events = %d, want 1", events.count("account.blocked"))
	}
	if repo.accounts[receiver.ID].Balance != 2_000 {
		t.Errorf("receiver balance = %d, want 2000 (threshold transfer itself must settle)", repo.accounts[receiver.ID].Balance)
	}

	// Third attempt hits the frozen debit guard.
	if _, err := service.Transfer(context.Background(), userID, req); !errors.Is(err, store.ErrAccountFrozen) {
		t.Fatalf("third transfer error = %v, want ErrAccountFrozen", err)
	}
}

func TestTransfer_FreezeCoversAllUserAccounts(t *testing.T) {
	repo := newFakeRepo()
	userID := uuid.New()
	sender := repo.addAccount(userID, 100_000, domain.AccountStatusActive)
	sibling := repo.addAccount(userID, 50_000, domain.AccountStatusActive)
	receiver := repo.addAccount(uuid.New(), 0, domain.AccountStatusActive)
	service, _ := newTestService(repo, 1)

	_, err := service.Transfer(context.Background(), userID, domain.TransferRequest{
		FromAccountID: sender.ID, ToAccountID: &receiver.ID, Amount: 1_000,
	})
	if err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if repo.accounts[sibling.ID].Status != domain.AccountStatusFrozen {
		t.Errorf("sibling account not frozen; the freeze is per user, not per account")
	}
}

func TestTransfer_UnresolvedRecipientBecomesPayment(t *testing.T) {
	repo := newFakeRepo()
	userID := uuid.New()
	sender := repo.addAccount(userID, 10_000, domain.AccountStatusActive)
	service, events := newTestService(repo, 100)

	tx, err := service.Transfer(context.Background(), userID, domain.TransferRequest{
		FromAccountID: sender.ID,
		Amount:        4_000,
		RecipientName: "Acme Utilities",
		Description:   "electric bill",
	})
	if err != nil {
		t.Fatalf("Transfer returned error: %v", err)
	}
	if tx.TransactionType != domain.TransactionTypePayment {
		t.Errorf("transaction type = %q, want payment", tx.TransactionType)
	}
	if tx.ToAccountID != nil {
		t.Errorf("payment credited internal account %s; want no credit leg", *tx.ToAccountID)
	}
	if repo.accounts[sender.ID].Balance != 6_000 {
		t.Errorf("sender balance = %d, want 6000", repo.accounts[sender.ID].Balance)
	}
	if events.count("transaction.settled") != 1 {
		t.Errorf("settled events = %d, want 1", events.count("transaction.settled"))
	}
}

func TestTransfer_ClearingAccountAbsorbsUnresolvedPayment(t *testing.T) {
	repo := newFakeRepo()
	userID := uuid.New()
	sender := repo.addAccount(userID, 10_000, domain.AccountStatusActive)
	clearing := repo.addAccount(uuid.New(), 0, domain.AccountStatusActive)
	service, _ := newTestService(repo, 100)
	service.SetClearingAccount(clearing.ID)

	tx, err := service.Transfer(context.Background(), userID, domain.TransferRequest{
		FromAccountID: sender.ID,
		Amount:        4_000,
		RecipientName: "Acme Utilities",
	})
	if err != nil {
		t.Fatalf("Transfer returned error: %v", err)
	}
	if tx.TransactionType != domain.TransactionTypePayment {
		t.Errorf("transaction type = %q, want payment", tx.TransactionType)
	}
	if repo.accounts[clearing.ID].Balance != 4_000 {
		t.Errorf("clearing balance = %d, want 4000", repo.accounts[clearing.ID].Balance)
	}
	if got := totalBalance(repo); got != 10_000 {
		t.Errorf("total balance = %d, want 10000 with a clearing account configured", got)
	}
}

func TestTransfer_AmbiguousRecipientRejected(t *testing.T) {
	repo := newFakeRepo()
	userID := uuid.New()
	sender := repo.addAccount(userID, 10_000, domain.AccountStatusActive)
	alice := repo.addProfile("John Smith", "john.smith@example.com")
	bob := repo.addProfile("John Smythe", "john.smythe@example.com")
	repo.addAccount(alice.UserID, 0, domain.AccountStatusActive)
	repo.addAccount(bob.UserID, 0, domain.AccountStatusActive)
	service, _ := newTestService(repo, 100)

	_, err := service.Transfer(context.Background(), userID, domain.TransferRequest{
		FromAccountID: sender.ID,
		Amount:        1_000,
		RecipientName: "John",
	})
	if !errors.Is(err, ErrAmbiguousRecipient) {
		t.Fatalf("Transfer error = %v, want ErrAmbiguousRecipient", err)
	}
	if repo.accounts[sender.ID].Balance != 10_000 {
		t.Errorf("sender balance = %d, want 10000 (ambiguous resolution must not debit)", repo.accounts[sender.ID].Balance)
	}
}

func TestTransfer_ResolvedByNameCreditsRecipient(t *testing.T) {
	repo := newFakeRepo()
	userID := uuid.New()
	sender := repo.addAccount(userID, 10_000, domain.AccountStatusActive)
	jane := repo.addProfile("Jane Doe", "jane@example.com")
	janeAccount := repo.addAccount(jane.UserID, 0, domain.AccountStatusActive)
	service, _ := newTestService(repo, 100)

	tx, err := service.Transfer(context.Background(), userID, domain.TransferRequest{
		FromAccountID: sender.ID,
		Amount:        3_000,
		RecipientName: "jane",
	})
	if err != nil {
		t.Fatalf("Transfer returned error: %v", err)
	}
	if tx.TransactionType != domain.TransactionTypeTransfer {
		t.Errorf("transaction type = %q, want transfer", tx.TransactionType)
	}
	if tx.RecipientName == nil || *tx.RecipientName != "Jane Doe" {
		t.Errorf("recipient name = %v, want profile full name", tx.RecipientName)
	}
	if repo.accounts[janeAccount.ID].Balance != 3_000 {
		t.Errorf("recipient balance = %d, want 3000", repo.accounts[janeAccount.ID].Balance)
	}
}

func TestTransfer_SaveBeneficiaryOnExternalTransfer(t *testing.T) {
	repo := newFakeRepo()
	userID := uuid.New()
	sender := repo.addAccount(userID, 10_000, domain.AccountStatusActive)
	service, _ := newTestService(repo, 100)

	_, err := service.Transfer(context.Background(), userID, domain.TransferRequest{
		FromAccountID:   sender.ID,
		Amount:          1_000,
		RecipientName:   "Acme Utilities",
		SaveBeneficiary: true,
	})
	if err != nil {
		t.Fatalf("Transfer returned error: %v", err)
	}
	saved, _ := repo.FindBeneficiariesByUserID(context.Background(), userID)
	if len(saved) != 1 || saved[0].Name != "Acme Utilities" {
		t.Errorf("beneficiaries = %+v, want one named Acme Utilities", saved)
	}
}

func TestTransfer_RateLimited(t *testing.T) {
	repo := newFakeRepo()
	userID := uuid.New()
	sender := repo.addAccount(userID, 10_000, domain.AccountStatusActive)
	service, _ := newTestService(repo, 100)
	service.SetTransferRateLimiter(&fixedRateLimiter{count: 6, retryAfter: 42}, 5)

	_, err := service.Transfer(context.Background(), userID, domain.TransferRequest{
		FromAccountID: sender.ID,
		Amount:        1_000,
		RecipientName: "someone",
	})
	var rateErr *RateLimitError
	if !errors.As(err, &rateErr) {
		t.Fatalf("Transfer error = %v, want RateLimitError", err)
	}
	if rateErr.RetryAfterSeconds != 42 {
		t.Errorf("retry after = %d, want 42", rateErr.RetryAfterSeconds)
	}
	if repo.accounts[sender.ID].Balance != 10_000 {
		t.Errorf("sender balance = %d, want 10000 (rate limited transfer must not debit)", repo.accounts[sender.ID].Balance)
	}
}

func TestTransfer_RateLimiterFailureAllowsTransfer(t *testing.T) {
	repo := newFakeRepo()
	userID := uuid.New()
	sender := repo.addAccount(userID, 10_000, domain.AccountStatusActive)
	receiver := repo.addAccount(uuid.New(), 0, domain.AccountStatusActive)
	service, _ := newTestService(repo, 100)
	service.SetTransferRateLimiter(&fixedRateLimiter{err: errors.New("redis down")}, 5)

	_, err := service.Transfer(context.Background(), userID, domain.TransferRequest{
		FromAccountID: sender.ID,
		ToAccountID:   &receiver.ID,
		Amount:        1_000,
	})
	if err != nil {
		t.Fatalf("Transfer error = %v; limiter outage must not block transfers", err)
	}
}

func TestDepositAndWithdrawRoundTrip(t *testing.T) {
	repo := newFakeRepo()
	userID := uuid.New()
	account := repo.addAccount(userID, 1_000, domain.AccountStatusActive)
	service, events := newTestService(repo, 100)

	if _, err := service.Deposit(context.Background(), userID, domain.DepositRequest{
		AccountID: account.ID, Amount: 5_000, Description: "payroll",
	}); err != nil {
		t.Fatalf("Deposit returned error: %v", err)
	}
	if repo.accounts[account.ID].Balance != 6_000 {
		t.Fatalf("balance after deposit = %d, want 6000", repo.accounts[account.ID].Balance)
	}

	if _, err := service.Withdraw(context.Background(), userID, domain.WithdrawRequest{
		AccountID: account.ID, Amount: 5_000, Description: "atm",
	}); err != nil {
		t.Fatalf("Withdraw returned error: %v", err)
	}
	if repo.accounts[account.ID].Balance != 1_000 {
		t.Fatalf("balance after withdrawal = %d, want 1000", repo.accounts[account.ID].Balance)
	}
	if events.count("transaction.settled") != 2 {
		t.Errorf("settled events = %d, want 2", events.count("transaction.settled"))
	}

	// Withdrawals do not count toward the fraud throttle.
	count, _ := repo.CountDebitTransactions(context.Background(), account.ID)
	if count != 0 {
		t.Errorf("debit count = %d, want 0 (withdrawals excluded from throttle)", count)
	}
}

func TestDeposit_FrozenAccountStillAcceptsCredits(t *testing.T) {
	repo := newFakeRepo()
	userID := uuid.New()
	account := repo.addAccount(userID, 0, domain.AccountStatusFrozen)
	service, _ := newTestService(repo, 100)

	if _, err := service.Deposit(context.Background(), userID, domain.DepositRequest{
		AccountID: account.ID, Amount: 2_000,
	}); err != nil {
		t.Fatalf("Deposit to frozen account returned error: %v", err)
	}
	if repo.accounts[account.ID].Balance != 2_000 {
		t.Errorf("balance = %d, want 2000", repo.accounts[account.ID].Balance)
	}
}

func TestCreateAccount_Defaults(t *testing.T) {
	repo := newFakeRepo()
	userID := uuid.New()
	service, _ := newTestService(repo, 100)

	account, err := service.CreateAccount(context.Background(), userID, domain.CreateAccountRequest{})
	if err != nil {
		t.Fatalf("CreateAccount returned error: %v", err)
	}
	if account.Balance != 0 {
		t.Errorf("new account balance = %d, want 0", account.Balance)
	}
	if account.Status != domain.AccountStatusActive {
		t.Errorf("new account status = %q, want active", account.Status)
	}
	if len(account.AccountNumber) != 10 {
		t.Errorf("account number %q length = %d, want 10 digits", account.AccountNumber, len(account.AccountNumber))
	}
	if account.AccountTypeID != repo.accountTypes["checking"].ID {
		t.Errorf("account type defaulted to %s, want checking", account.AccountTypeID)
	}
}

func TestCreateAccount_UnknownTypeRejected(t *testing.T) {
	repo := newFakeRepo()
	service, _ := newTestService(repo, 100)

	_, err := service.CreateAccount(context.Background(), uuid.New(), domain.CreateAccountRequest{AccountType: "platinum"})
	if !errors.Is(err, store.ErrAccountTypeNotFound) {
		t.Fatalf("CreateAccount error = %v, want ErrAccountTypeNotFound", err)
	}
}
