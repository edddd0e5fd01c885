/**
 * @description
 * This file provides the PostgreSQL implementation of the `Repository`
 * interface. It contains all the SQL for accounts, the transaction ledger,
 * profiles, beneficiaries, and loans.
 *
 * @notes
 * - Every multi-leg mutation (transfer, deposit, withdrawal, loan payment)
 *   runs inside one database transaction with a deferred rollback.
 * - Debits are a single atomic conditional UPDATE; the balance check and the
 *   write cannot be interleaved by a concurrent request. When the UPDATE
 *   affects zero rows, a follow-up read classifies the failure into the
 *   proper sentinel error.
 *
 * @dependencies
 * - github.com/jackc/pgx/v5: The PostgreSQL driver for database operations.
 * - internal/domain: Contains the domain models used for data transfer.
 */

package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/corebank/transfer-service/internal/domain"
)

const (
	debitAccountQuery = `
		UPDATE accounts
		SET balance = balance - $1, updated_at = now()
		WHERE id = $2 AND status = 'active' AND balance >= $1
	`
	creditAccountQuery = `
		UPDATE accounts
		SET balance = balance + $1, updated_at = now()
		WHERE id = $2 AND status <> 'closed'
	`
	insertTransactionQuery = `
		INSERT INTO transactions
			(id, from_account_id, to_account_id, transaction_type, status, amount, reference_number, recipient_name, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at
	`
	selectAccountColumns = `
		SELECT id, user_id, account_number, routing_number, swift_code, account_type_id, balance, status, created_at, updated_at
		FROM accounts
	`
	selectTransactionColumns = `
		SELECT id, from_account_id, to_account_id, transaction_type, status, amount, reference_number, recipient_name, description, created_at
		FROM transactions
	`
)

// rowQuerier is satisfied by both *pgxpool.Pool and pgx.Tx.
type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository is a concrete implementation of the Repository interface
// for PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a new instance of PostgresRepository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// CreateAccount inserts a new account row and returns it with its timestamps.
func (r *PostgresRepository) CreateAccount(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	query := `
		INSERT INTO accounts (id, user_id, account_number, routing_number, swift_code, account_type_id, balance, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		account.ID,
		account.UserID,
		account.AccountNumber,
		account.RoutingNumber,
		account.SwiftCode,
		account.AccountTypeID,
		account.Balance,
		account.Status,
	).Scan(&account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return account, nil
}

// FindAccountByID retrieves an account by its primary key.
func (r *PostgresRepository) FindAccountByID(ctx context.Context, accountID uuid.UUID) (*domain.Account, error) {
	return r.scanAccount(r.db.QueryRow(ctx, selectAccountColumns+` WHERE id = $1`, accountID))
}

// FindAccountByNumber retrieves an account by its display account number.
func (r *PostgresRepository) FindAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	return r.scanAccount(r.db.QueryRow(ctx, selectAccountColumns+` WHERE account_number = $1`, strings.TrimSpace(accountNumber)))
}

// FindAccountsByUserID retrieves every account owned by a user, oldest first.
func (r *PostgresRepository) FindAccountsByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Account, error) {
	rows, err := r.db.Query(ctx, selectAccountColumns+` WHERE user_id = $1 ORDER BY created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		var a domain.Account
		if err := rows.Scan(&a.ID, &a.UserID, &a.AccountNumber, &a.RoutingNumber, &a.SwiftCode, &a.AccountTypeID, &a.Balance, &a.Status, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// FindAccountTypeByName retrieves an account type by name ('checking', 'savings', ...).
func (r *PostgresRepository) FindAccountTypeByName(ctx context.Context, name string) (*domain.AccountType, error) {
	var t domain.AccountType
	query := `
		SELECT id, name, interest_rate, min_balance, max_balance, requires_kyc
		FROM account_types
		WHERE lower(name) = lower(btrim($1))
	`
	err := r.db.QueryRow(ctx, query, name).Scan(&t.ID, &t.Name, &t.InterestRate, &t.MinBalance, &t.MaxBalance, &t.RequiresKYC)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountTypeNotFound
		}
		return nil, err
	}
	return &t, nil
}

// FreezeAccountsByUserID freezes every account owned by the user. Closed
// accounts stay closed.
func (r *PostgresRepository) FreezeAccountsByUserID(ctx context.Context, userID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `
		UPDATE accounts
		SET status = 'frozen', updated_at = now()
		WHERE user_id = $1 AND status = 'active'
	`, userID)
	return err
}

// FindProfileByUserID retrieves the profile for a user id.
func (r *PostgresRepository) FindProfileByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	var p domain.Profile
	err := r.db.QueryRow(ctx, `SELECT user_id, full_name, email FROM profiles WHERE user_id = $1`, userID).
		Scan(&p.UserID, &p.FullName, &p.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &p, nil
}

// FindProfileByEmail retrieves a profile by the identity provider's email.
func (r *PostgresRepository) FindProfileByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	var p domain.Profile
	query := `SELECT user_id, full_name, email FROM profiles WHERE lower(btrim(email)) = lower(btrim($1))`
	err := r.db.QueryRow(ctx, query, email).Scan(&p.UserID, &p.FullName, &p.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &p, nil
}

// SearchProfilesByName returns profiles whose full name contains the fragment,
// case-insensitively, up to limit rows.
func (r *PostgresRepository) SearchProfilesByName(ctx context.Context, fragment string, limit int) ([]domain.Profile, error) {
	if limit <= 0 {
		limit = 10
	}
	query := `
		SELECT user_id, full_name, email
		FROM profiles
		WHERE full_name ILIKE '%' || $1 || '%'
		ORDER BY full_name
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, strings.TrimSpace(fragment), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []domain.Profile
	for rows.Next() {
		var p domain.Profile
		if err := rows.Scan(&p.UserID, &p.FullName, &p.Email); err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

// ExecuteTransfer debits the source account, credits the destination when one
// is given, and appends exactly one ledger row, all in a single database
// transaction. Any failed leg rolls back the others.
func (r *PostgresRepository) ExecuteTransfer(ctx context.Context, params TransferParams) (*domain.Transaction, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, debitAccountQuery, params.Amount, params.FromAccountID)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, r.classifyDebitFailure(ctx, tx, params.FromAccountID, params.Amount)
	}

	if params.ToAccountID != nil {
		creditTag, err := tx.Exec(ctx, creditAccountQuery, params.Amount, *params.ToAccountID)
		if err != nil {
			return nil, err
		}
		if creditTag.RowsAffected() == 0 {
			return nil, r.classifyCreditFailure(ctx, tx, *params.ToAccountID)
		}
	}

	record := &domain.Transaction{
		ID:              uuid.New(),
		FromAccountID:   params.FromAccountID,
		ToAccountID:     params.ToAccountID,
		TransactionType: params.Type,
		Status:          domain.TransactionStatusCompleted,
		Amount:          params.Amount,
		ReferenceNumber: GenerateReferenceNumber(),
		RecipientName:   params.RecipientName,
		Description:     params.Description,
	}
	err = tx.QueryRow(ctx, insertTransactionQuery,
		record.ID, record.FromAccountID, record.ToAccountID, record.TransactionType,
		record.Status, record.Amount, record.ReferenceNumber, record.RecipientName, record.Description,
	).Scan(&record.CreatedAt)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return record, nil
}

// ExecuteDeposit credits the account and appends a `deposit` ledger row.
// Credits land on frozen accounts; only closed accounts reject them.
func (r *PostgresRepository) ExecuteDeposit(ctx context.Context, accountID uuid.UUID, amount int64, description string) (*domain.Transaction, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, creditAccountQuery, amount, accountID)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, r.classifyCreditFailure(ctx, tx, accountID)
	}

	record := &domain.Transaction{
		ID:              uuid.New(),
		FromAccountID:   accountID,
		TransactionType: domain.TransactionTypeDeposit,
		Status:          domain.TransactionStatusCompleted,
		Amount:          amount,
		ReferenceNumber: GenerateReferenceNumber(),
		Description:     description,
	}
	err = tx.QueryRow(ctx, insertTransactionQuery,
		record.ID, record.FromAccountID, record.ToAccountID, record.TransactionType,
		record.Status, record.Amount, record.ReferenceNumber, record.RecipientName, record.Description,
	).Scan(&record.CreatedAt)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return record, nil
}

// ExecuteWithdrawal debits the account and appends a `withdrawal` ledger row.
func (r *PostgresRepository) ExecuteWithdrawal(ctx context.Context, accountID uuid.UUID, amount int64, description string) (*domain.Transaction, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, debitAccountQuery, amount, accountID)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, r.classifyDebitFailure(ctx, tx, accountID, amount)
	}

	record := &domain.Transaction{
		ID:              uuid.New(),
		FromAccountID:   accountID,
		TransactionType: domain.TransactionTypeWithdrawal,
		Status:          domain.TransactionStatusCompleted,
		Amount:          amount,
		ReferenceNumber: GenerateReferenceNumber(),
		Description:     description,
	}
	err = tx.QueryRow(ctx, insertTransactionQuery,
		record.ID, record.FromAccountID, record.ToAccountID, record.TransactionType,
		record.Status, record.Amount, record.ReferenceNumber, record.RecipientName, record.Description,
	).Scan(&record.CreatedAt)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return record, nil
}

// CountDebitTransactions counts the account's lifetime transfer and payment
// rows. The fraud throttle uses this as its trip counter.
func (r *PostgresRepository) CountDebitTransactions(ctx context.Context, accountID uuid.UUID) (int64, error) {
	var count int64
	query := `
		SELECT COUNT(*)
		FROM transactions
		WHERE from_account_id = $1 AND transaction_type IN ('transfer', 'payment')
	`
	if err := r.db.QueryRow(ctx, query, accountID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// FindTransactionsByAccountID retrieves the ledger rows touching one account,
// newest first.
func (r *PostgresRepository) FindTransactionsByAccountID(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]domain.Transaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	query := selectTransactionColumns + `
		WHERE from_account_id = $1 OR to_account_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, accountID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTransactions(rows)
}

// SearchTransactions retrieves ledger rows touching any account owned by the
// user, with free-text, date, and amount filters. String matching is a
// case-insensitive substring over description, recipient name, and reference
// number; date and amount bounds are inclusive.
func (r *PostgresRepository) SearchTransactions(ctx context.Context, userID uuid.UUID, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	conditions := []string{`(
		from_account_id IN (SELECT id FROM accounts WHERE user_id = $1)
		OR to_account_id IN (SELECT id FROM accounts WHERE user_id = $1)
	)`}
	args := []any{userID}

	if q := strings.TrimSpace(filter.Query); q != "" {
		args = append(args, q)
		idx := len(args)
		conditions = append(conditions, fmt.Sprintf(`(
			description ILIKE '%%' || $%d || '%%'
			OR recipient_name ILIKE '%%' || $%d || '%%'
			OR reference_number ILIKE '%%' || $%d || '%%'
		)`, idx, idx, idx))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		conditions = append(conditions, fmt.Sprintf("created_at <= $%d", len(args)))
	}
	if filter.MinAmount != nil {
		args = append(args, *filter.MinAmount)
		conditions = append(conditions, fmt.Sprintf("amount >= $%d", len(args)))
	}
	if filter.MaxAmount != nil {
		args = append(args, *filter.MaxAmount)
		conditions = append(conditions, fmt.Sprintf("amount <= $%d", len(args)))
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf("%s WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		selectTransactionColumns, strings.Join(conditions, " AND "), len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTransactions(rows)
}

// CreateBeneficiary inserts a saved recipient row.
func (r *PostgresRepository) CreateBeneficiary(ctx context.Context, beneficiary *domain.Beneficiary) error {
	query := `
		INSERT INTO beneficiaries (id, user_id, name, account_number, nickname, bank_name)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`
	return r.db.QueryRow(ctx, query,
		beneficiary.ID, beneficiary.UserID, beneficiary.Name,
		beneficiary.AccountNumber, beneficiary.Nickname, beneficiary.BankName,
	).Scan(&beneficiary.CreatedAt)
}

// FindBeneficiariesByUserID retrieves a user's saved recipients, newest first.
func (r *PostgresRepository) FindBeneficiariesByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Beneficiary, error) {
	query := `
		SELECT id, user_id, name, account_number, nickname, bank_name, created_at
		FROM beneficiaries
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var beneficiaries []domain.Beneficiary
	for rows.Next() {
		var b domain.Beneficiary
		if err := rows.Scan(&b.ID, &b.UserID, &b.Name, &b.AccountNumber, &b.Nickname, &b.BankName, &b.CreatedAt); err != nil {
			return nil, err
		}
		beneficiaries = append(beneficiaries, b)
	}
	return beneficiaries, rows.Err()
}

// CreateLoan inserts a loan row.
func (r *PostgresRepository) CreateLoan(ctx context.Context, loan *domain.Loan) error {
	query := `
		INSERT INTO loans (id, user_id, loan_type, amount, interest_rate, term_months, monthly_payment, outstanding_balance, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`
	return r.db.QueryRow(ctx, query,
		loan.ID, loan.UserID, loan.LoanType, loan.Amount, loan.InterestRate,
		loan.TermMonths, loan.MonthlyPayment, loan.OutstandingBalance, loan.Status,
	).Scan(&loan.CreatedAt, &loan.UpdatedAt)
}

// FindLoanByID retrieves a loan by its primary key.
func (r *PostgresRepository) FindLoanByID(ctx context.Context, loanID uuid.UUID) (*domain.Loan, error) {
	var l domain.Loan
	query := `
		SELECT id, user_id, loan_type, amount, interest_rate, term_months, monthly_payment, outstanding_balance, status, created_at, updated_at
		FROM loans
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, loanID).Scan(
		&l.ID, &l.UserID, &l.LoanType, &l.Amount, &l.InterestRate,
		&l.TermMonths, &l.MonthlyPayment, &l.OutstandingBalance, &l.Status, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLoanNotFound
		}
		return nil, err
	}
	return &l, nil
}

// FindLoansByUserID retrieves a user's loans, newest first.
func (r *PostgresRepository) FindLoansByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Loan, error) {
	query := `
		SELECT id, user_id, loan_type, amount, interest_rate, term_months, monthly_payment, outstanding_balance, status, created_at, updated_at
		FROM loans
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var loans []domain.Loan
	for rows.Next() {
		var l domain.Loan
		if err := rows.Scan(&l.ID, &l.UserID, &l.LoanType, &l.Amount, &l.InterestRate,
			&l.TermMonths, &l.MonthlyPayment, &l.OutstandingBalance, &l.Status, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		loans = append(loans, l)
	}
	return loans, rows.Err()
}

// ApplyLoanPayment applies one loan payment in a single database transaction:
// funding-account debit, `payment` ledger row, loan balance/status update
// (conditional on the balance the caller computed against), and the immutable
// loan_payments row.
func (r *PostgresRepository) ApplyLoanPayment(ctx context.Context, params LoanPaymentParams) (*domain.LoanPayment, *domain.Transaction, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, debitAccountQuery, params.Amount, params.AccountID)
	if err != nil {
		return nil, nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, nil, r.classifyDebitFailure(ctx, tx, params.AccountID, params.Amount)
	}

	ledgerRow := &domain.Transaction{
		ID:              uuid.New(),
		FromAccountID:   params.AccountID,
		TransactionType: domain.TransactionTypePayment,
		Status:          domain.TransactionStatusCompleted,
		Amount:          params.Amount,
		ReferenceNumber: GenerateReferenceNumber(),
		Description:     params.Description,
	}
	err = tx.QueryRow(ctx, insertTransactionQuery,
		ledgerRow.ID, ledgerRow.FromAccountID, ledgerRow.ToAccountID, ledgerRow.TransactionType,
		ledgerRow.Status, ledgerRow.Amount, ledgerRow.ReferenceNumber, ledgerRow.RecipientName, ledgerRow.Description,
	).Scan(&ledgerRow.CreatedAt)
	if err != nil {
		return nil, nil, err
	}

	loanTag, err := tx.Exec(ctx, `
		UPDATE loans
		SET outstanding_balance = $1, status = $2, updated_at = now()
		WHERE id = $3 AND outstanding_balance = $4
	`, params.NewOutstanding, params.NewStatus, params.LoanID, params.ExpectedOutstanding)
	if err != nil {
		return nil, nil, err
	}
	if loanTag.RowsAffected() == 0 {
		return nil, nil, ErrLoanStateChanged
	}

	payment := &domain.LoanPayment{
		ID:              uuid.New(),
		LoanID:          params.LoanID,
		Amount:          params.Amount,
		PrincipalAmount: params.PrincipalAmount,
		InterestAmount:  params.InterestAmount,
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO loan_payments (id, loan_id, amount, principal_amount, interest_amount)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`, payment.ID, payment.LoanID, payment.Amount, payment.PrincipalAmount, payment.InterestAmount).Scan(&payment.CreatedAt)
	if err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}
	return payment, ledgerRow, nil
}

// classifyDebitFailure explains why a conditional debit affected zero rows.
func (r *PostgresRepository) classifyDebitFailure(ctx context.Context, q rowQuerier, accountID uuid.UUID, amount int64) error {
	var status string
	var balance int64
	err := q.QueryRow(ctx, `SELECT status, balance FROM accounts WHERE id = $1`, accountID).Scan(&status, &balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrAccountNotFound
		}
		return err
	}
	switch status {
	case domain.AccountStatusFrozen:
		return ErrAccountFrozen
	case domain.AccountStatusClosed:
		return ErrAccountClosed
	}
	if balance < amount {
		return ErrInsufficientFunds
	}
	return fmt.Errorf("debit of %d rejected for account %s", amount, accountID)
}

// classifyCreditFailure explains why a conditional credit affected zero rows.
func (r *PostgresRepository) classifyCreditFailure(ctx context.Context, q rowQuerier, accountID uuid.UUID) error {
	var status string
	err := q.QueryRow(ctx, `SELECT status FROM accounts WHERE id = $1`, accountID).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrAccountNotFound
		}
		return err
	}
	if status == domain.AccountStatusClosed {
		return ErrAccountClosed
	}
	return fmt.Errorf("credit rejected for account %s", accountID)
}

func scanTransactions(rows pgx.Rows) ([]domain.Transaction, error) {
	var transactions []domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		if err := rows.Scan(&t.ID, &t.FromAccountID, &t.ToAccountID, &t.TransactionType, &t.Status,
			&t.Amount, &t.ReferenceNumber, &t.RecipientName, &t.Description, &t.CreatedAt); err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

func (r *PostgresRepository) scanAccount(row pgx.Row) (*domain.Account, error) {
	var a domain.Account
	err := row.Scan(&a.ID, &a.UserID, &a.AccountNumber, &a.RoutingNumber, &a.SwiftCode,
		&a.AccountTypeID, &a.Balance, &a.Status, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &a, nil
}
