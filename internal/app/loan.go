/**
 * @description
 * This file implements loan pricing and loan payments: the fixed type→rate
 * table, the standard fixed-payment annuity quote, and the application of a
 * payment against a loan's current outstanding balance.
 *
 * @notes
 * - Interest for a payment is accrued on the loan's *current* outstanding
 *   balance at payment time, not on a schedule fixed at origination. Total
 *   interest paid therefore drifts from the original quote when payment
 *   amounts vary.
 * - A payment smaller than the accrued interest is rejected: accepting it
 *   would grow the outstanding balance, violating its monotonic decrease
 *   toward zero.
 */

package app

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/corebank/transfer-service/internal/domain"
	"github.com/corebank/transfer-service/internal/store"
)

// Annual interest rates (percent) by loan type.
var loanRateTable = map[string]float64{
	"personal": 8.5,
	"auto":     5.5,
	"home":     3.5,
	"student":  4.5,
	"business": 7.0,
}

// DefaultLoanRate applies to loan types missing from the table.
const DefaultLoanRate = 8.0

// RateForLoanType returns the annual rate (percent) for a loan type.
func RateForLoanType(loanType string) float64 {
	if rate, ok := loanRateTable[strings.ToLower(strings.TrimSpace(loanType))]; ok {
		return rate
	}
	return DefaultLoanRate
}

// MonthlyPayment computes the fixed monthly payment in cents using the
// standard annuity formula M = P*r*(1+r)^n / ((1+r)^n - 1) with r the monthly
// rate and n the term in months. A zero rate degenerates to straight P/n.
func MonthlyPayment(principal int64, annualRatePercent float64, termMonths int) int64 {
	if principal <= 0 || termMonths <= 0 {
		return 0
	}
	r := annualRatePercent / 100 / 12
	if r == 0 {
		return int64(math.Round(float64(principal) / float64(termMonths)))
	}
	growth := math.Pow(1+r, float64(termMonths))
	return int64(math.Round(float64(principal) * r * growth / (growth - 1)))
}

// QuoteLoan prices a loan application deterministically from the rate table
// and the annuity formula.
func QuoteLoan(loanType string, principal int64, termMonths int) domain.LoanQuote {
	rate := RateForLoanType(loanType)
	return domain.LoanQuote{
		LoanType:       strings.ToLower(strings.TrimSpace(loanType)),
		InterestRate:   rate,
		MonthlyPayment: MonthlyPayment(principal, rate, termMonths),
	}
}

// monthlyInterest accrues one month of interest on an outstanding balance,
// rounded to cents.
func monthlyInterest(outstanding int64, annualRatePercent float64) int64 {
	return int64(math.Round(float64(outstanding) * annualRatePercent / 100 / 12))
}

// ApplyLoan prices and creates a loan for the user. The loan starts active
// with its full principal outstanding and the quote captured at application
// time.
func (s *Service) ApplyLoan(ctx context.Context, userID uuid.UUID, req domain.ApplyLoanRequest) (*domain.Loan, error) {
	if req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if req.TermMonths <= 0 || req.TermMonths > 480 {
		return nil, ErrInvalidTerm
	}

	quote := QuoteLoan(req.LoanType, req.Amount, req.TermMonths)
	loan := &domain.Loan{
		ID:                 uuid.New(),
		UserID:             userID,
		LoanType:           quote.LoanType,
		Amount:             req.Amount,
		InterestRate:       quote.InterestRate,
		TermMonths:         req.TermMonths,
		MonthlyPayment:     quote.MonthlyPayment,
		OutstandingBalance: req.Amount,
		Status:             domain.LoanStatusActive,
	}
	if err := s.repo.CreateLoan(ctx, loan); err != nil {
		return nil, fmt.Errorf("failed to create loan: %w", err)
	}

	log.Printf("level=info component=loans msg=\"loan created\" loan_id=%s user_id=%s type=%s amount=%d rate=%.2f term_months=%d monthly_payment=%d",
		loan.ID, userID, loan.LoanType, loan.Amount, loan.InterestRate, loan.TermMonths, loan.MonthlyPayment)
	return loan, nil
}

// PayLoan applies a payment to a loan. Interest is accrued on the current
// outstanding balance; the remainder reduces principal. The payment is funded
// by debiting the given account and appears in the ledger as a `payment` row,
// which also feeds the fraud throttle.
func (s *Service) PayLoan(ctx context.Context, userID, loanID uuid.UUID, req domain.LoanPaymentRequest) (*domain.LoanPayment, error) {
	if req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	loan, err := s.repo.FindLoanByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if loan.UserID != userID {
		return nil, store.ErrLoanNotFound
	}
	if loan.Status == domain.LoanStatusPaidOff {
		return nil, ErrLoanPaidOff
	}
	if loan.Status != domain.LoanStatusActive {
		return nil, ErrLoanNotPayable
	}

	account, err := s.ownedAccount(ctx, userID, req.AccountID)
	if err != nil {
		return nil, err
	}

	interest := monthlyInterest(loan.OutstandingBalance, loan.InterestRate)
	if req.Amount < interest {
		return nil, ErrPaymentBelowInterest
	}
	principal := req.Amount - interest
	newOutstanding := loan.OutstandingBalance - principal
	if newOutstanding < 0 {
		newOutstanding = 0
	}
	newStatus := domain.LoanStatusActive
	if newOutstanding == 0 {
		newStatus = domain.LoanStatusPaidOff
	}

	payment, ledgerRow, err := s.repo.ApplyLoanPayment(ctx, store.LoanPaymentParams{
		LoanID:              loan.ID,
		AccountID:           account.ID,
		Amount:              req.Amount,
		InterestAmount:      interest,
		PrincipalAmount:     principal,
		ExpectedOutstanding: loan.OutstandingBalance,
		NewOutstanding:      newOutstanding,
		NewStatus:           newStatus,
		Description:         fmt.Sprintf("Loan payment %s", loan.ID),
	})
	if err != nil {
		return nil, err
	}

	log.Printf("level=info component=loans msg=\"loan payment applied\" loan_id=%s amount=%d interest=%d principal=%d outstanding=%d status=%s",
		loan.ID, req.Amount, interest, principal, newOutstanding, newStatus)

	s.applyFraudThrottle(ctx, account)
	s.publishSettled(ctx, ledgerRow)

	return payment, nil
}

// GetLoan retrieves one of the user's loans.
func (s *Service) GetLoan(ctx context.Context, userID, loanID uuid.UUID) (*domain.Loan, error) {
	loan, err := s.repo.FindLoanByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if loan.UserID != userID {
		return nil, store.ErrLoanNotFound
	}
	return loan, nil
}

// ListLoans retrieves all of the user's loans.
func (s *Service) ListLoans(ctx context.Context, userID uuid.UUID) ([]domain.Loan, error) {
	return s.repo.FindLoansByUserID(ctx, userID)
}
