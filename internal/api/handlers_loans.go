/**
 * @description
 * This file contains the HTTP handlers for the loan endpoints: applying for a
 * loan, listing and fetching loans, and making payments against an active
 * loan.
 */

package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/corebank/transfer-service/internal/domain"
)

// ApplyLoanHandler handles requests to apply for a loan. The loan is priced
// from the fixed rate table and activated immediately with its full principal
// outstanding.
func (h *Handlers) ApplyLoanHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.authenticatedUserID(w, r)
	if !ok {
		return
	}

	var req domain.ApplyLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("level=warn component=api endpoint=apply_loan outcome=reject reason=invalid_json err=%v", err)
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	loan, err := h.service.ApplyLoan(r.Context(), userID, req)
	if err != nil {
		log.Printf("level=warn component=api endpoint=apply_loan outcome=failed user_id=%s err=%v", userID, err)
		h.writeServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, loan)
}

// ListLoansHandler handles requests to list the caller's loans.
func (h *Handlers) ListLoansHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.authenticatedUserID(w, r)
	if !ok {
		return
	}

	loans, err := h.service.ListLoans(r.Context(), userID)
	if err != nil {
		log.Printf("level=error component=api endpoint=list_loans outcome=failed user_id=%s err=%v", userID, err)
		h.writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.writeJSON(w, http.StatusOK, loans)
}

// GetLoanHandler handles requests to fetch a single loan by id.
func (h *Handlers) GetLoanHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.authenticatedUserID(w, r)
	if !ok {
		return
	}

	loanID, err := uuid.Parse(chi.URLParam(r, "loanID"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid loan ID format")
		return
	}

	loan, err := h.service.GetLoan(r.Context(), userID, loanID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, loan)
}

// PayLoanHandler handles requests to apply a payment against a loan. The
// payment is funded by debiting one of the caller's accounts.
func (h *Handlers) PayLoanHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.authenticatedUserID(w, r)
	if !ok {
		return
	}

	loanID, err := uuid.Parse(chi.URLParam(r, "loanID"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid loan ID format")
		return
	}

	var req domain.LoanPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("level=warn component=api endpoint=pay_loan outcome=reject reason=invalid_json err=%v", err)
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.AccountID == uuid.Nil {
		h.writeError(w, http.StatusBadRequest, "account_id is required")
		return
	}

	payment, err := h.service.PayLoan(r.Context(), userID, loanID, req)
	if err != nil {
		log.Printf("level=warn component=api endpoint=pay_loan outcome=failed loan_id=%s user_id=%s err=%v", loanID, userID, err)
		h.writeServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, payment)
}
