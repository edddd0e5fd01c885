/**
 * @description
 * This file contains the HTTP handlers for the account and transfer endpoints.
 * Handlers are responsible for parsing incoming requests, calling the
 * appropriate methods on the application service, and writing the HTTP
 * response. They act as the bridge between the web layer and the business
 * logic layer.
 *
 * @dependencies
 * - encoding/json, log, net/http: Standard Go libraries.
 * - internal/app, internal/domain, internal/store: For service logic, models, and custom errors.
 */

package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/corebank/transfer-service/internal/app"
	"github.com/corebank/transfer-service/internal/domain"
	"github.com/corebank/transfer-service/internal/store"
)

// Handlers holds the application service that handlers will use.
type Handlers struct {
	service *app.Service
}

// NewHandlers creates a new instance of Handlers.
func NewHandlers(service *app.Service) *Handlers {
	return &Handlers{service: service}
}

// authenticatedUserID pulls the caller's identity off the request context and
// parses it as a UUID. Returns false after writing the error response.
func (h *Handlers) authenticatedUserID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userIDStr, ok := GetAuthUserID(r.Context())
	if !ok {
		h.writeError(w, http.StatusInternalServerError, "Could not get user ID from context")
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		log.Printf("level=warn component=api outcome=reject reason=invalid_user_id user_id=%s", userIDStr)
		h.writeError(w, http.StatusBadRequest, "Invalid user ID format")
		return uuid.Nil, false
	}
	return userID, true
}

// CreateAccountHandler handles requests to open a new account.
func (h *Handlers) CreateAccountHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.authenticatedUserID(w, r)
	if !ok {
		return
	}

	var req domain.CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("level=warn component=api endpoint=create_account outcome=reject reason=invalid_json err=%v", err)
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	account, err := h.service.CreateAccount(r.Context(), userID, req)
	if err != nil {
		if errors.Is(err, store.ErrAccountTypeNotFound) {
			h.writeError(w, http.StatusBadRequest, "Unknown account type")
			return
		}
		log.Printf("level=error component=api endpoint=create_account outcome=failed user_id=%s err=%v", userID, err)
		h.writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.writeJSON(w, http.StatusCreated, account)
}

// ListAccountsHandler handles requests to list the caller's accounts.
func (h *Handlers) ListAccountsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.authenticatedUserID(w, r)
	if !ok {
		return
	}

	accounts, err := h.service.ListAccounts(r.Context(), userID)
	if err != nil {
		log.Printf("level=error component=api endpoint=list_accounts outcome=failed user_id=%s err=%v", userID, err)
		h.writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.writeJSON(w, http.StatusOK, accounts)
}

// GetAccountHandler handles requests to fetch a single account by id.
func (h *Handlers) GetAccountHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.authenticatedUserID(w, r)
	if !ok {
		return
	}

	accountID, err := uuid.Parse(chi.URLParam(r, "accountID"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid account ID format")
		return
	}

	account, err := h.service.GetAccount(r.Context(), userID, accountID)
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			h.writeError(w, http.StatusNotFound, "Account not found")
			return
		}
		log.Printf("level=error component=api endpoint=get_account outcome=failed account_id=%s err=%v", accountID, err)
		h.writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.writeJSON(w, http.StatusOK, account)
}

// TransferHandler handles requests to move money out of one of the caller's
// accounts.
func (h *Handlers) TransferHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.authenticatedUserID(w, r)
	if !ok {
		return
	}

	var req domain.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("level=warn component=api endpoint=transfer outcome=reject reason=invalid_json err=%v", err)
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	log.Printf("level=info component=api endpoint=transfer outcome=accepted user_id=%s from_account=%s amount=%d", userID, req.FromAccountID, req.Amount)

	tx, err := h.service.Transfer(r.Context(), userID, req)
	if err != nil {
		log.Printf("level=warn component=api endpoint=transfer outcome=failed user_id=%s err=%v", userID, err)
		h.writeServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, tx)
}

// DepositHandler handles requests to credit one of the caller's accounts.
func (h *Handlers) DepositHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.authenticatedUserID(w, r)
	if !ok {
		return
	}

	var req domain.DepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("level=warn component=api endpoint=deposit outcome=reject reason=invalid_json err=%v", err)
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	tx, err := h.service.Deposit(r.Context(), userID, req)
	if err != nil {
		log.Printf("level=warn component=api endpoint=deposit outcome=failed user_id=%s err=%v", userID, err)
		h.writeServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, tx)
}

// WithdrawHandler handles requests to debit one of the caller's accounts.
func (h *Handlers) WithdrawHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.authenticatedUserID(w, r)
	if !ok {
		return
	}

	var req domain.WithdrawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("level=warn component=api endpoint=withdraw outcome=reject reason=invalid_json err=%v", err)
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	tx, err := h.service.Withdraw(r.Context(), userID, req)
	if err != nil {
		log.Printf("level=warn component=api endpoint=withdraw outcome=failed user_id=%s err=%v", userID, err)
		h.writeServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, tx)
}

// ListBeneficiariesHandler handles requests to list the caller's saved
// recipients.
func (h *Handlers) ListBeneficiariesHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.authenticatedUserID(w, r)
	if !ok {
		return
	}

	beneficiaries, err := h.service.ListBeneficiaries(r.Context(), userID)
	if err != nil {
		log.Printf("level=error component=api endpoint=list_beneficiaries outcome=failed user_id=%s err=%v", userID, err)
		h.writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.writeJSON(w, http.StatusOK, beneficiaries)
}

// writeServiceError maps service and store errors to HTTP statuses. Unknown
// errors become a 500 without leaking internals.
func (h *Handlers) writeServiceError(w http.ResponseWriter, err error) {
	var rateErr *app.RateLimitError
	switch {
	case errors.As(err, &rateErr):
		w.Header().Set("Retry-After", strconv.Itoa(rateErr.RetryAfterSeconds))
		h.writeError(w, http.StatusTooManyRequests, err.Error())
	case errors.Is(err, store.ErrInsufficientFunds):
		h.writeError(w, http.StatusPaymentRequired, err.Error())
	case errors.Is(err, store.ErrAccountFrozen), errors.Is(err, store.ErrAccountClosed):
		h.writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, store.ErrAccountNotFound), errors.Is(err, store.ErrLoanNotFound):
		h.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, app.ErrAmbiguousRecipient), errors.Is(err, app.ErrLoanPaidOff):
		h.writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, app.ErrInvalidAmount),
		errors.Is(err, app.ErrInvalidTerm),
		errors.Is(err, app.ErrMissingAccount),
		errors.Is(err, app.ErrLoanNotPayable),
		errors.Is(err, app.ErrPaymentBelowInterest):
		h.writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// writeJSON is a helper for writing JSON responses.
func (h *Handlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError is a helper for writing JSON error responses.
func (h *Handlers) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
