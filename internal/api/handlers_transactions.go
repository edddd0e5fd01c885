/**
 * @description
 * This file contains the HTTP handlers for the transaction history endpoints:
 * the filtered search across all of the caller's accounts and the per-account
 * listing. Query parameters are parsed here and handed to the service as a
 * domain filter.
 */

package api

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/corebank/transfer-service/internal/domain"
	"github.com/corebank/transfer-service/internal/store"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
)

// SearchTransactionsHandler handles GET /transactions with optional filters:
// q (substring over description, recipient name, and reference number),
// from/to (RFC 3339 timestamps, inclusive), min/max (amount in cents), and
// limit/offset for pagination.
func (h *Handlers) SearchTransactionsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.authenticatedUserID(w, r)
	if !ok {
		return
	}

	filter, err := parseTransactionFilter(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	transactions, err := h.service.SearchTransactions(r.Context(), userID, filter)
	if err != nil {
		log.Printf("level=error component=api endpoint=search_transactions outcome=failed user_id=%s err=%v", userID, err)
		h.writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.writeJSON(w, http.StatusOK, transactions)
}

// ListAccountTransactionsHandler handles GET /accounts/{accountID}/transactions.
func (h *Handlers) ListAccountTransactionsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.authenticatedUserID(w, r)
	if !ok {
		return
	}

	accountID, err := uuid.Parse(chi.URLParam(r, "accountID"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid account ID format")
		return
	}

	limit, err := parseOptionalInt(r.URL.Query().Get("limit"), defaultHistoryLimit)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid limit")
		return
	}
	offset, err := parseOptionalInt(r.URL.Query().Get("offset"), 0)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid offset")
		return
	}
	if limit <= 0 || limit > maxHistoryLimit {
		limit = defaultHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}

	transactions, err := h.service.ListAccountTransactions(r.Context(), userID, accountID, limit, offset)
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			h.writeError(w, http.StatusNotFound, "Account not found")
			return
		}
		log.Printf("level=error component=api endpoint=list_account_transactions outcome=failed account_id=%s err=%v", accountID, err)
		h.writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.writeJSON(w, http.StatusOK, transactions)
}

// parseTransactionFilter builds a domain filter from the request's query
// parameters, validating each one independently.
func parseTransactionFilter(r *http.Request) (domain.TransactionFilter, error) {
	q := r.URL.Query()
	filter := domain.TransactionFilter{
		Query: strings.TrimSpace(q.Get("q")),
	}

	if raw := q.Get("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, errors.New("invalid 'from' timestamp; expected RFC 3339")
		}
		filter.From = &t
	}
	if raw := q.Get("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, errors.New("invalid 'to' timestamp; expected RFC 3339")
		}
		filter.To = &t
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return filter, errors.New("'to' must not precede 'from'")
	}

	if raw := q.Get("min"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || v < 0 {
			return filter, errors.New("invalid 'min' amount")
		}
		filter.MinAmount = &v
	}
	if raw := q.Get("max"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || v < 0 {
			return filter, errors.New("invalid 'max' amount")
		}
		filter.MaxAmount = &v
	}

	limit, err := parseOptionalInt(q.Get("limit"), defaultHistoryLimit)
	if err != nil {
		return filter, errors.New("invalid limit")
	}
	offset, err := parseOptionalInt(q.Get("offset"), 0)
	if err != nil {
		return filter, errors.New("invalid offset")
	}
	if limit <= 0 || limit > maxHistoryLimit {
		limit = defaultHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}
	filter.Limit = limit
	filter.Offset = offset

	return filter, nil
}

// parseOptionalInt parses an optional integer query parameter, returning the
// fallback when the parameter is absent.
func parseOptionalInt(raw string, fallback int) (int, error) {
	if strings.TrimSpace(raw) == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
