/**
 * @description
 * This file sets up the HTTP router for the transfer service. It defines the
 * API endpoints, associates them with their corresponding handlers, and
 * applies any necessary middleware, such as for authentication.
 *
 * @dependencies
 * - net/http: Standard Go library for HTTP functionality.
 * - github.com/go-chi/chi/v5: A lightweight and idiomatic router for Go.
 */

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Routes creates and returns the router for the transfer service.
func Routes(h *Handlers, jwksURL string) http.Handler {
	r := chi.NewRouter()

	// Add standard middleware for logging, panic recovery, and timeouts.
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("healthy"))
	})

	// Group routes that require authentication.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(jwksURL))

		// Accounts
		r.Post("/accounts", h.CreateAccountHandler)
		r.Get("/accounts", h.ListAccountsHandler)
		r.Get("/accounts/{accountID}", h.GetAccountHandler)
		r.Get("/accounts/{accountID}/transactions", h.ListAccountTransactionsHandler)

		// Money movement
		r.Post("/transfers", h.TransferHandler)
		r.Post("/deposits", h.DepositHandler)
		r.Post("/withdrawals", h.WithdrawHandler)

		// Ledger reads
		r.Get("/transactions", h.SearchTransactionsHandler)

		// Beneficiaries
		r.Get("/beneficiaries", h.ListBeneficiariesHandler)

		// Loans
		r.Post("/loans", h.ApplyLoanHandler)
		r.Get("/loans", h.ListLoansHandler)
		r.Get("/loans/{loanID}", h.GetLoanHandler)
		r.Post("/loans/{loanID}/payments", h.PayLoanHandler)
	})

	return r
}
