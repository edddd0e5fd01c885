/**
 * @description
 * This file implements the recipient resolver: given a free-text identifier
 * (account number, email address, or name fragment), it finds a matching
 * internal account. Resolution is ordered and the first stage that recognizes
 * the identifier's shape decides the outcome.
 *
 * @notes
 * - The result is a tagged Resolution rather than a bare account so callers
 *   can tell a confident match from a guess: a name fragment matching more
 *   than one profile is reported as ambiguous instead of silently taking the
 *   first hit.
 */

package app

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/corebank/transfer-service/internal/domain"
	"github.com/corebank/transfer-service/internal/store"
)

// ResolutionStatus tags the outcome of a recipient lookup.
type ResolutionStatus string

const (
	ResolutionExact     ResolutionStatus = "exact"
	ResolutionAmbiguous ResolutionStatus = "ambiguous"
	ResolutionNotFound  ResolutionStatus = "not_found"
)

// Resolution is the outcome of resolving a recipient identifier.
type Resolution struct {
	Status      ResolutionStatus
	Account     *domain.Account
	DisplayName string
	Candidates  int // number of distinct profile matches on the name path
}

// Display account numbers are 9-12 digits.
var accountNumberPattern = regexp.MustCompile(`^\d{9,12}$`)

// Resolver finds internal accounts from free-text recipient identifiers.
type Resolver struct {
	repo store.Repository
}

// NewResolver creates a recipient resolver backed by the given repository.
func NewResolver(repo store.Repository) *Resolver {
	return &Resolver{repo: repo}
}

// Resolve looks up an internal account for the identifier. Order, first
// recognized shape wins:
//  1. account-number shape: exact account number lookup
//  2. contains '@': identity-provider profile by email, then that user's
//     first account
//  3. otherwise: case-insensitive substring match on profile full names,
//     then the matched profile's first account
func (r *Resolver) Resolve(ctx context.Context, identifier string) (Resolution, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return Resolution{Status: ResolutionNotFound}, nil
	}

	if accountNumberPattern.MatchString(identifier) {
		return r.resolveByAccountNumber(ctx, identifier)
	}
	if strings.Contains(identifier, "@") {
		return r.resolveByEmail(ctx, identifier)
	}
	return r.resolveByName(ctx, identifier)
}

func (r *Resolver) resolveByAccountNumber(ctx context.Context, accountNumber string) (Resolution, error) {
	account, err := r.repo.FindAccountByNumber(ctx, accountNumber)
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			return Resolution{Status: ResolutionNotFound}, nil
		}
		return Resolution{}, err
	}
	return r.exact(ctx, account)
}

func (r *Resolver) resolveByEmail(ctx context.Context, email string) (Resolution, error) {
	profile, err := r.repo.FindProfileByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrProfileNotFound) {
			return Resolution{Status: ResolutionNotFound}, nil
		}
		return Resolution{}, err
	}
	return r.firstAccountOf(ctx, profile)
}

func (r *Resolver) resolveByName(ctx context.Context, fragment string) (Resolution, error) {
	// Fetch two rows so a second distinct match flags ambiguity.
	profiles, err := r.repo.SearchProfilesByName(ctx, fragment, 2)
	if err != nil {
		return Resolution{}, err
	}
	switch len(profiles) {
	case 0:
		return Resolution{Status: ResolutionNotFound}, nil
	case 1:
		return r.firstAccountOf(ctx, &profiles[0])
	default:
		return Resolution{Status: ResolutionAmbiguous, Candidates: len(profiles)}, nil
	}
}

func (r *Resolver) firstAccountOf(ctx context.Context, profile *domain.Profile) (Resolution, error) {
	accounts, err := r.repo.FindAccountsByUserID(ctx, profile.UserID)
	if err != nil {
		return Resolution{}, err
	}
	if len(accounts) == 0 {
		return Resolution{Status: ResolutionNotFound}, nil
	}
	return Resolution{Status: ResolutionExact, Account: &accounts[0], DisplayName: profile.FullName}, nil
}

// exact attaches the owning profile's display name to an account-number match.
func (r *Resolver) exact(ctx context.Context, account *domain.Account) (Resolution, error) {
	res := Resolution{Status: ResolutionExact, Account: account}
	profile, err := r.repo.FindProfileByUserID(ctx, account.UserID)
	if err != nil {
		if errors.Is(err, store.ErrProfileNotFound) {
			return res, nil
		}
		return Resolution{}, err
	}
	res.DisplayName = profile.FullName
	return res, nil
}
