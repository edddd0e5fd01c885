/**
 * @description
 * This file implements the post-transfer fraud throttle. After every
 * successful transfer or payment debit, the sender account's lifetime count of
 * transfer+payment ledger rows is compared against a threshold; reaching it
 * freezes every account the sender owns and publishes an account-blocked
 * event.
 *
 * @notes
 * - The threshold is a policy value injected at construction, not a constant.
 *   The production default (2) is an aggressive, demo-grade heuristic carried
 *   over from the system this service replaces; operators should tune it.
 * - The freeze is one-way: no unfreeze operation exists in this service.
 * - The notification publish is best-effort. Its failure is logged and
 *   swallowed and never rolls back the freeze.
 */

package app

import (
	"context"
	"log"
	"time"

	"github.com/corebank/transfer-service/internal/domain"
)

// DefaultFraudThreshold is the number of lifetime transfer+payment debits at
// which a sender's accounts are frozen.
const DefaultFraudThreshold = 2

// FraudPolicy configures the count-then-freeze rule.
type FraudPolicy struct {
	Threshold int
}

// NewFraudPolicy returns a policy with the given threshold, falling back to
// the default when the value is not positive.
func NewFraudPolicy(threshold int) FraudPolicy {
	if threshold <= 0 {
		threshold = DefaultFraudThreshold
	}
	return FraudPolicy{Threshold: threshold}
}

// applyFraudThrottle runs the count-then-freeze check for the sender account.
// Called only after a successful transfer or payment debit; errors here are
// logged and swallowed so they cannot fail the already-committed transfer.
func (s *Service) applyFraudThrottle(ctx context.Context, account *domain.Account) {
	count, err := s.repo.CountDebitTransactions(ctx, account.ID)
	if err != nil {
		log.Printf("level=error component=fraud_throttle msg=\"debit count failed\" account_id=%s err=%v", account.ID, err)
		return
	}
	if count < int64(s.fraud.Threshold) {
		return
	}

	if err := s.repo.FreezeAccountsByUserID(ctx, account.UserID); err != nil {
		log.Printf("level=error component=fraud_throttle msg=\"account freeze failed\" user_id=%s err=%v", account.UserID, err)
		return
	}
	log.Printf("level=warn component=fraud_throttle msg=\"accounts frozen\" user_id=%s debit_count=%d threshold=%d",
		account.UserID, count, s.fraud.Threshold)

	if s.events != nil {
		event := domain.AccountBlockedEvent{
			UserID:    account.UserID,
			Reason:    "transfer activity threshold reached",
			Timestamp: time.Now().UTC(),
		}
		if err := s.events.Publish(ctx, s.eventExchange, "account.blocked", event); err != nil {
			log.Printf("level=warn component=fraud_throttle msg=\"account blocked event publish failed\" user_id=%s err=%v", account.UserID, err)
		}
	}
}
