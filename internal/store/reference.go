/**
 * @description
 * Ledger reference number generation. Every transaction row carries a unique,
 * human-displayable reference that support staff and customers can quote.
 *
 * @notes
 * - References look like "TXN-9F2C41A07B3DE018". The 16 hex characters come
 *   from the random block of a v4 UUID, and the transactions table carries a
 *   unique constraint on reference_number as a backstop.
 */

package store

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// GenerateReferenceNumber returns a new ledger reference number. Safe for
// concurrent use.
func GenerateReferenceNumber() string {
	id := uuid.New()
	hex := strings.ReplaceAll(id.String(), "-", "")
	return fmt.Sprintf("TXN-%s", strings.ToUpper(hex[:16]))
}

// GenerateAccountNumber returns a 10-digit display account number drawn from
// UUID entropy. The accounts table carries a unique constraint as a backstop.
func GenerateAccountNumber() string {
	id := uuid.New()
	n := binary.BigEndian.Uint64(id[0:8]) % 9_000_000_000
	return fmt.Sprintf("%d", 1_000_000_000+n)
}
