package store

import (
	"regexp"
	"sync"
	"testing"
)

var referencePattern = regexp.MustCompile(`^TXN-[0-9A-F]{16}$`)
var accountNumberFormat = regexp.MustCompile(`^[1-9]\d{9}$`)

func TestGenerateReferenceNumber_Format(t *testing.T) {
	for i := 0; i < 100; i++ {
		ref := GenerateReferenceNumber()
		if !referencePattern.MatchString(ref) {
			t.Fatalf("reference %q does not match TXN-<16 uppercase hex>", ref)
		}
	}
}

func TestGenerateReferenceNumber_UniqueUnderConcurrency(t *testing.T) {
	const workers = 8
	const perWorker = 500

	var mu sync.Mutex
	seen := make(map[string]bool, workers*perWorker)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := make([]string, 0, perWorker)
			for j := 0; j < perWorker; j++ {
				local = append(local, GenerateReferenceNumber())
			}
			mu.Lock()
			defer mu.Unlock()
			for _, ref := range local {
				if seen[ref] {
					t.Errorf("duplicate reference generated: %s", ref)
				}
				seen[ref] = true
			}
		}()
	}
	wg.Wait()

	if len(seen) != workers*perWorker {
		t.Errorf("generated %d unique references, want %d", len(seen), workers*perWorker)
	}
}

func TestGenerateAccountNumber_Format(t *testing.T) {
	for i := 0; i < 100; i++ {
		number := GenerateAccountNumber()
		if !accountNumberFormat.MatchString(number) {
			t.Fatalf("account number %q is not 10 digits with a non-zero lead", number)
		}
	}
}
