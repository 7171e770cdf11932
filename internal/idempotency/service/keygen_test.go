package service_test

import (
	"testing"
	"time"

	"github.com/cashdeskhq/cashdesk/internal/idempotency/domain"
	idemservice "github.com/cashdeskhq/cashdesk/internal/idempotency/service"
)

func TestDeriveKeyDeterministic(t *testing.T) {
	at := time.Date(2026, 3, 1, 14, 30, 0, 0, time.UTC)

	a := idemservice.DeriveKey(domain.OperationImportBankStatement, at, "acct-1", "hash-1")
	b := idemservice.DeriveKey(domain.OperationImportBankStatement, at, "acct-1", "hash-1")
	if a != b {
		t.Fatalf("same inputs must derive the same key: %s vs %s", a, b)
	}
	if len(a) != 64 {
		t.Fatalf("key length %d, want 64 hex chars", len(a))
	}
	if len(a) > domain.MaxKeyLength {
		t.Fatalf("derived key exceeds MaxKeyLength")
	}
}

func TestDeriveKeyNormalizesWhitespace(t *testing.T) {
	at := time.Date(2026, 3, 1, 14, 30, 0, 0, time.UTC)

	a := idemservice.DeriveKey(domain.OperationImportBankStatement, at, "acct-1", "hash-1")
	b := idemservice.DeriveKey(domain.OperationImportBankStatement, at, "  acct-1  ", "hash-1\n")
	if a != b {
		t.Fatalf("whitespace around parts must not change the key")
	}
}

func TestDeriveKeyVariesByInputs(t *testing.T) {
	at := time.Date(2026, 3, 1, 14, 30, 0, 0, time.UTC)
	base := idemservice.DeriveKey(domain.OperationImportBankStatement, at, "acct-1", "hash-1")

	if got := idemservice.DeriveKey(domain.OperationImportBankStatement, at, "acct-2", "hash-1"); got == base {
		t.Fatalf("different content must derive different keys")
	}
	if got := idemservice.DeriveKey(domain.OperationCreatePayment, at, "acct-1", "hash-1"); got == base {
		t.Fatalf("different operations must derive different keys")
	}
}

func TestDeriveKeyDayBucket(t *testing.T) {
	morning := time.Date(2026, 3, 1, 1, 0, 0, 0, time.UTC)
	evening := time.Date(2026, 3, 1, 23, 0, 0, 0, time.UTC)
	nextDay := time.Date(2026, 3, 2, 1, 0, 0, 0, time.UTC)

	a := idemservice.DeriveKey(domain.OperationImportBankStatement, morning, "acct-1", "hash-1")
	b := idemservice.DeriveKey(domain.OperationImportBankStatement, evening, "acct-1", "hash-1")
	c := idemservice.DeriveKey(domain.OperationImportBankStatement, nextDay, "acct-1", "hash-1")

	if a != b {
		t.Fatalf("same calendar day must share the bucket")
	}
	if a == c {
		t.Fatalf("different calendar days must not share the bucket")
	}
}
