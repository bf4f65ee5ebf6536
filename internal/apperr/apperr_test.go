package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAsExtractsWrappedError(t *testing.T) {
	base := Validation("bad category")
	wrapped := fmt.Errorf("handling request: %w", base)

	ae, ok := As(wrapped)
	if !ok {
		t.Fatalf("expected As() to find the wrapped *Error")
	}
	if ae.Kind != KindValidation {
		t.Errorf("expected KindValidation, got %s", ae.Kind)
	}
}

func TestAsRejectsPlainError(t *testing.T) {
	if _, ok := As(errors.New("plain error")); ok {
		t.Fatalf("expected As() to reject a plain error")
	}
}

func TestStatusCodeMapping(t *testing.T) {
	cases := map[Kind]int{
		KindValidation: http.StatusBadRequest,
		KindState:      http.StatusBadRequest,
		KindCrypto:     http.StatusBadRequest,
		KindNotFound:   http.StatusNotFound,
		KindLedger:     http.StatusOK,
		KindDependency: http.StatusOK,
	}
	for kind, want := range cases {
		if got := StatusCode(kind); got != want {
			t.Errorf("StatusCode(%s) = %d, want %d", kind, got, want)
		}
	}
}

func TestCryptoErrorCarriesBothHashes(t *testing.T) {
	err := Crypto("hash mismatch", "aaaa", "bbbb")
	if err.Detail["expectedHash"] != "aaaa" || err.Detail["computedHash"] != "bbbb" {
		t.Errorf("expected both hashes in Detail, got %v", err.Detail)
	}
}

func TestLedgerErrorUnwraps(t *testing.T) {
	cause := errors.New("connection refused")
	err := Ledger("submit failed", cause)
	if !errors.Is(err, cause) {
		t.Errorf("expected Ledger error to unwrap to its cause")
	}
}
