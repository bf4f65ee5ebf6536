// Package apperr classifies coordinator errors into a fixed set of kinds
// so the HTTP surface can map them onto the right status code without
// every handler re-deriving that mapping.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is one of the coordinator's error classifications.
type Kind string

const (
	KindValidation Kind = "ValidationError"
	KindState      Kind = "StateError"
	KindCrypto     Kind = "CryptoError"
	KindNotFound   Kind = "NotFound"
	KindLedger     Kind = "LedgerFailure"
	KindDependency Kind = "DependencyFailure"
)

// Error wraps an underlying cause with a kind and an optional detail payload
// (used by CryptoError to carry both the expected and computed hash).
type Error struct {
	Kind    Kind
	Message string
	Detail  map[string]any
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

func newErr(k Kind, msg string) *Error { return &Error{Kind: k, Message: msg} }

func Validation(msg string) *Error { return newErr(KindValidation, msg) }
func State(msg string) *Error      { return newErr(KindState, msg) }
func NotFound(msg string) *Error   { return newErr(KindNotFound, msg) }

func Crypto(msg string, expectedHash, computedHash string) *Error {
	return &Error{
		Kind:    KindCrypto,
		Message: msg,
		Detail: map[string]any{
			"expectedHash": expectedHash,
			"computedHash": computedHash,
		},
	}
}

func Ledger(msg string, cause error) *Error {
	return &Error{Kind: KindLedger, Message: msg, Cause: cause}
}

func Dependency(msg string, cause error) *Error {
	return &Error{Kind: KindDependency, Message: msg, Cause: cause}
}

// As extracts an *Error from err, if any wraps one.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// StatusCode maps a Kind onto its HTTP status.
func StatusCode(k Kind) int {
	switch k {
	case KindValidation, KindState, KindCrypto:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindLedger, KindDependency:
		return http.StatusOK // annotated on the record, not surfaced as a request failure
	default:
		return http.StatusInternalServerError
	}
}
