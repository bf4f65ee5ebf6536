// Package ledger is the coordinator's only window onto the chain: it builds,
// signs, groups, submits, and confirms application calls against the
// deployed evidence-registry program, and parses its logs and box reads.
// The gateway never retries — that policy belongs to the caller.
package ledger

import (
	"context"
	"crypto/ed25519"
)

// Signer produces an ed25519 signature over a transaction's canonical bytes.
// internal/wallet.Wallet satisfies this.
type Signer interface {
	Address() string
	Sign(message []byte) []byte
	PublicKey() ed25519.PublicKey
}

// Confirmation is the parsed result of a confirmed application call.
type Confirmation struct {
	TxID           string
	ConfirmedRound uint64
	Logs           [][]byte
}

// BoxValue is a raw box read.
type BoxValue struct {
	Key   []byte
	Value []byte
}

// Gateway is the application-call surface the coordinator drives.
type Gateway interface {
	// SubmitWithStake groups a payment (when stakeMicro > 0) with the
	// submit_evidence application call into one atomic group, signed by
	// the submitter, and returns the minted evidence id parsed from the
	// program's log.
	SubmitWithStake(ctx context.Context, signer Signer, category, organization, description, contentID string, stakeMicro uint64) (evidenceID string, txID string, confirmedRound uint64, err error)

	BeginVerification(ctx context.Context, admin Signer, counter uint64, windowEnd int64, panelSize int) (txID string, err error)
	Commit(ctx context.Context, inspector Signer, counter uint64, commitHash [32]byte) (txID string, err error)
	Reveal(ctx context.Context, inspector Signer, counter uint64, verdict int, nonce string, justificationID string) (txID string, err error)
	Finalize(ctx context.Context, admin Signer, counter uint64, statusBlob []byte) (txID string, err error)
	Resolve(ctx context.Context, admin Signer, counter uint64, statusCode int, refundAddress string, stakeMicro uint64, updatedBlob []byte) (txID string, err error)
	Publish(ctx context.Context, admin Signer, counter uint64, updatedBlob []byte, auditBlob []byte) (evidenceTxID string, auditTxID string, err error)

	ReadBox(ctx context.Context, key []byte) (*BoxValue, error)
	AppBalance(ctx context.Context) (uint64, error)
}
