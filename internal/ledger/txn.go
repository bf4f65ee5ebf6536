package ledger

import (
	"bytes"
	"crypto/sha256"
	"encoding/json"
)

// appCallTxn is the coordinator's canonical envelope for an application
// call. The real Algorand wire format is msgpack-canonical-encoded and
// outside this module's scope (the ledger is an external collaborator) —
// this envelope carries exactly the fields the on-chain program's
// selectors need and is what gets signed and POSTed.
type appCallTxn struct {
	Sender    string   `json:"sender"`
	AppID     uint64   `json:"appId"`
	Selector  string   `json:"selector"`
	AppArgs   [][]byte `json:"appArgs"`
	Boxes     [][]byte `json:"boxes"`
	Fee       uint64   `json:"fee"`
	FlatFee   bool     `json:"flatFee"`
	Note      []byte   `json:"note,omitempty"`
}

// payment is the payment leg grouped ahead of an application call whenever
// stake_micro > 0, grouped atomically with the application call.
type payment struct {
	Sender    string `json:"sender"`
	Receiver  string `json:"receiver"`
	AmountMicro uint64 `json:"amountMicro"`
}

// group is what actually gets submitted to /v2/transactions: either a lone
// application call, or a [payment, application call] atomic pair.
type group struct {
	Payment *payment    `json:"payment,omitempty"`
	AppCall *appCallTxn `json:"appCall"`
}

// canonicalBytes produces a deterministic byte representation for signing.
// json.Marshal on a struct with fixed field order is stable across calls,
// which is all the signature needs here.
func (g *group) canonicalBytes() ([]byte, error) {
	return json.Marshal(g)
}

func (g *group) hash() [32]byte {
	b, _ := g.canonicalBytes()
	return sha256.Sum256(b)
}

type signedGroup struct {
	Group     *group `json:"group"`
	Signature []byte `json:"signature"`
	Signer    string `json:"signer"`
}

func sign(g *group, signer Signer) *signedGroup {
	b, _ := g.canonicalBytes()
	return &signedGroup{
		Group:     g,
		Signature: signer.Sign(b),
		Signer:    signer.Address(),
	}
}

// flatFeeForInnerTransfer covers any call that triggers an inner transfer:
// a flat fee sufficient for both the outer and inner transaction.
const flatFeeForInnerTransfer = 2000
const defaultFee = 1000

func bytesEqual(a, b []byte) bool { return bytes.Equal(a, b) }
