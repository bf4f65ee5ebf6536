package main

import (
	"context"
	"encoding/binary"
	"fmt"
	"sync"
	"time"

	"github.com/whistlechain/coordinator/internal/ledger"
)

// memGateway is an in-memory stand-in for ledger.Gateway: it mints counters,
// stores box values, and tracks a fake app balance, so the demo scenario can
// run end to end without a live algod node. It mirrors the box key layout
// and evidence value format internal/ledger documents, so anything the demo
// reads back looks exactly like what the real gateway would hand over.
type memGateway struct {
	mu      sync.Mutex
	counter uint64
	round   uint64
	boxes   map[string][]byte
	balance uint64
}

func newMemGateway() *memGateway {
	return &memGateway{boxes: map[string][]byte{}, balance: 10_000_000_000}
}

func (g *memGateway) nextTx(label string) (string, uint64) {
	g.round++
	return fmt.Sprintf("TX-%s-%d", label, g.round), g.round
}

func (g *memGateway) SubmitWithStake(ctx context.Context, signer ledger.Signer, category, organization, description, contentID string, stakeMicro uint64) (string, string, uint64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counter++
	evidenceID := ledger.FormatEvidenceID(time.Now().Year(), g.counter)

	value := fmt.Sprintf("%s|%s|%s|%s|%s|%s|%s|%d|%s",
		contentID, category, organization, description, signer.Address(),
		be64str(uint64(time.Now().Unix())), be64str(0), stakeMicro, be64str(0))
	g.boxes[string(ledger.EvidenceBoxKey(g.counter))] = []byte(value)
	g.balance += stakeMicro

	txID, round := g.nextTx("SUBMIT")
	return evidenceID, txID, round, nil
}

func (g *memGateway) BeginVerification(ctx context.Context, admin ledger.Signer, counter uint64, windowEnd int64, panelSize int) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.boxes[string(ledger.VerificationBoxKey(counter))] = []byte(fmt.Sprintf("panel=%d;deadline=%d", panelSize, windowEnd))
	txID, _ := g.nextTx("BEGIN")
	return txID, nil
}

func (g *memGateway) Commit(ctx context.Context, inspector ledger.Signer, counter uint64, commitHash [32]byte) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	key := ledger.CommitBoxKey(counter, []byte(inspector.Address()))
	g.boxes[string(key)] = commitHash[:]
	txID, _ := g.nextTx("COMMIT")
	return txID, nil
}

func (g *memGateway) Reveal(ctx context.Context, inspector ledger.Signer, counter uint64, verdict int, nonce string, justificationID string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	key := ledger.RevealBoxKey(counter, []byte(inspector.Address()))
	g.boxes[string(key)] = []byte(fmt.Sprintf("%d|%s|%s", verdict, nonce, justificationID))
	txID, _ := g.nextTx("REVEAL")
	return txID, nil
}

func (g *memGateway) Finalize(ctx context.Context, admin ledger.Signer, counter uint64, statusBlob []byte) (string, error) {
	txID, _ := g.nextTx("FINALIZE")
	return txID, nil
}

func (g *memGateway) Resolve(ctx context.Context, admin ledger.Signer, counter uint64, statusCode int, refundAddress string, stakeMicro uint64, updatedBlob []byte) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.balance >= stakeMicro {
		g.balance -= stakeMicro
	}
	txID, _ := g.nextTx("RESOLVE")
	return txID, nil
}

func (g *memGateway) Publish(ctx context.Context, admin ledger.Signer, counter uint64, updatedBlob []byte, auditBlob []byte) (string, string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.boxes[string(ledger.AuditBoxKey(counter))] = auditBlob
	evidenceTx, _ := g.nextTx("PUBLISH-EVD")
	auditTx, _ := g.nextTx("PUBLISH-AUD")
	return evidenceTx, auditTx, nil
}

func (g *memGateway) ReadBox(ctx context.Context, key []byte) (*ledger.BoxValue, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	v, ok := g.boxes[string(key)]
	if !ok {
		return nil, fmt.Errorf("memgateway: no box for key %x", key)
	}
	return &ledger.BoxValue{Key: key, Value: v}, nil
}

func (g *memGateway) AppBalance(ctx context.Context) (uint64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.balance, nil
}

func be64str(v uint64) string {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return string(b)
}

var _ ledger.Gateway = (*memGateway)(nil)
