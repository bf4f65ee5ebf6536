package audit

import (
	"context"
	"crypto/ed25519"
	"testing"
	"time"

	"github.com/whistlechain/coordinator/internal/ledger"
	"github.com/whistlechain/coordinator/internal/store"
	"github.com/whistlechain/coordinator/pkg/models"
)

type stubSigner struct{ addr string }

func (s stubSigner) Address() string      { return s.addr }
func (s stubSigner) Sign(b []byte) []byte { return b }
func (s stubSigner) PublicKey() ed25519.PublicKey {
	pub, _, _ := ed25519.GenerateKey(nil)
	return pub
}

type stubGateway struct{ publishErr error }

func (stubGateway) SubmitWithStake(context.Context, ledger.Signer, string, string, string, string, uint64) (string, string, uint64, error) {
	return "", "", 0, nil
}
func (stubGateway) BeginVerification(context.Context, ledger.Signer, uint64, int64, int) (string, error) {
	return "", nil
}
func (stubGateway) Commit(context.Context, ledger.Signer, uint64, [32]byte) (string, error) {
	return "", nil
}
func (stubGateway) Reveal(context.Context, ledger.Signer, uint64, int, string, string) (string, error) {
	return "", nil
}
func (stubGateway) Finalize(context.Context, ledger.Signer, uint64, []byte) (string, error) {
	return "", nil
}
func (stubGateway) Resolve(context.Context, ledger.Signer, uint64, int, string, uint64, []byte) (string, error) {
	return "", nil
}
func (g stubGateway) Publish(context.Context, ledger.Signer, uint64, []byte, []byte) (string, string, error) {
	if g.publishErr != nil {
		return "", "", g.publishErr
	}
	return "tx-evd", "tx-aud", nil
}
func (stubGateway) ReadBox(context.Context, []byte) (*ledger.BoxValue, error) { return nil, nil }
func (stubGateway) AppBalance(context.Context) (uint64, error)                { return 0, nil }

type stubVerLookup struct {
	sessions map[string]*models.VerificationSession
}

func (s stubVerLookup) Get(evidenceID string) (*models.VerificationSession, error) {
	sess, ok := s.sessions[evidenceID]
	if !ok {
		return nil, &missingErr{evidenceID}
	}
	return sess, nil
}

type stubResLookup struct {
	resolutions map[string]*models.Resolution
}

func (s stubResLookup) Get(evidenceID string) (*models.Resolution, error) {
	r, ok := s.resolutions[evidenceID]
	if !ok {
		return nil, &missingErr{evidenceID}
	}
	return r, nil
}

type missingErr struct{ id string }

func (e *missingErr) Error() string { return "missing " + e.id }

type recordingBroadcaster struct {
	events []string
}

func (b *recordingBroadcaster) Broadcast(event string, _ any) {
	b.events = append(b.events, event)
}

func seedForAudit(st *store.Store, id string) {
	st.Insert(&models.Evidence{
		ID:           id,
		Category:     models.CategoryFinancial,
		Organization: "Acme Corp",
		SubmittedAt:  time.Now().UTC().Add(-72 * time.Hour),
	})
}

func TestPublishAssemblesRecordAndAnonymizesInspectors(t *testing.T) {
	st := store.New()
	seedForAudit(st, "EVD-2026-00001")
	now := time.Now().UTC()
	session := &models.VerificationSession{
		Panel:          []models.PanelMember{{Address: "insp-1"}, {Address: "insp-2"}, {Address: "insp-3"}},
		Commits:        map[string]models.Commit{"insp-1": {}, "insp-2": {}, "insp-3": {}},
		Reveals: map[string]models.Reveal{
			"insp-1": {Verdict: models.VerdictAuthentic, JustificationID: "just-1", RevealedAt: now},
		},
		StartedAt:      now.Add(-time.Hour),
		WindowDeadline: now.Add(71 * time.Hour),
		FinalVerdict:   models.FinalVerified,
		FinalizedAt:    &now,
	}
	verLookup := stubVerLookup{sessions: map[string]*models.VerificationSession{"EVD-2026-00001": session}}
	resLookup := stubResLookup{resolutions: map[string]*models.Resolution{
		"EVD-2026-00001": {EvidenceID: "EVD-2026-00001", FinalVerdict: models.FinalVerified, ResolvedAt: now},
	}}
	hub := &recordingBroadcaster{}
	eng := New(stubGateway{}, st, verLookup, resLookup, hub)

	record, err := eng.Publish(context.Background(), stubSigner{"admin"}, "EVD-2026-00001", 1)
	if err != nil {
		t.Fatalf("Publish() error: %v", err)
	}
	if len(record.Verification.Inspectors) != 1 {
		t.Fatalf("expected 1 inspector entry, got %d", len(record.Verification.Inspectors))
	}
	if record.Verification.Inspectors[0].AnonymizedID == "insp-1" {
		t.Errorf("expected the inspector address to be anonymized")
	}
	if len(hub.events) != 1 || hub.events[0] != "lifecycle.published" {
		t.Errorf("expected a single lifecycle.published broadcast, got %v", hub.events)
	}

	evidence, _ := st.Get("EVD-2026-00001")
	if evidence.Status != models.StatusPublished {
		t.Errorf("expected evidence status PUBLISHED, got %s", evidence.Status)
	}
}

func TestPublishRejectsDuplicate(t *testing.T) {
	st := store.New()
	seedForAudit(st, "EVD-2026-00002")
	now := time.Now().UTC()
	session := &models.VerificationSession{FinalVerdict: models.FinalVerified, FinalizedAt: &now}
	verLookup := stubVerLookup{sessions: map[string]*models.VerificationSession{"EVD-2026-00002": session}}
	resLookup := stubResLookup{resolutions: map[string]*models.Resolution{
		"EVD-2026-00002": {EvidenceID: "EVD-2026-00002", FinalVerdict: models.FinalVerified, ResolvedAt: now},
	}}
	eng := New(stubGateway{}, st, verLookup, resLookup, nil)
	ctx := context.Background()

	if _, err := eng.Publish(ctx, stubSigner{"admin"}, "EVD-2026-00002", 2); err != nil {
		t.Fatalf("first Publish() error: %v", err)
	}
	if _, err := eng.Publish(ctx, stubSigner{"admin"}, "EVD-2026-00002", 2); err == nil {
		t.Fatalf("expected a second Publish() for the same evidence id to fail")
	}
}

func TestPublishToleratesLedgerFailure(t *testing.T) {
	st := store.New()
	seedForAudit(st, "EVD-2026-00003")
	now := time.Now().UTC()
	session := &models.VerificationSession{FinalVerdict: models.FinalVerified, FinalizedAt: &now}
	verLookup := stubVerLookup{sessions: map[string]*models.VerificationSession{"EVD-2026-00003": session}}
	resLookup := stubResLookup{resolutions: map[string]*models.Resolution{
		"EVD-2026-00003": {EvidenceID: "EVD-2026-00003", FinalVerdict: models.FinalVerified, ResolvedAt: now},
	}}
	eng := New(stubGateway{publishErr: errBoom}, st, verLookup, resLookup, nil)

	record, err := eng.Publish(context.Background(), stubSigner{"admin"}, "EVD-2026-00003", 3)
	if err != nil {
		t.Fatalf("expected Publish() to succeed off-chain despite a ledger failure, got: %v", err)
	}
	if record.EvidenceTxID != "" || record.AuditTxID != "" {
		t.Errorf("expected empty tx ids when the ledger call fails, got %+v", record)
	}
}

func TestGetReturnsPublishedRecord(t *testing.T) {
	st := store.New()
	seedForAudit(st, "EVD-2026-00004")
	now := time.Now().UTC()
	session := &models.VerificationSession{FinalVerdict: models.FinalVerified, FinalizedAt: &now}
	verLookup := stubVerLookup{sessions: map[string]*models.VerificationSession{"EVD-2026-00004": session}}
	resLookup := stubResLookup{resolutions: map[string]*models.Resolution{
		"EVD-2026-00004": {EvidenceID: "EVD-2026-00004", FinalVerdict: models.FinalVerified, ResolvedAt: now},
	}}
	eng := New(stubGateway{}, st, verLookup, resLookup, nil)
	if _, err := eng.Publish(context.Background(), stubSigner{"admin"}, "EVD-2026-00004", 4); err != nil {
		t.Fatalf("Publish() error: %v", err)
	}
	if _, err := eng.Get("EVD-2026-00004"); err != nil {
		t.Errorf("expected Get() to find the record, error: %v", err)
	}
	if _, err := eng.Get("missing"); err == nil {
		t.Errorf("expected Get() for an unknown id to fail")
	}
}

type boomErr struct{}

func (boomErr) Error() string { return "boom" }

var errBoom = boomErr{}
