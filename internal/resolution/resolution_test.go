package resolution

import (
	"context"
	"crypto/ed25519"
	"testing"

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

type stubGateway struct{}

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
	return "tx-resolve", nil
}
func (stubGateway) Publish(context.Context, ledger.Signer, uint64, []byte, []byte) (string, string, error) {
	return "", "", nil
}
func (stubGateway) ReadBox(context.Context, []byte) (*ledger.BoxValue, error) { return nil, nil }
func (stubGateway) AppBalance(context.Context) (uint64, error)                { return 0, nil }

type stubLookup struct {
	sessions map[string]*models.VerificationSession
}

func (s stubLookup) Get(evidenceID string) (*models.VerificationSession, error) {
	sess, ok := s.sessions[evidenceID]
	if !ok {
		return nil, apperrNotFound(evidenceID)
	}
	return sess, nil
}

func apperrNotFound(id string) error {
	return &notFoundErr{id}
}

type notFoundErr struct{ id string }

func (e *notFoundErr) Error() string { return "no session for " + e.id }

func TestResolveReleasesStakeOnVerified(t *testing.T) {
	st := store.New()
	st.Insert(&models.Evidence{
		ID:               "EVD-2026-00001",
		Status:           models.StatusFinalizedVerified,
		SubmitterAddress: "submitter-1",
		StakeMicroUnits:  25_000_000,
	})
	lookup := stubLookup{sessions: map[string]*models.VerificationSession{
		"EVD-2026-00001": {Phase: models.PhaseFinalized, FinalVerdict: models.FinalVerified},
	}}
	eng := New(stubGateway{}, st, lookup)

	res, err := eng.Resolve(context.Background(), stubSigner{"admin"}, "EVD-2026-00001", 1, nil)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if res.Action != models.ActionStakeReleased {
		t.Errorf("expected STAKE_RELEASED, got %s", res.Action)
	}
	if res.RefundAddress != "submitter-1" || res.RefundedMicro != 25_000_000 {
		t.Errorf("expected refund to the submitter for the full stake, got %+v", res)
	}

	evidence, _ := st.Get("EVD-2026-00001")
	if evidence.Status != models.StatusResolved {
		t.Errorf("expected evidence status RESOLVED, got %s", evidence.Status)
	}
}

func TestResolveForfeitsStakeOnRejected(t *testing.T) {
	st := store.New()
	st.Insert(&models.Evidence{ID: "EVD-2026-00002", Status: models.StatusFinalizedRejected, SubmitterAddress: "submitter-2", StakeMicroUnits: 30_000_000})
	lookup := stubLookup{sessions: map[string]*models.VerificationSession{
		"EVD-2026-00002": {Phase: models.PhaseFinalized, FinalVerdict: models.FinalRejected},
	}}
	eng := New(stubGateway{}, st, lookup)

	res, err := eng.Resolve(context.Background(), stubSigner{"admin"}, "EVD-2026-00002", 2, nil)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if res.Action != models.ActionStakeForfeited {
		t.Errorf("expected STAKE_FORFEITED, got %s", res.Action)
	}
	if res.RefundAddress != "" {
		t.Errorf("expected no refund address on forfeiture, got %s", res.RefundAddress)
	}
}

func TestResolveLocksStakeOnDisputed(t *testing.T) {
	st := store.New()
	st.Insert(&models.Evidence{ID: "EVD-2026-00003", Status: models.StatusFinalizedDisputed, SubmitterAddress: "submitter-3", StakeMicroUnits: 30_000_000})
	lookup := stubLookup{sessions: map[string]*models.VerificationSession{
		"EVD-2026-00003": {Phase: models.PhaseFinalized, FinalVerdict: models.FinalDisputed},
	}}
	eng := New(stubGateway{}, st, lookup)

	res, err := eng.Resolve(context.Background(), stubSigner{"admin"}, "EVD-2026-00003", 3, nil)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if res.Action != models.ActionStakeLocked {
		t.Errorf("expected STAKE_LOCKED, got %s", res.Action)
	}
}

func TestResolveRejectsUnfinalizedSession(t *testing.T) {
	st := store.New()
	st.Insert(&models.Evidence{ID: "EVD-2026-00004", Status: models.StatusUnderVerification})
	lookup := stubLookup{sessions: map[string]*models.VerificationSession{
		"EVD-2026-00004": {Phase: models.PhaseReveal},
	}}
	eng := New(stubGateway{}, st, lookup)

	if _, err := eng.Resolve(context.Background(), stubSigner{"admin"}, "EVD-2026-00004", 4, nil); err == nil {
		t.Fatalf("expected Resolve() to reject a non-finalized session")
	}
}

func TestResolveRejectsDuplicate(t *testing.T) {
	st := store.New()
	st.Insert(&models.Evidence{ID: "EVD-2026-00005", Status: models.StatusFinalizedVerified, SubmitterAddress: "s", StakeMicroUnits: 1})
	lookup := stubLookup{sessions: map[string]*models.VerificationSession{
		"EVD-2026-00005": {Phase: models.PhaseFinalized, FinalVerdict: models.FinalVerified},
	}}
	eng := New(stubGateway{}, st, lookup)
	ctx := context.Background()

	if _, err := eng.Resolve(ctx, stubSigner{"admin"}, "EVD-2026-00005", 5, nil); err != nil {
		t.Fatalf("first Resolve() error: %v", err)
	}
	if _, err := eng.Resolve(ctx, stubSigner{"admin"}, "EVD-2026-00005", 5, nil); err == nil {
		t.Fatalf("expected a second Resolve() for the same evidence id to fail")
	}
}

func TestGetReturnsStoredResolution(t *testing.T) {
	st := store.New()
	st.Insert(&models.Evidence{ID: "EVD-2026-00006", Status: models.StatusFinalizedVerified, SubmitterAddress: "s", StakeMicroUnits: 1})
	lookup := stubLookup{sessions: map[string]*models.VerificationSession{
		"EVD-2026-00006": {Phase: models.PhaseFinalized, FinalVerdict: models.FinalVerified},
	}}
	eng := New(stubGateway{}, st, lookup)
	if _, err := eng.Resolve(context.Background(), stubSigner{"admin"}, "EVD-2026-00006", 6, nil); err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if _, err := eng.Get("EVD-2026-00006"); err != nil {
		t.Errorf("expected Get() to find the resolution, error: %v", err)
	}
	if _, err := eng.Get("missing"); err == nil {
		t.Errorf("expected Get() for an unknown id to fail")
	}
}
