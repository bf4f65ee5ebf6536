// Command democtl drives one complete evidence lifecycle end to end —
// submission, panel selection, commit-reveal adjudication, resolution,
// bounty payout, and publication — against an in-memory ledger stand-in, so
// the whole coordination flow can be exercised without a running algod node
// or deployed application. Exit code 0 means the scenario completed and
// every invariant held; non-zero means something in the chain broke.
package main

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/whistlechain/coordinator/internal/audit"
	"github.com/whistlechain/coordinator/internal/bounty"
	"github.com/whistlechain/coordinator/internal/inspectors"
	"github.com/whistlechain/coordinator/internal/ledger"
	"github.com/whistlechain/coordinator/internal/publication"
	"github.com/whistlechain/coordinator/internal/resolution"
	"github.com/whistlechain/coordinator/internal/store"
	"github.com/whistlechain/coordinator/internal/verification"
	"github.com/whistlechain/coordinator/internal/wallet"
	"github.com/whistlechain/coordinator/pkg/models"
)

// noopBroadcaster discards lifecycle events; the demo has no websocket
// clients to notify.
type noopBroadcaster struct{}

func (noopBroadcaster) Broadcast(string, any) {}

func main() {
	if err := run(); err != nil {
		log.Printf("demo scenario failed: %v", err)
		os.Exit(1)
	}
	log.Println("demo scenario completed: submit -> verify -> resolve -> pay -> publish")
}

func run() error {
	ctx := context.Background()

	gw := newMemGateway()
	st := store.New()
	registry := inspectors.New()
	verEngine := verification.New(gw, registry, st)
	resEngine := resolution.New(gw, st, verEngine)
	btyEngine := bounty.New(resEngine, st, bounty.LoggingDisburser{})
	adtEngine := audit.New(gw, st, verEngine, resEngine, noopBroadcaster{})
	pubEngine := publication.New(publication.DefaultConnectors())

	admin, err := wallet.New()
	if err != nil {
		return fmt.Errorf("creating admin wallet: %w", err)
	}
	submitter, err := wallet.New()
	if err != nil {
		return fmt.Errorf("creating submitter wallet: %w", err)
	}

	panel := make([]*wallet.Wallet, 0, 3)
	for i := 0; i < 3; i++ {
		w, err := wallet.New()
		if err != nil {
			return fmt.Errorf("creating panel wallet %d: %w", i, err)
		}
		panel = append(panel, w)
		if err := registry.Register(models.Inspector{
			Address:         w.Address(),
			Name:            fmt.Sprintf("Inspector %d", i+1),
			Specializations: []models.Category{models.CategoryFinancial},
			Department:      "Oversight",
			Availability:    models.AvailabilityAvailable,
			Active:          true,
			RegisteredAt:    time.Now().UTC(),
		}); err != nil {
			return fmt.Errorf("registering panel wallet %d: %w", i, err)
		}
	}

	category := models.CategoryFinancial
	stakeMicro := uint64(30_000_000)
	evidenceID, txID, round, err := gw.SubmitWithStake(ctx, submitter, string(category), "Ministry of Works", "Inflated procurement invoices", "sim-bundle", stakeMicro)
	if err != nil {
		return fmt.Errorf("submitting evidence: %w", err)
	}
	log.Printf("submitted %s (tx %s, round %d)", evidenceID, txID, round)

	evidence := &models.Evidence{
		ID:               evidenceID,
		Category:         category,
		Organization:     "Ministry of Works",
		Description:      "Inflated procurement invoices",
		SubmitterAddress: submitter.Address(),
		StakeMicroUnits:  stakeMicro,
		ContentID:        "sim-bundle",
		SubmittedAt:      time.Now().UTC(),
		Status:           models.StatusPending,
		SubmitTxID:       txID,
	}
	st.Insert(evidence)

	counter, err := ledger.CounterFromEvidenceID(evidenceID)
	if err != nil {
		return fmt.Errorf("parsing evidence id: %w", err)
	}

	session, err := verEngine.Begin(ctx, admin, evidenceID, counter, category)
	if err != nil {
		return fmt.Errorf("beginning verification: %w", err)
	}
	log.Printf("panel assigned: %d inspectors, deadline %s", len(session.Panel), session.WindowDeadline)

	verdicts := []models.Verdict{models.VerdictAuthentic, models.VerdictAuthentic, models.VerdictAuthentic}
	nonces := make([]string, len(panel))
	for i, w := range panel {
		nonces[i] = fmt.Sprintf("nonce-%d-%d", i, time.Now().UnixNano())
		hash := commitHash(verdicts[i], nonces[i])
		if err := verEngine.Commit(ctx, w, evidenceID, counter, hash); err != nil {
			return fmt.Errorf("panel member %s committing: %w", w.Address(), err)
		}
	}
	log.Println("all three panel members committed")

	for i, w := range panel {
		if err := verEngine.Reveal(ctx, w, evidenceID, counter, verdicts[i], nonces[i], "justification-doc-"+w.Address()[:6]); err != nil {
			return fmt.Errorf("panel member %s revealing: %w", w.Address(), err)
		}
	}
	log.Println("all three panel members revealed")

	finalSession, err := verEngine.Finalize(ctx, admin, evidenceID, counter)
	if err != nil {
		return fmt.Errorf("finalizing verification: %w", err)
	}
	log.Printf("finalized as %s (breakdown %v)", finalSession.FinalVerdict, finalSession.VoteBreakdown)

	res, err := resEngine.Resolve(ctx, admin, evidenceID, counter, nil)
	if err != nil {
		return fmt.Errorf("resolving evidence: %w", err)
	}
	log.Printf("resolved: action %s, status %d", res.Action, res.OnChainStatus)

	payout, err := btyEngine.Process(ctx, evidenceID)
	if err != nil {
		return fmt.Errorf("processing bounty: %w", err)
	}
	log.Printf("bounty payout: %d micro-units (%s)", payout.TotalPayout, payout.Status)

	if finalSession.FinalVerdict == models.FinalVerified {
		record, err := adtEngine.Publish(ctx, admin, evidenceID, counter)
		if err != nil {
			return fmt.Errorf("publishing audit record: %w", err)
		}
		log.Printf("audit record published: %d inspectors, consensus %s", len(record.Verification.Inspectors), record.Verification.ConsensusThreshold)

		req := publication.PublishRequest{
			EvidenceID:   evidenceID,
			Category:     category,
			Organization: evidence.Organization,
			Description:  evidence.Description,
			ContentID:    evidence.ContentID,
			Counter:      counter,
		}
		pubRecord, err := pubEngine.PublishAll(ctx, req)
		if err != nil {
			return fmt.Errorf("publishing to channels: %w", err)
		}
		log.Printf("published to %d channels", len(pubRecord.Posts))
	} else {
		log.Printf("verdict %s does not qualify for publication in this run", finalSession.FinalVerdict)
	}

	return nil
}

// commitHash reproduces internal/verification's cryptographic binding so the
// demo's committed hashes check out against the real reveal path.
func commitHash(verdict models.Verdict, nonce string) [32]byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(verdict))
	buf = append(buf, []byte(nonce)...)
	return sha256.Sum256(buf)
}
