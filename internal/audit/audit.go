// Package audit assembles and publishes the immutable lifecycle record for
// a resolved evidence item: timeline, verification summary with anonymized
// inspector entries, and the resolution outcome, written to a second
// on-chain box alongside the evidence update.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/whistlechain/coordinator/internal/apperr"
	"github.com/whistlechain/coordinator/internal/ledger"
	"github.com/whistlechain/coordinator/internal/store"
	"github.com/whistlechain/coordinator/pkg/models"
)

const consensusThresholdLabel = "67%"

// VerificationLookup is the subset of the verification engine this package
// needs, satisfied by *verification.Engine.
type VerificationLookup interface {
	Get(evidenceID string) (*models.VerificationSession, error)
}

// ResolutionLookup is the subset of the resolution engine this package
// needs, satisfied by *resolution.Engine.
type ResolutionLookup interface {
	Get(evidenceID string) (*models.Resolution, error)
}

// Broadcaster pushes a lifecycle event to connected clients. Satisfied by
// the websocket hub in internal/api.
type Broadcaster interface {
	Broadcast(event string, payload any)
}

type noopBroadcaster struct{}

func (noopBroadcaster) Broadcast(string, any) {}

type Engine struct {
	gw    ledger.Gateway
	store *store.Store
	ver   VerificationLookup
	res   ResolutionLookup
	hub   Broadcaster

	mu      sync.Mutex
	records map[string]*models.AuditRecord
}

func New(gw ledger.Gateway, st *store.Store, ver VerificationLookup, res ResolutionLookup, hub Broadcaster) *Engine {
	if hub == nil {
		hub = noopBroadcaster{}
	}
	return &Engine{
		gw:      gw,
		store:   st,
		ver:     ver,
		res:     res,
		hub:     hub,
		records: make(map[string]*models.AuditRecord),
	}
}

// anonymize renders an address as its first 8 and last 4 characters joined
// by an ellipsis, never exposing the full identifier in a published record.
// Addresses of 12 characters or fewer keep only their last 4 characters
// (none at all when the address is 4 characters or shorter).
func anonymize(address string) string {
	if len(address) <= 12 {
		if len(address) <= 4 {
			return "..."
		}
		return "..." + address[len(address)-4:]
	}
	return address[:8] + "..." + address[len(address)-4:]
}

// Publish assembles the audit record for evidenceID and issues the
// publish_evidence call, which writes both the updated evidence blob
// (status PUBLISHED) and the audit summary to their respective boxes.
func (e *Engine) Publish(ctx context.Context, admin ledger.Signer, evidenceID string, counter uint64) (*models.AuditRecord, error) {
	e.mu.Lock()
	if _, reserved := e.records[evidenceID]; reserved {
		e.mu.Unlock()
		return nil, apperr.State("audit record already published for " + evidenceID)
	}
	e.records[evidenceID] = nil // reserve the slot before any I/O
	e.mu.Unlock()

	record, err := e.publish(ctx, admin, evidenceID, counter)
	if err != nil {
		e.mu.Lock()
		delete(e.records, evidenceID) // release the slot so a retry can reserve it
		e.mu.Unlock()
		return nil, err
	}

	e.mu.Lock()
	e.records[evidenceID] = record
	e.mu.Unlock()

	_, _ = e.store.Patch(evidenceID, func(ev *models.Evidence) error {
		if !models.CanAdvance(ev.Status, models.StatusPublished) {
			return nil
		}
		ev.Status = models.StatusPublished
		ev.AuditID = evidenceID
		return nil
	})

	e.hub.Broadcast("lifecycle.published", record)

	return record, nil
}

// publish does the actual assembly and ledger call. It never touches
// e.records — the caller owns reserving and filling that slot.
func (e *Engine) publish(ctx context.Context, admin ledger.Signer, evidenceID string, counter uint64) (*models.AuditRecord, error) {
	res, err := e.res.Get(evidenceID)
	if err != nil {
		return nil, apperr.State("no resolution exists for " + evidenceID)
	}
	session, err := e.ver.Get(evidenceID)
	if err != nil {
		return nil, err
	}
	evidence, err := e.store.Get(evidenceID)
	if err != nil {
		return nil, err
	}

	inspectorEntries := make([]models.AuditInspectorEntry, 0, len(session.Reveals))
	for addr, reveal := range session.Reveals {
		inspectorEntries = append(inspectorEntries, models.AuditInspectorEntry{
			AnonymizedID:    anonymize(addr),
			Verdict:         reveal.Verdict.Label(),
			JustificationID: reveal.JustificationID,
			RevealedAt:      reveal.RevealedAt,
		})
	}

	summary := models.AuditSummary{
		PanelSize:          len(session.Panel),
		CommitCount:        len(session.Commits),
		RevealCount:        len(session.Reveals),
		ConsensusThreshold: consensusThresholdLabel,
		VoteBreakdown:      session.VoteBreakdown,
		FinalVerdict:       session.FinalVerdict,
		Inspectors:         inspectorEntries,
	}

	record := &models.AuditRecord{
		EvidenceID:   evidenceID,
		Category:     evidence.Category,
		Organization: evidence.Organization,
		Timeline: models.AuditTimeline{
			Submitted:            evidence.SubmittedAt,
			VerificationStarted:  session.StartedAt,
			VerificationDeadline: session.WindowDeadline,
			Finalized:            session.FinalizedAt,
			Resolved:             &res.ResolvedAt,
		},
		Verification: summary,
		Resolution:   *res,
		PublishedAt:  time.Now().UTC(),
	}

	updatedBlob := []byte(fmt.Sprintf(`{"status":"PUBLISHED","publishedAt":%q}`, record.PublishedAt.Format(time.RFC3339)))
	auditBlob, err := json.Marshal(summary)
	if err != nil {
		return nil, fmt.Errorf("audit: marshaling summary: %w", err)
	}

	evidenceTxID, auditTxID, err := e.gw.Publish(ctx, admin, counter, updatedBlob, auditBlob)
	if err != nil {
		// Off-chain publication proceeds regardless. The ledger error is not
		// kept on the record; a failed call leaves both tx ids empty.
		record.EvidenceTxID = ""
		record.AuditTxID = ""
	} else {
		record.EvidenceTxID = evidenceTxID
		record.AuditTxID = auditTxID
	}

	return record, nil
}

func (e *Engine) Get(evidenceID string) (*models.AuditRecord, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	r, ok := e.records[evidenceID]
	if !ok || r == nil {
		return nil, apperr.NotFound("no audit record for " + evidenceID)
	}
	cp := *r
	return &cp, nil
}
