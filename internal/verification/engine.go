// Package verification implements the commit-reveal adjudication engine:
// panel selection, commit/reveal bookkeeping, cryptographic binding checks,
// and the weighted-consensus tally that decides VERIFIED/REJECTED/DISPUTED.
package verification

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/whistlechain/coordinator/internal/apperr"
	"github.com/whistlechain/coordinator/internal/inspectors"
	"github.com/whistlechain/coordinator/internal/ledger"
	"github.com/whistlechain/coordinator/internal/store"
	"github.com/whistlechain/coordinator/pkg/models"
)

var errNotEnoughInspectors = errors.New("verification: fewer than 3 eligible inspectors available")

// categoryWindow is how long a panel has to commit and reveal, keyed by
// category.
var categoryWindow = map[models.Category]time.Duration{
	models.CategoryFinancial:    72 * time.Hour,
	models.CategoryConstruction: 168 * time.Hour,
	models.CategoryFood:         48 * time.Hour,
	models.CategoryAcademic:     72 * time.Hour,
}

const consensusThreshold = 0.67

// Engine owns one VerificationSession per evidence item and guards each
// with its own mutex so concurrent commits from different panel members
// never race on the same session.
type Engine struct {
	gw    ledger.Gateway
	reg   *inspectors.Registry
	store *store.Store

	mu       sync.RWMutex
	sessions map[string]*sessionGuard
}

type sessionGuard struct {
	mu      sync.Mutex
	session *models.VerificationSession
}

func New(gw ledger.Gateway, reg *inspectors.Registry, st *store.Store) *Engine {
	return &Engine{
		gw:       gw,
		reg:      reg,
		store:    st,
		sessions: make(map[string]*sessionGuard),
	}
}

func (e *Engine) guardFor(evidenceID string) (*sessionGuard, bool) {
	e.mu.RLock()
	g, ok := e.sessions[evidenceID]
	e.mu.RUnlock()
	return g, ok
}

// Begin opens a commit-reveal session for evidenceID: it draws a panel from
// the category-specialized pool (falling back to the full active roster),
// records the window deadline, and issues the begin_verification call.
func (e *Engine) Begin(ctx context.Context, admin ledger.Signer, evidenceID string, counter uint64, category models.Category) (*models.VerificationSession, error) {
	if _, exists := e.guardFor(evidenceID); exists {
		return nil, apperr.State("verification session already exists for " + evidenceID)
	}

	specialized := e.reg.Pool(category)
	fullPool := e.reg.Pool("")
	panel, err := selectPanel(specialized, fullPool)
	if err != nil {
		return nil, apperr.Validation(err.Error())
	}

	now := time.Now().UTC()
	window, ok := categoryWindow[category]
	if !ok {
		return nil, apperr.Validation(fmt.Sprintf("unknown category %q", category))
	}
	deadline := now.Add(window)

	members := make([]models.PanelMember, 0, len(panel))
	for _, ins := range panel {
		members = append(members, models.PanelMember{
			Address:    ins.Address,
			Name:       ins.Name,
			Department: ins.Department,
			AssignedAt: now,
		})
		if err := e.reg.AssignCase(ins.Address, evidenceID); err != nil {
			log.Printf("verification: assigning case to %s: %v", ins.Address, err)
		}
	}

	session := &models.VerificationSession{
		EvidenceID:     evidenceID,
		Category:       category,
		Phase:          models.PhaseCommit,
		StartedAt:      now,
		WindowDeadline: deadline,
		Panel:          members,
		Commits:        make(map[string]models.Commit),
		Reveals:        make(map[string]models.Reveal),
	}

	txID, err := e.gw.BeginVerification(ctx, admin, counter, deadline.Unix(), len(members))
	if err != nil {
		session.OnChainErr = err.Error()
		log.Printf("verification: begin_verification ledger call failed for %s: %v", evidenceID, err)
	} else {
		session.BeginTxID = txID
	}

	e.mu.Lock()
	e.sessions[evidenceID] = &sessionGuard{session: session}
	e.mu.Unlock()

	_, _ = e.store.Patch(evidenceID, func(ev *models.Evidence) error {
		if !models.CanAdvance(ev.Status, models.StatusUnderVerification) {
			return nil
		}
		ev.Status = models.StatusUnderVerification
		ev.VerificationSessionID = evidenceID
		return nil
	})

	return session, nil
}

// Get returns a copy of the session for read paths.
func (e *Engine) Get(evidenceID string) (*models.VerificationSession, error) {
	g, ok := e.guardFor(evidenceID)
	if !ok {
		return nil, apperr.NotFound("no verification session for " + evidenceID)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	cp := *g.session
	return &cp, nil
}

// Commit records an inspector's sealed verdict hash. It auto-advances the
// session to REVEAL once every panel seat has committed.
func (e *Engine) Commit(ctx context.Context, inspector ledger.Signer, evidenceID string, counter uint64, commitHash [32]byte) error {
	g, ok := e.guardFor(evidenceID)
	if !ok {
		return apperr.NotFound("no verification session for " + evidenceID)
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	s := g.session
	if s.Phase != models.PhaseCommit {
		return apperr.State("session is not in COMMIT phase")
	}
	if !s.PanelAddresses()[inspector.Address()] {
		return apperr.Validation("inspector is not assigned to this panel")
	}
	if _, already := s.Commits[inspector.Address()]; already {
		return apperr.State("inspector has already committed")
	}
	if time.Now().UTC().After(s.WindowDeadline) {
		return apperr.State("verification window has closed")
	}

	now := time.Now().UTC()
	s.Commits[inspector.Address()] = models.Commit{
		Hash:        commitHash,
		HashHex:     hex.EncodeToString(commitHash[:]),
		CommittedAt: now,
	}

	txID, err := e.gw.Commit(ctx, inspector, counter, commitHash)
	if err != nil {
		s.OnChainErr = err.Error()
		log.Printf("verification: commit ledger call failed for %s: %v", evidenceID, err)
	} else {
		_ = txID
	}

	if len(s.Commits) == len(s.Panel) {
		s.Phase = models.PhaseReveal
	}
	return nil
}

// AdvanceToReveal is the operator escape hatch: once at least 3 panel
// members have committed, the window can be closed early without waiting
// for stragglers.
func (e *Engine) AdvanceToReveal(evidenceID string) error {
	g, ok := e.guardFor(evidenceID)
	if !ok {
		return apperr.NotFound("no verification session for " + evidenceID)
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	s := g.session
	if s.Phase != models.PhaseCommit {
		return apperr.State("session is not in COMMIT phase")
	}
	if len(s.Commits) < minPanelSize {
		return apperr.State("fewer than 3 commits recorded")
	}
	s.Phase = models.PhaseReveal
	return nil
}

// commitHash reproduces the cryptographic binding check: SHA-256 of the
// big-endian verdict concatenated with the UTF-8 nonce.
func commitHash(verdict models.Verdict, nonce string) [32]byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(verdict))
	buf = append(buf, []byte(nonce)...)
	return sha256.Sum256(buf)
}

const minJustificationLen = 5

// Reveal opens an inspector's sealed commit, checking the hash binding
// before storing anything. A mismatch is a tamper event: it's reported to
// the caller with both hashes and logged, and the reveal is discarded.
func (e *Engine) Reveal(ctx context.Context, inspector ledger.Signer, evidenceID string, counter uint64, verdict models.Verdict, nonce, justificationID string) error {
	g, ok := e.guardFor(evidenceID)
	if !ok {
		return apperr.NotFound("no verification session for " + evidenceID)
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	s := g.session
	if s.Phase != models.PhaseReveal {
		return apperr.State("session is not in REVEAL phase")
	}
	commit, committed := s.Commits[inspector.Address()]
	if !committed {
		return apperr.Validation("inspector did not commit in this session")
	}
	if _, already := s.Reveals[inspector.Address()]; already {
		return apperr.State("inspector has already revealed")
	}
	if len(justificationID) < minJustificationLen {
		return apperr.Validation("justification id too short")
	}
	if !models.ValidVerdict(verdict) {
		return apperr.Validation("verdict must be 1 (AUTHENTIC), 2 (FAKE), or 3 (INCONCLUSIVE)")
	}

	computed := commitHash(verdict, nonce)
	if computed != commit.Hash {
		log.Printf("verification: tamper event — hash mismatch for %s/%s", evidenceID, inspector.Address())
		return apperr.Crypto(
			"revealed verdict does not match the committed hash",
			commit.HashHex,
			hex.EncodeToString(computed[:]),
		)
	}

	s.Reveals[inspector.Address()] = models.Reveal{
		Verdict:         verdict,
		Nonce:           nonce,
		JustificationID: justificationID,
		RevealedAt:      time.Now().UTC(),
	}

	txID, err := e.gw.Reveal(ctx, inspector, counter, int(verdict), nonce, justificationID)
	if err != nil {
		s.OnChainErr = err.Error()
		log.Printf("verification: reveal ledger call failed for %s: %v", evidenceID, err)
	} else {
		_ = txID
	}
	return nil
}

const minReveals = 3

// Finalize tallies every reveal by credibility-weighted share, decides the
// final verdict, updates each revealing inspector's reputation, and issues
// the finalize_verification call.
func (e *Engine) Finalize(ctx context.Context, admin ledger.Signer, evidenceID string, counter uint64) (*models.VerificationSession, error) {
	g, ok := e.guardFor(evidenceID)
	if !ok {
		return nil, apperr.NotFound("no verification session for " + evidenceID)
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	s := g.session
	if len(s.Reveals) < minReveals {
		return nil, apperr.State("fewer than 3 reveals recorded")
	}

	weightByVerdict := map[models.Verdict]float64{}
	totalWeight := 0.0
	weightOf := make(map[string]float64, len(s.Reveals))

	for addr, reveal := range s.Reveals {
		w, err := e.reg.CredibilityOf(addr)
		if err != nil {
			w = 1.0
		}
		weightOf[addr] = w
		weightByVerdict[reveal.Verdict] += w
		totalWeight += w
	}
	if totalWeight == 0 {
		totalWeight = 1.0
	}

	authenticShare := weightByVerdict[models.VerdictAuthentic] / totalWeight
	fakeShare := weightByVerdict[models.VerdictFake] / totalWeight

	var final models.FinalVerdict
	switch {
	case authenticShare >= consensusThreshold:
		final = models.FinalVerified
	case fakeShare >= consensusThreshold:
		final = models.FinalRejected
	default:
		final = models.FinalDisputed
	}

	breakdown := models.VoteBreakdown{
		models.VerdictAuthentic.Label():    round1pct(weightByVerdict[models.VerdictAuthentic] / totalWeight),
		models.VerdictFake.Label():         round1pct(weightByVerdict[models.VerdictFake] / totalWeight),
		models.VerdictInconclusive.Label(): round1pct(weightByVerdict[models.VerdictInconclusive] / totalWeight),
	}

	decisionVerdict := decisionNumericVerdict(final)
	for addr, reveal := range s.Reveals {
		matched := decisionVerdict != 0 && reveal.Verdict == decisionVerdict
		if _, err := e.reg.RecordVote(addr, matched); err != nil {
			log.Printf("verification: recording vote for %s: %v", addr, err)
		}
	}

	now := time.Now().UTC()
	s.FinalVerdict = final
	s.VoteBreakdown = breakdown
	s.FinalizedAt = &now
	s.Phase = models.PhaseFinalized

	statusBlob := []byte(fmt.Sprintf(`{"finalVerdict":%q,"finalizedAt":%q}`, final, now.Format(time.RFC3339)))
	txID, err := e.gw.Finalize(ctx, admin, counter, statusBlob)
	if err != nil {
		s.OnChainErr = err.Error()
		log.Printf("verification: finalize ledger call failed for %s: %v", evidenceID, err)
	} else {
		s.FinalizeTxID = txID
	}

	finalStatus := finalizedStatusFor(final)
	_, _ = e.store.Patch(evidenceID, func(ev *models.Evidence) error {
		if !models.CanAdvance(ev.Status, finalStatus) {
			return nil
		}
		ev.Status = finalStatus
		return nil
	})

	cp := *s
	return &cp, nil
}

func finalizedStatusFor(v models.FinalVerdict) models.Status {
	switch v {
	case models.FinalVerified:
		return models.StatusFinalizedVerified
	case models.FinalRejected:
		return models.StatusFinalizedRejected
	default:
		return models.StatusFinalizedDisputed
	}
}

// decisionNumericVerdict maps a tallied outcome back onto the single
// inspector verdict value that counts as "matched consensus", or 0 when
// the outcome is DISPUTED (no single verdict value represents a dispute).
func decisionNumericVerdict(final models.FinalVerdict) models.Verdict {
	switch final {
	case models.FinalVerified:
		return models.VerdictAuthentic
	case models.FinalRejected:
		return models.VerdictFake
	default:
		return 0
	}
}

// round1pct converts a fractional share to a percentage rounded to one
// decimal place, e.g. 0.667 -> 66.7.
func round1pct(share float64) float64 {
	scaled := share * 1000
	rounded := float64(int64(scaled + 0.5))
	return rounded / 10
}
