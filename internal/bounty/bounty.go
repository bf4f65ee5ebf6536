// Package bounty computes and records the whistleblower payout once a
// resolution exists: stake refund (already settled by resolution) plus, for
// VERIFIED items, the category's flat bounty reward.
package bounty

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/whistlechain/coordinator/internal/apperr"
	"github.com/whistlechain/coordinator/internal/stake"
	"github.com/whistlechain/coordinator/internal/store"
	"github.com/whistlechain/coordinator/pkg/models"
)

// ResolutionLookup is the subset of the resolution engine this package
// needs, satisfied by *resolution.Engine.
type ResolutionLookup interface {
	Get(evidenceID string) (*models.Resolution, error)
}

// Disburser issues the bounty-portion credit. The source system records
// this as a bookkeeping entry rather than an on-chain transfer, so it's
// left pluggable: a no-op ledger entry by default, swappable for a real
// payout rail without touching the tally logic.
type Disburser interface {
	Disburse(ctx context.Context, walletAddress string, amountMicro uint64) error
}

// LoggingDisburser just records the disbursement, the default when no
// payout rail is configured.
type LoggingDisburser struct{}

func (LoggingDisburser) Disburse(_ context.Context, walletAddress string, amountMicro uint64) error {
	log.Printf("bounty: recording disbursement of %d micro-units to %s", amountMicro, walletAddress)
	return nil
}

type Engine struct {
	res   ResolutionLookup
	store *store.Store
	out   Disburser

	mu      sync.Mutex
	payouts map[string]*models.BountyPayout
}

func New(res ResolutionLookup, st *store.Store, out Disburser) *Engine {
	if out == nil {
		out = LoggingDisburser{}
	}
	return &Engine{res: res, store: st, out: out, payouts: make(map[string]*models.BountyPayout)}
}

// Process computes and records the payout for evidenceID. A resolution
// must already exist; the verdict drives whether the bounty reward is
// added on top of the stake refund.
func (e *Engine) Process(ctx context.Context, evidenceID string) (*models.BountyPayout, error) {
	e.mu.Lock()
	if _, reserved := e.payouts[evidenceID]; reserved {
		e.mu.Unlock()
		return nil, apperr.State("bounty already processed for " + evidenceID)
	}
	e.payouts[evidenceID] = nil // reserve the slot before any I/O
	e.mu.Unlock()

	payout, err := e.process(ctx, evidenceID)
	if err != nil {
		e.mu.Lock()
		delete(e.payouts, evidenceID) // release the slot so a retry can reserve it
		e.mu.Unlock()
		return nil, err
	}

	e.mu.Lock()
	e.payouts[evidenceID] = payout
	e.mu.Unlock()

	_, _ = e.store.Patch(evidenceID, func(ev *models.Evidence) error {
		ev.BountyID = evidenceID
		return nil
	})

	return payout, nil
}

// process does the actual lookup, disbursement, and payout assembly. It
// never touches e.payouts — the caller owns reserving and filling that slot.
func (e *Engine) process(ctx context.Context, evidenceID string) (*models.BountyPayout, error) {
	res, err := e.res.Get(evidenceID)
	if err != nil {
		return nil, err
	}
	if res.FinalVerdict != models.FinalVerified && res.FinalVerdict != models.FinalRejected && res.FinalVerdict != models.FinalDisputed {
		return nil, apperr.Validation("resolution verdict is not one of VERIFIED, REJECTED, DISPUTED")
	}

	evidence, err := e.store.Get(evidenceID)
	if err != nil {
		return nil, err
	}

	payout := &models.BountyPayout{
		EvidenceID:    evidenceID,
		Category:      evidence.Category,
		FinalVerdict:  res.FinalVerdict,
		WalletAddress: evidence.SubmitterAddress,
		ProcessedAt:   time.Now().UTC(),
	}

	switch res.FinalVerdict {
	case models.FinalVerified:
		payout.StakeRefund = res.RefundedMicro
		payout.BountyReward = stake.BountyFor(evidence.Category)
		payout.TotalPayout = payout.StakeRefund + payout.BountyReward
		payout.Status = models.PayoutPaid
		if err := e.out.Disburse(ctx, evidence.SubmitterAddress, payout.BountyReward); err != nil {
			log.Printf("bounty: disbursement call failed for %s: %v", evidenceID, err)
		}
	case models.FinalRejected:
		payout.Status = models.PayoutForfeited
	default: // DISPUTED
		payout.Status = models.PayoutPending
	}

	return payout, nil
}

func (e *Engine) Get(evidenceID string) (*models.BountyPayout, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	p, ok := e.payouts[evidenceID]
	if !ok || p == nil {
		return nil, apperr.NotFound("no bounty payout for " + evidenceID)
	}
	cp := *p
	return &cp, nil
}
