// Package resolution settles stake after a verification session finalizes:
// release on VERIFIED, forfeit on REJECTED, leave locked on DISPUTED.
package resolution

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/whistlechain/coordinator/internal/apperr"
	"github.com/whistlechain/coordinator/internal/ledger"
	"github.com/whistlechain/coordinator/internal/store"
	"github.com/whistlechain/coordinator/pkg/models"
)

// SessionLookup is the subset of the verification engine this package needs:
// read access to a finalized session, satisfied by *verification.Engine.
type SessionLookup interface {
	Get(evidenceID string) (*models.VerificationSession, error)
}

type Engine struct {
	gw    ledger.Gateway
	store *store.Store
	ver   SessionLookup

	mu          sync.Mutex
	resolutions map[string]*models.Resolution
}

func New(gw ledger.Gateway, st *store.Store, ver SessionLookup) *Engine {
	return &Engine{
		gw:          gw,
		store:       st,
		ver:         ver,
		resolutions: make(map[string]*models.Resolution),
	}
}

// boxRecovery is how the resolver falls back to on-chain state when the
// submission store has no record for an id (e.g. after a restart).
type boxRecovery func(ctx context.Context, evidenceID string) (submitter string, stakeMicro uint64, err error)

// Resolve settles the evidence item identified by evidenceID. recover is
// consulted only when the submission store holds no record — a restart
// case the off-chain store can't avoid without persistence.
func (e *Engine) Resolve(ctx context.Context, admin ledger.Signer, evidenceID string, counter uint64, recover boxRecovery) (*models.Resolution, error) {
	e.mu.Lock()
	if _, reserved := e.resolutions[evidenceID]; reserved {
		e.mu.Unlock()
		return nil, apperr.State("resolution already exists for " + evidenceID)
	}
	e.resolutions[evidenceID] = nil // reserve the slot before any I/O
	e.mu.Unlock()

	res, err := e.resolve(ctx, admin, evidenceID, counter, recover)
	if err != nil {
		e.mu.Lock()
		delete(e.resolutions, evidenceID) // release the slot so a retry can reserve it
		e.mu.Unlock()
		return nil, err
	}

	e.mu.Lock()
	e.resolutions[evidenceID] = res
	e.mu.Unlock()

	_, _ = e.store.Patch(evidenceID, func(ev *models.Evidence) error {
		if !models.CanAdvance(ev.Status, models.StatusResolved) {
			return nil
		}
		ev.Status = models.StatusResolved
		ev.ResolutionID = evidenceID
		return nil
	})

	return res, nil
}

// resolve does the actual lookup, ledger call, and record assembly. It never
// touches e.resolutions — the caller owns reserving and filling that slot.
func (e *Engine) resolve(ctx context.Context, admin ledger.Signer, evidenceID string, counter uint64, recover boxRecovery) (*models.Resolution, error) {
	session, err := e.ver.Get(evidenceID)
	if err != nil {
		return nil, err
	}
	if session.Phase != models.PhaseFinalized {
		return nil, apperr.State("verification session is not finalized")
	}

	action, statusCode := models.ActionFor(session.FinalVerdict)

	var submitter string
	var stakeMicro uint64
	if evidence, err := e.store.Get(evidenceID); err == nil {
		submitter = evidence.SubmitterAddress
		stakeMicro = evidence.StakeMicroUnits
	} else if recover != nil {
		submitter, stakeMicro, err = recover(ctx, evidenceID)
		if err != nil {
			log.Printf("resolution: recovering submission for %s from chain: %v", evidenceID, err)
		}
	}

	res := &models.Resolution{
		EvidenceID:    evidenceID,
		FinalVerdict:  session.FinalVerdict,
		Action:        action,
		OnChainStatus: statusCode,
		ResolvedAt:    time.Now().UTC(),
	}

	// Only a released stake moves on-chain; DISPUTED and forfeited actions
	// carry a zero amount so there is no fund movement to replay.
	refundAddress := ""
	chainStakeMicro := uint64(0)
	if action == models.ActionStakeReleased {
		refundAddress = submitter
		chainStakeMicro = stakeMicro
		res.RefundAddress = submitter
		res.RefundedMicro = stakeMicro
		if stakeMicro == 0 {
			log.Printf("resolution: %s resolved with zero stake to refund", evidenceID)
		}
	}

	updatedBlob := []byte(fmt.Sprintf(`{"status":%d,"resolvedAt":%q}`, statusCode, res.ResolvedAt.Format(time.RFC3339)))
	txID, err := e.gw.Resolve(ctx, admin, counter, statusCode, refundAddress, chainStakeMicro, updatedBlob)
	if err != nil {
		res.OnChainErr = err.Error()
		log.Printf("resolution: ledger call failed for %s: %v", evidenceID, err)
	} else {
		res.TxID = txID
	}

	return res, nil
}

func (e *Engine) Get(evidenceID string) (*models.Resolution, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	r, ok := e.resolutions[evidenceID]
	if !ok || r == nil {
		return nil, apperr.NotFound("no resolution for " + evidenceID)
	}
	cp := *r
	return &cp, nil
}
