package models

import "time"

// ResolutionAction is the fund-movement decision derived purely from FinalVerdict.
type ResolutionAction string

const (
	ActionStakeReleased  ResolutionAction = "STAKE_RELEASED"
	ActionStakeForfeited ResolutionAction = "STAKE_FORFEITED"
	ActionStakeLocked    ResolutionAction = "STAKE_LOCKED"
)

// On-chain resolution status codes.
const (
	OnChainStatusVerified int = 1
	OnChainStatusDisputed int = 2
	OnChainStatusRejected int = 3
)

// Resolution is the one-per-evidence-item record of fund disposition
// after a verification session finalizes. Immutable once written.
type Resolution struct {
	EvidenceID      string           `json:"evidenceId"`
	FinalVerdict    FinalVerdict     `json:"finalVerdict"`
	Action          ResolutionAction `json:"action"`
	OnChainStatus   int              `json:"onChainStatus"`
	RefundAddress   string           `json:"refundAddress,omitempty"`
	RefundedMicro   uint64           `json:"refundedMicroUnits,omitempty"`
	TxID            string           `json:"txId,omitempty"`
	OnChainErr      string           `json:"onChainError,omitempty"`
	ResolvedAt      time.Time        `json:"resolvedAt"`
}

// ActionFor maps a final verdict to its resolution action, deterministically.
func ActionFor(v FinalVerdict) (ResolutionAction, int) {
	switch v {
	case FinalVerified:
		return ActionStakeReleased, OnChainStatusVerified
	case FinalRejected:
		return ActionStakeForfeited, OnChainStatusRejected
	default:
		return ActionStakeLocked, OnChainStatusDisputed
	}
}
