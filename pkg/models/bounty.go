package models

import "time"

// PayoutStatus is the bounty record's disbursement state.
type PayoutStatus string

const (
	PayoutPaid      PayoutStatus = "PAID"
	PayoutForfeited PayoutStatus = "FORFEITED"
	PayoutPending   PayoutStatus = "PENDING"
)

// BountyPayout is the one-per-evidence-item whistleblower payout record,
// composed of the stake refund plus (for verified items) the category bounty.
type BountyPayout struct {
	EvidenceID      string       `json:"evidenceId"`
	Category        Category     `json:"category"`
	FinalVerdict    FinalVerdict `json:"finalVerdict"`
	WalletAddress   string       `json:"walletAddress"`
	StakeRefund     uint64       `json:"stakeRefund"`
	BountyReward    uint64       `json:"bountyReward"`
	TotalPayout     uint64       `json:"totalPayout"`
	Status          PayoutStatus `json:"status"`
	ProcessedAt     time.Time    `json:"processedAt"`
}
