package models

import "time"

// Category is the closed set of evidence categories. Immutable after submission.
type Category string

const (
	CategoryFinancial    Category = "FINANCIAL"
	CategoryConstruction Category = "CONSTRUCTION"
	CategoryFood         Category = "FOOD"
	CategoryAcademic     Category = "ACADEMIC"
)

// ValidCategory reports whether c is one of the four recognized categories.
func ValidCategory(c Category) bool {
	switch c {
	case CategoryFinancial, CategoryConstruction, CategoryFood, CategoryAcademic:
		return true
	}
	return false
}

// Status is the evidence lifecycle stage. Advances monotonically — no regression.
type Status string

const (
	StatusPending            Status = "PENDING"
	StatusUnderVerification  Status = "UNDER_VERIFICATION"
	StatusFinalizedVerified  Status = "FINALIZED_VERIFIED"
	StatusFinalizedRejected  Status = "FINALIZED_REJECTED"
	StatusFinalizedDisputed  Status = "FINALIZED_DISPUTED"
	StatusResolved           Status = "RESOLVED"
	StatusPublished          Status = "PUBLISHED"
)

// statusRank gives the monotonic ordering used to reject regressions.
// FINALIZED_* all share a rank since finalization is a single step whose
// verdict varies but whose lifecycle position does not.
var statusRank = map[Status]int{
	StatusPending:           0,
	StatusUnderVerification: 1,
	StatusFinalizedVerified: 2,
	StatusFinalizedRejected: 2,
	StatusFinalizedDisputed: 2,
	StatusResolved:          3,
	StatusPublished:         4,
}

// CanAdvance reports whether a transition from `from` to `to` is monotonic.
func CanAdvance(from, to Status) bool {
	return statusRank[to] > statusRank[from]
}

// Evidence is a submitted accusation: encrypted payload, locked stake,
// and every pointer into the rest of the lifecycle it has moved through.
type Evidence struct {
	ID          string   `json:"id"` // EVD-YYYY-NNNNN, minted from the on-chain counter
	Category    Category `json:"category"`
	Organization string  `json:"organization"`
	Description string   `json:"description"`

	SubmitterAddress string `json:"submitterAddress"`
	StakeMicroUnits  uint64 `json:"stakeMicroUnits"`

	ContentID          string `json:"contentId"`          // object-store identifier of the sealed bundle
	ContentIDSimulated bool   `json:"contentIdSimulated"` // true if the object store was unreachable at submit time

	SubmittedAt time.Time `json:"submittedAt"`
	Status      Status    `json:"status"`

	SubmitTxID string `json:"submitTxId,omitempty"`
	OnChainErr string `json:"onChainError,omitempty"` // annotated LedgerFailure, never blocks progress

	VerificationSessionID string `json:"verificationSessionId,omitempty"`
	ResolutionID           string `json:"resolutionId,omitempty"`
	BountyID               string `json:"bountyId,omitempty"`
	PublicationID          string `json:"publicationId,omitempty"`
	AuditID                string `json:"auditId,omitempty"`
}
