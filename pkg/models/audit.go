package models

import "time"

// AuditTimeline captures the absolute timestamps of each lifecycle milestone.
type AuditTimeline struct {
	Submitted            time.Time  `json:"submitted"`
	VerificationStarted  time.Time  `json:"verificationStarted"`
	VerificationDeadline time.Time  `json:"verificationDeadline"`
	Finalized            *time.Time `json:"finalized,omitempty"`
	Resolved             *time.Time `json:"resolved,omitempty"`
}

// AuditInspectorEntry is one panel member's contribution, anonymized.
type AuditInspectorEntry struct {
	AnonymizedID    string    `json:"anonymizedId"` // first 8 + "..." + last 4 chars of the address
	Verdict         string    `json:"verdict"`
	JustificationID string    `json:"justificationId"`
	RevealedAt      time.Time `json:"revealedAt"`
}

// AuditSummary is the verification-phase rollup embedded in the audit record.
type AuditSummary struct {
	PanelSize          int                   `json:"panelSize"`
	CommitCount        int                   `json:"commitCount"`
	RevealCount        int                   `json:"revealCount"`
	ConsensusThreshold string                `json:"consensusThreshold"` // "67%"
	VoteBreakdown      VoteBreakdown         `json:"voteBreakdown"`
	FinalVerdict       FinalVerdict          `json:"finalVerdict"`
	Inspectors         []AuditInspectorEntry `json:"inspectors"`
}

// AuditRecord is the one-per-published-evidence-item immutable lifecycle record.
type AuditRecord struct {
	EvidenceID   string        `json:"evidenceId"`
	Category     Category      `json:"category"`
	Organization string        `json:"organization"`
	Timeline     AuditTimeline `json:"timeline"`
	Verification AuditSummary  `json:"verification"`
	Resolution   Resolution    `json:"resolution"`

	EvidenceTxID string `json:"evidenceTxId,omitempty"`
	AuditTxID    string `json:"auditTxId,omitempty"`

	PublishedAt time.Time `json:"publishedAt"`
}
