package models

import "time"

// PostRecord is one per-platform post produced by a publication connector.
type PostRecord struct {
	Platform  string    `json:"platform"`
	Body      string    `json:"body"`
	PostedAt  time.Time `json:"postedAt"`
	Reference string    `json:"reference,omitempty"` // e.g. the RTI filing number
}

// PublicationRecord is the one-per-evidence-item fan-out record, only ever
// produced for VERIFIED items.
type PublicationRecord struct {
	EvidenceID string       `json:"evidenceId"`
	Posts      []PostRecord `json:"posts"`

	Scheduled bool      `json:"scheduled"`
	PublishAt time.Time `json:"publishAt,omitempty"`
	Cancelled bool      `json:"cancelled"`
	Published bool      `json:"published"`
}
