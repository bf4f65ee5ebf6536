package api

import (
	"context"
	"log"
	"time"

	"github.com/whistlechain/coordinator/pkg/models"
)

// mirror* helpers best-effort forward lifecycle records to the optional
// Postgres mirror. They run off the request's context so a slow or absent
// database never adds latency to the HTTP response, and a write failure is
// logged, not surfaced — the in-process store remains authoritative.

func (h *Handler) mirrorSubmission(e *models.Evidence) {
	if h.db == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := h.db.MirrorSubmission(ctx, e); err != nil {
			log.Printf("db mirror: submission %s: %v", e.ID, err)
		}
	}()
}

func (h *Handler) mirrorVerification(s *models.VerificationSession) {
	if h.db == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := h.db.MirrorVerification(ctx, s); err != nil {
			log.Printf("db mirror: verification %s: %v", s.EvidenceID, err)
		}
	}()
}

func (h *Handler) mirrorResolution(r *models.Resolution) {
	if h.db == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := h.db.MirrorResolution(ctx, r); err != nil {
			log.Printf("db mirror: resolution %s: %v", r.EvidenceID, err)
		}
	}()
}

func (h *Handler) mirrorBounty(b *models.BountyPayout) {
	if h.db == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := h.db.MirrorBounty(ctx, b); err != nil {
			log.Printf("db mirror: bounty %s: %v", b.EvidenceID, err)
		}
	}()
}

func (h *Handler) mirrorAudit(a *models.AuditRecord) {
	if h.db == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := h.db.MirrorAudit(ctx, a); err != nil {
			log.Printf("db mirror: audit %s: %v", a.EvidenceID, err)
		}
	}()
}
