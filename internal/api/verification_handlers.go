package api

import (
	"crypto/ed25519"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/whistlechain/coordinator/internal/apperr"
	"github.com/whistlechain/coordinator/internal/ledger"
	"github.com/whistlechain/coordinator/pkg/models"
)

func (h *Handler) handleRegisterInspector(c *gin.Context) {
	var req struct {
		Address         string            `json:"address"`
		Name            string            `json:"name"`
		Specializations []models.Category `json:"specializations"`
		Department      string            `json:"department"`
		EmployeeID      string            `json:"employeeId"`
		Jurisdiction    string            `json:"jurisdiction"`
		ExperienceYears int               `json:"experienceYears"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Address == "" || req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "address and name are required"})
		return
	}

	ins := models.Inspector{
		Address:         req.Address,
		Name:            req.Name,
		Specializations: req.Specializations,
		Department:      req.Department,
		EmployeeID:      req.EmployeeID,
		Jurisdiction:    req.Jurisdiction,
		ExperienceYears: req.ExperienceYears,
		Availability:    models.AvailabilityAvailable,
		Active:          true,
		RegisteredAt:    time.Now().UTC(),
	}
	if err := h.regs.Register(ins); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"inspector": ins})
}

func (h *Handler) handleBeginVerification(c *gin.Context) {
	var req struct {
		EvidenceID string          `json:"evidence_id"`
		Category   models.Category `json:"category"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	counter, err := ledger.CounterFromEvidenceID(req.EvidenceID)
	if err != nil {
		respondErr(c, apperr.Validation(err.Error()))
		return
	}
	session, err := h.ver.Begin(c.Request.Context(), h.admin, req.EvidenceID, counter, req.Category)
	if err != nil {
		respondErr(c, err)
		return
	}
	h.mirrorVerification(session)
	c.JSON(http.StatusOK, gin.H{"verification": session})
}

func (h *Handler) handleCommit(c *gin.Context) {
	var req struct {
		EvidenceID       string `json:"evidence_id"`
		InspectorAddress string `json:"inspector_address"`
		CommitHash       string `json:"commit_hash"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	raw, err := hex.DecodeString(req.CommitHash)
	if err != nil || len(raw) != 32 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "commit_hash must be a 32-byte hex string"})
		return
	}
	var hash [32]byte
	copy(hash[:], raw)

	counter, err := ledger.CounterFromEvidenceID(req.EvidenceID)
	if err != nil {
		respondErr(c, apperr.Validation(err.Error()))
		return
	}
	signer := namedSigner{address: req.InspectorAddress}
	if err := h.ver.Commit(c.Request.Context(), signer, req.EvidenceID, counter, hash); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "committed"})
}

func (h *Handler) handleAdvanceToReveal(c *gin.Context) {
	evidenceID := c.Query("evidence_id")
	if err := h.ver.AdvanceToReveal(evidenceID); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "reveal_phase"})
}

func (h *Handler) handleReveal(c *gin.Context) {
	var req struct {
		EvidenceID       string `json:"evidence_id"`
		InspectorAddress string `json:"inspector_address"`
		Verdict          int    `json:"verdict"`
		Nonce            string `json:"nonce"`
		JustificationID  string `json:"justification_ipfs"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	counter, err := ledger.CounterFromEvidenceID(req.EvidenceID)
	if err != nil {
		respondErr(c, apperr.Validation(err.Error()))
		return
	}
	signer := namedSigner{address: req.InspectorAddress}
	verdict := models.Verdict(req.Verdict)
	if err := h.ver.Reveal(c.Request.Context(), signer, req.EvidenceID, counter, verdict, req.Nonce, req.JustificationID); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "revealed"})
}

func (h *Handler) handleFinalize(c *gin.Context) {
	evidenceID := c.Query("evidence_id")
	counter, err := ledger.CounterFromEvidenceID(evidenceID)
	if err != nil {
		respondErr(c, apperr.Validation(err.Error()))
		return
	}
	session, err := h.ver.Finalize(c.Request.Context(), h.admin, evidenceID, counter)
	if err != nil {
		respondErr(c, err)
		return
	}
	h.mirrorVerification(session)
	c.JSON(http.StatusOK, gin.H{"verification": session})
}

func (h *Handler) handleVerificationStatus(c *gin.Context) {
	session, err := h.ver.Get(c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"verification": session})
}

// namedSigner satisfies ledger.Signer for inspector operations driven by
// address alone: the HTTP surface trusts the caller's authenticated
// session for attribution rather than requiring a live private key per
// request. It never signs; Sign returns nil, and the gateway submits the
// call with that empty signature.
type namedSigner struct{ address string }

func (s namedSigner) Address() string      { return s.address }
func (s namedSigner) Sign(_ []byte) []byte { return nil }
func (s namedSigner) PublicKey() ed25519.PublicKey {
	return ed25519.PublicKey(s.address)
}
