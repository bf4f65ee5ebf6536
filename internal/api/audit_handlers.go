package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/whistlechain/coordinator/internal/apperr"
	"github.com/whistlechain/coordinator/internal/ledger"
)

func (h *Handler) handleAuditPublish(c *gin.Context) {
	evidenceID := c.Query("evidence_id")
	counter, err := ledger.CounterFromEvidenceID(evidenceID)
	if err != nil {
		respondErr(c, apperr.Validation(err.Error()))
		return
	}
	record, err := h.adt.Publish(c.Request.Context(), h.admin, evidenceID, counter)
	if err != nil {
		respondErr(c, err)
		return
	}
	h.mirrorAudit(record)
	c.JSON(http.StatusOK, gin.H{"audit": record})
}

func (h *Handler) handleGetAudit(c *gin.Context) {
	record, err := h.adt.Get(c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"audit": record})
}
