package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/whistlechain/coordinator/internal/apperr"
	"github.com/whistlechain/coordinator/internal/ledger"
	"github.com/whistlechain/coordinator/internal/publication"
	"github.com/whistlechain/coordinator/pkg/models"
)

func (h *Handler) publishRequestFor(evidenceID string) (publication.PublishRequest, error) {
	evidence, err := h.store.Get(evidenceID)
	if err != nil {
		return publication.PublishRequest{}, err
	}
	session, err := h.ver.Get(evidenceID)
	if err != nil {
		return publication.PublishRequest{}, err
	}
	if session.FinalVerdict != models.FinalVerified {
		return publication.PublishRequest{}, apperr.Validation("publication requires a VERIFIED verdict")
	}
	counter, err := ledger.CounterFromEvidenceID(evidenceID)
	if err != nil {
		return publication.PublishRequest{}, apperr.Validation(err.Error())
	}
	return publication.PublishRequest{
		EvidenceID:   evidenceID,
		Category:     evidence.Category,
		Organization: evidence.Organization,
		Description:  evidence.Description,
		ContentID:    evidence.ContentID,
		Counter:      counter,
	}, nil
}

func (h *Handler) handlePublicationPublish(c *gin.Context) {
	id := c.Param("id")
	req, err := h.publishRequestFor(id)
	if err != nil {
		respondErr(c, err)
		return
	}
	record, err := h.pub.PublishAll(c.Request.Context(), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"publication": record})
}

func (h *Handler) handlePublicationSchedule(c *gin.Context) {
	id := c.Param("id")
	req, err := h.publishRequestFor(id)
	if err != nil {
		respondErr(c, err)
		return
	}
	delaySeconds, err := strconv.Atoi(c.Query("delay_seconds"))
	if err != nil || delaySeconds < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "delay_seconds must be a non-negative integer"})
		return
	}
	record, err := h.pub.Schedule(req, time.Duration(delaySeconds)*time.Second)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"publication": record})
}

func (h *Handler) handlePublicationCancel(c *gin.Context) {
	if err := h.pub.Cancel(c.Param("id")); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cancelled"})
}

func (h *Handler) handleGetPublication(c *gin.Context) {
	record, err := h.pub.Get(c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"publication": record})
}
