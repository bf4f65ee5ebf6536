package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) handleBountyProcess(c *gin.Context) {
	payout, err := h.bty.Process(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	h.mirrorBounty(payout)
	c.JSON(http.StatusOK, gin.H{"bounty": payout})
}

func (h *Handler) handleGetBounty(c *gin.Context) {
	payout, err := h.bty.Get(c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bounty": payout})
}
