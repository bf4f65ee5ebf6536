package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/whistlechain/coordinator/pkg/models"
)

// handleTransparency returns an aggregate view of the registry's current
// state: the published count in total and by category, plus the app
// account's on-chain balance.
func (h *Handler) handleTransparency(c *gin.Context) {
	published := h.store.ListByStatus(models.StatusPublished)

	byCategory := map[models.Category]int{}
	for _, e := range published {
		byCategory[e.Category]++
	}

	balance, err := h.gw.AppBalance(c.Request.Context())
	resp := gin.H{
		"publishedCount": len(published),
		"byCategory":     byCategory,
	}
	if err == nil {
		resp["appBalanceMicroUnits"] = balance
	}
	c.JSON(http.StatusOK, resp)
}
