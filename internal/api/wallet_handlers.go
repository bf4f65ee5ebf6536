package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/whistlechain/coordinator/internal/stake"
	"github.com/whistlechain/coordinator/internal/wallet"
	"github.com/whistlechain/coordinator/pkg/models"
)

func (h *Handler) handleWalletCreate(c *gin.Context) {
	w, err := wallet.New()
	if err != nil {
		respondErr(c, err)
		return
	}
	mnemonic, err := w.Mnemonic()
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"address": w.Address(), "mnemonic": mnemonic})
}

func (h *Handler) handleStakeInfo(c *gin.Context) {
	category := models.Category(c.Param("category"))
	min, bounty, err := stake.Bounds(category)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"category": category,
		"minStake": min,
		"maxStake": stake.GlobalMax,
		"bounty":   bounty,
	})
}
