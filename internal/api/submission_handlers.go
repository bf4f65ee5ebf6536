package api

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/whistlechain/coordinator/internal/apperr"
	"github.com/whistlechain/coordinator/internal/sealedbundle"
	"github.com/whistlechain/coordinator/internal/stake"
	"github.com/whistlechain/coordinator/internal/wallet"
	"github.com/whistlechain/coordinator/pkg/models"
)

// handleSubmitEvidence accepts a multipart submission (category,
// organization, description, optional mnemonic, optional stake, files[]),
// seals the attached files, pins the sealed bundle, and submits the
// evidence item to the ledger atomically with its stake.
func (h *Handler) handleSubmitEvidence(c *gin.Context) {
	category := models.Category(c.PostForm("category"))
	if !models.ValidCategory(category) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown category"})
		return
	}
	organization := c.PostForm("organization")
	description := c.PostForm("description")
	if organization == "" || description == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "organization and description are required"})
		return
	}

	var stakeMicro uint64
	if raw := c.PostForm("stake"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "stake must be a non-negative integer"})
			return
		}
		stakeMicro = v
	}
	if err := stake.Validate(category, stakeMicro); err != nil {
		respondErr(c, err)
		return
	}

	var submitter *wallet.Wallet
	var mnemonicOut string
	if phrase := c.PostForm("mnemonic"); phrase != "" {
		w, err := wallet.FromMnemonic(phrase)
		if err != nil {
			respondErr(c, apperr.Validation("malformed mnemonic: "+err.Error()))
			return
		}
		submitter = w
	} else {
		w, err := wallet.New()
		if err != nil {
			respondErr(c, err)
			return
		}
		submitter = w
		if m, err := w.Mnemonic(); err == nil {
			mnemonicOut = m
		}
	}

	form, err := c.MultipartForm()
	files := map[string][]byte{}
	if err == nil {
		for _, fh := range form.File["files"] {
			f, err := fh.Open()
			if err != nil {
				continue
			}
			data, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				continue
			}
			files[fh.Filename] = data
		}
	}

	var contentID string
	var simulated bool
	if len(files) > 0 {
		key, err := sealedbundle.NewKey()
		if err != nil {
			respondErr(c, err)
			return
		}
		bundle, err := sealedbundle.Seal(files, key)
		if err != nil {
			respondErr(c, err)
			return
		}
		contentID, simulated, err = h.objects.Pin(c.Request.Context(), "bundle.sealed", bundle)
		if err != nil {
			// DependencyFailure: substitute a simulated id and continue.
			contentID = "sim-unavailable"
			simulated = true
		}
	} else {
		contentID = "sim-empty"
		simulated = true
	}

	evidenceID, txID, confirmedRound, err := h.gw.SubmitWithStake(
		c.Request.Context(), submitter, string(category), organization, description, contentID, stakeMicro,
	)
	var onChainErr string
	if err != nil {
		if ae, ok := apperr.As(err); ok && ae.Kind == apperr.KindLedger {
			onChainErr = ae.Error()
		} else {
			respondErr(c, err)
			return
		}
	}

	evidence := &models.Evidence{
		ID:                 evidenceID,
		Category:           category,
		Organization:       organization,
		Description:        description,
		SubmitterAddress:   submitter.Address(),
		StakeMicroUnits:    stakeMicro,
		ContentID:          contentID,
		ContentIDSimulated: simulated,
		SubmittedAt:        time.Now().UTC(),
		Status:             models.StatusPending,
		SubmitTxID:         txID,
		OnChainErr:         onChainErr,
	}
	h.store.Insert(evidence)
	h.mirrorSubmission(evidence)

	resp := gin.H{"evidence": evidence, "confirmedRound": confirmedRound}
	if mnemonicOut != "" {
		resp["submitterMnemonic"] = mnemonicOut
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) handleGetEvidence(c *gin.Context) {
	id := c.Param("id")
	evidence, err := h.store.Get(id)
	if err != nil {
		respondErr(c, err)
		return
	}
	resp := gin.H{"evidence": evidence}
	if session, err := h.ver.Get(id); err == nil {
		resp["verification"] = session
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) handleListSubmissions(c *gin.Context) {
	var items []*models.Evidence
	if wallet := c.Query("wallet"); wallet != "" {
		items = h.store.ListByWallet(wallet)
	} else if status := c.Query("status"); status != "" {
		items = h.store.ListByStatus(models.Status(status))
	} else {
		items = h.store.ListAll()
	}
	c.JSON(http.StatusOK, gin.H{"submissions": items})
}
