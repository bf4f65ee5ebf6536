package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/whistlechain/coordinator/internal/apperr"
	"github.com/whistlechain/coordinator/internal/ledger"
)

func (h *Handler) handleResolve(c *gin.Context) {
	evidenceID := c.Query("evidence_id")
	counter, err := ledger.CounterFromEvidenceID(evidenceID)
	if err != nil {
		respondErr(c, apperr.Validation(err.Error()))
		return
	}

	res, err := h.res.Resolve(c.Request.Context(), h.admin, evidenceID, counter, h.recoverFromBox)
	if err != nil {
		respondErr(c, err)
		return
	}
	h.mirrorResolution(res)
	c.JSON(http.StatusOK, gin.H{"resolution": res})
}

// recoverFromBox reconstructs the submitter address and stake amount from
// the on-chain evidence box when the submission store has no record — the
// restart case the in-process store can't avoid without persistence.
func (h *Handler) recoverFromBox(ctx context.Context, evidenceID string) (string, uint64, error) {
	counter, err := ledger.CounterFromEvidenceID(evidenceID)
	if err != nil {
		return "", 0, err
	}
	box, err := h.gw.ReadBox(ctx, ledger.EvidenceBoxKey(counter))
	if err != nil {
		return "", 0, err
	}
	return parseEvidenceBoxValue(box.Value)
}

// parseEvidenceBoxValue unpacks the pipe-delimited evidence box format:
// ipfs_hash | category | organization | description | submitter(32B) |
// be64(timestamp) | be64(status) | stake_amount_ascii | be64(stake_status).
func parseEvidenceBoxValue(value []byte) (string, uint64, error) {
	fields := splitPipe(value)
	if len(fields) < 8 {
		return "", 0, apperr.Ledger("malformed evidence box value", nil)
	}
	submitter := string(fields[4])
	stakeMicro := parseAsciiUint(fields[7])
	return submitter, stakeMicro, nil
}

func splitPipe(value []byte) [][]byte {
	var out [][]byte
	start := 0
	for i, b := range value {
		if b == '|' {
			out = append(out, value[start:i])
			start = i + 1
		}
	}
	out = append(out, value[start:])
	return out
}

func parseAsciiUint(field []byte) uint64 {
	var n uint64
	for _, b := range field {
		if b < '0' || b > '9' {
			break
		}
		n = n*10 + uint64(b-'0')
	}
	return n
}
