package verification

import (
	"crypto/rand"
	"math/big"

	"github.com/whistlechain/coordinator/pkg/models"
)

const minPanelSize = 3

// selectPanel draws minPanelSize members uniformly at random, without
// replacement, from the specialized pool; if that pool has fewer than
// minPanelSize members it falls back to the full active roster.
func selectPanel(specialized, fullPool []models.Inspector) ([]models.Inspector, error) {
	pool := specialized
	if len(pool) < minPanelSize {
		pool = fullPool
	}
	if len(pool) < minPanelSize {
		return nil, errNotEnoughInspectors
	}

	size := minPanelSize
	if len(pool) < size {
		size = len(pool)
	}

	remaining := make([]models.Inspector, len(pool))
	copy(remaining, pool)

	out := make([]models.Inspector, 0, size)
	for i := 0; i < size; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(remaining))))
		if err != nil {
			return nil, err
		}
		idx := int(n.Int64())
		out = append(out, remaining[idx])
		remaining = append(remaining[:idx], remaining[idx+1:]...)
	}
	return out, nil
}
