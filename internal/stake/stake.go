// Package stake enforces the coordinator's per-category stake bounds and
// bounty schedule.
package stake

import (
	"fmt"

	"github.com/whistlechain/coordinator/internal/apperr"
	"github.com/whistlechain/coordinator/pkg/models"
)

type bounds struct {
	min    uint64
	bounty uint64
}

var table = map[models.Category]bounds{
	models.CategoryFinancial:    {min: 25_000_000, bounty: 200_000_000},
	models.CategoryConstruction: {min: 50_000_000, bounty: 300_000_000},
	models.CategoryFood:         {min: 25_000_000, bounty: 150_000_000},
	models.CategoryAcademic:     {min: 15_000_000, bounty: 100_000_000},
}

// GlobalMax bounds every stake regardless of category.
const GlobalMax = 500_000_000

// Bounds returns the category's minimum stake and bounty reward.
func Bounds(c models.Category) (min uint64, bounty uint64, err error) {
	b, ok := table[c]
	if !ok {
		return 0, 0, fmt.Errorf("stake: unknown category %q", c)
	}
	return b.min, b.bounty, nil
}

// BountyFor returns the flat bounty reward for a category.
func BountyFor(c models.Category) uint64 {
	return table[c].bounty
}

// Validate enforces: zero is always accepted (free-tier submission), any
// positive amount under the category minimum is rejected, and nothing may
// exceed the global maximum.
func Validate(c models.Category, microUnits uint64) error {
	b, ok := table[c]
	if !ok {
		return apperr.Validation(fmt.Sprintf("unknown category %q", c))
	}
	if microUnits == 0 {
		return nil
	}
	if microUnits < b.min {
		return apperr.Validation(fmt.Sprintf("stake %d below %s minimum %d", microUnits, c, b.min))
	}
	if microUnits > GlobalMax {
		return apperr.Validation(fmt.Sprintf("stake %d exceeds global maximum %d", microUnits, GlobalMax))
	}
	return nil
}
