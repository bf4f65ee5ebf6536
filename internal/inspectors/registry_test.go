package inspectors

import (
	"testing"

	"github.com/whistlechain/coordinator/pkg/models"
)

func newTestInspector(addr string, cats ...models.Category) models.Inspector {
	return models.Inspector{
		Address:         addr,
		Name:            "Inspector " + addr,
		Specializations: cats,
		Active:          true,
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	r := New()
	ins := newTestInspector("addr-1", models.CategoryFinancial)
	if err := r.Register(ins); err != nil {
		t.Fatalf("first Register() error: %v", err)
	}
	if err := r.Register(ins); err == nil {
		t.Fatalf("expected duplicate registration to be rejected")
	}
}

func TestPoolFiltersBySpecializationAndActive(t *testing.T) {
	r := New()
	r.Register(newTestInspector("fin-1", models.CategoryFinancial))
	r.Register(newTestInspector("food-1", models.CategoryFood))
	inactive := newTestInspector("fin-inactive", models.CategoryFinancial)
	inactive.Active = false
	r.Register(inactive)

	pool := r.Pool(models.CategoryFinancial)
	if len(pool) != 1 || pool[0].Address != "fin-1" {
		t.Errorf("expected only the active FINANCIAL specialist, got %v", pool)
	}

	full := r.Pool("")
	if len(full) != 2 {
		t.Errorf("expected full active roster (excluding inactive) to have 2 entries, got %d", len(full))
	}
}

func TestAssignCaseAndCasesOf(t *testing.T) {
	r := New()
	r.Register(newTestInspector("addr-2", models.CategoryFinancial))

	if err := r.AssignCase("addr-2", "EVD-2026-00001"); err != nil {
		t.Fatalf("AssignCase() error: %v", err)
	}
	if err := r.AssignCase("addr-2", "EVD-2026-00002"); err != nil {
		t.Fatalf("AssignCase() error: %v", err)
	}

	cases, err := r.CasesOf("addr-2")
	if err != nil {
		t.Fatalf("CasesOf() error: %v", err)
	}
	if len(cases) != 2 {
		t.Errorf("expected 2 assigned cases, got %v", cases)
	}
}

func TestRecordVoteUpdatesCredibility(t *testing.T) {
	r := New()
	r.Register(newTestInspector("addr-3", models.CategoryFinancial))

	for i := 0; i < 3; i++ {
		if _, err := r.RecordVote("addr-3", false); err != nil {
			t.Fatalf("RecordVote() error: %v", err)
		}
	}

	weight, err := r.CredibilityOf("addr-3")
	if err != nil {
		t.Fatalf("CredibilityOf() error: %v", err)
	}
	if weight >= 1.0 {
		t.Errorf("expected credibility to drop below 1.0 after 3 outlier votes, got %v", weight)
	}
}

func TestCasesOfUnknownInspector(t *testing.T) {
	r := New()
	if _, err := r.CasesOf("ghost"); err == nil {
		t.Fatalf("expected an error for an unregistered inspector")
	}
}
