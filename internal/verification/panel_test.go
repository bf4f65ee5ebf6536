package verification

import (
	"testing"

	"github.com/whistlechain/coordinator/pkg/models"
)

func makeInspectors(n int, prefix string) []models.Inspector {
	out := make([]models.Inspector, n)
	for i := range out {
		out[i] = models.Inspector{Address: prefix + string(rune('a'+i))}
	}
	return out
}

func TestSelectPanelUsesSpecializedPool(t *testing.T) {
	specialized := makeInspectors(4, "spec-")
	full := makeInspectors(10, "full-")

	panel, err := selectPanel(specialized, full)
	if err != nil {
		t.Fatalf("selectPanel() error: %v", err)
	}
	if len(panel) != minPanelSize {
		t.Fatalf("expected a panel of %d, got %d", minPanelSize, len(panel))
	}
	for _, p := range panel {
		if p.Address[:5] != "spec-" {
			t.Errorf("expected panel member from specialized pool, got %s", p.Address)
		}
	}
}

func TestSelectPanelFallsBackToFullPool(t *testing.T) {
	specialized := makeInspectors(1, "spec-")
	full := makeInspectors(5, "full-")

	panel, err := selectPanel(specialized, full)
	if err != nil {
		t.Fatalf("selectPanel() error: %v", err)
	}
	for _, p := range panel {
		if p.Address[:5] != "full-" {
			t.Errorf("expected fallback to full pool, got %s", p.Address)
		}
	}
}

func TestSelectPanelNoDuplicates(t *testing.T) {
	full := makeInspectors(3, "full-")
	panel, err := selectPanel(nil, full)
	if err != nil {
		t.Fatalf("selectPanel() error: %v", err)
	}
	seen := map[string]bool{}
	for _, p := range panel {
		if seen[p.Address] {
			t.Fatalf("duplicate panel member %s", p.Address)
		}
		seen[p.Address] = true
	}
}

func TestSelectPanelErrorsWhenInsufficientInspectors(t *testing.T) {
	_, err := selectPanel(makeInspectors(1, "spec-"), makeInspectors(2, "full-"))
	if err == nil {
		t.Fatalf("expected an error when fewer than 3 inspectors are available anywhere")
	}
}
