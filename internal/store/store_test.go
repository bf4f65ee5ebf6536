package store

import (
	"testing"

	"github.com/whistlechain/coordinator/pkg/models"
)

func TestInsertAndGet(t *testing.T) {
	s := New()
	e := &models.Evidence{ID: "EVD-2026-00001", Status: models.StatusPending}
	s.Insert(e)

	got, err := s.Get(e.ID)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got.ID != e.ID {
		t.Errorf("expected id %s, got %s", e.ID, got.ID)
	}
}

func TestGetMissingReturnsNotFound(t *testing.T) {
	s := New()
	if _, err := s.Get("EVD-2026-99999"); err == nil {
		t.Fatalf("expected an error for a missing id")
	}
}

func TestPatchMutatesStoredRecord(t *testing.T) {
	s := New()
	e := &models.Evidence{ID: "EVD-2026-00002", Status: models.StatusPending}
	s.Insert(e)

	updated, err := s.Patch(e.ID, func(ev *models.Evidence) error {
		ev.Status = models.StatusUnderVerification
		return nil
	})
	if err != nil {
		t.Fatalf("Patch() error: %v", err)
	}
	if updated.Status != models.StatusUnderVerification {
		t.Errorf("expected status UNDER_VERIFICATION, got %s", updated.Status)
	}
}

func TestListByWalletAndStatus(t *testing.T) {
	s := New()
	s.Insert(&models.Evidence{ID: "EVD-2026-00003", SubmitterAddress: "addr-a", Status: models.StatusPending})
	s.Insert(&models.Evidence{ID: "EVD-2026-00004", SubmitterAddress: "addr-b", Status: models.StatusResolved})

	byWallet := s.ListByWallet("addr-a")
	if len(byWallet) != 1 || byWallet[0].ID != "EVD-2026-00003" {
		t.Errorf("expected one record for addr-a, got %v", byWallet)
	}

	byStatus := s.ListByStatus(models.StatusResolved)
	if len(byStatus) != 1 || byStatus[0].ID != "EVD-2026-00004" {
		t.Errorf("expected one resolved record, got %v", byStatus)
	}
}

func TestRestoreOverwritesExisting(t *testing.T) {
	s := New()
	s.Insert(&models.Evidence{ID: "EVD-2026-00005", Status: models.StatusPending})
	s.Restore([]*models.Evidence{{ID: "EVD-2026-00005", Status: models.StatusPublished}})

	got, err := s.Get("EVD-2026-00005")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got.Status != models.StatusPublished {
		t.Errorf("expected restored status PUBLISHED, got %s", got.Status)
	}
}
