package publication

import (
	"context"
	"testing"
	"time"
)

func req(id string) PublishRequest {
	return PublishRequest{EvidenceID: id, Category: "FINANCIAL", Organization: "Acme Corp", Description: "desc", ContentID: "cid", Counter: 1}
}

func TestPublishAllFansOutToAllDefaultConnectors(t *testing.T) {
	eng := New(nil)
	record, err := eng.PublishAll(context.Background(), req("EVD-2026-00001"))
	if err != nil {
		t.Fatalf("PublishAll() error: %v", err)
	}
	if len(record.Posts) != len(DefaultConnectors()) {
		t.Errorf("expected %d posts, got %d", len(DefaultConnectors()), len(record.Posts))
	}
	if !record.Published {
		t.Errorf("expected Published=true")
	}
}

func TestPublishAllRejectsDuplicate(t *testing.T) {
	eng := New(nil)
	ctx := context.Background()
	if _, err := eng.PublishAll(ctx, req("EVD-2026-00002")); err != nil {
		t.Fatalf("first PublishAll() error: %v", err)
	}
	if _, err := eng.PublishAll(ctx, req("EVD-2026-00002")); err == nil {
		t.Fatalf("expected a second PublishAll() for the same evidence id to fail")
	}
}

func TestScheduleFiresAutomatically(t *testing.T) {
	eng := New(nil)
	record, err := eng.Schedule(req("EVD-2026-00003"), 20*time.Millisecond)
	if err != nil {
		t.Fatalf("Schedule() error: %v", err)
	}
	if !record.Scheduled {
		t.Errorf("expected Scheduled=true immediately after Schedule()")
	}

	time.Sleep(80 * time.Millisecond)

	published, err := eng.Get("EVD-2026-00003")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if !published.Published {
		t.Errorf("expected the scheduled item to auto-publish, got %+v", published)
	}
}

func TestScheduleRejectsDuplicateSchedule(t *testing.T) {
	eng := New(nil)
	if _, err := eng.Schedule(req("EVD-2026-00004"), time.Hour); err != nil {
		t.Fatalf("first Schedule() error: %v", err)
	}
	if _, err := eng.Schedule(req("EVD-2026-00004"), time.Hour); err == nil {
		t.Fatalf("expected a second Schedule() for the same evidence id to fail")
	}
}

func TestCancelStopsPendingPublication(t *testing.T) {
	eng := New(nil)
	if _, err := eng.Schedule(req("EVD-2026-00005"), time.Hour); err != nil {
		t.Fatalf("Schedule() error: %v", err)
	}
	if err := eng.Cancel("EVD-2026-00005"); err != nil {
		t.Fatalf("Cancel() error: %v", err)
	}

	record, err := eng.Get("EVD-2026-00005")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if !record.Cancelled {
		t.Errorf("expected Cancelled=true after Cancel()")
	}

	time.Sleep(10 * time.Millisecond)
	record, _ = eng.Get("EVD-2026-00005")
	if record.Published {
		t.Errorf("expected a cancelled schedule to never publish")
	}
}

func TestCancelRejectsUnknownEvidence(t *testing.T) {
	eng := New(nil)
	if err := eng.Cancel("missing"); err == nil {
		t.Fatalf("expected Cancel() for an unscheduled evidence id to fail")
	}
}

func TestGetRejectsUnknownEvidence(t *testing.T) {
	eng := New(nil)
	if _, err := eng.Get("missing"); err == nil {
		t.Fatalf("expected Get() for an unknown evidence id to fail")
	}
}
