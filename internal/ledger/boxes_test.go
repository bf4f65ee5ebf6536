package ledger

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestEvidenceBoxKeyLayout(t *testing.T) {
	key := EvidenceBoxKey(42)
	if !bytes.HasPrefix(key, []byte("EVD-")) {
		t.Fatalf("expected EVD- prefix, got %q", key)
	}
	if got := binary.BigEndian.Uint64(key[4:]); got != 42 {
		t.Errorf("expected counter 42 encoded big-endian, got %d", got)
	}
}

func TestCommitBoxKeyAppendsInspectorAddress(t *testing.T) {
	addr := []byte{0x01, 0x02, 0x03}
	key := CommitBoxKey(7, addr)
	if !bytes.HasPrefix(key, []byte("CMT-")) {
		t.Fatalf("expected CMT- prefix, got %q", key)
	}
	if !bytes.HasSuffix(key, addr) {
		t.Errorf("expected key to end with the inspector address bytes")
	}
	if len(key) != len("CMT-")+8+len(addr) {
		t.Errorf("unexpected key length %d", len(key))
	}
}

func TestCounterFromEvidenceIDRoundTrip(t *testing.T) {
	id := FormatEvidenceID(2026, 314)
	n, err := CounterFromEvidenceID(id)
	if err != nil {
		t.Fatalf("CounterFromEvidenceID() error: %v", err)
	}
	if n != 314 {
		t.Errorf("expected counter 314, got %d", n)
	}
}

func TestCounterFromEvidenceIDRejectsGarbage(t *testing.T) {
	if _, err := CounterFromEvidenceID("not-a-number"); err == nil {
		t.Fatalf("expected an error for a non-numeric trailing segment")
	}
}

func TestParseEvidenceIDLogRoundTrip(t *testing.T) {
	raw := append([]byte(EvidenceLogPrefix), be64(99)...)
	n, err := ParseEvidenceIDLog(raw)
	if err != nil {
		t.Fatalf("ParseEvidenceIDLog() error: %v", err)
	}
	if n != 99 {
		t.Errorf("expected 99, got %d", n)
	}
}

func TestParseEvidenceIDLogRejectsWrongPrefix(t *testing.T) {
	raw := append([]byte("wrong_prefix:"), be64(1)...)
	if _, err := ParseEvidenceIDLog(raw); err == nil {
		t.Fatalf("expected an error for a mismatched log prefix")
	}
}

func TestParseEvidenceIDLogRejectsShortEntry(t *testing.T) {
	if _, err := ParseEvidenceIDLog([]byte(EvidenceLogPrefix)); err == nil {
		t.Fatalf("expected an error for a truncated log entry")
	}
}
