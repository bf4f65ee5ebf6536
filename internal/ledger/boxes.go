package ledger

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
)

// Box key prefixes used by the deployed registry program.
const (
	evidencePrefix      = "EVD-"
	verificationPrefix  = "VRF-"
	commitPrefix        = "CMT-"
	revealPrefix        = "RVL-"
	auditPrefix         = "AUD-"
)

// be64 big-endian-encodes a counter the way the on-chain program expects.
func be64(counter uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, counter)
	return b
}

// EvidenceBoxKey returns "EVD-" ‖ be64(counter).
func EvidenceBoxKey(counter uint64) []byte {
	return append([]byte(evidencePrefix), be64(counter)...)
}

// VerificationBoxKey returns "VRF-" ‖ be64(counter).
func VerificationBoxKey(counter uint64) []byte {
	return append([]byte(verificationPrefix), be64(counter)...)
}

// CommitBoxKey returns "CMT-" ‖ be64(counter) ‖ inspector_addr_bytes.
func CommitBoxKey(counter uint64, inspectorAddrBytes []byte) []byte {
	key := append([]byte(commitPrefix), be64(counter)...)
	return append(key, inspectorAddrBytes...)
}

// RevealBoxKey returns "RVL-" ‖ be64(counter) ‖ inspector_addr_bytes.
func RevealBoxKey(counter uint64, inspectorAddrBytes []byte) []byte {
	key := append([]byte(revealPrefix), be64(counter)...)
	return append(key, inspectorAddrBytes...)
}

// AuditBoxKey returns "AUD-" ‖ be64(counter).
func AuditBoxKey(counter uint64) []byte {
	return append([]byte(auditPrefix), be64(counter)...)
}

// CounterFromEvidenceID parses the trailing NNNNN of an "EVD-YYYY-NNNNN" id.
func CounterFromEvidenceID(evidenceID string) (uint64, error) {
	parts := strings.Split(evidenceID, "-")
	if len(parts) == 0 {
		return 0, fmt.Errorf("ledger: malformed evidence id %q", evidenceID)
	}
	n, err := strconv.ParseUint(parts[len(parts)-1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("ledger: malformed evidence id %q: %w", evidenceID, err)
	}
	return n, nil
}

// FormatEvidenceID builds "EVD-YYYY-NNNNN" from a year and a counter.
func FormatEvidenceID(year int, counter uint64) string {
	return fmt.Sprintf("EVD-%04d-%05d", year, counter)
}

// EvidenceLogPrefix is the log tag the on-chain program emits on submit_evidence.
const EvidenceLogPrefix = "evidence_id:"

// ParseEvidenceIDLog extracts the minted counter from a
// "evidence_id:" ‖ be64(counter) log entry.
func ParseEvidenceIDLog(log []byte) (uint64, error) {
	prefix := []byte(EvidenceLogPrefix)
	if len(log) != len(prefix)+8 || string(log[:len(prefix)]) != EvidenceLogPrefix {
		return 0, fmt.Errorf("ledger: malformed evidence_id log entry")
	}
	return binary.BigEndian.Uint64(log[len(prefix):]), nil
}
