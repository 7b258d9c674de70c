package trace

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainSnapshot is the domain prefix for content-addressed snapshot ids.
// The version suffix enables future algorithm migration.
const DomainSnapshot = "loopy/trace/v1"

// SnapshotID computes a content-addressed id for a run trace. Two runs of the
// same program on the same level produce the same id, which makes replay
// divergence visible at a glance.
//
// Format: SHA256(domain + 0x00 + canonical JSON). The null separator prevents
// domain/data boundary ambiguity.
func SnapshotID(s *Snapshot) (string, error) {
	canonical, err := s.MarshalCanonical()
	if err != nil {
		return "", fmt.Errorf("SnapshotID: failed to marshal: %w", err)
	}
	h := sha256.New()
	h.Write([]byte(DomainSnapshot))
	h.Write([]byte{0x00})
	h.Write(canonical)
	return hex.EncodeToString(h.Sum(nil)), nil
}
