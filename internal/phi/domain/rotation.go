package domain

import (
	"time"

	"github.com/google/uuid"
)

// RotationStatus is the terminal state of a key rotation run.
type RotationStatus string

const (
	// RotationCompleted indicates the run processed every entity class.
	RotationCompleted RotationStatus = "completed"

	// RotationFailed indicates the run aborted before completing.
	RotationFailed RotationStatus = "failed"
)

// RotationRecord is the immutable audit entry written once per rotation run.
//
// It captures key fingerprints (trailing 8 hex characters, never full key
// material), the count of records re-encrypted per entity class, a free-text
// reason supplied by the operator, and a terminal status. Persisting the
// record is best-effort: an audit write failure must not fail the rotation.
type RotationRecord struct {
	ID                uuid.UUID
	OldKeyFingerprint string
	NewKeyFingerprint string
	EntityCounts      map[string]int
	TotalRecords      int
	Reason            string
	Status            RotationStatus
	CreatedAt         time.Time
}

// NewRotationRecord builds the audit entry for a finished rotation run.
// TotalRecords is derived from the per-class counts.
func NewRotationRecord(
	oldKey, newKey Key,
	entityCounts map[string]int,
	reason string,
	status RotationStatus,
) RotationRecord {
	total := 0
	for _, n := range entityCounts {
		total += n
	}

	return RotationRecord{
		ID:                uuid.Must(uuid.NewV7()),
		OldKeyFingerprint: oldKey.Fingerprint(),
		NewKeyFingerprint: newKey.Fingerprint(),
		EntityCounts:      entityCounts,
		TotalRecords:      total,
		Reason:            reason,
		Status:            status,
		CreatedAt:         time.Now().UTC(),
	}
}
