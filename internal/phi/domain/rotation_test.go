package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRotationRecord(t *testing.T) {
	oldKey, err := GenerateKey()
	require.NoError(t, err)
	newKey, err := GenerateKey()
	require.NoError(t, err)

	counts := map[string]int{
		"patients":          12,
		"clients":           3,
		"clinical_sessions": 40,
	}

	record := NewRotationRecord(oldKey, newKey, counts, "annual rotation", RotationCompleted)

	assert.NotEqual(t, [16]byte{}, [16]byte(record.ID))
	assert.Equal(t, oldKey.Fingerprint(), record.OldKeyFingerprint)
	assert.Equal(t, newKey.Fingerprint(), record.NewKeyFingerprint)
	assert.Equal(t, 55, record.TotalRecords)
	assert.Equal(t, "annual rotation", record.Reason)
	assert.Equal(t, RotationCompleted, record.Status)
	assert.WithinDuration(t, time.Now().UTC(), record.CreatedAt, time.Second)

	// Fingerprints must never expose full key material.
	assert.NotContains(t, oldKey.Hex()[:56], record.OldKeyFingerprint+record.NewKeyFingerprint)
	assert.Len(t, record.OldKeyFingerprint, FingerprintLength)
}

func TestNewRotationRecord_EmptyCounts(t *testing.T) {
	oldKey, _ := GenerateKey()
	newKey, _ := GenerateKey()

	record := NewRotationRecord(oldKey, newKey, map[string]int{}, "", RotationFailed)
	assert.Zero(t, record.TotalRecords)
	assert.Equal(t, RotationFailed, record.Status)
}
