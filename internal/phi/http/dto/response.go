package dto

import (
	"time"

	phiDomain "github.com/clearcove/phicrypt/internal/phi/domain"
)

// EncryptResponse contains the ciphertext envelope for an encrypted value.
type EncryptResponse struct {
	Ciphertext string `json:"ciphertext"`
}

// DecryptResponse contains the plaintext for a decrypted value.
type DecryptResponse struct {
	Plaintext string `json:"plaintext"`
}

// SearchHashResponse contains the deterministic hash for equality search.
type SearchHashResponse struct {
	SearchHash string `json:"search_hash"`
}

// RotationRecordResponse is the JSON representation of a rotation audit entry.
type RotationRecordResponse struct {
	ID                string         `json:"id"`
	OldKeyFingerprint string         `json:"old_key_fingerprint"`
	NewKeyFingerprint string         `json:"new_key_fingerprint"`
	EntityCounts      map[string]int `json:"entity_counts"`
	TotalRecords      int            `json:"total_records"`
	Reason            string         `json:"reason"`
	Status            string         `json:"status"`
	CreatedAt         time.Time      `json:"created_at"`
}

// RotateKeysResponse summarizes a finished rotation run.
type RotateKeysResponse struct {
	Rotation      RotationRecordResponse `json:"rotation"`
	RotatedFields int                    `json:"rotated_fields"`
	SkippedFields int                    `json:"skipped_fields"`
}

// ListRotationsResponse wraps the rotation history listing.
type ListRotationsResponse struct {
	Rotations []RotationRecordResponse `json:"rotations"`
}

// MapRotationRecordResponse converts a domain rotation record to its response form.
func MapRotationRecordResponse(record *phiDomain.RotationRecord) RotationRecordResponse {
	return RotationRecordResponse{
		ID:                record.ID.String(),
		OldKeyFingerprint: record.OldKeyFingerprint,
		NewKeyFingerprint: record.NewKeyFingerprint,
		EntityCounts:      record.EntityCounts,
		TotalRecords:      record.TotalRecords,
		Reason:            record.Reason,
		Status:            string(record.Status),
		CreatedAt:         record.CreatedAt,
	}
}

// MapRotateKeysResponse converts a rotation result to its response form.
func MapRotateKeysResponse(result *phiDomain.RotationResult) RotateKeysResponse {
	return RotateKeysResponse{
		Rotation:      MapRotationRecordResponse(&result.Record),
		RotatedFields: result.RotatedFields,
		SkippedFields: result.SkippedFields,
	}
}

// MapListRotationsResponse converts rotation records to the listing response.
func MapListRotationsResponse(records []*phiDomain.RotationRecord) ListRotationsResponse {
	rotations := make([]RotationRecordResponse, 0, len(records))
	for _, record := range records {
		rotations = append(rotations, MapRotationRecordResponse(record))
	}
	return ListRotationsResponse{Rotations: rotations}
}
