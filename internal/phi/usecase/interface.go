// Package usecase defines the interfaces and implementations for PHI
// encryption use cases. Use cases orchestrate operations between the
// encryption service, record stores, and audit repositories to implement
// field-level protection and key rotation.
package usecase

import (
	"context"

	"github.com/google/uuid"

	phiDomain "github.com/clearcove/phicrypt/internal/phi/domain"
	recordsDomain "github.com/clearcove/phicrypt/internal/records/domain"
)

// RotationRecordRepository defines the interface for rotation audit record persistence.
type RotationRecordRepository interface {
	Create(ctx context.Context, record *phiDomain.RotationRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*phiDomain.RotationRecord, error)
	List(ctx context.Context, limit int) ([]*phiDomain.RotationRecord, error)
}

// RecordStore defines batch access to the tables holding encrypted PHI columns.
type RecordStore interface {
	CountRecords(ctx context.Context, class recordsDomain.EntityClass) (int, error)
	ListRecords(
		ctx context.Context,
		class recordsDomain.EntityClass,
		afterID int64,
		limit int,
	) ([]recordsDomain.EncryptedRecord, error)
	UpdateRecordFields(
		ctx context.Context,
		class recordsDomain.EntityClass,
		id int64,
		values map[string]string,
	) error
}

// KeyManager supplies and validates the active process-wide encryption key.
type KeyManager interface {
	EncryptionKey() (phiDomain.Key, error)
	ValidateCurrentKey() (bool, error)
}

// PHIUseCase defines the interface for field-level PHI protection operations.
type PHIUseCase interface {
	// Encrypt returns a versioned ciphertext envelope for the plaintext.
	// Blank input returns the empty string.
	Encrypt(ctx context.Context, plaintext string) (string, error)
	// Decrypt returns the plaintext for a ciphertext envelope.
	// Blank input returns the empty string.
	Decrypt(ctx context.Context, envelope string) (string, error)
	// SearchHash returns the deterministic hash used for equality search
	// over encrypted columns.
	SearchHash(ctx context.Context, plaintext string) (string, error)
}

// RotationUseCase defines the interface for key rotation business logic.
type RotationUseCase interface {
	// Rotate re-encrypts every PHI column of every registered entity class
	// from the old key to the new key and writes an audit record.
	Rotate(ctx context.Context, input *phiDomain.RotationInput) (*phiDomain.RotationResult, error)
	// GetRotation returns a single rotation audit record by id.
	GetRotation(ctx context.Context, id uuid.UUID) (*phiDomain.RotationRecord, error)
	// ListRotations returns the most recent rotation audit records.
	ListRotations(ctx context.Context, limit int) ([]*phiDomain.RotationRecord, error)
}

// HealthUseCase defines the interface for the encryption subsystem self-check.
type HealthUseCase interface {
	Check(ctx context.Context) (*phiDomain.HealthStatus, error)
}
