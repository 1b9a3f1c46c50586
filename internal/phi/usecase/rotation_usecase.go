package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/clearcove/phicrypt/internal/database"
	phiDomain "github.com/clearcove/phicrypt/internal/phi/domain"
	phiService "github.com/clearcove/phicrypt/internal/phi/service"
	recordsDomain "github.com/clearcove/phicrypt/internal/records/domain"
)

// rotationProbe is the plaintext used to self-test both keys before any
// stored data is touched.
const rotationProbe = "phicrypt-rotation-self-test"

// defaultBatchSize bounds memory use when the input does not override it.
const defaultBatchSize = 500

// rotationUseCase implements the RotationUseCase interface.
//
// A rotation run walks every registered entity class in order, reads rows in
// keyset-paginated batches, and re-encrypts each non-NULL field value from
// the old key to the new key. Each record's updated columns are written in
// one transaction, so a row is never left half-rotated. A field that cannot
// be decrypted or re-encrypted is skipped with a warning and stays on the old
// key; only infrastructure failures (database errors, context cancellation)
// abort the run.
type rotationUseCase struct {
	txManager    database.TxManager
	store        RecordStore
	rotationRepo RotationRecordRepository
	batchSize    int
	logger       *slog.Logger
}

// NewRotationUseCase creates a RotationUseCase.
func NewRotationUseCase(
	txManager database.TxManager,
	store RecordStore,
	rotationRepo RotationRecordRepository,
	batchSize int,
	logger *slog.Logger,
) RotationUseCase {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &rotationUseCase{
		txManager:    txManager,
		store:        store,
		rotationRepo: rotationRepo,
		batchSize:    batchSize,
		logger:       logger,
	}
}

// ValidateRotationKeys checks the rotation preconditions: both keys parse as
// 64-character hex, the keys differ, and each key passes an encrypt/decrypt
// self-test. All failures wrap ErrRotationValidation so rotation aborts
// before any stored data is touched.
func ValidateRotationKeys(oldKeyHex, newKeyHex string) (phiDomain.Key, phiDomain.Key, error) {
	oldKey, err := phiDomain.ParseKey(oldKeyHex)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: old key: %v", phiDomain.ErrRotationValidation, err)
	}

	newKey, err := phiDomain.ParseKey(newKeyHex)
	if err != nil {
		oldKey.Zero()
		return nil, nil, fmt.Errorf("%w: new key: %v", phiDomain.ErrRotationValidation, err)
	}

	if oldKey.Equal(newKey) {
		oldKey.Zero()
		newKey.Zero()
		return nil, nil, fmt.Errorf(
			"%w: old and new keys must differ", phiDomain.ErrRotationValidation,
		)
	}

	for name, key := range map[string]phiDomain.Key{"old": oldKey, "new": newKey} {
		if err := selfTestKey(key); err != nil {
			oldKey.Zero()
			newKey.Zero()
			return nil, nil, fmt.Errorf(
				"%w: %s key failed self-test: %v", phiDomain.ErrRotationValidation, name, err,
			)
		}
	}

	return oldKey, newKey, nil
}

// selfTestKey round-trips a probe value through the cipher.
func selfTestKey(key phiDomain.Key) error {
	envelope, err := phiService.EncryptWithKey(rotationProbe, key)
	if err != nil {
		return err
	}
	plaintext, err := phiService.DecryptWithKey(envelope, key)
	if err != nil {
		return err
	}
	if plaintext != rotationProbe {
		return fmt.Errorf("probe round trip mismatch")
	}
	return nil
}

// Rotate runs a full key rotation across all registered entity classes.
//
// The audit record is written even when the run aborts partway, using a
// context detached from cancellation, so an interrupted rotation still leaves
// a trace of what was processed.
func (u *rotationUseCase) Rotate(
	ctx context.Context,
	input *phiDomain.RotationInput,
) (*phiDomain.RotationResult, error) {
	oldKey, newKey, err := ValidateRotationKeys(input.OldKeyHex, input.NewKeyHex)
	if err != nil {
		return nil, err
	}
	defer oldKey.Zero()
	defer newKey.Zero()

	batchSize := input.BatchSize
	if batchSize <= 0 {
		batchSize = u.batchSize
	}

	u.logger.Info("starting key rotation",
		slog.String("old_key_fingerprint", oldKey.Fingerprint()),
		slog.String("new_key_fingerprint", newKey.Fingerprint()),
		slog.String("reason", input.Reason),
		slog.Int("batch_size", batchSize),
	)

	result := &phiDomain.RotationResult{}
	entityCounts := make(map[string]int)
	status := phiDomain.RotationCompleted
	var runErr error

	for _, class := range recordsDomain.Registry() {
		// Cancellation is honored between classes, not mid-record, so a
		// stopped run still leaves every touched row consistent.
		if err := ctx.Err(); err != nil {
			status = phiDomain.RotationFailed
			runErr = err
			break
		}

		classResult, err := u.rotateClass(ctx, class, oldKey, newKey, batchSize)
		entityCounts[class.Name] = classResult.records
		result.RotatedFields += classResult.rotatedFields
		result.SkippedFields += classResult.skippedFields
		if err != nil {
			status = phiDomain.RotationFailed
			runErr = err
			break
		}

		u.logger.Info("rotated entity class",
			slog.String("entity_class", class.Name),
			slog.Int("records", classResult.records),
			slog.Int("fields_rotated", classResult.rotatedFields),
			slog.Int("fields_skipped", classResult.skippedFields),
		)
	}

	record := phiDomain.NewRotationRecord(oldKey, newKey, entityCounts, input.Reason, status)
	result.Record = record

	// Best-effort audit write, detached from the run's cancellation.
	if err := u.rotationRepo.Create(context.WithoutCancel(ctx), &record); err != nil {
		u.logger.Error("failed to persist rotation record",
			slog.String("rotation_id", record.ID.String()),
			slog.Any("error", err),
		)
	}

	if runErr != nil {
		return result, runErr
	}

	u.logger.Info("key rotation completed",
		slog.String("rotation_id", record.ID.String()),
		slog.Int("total_records", record.TotalRecords),
		slog.Int("fields_rotated", result.RotatedFields),
		slog.Int("fields_skipped", result.SkippedFields),
	)
	return result, nil
}

// GetRotation returns a single rotation audit record by id.
func (u *rotationUseCase) GetRotation(
	ctx context.Context,
	id uuid.UUID,
) (*phiDomain.RotationRecord, error) {
	return u.rotationRepo.GetByID(ctx, id)
}

// ListRotations returns the most recent rotation audit records.
func (u *rotationUseCase) ListRotations(
	ctx context.Context,
	limit int,
) ([]*phiDomain.RotationRecord, error) {
	return u.rotationRepo.List(ctx, limit)
}

// classRotation tallies one entity class's run.
type classRotation struct {
	records       int
	rotatedFields int
	skippedFields int
}

// rotateClass walks one entity class in keyset-paginated batches.
func (u *rotationUseCase) rotateClass(
	ctx context.Context,
	class recordsDomain.EntityClass,
	oldKey, newKey phiDomain.Key,
	batchSize int,
) (classRotation, error) {
	var tally classRotation
	var afterID int64

	for {
		records, err := u.store.ListRecords(ctx, class, afterID, batchSize)
		if err != nil {
			return tally, err
		}
		if len(records) == 0 {
			return tally, nil
		}

		for _, record := range records {
			afterID = record.ID

			updated, skipped := u.rotateRecordFields(class, record, oldKey, newKey)
			tally.skippedFields += skipped
			if len(updated) == 0 {
				continue
			}

			err := u.txManager.WithTx(ctx, func(txCtx context.Context) error {
				return u.store.UpdateRecordFields(txCtx, class, record.ID, updated)
			})
			if err != nil {
				return tally, err
			}

			tally.records++
			tally.rotatedFields += len(updated)
		}

		if len(records) < batchSize {
			return tally, nil
		}
	}
}

// rotateRecordFields re-encrypts every present field of one record. A field
// that fails stays on the old key and is counted as skipped; the remaining
// fields of the record are still rotated.
func (u *rotationUseCase) rotateRecordFields(
	class recordsDomain.EntityClass,
	record recordsDomain.EncryptedRecord,
	oldKey, newKey phiDomain.Key,
) (map[string]string, int) {
	updated := make(map[string]string, len(record.Values))
	skipped := 0

	for _, field := range class.Fields {
		envelope, ok := record.Values[field.Column]
		if !ok {
			continue
		}

		plaintext, err := phiService.DecryptWithKey(envelope, oldKey)
		if err != nil {
			u.warnSkippedField(class, field.Column, record.ID, err)
			skipped++
			continue
		}

		reencrypted, err := phiService.EncryptWithKey(plaintext, newKey)
		if err != nil {
			u.warnSkippedField(class, field.Column, record.ID, err)
			skipped++
			continue
		}

		updated[field.Column] = reencrypted
	}

	return updated, skipped
}

func (u *rotationUseCase) warnSkippedField(
	class recordsDomain.EntityClass,
	column string,
	recordID int64,
	cause error,
) {
	u.logger.Warn("skipping field during key rotation",
		slog.String("entity_class", class.Name),
		slog.String("column", column),
		slog.Int64("record_id", recordID),
		slog.Any("error", fmt.Errorf("%w: %v", phiDomain.ErrRotationField, cause)),
	)
}
