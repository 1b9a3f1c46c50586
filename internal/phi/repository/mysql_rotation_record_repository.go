package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/clearcove/phicrypt/internal/database"
	apperrors "github.com/clearcove/phicrypt/internal/errors"
	phiDomain "github.com/clearcove/phicrypt/internal/phi/domain"
)

// MySQLRotationRecordRepository implements RotationRecord persistence for
// MySQL databases.
type MySQLRotationRecordRepository struct {
	db *sql.DB
}

// NewMySQLRotationRecordRepository creates a new MySQL RotationRecord repository instance.
func NewMySQLRotationRecordRepository(db *sql.DB) *MySQLRotationRecordRepository {
	return &MySQLRotationRecordRepository{db: db}
}

// Create inserts a new rotation record into the MySQL database.
func (m *MySQLRotationRecordRepository) Create(
	ctx context.Context,
	record *phiDomain.RotationRecord,
) error {
	querier := database.GetTx(ctx, m.db)

	counts, err := json.Marshal(record.EntityCounts)
	if err != nil {
		return apperrors.Wrap(err, "failed to encode rotation entity counts")
	}

	query := `INSERT INTO rotation_records
			  (id, old_key_fingerprint, new_key_fingerprint, entity_counts, total_records, reason, status, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		record.ID.String(),
		record.OldKeyFingerprint,
		record.NewKeyFingerprint,
		counts,
		record.TotalRecords,
		record.Reason,
		record.Status,
		record.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create rotation record")
	}
	return nil
}

// GetByID retrieves a rotation record by its identifier.
func (m *MySQLRotationRecordRepository) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (*phiDomain.RotationRecord, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, old_key_fingerprint, new_key_fingerprint, entity_counts, total_records, reason, status, created_at
			  FROM rotation_records
			  WHERE id = ?`

	record, err := scanRotationRecord(querier.QueryRowContext(ctx, query, id.String()))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get rotation record")
	}
	return record, nil
}

// List retrieves the most recent rotation records, newest first.
func (m *MySQLRotationRecordRepository) List(
	ctx context.Context,
	limit int,
) ([]*phiDomain.RotationRecord, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, old_key_fingerprint, new_key_fingerprint, entity_counts, total_records, reason, status, created_at
			  FROM rotation_records
			  ORDER BY created_at DESC
			  LIMIT ?`

	rows, err := querier.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list rotation records")
	}
	defer func() { _ = rows.Close() }()

	var records []*phiDomain.RotationRecord
	for rows.Next() {
		record, err := scanRotationRecord(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan rotation record")
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to list rotation records")
	}
	return records, nil
}
