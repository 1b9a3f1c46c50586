// Package repository implements persistence for key rotation audit records.
// Repositories support both PostgreSQL and MySQL; per-class tallies are
// stored as JSON.
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

// PostgreSQLRotationRecordRepository implements RotationRecord persistence
// for PostgreSQL databases.
type PostgreSQLRotationRecordRepository struct {
	db *sql.DB
}

// NewPostgreSQLRotationRecordRepository creates a new PostgreSQL RotationRecord repository instance.
func NewPostgreSQLRotationRecordRepository(db *sql.DB) *PostgreSQLRotationRecordRepository {
	return &PostgreSQLRotationRecordRepository{db: db}
}

// Create inserts a new rotation record into the PostgreSQL database.
func (p *PostgreSQLRotationRecordRepository) Create(
	ctx context.Context,
	record *phiDomain.RotationRecord,
) error {
	querier := database.GetTx(ctx, p.db)

	counts, err := json.Marshal(record.EntityCounts)
	if err != nil {
		return apperrors.Wrap(err, "failed to encode rotation entity counts")
	}

	query := `INSERT INTO rotation_records
			  (id, old_key_fingerprint, new_key_fingerprint, entity_counts, total_records, reason, status, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err = querier.ExecContext(
		ctx,
		query,
		record.ID,
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
func (p *PostgreSQLRotationRecordRepository) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (*phiDomain.RotationRecord, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, old_key_fingerprint, new_key_fingerprint, entity_counts, total_records, reason, status, created_at
			  FROM rotation_records
			  WHERE id = $1`

	record, err := scanRotationRecord(querier.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get rotation record")
	}
	return record, nil
}

// List retrieves the most recent rotation records, newest first.
func (p *PostgreSQLRotationRecordRepository) List(
	ctx context.Context,
	limit int,
) ([]*phiDomain.RotationRecord, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, old_key_fingerprint, new_key_fingerprint, entity_counts, total_records, reason, status, created_at
			  FROM rotation_records
			  ORDER BY created_at DESC
			  LIMIT $1`

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

// rowScanner abstracts *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRotationRecord(row rowScanner) (*phiDomain.RotationRecord, error) {
	var (
		record phiDomain.RotationRecord
		counts []byte
	)

	err := row.Scan(
		&record.ID,
		&record.OldKeyFingerprint,
		&record.NewKeyFingerprint,
		&counts,
		&record.TotalRecords,
		&record.Reason,
		&record.Status,
		&record.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(counts) > 0 {
		if err := json.Unmarshal(counts, &record.EntityCounts); err != nil {
			return nil, err
		}
	}
	return &record, nil
}
