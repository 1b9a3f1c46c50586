// Package repository implements batch access to the tables holding PHI
// ciphertext columns. Stores support both PostgreSQL and MySQL and read
// rows in keyset-paginated batches for key rotation.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/clearcove/phicrypt/internal/database"
	apperrors "github.com/clearcove/phicrypt/internal/errors"
	recordsDomain "github.com/clearcove/phicrypt/internal/records/domain"
)

// PostgreSQLRecordStore implements encrypted record access for PostgreSQL databases.
type PostgreSQLRecordStore struct {
	db *sql.DB
}

// NewPostgreSQLRecordStore creates a new PostgreSQL record store instance.
func NewPostgreSQLRecordStore(db *sql.DB) *PostgreSQLRecordStore {
	return &PostgreSQLRecordStore{db: db}
}

// CountRecords returns the number of rows in the entity class table.
func (s *PostgreSQLRecordStore) CountRecords(
	ctx context.Context,
	class recordsDomain.EntityClass,
) (int, error) {
	querier := database.GetTx(ctx, s.db)

	// Table names come from the static registry, never from input.
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, class.Table)

	var count int
	if err := querier.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count records for "+class.Name)
	}
	return count, nil
}

// ListRecords reads a batch of rows with IDs greater than afterID, in ID
// order. NULL columns are omitted from the record's Values map.
func (s *PostgreSQLRecordStore) ListRecords(
	ctx context.Context,
	class recordsDomain.EntityClass,
	afterID int64,
	limit int,
) ([]recordsDomain.EncryptedRecord, error) {
	querier := database.GetTx(ctx, s.db)

	columns := class.FieldColumns()
	query := fmt.Sprintf(
		`SELECT %s, %s FROM %s WHERE %s > $1 ORDER BY %s LIMIT $2`,
		class.IDColumn,
		strings.Join(columns, ", "),
		class.Table,
		class.IDColumn,
		class.IDColumn,
	)

	rows, err := querier.QueryContext(ctx, query, afterID, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list records for "+class.Name)
	}
	defer func() { _ = rows.Close() }()

	records, err := scanRecords(rows, columns)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to scan records for "+class.Name)
	}
	return records, nil
}

// UpdateRecordFields writes new ciphertext values for a single row. Only the
// columns present in values are touched; order follows the registry so the
// statement shape is stable.
func (s *PostgreSQLRecordStore) UpdateRecordFields(
	ctx context.Context,
	class recordsDomain.EntityClass,
	id int64,
	values map[string]string,
) error {
	if len(values) == 0 {
		return nil
	}

	querier := database.GetTx(ctx, s.db)

	assignments := make([]string, 0, len(values))
	args := make([]any, 0, len(values)+1)
	for _, column := range class.FieldColumns() {
		value, ok := values[column]
		if !ok {
			continue
		}
		assignments = append(assignments, fmt.Sprintf("%s = $%d", column, len(args)+1))
		args = append(args, value)
	}
	args = append(args, id)

	query := fmt.Sprintf(
		`UPDATE %s SET %s WHERE %s = $%d`,
		class.Table,
		strings.Join(assignments, ", "),
		class.IDColumn,
		len(args),
	)

	result, err := querier.ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.Wrap(err, "failed to update record for "+class.Name)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to read update result for "+class.Name)
	}
	if affected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// scanRecords converts result rows into encrypted records, skipping NULL
// and empty columns.
func scanRecords(rows *sql.Rows, columns []string) ([]recordsDomain.EncryptedRecord, error) {
	var records []recordsDomain.EncryptedRecord

	for rows.Next() {
		var id int64
		fields := make([]sql.NullString, len(columns))

		dest := make([]any, 0, len(columns)+1)
		dest = append(dest, &id)
		for i := range fields {
			dest = append(dest, &fields[i])
		}

		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}

		record := recordsDomain.EncryptedRecord{
			ID:     id,
			Values: make(map[string]string, len(columns)),
		}
		for i, column := range columns {
			if fields[i].Valid && fields[i].String != "" {
				record.Values[column] = fields[i].String
			}
		}
		records = append(records, record)
	}

	return records, rows.Err()
}
