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

// MySQLRecordStore implements encrypted record access for MySQL databases.
type MySQLRecordStore struct {
	db *sql.DB
}

// NewMySQLRecordStore creates a new MySQL record store instance.
func NewMySQLRecordStore(db *sql.DB) *MySQLRecordStore {
	return &MySQLRecordStore{db: db}
}

// CountRecords returns the number of rows in the entity class table.
func (s *MySQLRecordStore) CountRecords(
	ctx context.Context,
	class recordsDomain.EntityClass,
) (int, error) {
	querier := database.GetTx(ctx, s.db)

	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, class.Table)

	var count int
	if err := querier.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count records for "+class.Name)
	}
	return count, nil
}

// ListRecords reads a batch of rows with IDs greater than afterID, in ID
// order. NULL columns are omitted from the record's Values map.
func (s *MySQLRecordStore) ListRecords(
	ctx context.Context,
	class recordsDomain.EntityClass,
	afterID int64,
	limit int,
) ([]recordsDomain.EncryptedRecord, error) {
	querier := database.GetTx(ctx, s.db)

	columns := class.FieldColumns()
	query := fmt.Sprintf(
		`SELECT %s, %s FROM %s WHERE %s > ? ORDER BY %s LIMIT ?`,
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
// columns present in values are touched.
func (s *MySQLRecordStore) UpdateRecordFields(
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
		assignments = append(assignments, column+" = ?")
		args = append(args, value)
	}
	args = append(args, id)

	query := fmt.Sprintf(
		`UPDATE %s SET %s WHERE %s = ?`,
		class.Table,
		strings.Join(assignments, ", "),
		class.IDColumn,
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
