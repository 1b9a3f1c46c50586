package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/clearcove/phicrypt/internal/errors"
	recordsDomain "github.com/clearcove/phicrypt/internal/records/domain"
)

func sessionsClass(t *testing.T) recordsDomain.EntityClass {
	t.Helper()
	class, ok := recordsDomain.ClassByName("clinical_sessions")
	require.True(t, ok)
	return class
}

func TestPostgreSQLRecordStore_CountRecords(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM clinical_sessions`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

	store := NewPostgreSQLRecordStore(db)
	count, err := store.CountRecords(context.Background(), sessionsClass(t))
	require.NoError(t, err)
	assert.Equal(t, 42, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLRecordStore_ListRecords(t *testing.T) {
	t.Run("Batch", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		rows := sqlmock.NewRows([]string{"id", "session_notes", "diagnosis_codes", "treatment_plan"}).
			AddRow(int64(1), "v1:aa:bb:cc", "v1:dd:ee:ff", nil).
			AddRow(int64(2), nil, "v1:11:22:33", "v1:44:55:66")

		mock.ExpectQuery(`SELECT id, session_notes, diagnosis_codes, treatment_plan FROM clinical_sessions WHERE id > \$1 ORDER BY id LIMIT \$2`).
			WithArgs(int64(0), 100).
			WillReturnRows(rows)

		store := NewPostgreSQLRecordStore(db)
		records, err := store.ListRecords(context.Background(), sessionsClass(t), 0, 100)
		require.NoError(t, err)
		require.Len(t, records, 2)

		assert.Equal(t, int64(1), records[0].ID)
		assert.Equal(t, map[string]string{
			"session_notes":   "v1:aa:bb:cc",
			"diagnosis_codes": "v1:dd:ee:ff",
		}, records[0].Values)

		// NULL columns are absent from the map, not empty strings.
		assert.Equal(t, int64(2), records[1].ID)
		assert.NotContains(t, records[1].Values, "session_notes")

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("EmptyBatch", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectQuery(`SELECT id, session_notes`).
			WithArgs(int64(99), 100).
			WillReturnRows(sqlmock.NewRows([]string{"id", "session_notes", "diagnosis_codes", "treatment_plan"}))

		store := NewPostgreSQLRecordStore(db)
		records, err := store.ListRecords(context.Background(), sessionsClass(t), 99, 100)
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("QueryError", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectQuery(`SELECT id, session_notes`).
			WillReturnError(errors.New("connection reset"))

		store := NewPostgreSQLRecordStore(db)
		_, err = store.ListRecords(context.Background(), sessionsClass(t), 0, 100)
		assert.Error(t, err)
	})
}

func TestPostgreSQLRecordStore_UpdateRecordFields(t *testing.T) {
	t.Run("UpdatesOnlyProvidedColumns", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectExec(`UPDATE clinical_sessions SET session_notes = \$1, treatment_plan = \$2 WHERE id = \$3`).
			WithArgs("v1:new:notes:aa", "v1:new:plan:bb", int64(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		store := NewPostgreSQLRecordStore(db)
		err = store.UpdateRecordFields(context.Background(), sessionsClass(t), 7, map[string]string{
			"session_notes":  "v1:new:notes:aa",
			"treatment_plan": "v1:new:plan:bb",
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NoValuesIsNoop", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		store := NewPostgreSQLRecordStore(db)
		err = store.UpdateRecordFields(context.Background(), sessionsClass(t), 7, nil)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("MissingRow", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectExec(`UPDATE clinical_sessions`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		store := NewPostgreSQLRecordStore(db)
		err = store.UpdateRecordFields(context.Background(), sessionsClass(t), 999, map[string]string{
			"session_notes": "v1:aa:bb:cc",
		})
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}
