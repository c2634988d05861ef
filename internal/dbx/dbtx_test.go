package dbx

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func setupDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func TestWithTx_CommitsOnSuccess(t *testing.T) {
	db, mock := setupDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO t`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO t(v) VALUES ('ok')`)
		return err
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTx_RollbackOnFnError(t *testing.T) {
	db, mock := setupDB(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		return errors.New("boom")
	})
	require.EqualError(t, err, "boom")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTx_RollbackOnPanic(t *testing.T) {
	db, mock := setupDB(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic to propagate")
		}
		require.NoError(t, mock.ExpectationsWereMet())
	}()

	_ = WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		panic("kaput")
	})
}

func TestWithTx_BeginError(t *testing.T) {
	db, mock := setupDB(t)
	mock.ExpectBegin().WillReturnError(errors.New("no conn"))

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		t.Fatal("fn must not run")
		return nil
	})
	require.EqualError(t, err, "no conn")
}

func TestWithTxValue_ReturnsValueOnCommit(t *testing.T) {
	db, mock := setupDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT 42`).WillReturnRows(sqlmock.NewRows([]string{"v"}).AddRow(int64(42)))
	mock.ExpectCommit()

	v, err := WithTxValue(context.Background(), db, nil, func(ctx context.Context, tx DBTX) (int64, error) {
		var n int64
		err := tx.QueryRowContext(ctx, `SELECT 42`).Scan(&n)
		return n, err
	})
	require.NoError(t, err)
	require.Equal(t, int64(42), v)
}

func TestWithTxValue_ZeroOnCommitError(t *testing.T) {
	db, mock := setupDB(t)

	mock.ExpectBegin()
	mock.ExpectCommit().WillReturnError(errors.New("commit failed"))

	v, err := WithTxValue(context.Background(), db, nil, func(ctx context.Context, tx DBTX) (int64, error) {
		return 7, nil
	})
	require.EqualError(t, err, "commit failed")
	require.Zero(t, v)
}
