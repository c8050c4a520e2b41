package postgres

import (
	"context"
	"testing"
	"time"

	"svc-wallet/internal/core/domain"
	"svc-wallet/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOperationRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewOperationRepo(mock)
	op := domain.NewDeposit(uuid.New(), 100, "ext-1", "topup", "trace-1", time.Now().UTC())

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO operations").
		WithArgs(op.ID, op.WalletID, op.Amount, op.Type, op.Reason, op.ExternalOperationID, op.TraceID, op.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Create(context.Background(), tx, op)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOperationRepo_Create_DuplicateExternalID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewOperationRepo(mock)
	op := domain.NewWithdrawal(uuid.New(), 50, "ext-dup", "", "", time.Now().UTC())

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO operations").
		WithArgs(op.ID, op.WalletID, op.Amount, op.Type, op.Reason, op.ExternalOperationID, op.TraceID, op.CreatedAt).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "operations_external_operation_id_key"})

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Create(context.Background(), tx, op)
	assert.ErrorIs(t, err, ports.ErrOperationExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOperationRepo_ExistsByExternalID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewOperationRepo(mock)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("ext-1").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	exists, err := repo.ExistsByExternalID(context.Background(), tx, "ext-1")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOperationRepo_SumByWalletID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewOperationRepo(mock)
	walletID := uuid.New()

	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(amount\\), 0\\) FROM operations WHERE wallet_id").
		WithArgs(walletID).
		WillReturnRows(pgxmock.NewRows([]string{"coalesce"}).AddRow(int64(160)))

	sum, err := repo.SumByWalletID(context.Background(), walletID)
	require.NoError(t, err)
	assert.Equal(t, int64(160), sum)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOperationRepo_SumByWalletID_EmptyLedger(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewOperationRepo(mock)
	walletID := uuid.New()

	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(amount\\), 0\\) FROM operations WHERE wallet_id").
		WithArgs(walletID).
		WillReturnRows(pgxmock.NewRows([]string{"coalesce"}).AddRow(int64(0)))

	sum, err := repo.SumByWalletID(context.Background(), walletID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), sum)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOperationRepo_SumByWalletIDTx(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewOperationRepo(mock)
	walletID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(amount\\), 0\\) FROM operations WHERE wallet_id").
		WithArgs(walletID).
		WillReturnRows(pgxmock.NewRows([]string{"coalesce"}).AddRow(int64(-40)))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	sum, err := repo.SumByWalletIDTx(context.Background(), tx, walletID)
	require.NoError(t, err)
	assert.Equal(t, int64(-40), sum)
	assert.NoError(t, mock.ExpectationsWereMet())
}
