package postgres

import (
	"context"
	"errors"
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

func TestWalletRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWalletRepo(mock)
	w := &domain.Wallet{
		ID:        uuid.New(),
		UserID:    "user-1",
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}

	mock.ExpectExec("INSERT INTO wallets").
		WithArgs(w.ID, w.UserID, w.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = repo.Create(context.Background(), w)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletRepo_Create_DuplicateUser(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWalletRepo(mock)
	w := &domain.Wallet{ID: uuid.New(), UserID: "user-1", CreatedAt: time.Now()}

	mock.ExpectExec("INSERT INTO wallets").
		WithArgs(w.ID, w.UserID, w.CreatedAt).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "wallets_user_id_key"})

	err = repo.Create(context.Background(), w)
	assert.ErrorIs(t, err, ports.ErrWalletExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletRepo_CreateTx(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWalletRepo(mock)
	w := &domain.Wallet{ID: uuid.New(), UserID: "user-1", CreatedAt: time.Now()}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO wallets .+ ON CONFLICT \\(user_id\\) DO NOTHING").
		WithArgs(w.ID, w.UserID, w.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.CreateTx(context.Background(), tx, w)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletRepo_CreateTx_LostRace(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWalletRepo(mock)
	w := &domain.Wallet{ID: uuid.New(), UserID: "user-1", CreatedAt: time.Now()}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO wallets .+ ON CONFLICT \\(user_id\\) DO NOTHING").
		WithArgs(w.ID, w.UserID, w.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.CreateTx(context.Background(), tx, w)
	assert.ErrorIs(t, err, ports.ErrWalletExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletRepo_GetByUserID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWalletRepo(mock)
	walletID := uuid.New()
	now := time.Now().UTC().Truncate(time.Microsecond)

	mock.ExpectQuery("SELECT id, user_id, created_at FROM wallets WHERE user_id").
		WithArgs("user-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "created_at"}).
			AddRow(walletID, "user-1", now))

	w, err := repo.GetByUserID(context.Background(), "user-1")
	require.NoError(t, err)
	require.NotNil(t, w)
	assert.Equal(t, walletID, w.ID)
	assert.Equal(t, "user-1", w.UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletRepo_GetByUserID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWalletRepo(mock)

	mock.ExpectQuery("SELECT id, user_id, created_at FROM wallets WHERE user_id").
		WithArgs("nobody").
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "created_at"}))

	w, err := repo.GetByUserID(context.Background(), "nobody")
	assert.NoError(t, err)
	assert.Nil(t, w)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletRepo_GetByUserIDForUpdate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWalletRepo(mock)
	walletID := uuid.New()
	now := time.Now().UTC().Truncate(time.Microsecond)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, user_id, created_at FROM wallets WHERE user_id = .+ FOR UPDATE").
		WithArgs("user-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "created_at"}).
			AddRow(walletID, "user-1", now))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	w, err := repo.GetByUserIDForUpdate(context.Background(), tx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, w)
	assert.Equal(t, walletID, w.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletRepo_Delete(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWalletRepo(mock)
	walletID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM wallets WHERE id").
		WithArgs(walletID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Delete(context.Background(), tx, walletID)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletRepo_Delete_NoRow(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWalletRepo(mock)
	walletID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM wallets WHERE id").
		WithArgs(walletID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Delete(context.Background(), tx, walletID)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsUniqueViolation(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505", ConstraintName: "wallets_user_id_key"}
	assert.True(t, isUniqueViolation(dup, "wallets_user_id_key"))
	assert.True(t, isUniqueViolation(dup, ""))
	assert.False(t, isUniqueViolation(dup, "operations_external_operation_id_key"))
	assert.False(t, isUniqueViolation(errors.New("plain"), ""))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}, ""))
}
