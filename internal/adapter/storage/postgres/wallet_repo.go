package postgres

import (
	"context"
	"errors"
	"fmt"

	"svc-wallet/internal/core/domain"
	"svc-wallet/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Constraint names from migrations/001_init.sql. The unique indexes are the
// authoritative guards against duplicate-insert races; application pre-checks
// are only an optimization.
const (
	constraintWalletUserID      = "wallets_user_id_key"
	constraintOperationExternal = "operations_external_operation_id_key"
)

// WalletRepo implements ports.WalletRepository.
type WalletRepo struct {
	pool Pool
}

// NewWalletRepo creates a new WalletRepo.
func NewWalletRepo(pool Pool) *WalletRepo {
	return &WalletRepo{pool: pool}
}

// Create inserts a new wallet outside any transaction block.
func (r *WalletRepo) Create(ctx context.Context, w *domain.Wallet) error {
	query := `INSERT INTO wallets (id, user_id, created_at) VALUES ($1, $2, $3)`

	_, err := r.pool.Exec(ctx, query, w.ID, w.UserID, w.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, constraintWalletUserID) {
			return ports.ErrWalletExists
		}
		return fmt.Errorf("insert wallet: %w", err)
	}
	return nil
}

// CreateTx inserts a new wallet within a database transaction. Used for
// implicit provisioning during a deposit, so the new row and the first
// operation commit atomically. ON CONFLICT DO NOTHING keeps the transaction
// usable when a concurrent transaction created the wallet first; the caller
// re-reads the winner's row in that case.
func (r *WalletRepo) CreateTx(ctx context.Context, tx pgx.Tx, w *domain.Wallet) error {
	query := `INSERT INTO wallets (id, user_id, created_at) VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO NOTHING`

	tag, err := tx.Exec(ctx, query, w.ID, w.UserID, w.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert wallet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ports.ErrWalletExists
	}
	return nil
}

// GetByUserID fetches a wallet by user id (non-locking read).
func (r *WalletRepo) GetByUserID(ctx context.Context, userID string) (*domain.Wallet, error) {
	query := `SELECT id, user_id, created_at FROM wallets WHERE user_id = $1`

	w := &domain.Wallet{}
	err := r.pool.QueryRow(ctx, query, userID).Scan(&w.ID, &w.UserID, &w.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get wallet by user id: %w", err)
	}
	return w, nil
}

// GetByUserIDForUpdate fetches a wallet by user id with pessimistic locking.
// This MUST be called within a transaction; the lock is held until commit or
// rollback and serializes concurrent mutations on the same wallet.
func (r *WalletRepo) GetByUserIDForUpdate(ctx context.Context, tx pgx.Tx, userID string) (*domain.Wallet, error) {
	query := `SELECT id, user_id, created_at FROM wallets WHERE user_id = $1 FOR UPDATE`

	w := &domain.Wallet{}
	err := tx.QueryRow(ctx, query, userID).Scan(&w.ID, &w.UserID, &w.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get wallet for update: %w", err)
	}
	return w, nil
}

// Delete removes the wallet row within a transaction. Operations referencing
// the wallet are retained; the ledger stays append-only.
func (r *WalletRepo) Delete(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	query := `DELETE FROM wallets WHERE id = $1`

	tag, err := tx.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete wallet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("wallet not found: %s", id)
	}
	return nil
}

// isUniqueViolation reports whether err is a PostgreSQL unique-constraint
// violation (SQLSTATE 23505) on the named constraint.
func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "23505" && (constraint == "" || pgErr.ConstraintName == constraint)
}
