package postgres

import (
	"context"
	"fmt"

	"svc-wallet/internal/core/domain"
	"svc-wallet/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// OperationRepo implements ports.OperationRepository. The operations table is
// append-only: no update or delete statements exist here.
type OperationRepo struct {
	pool Pool
}

// NewOperationRepo creates a new OperationRepo.
func NewOperationRepo(pool Pool) *OperationRepo {
	return &OperationRepo{pool: pool}
}

// Create appends a ledger entry within a database transaction.
func (r *OperationRepo) Create(ctx context.Context, tx pgx.Tx, op *domain.Operation) error {
	query := `INSERT INTO operations (id, wallet_id, amount, type, reason, external_operation_id, trace_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := tx.Exec(ctx, query,
		op.ID, op.WalletID, op.Amount, op.Type,
		op.Reason, op.ExternalOperationID, op.TraceID, op.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, constraintOperationExternal) {
			return ports.ErrOperationExists
		}
		return fmt.Errorf("insert operation: %w", err)
	}
	return nil
}

// ExistsByExternalID reports whether any operation carries the given external
// id, across all wallets, reading in the transaction's snapshot.
func (r *OperationRepo) ExistsByExternalID(ctx context.Context, tx pgx.Tx, externalID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM operations WHERE external_operation_id = $1)`

	var exists bool
	if err := tx.QueryRow(ctx, query, externalID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check external operation id: %w", err)
	}
	return exists, nil
}

// SumByWalletID derives the balance as the signed sum of the wallet's
// operations (non-transactional read, for fetch-only paths).
func (r *OperationRepo) SumByWalletID(ctx context.Context, walletID uuid.UUID) (int64, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM operations WHERE wallet_id = $1`

	var sum int64
	if err := r.pool.QueryRow(ctx, query, walletID).Scan(&sum); err != nil {
		return 0, fmt.Errorf("sum operations: %w", err)
	}
	return sum, nil
}

// SumByWalletIDTx is the transactional variant of SumByWalletID. Any balance
// used to gate a mutation must be read through this method, inside the same
// transaction that holds the wallet's row lock.
func (r *OperationRepo) SumByWalletIDTx(ctx context.Context, tx pgx.Tx, walletID uuid.UUID) (int64, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM operations WHERE wallet_id = $1`

	var sum int64
	if err := tx.QueryRow(ctx, query, walletID).Scan(&sum); err != nil {
		return 0, fmt.Errorf("sum operations: %w", err)
	}
	return sum, nil
}
