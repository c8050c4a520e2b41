package ports

import (
	"context"
	"errors"

	"svc-wallet/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Sentinel errors surfaced by repositories when a storage-level uniqueness
// constraint fires. They are the authoritative tie-breakers for races that
// slip past the optimistic pre-checks.
var (
	// ErrWalletExists is returned when a wallet insert violates the
	// one-wallet-per-user constraint.
	ErrWalletExists = errors.New("wallet already exists for user")

	// ErrOperationExists is returned when an operation insert violates the
	// global external_operation_id uniqueness constraint.
	ErrOperationExists = errors.New("operation with external id already exists")
)

// WalletRepository defines persistence operations for wallets.
// Methods accepting pgx.Tx run inside transaction blocks; ForUpdate variants
// take a row-level write lock that serializes concurrent mutations on the
// same wallet.
type WalletRepository interface {
	Create(ctx context.Context, wallet *domain.Wallet) error
	CreateTx(ctx context.Context, tx pgx.Tx, wallet *domain.Wallet) error
	GetByUserID(ctx context.Context, userID string) (*domain.Wallet, error)
	GetByUserIDForUpdate(ctx context.Context, tx pgx.Tx, userID string) (*domain.Wallet, error)
	Delete(ctx context.Context, tx pgx.Tx, id uuid.UUID) error
}

// OperationRepository defines append-only persistence for ledger entries.
type OperationRepository interface {
	Create(ctx context.Context, tx pgx.Tx, op *domain.Operation) error
	// ExistsByExternalID reports whether an operation with the given external
	// id has already been recorded, for any wallet. The tx variant reads in
	// the same snapshot as the mutation it guards.
	ExistsByExternalID(ctx context.Context, tx pgx.Tx, externalID string) (bool, error)
	// SumByWalletID derives the wallet balance as the signed sum of its
	// operations; an empty ledger sums to zero.
	SumByWalletID(ctx context.Context, walletID uuid.UUID) (int64, error)
	SumByWalletIDTx(ctx context.Context, tx pgx.Tx, walletID uuid.UUID) (int64, error)
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
