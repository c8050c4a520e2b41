package integration

import (
	"context"
	"fmt"
	"sync"

	"svc-wallet/internal/core/domain"
	"svc-wallet/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// --- Serializing Transactor ---

// serializingTransactor emulates the row-lock semantics of the postgres
// adapter with a single global mutex: Begin blocks until the previous
// transaction commits or rolls back, so mutations execute one at a time,
// which is exactly the guarantee SELECT ... FOR UPDATE provides per wallet.
type serializingTransactor struct {
	mu sync.Mutex
}

func newSerializingTransactor() *serializingTransactor {
	return &serializingTransactor{}
}

func (t *serializingTransactor) Begin(ctx context.Context) (pgx.Tx, error) {
	t.mu.Lock()
	return &memTx{release: t.mu.Unlock}, nil
}

// memTx is a pgx.Tx whose Commit/Rollback release the transactor's lock.
type memTx struct {
	release func()
	done    bool
}

func (t *memTx) finish() {
	if !t.done {
		t.done = true
		t.release()
	}
}

func (t *memTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *memTx) Commit(ctx context.Context) error {
	t.finish()
	return nil
}
func (t *memTx) Rollback(ctx context.Context) error {
	t.finish()
	return nil
}
func (t *memTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *memTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *memTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *memTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *memTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag(""), nil
}
func (t *memTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (t *memTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}
func (t *memTx) Conn() *pgx.Conn { return nil }

// --- In-Memory Wallet Repo ---

type inMemoryWalletRepo struct {
	mu      sync.RWMutex
	wallets map[string]*domain.Wallet // keyed by user id
}

func newInMemoryWalletRepo() *inMemoryWalletRepo {
	return &inMemoryWalletRepo{wallets: make(map[string]*domain.Wallet)}
}

func (r *inMemoryWalletRepo) Create(ctx context.Context, w *domain.Wallet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.wallets[w.UserID]; ok {
		return ports.ErrWalletExists
	}
	cp := *w
	r.wallets[w.UserID] = &cp
	return nil
}

func (r *inMemoryWalletRepo) CreateTx(ctx context.Context, tx pgx.Tx, w *domain.Wallet) error {
	return r.Create(ctx, w)
}

func (r *inMemoryWalletRepo) GetByUserID(ctx context.Context, userID string) (*domain.Wallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.wallets[userID]
	if !ok {
		return nil, nil
	}
	cp := *w
	return &cp, nil
}

func (r *inMemoryWalletRepo) GetByUserIDForUpdate(ctx context.Context, tx pgx.Tx, userID string) (*domain.Wallet, error) {
	return r.GetByUserID(ctx, userID)
}

func (r *inMemoryWalletRepo) Delete(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for userID, w := range r.wallets {
		if w.ID == id {
			delete(r.wallets, userID)
			return nil
		}
	}
	return fmt.Errorf("wallet not found: %s", id)
}

// --- In-Memory Operation Repo ---

type inMemoryOperationRepo struct {
	mu          sync.RWMutex
	ops         []*domain.Operation
	externalIDs map[string]struct{}
}

func newInMemoryOperationRepo() *inMemoryOperationRepo {
	return &inMemoryOperationRepo{externalIDs: make(map[string]struct{})}
}

func (r *inMemoryOperationRepo) Create(ctx context.Context, tx pgx.Tx, op *domain.Operation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.externalIDs[op.ExternalOperationID]; ok {
		return ports.ErrOperationExists
	}
	cp := *op
	r.ops = append(r.ops, &cp)
	r.externalIDs[op.ExternalOperationID] = struct{}{}
	return nil
}

func (r *inMemoryOperationRepo) ExistsByExternalID(ctx context.Context, tx pgx.Tx, externalID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.externalIDs[externalID]
	return ok, nil
}

func (r *inMemoryOperationRepo) SumByWalletID(ctx context.Context, walletID uuid.UUID) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var sum int64
	for _, op := range r.ops {
		if op.WalletID == walletID {
			sum += op.Amount
		}
	}
	return sum, nil
}

func (r *inMemoryOperationRepo) SumByWalletIDTx(ctx context.Context, tx pgx.Tx, walletID uuid.UUID) (int64, error) {
	return r.SumByWalletID(ctx, walletID)
}
