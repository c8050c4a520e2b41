package service

import (
	"context"
	"errors"
	"time"

	"svc-wallet/internal/core/domain"
	"svc-wallet/internal/core/ports"
	"svc-wallet/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// WalletServiceImpl implements ports.WalletService.
//
// Every mutation runs inside a single database transaction that takes the
// wallet's row lock (SELECT ... FOR UPDATE) before reading the balance, so
// concurrent mutations on the same wallet execute one at a time. The unique
// constraints on user_id and external_operation_id settle any race the
// optimistic pre-checks miss.
type WalletServiceImpl struct {
	walletRepo ports.WalletRepository
	opRepo     ports.OperationRepository
	transactor ports.DBTransactor
	users      ports.UserVerifier
	log        zerolog.Logger
}

// NewWalletService creates the wallet service.
func NewWalletService(
	walletRepo ports.WalletRepository,
	opRepo ports.OperationRepository,
	transactor ports.DBTransactor,
	users ports.UserVerifier,
	log zerolog.Logger,
) *WalletServiceImpl {
	return &WalletServiceImpl{
		walletRepo: walletRepo,
		opRepo:     opRepo,
		transactor: transactor,
		users:      users,
		log:        log.With().Str("component", "wallet_service").Logger(),
	}
}

// CreateWallet provisions an empty wallet for an existing user.
func (s *WalletServiceImpl) CreateWallet(ctx context.Context, userID string) (*ports.WalletInfo, error) {
	if !s.users.Exists(ctx, userID) {
		return nil, apperror.ErrUserNotFound(userID)
	}

	existing, err := s.walletRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	if existing != nil {
		return nil, apperror.ErrWalletAlreadyExists(userID)
	}

	wallet := &domain.Wallet{
		ID:        uuid.New(),
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.walletRepo.Create(ctx, wallet); err != nil {
		if errors.Is(err, ports.ErrWalletExists) {
			return nil, apperror.ErrWalletAlreadyExists(userID)
		}
		return nil, apperror.InternalError(err)
	}

	s.log.Info().Str("user_id", userID).Str("wallet_id", wallet.ID.String()).Msg("Wallet created")

	return &ports.WalletInfo{ID: wallet.ID, UserID: userID, Balance: 0}, nil
}

// GetWallet returns the wallet with its balance derived from the ledger.
func (s *WalletServiceImpl) GetWallet(ctx context.Context, userID string) (*ports.WalletInfo, error) {
	if !s.users.Exists(ctx, userID) {
		return nil, apperror.ErrUserNotFound(userID)
	}

	wallet, err := s.walletRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	if wallet == nil {
		return nil, apperror.ErrWalletNotFound(userID)
	}

	balance, err := s.opRepo.SumByWalletID(ctx, wallet.ID)
	if err != nil {
		return nil, apperror.InternalError(err)
	}

	return &ports.WalletInfo{ID: wallet.ID, UserID: userID, Balance: balance}, nil
}

// Deposit appends a DEPOSIT operation, creating the wallet implicitly when
// the user has none yet.
func (s *WalletServiceImpl) Deposit(ctx context.Context, req ports.OperationRequest) (*ports.WalletInfo, error) {
	if req.Amount <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}
	if !s.users.Exists(ctx, req.UserID) {
		return nil, apperror.ErrUserNotFound(req.UserID)
	}

	tx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	wallet, err := s.walletRepo.GetByUserIDForUpdate(ctx, tx, req.UserID)
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	if wallet == nil {
		wallet, err = s.provisionWallet(ctx, tx, req.UserID)
		if err != nil {
			return nil, err
		}
	}

	if err := s.guardDuplicate(ctx, tx, req.ExternalOperationID); err != nil {
		return nil, err
	}

	op := domain.NewDeposit(wallet.ID, req.Amount, req.ExternalOperationID, req.Reason, req.TraceID, time.Now().UTC())
	if err := s.opRepo.Create(ctx, tx, op); err != nil {
		if errors.Is(err, ports.ErrOperationExists) {
			return nil, apperror.ErrOperationDuplicate()
		}
		return nil, apperror.InternalError(err)
	}

	balance, err := s.opRepo.SumByWalletIDTx(ctx, tx, wallet.ID)
	if err != nil {
		return nil, apperror.InternalError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(err)
	}

	s.log.Info().
		Str("user_id", req.UserID).
		Str("wallet_id", wallet.ID.String()).
		Int64("amount", req.Amount).
		Int64("balance", balance).
		Str("external_operation_id", req.ExternalOperationID).
		Msg("Deposit recorded")

	return &ports.WalletInfo{ID: wallet.ID, UserID: req.UserID, Balance: balance}, nil
}

// Withdraw appends a WITHDRAW operation. It never creates a wallet and never
// lets the derived balance go below zero.
func (s *WalletServiceImpl) Withdraw(ctx context.Context, req ports.OperationRequest) (*ports.WalletInfo, error) {
	if req.Amount <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}
	if !s.users.Exists(ctx, req.UserID) {
		return nil, apperror.ErrUserNotFound(req.UserID)
	}

	tx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	wallet, err := s.walletRepo.GetByUserIDForUpdate(ctx, tx, req.UserID)
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	if wallet == nil {
		return nil, apperror.ErrWalletNotFound(req.UserID)
	}

	// Duplicate detection comes before the balance check: a replayed
	// withdrawal must report the duplicate, not insufficient funds.
	if err := s.guardDuplicate(ctx, tx, req.ExternalOperationID); err != nil {
		return nil, err
	}

	balance, err := s.opRepo.SumByWalletIDTx(ctx, tx, wallet.ID)
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	if balance < req.Amount {
		return nil, apperror.ErrInsufficientFunds(balance)
	}

	op := domain.NewWithdrawal(wallet.ID, req.Amount, req.ExternalOperationID, req.Reason, req.TraceID, time.Now().UTC())
	if err := s.opRepo.Create(ctx, tx, op); err != nil {
		if errors.Is(err, ports.ErrOperationExists) {
			return nil, apperror.ErrOperationDuplicate()
		}
		return nil, apperror.InternalError(err)
	}

	balance -= req.Amount

	if err := tx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(err)
	}

	s.log.Info().
		Str("user_id", req.UserID).
		Str("wallet_id", wallet.ID.String()).
		Int64("amount", req.Amount).
		Int64("balance", balance).
		Str("external_operation_id", req.ExternalOperationID).
		Msg("Withdrawal recorded")

	return &ports.WalletInfo{ID: wallet.ID, UserID: req.UserID, Balance: balance}, nil
}

// DeleteWallet removes the wallet row once its balance is exactly zero.
// Ledger entries for the wallet are retained.
func (s *WalletServiceImpl) DeleteWallet(ctx context.Context, userID string) error {
	if !s.users.Exists(ctx, userID) {
		return apperror.ErrUserNotFound(userID)
	}

	tx, err := s.transactor.Begin(ctx)
	if err != nil {
		return apperror.InternalError(err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	wallet, err := s.walletRepo.GetByUserIDForUpdate(ctx, tx, userID)
	if err != nil {
		return apperror.InternalError(err)
	}
	if wallet == nil {
		return apperror.ErrWalletNotFound(userID)
	}

	balance, err := s.opRepo.SumByWalletIDTx(ctx, tx, wallet.ID)
	if err != nil {
		return apperror.InternalError(err)
	}
	if balance != 0 {
		return apperror.ErrWalletNotEmpty(balance)
	}

	if err := s.walletRepo.Delete(ctx, tx, wallet.ID); err != nil {
		return apperror.InternalError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return apperror.InternalError(err)
	}

	s.log.Info().Str("user_id", userID).Str("wallet_id", wallet.ID.String()).Msg("Wallet deleted")
	return nil
}

// provisionWallet creates the wallet inside the current transaction during a
// deposit. If another transaction created it first, the unique constraint
// fires and we re-read the winner's row under the lock.
func (s *WalletServiceImpl) provisionWallet(ctx context.Context, tx pgx.Tx, userID string) (*domain.Wallet, error) {
	wallet := &domain.Wallet{
		ID:        uuid.New(),
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	err := s.walletRepo.CreateTx(ctx, tx, wallet)
	if err == nil {
		s.log.Info().Str("user_id", userID).Str("wallet_id", wallet.ID.String()).Msg("Wallet auto-provisioned on deposit")
		return wallet, nil
	}
	if !errors.Is(err, ports.ErrWalletExists) {
		return nil, apperror.InternalError(err)
	}

	wallet, err = s.walletRepo.GetByUserIDForUpdate(ctx, tx, userID)
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	if wallet == nil {
		return nil, apperror.InternalError(errors.New("wallet vanished after duplicate insert"))
	}
	return wallet, nil
}

// guardDuplicate rejects an external operation id that is already recorded.
func (s *WalletServiceImpl) guardDuplicate(ctx context.Context, tx pgx.Tx, externalID string) error {
	exists, err := s.opRepo.ExistsByExternalID(ctx, tx, externalID)
	if err != nil {
		return apperror.InternalError(err)
	}
	if exists {
		return apperror.ErrOperationDuplicate()
	}
	return nil
}
