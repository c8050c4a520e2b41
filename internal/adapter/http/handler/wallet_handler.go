package handler

import (
	"svc-wallet/internal/adapter/http/dto"
	"svc-wallet/internal/core/ports"
	"svc-wallet/pkg/apperror"
	"svc-wallet/pkg/response"

	"github.com/gin-gonic/gin"
)

// WalletHandler handles wallet lifecycle endpoints.
type WalletHandler struct {
	walletSvc ports.WalletService
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(walletSvc ports.WalletService) *WalletHandler {
	return &WalletHandler{walletSvc: walletSvc}
}

// CreateWallet handles POST /wallets.
func (h *WalletHandler) CreateWallet(c *gin.Context) {
	var req dto.CreateWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.ErrInvalidRequest(err.Error()))
		return
	}

	info, err := h.walletSvc.CreateWallet(c.Request.Context(), req.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Wallet successfully created", response.CodeWalletCreated, toWalletResponse(info))
}

// GetWallet handles GET /wallets/:userId.
func (h *WalletHandler) GetWallet(c *gin.Context) {
	info, err := h.walletSvc.GetWallet(c.Request.Context(), c.Param("userId"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Wallet fetched", response.CodeWalletFetched, toWalletResponse(info))
}

// Deposit handles POST /wallets/:userId/deposit.
func (h *WalletHandler) Deposit(c *gin.Context) {
	var req dto.OperationBody
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.ErrInvalidRequest(err.Error()))
		return
	}

	info, err := h.walletSvc.Deposit(c.Request.Context(), ports.OperationRequest{
		UserID:              c.Param("userId"),
		Amount:              req.Amount,
		ExternalOperationID: req.ExternalOperationID,
		Reason:              req.Reason,
		TraceID:             response.GetTraceID(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Deposit accepted", response.CodeWalletDeposit, toWalletResponse(info))
}

// Withdraw handles POST /wallets/:userId/withdraw.
func (h *WalletHandler) Withdraw(c *gin.Context) {
	var req dto.OperationBody
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.ErrInvalidRequest(err.Error()))
		return
	}

	info, err := h.walletSvc.Withdraw(c.Request.Context(), ports.OperationRequest{
		UserID:              c.Param("userId"),
		Amount:              req.Amount,
		ExternalOperationID: req.ExternalOperationID,
		Reason:              req.Reason,
		TraceID:             response.GetTraceID(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Withdrawal accepted", response.CodeWalletWithdraw, toWalletResponse(info))
}

// DeleteWallet handles DELETE /wallets/:userId.
func (h *WalletHandler) DeleteWallet(c *gin.Context) {
	if err := h.walletSvc.DeleteWallet(c.Request.Context(), c.Param("userId")); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Wallet deleted", response.CodeWalletDeleted, nil)
}

func toWalletResponse(info *ports.WalletInfo) dto.WalletResponse {
	return dto.WalletResponse{
		ID:      info.ID.String(),
		UserID:  info.UserID,
		Balance: info.Balance,
	}
}
