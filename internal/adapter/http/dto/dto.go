package dto

// CreateWalletRequest is the body of POST /wallets.
type CreateWalletRequest struct {
	UserID string `json:"userId" binding:"required"`
}

// OperationBody is the body of deposit and withdraw requests. Amount uses
// required binding, so a missing or zero amount is rejected at the edge;
// negative amounts pass binding and are rejected by the service.
type OperationBody struct {
	Amount              int64  `json:"amount" binding:"required"`
	ExternalOperationID string `json:"externalOperationId" binding:"required"`
	Reason              string `json:"reason"`
}

// WalletResponse is the wallet view returned by every lifecycle endpoint.
type WalletResponse struct {
	ID      string `json:"id"`
	UserID  string `json:"userId"`
	Balance int64  `json:"balance"`
}
