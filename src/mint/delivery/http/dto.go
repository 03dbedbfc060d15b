// Package http provides HTTP handlers for mint operations
//
// Schemes: http
// Host: localhost:8080
// BasePath: /
// Version: 1.0.0
//
// Consumes:
// - application/json
//
// Produces:
// - application/json
//
// swagger:meta
package http

import (
	"math/big"
	"time"

	"github.com/MMN3003/minter/src/mint/domain"
	"github.com/MMN3003/minter/src/mint/usecase"
	"github.com/shopspring/decimal"
)

// MintRequestBody is the payload for both mint routes
// swagger:model MintRequestBody
type MintRequestBody struct {
	Quantity int64 `json:"quantity" example:"3"`
}

// FaucetRequestBody is the payload to mint test tokens
// swagger:model FaucetRequestBody
type FaucetRequestBody struct {
	Amount string `json:"amount" example:"100"` // decimal string, whole tokens
}

// TransactionResponse describes one tracked transaction
// swagger:model TransactionResponse
type TransactionResponse struct {
	ID           string        `json:"id"`
	Kind         domain.TxKind `json:"kind" example:"MINT_NATIVE"`
	Hash         string        `json:"hash,omitempty" example:"0xabc..."`
	Phase        domain.Phase  `json:"phase" example:"CONFIRMING"`
	ErrorMessage string        `json:"error_message,omitempty"`
	Quantity     int64         `json:"quantity"`
	Amount       string        `json:"amount,omitempty" example:"100"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

func fromTransactionDomain(tx domain.TransactionState) TransactionResponse {
	res := TransactionResponse{
		ID:           tx.ID.String(),
		Kind:         tx.Kind,
		Phase:        tx.Phase,
		ErrorMessage: tx.ErrorMessage,
		Quantity:     tx.Quantity,
		Amount:       tx.Amount,
		CreatedAt:    tx.CreatedAt,
		UpdatedAt:    tx.UpdatedAt,
	}
	if tx.Hash != nil {
		res.Hash = tx.Hash.Hex()
	}
	return res
}

// MintResultResponse is the outcome of a mint, approve or faucet request
// swagger:model MintResultResponse
type MintResultResponse struct {
	Outcome     domain.Outcome       `json:"outcome" example:"SUBMITTED"`
	Message     string               `json:"message,omitempty"`
	Transaction *TransactionResponse `json:"transaction,omitempty"`
}

func fromMintResultDomain(r *domain.MintResult) MintResultResponse {
	res := MintResultResponse{Outcome: r.Outcome, Message: r.Message}
	if r.Transaction != nil {
		tx := fromTransactionDomain(*r.Transaction)
		res.Transaction = &tx
	}
	return res
}

// BalanceDTO carries a wei amount and its 4-place display form
// swagger:model BalanceDTO
type BalanceDTO struct {
	Wei       string `json:"wei" example:"1500000000000000000"`
	Formatted string `json:"formatted" example:"1.5000"`
}

func balanceOf(v *big.Int) BalanceDTO {
	if v == nil {
		v = new(big.Int)
	}
	return BalanceDTO{Wei: v.String(), Formatted: usecase.FromWei(v).StringFixed(4)}
}

// StatusResponse is the orchestrator state for the connected wallet
// swagger:model StatusResponse
type StatusResponse struct {
	Account             string                `json:"account"`
	ApprovalGranted     bool                  `json:"approval_granted"`
	PendingMintQuantity *int64                `json:"pending_mint_quantity,omitempty"`
	NativeBalance       BalanceDTO            `json:"native_balance"`
	TokenBalance        BalanceDTO            `json:"token_balance"`
	BalancesUpdatedAt   time.Time             `json:"balances_updated_at"`
	Minting             bool                  `json:"minting"`
	Approving           bool                  `json:"approving"`
	Faucet              bool                  `json:"faucet"`
	Quantity            int64                 `json:"quantity"`
	TotalPrice          BalanceDTO            `json:"total_price"`
	HasEnoughNative     bool                  `json:"has_enough_native"`
	HasEnoughERC20      bool                  `json:"has_enough_erc20"`
	Active              []TransactionResponse `json:"active"`
}

func fromStatusDomain(st *domain.Status, quantity int64, total *big.Int) StatusResponse {
	res := StatusResponse{
		Account:             st.Account.Hex(),
		ApprovalGranted:     st.Approval.Granted,
		PendingMintQuantity: st.Approval.PendingMintQuantity,
		NativeBalance:       balanceOf(st.Balances.Native),
		TokenBalance:        balanceOf(st.Balances.Token),
		BalancesUpdatedAt:   st.Balances.UpdatedAt,
		Minting:             st.Minting,
		Approving:           st.Approving,
		Faucet:              st.Faucet,
		Quantity:            quantity,
		TotalPrice:          balanceOf(total),
		HasEnoughNative:     hasEnough(st.Balances.Native, total),
		HasEnoughERC20:      hasEnough(st.Balances.Token, total),
		Active:              make([]TransactionResponse, 0, len(st.Active)),
	}
	for _, tx := range st.Active {
		res.Active = append(res.Active, fromTransactionDomain(tx))
	}
	return res
}

func hasEnough(balance, cost *big.Int) bool {
	return balance != nil && balance.Cmp(cost) >= 0
}

// FaucetAmount parses the request amount.
func (b FaucetRequestBody) FaucetAmount() (decimal.Decimal, error) {
	return decimal.NewFromString(b.Amount)
}
