package domain

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
)

type PaymentMethod string

const (
	PaymentNative PaymentMethod = "native"
	PaymentERC20  PaymentMethod = "erc20"
)

// MintRequest is created when a user triggers a mint; it is never persisted.
type MintRequest struct {
	PaymentMethod PaymentMethod `json:"payment_method"`
	Quantity      int64         `json:"quantity"`
}

type TxKind string

const (
	TxMintNative TxKind = "MINT_NATIVE"
	TxApprove    TxKind = "APPROVE"
	TxMintERC20  TxKind = "MINT_ERC20"
	TxFaucetMint TxKind = "FAUCET_MINT"
)

// IsMint reports whether a confirmed transaction of this kind created NFTs.
func (k TxKind) IsMint() bool {
	return k == TxMintNative || k == TxMintERC20
}

type Phase string

const (
	PhaseIdle       Phase = "IDLE"
	PhaseSubmitted  Phase = "SUBMITTED"
	PhaseConfirming Phase = "CONFIRMING"
	PhaseConfirmed  Phase = "CONFIRMED"
	PhaseFailed     Phase = "FAILED"
	PhaseRejected   Phase = "REJECTED"
)

func (p Phase) Terminal() bool {
	return p == PhaseConfirmed || p == PhaseFailed || p == PhaseRejected
}

// CanTransition encodes the per-transaction state machine:
//
//	idle -> submitted -> confirming -> confirmed | failed
//	idle | submitted -> rejected
//	idle -> failed (submission error)
func (p Phase) CanTransition(next Phase) bool {
	switch p {
	case PhaseIdle:
		return next == PhaseSubmitted || next == PhaseRejected || next == PhaseFailed
	case PhaseSubmitted:
		return next == PhaseConfirming || next == PhaseRejected || next == PhaseFailed
	case PhaseConfirming:
		return next == PhaseConfirmed || next == PhaseFailed
	default:
		return false
	}
}

type TransactionState struct {
	ID           uuid.UUID    `json:"id"`
	Kind         TxKind       `json:"kind"`
	Hash         *common.Hash `json:"hash,omitempty"`
	Phase        Phase        `json:"phase"`
	ErrorMessage string       `json:"error_message,omitempty"`
	Quantity     int64        `json:"quantity"`
	// Amount is the exact faucet amount in whole tokens; Quantity saturates.
	Amount       string       `json:"amount,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// ApprovalState tracks whether the NFT contract may spend the caller's
// fungible token. PendingMintQuantity bridges the approve step and the mint
// step of one user action.
type ApprovalState struct {
	Granted             bool   `json:"granted"`
	PendingMintQuantity *int64 `json:"pending_mint_quantity,omitempty"`
}

type Outcome string

const (
	OutcomeSubmitted           Outcome = "SUBMITTED"
	OutcomeApprovalRequested   Outcome = "APPROVAL_REQUESTED"
	OutcomeInsufficientBalance Outcome = "INSUFFICIENT_BALANCE"
	OutcomeCancelled           Outcome = "CANCELLED"
	OutcomeFailed              Outcome = "FAILED"
)

type MintResult struct {
	Outcome     Outcome           `json:"outcome"`
	Transaction *TransactionState `json:"transaction,omitempty"`
	Message     string            `json:"message,omitempty"`
}

type Balances struct {
	Native    *big.Int  `json:"native"`
	Token     *big.Int  `json:"token"`
	UpdatedAt time.Time `json:"updated_at"`
}

type NotificationLevel string

const (
	LevelSuccess NotificationLevel = "success"
	LevelInfo    NotificationLevel = "info"
	LevelError   NotificationLevel = "destructive"
)

// Notification is the toast a UI would show for a transition.
type Notification struct {
	Level       NotificationLevel `json:"level"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
}

type Status struct {
	Account   common.Address     `json:"account"`
	Approval  ApprovalState      `json:"approval"`
	Balances  Balances           `json:"balances"`
	Minting   bool               `json:"minting"`
	Approving bool               `json:"approving"`
	Faucet    bool               `json:"faucet"`
	Active    []TransactionState `json:"active"`
}
