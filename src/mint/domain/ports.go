package domain

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Contract string

const (
	ContractNFT   Contract = "NFT"
	ContractToken Contract = "TOKEN"
)

// ContractCall describes one write against the NFT or token contract.
type ContractCall struct {
	Contract Contract
	Method   string
	Args     []interface{}
	Value    *big.Int
}

// ChainGateway is everything the orchestrator needs from the chain and the
// signing wallet.
type ChainGateway interface {
	// Account is the connected signer; the zero address means no wallet.
	Account() common.Address
	// SpenderAddress is the NFT contract, which spends the fungible token.
	SpenderAddress() common.Address

	NativeBalance(ctx context.Context, owner common.Address) (*big.Int, error)
	TokenBalance(ctx context.Context, owner common.Address) (*big.Int, error)
	Allowance(ctx context.Context, owner, spender common.Address) (*big.Int, error)

	EstimateGas(ctx context.Context, call ContractCall) (uint64, error)
	Submit(ctx context.Context, call ContractCall, gasLimit uint64) (common.Hash, error)
	WaitReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error)
}

// ConfirmationListener is told about every confirmed mint.
type ConfirmationListener interface {
	OnMintConfirmed(ctx context.Context, owner common.Address, tx TransactionState)
}

// TransitionObserver sees every phase change along with the toast a UI would show.
type TransitionObserver interface {
	OnTransition(tx TransactionState, n Notification)
}

type MintUsecase interface {
	MintWithNativeToken(ctx context.Context, quantity int64) (*MintResult, error)
	MintWithFungibleToken(ctx context.Context, quantity int64) (*MintResult, error)
	ApproveSpending(ctx context.Context) (*MintResult, error)
	MintTestTokens(ctx context.Context, amount decimal.Decimal) (*MintResult, error)
	Transaction(id uuid.UUID) (*TransactionState, bool)
	Acknowledge(id uuid.UUID) error
	Status(ctx context.Context) (*Status, error)
	TotalPrice(quantity int64) *big.Int
}
