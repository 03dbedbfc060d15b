package ethereum

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	_ "embed"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/MMN3003/minter/src/gallery/domain"
	"github.com/MMN3003/minter/src/logger"
	mintDomain "github.com/MMN3003/minter/src/mint/domain"
	geth "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
)

//go:embed nftAbi.json
var nftABI []byte

const erc20ABI = `[
	{
		"constant": true,
		"inputs": [{"name": "account", "type": "address"}],
		"name": "balanceOf",
		"outputs": [{"name": "", "type": "uint256"}],
		"type": "function"
	},
	{
		"constant": true,
		"inputs": [
			{"name": "owner", "type": "address"},
			{"name": "spender", "type": "address"}
		],
		"name": "allowance",
		"outputs": [{"name": "", "type": "uint256"}],
		"type": "function"
	},
	{
		"constant": false,
		"inputs": [
			{"name": "spender", "type": "address"},
			{"name": "amount", "type": "uint256"}
		],
		"name": "approve",
		"outputs": [{"name": "", "type": "bool"}],
		"type": "function"
	},
	{
		"constant": false,
		"inputs": [{"name": "amount", "type": "uint256"}],
		"name": "mint",
		"outputs": [],
		"type": "function"
	}
]`

// receiptPollInterval is used for hashes this process did not send.
const receiptPollInterval = time.Second

// Errors
var (
	ErrMissingEnvVars      = errors.New("missing required environment variables")
	ErrConnectNetwork      = errors.New("failed to connect to network")
	ErrInvalidPrivateKey   = errors.New("failed to parse private key")
	ErrParseABI            = errors.New("failed to parse ABI")
	ErrCreateTransactor    = errors.New("failed to create transactor")
	ErrContractCall        = errors.New("failed to call contract function")
	ErrSendTransaction     = errors.New("failed to send transaction")
	ErrMineTransaction     = errors.New("failed to mine transaction")
	ErrEstimateGas         = errors.New("failed to estimate gas")
	ErrWalletNotConfigured = errors.New("no signing key configured")
	ErrTokenNotConfigured  = errors.New("token contract not configured")
	ErrUnknownContract     = errors.New("unknown contract")
)

// Config holds Ethereum client config
type Config struct {
	RPCURL        string
	PrivateKey    string // optional; without it the client is read-only
	NFTContract   string
	TokenContract string // optional
	ChainID       *big.Int
}

// Backend is the part of ethclient.Client the client uses.
type Backend interface {
	bind.ContractBackend
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	Close()
}

// EthereumClient reads the collection and signs mint transactions.
type EthereumClient struct {
	client     Backend
	wallet     common.Address
	privateKey *ecdsa.PrivateKey
	contracts  map[mintDomain.Contract]*bind.BoundContract
	addresses  map[mintDomain.Contract]common.Address
	abi        map[mintDomain.Contract]abi.ABI
	config     Config
	logger     *logger.Logger

	// one sender at a time so nonces are not reused
	sendMu sync.Mutex
	sent   sync.Map // common.Hash -> *types.Transaction
}

var (
	_ mintDomain.ChainGateway = (*EthereumClient)(nil)
	_ domain.CollectionReader = (*EthereumClient)(nil)
)

// NewEthereumClient dials the RPC endpoint and binds the contracts.
func NewEthereumClient(ctx context.Context, config Config, logg *logger.Logger) (*EthereumClient, error) {
	if config.RPCURL == "" || config.NFTContract == "" {
		return nil, fmt.Errorf("%w: RPC_URL or NFT_CONTRACT_ADDRESS", ErrMissingEnvVars)
	}
	client, err := ethclient.DialContext(ctx, config.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnectNetwork, err)
	}
	ec, err := NewWithBackend(client, config, logg)
	if err != nil {
		client.Close()
		return nil, err
	}
	return ec, nil
}

// NewWithBackend binds the contracts on an existing backend.
func NewWithBackend(client Backend, config Config, logg *logger.Logger) (*EthereumClient, error) {
	ec := &EthereumClient{
		client:    client,
		contracts: make(map[mintDomain.Contract]*bind.BoundContract),
		addresses: make(map[mintDomain.Contract]common.Address),
		abi:       make(map[mintDomain.Contract]abi.ABI),
		config:    config,
		logger:    logg,
	}

	if config.PrivateKey != "" {
		privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(config.PrivateKey, "0x"))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPrivateKey, err)
		}
		ec.privateKey = privateKey
		ec.wallet = crypto.PubkeyToAddress(privateKey.PublicKey)
	}

	nftParsed, err := abi.JSON(bytes.NewReader(nftABI))
	if err != nil {
		return nil, fmt.Errorf("%w: NFT ABI: %v", ErrParseABI, err)
	}
	ec.register(mintDomain.ContractNFT, common.HexToAddress(config.NFTContract), nftParsed)

	if config.TokenContract != "" {
		erc20Parsed, err := abi.JSON(strings.NewReader(erc20ABI))
		if err != nil {
			return nil, fmt.Errorf("%w: ERC20 ABI: %v", ErrParseABI, err)
		}
		ec.register(mintDomain.ContractToken, common.HexToAddress(config.TokenContract), erc20Parsed)
	}
	return ec, nil
}

func (ec *EthereumClient) register(name mintDomain.Contract, addr common.Address, parsed abi.ABI) {
	ec.abi[name] = parsed
	ec.addresses[name] = addr
	ec.contracts[name] = bind.NewBoundContract(addr, parsed, ec.client, ec.client, ec.client)
}

func (ec *EthereumClient) Close() { ec.client.Close() }

func (ec *EthereumClient) WalletAddress() common.Address { return ec.wallet }

// ---------- ChainGateway ----------

func (ec *EthereumClient) Account() common.Address { return ec.wallet }

func (ec *EthereumClient) SpenderAddress() common.Address { return ec.addresses[mintDomain.ContractNFT] }

func (ec *EthereumClient) NativeBalance(ctx context.Context, owner common.Address) (*big.Int, error) {
	bal, err := ec.client.BalanceAt(ctx, owner, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: balance: %v", ErrContractCall, err)
	}
	return bal, nil
}

func (ec *EthereumClient) TokenBalance(ctx context.Context, owner common.Address) (*big.Int, error) {
	return ec.callUint(ctx, mintDomain.ContractToken, "balanceOf", owner)
}

func (ec *EthereumClient) Allowance(ctx context.Context, owner, spender common.Address) (*big.Int, error) {
	return ec.callUint(ctx, mintDomain.ContractToken, "allowance", owner, spender)
}

func (ec *EthereumClient) EstimateGas(ctx context.Context, call mintDomain.ContractCall) (uint64, error) {
	parsed, ok := ec.abi[call.Contract]
	if !ok {
		return 0, ec.contractErr(call.Contract)
	}
	data, err := parsed.Pack(call.Method, call.Args...)
	if err != nil {
		return 0, fmt.Errorf("%w: pack %s: %v", ErrEstimateGas, call.Method, err)
	}
	to := ec.addresses[call.Contract]
	gas, err := ec.client.EstimateGas(ctx, geth.CallMsg{
		From:  ec.wallet,
		To:    &to,
		Value: call.Value,
		Data:  data,
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrEstimateGas, err)
	}
	return gas, nil
}

// Submit signs and broadcasts call. It returns once the node accepted it.
func (ec *EthereumClient) Submit(ctx context.Context, call mintDomain.ContractCall, gasLimit uint64) (common.Hash, error) {
	if ec.privateKey == nil {
		return common.Hash{}, ErrWalletNotConfigured
	}
	contract, ok := ec.contracts[call.Contract]
	if !ok {
		return common.Hash{}, ec.contractErr(call.Contract)
	}

	auth, err := bind.NewKeyedTransactorWithChainID(ec.privateKey, ec.config.ChainID)
	if err != nil {
		return common.Hash{}, fmt.Errorf("%w: %v", ErrCreateTransactor, err)
	}
	auth.Context = ctx
	auth.GasLimit = gasLimit
	auth.Value = call.Value

	ec.sendMu.Lock()
	tx, err := contract.Transact(auth, call.Method, call.Args...)
	ec.sendMu.Unlock()
	if err != nil {
		return common.Hash{}, fmt.Errorf("%w: %v", ErrSendTransaction, err)
	}

	ec.sent.Store(tx.Hash(), tx)
	ec.logger.Infof("TX sent: %s %s.%s gas=%d", tx.Hash().Hex(), call.Contract, call.Method, gasLimit)
	return tx.Hash(), nil
}

// WaitReceipt blocks until hash is mined or ctx ends.
func (ec *EthereumClient) WaitReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	v, ok := ec.sent.LoadAndDelete(hash)
	if ok {
		receipt, err := bind.WaitMined(ctx, ec.client, v.(*types.Transaction))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMineTransaction, err)
		}
		return receipt, nil
	}

	ticker := time.NewTicker(receiptPollInterval)
	defer ticker.Stop()
	for {
		receipt, err := ec.client.TransactionReceipt(ctx, hash)
		if err == nil {
			return receipt, nil
		}
		if !errors.Is(err, geth.NotFound) {
			ec.logger.Debugf("receipt retrieval for %s failed: %v", hash.Hex(), err)
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", ErrMineTransaction, ctx.Err())
		case <-ticker.C:
		}
	}
}

// ---------- CollectionReader ----------

func (ec *EthereumClient) BaseURI(ctx context.Context) (string, error) {
	return ec.callString(ctx, mintDomain.ContractNFT, "baseURI")
}

func (ec *EthereumClient) TokenURI(ctx context.Context, id domain.TokenID) (string, error) {
	return ec.callString(ctx, mintDomain.ContractNFT, "tokenURI", new(big.Int).SetUint64(uint64(id)))
}

func (ec *EthereumClient) TokensOf(ctx context.Context, owner common.Address) ([]*big.Int, error) {
	out, err := ec.call(ctx, mintDomain.ContractNFT, "tokensOf", owner)
	if err != nil {
		return nil, err
	}
	return *abi.ConvertType(out[0], new([]*big.Int)).(*[]*big.Int), nil
}

func (ec *EthereumClient) MaxTokensPerUser(ctx context.Context) (*big.Int, error) {
	return ec.callUint(ctx, mintDomain.ContractNFT, "MAX_TOKENS_PER_USER")
}

func (ec *EthereumClient) MintedTokensPerUser(ctx context.Context, owner common.Address) (*big.Int, error) {
	return ec.callUint(ctx, mintDomain.ContractNFT, "mintedTokensPerUser", owner)
}

// ---------- HELPERS ----------

func (ec *EthereumClient) call(ctx context.Context, name mintDomain.Contract, method string, args ...interface{}) ([]interface{}, error) {
	contract, ok := ec.contracts[name]
	if !ok {
		return nil, ec.contractErr(name)
	}
	var out []interface{}
	if err := contract.Call(&bind.CallOpts{Context: ctx, From: ec.wallet}, &out, method, args...); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrContractCall, method, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s: empty result", ErrContractCall, method)
	}
	return out, nil
}

func (ec *EthereumClient) callUint(ctx context.Context, name mintDomain.Contract, method string, args ...interface{}) (*big.Int, error) {
	out, err := ec.call(ctx, name, method, args...)
	if err != nil {
		return nil, err
	}
	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

func (ec *EthereumClient) callString(ctx context.Context, name mintDomain.Contract, method string, args ...interface{}) (string, error) {
	out, err := ec.call(ctx, name, method, args...)
	if err != nil {
		return "", err
	}
	return *abi.ConvertType(out[0], new(string)).(*string), nil
}

func (ec *EthereumClient) contractErr(name mintDomain.Contract) error {
	if name == mintDomain.ContractToken {
		return ErrTokenNotConfigured
	}
	return fmt.Errorf("%w: %s", ErrUnknownContract, name)
}
