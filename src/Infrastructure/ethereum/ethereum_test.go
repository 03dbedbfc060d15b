package ethereum

import (
	"bytes"
	"context"
	"errors"
	"math/big"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/MMN3003/minter/src/logger"
	mintDomain "github.com/MMN3003/minter/src/mint/domain"
	geth "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	nftAddr   = common.HexToAddress("0x0000000000000000000000000000000000000011")
	tokenAddr = common.HexToAddress("0x0000000000000000000000000000000000000022")
)

// fakeBackend answers eth_call from canned outputs and records sent txs.
// Methods it does not implement panic through the nil embedded interface.
type fakeBackend struct {
	bind.ContractBackend

	mu       sync.Mutex
	nft      abi.ABI
	token    abi.ABI
	outputs  map[string][]interface{}
	estimate uint64
	lastMsg  geth.CallMsg
	sent     []*types.Transaction
	receipts map[common.Hash]*types.Receipt
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	nft, err := abi.JSON(bytes.NewReader(nftABI))
	require.NoError(t, err)
	token, err := abi.JSON(strings.NewReader(erc20ABI))
	require.NoError(t, err)
	return &fakeBackend{
		nft:      nft,
		token:    token,
		outputs:  map[string][]interface{}{},
		estimate: 21000,
		receipts: map[common.Hash]*types.Receipt{},
	}
}

func (b *fakeBackend) CallContract(ctx context.Context, msg geth.CallMsg, block *big.Int) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	parsed := b.nft
	if *msg.To == tokenAddr {
		parsed = b.token
	}
	m, err := parsed.MethodById(msg.Data[:4])
	if err != nil {
		return nil, err
	}
	out, ok := b.outputs[m.Name]
	if !ok {
		return nil, errors.New("execution reverted")
	}
	return m.Outputs.Pack(out...)
}

func (b *fakeBackend) EstimateGas(ctx context.Context, msg geth.CallMsg) (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastMsg = msg
	return b.estimate, nil
}

func (b *fakeBackend) HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error) {
	return &types.Header{Number: big.NewInt(1), BaseFee: big.NewInt(1_000_000_000)}, nil
}

func (b *fakeBackend) SuggestGasTipCap(ctx context.Context) (*big.Int, error) {
	return big.NewInt(1_000_000_000), nil
}

func (b *fakeBackend) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	return big.NewInt(2_000_000_000), nil
}

func (b *fakeBackend) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return uint64(len(b.sent)), nil
}

func (b *fakeBackend) PendingCodeAt(ctx context.Context, account common.Address) ([]byte, error) {
	return []byte{0x1}, nil
}

func (b *fakeBackend) CodeAt(ctx context.Context, account common.Address, block *big.Int) ([]byte, error) {
	return []byte{0x1}, nil
}

func (b *fakeBackend) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sent = append(b.sent, tx)
	return nil
}

func (b *fakeBackend) BalanceAt(ctx context.Context, account common.Address, block *big.Int) (*big.Int, error) {
	return big.NewInt(42), nil
}

func (b *fakeBackend) TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	r, ok := b.receipts[hash]
	if !ok {
		return nil, geth.NotFound
	}
	return r, nil
}

func (b *fakeBackend) Close() {}

func newTestClient(t *testing.T, withKey bool) (*EthereumClient, *fakeBackend) {
	t.Helper()
	backend := newFakeBackend(t)
	cfg := Config{
		NFTContract:   nftAddr.Hex(),
		TokenContract: tokenAddr.Hex(),
		ChainID:       big.NewInt(50312),
	}
	if withKey {
		key, err := crypto.GenerateKey()
		require.NoError(t, err)
		cfg.PrivateKey = hexutil.Encode(crypto.FromECDSA(key))
	}
	ec, err := NewWithBackend(backend, cfg, logger.Nop())
	require.NoError(t, err)
	return ec, backend
}

func TestEmbeddedABIsParse(t *testing.T) {
	nft, err := abi.JSON(bytes.NewReader(nftABI))
	require.NoError(t, err)
	for _, m := range []string{"tokensOf", "baseURI", "tokenURI", "MAX_TOKENS_PER_USER", "mintedTokensPerUser", "mintNative", "mintWithERC20"} {
		assert.Contains(t, nft.Methods, m)
	}
	assert.True(t, nft.Methods["mintNative"].IsPayable())

	token, err := abi.JSON(strings.NewReader(erc20ABI))
	require.NoError(t, err)
	assert.Len(t, token.Methods, 4)
	for _, m := range []string{"balanceOf", "allowance", "approve", "mint"} {
		assert.Contains(t, token.Methods, m)
	}
}

func TestNewWithBackend_Keys(t *testing.T) {
	ec, _ := newTestClient(t, false)
	assert.Equal(t, common.Address{}, ec.Account())
	assert.Equal(t, nftAddr, ec.SpenderAddress())

	_, err := ec.Submit(context.Background(), mintDomain.ContractCall{Contract: mintDomain.ContractNFT, Method: "mintNative"}, 100000)
	assert.ErrorIs(t, err, ErrWalletNotConfigured)

	_, err = NewWithBackend(newFakeBackend(t), Config{NFTContract: nftAddr.Hex(), PrivateKey: "0xnothex"}, logger.Nop())
	assert.ErrorIs(t, err, ErrInvalidPrivateKey)
}

func TestReads(t *testing.T) {
	ctx := context.Background()
	ec, backend := newTestClient(t, false)
	owner := common.HexToAddress("0x00000000000000000000000000000000000000a1")

	backend.outputs["baseURI"] = []interface{}{"https://meta/"}
	backend.outputs["tokenURI"] = []interface{}{"ipfs://Qm/7.json"}
	backend.outputs["tokensOf"] = []interface{}{[]*big.Int{big.NewInt(3), big.NewInt(9)}}
	backend.outputs["MAX_TOKENS_PER_USER"] = []interface{}{big.NewInt(51)}
	backend.outputs["mintedTokensPerUser"] = []interface{}{big.NewInt(4)}
	backend.outputs["balanceOf"] = []interface{}{big.NewInt(1000)}
	backend.outputs["allowance"] = []interface{}{big.NewInt(500)}

	base, err := ec.BaseURI(ctx)
	require.NoError(t, err)
	assert.Equal(t, "https://meta/", base)

	uri, err := ec.TokenURI(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "ipfs://Qm/7.json", uri)

	ids, err := ec.TokensOf(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, []*big.Int{big.NewInt(3), big.NewInt(9)}, ids)

	maxTokens, err := ec.MaxTokensPerUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(51), maxTokens.Int64())

	minted, err := ec.MintedTokensPerUser(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, int64(4), minted.Int64())

	bal, err := ec.TokenBalance(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), bal.Int64())

	allowance, err := ec.Allowance(ctx, owner, nftAddr)
	require.NoError(t, err)
	assert.Equal(t, int64(500), allowance.Int64())

	native, err := ec.NativeBalance(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, int64(42), native.Int64())
}

func TestReads_ContractError(t *testing.T) {
	ec, _ := newTestClient(t, false)
	_, err := ec.BaseURI(context.Background())
	assert.ErrorIs(t, err, ErrContractCall)
}

func TestTokenContractOptional(t *testing.T) {
	ec, err := NewWithBackend(newFakeBackend(t), Config{NFTContract: nftAddr.Hex()}, logger.Nop())
	require.NoError(t, err)
	_, err = ec.TokenBalance(context.Background(), common.Address{})
	assert.ErrorIs(t, err, ErrTokenNotConfigured)
}

func TestEstimateGas_PacksCall(t *testing.T) {
	ec, backend := newTestClient(t, true)
	backend.estimate = 123456

	gas, err := ec.EstimateGas(context.Background(), mintDomain.ContractCall{
		Contract: mintDomain.ContractNFT,
		Method:   "mintNative",
		Args:     []interface{}{big.NewInt(3)},
		Value:    big.NewInt(333),
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(123456), gas)
	assert.Equal(t, nftAddr, *backend.lastMsg.To)
	assert.Equal(t, ec.Account(), backend.lastMsg.From)
	assert.Equal(t, big.NewInt(333), backend.lastMsg.Value)
	assert.Equal(t, backend.nft.Methods["mintNative"].ID, backend.lastMsg.Data[:4])

	_, err = ec.EstimateGas(context.Background(), mintDomain.ContractCall{Contract: mintDomain.ContractNFT, Method: "noSuchMethod"})
	assert.ErrorIs(t, err, ErrEstimateGas)
}

func TestSubmitAndWaitReceipt(t *testing.T) {
	ctx := context.Background()
	ec, backend := newTestClient(t, true)

	hash, err := ec.Submit(ctx, mintDomain.ContractCall{
		Contract: mintDomain.ContractNFT,
		Method:   "mintNative",
		Args:     []interface{}{big.NewInt(2)},
		Value:    big.NewInt(222),
	}, 130000)
	require.NoError(t, err)

	require.Len(t, backend.sent, 1)
	tx := backend.sent[0]
	assert.Equal(t, hash, tx.Hash())
	assert.Equal(t, uint64(130000), tx.Gas())
	assert.Equal(t, big.NewInt(222), tx.Value())
	assert.Equal(t, nftAddr, *tx.To())

	backend.mu.Lock()
	backend.receipts[hash] = &types.Receipt{Status: types.ReceiptStatusSuccessful, TxHash: hash}
	backend.mu.Unlock()

	receipt, err := ec.WaitReceipt(ctx, hash)
	require.NoError(t, err)
	assert.Equal(t, types.ReceiptStatusSuccessful, receipt.Status)
}

func TestWaitReceipt_UnknownHashHonoursContext(t *testing.T) {
	ec, _ := newTestClient(t, false)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := ec.WaitReceipt(ctx, common.HexToHash("0xabc"))
	assert.ErrorIs(t, err, ErrMineTransaction)
}
