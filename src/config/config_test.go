package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	t.Setenv("RPC_URL", "https://dream-rpc.somnia.network")
	t.Setenv("NFT_CONTRACT_ADDRESS", "0x0000000000000000000000000000000000000001")

	cfg := LoadFromEnv()
	require.NotNil(t, cfg)

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "50312", cfg.Ethereum.ChainID.String())
	assert.Equal(t, "0.1111", cfg.Mint.UnitPrice.String())
	assert.Equal(t, uint64(500000), cfg.Mint.GasFallbackLimit)
	assert.Equal(t, uint64(30), cfg.Mint.GasMarginPercent)
	assert.Equal(t, 2*time.Second, cfg.Mint.ApprovalResumeWait)
	assert.Equal(t, time.Hour, cfg.Metadata.TTL)
	assert.Equal(t, 10*time.Second, cfg.Metadata.FetchTimeout)
	assert.Equal(t, 5, cfg.Metadata.BatchSize)
	assert.Equal(t, "https://ipfs.io/ipfs/", cfg.Metadata.IPFSGateway)
	assert.Empty(t, cfg.CacheSweepSchedule)
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("RPC_URL", "http://localhost:8545")
	t.Setenv("NFT_CONTRACT_ADDRESS", "0x0000000000000000000000000000000000000001")
	t.Setenv("CHAIN_ID", "31337")
	t.Setenv("NFT_UNIT_PRICE", "0.25")
	t.Setenv("METADATA_TTL", "90m")
	t.Setenv("APPROVAL_RESUME_DELAY", "500ms")
	t.Setenv("ENV", "prod")

	cfg := LoadFromEnv()

	assert.Equal(t, "31337", cfg.Ethereum.ChainID.String())
	assert.Equal(t, "0.25", cfg.Mint.UnitPrice.String())
	assert.Equal(t, 90*time.Minute, cfg.Metadata.TTL)
	assert.Equal(t, 500*time.Millisecond, cfg.Mint.ApprovalResumeWait)
	assert.Equal(t, "prod", cfg.Env)
}
