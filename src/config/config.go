package config

import (
	"log"
	"math/big"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	ListenAddr  string
	Env         string
	DatabaseURL string
	SQLitePath  string
	Ethereum    EthereumConfig
	Mint        MintConfig
	Metadata    MetadataConfig
	// CacheSweepSchedule is a six-field cron expression (seconds first) for a recurring
	// metadata sweep. Empty disables it; the sweep still runs once at start.
	CacheSweepSchedule string
}

type EthereumConfig struct {
	RPCURL               string
	ChainID              *big.Int
	WalletKey            string
	NFTContractAddress   string
	TokenContractAddress string
}

type MintConfig struct {
	UnitPrice          decimal.Decimal
	ApprovalAmount     decimal.Decimal
	GasFallbackLimit   uint64
	GasMarginPercent   uint64
	ApprovalResumeWait time.Duration
}

type MetadataConfig struct {
	TTL                 time.Duration
	FetchTimeout        time.Duration
	BatchSize           int
	RateLimit           float64
	IPFSGateway         string
	PlaceholderImageURL string
	CollectionName      string
	CollectionDesc      string
}

// LoadFromEnv reads configuration from environment variables with fallback defaults.
// It also loads `.env` if present (for local development).
func LoadFromEnv() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file loaded, relying on environment variables")
	}

	rpcURL := os.Getenv("RPC_URL")
	if rpcURL == "" {
		log.Fatal("[FATAL] RPC_URL is required")
	}
	nftAddr := os.Getenv("NFT_CONTRACT_ADDRESS")
	if nftAddr == "" {
		log.Fatal("[FATAL] NFT_CONTRACT_ADDRESS is required")
	}

	chainID, ok := new(big.Int).SetString(getEnv("CHAIN_ID", "50312"), 10)
	if !ok {
		log.Fatalf("[FATAL] Invalid CHAIN_ID: %s", os.Getenv("CHAIN_ID"))
	}

	return &Config{
		ListenAddr:         getEnv("LISTEN_ADDR", ":8080"),
		Env:                getEnv("ENV", "dev"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		SQLitePath:         getEnv("SQLITE_PATH", "minter.db"),
		CacheSweepSchedule: getEnv("CACHE_SWEEP_SCHEDULE", ""),
		Ethereum: EthereumConfig{
			RPCURL:               rpcURL,
			ChainID:              chainID,
			WalletKey:            os.Getenv("WALLET_PRIVATE_KEY"),
			NFTContractAddress:   nftAddr,
			TokenContractAddress: os.Getenv("TOKEN_CONTRACT_ADDRESS"),
		},
		Mint: MintConfig{
			UnitPrice:          mustDecimal("NFT_UNIT_PRICE", "0.1111"),
			ApprovalAmount:     mustDecimal("APPROVAL_AMOUNT", "10000"),
			GasFallbackLimit:   mustUint("GAS_FALLBACK_LIMIT", "500000"),
			GasMarginPercent:   mustUint("GAS_MARGIN_PERCENT", "30"),
			ApprovalResumeWait: mustDuration("APPROVAL_RESUME_DELAY", "2s"),
		},
		Metadata: MetadataConfig{
			TTL:                 mustDuration("METADATA_TTL", "1h"),
			FetchTimeout:        mustDuration("METADATA_FETCH_TIMEOUT", "10s"),
			BatchSize:           int(mustUint("METADATA_BATCH_SIZE", "5")),
			RateLimit:           mustFloat("METADATA_RATE_LIMIT", "20"),
			IPFSGateway:         getEnv("IPFS_GATEWAY", "https://ipfs.io/ipfs/"),
			PlaceholderImageURL: getEnv("PLACEHOLDER_IMAGE_URL", "https://api.dicebear.com/9.x/pixel-art/svg?seed="),
			CollectionName:      getEnv("COLLECTION_NAME", "Somnia NFT"),
			CollectionDesc:      getEnv("COLLECTION_DESCRIPTION", "A Somnia Devnet NFT"),
		},
	}
}

// helper to get env with default fallback
func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(key, fallback string) time.Duration {
	d, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		log.Fatalf("[FATAL] Invalid %s duration: %v", key, err)
	}
	return d
}

func mustDecimal(key, fallback string) decimal.Decimal {
	d, err := decimal.NewFromString(getEnv(key, fallback))
	if err != nil || !d.IsPositive() {
		log.Fatalf("[FATAL] Invalid %s amount: %v", key, err)
	}
	return d
}

func mustUint(key, fallback string) uint64 {
	v, err := strconv.ParseUint(getEnv(key, fallback), 10, 64)
	if err != nil {
		log.Fatalf("[FATAL] Invalid %s: %v", key, err)
	}
	return v
}

func mustFloat(key, fallback string) float64 {
	v, err := strconv.ParseFloat(getEnv(key, fallback), 64)
	if err != nil {
		log.Fatalf("[FATAL] Invalid %s: %v", key, err)
	}
	return v
}
