package domain

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

var ErrEntryNotFound = errors.New("cache entry not found")

// CollectionReader is the read side of the NFT contract.
type CollectionReader interface {
	BaseURI(ctx context.Context) (string, error)
	TokenURI(ctx context.Context, id TokenID) (string, error)
	TokensOf(ctx context.Context, owner common.Address) ([]*big.Int, error)
	MaxTokensPerUser(ctx context.Context) (*big.Int, error)
	MintedTokensPerUser(ctx context.Context, owner common.Address) (*big.Int, error)
}

// MetadataFetcher downloads a metadata document.
type MetadataFetcher interface {
	Fetch(ctx context.Context, uri string) ([]byte, error)
}

// CacheRepository is a string key/value store with prefix listing.
type CacheRepository interface {
	// Get returns ErrEntryNotFound for a missing key.
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
}

type MetadataUsecase interface {
	GetBaseURI(ctx context.Context) string
	GetTokenMetadata(ctx context.Context, id TokenID) NFTMetadata
	GetBatchMetadata(ctx context.Context, ids []TokenID) map[TokenID]NFTMetadata
	EvictExpired(ctx context.Context) (int, error)
	ClearAll(ctx context.Context) error
}

type OwnershipUsecase interface {
	Refresh(ctx context.Context, owner common.Address) (*OwnedTokenSet, error)
	SkeletonHint(ctx context.Context, owner common.Address) []string
	Gallery(ctx context.Context, owner common.Address) (*Gallery, error)
	Limits(ctx context.Context, owner common.Address) MintLimits
}
