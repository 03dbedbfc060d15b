package domain

import (
	"encoding/json"
	"math"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Storage keys shared with the browser build of the dApp.
const (
	BaseURIKey        = "nft_base_uri"
	MetadataKeyPrefix = "nft_metadata_"
	OwnedKeyPrefix    = "nft_cache_"
)

type TokenID uint64

func (id TokenID) String() string { return strconv.FormatUint(uint64(id), 10) }

func MetadataKey(id TokenID) string { return MetadataKeyPrefix + id.String() }

func OwnedKey(owner common.Address) string { return OwnedKeyPrefix + owner.Hex() }

type Attribute struct {
	TraitType string      `json:"trait_type"`
	Value     interface{} `json:"value"`
}

type NFTMetadata struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Image       string      `json:"image"`
	Attributes  []Attribute `json:"attributes,omitempty"`
}

// CachedMetadata is the envelope persisted under every cache key.
type CachedMetadata struct {
	TokenKey            string          `json:"-"`
	Payload             json.RawMessage `json:"data"`
	CachedAtEpochMillis int64           `json:"timestamp"`
}

// Expired reports whether the entry is no longer valid at now. An entry is
// valid only while now - cachedAt < ttl.
func (c CachedMetadata) Expired(now time.Time, ttl time.Duration) bool {
	return now.UnixMilli()-c.CachedAtEpochMillis >= ttl.Milliseconds()
}

// OwnedTokenSet is the authoritative on-chain ownership of an address.
type OwnedTokenSet struct {
	Owner       common.Address
	TokenIDs    []TokenID
	NextTokenID TokenID
	RefreshedAt time.Time
}

// NextTokenIDFor is max(ids)+1, or 0 for an empty set.
func NextTokenIDFor(ids []TokenID) TokenID {
	if len(ids) == 0 {
		return 0
	}
	highest := ids[0]
	for _, id := range ids[1:] {
		if id > highest {
			highest = id
		}
	}
	return highest + 1
}

type MintLimits struct {
	MaxPerUser uint64
	Minted     uint64
	Remaining  uint64
	ReachedMax bool
}

// DefaultMaxTokensPerUser is used when the contract limit cannot be read.
const DefaultMaxTokensPerUser = 50

func NewMintLimits(maxPerUser, minted uint64) MintLimits {
	l := MintLimits{MaxPerUser: maxPerUser, Minted: minted}
	if maxPerUser > minted {
		l.Remaining = maxPerUser - minted
	}
	l.ReachedMax = l.Remaining == 0
	return l
}

type Rarity string

const (
	RarityLimitedEdition Rarity = "Limited Edition"
	RarityRare           Rarity = "Rare"
	RarityLegendary      Rarity = "Legendary"
	RarityExclusive      Rarity = "Exclusive"
)

func RarityOf(id TokenID) Rarity {
	switch {
	case id < 10:
		return RarityLimitedEdition
	case isPrime(uint64(id)):
		return RarityRare
	case id%2 == 0:
		return RarityLegendary
	default:
		return RarityExclusive
	}
}

func isPrime(n uint64) bool {
	if n <= 1 {
		return false
	}
	limit := uint64(math.Sqrt(float64(n)))
	for i := uint64(2); i <= limit; i++ {
		if n%i == 0 {
			return false
		}
	}
	return true
}

// GalleryEntry is one owned token as a gallery renders it.
type GalleryEntry struct {
	TokenID  TokenID
	Metadata NFTMetadata
	Rarity   Rarity
}

type Gallery struct {
	Owner       common.Address
	Entries     []GalleryEntry
	NextTokenID TokenID
	Showcase    *NFTMetadata
}
