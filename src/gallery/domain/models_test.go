package domain

import (
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
)

func TestRarityOf(t *testing.T) {
	cases := map[TokenID]Rarity{
		0:   RarityLimitedEdition,
		7:   RarityLimitedEdition,
		9:   RarityLimitedEdition,
		11:  RarityRare,
		13:  RarityRare,
		12:  RarityLegendary,
		100: RarityLegendary,
		15:  RarityExclusive,
		25:  RarityExclusive,
	}
	for id, want := range cases {
		assert.Equal(t, want, RarityOf(id), "token %d", id)
	}
}

func TestNextTokenIDFor(t *testing.T) {
	assert.Equal(t, TokenID(0), NextTokenIDFor(nil))
	assert.Equal(t, TokenID(8), NextTokenIDFor([]TokenID{3, 7, 5}))
	assert.Equal(t, TokenID(1), NextTokenIDFor([]TokenID{0}))
}

func TestNewMintLimits(t *testing.T) {
	l := NewMintLimits(49, 10)
	assert.Equal(t, uint64(39), l.Remaining)
	assert.False(t, l.ReachedMax)

	l = NewMintLimits(5, 9)
	assert.Equal(t, uint64(0), l.Remaining)
	assert.True(t, l.ReachedMax)
}

func TestCachedMetadataExpired(t *testing.T) {
	cachedAt := time.UnixMilli(1_700_000_000_000)
	entry := CachedMetadata{CachedAtEpochMillis: cachedAt.UnixMilli()}

	assert.False(t, entry.Expired(cachedAt.Add(59*time.Minute), time.Hour))
	assert.True(t, entry.Expired(cachedAt.Add(time.Hour), time.Hour))
	assert.True(t, entry.Expired(cachedAt.Add(time.Hour+time.Millisecond), time.Hour))
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "nft_metadata_42", MetadataKey(42))
	owner := common.HexToAddress("0x00000000000000000000000000000000000000a1")
	assert.Equal(t, "nft_cache_"+owner.Hex(), OwnedKey(owner))
}
