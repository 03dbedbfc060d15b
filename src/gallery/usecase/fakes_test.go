package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/MMN3003/minter/src/config"
	"github.com/MMN3003/minter/src/gallery/domain"
	"github.com/MMN3003/minter/src/gallery/repository"
	"github.com/MMN3003/minter/src/logger"
	"github.com/ethereum/go-ethereum/common"
	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

type fakeReader struct {
	mu sync.Mutex

	baseURI    string
	baseURIErr error
	tokenURIs  map[domain.TokenID]string
	tokenErr   error
	owned      map[common.Address][]*big.Int
	ownedErr   error
	max        *big.Int
	maxErr     error
	minted     *big.Int
	mintedErr  error

	baseURICalls int
}

func newFakeReader() *fakeReader {
	return &fakeReader{
		tokenURIs: map[domain.TokenID]string{},
		owned:     map[common.Address][]*big.Int{},
		max:       big.NewInt(51),
		minted:    big.NewInt(0),
	}
}

func (r *fakeReader) BaseURI(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.baseURICalls++
	return r.baseURI, r.baseURIErr
}

func (r *fakeReader) TokenURI(ctx context.Context, id domain.TokenID) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.tokenErr != nil {
		return "", r.tokenErr
	}
	uri, ok := r.tokenURIs[id]
	if !ok {
		return "", errors.New("execution reverted: nonexistent token")
	}
	return uri, nil
}

func (r *fakeReader) TokensOf(ctx context.Context, owner common.Address) ([]*big.Int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.owned[owner], r.ownedErr
}

func (r *fakeReader) MaxTokensPerUser(ctx context.Context) (*big.Int, error) {
	return r.max, r.maxErr
}

func (r *fakeReader) MintedTokensPerUser(ctx context.Context, owner common.Address) (*big.Int, error) {
	return r.minted, r.mintedErr
}

func (r *fakeReader) setOwned(owner common.Address, ids ...int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*big.Int, len(ids))
	for i, id := range ids {
		out[i] = big.NewInt(id)
	}
	r.owned[owner] = out
}

type fakeFetcher struct {
	mu     sync.Mutex
	bodies map[string]string
	err    error
	calls  map[string]int
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{bodies: map[string]string{}, calls: map[string]int{}}
}

func (f *fakeFetcher) Fetch(ctx context.Context, uri string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[uri]++
	if f.err != nil {
		return nil, f.err
	}
	body, ok := f.bodies[uri]
	if !ok {
		return nil, fmt.Errorf("unexpected status 404 for %s", uri)
	}
	return []byte(body), nil
}

func (f *fakeFetcher) count(uri string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[uri]
}

func (f *fakeFetcher) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func testMetadataConfig() config.MetadataConfig {
	return config.MetadataConfig{
		TTL:                 time.Hour,
		FetchTimeout:        10 * time.Second,
		BatchSize:           5,
		IPFSGateway:         "https://ipfs.io/ipfs/",
		PlaceholderImageURL: "https://api.dicebear.com/9.x/pixel-art/svg?seed=",
		CollectionName:      "Somnia NFT",
		CollectionDesc:      "A Somnia Devnet NFT",
	}
}

func newTestCacheRepo(t *testing.T) *repository.Repo {
	t.Helper()
	dsn := fmt.Sprintf("file:gallery_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	require.NoError(t, err)
	// batch tests write concurrently; shared-cache sqlite wants one connection
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	return repository.NewRepo(db, logger.Nop())
}

type cacheFixture struct {
	repo    *repository.Repo
	reader  *fakeReader
	fetcher *fakeFetcher
	clock   *fakeClock
	cache   *MetadataCache
}

func newCacheFixture(t *testing.T) *cacheFixture {
	t.Helper()
	f := &cacheFixture{
		repo:    newTestCacheRepo(t),
		reader:  newFakeReader(),
		fetcher: newFakeFetcher(),
		clock:   &fakeClock{t: time.UnixMilli(1_700_000_000_000)},
	}
	f.cache = NewMetadataCache(f.repo, f.reader, f.fetcher, logger.Nop(), testMetadataConfig(), WithClock(f.clock.Now))
	return f
}
