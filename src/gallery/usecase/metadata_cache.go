package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/MMN3003/minter/src/config"
	"github.com/MMN3003/minter/src/gallery/domain"
	"github.com/MMN3003/minter/src/logger"
	"github.com/MMN3003/minter/src/metrics"
	"golang.org/x/sync/errgroup"
)

var _ domain.MetadataUsecase = (*MetadataCache)(nil)

const (
	ipfsScheme = "ipfs://"
	// base URIs that point at an image generator rather than JSON documents
	generatorHost = "dicebear.com"
	svgMarker     = "svg"
)

var errNoTokenURI = errors.New("could not retrieve token URI")

type MetadataCache struct {
	repo    domain.CacheRepository
	reader  domain.CollectionReader
	fetcher domain.MetadataFetcher
	logger  *logger.Logger
	cfg     config.MetadataConfig
	now     func() time.Time
}

type CacheOption func(*MetadataCache)

// WithClock replaces time.Now for expiry decisions.
func WithClock(now func() time.Time) CacheOption { return func(c *MetadataCache) { c.now = now } }

func NewMetadataCache(repo domain.CacheRepository, reader domain.CollectionReader, fetcher domain.MetadataFetcher, logg *logger.Logger, cfg config.MetadataConfig, opts ...CacheOption) *MetadataCache {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 5
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 10 * time.Second
	}
	c := &MetadataCache{
		repo:    repo,
		reader:  reader,
		fetcher: fetcher,
		logger:  logg,
		cfg:     cfg,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetBaseURI never fails: a read error yields "" and nothing is cached.
func (c *MetadataCache) GetBaseURI(ctx context.Context) string {
	var cached string
	if c.load(ctx, domain.BaseURIKey, metrics.CacheBaseURI, &cached) && cached != "" {
		return cached
	}

	baseURI, err := c.reader.BaseURI(ctx)
	if err != nil {
		c.logger.Errorf("Error fetching base URI: %v", err)
		return ""
	}
	if baseURI != "" {
		c.store(ctx, domain.BaseURIKey, baseURI)
	}
	return baseURI
}

// GetTokenMetadata always returns something displayable. Metadata failures
// are absorbed into a deterministic placeholder.
func (c *MetadataCache) GetTokenMetadata(ctx context.Context, id domain.TokenID) domain.NFTMetadata {
	key := domain.MetadataKey(id)

	var cached domain.NFTMetadata
	if c.load(ctx, key, metrics.CacheMetadata, &cached) {
		return cached
	}

	md, cacheable, err := c.resolve(ctx, id)
	if err != nil {
		c.logger.Errorf("Error fetching metadata for token %d: %v", id, err)
		return c.placeholder(id)
	}
	if cacheable {
		c.store(ctx, key, md)
	}
	return md
}

func (c *MetadataCache) resolve(ctx context.Context, id domain.TokenID) (domain.NFTMetadata, bool, error) {
	baseURI := c.GetBaseURI(ctx)
	if strings.Contains(baseURI, generatorHost) || strings.Contains(baseURI, svgMarker) {
		return c.synthesized(id, baseURI+id.String()), true, nil
	}

	tokenURI := c.tokenURI(ctx, id, baseURI)
	if tokenURI == "" {
		return domain.NFTMetadata{}, false, errNoTokenURI
	}
	uri := c.gatewayURL(tokenURI)

	fetchCtx, cancel := context.WithTimeout(ctx, c.cfg.FetchTimeout)
	defer cancel()
	start := time.Now()
	body, err := c.fetcher.Fetch(fetchCtx, uri)
	metrics.MetadataFetched(start, err)
	if err != nil {
		return domain.NFTMetadata{}, false, fmt.Errorf("failed to fetch metadata: %w", err)
	}

	// null decodes without error into a nil pointer
	var md *domain.NFTMetadata
	if err := json.Unmarshal(body, &md); err != nil || md == nil || md.Image == "" {
		c.logger.Debugf("metadata for token %d is not a usable document, using %s as image: %v", id, uri, err)
		return c.synthesized(id, uri), false, nil
	}
	md.Image = c.gatewayURL(md.Image)
	return *md, true, nil
}

// tokenURI falls back to baseURI+id when the contract read fails.
func (c *MetadataCache) tokenURI(ctx context.Context, id domain.TokenID, baseURI string) string {
	uri, err := c.reader.TokenURI(ctx, id)
	if err == nil {
		return uri
	}
	c.logger.Errorf("Error fetching token URI for token %d: %v", id, err)
	if baseURI == "" {
		return ""
	}
	return baseURI + id.String()
}

// GetBatchMetadata resolves ids in sequential groups of BatchSize, each
// group concurrently.
func (c *MetadataCache) GetBatchMetadata(ctx context.Context, ids []domain.TokenID) map[domain.TokenID]domain.NFTMetadata {
	out := make(map[domain.TokenID]domain.NFTMetadata, len(ids))
	var mu sync.Mutex

	for start := 0; start < len(ids); start += c.cfg.BatchSize {
		end := start + c.cfg.BatchSize
		if end > len(ids) {
			end = len(ids)
		}

		g, gctx := errgroup.WithContext(ctx)
		for _, id := range ids[start:end] {
			id := id
			g.Go(func() error {
				md := c.GetTokenMetadata(gctx, id)
				mu.Lock()
				out[id] = md
				mu.Unlock()
				return nil
			})
		}
		_ = g.Wait()
	}
	return out
}

// EvictExpired removes expired or unreadable base URI and metadata entries.
func (c *MetadataCache) EvictExpired(ctx context.Context) (int, error) {
	keys, err := c.repo.Keys(ctx, domain.MetadataKeyPrefix)
	if err != nil {
		return 0, fmt.Errorf("list metadata keys: %w", err)
	}
	keys = append(keys, domain.BaseURIKey)

	now := c.now()
	var stale []string
	for _, key := range keys {
		raw, err := c.repo.Get(ctx, key)
		if errors.Is(err, domain.ErrEntryNotFound) {
			continue
		}
		if err != nil {
			return 0, fmt.Errorf("read %s: %w", key, err)
		}
		var entry domain.CachedMetadata
		if err := json.Unmarshal([]byte(raw), &entry); err != nil || entry.Expired(now, c.cfg.TTL) {
			stale = append(stale, key)
		}
	}

	if err := c.repo.Delete(ctx, stale...); err != nil {
		return 0, fmt.Errorf("delete expired entries: %w", err)
	}
	metrics.CacheEvicted(len(stale))
	if len(stale) > 0 {
		c.logger.Infof("Evicted %d expired metadata cache entries", len(stale))
	}
	return len(stale), nil
}

// ClearAll drops the base URI and every metadata entry. Ownership mirrors stay.
func (c *MetadataCache) ClearAll(ctx context.Context) error {
	keys, err := c.repo.Keys(ctx, domain.MetadataKeyPrefix)
	if err != nil {
		return fmt.Errorf("list metadata keys: %w", err)
	}
	return c.repo.Delete(ctx, append(keys, domain.BaseURIKey)...)
}

// ---------- HELPERS ----------

// load decodes a fresh entry into dst. Expired entries are removed.
func (c *MetadataCache) load(ctx context.Context, key, cache string, dst interface{}) bool {
	raw, err := c.repo.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrEntryNotFound) {
			c.logger.Errorf("Error reading %s from cache: %v", key, err)
		}
		metrics.CacheLookup(cache, metrics.ResultMiss)
		return false
	}

	var entry domain.CachedMetadata
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		c.logger.Errorf("Error reading %s from cache: %v", key, err)
		metrics.CacheLookup(cache, metrics.ResultMiss)
		return false
	}
	if entry.Expired(c.now(), c.cfg.TTL) {
		if err := c.repo.Delete(ctx, key); err != nil {
			c.logger.Errorf("Error removing expired %s: %v", key, err)
		}
		metrics.CacheLookup(cache, metrics.ResultExpired)
		return false
	}
	if err := json.Unmarshal(entry.Payload, dst); err != nil {
		c.logger.Errorf("Error decoding cached %s: %v", key, err)
		metrics.CacheLookup(cache, metrics.ResultMiss)
		return false
	}
	metrics.CacheLookup(cache, metrics.ResultHit)
	return true
}

func (c *MetadataCache) store(ctx context.Context, key string, v interface{}) {
	payload, err := json.Marshal(v)
	if err != nil {
		c.logger.Errorf("Error encoding %s: %v", key, err)
		return
	}
	raw, err := json.Marshal(domain.CachedMetadata{Payload: payload, CachedAtEpochMillis: c.now().UnixMilli()})
	if err != nil {
		c.logger.Errorf("Error encoding %s: %v", key, err)
		return
	}
	if err := c.repo.Set(ctx, key, string(raw)); err != nil {
		c.logger.Errorf("Error caching %s: %v", key, err)
	}
}

func (c *MetadataCache) gatewayURL(uri string) string {
	if !strings.HasPrefix(uri, ipfsScheme) {
		return uri
	}
	return c.cfg.IPFSGateway + strings.TrimPrefix(uri, ipfsScheme)
}

func (c *MetadataCache) synthesized(id domain.TokenID, image string) domain.NFTMetadata {
	return domain.NFTMetadata{
		Name:        fmt.Sprintf("%s #%d", c.cfg.CollectionName, id),
		Description: c.cfg.CollectionDesc,
		Image:       image,
	}
}

func (c *MetadataCache) placeholder(id domain.TokenID) domain.NFTMetadata {
	return c.synthesized(id, c.cfg.PlaceholderImageURL+id.String())
}
