package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"sync"
	"time"

	"github.com/MMN3003/minter/src/gallery/domain"
	"github.com/MMN3003/minter/src/logger"
	"github.com/ethereum/go-ethereum/common"
)

var _ domain.OwnershipUsecase = (*OwnershipService)(nil)

var ErrTokenIDOutOfRange = errors.New("token id does not fit in 64 bits")

type OwnershipService struct {
	reader   domain.CollectionReader
	repo     domain.CacheRepository
	metadata domain.MetadataUsecase
	logger   *logger.Logger
	now      func() time.Time

	// showcase prefetches started by Refresh
	wg sync.WaitGroup
}

func NewOwnershipService(reader domain.CollectionReader, repo domain.CacheRepository, metadata domain.MetadataUsecase, logg *logger.Logger) *OwnershipService {
	return &OwnershipService{
		reader:   reader,
		repo:     repo,
		metadata: metadata,
		logger:   logg,
		now:      time.Now,
	}
}

// Refresh reads ownership from the chain, mirrors it as a skeleton hint and
// warms the metadata of the token the owner would mint next.
func (s *OwnershipService) Refresh(ctx context.Context, owner common.Address) (*domain.OwnedTokenSet, error) {
	set, err := s.refresh(ctx, owner)
	if err != nil {
		return nil, err
	}

	next := set.NextTokenID
	bg := context.WithoutCancel(ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.metadata.GetTokenMetadata(bg, next)
	}()
	return set, nil
}

func (s *OwnershipService) refresh(ctx context.Context, owner common.Address) (*domain.OwnedTokenSet, error) {
	raw, err := s.reader.TokensOf(ctx, owner)
	if err != nil {
		s.logger.Errorf("Error fetching owned NFTs of %s: %v", owner.Hex(), err)
		return nil, fmt.Errorf("failed to fetch owned NFTs: %w", err)
	}
	ids, err := toTokenIDs(raw)
	if err != nil {
		return nil, err
	}

	set := &domain.OwnedTokenSet{
		Owner:       owner,
		TokenIDs:    ids,
		NextTokenID: domain.NextTokenIDFor(ids),
		RefreshedAt: s.now(),
	}
	s.mirror(ctx, set)
	return set, nil
}

// mirror stores the id list as decimal strings; a failure only costs the hint.
func (s *OwnershipService) mirror(ctx context.Context, set *domain.OwnedTokenSet) {
	ids := make([]string, len(set.TokenIDs))
	for i, id := range set.TokenIDs {
		ids[i] = id.String()
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		s.logger.Errorf("Error encoding NFT cache: %v", err)
		return
	}
	if err := s.repo.Set(ctx, domain.OwnedKey(set.Owner), string(raw)); err != nil {
		s.logger.Errorf("Error updating NFT cache for %s: %v", set.Owner.Hex(), err)
		return
	}
	s.logger.Debugf("Updated NFT cache with %d NFTs", len(ids))
}

// SkeletonHint is the last mirrored id list. It only sizes a loading view and
// never answers ownership.
func (s *OwnershipService) SkeletonHint(ctx context.Context, owner common.Address) []string {
	raw, err := s.repo.Get(ctx, domain.OwnedKey(owner))
	if err != nil {
		if !errors.Is(err, domain.ErrEntryNotFound) {
			s.logger.Errorf("Error reading NFT cache for %s: %v", owner.Hex(), err)
		}
		return []string{}
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		s.logger.Errorf("Failed to parse cached NFTs: %v", err)
		return []string{}
	}
	return ids
}

// Gallery is the owner's tokens in on-chain order with metadata and rarity,
// plus the showcase entry for the next token.
func (s *OwnershipService) Gallery(ctx context.Context, owner common.Address) (*domain.Gallery, error) {
	set, err := s.refresh(ctx, owner)
	if err != nil {
		return nil, err
	}

	byID := s.metadata.GetBatchMetadata(ctx, set.TokenIDs)
	g := &domain.Gallery{
		Owner:       owner,
		Entries:     make([]domain.GalleryEntry, 0, len(set.TokenIDs)),
		NextTokenID: set.NextTokenID,
	}
	for _, id := range set.TokenIDs {
		g.Entries = append(g.Entries, domain.GalleryEntry{TokenID: id, Metadata: byID[id], Rarity: domain.RarityOf(id)})
	}
	showcase := s.metadata.GetTokenMetadata(ctx, set.NextTokenID)
	g.Showcase = &showcase
	return g, nil
}

// Limits never fails: an unreadable maximum falls back to the default and an
// unreadable minted count to zero.
func (s *OwnershipService) Limits(ctx context.Context, owner common.Address) domain.MintLimits {
	maxPerUser := uint64(domain.DefaultMaxTokensPerUser)
	if v, err := s.reader.MaxTokensPerUser(ctx); err != nil {
		s.logger.Errorf("Error fetching MAX_TOKENS_PER_USER: %v", err)
	} else if v.IsUint64() && v.Uint64() > 1 {
		// the contract bound is exclusive
		maxPerUser = v.Uint64() - 1
	}

	var minted uint64
	if v, err := s.reader.MintedTokensPerUser(ctx, owner); err != nil {
		s.logger.Errorf("Error fetching minted token count for %s: %v", owner.Hex(), err)
	} else if v.IsUint64() {
		minted = v.Uint64()
	}
	return domain.NewMintLimits(maxPerUser, minted)
}

// Wait blocks until showcase prefetches are done.
func (s *OwnershipService) Wait() { s.wg.Wait() }

func toTokenIDs(raw []*big.Int) ([]domain.TokenID, error) {
	ids := make([]domain.TokenID, 0, len(raw))
	for _, v := range raw {
		if v == nil || v.Sign() < 0 || !v.IsUint64() {
			return nil, fmt.Errorf("%w: %v", ErrTokenIDOutOfRange, v)
		}
		ids = append(ids, domain.TokenID(v.Uint64()))
	}
	return ids, nil
}

// ParseTokenID parses a decimal token id.
func ParseTokenID(s string) (domain.TokenID, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid token id %q: %w", s, err)
	}
	return domain.TokenID(v), nil
}
