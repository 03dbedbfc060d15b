package gallery

import (
	"context"

	galleryDomain "github.com/MMN3003/minter/src/gallery/domain"
	"github.com/MMN3003/minter/src/logger"
	"github.com/MMN3003/minter/src/mint/domain"
	"github.com/ethereum/go-ethereum/common"
)

type GalleryAdapter interface {
	domain.ConfirmationListener
	Refresh(ctx context.Context, owner common.Address) (*galleryDomain.OwnedTokenSet, error)
}

var _ GalleryAdapter = (*GalleryPort)(nil)

// init gallery port
func NewGalleryPort(ownership galleryDomain.OwnershipUsecase, logg *logger.Logger) GalleryAdapter {
	return &GalleryPort{ownership: ownership, logger: logg}
}

type GalleryPort struct {
	ownership galleryDomain.OwnershipUsecase
	logger    *logger.Logger
}

func (g *GalleryPort) Refresh(ctx context.Context, owner common.Address) (*galleryDomain.OwnedTokenSet, error) {
	return g.ownership.Refresh(ctx, owner)
}

// OnMintConfirmed re-reads ownership so the gallery shows the new tokens.
func (g *GalleryPort) OnMintConfirmed(ctx context.Context, owner common.Address, tx domain.TransactionState) {
	set, err := g.Refresh(ctx, owner)
	if err != nil {
		g.logger.Errorf("Refresh after %s %s err: %v", tx.Kind, tx.ID, err)
		return
	}
	g.logger.Infof("%s now owns %d token(s), next id %d", owner.Hex(), len(set.TokenIDs), set.NextTokenID)
}
