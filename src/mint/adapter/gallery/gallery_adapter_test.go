package gallery

import (
	"context"
	"errors"
	"testing"

	galleryDomain "github.com/MMN3003/minter/src/gallery/domain"
	"github.com/MMN3003/minter/src/logger"
	"github.com/MMN3003/minter/src/mint/domain"
	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeOwnership struct {
	galleryDomain.OwnershipUsecase

	owners []common.Address
	ids    []galleryDomain.TokenID
	err    error
}

func (f *fakeOwnership) Refresh(ctx context.Context, owner common.Address) (*galleryDomain.OwnedTokenSet, error) {
	f.owners = append(f.owners, owner)
	if f.err != nil {
		return nil, f.err
	}
	return &galleryDomain.OwnedTokenSet{
		Owner:       owner,
		TokenIDs:    f.ids,
		NextTokenID: galleryDomain.NextTokenIDFor(f.ids),
	}, nil
}

func TestOnMintConfirmed_RefreshesOwner(t *testing.T) {
	owner := common.HexToAddress("0x00000000000000000000000000000000000000a1")
	own := &fakeOwnership{ids: []galleryDomain.TokenID{1, 2, 3}}
	port := NewGalleryPort(own, logger.Nop())

	port.OnMintConfirmed(context.Background(), owner, domain.TransactionState{
		ID:       uuid.New(),
		Kind:     domain.TxMintNative,
		Phase:    domain.PhaseConfirmed,
		Quantity: 3,
	})

	assert.Equal(t, []common.Address{owner}, own.owners)
}

func TestOnMintConfirmed_RefreshErrorIsLogged(t *testing.T) {
	own := &fakeOwnership{err: errors.New("rpc down")}
	port := NewGalleryPort(own, logger.Nop())

	assert.NotPanics(t, func() {
		port.OnMintConfirmed(context.Background(), common.Address{}, domain.TransactionState{Kind: domain.TxMintERC20})
	})
	assert.Len(t, own.owners, 1)
}
