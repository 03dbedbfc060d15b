package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MMN3003/minter/src/gallery/domain"
	"github.com/MMN3003/minter/src/logger"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ownerHex = "0x00000000000000000000000000000000000000A1"

type fakeOwnership struct {
	gallery    *domain.Gallery
	galleryErr error
	hint       []string
	limits     domain.MintLimits
}

func (f *fakeOwnership) Refresh(ctx context.Context, owner common.Address) (*domain.OwnedTokenSet, error) {
	return &domain.OwnedTokenSet{Owner: owner}, nil
}

func (f *fakeOwnership) SkeletonHint(ctx context.Context, owner common.Address) []string {
	return f.hint
}

func (f *fakeOwnership) Gallery(ctx context.Context, owner common.Address) (*domain.Gallery, error) {
	return f.gallery, f.galleryErr
}

func (f *fakeOwnership) Limits(ctx context.Context, owner common.Address) domain.MintLimits {
	return f.limits
}

type fakeMetadata struct {
	base    string
	cleared bool
}

func (f *fakeMetadata) GetBaseURI(ctx context.Context) string { return f.base }

func (f *fakeMetadata) GetTokenMetadata(ctx context.Context, id domain.TokenID) domain.NFTMetadata {
	return domain.NFTMetadata{Name: "Token #" + id.String(), Image: "https://img/" + id.String()}
}

func (f *fakeMetadata) GetBatchMetadata(ctx context.Context, ids []domain.TokenID) map[domain.TokenID]domain.NFTMetadata {
	out := make(map[domain.TokenID]domain.NFTMetadata, len(ids))
	for _, id := range ids {
		out[id] = f.GetTokenMetadata(ctx, id)
	}
	return out
}

func (f *fakeMetadata) EvictExpired(ctx context.Context) (int, error) { return 0, nil }

func (f *fakeMetadata) ClearAll(ctx context.Context) error {
	f.cleared = true
	return nil
}

func newRouter(o *fakeOwnership, m *fakeMetadata) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(o, m, logger.Nop()).RegisterRoutes(r)
	return r
}

func get(r *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestGetGallery(t *testing.T) {
	showcase := domain.NFTMetadata{Name: "Token #2"}
	o := &fakeOwnership{gallery: &domain.Gallery{
		Owner: common.HexToAddress(ownerHex),
		Entries: []domain.GalleryEntry{
			{TokenID: 2, Metadata: showcase, Rarity: domain.RarityLimitedEdition},
			{TokenID: 13, Metadata: domain.NFTMetadata{Name: "Token #13"}, Rarity: domain.RarityRare},
		},
		NextTokenID: 14,
		Showcase:    &showcase,
	}}
	w := get(newRouter(o, &fakeMetadata{}), http.MethodGet, "/gallery/"+ownerHex)
	require.Equal(t, http.StatusOK, w.Code)

	var res GalleryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, 2, res.Count)
	assert.Equal(t, uint64(14), res.NextTokenID)
	require.NotNil(t, res.Showcase)
	assert.Equal(t, "Token #2", res.Showcase.Name)
	assert.Equal(t, domain.RarityRare, res.Tokens[1].Rarity)
}

func TestGetGallery_Errors(t *testing.T) {
	w := get(newRouter(&fakeOwnership{}, &fakeMetadata{}), http.MethodGet, "/gallery/not-an-address")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	o := &fakeOwnership{galleryErr: errors.New("rpc down")}
	w = get(newRouter(o, &fakeMetadata{}), http.MethodGet, "/gallery/"+ownerHex)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())
}

func TestGetSkeletonHintAndLimits(t *testing.T) {
	o := &fakeOwnership{hint: []string{"1", "4"}, limits: domain.NewMintLimits(50, 50)}
	r := newRouter(o, &fakeMetadata{})

	w := get(r, http.MethodGet, "/gallery/"+ownerHex+"/hint")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"token_ids":["1","4"]}`, w.Body.String())

	w = get(r, http.MethodGet, "/gallery/"+ownerHex+"/limits")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"max_per_user":50,"minted":50,"remaining":0,"reached_max":true}`, w.Body.String())
}

func TestGetToken(t *testing.T) {
	r := newRouter(&fakeOwnership{}, &fakeMetadata{})

	w := get(r, http.MethodGet, "/tokens/12")
	require.Equal(t, http.StatusOK, w.Code)
	var res TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, uint64(12), res.TokenID)
	assert.Equal(t, domain.RarityLegendary, res.Rarity)
	assert.Equal(t, "Token #12", res.Metadata.Name)

	w = get(r, http.MethodGet, "/tokens/-1")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCollectionRoutes(t *testing.T) {
	m := &fakeMetadata{base: "https://meta/"}
	r := newRouter(&fakeOwnership{}, m)

	w := get(r, http.MethodGet, "/collection/base-uri")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"base_uri":"https://meta/"}`, w.Body.String())

	w = get(r, http.MethodDelete, "/collection/cache")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.True(t, m.cleared)
}
