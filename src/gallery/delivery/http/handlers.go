package http

import (
	"net/http"

	"github.com/MMN3003/minter/src/gallery/domain"
	"github.com/MMN3003/minter/src/gallery/usecase"
	"github.com/MMN3003/minter/src/logger"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
)

// Handler binds usecases + logger
type Handler struct {
	ownership domain.OwnershipUsecase
	metadata  domain.MetadataUsecase
	logger    *logger.Logger
}

func NewHandler(o domain.OwnershipUsecase, m domain.MetadataUsecase, l *logger.Logger) *Handler {
	return &Handler{ownership: o, metadata: m, logger: l}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/gallery/:address", h.GetGallery)
	r.GET("/gallery/:address/hint", h.GetSkeletonHint)
	r.GET("/gallery/:address/limits", h.GetLimits)
	r.GET("/tokens/:id", h.GetToken)
	r.GET("/collection/base-uri", h.GetBaseURI)
	r.DELETE("/collection/cache", h.ClearCache)
}

// parseAddress reads the :address path param. It reports false after
// writing a 400.
func (h *Handler) parseAddress(c *gin.Context, op string) (common.Address, bool) {
	raw := c.Param("address")
	if !common.IsHexAddress(raw) {
		h.logger.Errorf("%s err: invalid address %q", op, raw)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid address"})
		return common.Address{}, false
	}
	return common.HexToAddress(raw), true
}

// GetGallery godoc
//
//	@Summary		Owned tokens
//	@Description	Refresh on-chain ownership and return every owned token with metadata and rarity
//	@Tags			gallery
//	@Produce		json
//	@Param			address	path		string	true	"Owner address"
//	@Success		200	{object}	GalleryResponse
//	@Failure		400	{object}	object{error=string}
//	@Failure		500	{object}	object{error=string}
//	@Router			/gallery/{address} [get]
func (h *Handler) GetGallery(c *gin.Context) {
	owner, ok := h.parseAddress(c, "GetGallery")
	if !ok {
		return
	}
	g, err := h.ownership.Gallery(c.Request.Context(), owner)
	if err != nil {
		h.logger.Errorf("GetGallery err: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, fromGalleryDomain(g))
}

// GetSkeletonHint godoc
//
//	@Summary		Cached owned ids
//	@Description	Last mirrored owned token ids, without touching the chain
//	@Tags			gallery
//	@Produce		json
//	@Param			address	path		string	true	"Owner address"
//	@Success		200	{object}	SkeletonHintResponse
//	@Failure		400	{object}	object{error=string}
//	@Router			/gallery/{address}/hint [get]
func (h *Handler) GetSkeletonHint(c *gin.Context) {
	owner, ok := h.parseAddress(c, "GetSkeletonHint")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, SkeletonHintResponse{TokenIDs: h.ownership.SkeletonHint(c.Request.Context(), owner)})
}

// GetLimits godoc
//
//	@Summary		Mint limits
//	@Description	Per-user maximum, minted count and remaining allowance
//	@Tags			gallery
//	@Produce		json
//	@Param			address	path		string	true	"Owner address"
//	@Success		200	{object}	LimitsResponse
//	@Failure		400	{object}	object{error=string}
//	@Router			/gallery/{address}/limits [get]
func (h *Handler) GetLimits(c *gin.Context) {
	owner, ok := h.parseAddress(c, "GetLimits")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, fromLimitsDomain(h.ownership.Limits(c.Request.Context(), owner)))
}

// GetToken godoc
//
//	@Summary		Token metadata
//	@Description	Cached metadata for one token; never fails, falls back to a placeholder
//	@Tags			gallery
//	@Produce		json
//	@Param			id	path		int	true	"Token id"
//	@Success		200	{object}	TokenResponse
//	@Failure		400	{object}	object{error=string}
//	@Router			/tokens/{id} [get]
func (h *Handler) GetToken(c *gin.Context) {
	id, err := usecase.ParseTokenID(c.Param("id"))
	if err != nil {
		h.logger.Errorf("GetToken err: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid token id"})
		return
	}
	c.JSON(http.StatusOK, fromEntryDomain(domain.GalleryEntry{
		TokenID:  id,
		Metadata: h.metadata.GetTokenMetadata(c.Request.Context(), id),
		Rarity:   domain.RarityOf(id),
	}))
}

// GetBaseURI godoc
//
//	@Summary		Collection base URI
//	@Description	Cached baseURI() of the NFT contract; empty when unreadable
//	@Tags			gallery
//	@Produce		json
//	@Success		200	{object}	BaseURIResponse
//	@Router			/collection/base-uri [get]
func (h *Handler) GetBaseURI(c *gin.Context) {
	c.JSON(http.StatusOK, BaseURIResponse{BaseURI: h.metadata.GetBaseURI(c.Request.Context())})
}

// ClearCache godoc
//
//	@Summary		Clear metadata cache
//	@Description	Drop the base URI and every cached token metadata entry
//	@Tags			gallery
//	@Success		204
//	@Failure		500	{object}	object{error=string}
//	@Router			/collection/cache [delete]
func (h *Handler) ClearCache(c *gin.Context) {
	if err := h.metadata.ClearAll(c.Request.Context()); err != nil {
		h.logger.Errorf("ClearCache err: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.Status(http.StatusNoContent)
}
