package http

import (
	"github.com/MMN3003/minter/src/gallery/domain"
)

// TokenResponse is one token's metadata and rarity
// swagger:model TokenResponse
type TokenResponse struct {
	TokenID  uint64             `json:"token_id" example:"7"`
	Rarity   domain.Rarity      `json:"rarity" example:"Rare"`
	Metadata domain.NFTMetadata `json:"metadata"`
}

func fromEntryDomain(e domain.GalleryEntry) TokenResponse {
	return TokenResponse{TokenID: uint64(e.TokenID), Rarity: e.Rarity, Metadata: e.Metadata}
}

// GalleryResponse lists the tokens an address owns
// swagger:model GalleryResponse
type GalleryResponse struct {
	Owner       string              `json:"owner"`
	Count       int                 `json:"count"`
	NextTokenID uint64              `json:"next_token_id"`
	Showcase    *domain.NFTMetadata `json:"showcase,omitempty"`
	Tokens      []TokenResponse     `json:"tokens"`
}

func fromGalleryDomain(g *domain.Gallery) GalleryResponse {
	res := GalleryResponse{
		Owner:       g.Owner.Hex(),
		Count:       len(g.Entries),
		NextTokenID: uint64(g.NextTokenID),
		Showcase:    g.Showcase,
		Tokens:      make([]TokenResponse, 0, len(g.Entries)),
	}
	for _, e := range g.Entries {
		res.Tokens = append(res.Tokens, fromEntryDomain(e))
	}
	return res
}

// SkeletonHintResponse is the last known owned id list, for sizing placeholders
// swagger:model SkeletonHintResponse
type SkeletonHintResponse struct {
	TokenIDs []string `json:"token_ids"`
}

// LimitsResponse is the per-user mint allowance
// swagger:model LimitsResponse
type LimitsResponse struct {
	MaxPerUser uint64 `json:"max_per_user" example:"50"`
	Minted     uint64 `json:"minted" example:"3"`
	Remaining  uint64 `json:"remaining" example:"47"`
	ReachedMax bool   `json:"reached_max"`
}

func fromLimitsDomain(l domain.MintLimits) LimitsResponse {
	return LimitsResponse{
		MaxPerUser: l.MaxPerUser,
		Minted:     l.Minted,
		Remaining:  l.Remaining,
		ReachedMax: l.ReachedMax,
	}
}

// BaseURIResponse is the collection base URI
// swagger:model BaseURIResponse
type BaseURIResponse struct {
	BaseURI string `json:"base_uri" example:"https://api.dicebear.com/9.x/pixel-art/svg?seed="`
}
