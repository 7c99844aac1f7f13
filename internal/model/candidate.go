package model

import "encoding/json"

// TokenCandidate is a just-fetched, unverified token observation from the
// data source. It lives only for the duration of one admission decision.
type TokenCandidate struct {
	TokenAddress string          `json:"tokenAddress"`
	ChainID      string          `json:"chainId"`
	Developer    string          `json:"developer,omitempty"`
	Icon         string          `json:"icon,omitempty"`
	Description  string          `json:"description,omitempty"`
	Links        json.RawMessage `json:"links,omitempty"`
}

// PairLiquidity holds the USD liquidity of a trading pair.
type PairLiquidity struct {
	USD FlexFloat `json:"usd"`
}

// PairVolume holds trailing volume figures of a trading pair.
type PairVolume struct {
	H1 FlexFloat `json:"h1"`
}

// PairInfo is the liquidity/price/volume detail fetched per candidate.
// The pipeline uses the first pair returned by the source.
type PairInfo struct {
	ChainID     string        `json:"chainId,omitempty"`
	PairAddress string        `json:"pairAddress,omitempty"`
	PriceUSD    FlexFloat     `json:"priceUsd"`
	Liquidity   PairLiquidity `json:"liquidity"`
	Volume      PairVolume    `json:"volume"`
}
