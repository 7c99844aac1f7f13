package model

import (
	"encoding/json"
	"time"
)

// Snapshot is the durable record of an admitted observation. Snapshots are
// immutable once written; the store is append-only.
type Snapshot struct {
	ID           int64           `json:"id,omitempty"`
	TokenAddress string          `json:"token_address"`
	ChainID      string          `json:"chain_id"`
	Icon         string          `json:"icon,omitempty"`
	Description  string          `json:"description,omitempty"`
	Links        json.RawMessage `json:"links,omitempty"`
	PriceUSD     float64         `json:"price_usd"`
	Liquidity    float64         `json:"liquidity"`
	VolumeUSD    float64         `json:"volume_usd"`
	Developer    string          `json:"developer,omitempty"`
	Timestamp    time.Time       `json:"timestamp"`
}

// PumpSignal flags a token whose price rose sharply within the tracked
// window. Derived per analysis pass, never persisted.
type PumpSignal struct {
	TokenAddress  string    `json:"token_address"`
	PercentChange float64   `json:"percent_change"`
	WindowStart   time.Time `json:"window_start"`
	WindowEnd     time.Time `json:"window_end"`
}
