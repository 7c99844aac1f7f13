// Package trend detects tokens whose price rose sharply within the tracked
// window by resampling snapshot history onto a fixed hourly grid.
package trend

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"tokenScope/internal/model"
)

// DefaultPumpThreshold is the percent change above which a token is flagged.
const DefaultPumpThreshold = 50.0

const bucketSize = time.Hour

// Analyzer turns snapshot history into pump signals.
type Analyzer struct {
	threshold float64
	logger    *zap.Logger
}

// NewAnalyzer builds an Analyzer. A non-positive threshold falls back to the
// default.
func NewAnalyzer(thresholdPct float64, logger *zap.Logger) *Analyzer {
	if thresholdPct <= 0 {
		thresholdPct = DefaultPumpThreshold
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{threshold: thresholdPct, logger: logger}
}

// Analyze groups snapshots by token, resamples each group onto hourly
// buckets keeping the last observed price per bucket, and emits a signal for
// every token whose first-to-last bucket change strictly exceeds the
// threshold. Tokens with fewer than two buckets or a zero starting price are
// silently skipped.
func (a *Analyzer) Analyze(snapshots []model.Snapshot) []model.PumpSignal {
	groups := make(map[string][]model.Snapshot)
	for _, snap := range snapshots {
		groups[snap.TokenAddress] = append(groups[snap.TokenAddress], snap)
	}

	var signals []model.PumpSignal
	for token, group := range groups {
		sort.Slice(group, func(i, j int) bool {
			return group[i].Timestamp.Before(group[j].Timestamp)
		})

		// Last observation wins within each bucket.
		buckets := make(map[int64]float64)
		for _, snap := range group {
			key := snap.Timestamp.Truncate(bucketSize).Unix()
			buckets[key] = snap.PriceUSD
		}

		if len(buckets) < 2 {
			continue
		}

		keys := make([]int64, 0, len(buckets))
		for key := range buckets {
			keys = append(keys, key)
		}
		sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

		first := buckets[keys[0]]
		last := buckets[keys[len(keys)-1]]
		if first == 0 {
			a.logger.Debug("skipping token with zero starting price", zap.String("token", token))
			continue
		}

		change := (last - first) / first * 100
		if change > a.threshold {
			signals = append(signals, model.PumpSignal{
				TokenAddress:  token,
				PercentChange: change,
				WindowStart:   time.Unix(keys[0], 0).UTC(),
				WindowEnd:     time.Unix(keys[len(keys)-1], 0).UTC(),
			})
		}
	}

	return signals
}
