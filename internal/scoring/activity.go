package scoring

import (
	"math"

	"github.com/wonny/pulse/internal/contracts"
)

const (
	baseScore = 5
	minScore  = 1
	maxScore  = 10

	// proximityRatio is how close price must be to the 52-week high for the bonus
	proximityRatio = 0.95
)

// step is one "greater than threshold adds points" rule
type step struct {
	above  float64
	points int
}

// priceSteps are ordered from the largest threshold down; the first match applies.
// Stock, ETF, Options and Unknown share defaultPriceSteps.
var priceSteps = map[contracts.AssetType][]step{
	contracts.AssetIndex:  {{3, 4}, {2, 3}, {1, 2}, {0.5, 1}},
	contracts.AssetCrypto: {{15, 3}, {8, 2}, {4, 1}},
}

var defaultPriceSteps = []step{{10, 3}, {5, 2}, {2, 1}}

var volumeSteps = []step{{3.0, 3}, {2.0, 2}, {1.4, 1}}

const (
	lowVolumeRatio   = 0.4
	lowVolumePenalty = -1
)

// ActivityScore rates how "active" a quote is on a 1-10 scale
func ActivityScore(q contracts.Quote) int {
	score := float64(baseScore)
	score += float64(priceContribution(q.AssetType, q.ChangePercent))
	score += float64(volumeContribution(q.Volume, q.AvgVolume))
	score += float64(proximityBonus(q.Price, q.FiftyTwoWeekHigh))

	return clamp(int(math.Round(score)), minScore, maxScore)
}

func priceContribution(assetType contracts.AssetType, changePercent float64) int {
	if !isFinite(changePercent) {
		return 0
	}
	steps, ok := priceSteps[assetType]
	if !ok {
		steps = defaultPriceSteps
	}
	return firstStep(steps, math.Abs(changePercent))
}

// VolumeRatio is volume relative to its average; 1 when there is no usable average
func VolumeRatio(volume, avgVolume float64) float64 {
	if !isFinite(volume) || !isFinite(avgVolume) || avgVolume <= 0 {
		return 1
	}
	return volume / avgVolume
}

func volumeContribution(volume, avgVolume float64) int {
	ratio := VolumeRatio(volume, avgVolume)
	if ratio < lowVolumeRatio {
		return lowVolumePenalty
	}
	return firstStep(volumeSteps, ratio)
}

func proximityBonus(price float64, high *float64) int {
	if high == nil || !isFinite(*high) || *high <= 0 || !isFinite(price) {
		return 0
	}
	if price / *high > proximityRatio {
		return 1
	}
	return 0
}

func firstStep(steps []step, v float64) int {
	for _, s := range steps {
		if v > s.above {
			return s.points
		}
	}
	return 0
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func finiteOrZero(v float64) float64 {
	if !isFinite(v) {
		return 0
	}
	return v
}
