package scoring

import (
	"math"

	"github.com/wonny/pulse/internal/contracts"
)

// Risk rule thresholds (percent / multiples of average volume)
const (
	volatileMove    = 10.0
	highMove        = 5.0
	mediumMove      = 2.0
	volumeSpikeMult = 1.5
)

// Risk reasons shown on the card
const (
	ReasonExtremeMove  = "Extreme price movement (>10%)"
	ReasonSignificant  = "Significant price movement (>5%)"
	ReasonVolumeSpike  = "Unusual high volume detected"
	ReasonModerateMove = "Moderate price fluctuation"
)

// AssessRisk classifies a quote into a risk tier; the first matching rule wins.
// A zero or missing average volume disables the volume-spike rule.
func AssessRisk(q contracts.Quote) contracts.RiskAssessment {
	absChange := math.Abs(finiteOrZero(q.ChangePercent))
	volume := finiteOrZero(q.Volume)
	avgVolume := finiteOrZero(q.AvgVolume)

	switch {
	case absChange > volatileMove:
		return contracts.RiskAssessment{Level: contracts.RiskVolatile, Reason: ReasonExtremeMove}
	case absChange > highMove:
		return contracts.RiskAssessment{Level: contracts.RiskHigh, Reason: ReasonSignificant}
	case avgVolume > 0 && volume > avgVolume*volumeSpikeMult:
		return contracts.RiskAssessment{Level: contracts.RiskHigh, Reason: ReasonVolumeSpike}
	case absChange > mediumMove:
		return contracts.RiskAssessment{Level: contracts.RiskMedium, Reason: ReasonModerateMove}
	default:
		return contracts.RiskAssessment{Level: contracts.RiskLow}
	}
}
