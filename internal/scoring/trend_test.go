package scoring

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wonny/pulse/internal/contracts"
)

func TestClassifyTrend(t *testing.T) {
	tests := []struct {
		name   string
		change float64
		want   contracts.Trend
	}{
		{"small positive is flat", 0.05, contracts.TrendFlat},
		{"above threshold is up", 0.15, contracts.TrendUp},
		{"below negative threshold is down", -0.2, contracts.TrendDown},
		{"exact positive threshold is flat", 0.1, contracts.TrendFlat},
		{"exact negative threshold is flat", -0.1, contracts.TrendFlat},
		{"zero", 0, contracts.TrendFlat},
		{"large rally", 12.5, contracts.TrendUp},
		{"NaN", math.NaN(), contracts.TrendFlat},
		{"+Inf", math.Inf(1), contracts.TrendFlat},
		{"-Inf", math.Inf(-1), contracts.TrendFlat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyTrend(tt.change))
		})
	}
}
