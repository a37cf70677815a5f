package services

import (
	"math"

	"github.com/terraincognita07/cyclecare/internal/models"
	"gonum.org/v1/gonum/stat"
)

type Regularity string

const (
	RegularityVeryRegular       Regularity = "very_regular"
	RegularityRegular           Regularity = "regular"
	RegularitySomewhatIrregular Regularity = "somewhat_irregular"
	RegularityIrregular         Regularity = "irregular"
)

type Trend string

const (
	TrendStable         Trend = "stable"
	TrendGettingShorter Trend = "getting_shorter"
	TrendGettingLonger  Trend = "getting_longer"
	TrendImproving      Trend = "improving"
)

const (
	minPatternCycles     = 2
	recentTrendWindow    = 3
	trendShiftDays       = 2.0
	improvingMaxVariance = 3.0
	improvingMinCycles   = 4
)

type CyclePattern struct {
	AverageLength int              `json:"average_length"`
	Variation     float64          `json:"variation"`
	Regularity    Regularity       `json:"regularity"`
	Trend         Trend            `json:"trend"`
	CycleCount    int              `json:"cycle_count"`
	Insights      []PatternInsight `json:"insights"`
}

// CompleteCycleLengths returns the lengths of cycles that have both an end
// date and a length, in input order.
func CompleteCycleLengths(cycles []models.Cycle) []float64 {
	lengths := make([]float64, 0, len(cycles))
	for _, cycle := range cycles {
		if cycle.IsComplete() {
			lengths = append(lengths, float64(*cycle.Length))
		}
	}
	return lengths
}

// AnalyzePattern summarizes complete cycles. It reports false when fewer than
// two complete cycles are available.
func AnalyzePattern(cycles []models.Cycle) (CyclePattern, bool) {
	lengths := CompleteCycleLengths(cycles)
	if len(lengths) < minPatternCycles {
		return CyclePattern{}, false
	}

	mean, variation := stat.PopMeanStdDev(lengths, nil)
	regularity := classifyRegularity(variation)
	trend := detectTrend(lengths, variation)

	return CyclePattern{
		AverageLength: int(math.Round(mean)),
		Variation:     math.Round(variation*10) / 10,
		Regularity:    regularity,
		Trend:         trend,
		CycleCount:    len(lengths),
		Insights:      generateInsights(mean, variation, regularity, trend, len(lengths)),
	}, true
}

func ShouldShowPatternAnalysis(cycles []models.Cycle) bool {
	return len(CompleteCycleLengths(cycles)) >= minPatternCycles
}

func PatternConfidenceLevel(cycleCount int) string {
	switch {
	case cycleCount >= 6:
		return "High"
	case cycleCount >= 4:
		return "Good"
	case cycleCount >= 2:
		return "Building"
	default:
		return "Insufficient"
	}
}

func classifyRegularity(variation float64) Regularity {
	switch {
	case variation <= 2:
		return RegularityVeryRegular
	case variation <= 4:
		return RegularityRegular
	case variation <= 7:
		return RegularitySomewhatIrregular
	default:
		return RegularityIrregular
	}
}

// detectTrend compares the last three lengths against everything before them.
func detectTrend(lengths []float64, variation float64) Trend {
	if len(lengths) <= recentTrendWindow {
		return TrendStable
	}

	split := len(lengths) - recentTrendWindow
	olderAvg := stat.Mean(lengths[:split], nil)
	recentAvg := stat.Mean(lengths[split:], nil)

	switch {
	case recentAvg < olderAvg-trendShiftDays:
		return TrendGettingShorter
	case recentAvg > olderAvg+trendShiftDays:
		return TrendGettingLonger
	case variation < improvingMaxVariance && len(lengths) >= improvingMinCycles:
		return TrendImproving
	default:
		return TrendStable
	}
}
