package services

import "math"

type InsightType string

const (
	InsightTypeRegular   InsightType = "regular"
	InsightTypeIrregular InsightType = "irregular"
	InsightTypeShort     InsightType = "short"
	InsightTypeLong      InsightType = "long"
	InsightTypeImproving InsightType = "improving"
)

const (
	InsightRegularCycles       = "regular-cycles"
	InsightIrregularCycles     = "irregular-cycles"
	InsightShortCycles         = "short-cycles"
	InsightLongCycles          = "long-cycles"
	InsightImprovingRegularity = "improving-regularity"
	InsightStrongData          = "strong-data"
	InsightBuildingData        = "building-data"
)

const (
	shortCycleThreshold = 21
	longCycleThreshold  = 35
	strongDataCycles    = 6
	buildingDataCycles  = 3
)

// PatternInsight is one rule-triggered observation. Title, Description and
// Recommendation hold message keys until the presentation layer localizes
// them; DescriptionArgs feed the description template.
type PatternInsight struct {
	ID              string      `json:"id"`
	Type            InsightType `json:"type"`
	Title           string      `json:"title"`
	Description     string      `json:"description"`
	Icon            string      `json:"icon"`
	Confidence      int         `json:"confidence"`
	Recommendation  string      `json:"recommendation,omitempty"`
	DescriptionArgs []any       `json:"-"`
}

func newInsight(id string, insightType InsightType, icon string, confidence int, args ...any) PatternInsight {
	prefix := "insight." + id
	return PatternInsight{
		ID:              id,
		Type:            insightType,
		Title:           prefix + ".title",
		Description:     prefix + ".description",
		Icon:            icon,
		Confidence:      confidence,
		Recommendation:  prefix + ".recommendation",
		DescriptionArgs: args,
	}
}

// generateInsights evaluates the rules in a fixed order: regularity, length,
// trend, data volume.
func generateInsights(averageLength float64, variation float64, regularity Regularity, trend Trend, cycleCount int) []PatternInsight {
	insights := make([]PatternInsight, 0, 4)

	switch regularity {
	case RegularityVeryRegular:
		insights = append(insights, newInsight(InsightRegularCycles, InsightTypeRegular, "chart-bar", 95, math.Round(variation*10)/10))
	case RegularityRegular:
		insights = append(insights, newInsight(InsightRegularCycles, InsightTypeRegular, "chart-bar", 85, math.Round(variation*10)/10))
	case RegularityIrregular:
		insights = append(insights, newInsight(InsightIrregularCycles, InsightTypeIrregular, "trending-up", 70, math.Round(variation*10)/10))
	}

	roundedLength := int(math.Round(averageLength))
	if averageLength < shortCycleThreshold {
		insights = append(insights, newInsight(InsightShortCycles, InsightTypeShort, "clock", 80, roundedLength))
	} else if averageLength > longCycleThreshold {
		insights = append(insights, newInsight(InsightLongCycles, InsightTypeLong, "calendar", 80, roundedLength))
	}

	if trend == TrendImproving {
		insights = append(insights, newInsight(InsightImprovingRegularity, InsightTypeImproving, "trending-up", 85))
	}

	if cycleCount >= strongDataCycles {
		insights = append(insights, newInsight(InsightStrongData, InsightTypeRegular, "database", 90, cycleCount))
	} else if cycleCount >= buildingDataCycles {
		insights = append(insights, newInsight(InsightBuildingData, InsightTypeImproving, "refresh", 70, cycleCount))
	}

	return insights
}
