package services

import (
	"fmt"
	"math"
	"sort"

	"github.com/terraincognita07/cyclecare/internal/models"
	"gonum.org/v1/gonum/stat"
)

const (
	statsRecentLogLimit = 30
	statsTopSymptoms    = 3
)

type StatsCycleReader interface {
	ListByUser(userID uint) ([]models.Cycle, error)
}

type StatsDayReader interface {
	ListRecent(userID uint, limit int) ([]models.DailyLog, error)
}

type SymptomCount struct {
	Symptom string `json:"symptom"`
	Count   int    `json:"count"`
}

type StatsSummary struct {
	AverageCycleLength  int            `json:"average_cycle_length"`
	AveragePeriodLength int            `json:"average_period_length"`
	AverageWaterIntake  int            `json:"average_water_intake"`
	TopSymptoms         []SymptomCount `json:"top_symptoms"`
	MostCommonMood      string         `json:"most_common_mood"`
	LongestStreak       int            `json:"longest_streak"`
	CompletedCycles     int            `json:"completed_cycles"`
	TotalCycles         int            `json:"total_cycles"`
	ShowPattern         bool           `json:"show_pattern"`
	ConfidenceLevel     string         `json:"confidence_level"`
	Pattern             *CyclePattern  `json:"pattern"`
}

type StatsService struct {
	cycles StatsCycleReader
	days   StatsDayReader
}

func NewStatsService(cycles StatsCycleReader, days StatsDayReader) *StatsService {
	return &StatsService{
		cycles: cycles,
		days:   days,
	}
}

func (service *StatsService) BuildSummaryForUser(userID uint) (StatsSummary, error) {
	cycles, err := service.cycles.ListByUser(userID)
	if err != nil {
		return StatsSummary{}, fmt.Errorf("load cycles: %w", err)
	}
	logs, err := service.days.ListRecent(userID, statsRecentLogLimit)
	if err != nil {
		return StatsSummary{}, fmt.Errorf("load recent logs: %w", err)
	}
	return BuildStatsSummary(cycles, logs), nil
}

func (service *StatsService) PatternForUser(userID uint) (CyclePattern, bool, error) {
	cycles, err := service.cycles.ListByUser(userID)
	if err != nil {
		return CyclePattern{}, false, fmt.Errorf("load cycles: %w", err)
	}
	pattern, ok := AnalyzePattern(cycles)
	return pattern, ok, nil
}

// BuildStatsSummary aggregates cycle history and up to 30 recent logs.
func BuildStatsSummary(cycles []models.Cycle, recentLogs []models.DailyLog) StatsSummary {
	if len(recentLogs) > statsRecentLogLimit {
		recentLogs = recentLogs[:statsRecentLogLimit]
	}

	completed := make([]models.Cycle, 0, len(cycles))
	for _, cycle := range cycles {
		if cycle.IsComplete() {
			completed = append(completed, cycle)
		}
	}

	summary := StatsSummary{
		AverageCycleLength:  models.DefaultCycleLength,
		AveragePeriodLength: models.DefaultPeriodLength,
		TopSymptoms:         topSymptoms(recentLogs, statsTopSymptoms),
		MostCommonMood:      mostCommonMood(recentLogs),
		LongestStreak:       longestLoggingStreak(recentLogs),
		CompletedCycles:     len(completed),
		TotalCycles:         len(cycles),
		ShowPattern:         ShouldShowPatternAnalysis(cycles),
		ConfidenceLevel:     PatternConfidenceLevel(len(completed)),
	}

	if len(completed) > 0 {
		cycleLengths := make([]float64, 0, len(completed))
		periodLengths := make([]float64, 0, len(completed))
		for _, cycle := range completed {
			cycleLengths = append(cycleLengths, float64(*cycle.Length))
			periodLengths = append(periodLengths, float64(calendarDaysBetween(cycle.StartDate, *cycle.EndDate)))
		}
		summary.AverageCycleLength = int(math.Round(stat.Mean(cycleLengths, nil)))
		summary.AveragePeriodLength = int(math.Round(stat.Mean(periodLengths, nil)))
	}

	if len(recentLogs) > 0 {
		water := make([]float64, 0, len(recentLogs))
		for _, entry := range recentLogs {
			water = append(water, float64(entry.WaterIntake))
		}
		summary.AverageWaterIntake = int(math.Round(stat.Mean(water, nil)))
	}

	if pattern, ok := AnalyzePattern(cycles); ok {
		summary.Pattern = &pattern
	}
	return summary
}

// topSymptoms ranks by count, breaking ties by catalogue order.
func topSymptoms(logs []models.DailyLog, limit int) []SymptomCount {
	counts := make(map[string]int)
	for _, entry := range logs {
		for _, symptom := range entry.Symptoms {
			counts[symptom]++
		}
	}

	rank := catalogueRank(models.Symptoms())
	ranked := make([]SymptomCount, 0, len(counts))
	for symptom, count := range counts {
		ranked = append(ranked, SymptomCount{Symptom: symptom, Count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return rankOf(rank, ranked[i].Symptom) < rankOf(rank, ranked[j].Symptom)
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func mostCommonMood(logs []models.DailyLog) string {
	counts := make(map[string]int)
	for _, entry := range logs {
		if entry.Mood != "" {
			counts[entry.Mood]++
		}
	}

	best := ""
	bestCount := 0
	for _, mood := range models.Moods() {
		if counts[mood] > bestCount {
			best = mood
			bestCount = counts[mood]
		}
	}
	return best
}

// longestLoggingStreak counts consecutive calendar days that carry a mood or
// at least one symptom.
func longestLoggingStreak(logs []models.DailyLog) int {
	logged := make([]models.DailyLog, 0, len(logs))
	for _, entry := range logs {
		if entry.Mood != "" || len(entry.Symptoms) > 0 {
			logged = append(logged, entry)
		}
	}
	sort.Slice(logged, func(i, j int) bool {
		return logged[i].Date.Before(logged[j].Date)
	})

	longest := 0
	current := 0
	for index, entry := range logged {
		if index > 0 && calendarDaysBetween(logged[index-1].Date, entry.Date) == 1 {
			current++
		} else {
			current = 1
		}
		if current > longest {
			longest = current
		}
	}
	return longest
}

func catalogueRank(values []string) map[string]int {
	rank := make(map[string]int, len(values))
	for index, value := range values {
		rank[value] = index
	}
	return rank
}

func rankOf(rank map[string]int, value string) int {
	if position, ok := rank[value]; ok {
		return position
	}
	return len(rank)
}
