package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/terraincognita07/cyclecare/internal/models"
)

var ExportCSVHeaders = []string{
	"Date",
	"Period",
	"Water (ml)",
	"Mood",
	"Cramps",
	"Bloating",
	"Headache",
	"Nausea",
	"Acne",
	"Mood swings",
	"Fatigue",
	"Breast tenderness",
	"Cravings",
	"Notes",
}

type ExportDayReader interface {
	FetchLogsForRange(userID uint, from *time.Time, to *time.Time) ([]models.DailyLog, error)
}

type ExportCycleReader interface {
	ListByUser(userID uint) ([]models.Cycle, error)
}

type ExportService struct {
	days   ExportDayReader
	cycles ExportCycleReader
}

type ExportSummary struct {
	TotalEntries int    `json:"total_entries"`
	HasData      bool   `json:"has_data"`
	DateFrom     string `json:"date_from"`
	DateTo       string `json:"date_to"`
}

type ExportJSONEntry struct {
	Date        string   `json:"date"`
	Period      bool     `json:"period"`
	WaterIntake int      `json:"water_intake"`
	Mood        string   `json:"mood"`
	Symptoms    []string `json:"symptoms"`
	Notes       string   `json:"notes"`
}

type ExportCSVRow struct {
	Date        string
	Period      bool
	WaterIntake int
	Mood        string
	Symptoms    map[string]bool
	Notes       string
}

func NewExportService(days ExportDayReader, cycles ExportCycleReader) *ExportService {
	return &ExportService{
		days:   days,
		cycles: cycles,
	}
}

func (service *ExportService) loadDataForRange(userID uint, from *time.Time, to *time.Time) ([]models.DailyLog, PeriodDateSet, error) {
	logs, err := service.days.FetchLogsForRange(userID, from, to)
	if err != nil {
		return nil, nil, fmt.Errorf("load export logs: %w", err)
	}
	cycles, err := service.cycles.ListByUser(userID)
	if err != nil {
		return nil, nil, fmt.Errorf("load export cycles: %w", err)
	}
	return logs, ExpandPeriodDates(cycles), nil
}

func (service *ExportService) BuildSummary(userID uint, from *time.Time, to *time.Time) (ExportSummary, error) {
	logs, err := service.days.FetchLogsForRange(userID, from, to)
	if err != nil {
		return ExportSummary{}, fmt.Errorf("load export logs: %w", err)
	}
	if len(logs) == 0 {
		return ExportSummary{}, nil
	}

	first := logs[0].Date
	last := logs[0].Date
	for _, logEntry := range logs[1:] {
		if logEntry.Date.Before(first) {
			first = logEntry.Date
		}
		if logEntry.Date.After(last) {
			last = logEntry.Date
		}
	}

	return ExportSummary{
		TotalEntries: len(logs),
		HasData:      true,
		DateFrom:     DateKey(first),
		DateTo:       DateKey(last),
	}, nil
}

func (service *ExportService) BuildJSONEntries(userID uint, from *time.Time, to *time.Time) ([]ExportJSONEntry, error) {
	logs, periodDays, err := service.loadDataForRange(userID, from, to)
	if err != nil {
		return nil, err
	}

	entries := make([]ExportJSONEntry, 0, len(logs))
	for _, logEntry := range logs {
		symptoms := logEntry.Symptoms
		if symptoms == nil {
			symptoms = []string{}
		}
		entries = append(entries, ExportJSONEntry{
			Date:        DateKey(logEntry.Date),
			Period:      periodDays.Contains(logEntry.Date),
			WaterIntake: logEntry.WaterIntake,
			Mood:        logEntry.Mood,
			Symptoms:    symptoms,
			Notes:       logEntry.Notes,
		})
	}
	return entries, nil
}

func (service *ExportService) BuildCSVRows(userID uint, from *time.Time, to *time.Time) ([]ExportCSVRow, error) {
	logs, periodDays, err := service.loadDataForRange(userID, from, to)
	if err != nil {
		return nil, err
	}

	rows := make([]ExportCSVRow, 0, len(logs))
	for _, logEntry := range logs {
		flags := make(map[string]bool, len(logEntry.Symptoms))
		for _, symptom := range logEntry.Symptoms {
			flags[symptom] = true
		}
		rows = append(rows, ExportCSVRow{
			Date:        DateKey(logEntry.Date),
			Period:      periodDays.Contains(logEntry.Date),
			WaterIntake: logEntry.WaterIntake,
			Mood:        logEntry.Mood,
			Symptoms:    flags,
			Notes:       logEntry.Notes,
		})
	}
	return rows, nil
}

// Columns renders the row in ExportCSVHeaders order.
func (row ExportCSVRow) Columns() []string {
	columns := []string{
		row.Date,
		csvYesNo(row.Period),
		strconv.Itoa(row.WaterIntake),
		csvMoodLabel(row.Mood),
	}
	for _, symptom := range models.Symptoms() {
		columns = append(columns, csvYesNo(row.Symptoms[symptom]))
	}
	return append(columns, row.Notes)
}

func csvYesNo(value bool) string {
	if value {
		return "Yes"
	}
	return "No"
}

func csvMoodLabel(mood string) string {
	if mood == "" {
		return ""
	}
	return strings.ToUpper(mood[:1]) + mood[1:]
}
