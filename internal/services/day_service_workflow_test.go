package services

import (
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/terraincognita07/cyclecare/internal/models"
)

type dayLogRepositoryStub struct {
	entries        map[string]models.DailyLog
	nextID         uint
	findErrByDay   map[string]error
	createErrByDay map[string]error
	saveErrByDay   map[string]error
}

func newDayLogRepositoryStub() *dayLogRepositoryStub {
	return &dayLogRepositoryStub{
		entries:        make(map[string]models.DailyLog),
		nextID:         1,
		findErrByDay:   make(map[string]error),
		createErrByDay: make(map[string]error),
		saveErrByDay:   make(map[string]error),
	}
}

func (stub *dayLogRepositoryStub) key(userID uint, value time.Time) string {
	return fmt.Sprintf("%d/%s", userID, value.Format("2006-01-02"))
}

func (stub *dayLogRepositoryStub) sorted(userID uint, keep func(models.DailyLog) bool) []models.DailyLog {
	logs := make([]models.DailyLog, 0)
	for _, entry := range stub.entries {
		if entry.UserID == userID && keep(entry) {
			logs = append(logs, entry)
		}
	}
	sort.Slice(logs, func(i, j int) bool {
		return logs[i].Date.Before(logs[j].Date)
	})
	return logs
}

func (stub *dayLogRepositoryStub) ListByUserRange(userID uint, fromStart *time.Time, toEnd *time.Time) ([]models.DailyLog, error) {
	return stub.sorted(userID, func(entry models.DailyLog) bool {
		if fromStart != nil && entry.Date.Before(*fromStart) {
			return false
		}
		return toEnd == nil || entry.Date.Before(*toEnd)
	}), nil
}

func (stub *dayLogRepositoryStub) ListRecent(userID uint, limit int) ([]models.DailyLog, error) {
	logs := stub.sorted(userID, func(models.DailyLog) bool { return true })
	for left, right := 0, len(logs)-1; left < right; left, right = left+1, right-1 {
		logs[left], logs[right] = logs[right], logs[left]
	}
	if len(logs) > limit {
		logs = logs[:limit]
	}
	return logs, nil
}

func (stub *dayLogRepositoryStub) FindByUserAndDayRange(userID uint, dayStart time.Time, dayEnd time.Time) (models.DailyLog, bool, error) {
	if err, ok := stub.findErrByDay[dayStart.Format("2006-01-02")]; ok {
		return models.DailyLog{}, false, err
	}
	entry, ok := stub.entries[stub.key(userID, dayStart)]
	if !ok || entry.Date.Before(dayStart) || !entry.Date.Before(dayEnd) {
		return models.DailyLog{}, false, nil
	}
	return entry, true, nil
}

func (stub *dayLogRepositoryStub) Create(entry *models.DailyLog) error {
	if err, ok := stub.createErrByDay[entry.Date.Format("2006-01-02")]; ok {
		return err
	}
	if entry.ID == 0 {
		entry.ID = stub.nextID
		stub.nextID++
	}
	stub.entries[stub.key(entry.UserID, entry.Date)] = *entry
	return nil
}

func (stub *dayLogRepositoryStub) Save(entry *models.DailyLog) error {
	if err, ok := stub.saveErrByDay[entry.Date.Format("2006-01-02")]; ok {
		return err
	}
	stub.entries[stub.key(entry.UserID, entry.Date)] = *entry
	return nil
}

func (stub *dayLogRepositoryStub) DeleteByUserAndDayRange(userID uint, dayStart time.Time, dayEnd time.Time) error {
	for key, entry := range stub.entries {
		if entry.UserID != userID || entry.Date.Before(dayStart) || !entry.Date.Before(dayEnd) {
			continue
		}
		delete(stub.entries, key)
	}
	return nil
}

type daySettingsRepositoryStub struct {
	settings models.UserSettings
	found    bool
	err      error
}

func (stub *daySettingsRepositoryStub) FindByUserID(uint) (models.UserSettings, bool, error) {
	return stub.settings, stub.found, stub.err
}

func TestUpsertDayEntryCreatesThenUpdatesSingleLog(t *testing.T) {
	logs := newDayLogRepositoryStub()
	service := NewDayService(logs, nil)
	day := time.Date(2026, time.February, 20, 18, 45, 0, 0, time.UTC)
	water := 500

	created, err := service.UpsertDayEntry(10, day, DayEntryInput{
		WaterIntake: &water,
		Mood:        models.MoodTired,
		Symptoms:    []string{models.SymptomCramps},
		Notes:       "first",
	})
	if err != nil {
		t.Fatalf("UpsertDayEntry create returned error: %v", err)
	}
	if DateKey(created.Date) != "2026-02-20" || created.Date.Hour() != 0 {
		t.Fatalf("expected log stored at 2026-02-20 midnight, got %s", created.Date)
	}

	updated, err := service.UpsertDayEntry(10, day.Add(-6*time.Hour), DayEntryInput{Mood: models.MoodHappy, Notes: "second"})
	if err != nil {
		t.Fatalf("UpsertDayEntry update returned error: %v", err)
	}
	if updated.ID != created.ID {
		t.Fatalf("expected same log id %d, got %d", created.ID, updated.ID)
	}
	if updated.WaterIntake != 500 {
		t.Fatalf("expected water intake to be kept when omitted, got %d", updated.WaterIntake)
	}
	if updated.Mood != models.MoodHappy || updated.Notes != "second" || len(updated.Symptoms) != 0 {
		t.Fatalf("expected replaced fields, got %+v", updated)
	}
	if len(logs.entries) != 1 {
		t.Fatalf("expected one stored log, got %d", len(logs.entries))
	}
}

func TestUpsertDayEntryMapsStorageErrors(t *testing.T) {
	logs := newDayLogRepositoryStub()
	service := NewDayService(logs, nil)
	day := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	logs.findErrByDay["2026-03-01"] = errors.New("boom")
	if _, err := service.UpsertDayEntry(1, day, DayEntryInput{}); !errors.Is(err, ErrDayEntryLoadFailed) {
		t.Fatalf("expected ErrDayEntryLoadFailed, got %v", err)
	}
	delete(logs.findErrByDay, "2026-03-01")

	logs.createErrByDay["2026-03-01"] = errors.New("boom")
	if _, err := service.UpsertDayEntry(1, day, DayEntryInput{}); !errors.Is(err, ErrDayEntryCreateFailed) {
		t.Fatalf("expected ErrDayEntryCreateFailed, got %v", err)
	}
}

func TestFetchLogByDateReturnsEmptyDefault(t *testing.T) {
	service := NewDayService(newDayLogRepositoryStub(), nil)

	entry, err := service.FetchLogByDate(3, time.Date(2026, time.April, 2, 9, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("FetchLogByDate returned error: %v", err)
	}
	if entry.ID != 0 || entry.UserID != 3 || DateKey(entry.Date) != "2026-04-02" {
		t.Fatalf("unexpected default entry %+v", entry)
	}
	if entry.Symptoms == nil {
		t.Fatalf("expected non-nil empty symptoms")
	}
}

func TestAddWaterReportsGoalCrossingOnce(t *testing.T) {
	logs := newDayLogRepositoryStub()
	settings := &daySettingsRepositoryStub{settings: models.UserSettings{WaterGoal: 1000}, found: true}
	service := NewDayService(logs, settings)
	day := time.Date(2026, time.May, 5, 0, 0, 0, 0, time.UTC)

	steps := []struct {
		amount      int
		wantTotal   int
		wantReached bool
	}{
		{amount: 600, wantTotal: 600, wantReached: false},
		{amount: 400, wantTotal: 1000, wantReached: true},
		{amount: 250, wantTotal: 1250, wantReached: false},
	}

	for index, step := range steps {
		update, err := service.AddWater(7, day, step.amount)
		if err != nil {
			t.Fatalf("step %d: AddWater returned error: %v", index, err)
		}
		if update.Log.WaterIntake != step.wantTotal {
			t.Fatalf("step %d: expected total %d, got %d", index, step.wantTotal, update.Log.WaterIntake)
		}
		if update.GoalReached != step.wantReached {
			t.Fatalf("step %d: expected goal reached %v, got %v", index, step.wantReached, update.GoalReached)
		}
		if update.Goal != 1000 {
			t.Fatalf("step %d: expected goal 1000, got %d", index, update.Goal)
		}
	}
}

func TestAddWaterValidatesServingAndFallsBackToDefaultGoal(t *testing.T) {
	service := NewDayService(newDayLogRepositoryStub(), &daySettingsRepositoryStub{})
	day := time.Date(2026, time.May, 5, 0, 0, 0, 0, time.UTC)

	for _, amount := range []int{0, -100, MaxWaterServingML + 1} {
		if _, err := service.AddWater(1, day, amount); !errors.Is(err, ErrInvalidWaterServing) {
			t.Fatalf("amount %d: expected ErrInvalidWaterServing, got %v", amount, err)
		}
	}

	update, err := service.AddWater(1, day, 250)
	if err != nil {
		t.Fatalf("AddWater returned error: %v", err)
	}
	if update.Goal != models.DefaultWaterGoalML {
		t.Fatalf("expected default goal %d, got %d", models.DefaultWaterGoalML, update.Goal)
	}
}

func TestFetchLogsForRangeAndDeleteDay(t *testing.T) {
	logs := newDayLogRepositoryStub()
	service := NewDayService(logs, nil)
	for _, day := range []int{1, 2, 3, 10} {
		if _, err := service.UpsertDayEntry(4, time.Date(2026, time.June, day, 0, 0, 0, 0, time.UTC), DayEntryInput{Notes: "x"}); err != nil {
			t.Fatalf("UpsertDayEntry returned error: %v", err)
		}
	}
	if _, err := service.UpsertDayEntry(5, time.Date(2026, time.June, 2, 0, 0, 0, 0, time.UTC), DayEntryInput{Notes: "other"}); err != nil {
		t.Fatalf("UpsertDayEntry returned error: %v", err)
	}

	from := time.Date(2026, time.June, 2, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, time.June, 3, 23, 0, 0, 0, time.UTC)
	ranged, err := service.FetchLogsForRange(4, &from, &to)
	if err != nil {
		t.Fatalf("FetchLogsForRange returned error: %v", err)
	}
	if len(ranged) != 2 || DateKey(ranged[0].Date) != "2026-06-02" || DateKey(ranged[1].Date) != "2026-06-03" {
		t.Fatalf("expected logs for June 2 and 3, got %+v", ranged)
	}

	if _, err := service.FetchLogsForRange(4, &to, &from); !errors.Is(err, ErrInvalidDayRange) {
		t.Fatalf("expected ErrInvalidDayRange for reversed range, got %v", err)
	}

	if err := service.DeleteDay(4, from); err != nil {
		t.Fatalf("DeleteDay returned error: %v", err)
	}
	remaining, _ := service.FetchLogsForRange(4, nil, nil)
	if len(remaining) != 3 {
		t.Fatalf("expected 3 remaining logs, got %d", len(remaining))
	}
	other, _ := service.FetchLogsForRange(5, nil, nil)
	if len(other) != 1 {
		t.Fatalf("expected other user's log to survive, got %d", len(other))
	}
}
