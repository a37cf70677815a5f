package db

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/terraincognita07/cyclecare/internal/models"
)

func mustRepositoryDay(t *testing.T, raw string) time.Time {
	t.Helper()
	parsed, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
	if err != nil {
		t.Fatalf("parse day %q: %v", raw, err)
	}
	return parsed
}

func newRepositoriesForTest(t *testing.T) *Repositories {
	t.Helper()
	database := openSQLiteForTest(t, filepath.Join(t.TempDir(), "cyclecare-repos.db"))
	return NewRepositories(database)
}

func createUserForTest(t *testing.T, repos *Repositories, email string) models.User {
	t.Helper()
	user := models.User{Email: email, PasswordHash: "hash", CreatedAt: time.Now().UTC()}
	if err := repos.Users.CreateWithSettings(&user); err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return user
}

func countActiveCyclesForTest(t *testing.T, repos *Repositories, userID uint) int {
	t.Helper()
	cycles, err := repos.Cycles.ListByUser(userID)
	if err != nil {
		t.Fatalf("list cycles: %v", err)
	}
	active := 0
	for _, cycle := range cycles {
		if cycle.IsActive {
			active++
		}
	}
	return active
}

func TestCreateWithSettingsStoresDefaults(t *testing.T) {
	repos := newRepositoriesForTest(t)
	user := createUserForTest(t, repos, "defaults@example.com")

	settings, found, err := repos.Settings.FindByUserID(user.ID)
	if err != nil {
		t.Fatalf("load settings: %v", err)
	}
	if !found {
		t.Fatal("expected settings row to be created with the user")
	}
	if !settings.NotificationsEnabled || settings.ReminderDays != 7 || settings.WaterGoal != 3000 || settings.Theme != "pink" || settings.CycleLength != 28 {
		t.Fatalf("unexpected default settings: %+v", settings)
	}

	exists, err := repos.Users.ExistsByNormalizedEmail("defaults@example.com")
	if err != nil || !exists {
		t.Fatalf("expected normalized email lookup to find user, exists=%v err=%v", exists, err)
	}
}

func TestCreateWithSettingsRejectsDuplicateNormalizedEmail(t *testing.T) {
	repos := newRepositoriesForTest(t)
	createUserForTest(t, repos, "dup@example.com")

	duplicate := models.User{Email: " DUP@example.com ", PasswordHash: "hash", CreatedAt: time.Now().UTC()}
	if err := repos.Users.CreateWithSettings(&duplicate); err == nil {
		t.Fatal("expected unique normalized email index to reject duplicate")
	}

	count, err := repos.Users.CountUsers()
	if err != nil {
		t.Fatalf("count users: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 user after rejected duplicate, got %d", count)
	}
}

func TestStartCycleKeepsSingleActiveCycle(t *testing.T) {
	repos := newRepositoriesForTest(t)
	user := createUserForTest(t, repos, "cycles@example.com")

	first := models.Cycle{UserID: user.ID, StartDate: mustRepositoryDay(t, "2024-01-01")}
	if err := repos.Cycles.StartCycle(&first, nil); err != nil {
		t.Fatalf("start first cycle: %v", err)
	}

	closed := 0
	second := models.Cycle{UserID: user.ID, StartDate: mustRepositoryDay(t, "2024-01-29")}
	if err := repos.Cycles.StartCycle(&second, func(previous *models.Cycle) {
		closed++
		length := 28
		previous.Length = &length
	}); err != nil {
		t.Fatalf("start second cycle: %v", err)
	}

	if closed != 1 {
		t.Fatalf("expected close callback to run once, got %d", closed)
	}

	if activeCount := countActiveCyclesForTest(t, repos, user.ID); activeCount != 1 {
		t.Fatalf("expected exactly one active cycle, got %d", activeCount)
	}

	active, found, err := repos.Cycles.FindActive(user.ID)
	if err != nil || !found {
		t.Fatalf("find active cycle: found=%v err=%v", found, err)
	}
	if active.ID != second.ID {
		t.Fatalf("expected second cycle to be active, got id %d", active.ID)
	}

	previous, found, err := repos.Cycles.FindByUserAndID(user.ID, first.ID)
	if err != nil || !found {
		t.Fatalf("load previous cycle: found=%v err=%v", found, err)
	}
	if previous.IsActive {
		t.Fatal("expected previous cycle to be deactivated")
	}
	if previous.Length == nil || *previous.Length != 28 {
		t.Fatalf("expected previous cycle length 28, got %v", previous.Length)
	}
}

func TestCycleRepositoryScopesByOwner(t *testing.T) {
	repos := newRepositoriesForTest(t)
	owner := createUserForTest(t, repos, "owner@example.com")
	stranger := createUserForTest(t, repos, "stranger@example.com")

	cycle := models.Cycle{UserID: owner.ID, StartDate: mustRepositoryDay(t, "2024-03-01")}
	if err := repos.Cycles.StartCycle(&cycle, nil); err != nil {
		t.Fatalf("start cycle: %v", err)
	}

	if _, found, err := repos.Cycles.FindByUserAndID(stranger.ID, cycle.ID); err != nil || found {
		t.Fatalf("expected stranger lookup to miss, found=%v err=%v", found, err)
	}
	deleted, err := repos.Cycles.DeleteByUserAndID(stranger.ID, cycle.ID)
	if err != nil {
		t.Fatalf("delete as stranger: %v", err)
	}
	if deleted {
		t.Fatal("expected stranger delete to affect no rows")
	}

	deleted, err = repos.Cycles.DeleteByUserAndID(owner.ID, cycle.ID)
	if err != nil || !deleted {
		t.Fatalf("expected owner delete to succeed, deleted=%v err=%v", deleted, err)
	}
}

func TestDailyLogRepositoryRoundTripsSymptoms(t *testing.T) {
	repos := newRepositoriesForTest(t)
	user := createUserForTest(t, repos, "logs@example.com")

	day := mustRepositoryDay(t, "2024-02-10")
	entry := models.DailyLog{
		UserID:      user.ID,
		Date:        day,
		WaterIntake: 750,
		Mood:        models.MoodTired,
		Symptoms:    []string{models.SymptomCramps, models.SymptomFatigue},
	}
	if err := repos.DailyLogs.Create(&entry); err != nil {
		t.Fatalf("create daily log: %v", err)
	}

	loaded, found, err := repos.DailyLogs.FindByUserAndDayRange(user.ID, day, day.AddDate(0, 0, 1))
	if err != nil || !found {
		t.Fatalf("find daily log: found=%v err=%v", found, err)
	}
	if loaded.WaterIntake != 750 || loaded.Mood != models.MoodTired {
		t.Fatalf("unexpected daily log: %+v", loaded)
	}
	if len(loaded.Symptoms) != 2 || loaded.Symptoms[0] != models.SymptomCramps {
		t.Fatalf("expected symptoms to round-trip, got %v", loaded.Symptoms)
	}

	recent, err := repos.DailyLogs.ListRecent(user.ID, 30)
	if err != nil {
		t.Fatalf("list recent logs: %v", err)
	}
	if len(recent) != 1 {
		t.Fatalf("expected 1 recent log, got %d", len(recent))
	}
}

func TestDeleteAccountRemovesRelatedData(t *testing.T) {
	repos := newRepositoriesForTest(t)
	user := createUserForTest(t, repos, "gone@example.com")

	cycle := models.Cycle{UserID: user.ID, StartDate: mustRepositoryDay(t, "2024-01-01")}
	if err := repos.Cycles.StartCycle(&cycle, nil); err != nil {
		t.Fatalf("start cycle: %v", err)
	}
	entry := models.JournalEntry{UserID: user.ID, Date: mustRepositoryDay(t, "2024-01-02"), Content: "note"}
	if err := repos.Journal.Create(&entry); err != nil {
		t.Fatalf("create journal entry: %v", err)
	}

	if err := repos.Users.DeleteAccountAndRelatedData(user.ID); err != nil {
		t.Fatalf("delete account: %v", err)
	}

	if _, found, _ := repos.Users.FindByID(user.ID); found {
		t.Fatal("expected user to be deleted")
	}
	cycles, err := repos.Cycles.ListByUser(user.ID)
	if err != nil {
		t.Fatalf("list cycles: %v", err)
	}
	if len(cycles) != 0 {
		t.Fatalf("expected cycles to be deleted, got %d", len(cycles))
	}
	if _, found, _ := repos.Settings.FindByUserID(user.ID); found {
		t.Fatal("expected settings to be deleted")
	}
}
