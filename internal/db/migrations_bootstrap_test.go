package db

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/glebarez/sqlite"
	embeddedmigrations "github.com/terraincognita07/cyclecare/migrations"
	"gorm.io/gorm"
)

func TestOpenSQLiteAppliesEmbeddedMigrationsOnCleanDatabase(t *testing.T) {
	database := openSQLiteForTest(t, filepath.Join(t.TempDir(), "cyclecare-clean.db"))

	for _, table := range []string{"users", "cycles", "daily_logs", "journal_entries", "user_settings"} {
		if !database.Migrator().HasTable(table) {
			t.Fatalf("expected table %s to exist after migrations", table)
		}
	}

	columns := loadTableColumns(t, database, "user_settings")
	if _, exists := columns["telegram_chat_id"]; !exists {
		t.Fatal("expected user_settings.telegram_chat_id column to exist after migrations")
	}

	assertNormalizedEmailIndexExists(t, database)
	assertAllEmbeddedMigrationsApplied(t, database)
}

func TestOpenSQLiteSkipsColumnsAddedOutsideMigrations(t *testing.T) {
	databasePath := filepath.Join(t.TempDir(), "cyclecare-legacy.db")
	seedLegacySchema(t, databasePath)

	database := openSQLiteForTest(t, databasePath)

	assertAllEmbeddedMigrationsApplied(t, database)

	var chatID int64
	if err := database.Raw(`SELECT telegram_chat_id FROM user_settings WHERE user_id = ?`, 1).Scan(&chatID).Error; err != nil {
		t.Fatalf("load legacy chat id: %v", err)
	}
	if chatID != 4242 {
		t.Fatalf("expected legacy telegram_chat_id to survive, got %d", chatID)
	}
}

func TestOpenSQLiteMigrationBootstrapIsIdempotent(t *testing.T) {
	databasePath := filepath.Join(t.TempDir(), "cyclecare-idempotent.db")

	firstOpen, err := OpenSQLite(databasePath)
	if err != nil {
		t.Fatalf("first open sqlite: %v", err)
	}
	firstRecords, err := ListAppliedMigrations(firstOpen)
	if err != nil {
		t.Fatalf("list first migration records: %v", err)
	}

	firstSQLDB, err := firstOpen.DB()
	if err != nil {
		t.Fatalf("first open sql db: %v", err)
	}
	if err := firstSQLDB.Close(); err != nil {
		t.Fatalf("close first sql db: %v", err)
	}

	secondOpen := openSQLiteForTest(t, databasePath)
	secondRecords, err := ListAppliedMigrations(secondOpen)
	if err != nil {
		t.Fatalf("list second migration records: %v", err)
	}

	if !reflect.DeepEqual(firstRecords, secondRecords) {
		t.Fatalf("expected migration records to remain unchanged between boots, before=%v after=%v", firstRecords, secondRecords)
	}
}

func TestApplyMigrationsRejectsDuplicateVersions(t *testing.T) {
	database := openBareSQLiteForTest(t)
	source := fstest.MapFS{
		"001_first.sql":  {Data: []byte("CREATE TABLE first_table (id INTEGER)")},
		"001_second.sql": {Data: []byte("CREATE TABLE second_table (id INTEGER)")},
	}

	if _, err := ApplyMigrations(database, source); err == nil || !strings.Contains(err.Error(), "duplicate migration version") {
		t.Fatalf("expected duplicate version error, got %v", err)
	}
}

func TestApplyMigrationsRejectsEmptyMigration(t *testing.T) {
	database := openBareSQLiteForTest(t)
	source := fstest.MapFS{
		"001_empty.sql": {Data: []byte("  ;  ")},
	}

	_, err := ApplyMigrations(database, source)
	if !errors.Is(err, ErrEmptyMigration) {
		t.Fatalf("expected ErrEmptyMigration, got %v", err)
	}
}

func TestApplyMigrationsRunsInVersionOrderAndIgnoresOtherFiles(t *testing.T) {
	database := openBareSQLiteForTest(t)
	source := fstest.MapFS{
		"010_add_column.sql": {Data: []byte("ALTER TABLE widgets ADD COLUMN color TEXT")},
		"002_widgets.sql":    {Data: []byte("CREATE TABLE widgets (id INTEGER PRIMARY KEY)")},
		"README.md":          {Data: []byte("not a migration")},
	}

	applied, err := ApplyMigrations(database, source)
	if err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	if !reflect.DeepEqual(applied, []string{"002_widgets.sql", "010_add_column.sql"}) {
		t.Fatalf("unexpected applied migrations order: %v", applied)
	}

	again, err := ApplyMigrations(database, source)
	if err != nil {
		t.Fatalf("reapply migrations: %v", err)
	}
	if len(again) != 0 {
		t.Fatalf("expected no migrations on second run, got %v", again)
	}
}

func TestSplitSQLStatements(t *testing.T) {
	statements := splitSQLStatements("CREATE TABLE a (id INTEGER);\n\n ; CREATE INDEX b ON a(id);  ")
	expected := []string{"CREATE TABLE a (id INTEGER)", "CREATE INDEX b ON a(id)"}
	if !reflect.DeepEqual(statements, expected) {
		t.Fatalf("expected %v, got %v", expected, statements)
	}
}

func openSQLiteForTest(t *testing.T, databasePath string) *gorm.DB {
	t.Helper()

	database, err := OpenSQLite(databasePath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return database
}

func openBareSQLiteForTest(t *testing.T) *gorm.DB {
	t.Helper()

	databasePath := filepath.Join(t.TempDir(), "bare.db")
	database, err := gorm.Open(sqlite.Open(databasePath), &gorm.Config{})
	if err != nil {
		t.Fatalf("open bare sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open bare sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return database
}

func seedLegacySchema(t *testing.T, databasePath string) {
	t.Helper()

	dsn := fmt.Sprintf("%s?_foreign_keys=on&_busy_timeout=5000", databasePath)
	database, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open legacy sqlite: %v", err)
	}

	initSQL, err := fs.ReadFile(embeddedmigrations.Files, "001_init.sql")
	if err != nil {
		t.Fatalf("read 001 migration: %v", err)
	}
	for _, statement := range splitSQLStatements(string(initSQL)) {
		if err := database.Exec(statement).Error; err != nil {
			t.Fatalf("apply legacy statement %q: %v", statement, err)
		}
	}

	statements := []string{
		`ALTER TABLE user_settings ADD COLUMN telegram_chat_id INTEGER NOT NULL DEFAULT 0`,
		`INSERT INTO users (id, email, password_hash, created_at) VALUES (1, 'legacy@example.com', 'legacy-hash', CURRENT_TIMESTAMP)`,
		`INSERT INTO user_settings (user_id, telegram_chat_id) VALUES (1, 4242)`,
	}
	for _, statement := range statements {
		if err := database.Exec(statement).Error; err != nil {
			t.Fatalf("seed legacy data %q: %v", statement, err)
		}
	}

	if database.Migrator().HasTable("schema_migrations") {
		t.Fatal("expected legacy schema to not have schema_migrations table")
	}

	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open legacy sql db: %v", err)
	}
	if err := sqlDB.Close(); err != nil {
		t.Fatalf("close legacy sql db: %v", err)
	}
}

func assertNormalizedEmailIndexExists(t *testing.T, database *gorm.DB) {
	t.Helper()

	var indexSQL string
	if err := database.Raw(`SELECT sql FROM sqlite_master WHERE type = 'index' AND name = ?`, "idx_users_email_normalized").Scan(&indexSQL).Error; err != nil {
		t.Fatalf("load normalized email index: %v", err)
	}
	definition := strings.ToLower(strings.Join(strings.Fields(indexSQL), ""))
	if !strings.Contains(definition, "lower(trim(email))") {
		t.Fatalf("expected normalized email index to use lower(trim(email)), got %q", indexSQL)
	}
}

func assertAllEmbeddedMigrationsApplied(t *testing.T, database *gorm.DB) {
	t.Helper()

	expected, err := readMigrations(embeddedmigrations.Files)
	if err != nil {
		t.Fatalf("read embedded migrations: %v", err)
	}
	records, err := ListAppliedMigrations(database)
	if err != nil {
		t.Fatalf("list applied migrations: %v", err)
	}
	if len(records) != len(expected) {
		t.Fatalf("expected %d applied migrations, got %d", len(expected), len(records))
	}
	for index, migration := range expected {
		if records[index].Version != migration.Version || records[index].Name != migration.Name {
			t.Fatalf("migration %d: expected %s (%s), got %s (%s)", index, migration.Name, migration.Version, records[index].Name, records[index].Version)
		}
	}
}

func loadTableColumns(t *testing.T, database *gorm.DB, table string) map[string]struct{} {
	t.Helper()

	columns := make([]tableColumn, 0)
	if err := database.Raw(fmt.Sprintf(`PRAGMA table_info("%s")`, table)).Scan(&columns).Error; err != nil {
		t.Fatalf("load table_info for %s: %v", table, err)
	}
	result := make(map[string]struct{}, len(columns))
	for _, column := range columns {
		result[column.Name] = struct{}{}
	}
	return result
}
