package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validTestSecret = "0123456789abcdef0123456789abcdef"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CYCLECARE_AUTH_SECRET_KEY", validTestSecret)
	t.Setenv("CYCLECARE_SERVER_PORT", "")
	t.Setenv("CYCLECARE_SERVER_LOG_LEVEL", "")

	cfg, err := Load("")

	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, "development", cfg.Server.Environment)
	assert.Equal(t, "en", cfg.Server.DefaultLanguage)
	assert.Equal(t, filepath.Join("data", "cyclecare.db"), cfg.Database.Path)
	assert.True(t, cfg.Reminders.Enabled)
	assert.Equal(t, "0 * * * *", cfg.Reminders.HydrationSpec)
	assert.Equal(t, "0 */3 * * *", cfg.Reminders.ExerciseSpec)
	assert.Equal(t, "0 9 * * *", cfg.Reminders.PeriodSpec)
	assert.False(t, cfg.IsProduction())
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("CYCLECARE_AUTH_SECRET_KEY", validTestSecret)
	t.Setenv("CYCLECARE_SERVER_PORT", "9090")
	t.Setenv("CYCLECARE_SERVER_LOG_LEVEL", "DEBUG")
	t.Setenv("CYCLECARE_SERVER_ENVIRONMENT", "production")
	t.Setenv("CYCLECARE_SERVER_COOKIE_SECURE", "true")
	t.Setenv("CYCLECARE_SERVER_TIMEZONE", "Europe/Berlin")
	t.Setenv("CYCLECARE_REMINDERS_ENABLED", "false")

	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.True(t, cfg.Server.CookieSecure)
	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.Reminders.Enabled)
	assert.Equal(t, "Europe/Berlin", cfg.Location().String())
}

func TestLoadRejectsInsecureSecrets(t *testing.T) {
	testCases := []struct {
		name   string
		secret string
	}{
		{name: "empty", secret: ""},
		{name: "too short", secret: "too-short-secret"},
		{name: "placeholder", secret: "change_me_in_production"},
		{name: "example placeholder", secret: "replace_with_at_least_32_random_characters"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Setenv("CYCLECARE_AUTH_SECRET_KEY", testCase.secret)

			cfg, err := Load("")

			require.Error(t, err)
			assert.Nil(t, cfg)
		})
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	testCases := []struct {
		name  string
		key   string
		value string
	}{
		{name: "port out of range", key: "CYCLECARE_SERVER_PORT", value: "70000"},
		{name: "unknown log level", key: "CYCLECARE_SERVER_LOG_LEVEL", value: "verbose"},
		{name: "unknown language", key: "CYCLECARE_SERVER_DEFAULT_LANGUAGE", value: "de"},
		{name: "bad cron spec", key: "CYCLECARE_REMINDERS_HYDRATION_SPEC", value: "every hour"},
		{name: "bad timezone", key: "CYCLECARE_SERVER_TIMEZONE", value: "Mars/Olympus"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Setenv("CYCLECARE_AUTH_SECRET_KEY", validTestSecret)
			t.Setenv(testCase.key, testCase.value)

			_, err := Load("")

			require.Error(t, err)
		})
	}
}

func TestLoadReadsConfigFile(t *testing.T) {
	t.Setenv("CYCLECARE_AUTH_SECRET_KEY", validTestSecret)
	t.Setenv("CYCLECARE_SERVER_PORT", "")

	configPath := filepath.Join(t.TempDir(), "cyclecare.json")
	content := []byte(`{"server": {"port": 7070}, "database": {"path": "/tmp/cyclecare-test.db"}}`)
	require.NoError(t, os.WriteFile(configPath, content, 0o600))

	cfg, err := Load(configPath)

	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "/tmp/cyclecare-test.db", cfg.Database.Path)
}

func TestLoadFailsOnMissingConfigFile(t *testing.T) {
	t.Setenv("CYCLECARE_AUTH_SECRET_KEY", validTestSecret)

	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))

	require.Error(t, err)
}
