package config

import "time"

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	Auth      AuthConfig      `mapstructure:"auth" validate:"required"`
	Reminders RemindersConfig `mapstructure:"reminders" validate:"required"`
}

type ServerConfig struct {
	Port            int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	Timezone        string `mapstructure:"timezone" validate:"required,timezone"`
	LogLevel        string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	Environment     string `mapstructure:"environment" validate:"required,oneof=development staging production"`
	CookieSecure    bool   `mapstructure:"cookie_secure"`
	DefaultLanguage string `mapstructure:"default_language" validate:"required,oneof=en ru"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

type AuthConfig struct {
	SecretKey string `mapstructure:"secret_key" validate:"required,min=32,notplaceholder"`
}

// RemindersConfig controls the background reminder jobs. Specs use the
// standard five-field cron syntax.
type RemindersConfig struct {
	Enabled          bool   `mapstructure:"enabled"`
	TelegramBotToken string `mapstructure:"telegram_bot_token"`
	HydrationSpec    string `mapstructure:"hydration_spec" validate:"required,cronspec"`
	ExerciseSpec     string `mapstructure:"exercise_spec" validate:"required,cronspec"`
	PeriodSpec       string `mapstructure:"period_spec" validate:"required,cronspec"`
}

// Location resolves the configured timezone, falling back to UTC.
func (cfg *Config) Location() *time.Location {
	location, err := time.LoadLocation(cfg.Server.Timezone)
	if err != nil {
		return time.UTC
	}
	return location
}

func (cfg *Config) IsProduction() bool {
	return cfg.Server.Environment == "production"
}
