package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

const EnvPrefix = "CYCLECARE"

var insecureSecretPlaceholders = map[string]struct{}{
	"change_me_in_production":                    {},
	"replace_with_at_least_32_random_characters": {},
}

// Load reads configuration from an optional .env file, an optional config
// file and CYCLECARE_* environment variables, in increasing precedence.
func Load(configFile string) (*Config, error) {
	// A missing .env file is fine. Existing variables are never overridden.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if strings.TrimSpace(configFile) != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.Server.LogLevel = strings.ToLower(strings.TrimSpace(cfg.Server.LogLevel))
	cfg.Server.Environment = strings.ToLower(strings.TrimSpace(cfg.Server.Environment))
	cfg.Auth.SecretKey = strings.TrimSpace(cfg.Auth.SecretKey)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.timezone", "UTC")
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.cookie_secure", false)
	v.SetDefault("server.default_language", "en")

	v.SetDefault("database.path", filepath.Join("data", "cyclecare.db"))

	v.SetDefault("auth.secret_key", "")

	v.SetDefault("reminders.enabled", true)
	v.SetDefault("reminders.telegram_bot_token", "")
	v.SetDefault("reminders.hydration_spec", "0 * * * *")
	v.SetDefault("reminders.exercise_spec", "0 */3 * * *")
	v.SetDefault("reminders.period_spec", "0 9 * * *")
}

func Validate(cfg *Config) error {
	validate := validator.New()
	if err := validate.RegisterValidation("notplaceholder", notPlaceholder); err != nil {
		return fmt.Errorf("register placeholder validation: %w", err)
	}
	if err := validate.RegisterValidation("cronspec", validCronSpec); err != nil {
		return fmt.Errorf("register cron validation: %w", err)
	}

	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func notPlaceholder(field validator.FieldLevel) bool {
	_, insecure := insecureSecretPlaceholders[strings.ToLower(strings.TrimSpace(field.Field().String()))]
	return !insecure
}

func validCronSpec(field validator.FieldLevel) bool {
	_, err := cron.ParseStandard(field.Field().String())
	return err == nil
}
