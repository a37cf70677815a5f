package main

import (
	"context"
	"fmt"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/terraincognita07/cyclecare/internal/api"
	"github.com/terraincognita07/cyclecare/internal/config"
	"github.com/terraincognita07/cyclecare/internal/db"
	"github.com/terraincognita07/cyclecare/internal/i18n"
	"github.com/terraincognita07/cyclecare/internal/logging"
	"github.com/terraincognita07/cyclecare/internal/reminders"
	"github.com/terraincognita07/cyclecare/internal/services"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

// server bundles everything serve starts and stops.
type server struct {
	app       *fiber.App
	scheduler *reminders.Scheduler
	telegram  *reminders.TelegramNotifier
	i18n      *i18n.Manager
	language  string
	logger    *logrus.Logger
}

func runServe(cmd *cobra.Command, configFile string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	logger := logging.Init(cfg.Server.LogLevel, cfg.Server.Environment)

	database, err := db.OpenSQLite(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}
	defer closeDatabase(database)

	srv, err := newServer(cfg, database, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return srv.run(ctx, ":"+strconv.Itoa(cfg.Server.Port))
}

func newServer(cfg *config.Config, database *gorm.DB, logger *logrus.Logger) (*server, error) {
	location := cfg.Location()

	i18nManager, err := i18n.NewManager(cfg.Server.DefaultLanguage)
	if err != nil {
		return nil, fmt.Errorf("i18n init failed: %w", err)
	}

	handler, err := api.NewHandler(database, api.Options{
		SecretKey:    cfg.Auth.SecretKey,
		Location:     location,
		CookieSecure: cfg.Server.CookieSecure,
		I18n:         i18nManager,
		Logger:       logger,
	})
	if err != nil {
		return nil, fmt.Errorf("handler init failed: %w", err)
	}

	srv := &server{
		app:      api.NewApp(handler, logger),
		i18n:     i18nManager,
		language: i18nManager.DefaultLanguage(),
		logger:   logger,
	}
	if !cfg.Reminders.Enabled {
		logger.Info("reminders disabled")
		return srv, nil
	}

	notifier, telegram, err := buildNotifier(cfg.Reminders.TelegramBotToken, logger)
	if err != nil {
		return nil, err
	}
	srv.telegram = telegram

	repositories := db.NewRepositories(database)
	srv.scheduler = reminders.NewScheduler(
		notifier,
		i18nManager,
		repositories.Settings,
		services.NewDayService(repositories.DailyLogs, repositories.Settings),
		services.NewCycleService(repositories.Cycles),
		reminders.Options{
			Location:      location,
			Language:      srv.language,
			HydrationSpec: cfg.Reminders.HydrationSpec,
			ExerciseSpec:  cfg.Reminders.ExerciseSpec,
			PeriodSpec:    cfg.Reminders.PeriodSpec,
		},
		logger,
	)
	handler.SetGoalNotifier(srv.scheduler)

	messages := i18nManager.Messages(srv.language)
	for _, key := range reminders.MessageKeys() {
		if _, ok := messages[key]; !ok {
			logger.WithField("key", key).Warn("reminder message has no translation")
		}
	}
	return srv, nil
}

// buildNotifier delivers through Telegram when a bot token is configured and
// falls back to the log otherwise.
func buildNotifier(token string, logger *logrus.Logger) (reminders.Notifier, *reminders.TelegramNotifier, error) {
	if token == "" {
		logger.Info("no telegram bot token configured, reminders go to the log")
		return reminders.NewLogNotifier(logger), nil, nil
	}
	telegram, err := reminders.NewTelegramNotifier(token, logger)
	if err != nil {
		return nil, nil, err
	}
	return telegram, telegram, nil
}

func (srv *server) run(ctx context.Context, address string) error {
	if srv.scheduler != nil {
		if err := srv.scheduler.Start(); err != nil {
			return err
		}
		defer srv.scheduler.Stop()
	}
	if srv.telegram != nil {
		srv.telegram.Listen(ctx, func(chatID int64) string {
			return srv.i18n.Translatef(srv.language, reminders.TelegramStartKey, chatID)
		})
	}

	listenErr := make(chan error, 1)
	go func() {
		srv.logger.WithField("address", address).Info("cyclecare listening")
		listenErr <- srv.app.Listen(address)
	}()

	select {
	case err := <-listenErr:
		return err
	case <-ctx.Done():
	}

	srv.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.app.ShutdownWithContext(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}
