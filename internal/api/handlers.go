package api

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/cyclecare/internal/db"
	"github.com/terraincognita07/cyclecare/internal/i18n"
	"github.com/terraincognita07/cyclecare/internal/services"
	"gorm.io/gorm"
)

const (
	defaultAuthTokenTTL  = 7 * 24 * time.Hour
	rememberAuthTokenTTL = 30 * 24 * time.Hour
	minSecretKeyLength   = 16
)

// GoalNotifier is told when a water serving crosses the daily goal.
type GoalNotifier interface {
	NotifyGoalReached(ctx context.Context, userID uint, goal int) error
}

type Options struct {
	SecretKey    string
	Location     *time.Location
	CookieSecure bool
	I18n         *i18n.Manager
	Logger       *logrus.Logger
	GoalNotifier GoalNotifier
	// HashCost overrides the bcrypt cost when positive.
	HashCost int
}

type Handler struct {
	secretKey    []byte
	location     *time.Location
	cookieSecure bool
	i18n         *i18n.Manager
	logger       *logrus.Logger
	validate     *validator.Validate
	loginLimiter *attemptLimiter
	goalNotifier GoalNotifier
	now          func() time.Time

	authService     *services.AuthService
	cycleService    *services.CycleService
	dayService      *services.DayService
	journalService  *services.JournalService
	settingsService *services.SettingsService
	statsService    *services.StatsService
	exportService   *services.ExportService
}

func NewHandler(database *gorm.DB, options Options) (*Handler, error) {
	if database == nil {
		return nil, errors.New("database is required")
	}
	if len(options.SecretKey) < minSecretKeyLength {
		return nil, errors.New("secret key is too short")
	}
	if options.I18n == nil {
		return nil, errors.New("i18n manager is required")
	}
	if options.Location == nil {
		options.Location = time.UTC
	}
	if options.Logger == nil {
		options.Logger = logrus.StandardLogger()
	}

	handler := &Handler{
		secretKey:    []byte(options.SecretKey),
		location:     options.Location,
		cookieSecure: options.CookieSecure,
		i18n:         options.I18n,
		logger:       options.Logger,
		validate:     newPayloadValidator(),
		loginLimiter: newAttemptLimiter(loginAttemptLimit, loginAttemptWindow),
		goalNotifier: options.GoalNotifier,
		now:          time.Now,
	}
	handler.withDependencies(db.NewRepositories(database))
	if options.HashCost > 0 {
		handler.authService.WithHashCost(options.HashCost)
	}
	return handler, nil
}

func (handler *Handler) withDependencies(repositories *db.Repositories) *Handler {
	handler.authService = services.NewAuthService(repositories.Users)
	handler.cycleService = services.NewCycleService(repositories.Cycles)
	handler.dayService = services.NewDayService(repositories.DailyLogs, repositories.Settings)
	handler.journalService = services.NewJournalService(repositories.Journal)
	handler.settingsService = services.NewSettingsService(repositories.Settings)
	handler.statsService = services.NewStatsService(repositories.Cycles, repositories.DailyLogs)
	handler.exportService = services.NewExportService(handler.dayService, repositories.Cycles)
	return handler
}

// SetGoalNotifier attaches the reminder service once it is running.
func (handler *Handler) SetGoalNotifier(notifier GoalNotifier) {
	handler.goalNotifier = notifier
}

func (handler *Handler) currentTime() time.Time {
	return handler.now().In(handler.location)
}
