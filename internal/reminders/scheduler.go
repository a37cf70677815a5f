package reminders

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/cyclecare/internal/models"
	"github.com/terraincognita07/cyclecare/internal/services"
)

const (
	hydrationMessageCount = 6
	exerciseMessageCount  = 5
	maxTrackedDeliveries  = 500
	defaultJobTimeout     = time.Minute
)

type Translator interface {
	Translate(language string, key string) string
	Translatef(language string, key string, args ...any) string
}

type RecipientSource interface {
	ListNotificationRecipients() ([]models.UserSettings, error)
	FindByUserID(userID uint) (models.UserSettings, bool, error)
}

type WaterSource interface {
	FetchLogByDate(userID uint, day time.Time) (models.DailyLog, error)
}

type PredictionSource interface {
	Prediction(userID uint, cycleLength int, now time.Time) (services.CyclePrediction, bool, error)
}

type Options struct {
	Location      *time.Location
	Language      string
	HydrationSpec string
	ExerciseSpec  string
	PeriodSpec    string
	JobTimeout    time.Duration
}

// Scheduler owns the cron engine and the entry of every reminder job it
// registered. Jobs can be replaced or cleared while the engine runs.
type Scheduler struct {
	engine      *cron.Cron
	notifier    Notifier
	translator  Translator
	recipients  RecipientSource
	water       WaterSource
	predictions PredictionSource
	options     Options
	logger      *logrus.Entry

	now  func() time.Time
	pick func(n int) int

	mu      sync.Mutex
	entries map[Kind]cron.EntryID
	sent    map[string]time.Time
}

func NewScheduler(
	notifier Notifier,
	translator Translator,
	recipients RecipientSource,
	water WaterSource,
	predictions PredictionSource,
	options Options,
	logger *logrus.Logger,
) *Scheduler {
	if options.Location == nil {
		options.Location = time.UTC
	}
	if options.JobTimeout <= 0 {
		options.JobTimeout = defaultJobTimeout
	}

	return &Scheduler{
		engine:      cron.New(cron.WithLocation(options.Location)),
		notifier:    notifier,
		translator:  translator,
		recipients:  recipients,
		water:       water,
		predictions: predictions,
		options:     options,
		logger:      logger.WithField("component", "reminders"),
		now:         time.Now,
		pick:        rand.Intn,
		entries:     make(map[Kind]cron.EntryID),
		sent:        make(map[string]time.Time),
	}
}

// Start registers every job that has a spec and starts the engine.
func (scheduler *Scheduler) Start() error {
	if scheduler.options.HydrationSpec != "" {
		if err := scheduler.ScheduleHydration(scheduler.options.HydrationSpec); err != nil {
			return err
		}
	}
	if scheduler.options.ExerciseSpec != "" {
		if err := scheduler.ScheduleExercise(scheduler.options.ExerciseSpec); err != nil {
			return err
		}
	}
	if scheduler.options.PeriodSpec != "" {
		if err := scheduler.SchedulePeriod(scheduler.options.PeriodSpec); err != nil {
			return err
		}
	}

	scheduler.engine.Start()
	scheduler.logger.WithField("jobs", len(scheduler.entries)).Info("reminder scheduler started")
	return nil
}

// Stop halts the engine and waits for running jobs to finish.
func (scheduler *Scheduler) Stop() {
	ctx := scheduler.engine.Stop()
	<-ctx.Done()
	scheduler.logger.Info("reminder scheduler stopped")
}

func (scheduler *Scheduler) ScheduleHydration(spec string) error {
	return scheduler.schedule(KindHydration, spec, scheduler.RunHydration)
}

func (scheduler *Scheduler) ClearHydration() {
	scheduler.clear(KindHydration)
}

func (scheduler *Scheduler) ScheduleExercise(spec string) error {
	return scheduler.schedule(KindExercise, spec, scheduler.RunExercise)
}

func (scheduler *Scheduler) ClearExercise() {
	scheduler.clear(KindExercise)
}

func (scheduler *Scheduler) SchedulePeriod(spec string) error {
	return scheduler.schedule(KindPeriod, spec, scheduler.RunPeriod)
}

func (scheduler *Scheduler) ClearPeriod() {
	scheduler.clear(KindPeriod)
}

// Scheduled reports whether a job of the given kind is registered.
func (scheduler *Scheduler) Scheduled(kind Kind) bool {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	_, ok := scheduler.entries[kind]
	return ok
}

func (scheduler *Scheduler) schedule(kind Kind, spec string, job func(ctx context.Context) error) error {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()

	entryID, err := scheduler.engine.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), scheduler.options.JobTimeout)
		defer cancel()
		if err := job(ctx); err != nil {
			scheduler.logger.WithField("kind", kind).WithError(err).Error("reminder job failed")
		}
	})
	if err != nil {
		return fmt.Errorf("schedule %s reminders: %w", kind, err)
	}

	if previous, ok := scheduler.entries[kind]; ok {
		scheduler.engine.Remove(previous)
	}
	scheduler.entries[kind] = entryID
	return nil
}

func (scheduler *Scheduler) clear(kind Kind) {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()

	if entryID, ok := scheduler.entries[kind]; ok {
		scheduler.engine.Remove(entryID)
		delete(scheduler.entries, kind)
	}
}

// RunHydration nudges every opted-in user whose intake today is below the
// daily goal.
func (scheduler *Scheduler) RunHydration(ctx context.Context) error {
	recipients, err := scheduler.recipients.ListNotificationRecipients()
	if err != nil {
		return fmt.Errorf("load reminder recipients: %w", err)
	}

	today := scheduler.today()
	for _, settings := range recipients {
		if err := ctx.Err(); err != nil {
			return err
		}

		entry, err := scheduler.water.FetchLogByDate(settings.UserID, today)
		if err != nil {
			scheduler.logger.WithField("user_id", settings.UserID).WithError(err).Warn("load water intake failed")
			continue
		}
		if entry.WaterIntake >= settingsWaterGoal(settings) {
			continue
		}

		scheduler.deliver(ctx, settings, scheduler.randomMessage(KindHydration, hydrationMessageCount))
	}
	return nil
}

func (scheduler *Scheduler) RunExercise(ctx context.Context) error {
	recipients, err := scheduler.recipients.ListNotificationRecipients()
	if err != nil {
		return fmt.Errorf("load reminder recipients: %w", err)
	}

	for _, settings := range recipients {
		if err := ctx.Err(); err != nil {
			return err
		}
		scheduler.deliver(ctx, settings, scheduler.randomMessage(KindExercise, exerciseMessageCount))
	}
	return nil
}

// RunPeriod sends the upcoming-period reminder when the predicted start is
// exactly the user's reminder lead time away, and the fertile-window notice on
// its first day. Each is delivered at most once per user per day.
func (scheduler *Scheduler) RunPeriod(ctx context.Context) error {
	recipients, err := scheduler.recipients.ListNotificationRecipients()
	if err != nil {
		return fmt.Errorf("load reminder recipients: %w", err)
	}

	now := scheduler.now().In(scheduler.options.Location)
	today := scheduler.today()
	language := scheduler.options.Language
	for _, settings := range recipients {
		if err := ctx.Err(); err != nil {
			return err
		}

		prediction, found, err := scheduler.predictions.Prediction(settings.UserID, settings.CycleLength, now)
		if err != nil {
			scheduler.logger.WithField("user_id", settings.UserID).WithError(err).Warn("load cycle prediction failed")
			continue
		}
		if !found {
			continue
		}

		if prediction.DaysUntilPeriod == settings.ReminderDays && scheduler.shouldSend(deliveryKey(KindPeriod, settings.UserID, today), today) {
			scheduler.deliver(ctx, settings, Message{
				Kind:  KindPeriod,
				Title: scheduler.translator.Translate(language, "reminder.period.title"),
				Text: scheduler.translator.Translatef(language, "reminder.period.body",
					prediction.DaysUntilPeriod,
					services.DateKey(prediction.NextPeriodDate),
				),
			})
		}

		if services.DateKey(prediction.FertileWindowStart) == services.DateKey(today) &&
			scheduler.shouldSend(deliveryKey(KindFertility, settings.UserID, today), today) {
			scheduler.deliver(ctx, settings, Message{
				Kind:  KindFertility,
				Title: scheduler.translator.Translate(language, "reminder.fertility.title"),
				Text:  scheduler.translator.Translatef(language, "reminder.fertility.body", services.DateKey(prediction.FertileWindowStart)),
			})
		}
	}
	return nil
}

// NotifyGoalReached congratulates the user once per day on reaching the water
// goal. Users who turned notifications off are skipped.
func (scheduler *Scheduler) NotifyGoalReached(ctx context.Context, userID uint, goal int) error {
	settings, found, err := scheduler.recipients.FindByUserID(userID)
	if err != nil {
		return fmt.Errorf("load reminder settings: %w", err)
	}
	if !found || !settings.NotificationsEnabled {
		return nil
	}

	today := scheduler.today()
	if !scheduler.shouldSend(deliveryKey(KindGoalReached, userID, today), today) {
		return nil
	}

	language := scheduler.options.Language
	scheduler.deliver(ctx, settings, Message{
		Kind:  KindGoalReached,
		Title: scheduler.translator.Translate(language, "reminder.goal_reached.title"),
		Text:  scheduler.translator.Translatef(language, "reminder.goal_reached.body", goal),
	})
	return nil
}

func (scheduler *Scheduler) deliver(ctx context.Context, settings models.UserSettings, message Message) {
	recipient := Recipient{UserID: settings.UserID, ChatID: settings.TelegramChatID}
	err := scheduler.notifier.Notify(ctx, recipient, message)
	switch {
	case err == nil:
	case errors.Is(err, ErrRecipientUnreachable):
		scheduler.logger.WithField("user_id", settings.UserID).Debug("reminder skipped: no delivery address")
	default:
		scheduler.logger.WithFields(logrus.Fields{
			"user_id": settings.UserID,
			"kind":    message.Kind,
		}).WithError(err).Warn("send reminder failed")
	}
}

func (scheduler *Scheduler) randomMessage(kind Kind, count int) Message {
	language := scheduler.options.Language
	prefix := "reminder." + string(kind)
	index := scheduler.pick(count) + 1
	return Message{
		Kind:  kind,
		Title: scheduler.translator.Translate(language, prefix+".title"),
		Text:  scheduler.translator.Translate(language, prefix+"."+strconv.Itoa(index)),
	}
}

func (scheduler *Scheduler) shouldSend(key string, today time.Time) bool {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()

	if sentOn, ok := scheduler.sent[key]; ok && sentOn.Equal(today) {
		return false
	}

	if len(scheduler.sent) >= maxTrackedDeliveries {
		for trackedKey, sentOn := range scheduler.sent {
			if !sentOn.Equal(today) {
				delete(scheduler.sent, trackedKey)
			}
		}
	}
	scheduler.sent[key] = today
	return true
}

// MessageKeys lists every message key the reminders translate.
func MessageKeys() []string {
	keys := []string{"reminder.hydration.title"}
	for index := 1; index <= hydrationMessageCount; index++ {
		keys = append(keys, "reminder.hydration."+strconv.Itoa(index))
	}
	keys = append(keys, "reminder.exercise.title")
	for index := 1; index <= exerciseMessageCount; index++ {
		keys = append(keys, "reminder.exercise."+strconv.Itoa(index))
	}
	return append(keys,
		"reminder.period.title",
		"reminder.period.body",
		"reminder.fertility.title",
		"reminder.fertility.body",
		"reminder.goal_reached.title",
		"reminder.goal_reached.body",
		TelegramStartKey,
	)
}

func (scheduler *Scheduler) today() time.Time {
	return services.DateAtLocation(scheduler.now(), scheduler.options.Location)
}

func deliveryKey(kind Kind, userID uint, today time.Time) string {
	return fmt.Sprintf("%s:%d:%s", kind, userID, services.DateKey(today))
}

func settingsWaterGoal(settings models.UserSettings) int {
	if settings.WaterGoal <= 0 {
		return models.DefaultWaterGoalML
	}
	return settings.WaterGoal
}
