package reminders

import (
	"context"

	"github.com/sirupsen/logrus"
)

// LogNotifier writes reminders to the log. It is used when no Telegram bot
// token is configured.
type LogNotifier struct {
	logger *logrus.Logger
}

func NewLogNotifier(logger *logrus.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (notifier *LogNotifier) Notify(_ context.Context, recipient Recipient, message Message) error {
	notifier.logger.WithFields(logrus.Fields{
		"user_id": recipient.UserID,
		"kind":    message.Kind,
		"title":   message.Title,
	}).Info(message.Text)
	return nil
}
