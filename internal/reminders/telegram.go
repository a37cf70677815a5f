package reminders

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// TelegramStartKey is the message key of the /start reply.
const TelegramStartKey = "reminder.telegram.start"

type messageSender interface {
	Send(to telebot.Recipient, what interface{}, opts ...interface{}) (*telebot.Message, error)
}

// TelegramNotifier delivers reminders as direct bot messages to the chat ID
// stored in each user's settings.
type TelegramNotifier struct {
	sender messageSender
	bot    *telebot.Bot
	logger *logrus.Entry
}

func NewTelegramNotifier(token string, logger *logrus.Logger) (*TelegramNotifier, error) {
	entry := logger.WithField("component", "telegram")
	bot, err := telebot.NewBot(telebot.Settings{
		Token:  token,
		Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c telebot.Context) {
			fields := logrus.Fields{}
			if c != nil && c.Chat() != nil {
				fields["chat_id"] = c.Chat().ID
			}
			entry.WithFields(fields).WithError(err).Warn("telegram update failed")
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return &TelegramNotifier{sender: bot, bot: bot, logger: entry}, nil
}

func (notifier *TelegramNotifier) Notify(ctx context.Context, recipient Recipient, message Message) error {
	if recipient.ChatID == 0 {
		return ErrRecipientUnreachable
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	text := message.Text
	if message.Title != "" {
		text = message.Title + "\n" + message.Text
	}
	if _, err := notifier.sender.Send(&telebot.User{ID: recipient.ChatID}, text, &telebot.SendOptions{}); err != nil {
		return fmt.Errorf("send %s reminder to user %d: %w", message.Kind, recipient.UserID, err)
	}
	return nil
}

// Listen answers /start with the chat ID users paste into their settings,
// until ctx is cancelled.
func (notifier *TelegramNotifier) Listen(ctx context.Context, reply func(chatID int64) string) {
	if notifier.bot == nil {
		return
	}

	notifier.bot.Handle("/start", func(c telebot.Context) error {
		chatID := c.Chat().ID
		notifier.logger.WithField("chat_id", chatID).Info("telegram /start received")
		return c.Send(reply(chatID))
	})

	go notifier.bot.Start()
	go func() {
		<-ctx.Done()
		notifier.bot.Stop()
	}()
}
