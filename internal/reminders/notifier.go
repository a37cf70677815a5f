package reminders

import (
	"context"
	"errors"
)

type Kind string

const (
	KindHydration   Kind = "hydration"
	KindExercise    Kind = "exercise"
	KindPeriod      Kind = "period"
	KindFertility   Kind = "fertility"
	KindGoalReached Kind = "goal_reached"
)

// ErrRecipientUnreachable is returned by notifiers that have no delivery
// address for the recipient.
var ErrRecipientUnreachable = errors.New("recipient has no delivery address")

type Recipient struct {
	UserID uint
	ChatID int64
}

type Message struct {
	Kind  Kind
	Title string
	Text  string
}

type Notifier interface {
	Notify(ctx context.Context, recipient Recipient, message Message) error
}
