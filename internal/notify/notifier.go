// Package notify delivers human-readable messages to chit fund members.
//
// Delivery is strictly best-effort: the cycle engine treats every failure
// here as a warning, never as a reason to roll back a ledger write.
package notify

import (
	"context"
	"time"

	"github.com/Amanshah2829/fund-manager-test/internal/models"
)

// Message is one outbound notification with enough ledger context to
// audit it later.
type Message struct {
	// Recipient is the delivery address (Telegram chat ID).
	Recipient string

	// Text is the message body. Markdown is allowed.
	Text string

	// GroupID and MemberID tie the message to ledger records; either
	// may be empty.
	GroupID  string
	MemberID string
}

// Notifier delivers one message to one recipient.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

// Noop discards every message. Used when no delivery channel is
// configured.
type Noop struct{}

func (Noop) Send(context.Context, Message) error { return nil }

// LogStore is the slice of the storage layer the logged notifier needs.
type LogStore interface {
	InsertNotificationLog(ctx context.Context, log *models.NotificationLog) error
}

// Logged wraps a Notifier so that every delivery attempt, success or
// failure, leaves an audit record. The log write itself is best-effort.
type Logged struct {
	next Notifier
	logs LogStore
}

// NewLogged wraps next so every attempt is recorded through logs.
func NewLogged(next Notifier, logs LogStore) *Logged {
	return &Logged{next: next, logs: logs}
}

func (l *Logged) Send(ctx context.Context, msg Message) error {
	err := l.next.Send(ctx, msg)

	entry := &models.NotificationLog{
		GroupID:   msg.GroupID,
		MemberID:  msg.MemberID,
		Recipient: msg.Recipient,
		Message:   msg.Text,
		Status:    models.NotificationSuccess,
		CreatedAt: time.Now().Unix(),
	}
	if err != nil {
		entry.Status = models.NotificationFailed
		entry.Error = err.Error()
	}
	// The audit write must not mask the delivery outcome; a failed log
	// write is ignored here and the delivery error, if any, returned.
	_ = l.logs.InsertNotificationLog(ctx, entry)

	return err
}
