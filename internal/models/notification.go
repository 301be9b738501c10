package models

// NotificationStatus is the outcome of one delivery attempt.
type NotificationStatus string

const (
	NotificationSuccess NotificationStatus = "success"
	NotificationFailed  NotificationStatus = "failed"
)

// NotificationLog is the audit record of one outbound message attempt.
// Every attempt is logged, success or failure; delivery failures never
// fail the ledger operation that triggered them.
type NotificationLog struct {
	// ID is the unique identifier for the log entry (UUID format).
	ID string

	// GroupID and MemberID tie the message back to ledger context.
	// Either may be empty (e.g. the admin notification has no member).
	GroupID  string
	MemberID string

	// Recipient is the delivery address (Telegram chat ID).
	Recipient string

	// Message is the text that was sent.
	Message string

	// Status records whether delivery succeeded.
	Status NotificationStatus

	// Error holds the delivery error text when Status is failed.
	Error string

	// CreatedAt is the Unix timestamp of the attempt.
	CreatedAt int64
}
