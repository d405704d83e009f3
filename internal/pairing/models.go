package pairing

import (
	"time"

	"github.com/pairup/pairup/internal/history"
	"github.com/pairup/pairup/internal/users"
	"github.com/pairup/pairup/internal/zerrors"
)

// TimestampLayout is RFC 3339 with millisecond precision, matching what browsers emit
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Pairing is the API-facing view of a pair of users
type Pairing struct {
	User1               users.User `json:"user1"`
	User2               users.User `json:"user2"`
	Timestamp           string     `json:"timestamp"`
	ReminderIdentifiers []string   `json:"reminderIdentifiers"`
}

// RecordWithReminders is the result of a completion toggle
type RecordWithReminders struct {
	Record              *history.Record `json:"record"`
	ReminderIdentifiers []string        `json:"reminderIdentifiers"`
}

// FormatTimestamp renders t in TimestampLayout, in UTC
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// Validate checks the pairing shape before it leaves the service boundary
func (p *Pairing) Validate() error {
	if err := p.User1.Validate(); err != nil {
		return zerrors.NewValidationErrorWithCause("user1", p.User1.Name, "invalid user", err)
	}
	if err := p.User2.Validate(); err != nil {
		return zerrors.NewValidationErrorWithCause("user2", p.User2.Name, "invalid user", err)
	}
	if p.User1.Identifier != "" && p.User1.Identifier == p.User2.Identifier {
		return zerrors.NewValidationError("user2", p.User2.Identifier, "a user cannot be paired with itself")
	}
	if _, err := time.Parse(time.RFC3339, p.Timestamp); err != nil {
		return zerrors.NewValidationErrorWithCause("timestamp", p.Timestamp, "timestamp must be RFC 3339", err)
	}
	if p.ReminderIdentifiers == nil {
		return zerrors.NewValidationError("reminderIdentifiers", nil, "reminderIdentifiers must be present")
	}
	return nil
}

// Validate checks the toggle result; a nil record is allowed
func (r *RecordWithReminders) Validate() error {
	if r.Record != nil {
		if err := r.Record.Validate(); err != nil {
			return err
		}
	}
	if r.ReminderIdentifiers == nil {
		return zerrors.NewValidationError("reminderIdentifiers", nil, "reminderIdentifiers must be present")
	}
	return nil
}

func newPairingFromRecord(record *history.Record, reminders []string) *Pairing {
	first, second := record.Participants()
	return &Pairing{
		User1:               first,
		User2:               second,
		Timestamp:           FormatTimestamp(record.CreatedAt),
		ReminderIdentifiers: reminders,
	}
}
