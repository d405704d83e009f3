package rpc

import (
	"github.com/pairup/pairup/internal/activity"
	"github.com/pairup/pairup/internal/zerrors"
)

// Validator is implemented by every request message
type Validator interface {
	Validate() error
}

// EmptyRequest is the input of procedures that take no arguments. Any JSON
// object, or no body at all, is accepted.
type EmptyRequest struct{}

func (EmptyRequest) Validate() error { return nil }

// RecordIDRequest is the input of markCompleted and undoCompleted
type RecordIDRequest struct {
	ID *int64 `json:"id"`
}

func (r *RecordIDRequest) Validate() error {
	if r.ID == nil {
		return zerrors.NewValidationError("id", nil, "id is required")
	}
	return nil
}

// ListActivityRequest is the input of listActivity
type ListActivityRequest struct {
	Limit *int `json:"limit"`
}

func (r *ListActivityRequest) Validate() error {
	if r.Limit == nil {
		return nil
	}
	if *r.Limit < 1 || *r.Limit > activity.MaxListLimit {
		return zerrors.NewValidationError("limit", *r.Limit, "limit must be between 1 and 500")
	}
	return nil
}

// HealthResponse is returned by the health procedure and GET /health
type HealthResponse struct {
	Status        string            `json:"status"`
	Timestamp     string            `json:"timestamp"`
	UptimeSeconds float64           `json:"uptimeSeconds"`
	Services      map[string]string `json:"services"`
}

// RemindersResponse is returned by getReminders
type RemindersResponse struct {
	ReminderIdentifiers []string `json:"reminderIdentifiers"`
}

// ErrorResponse is the body of every non-2xx reply
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}
