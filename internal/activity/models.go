package activity

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/pairup/pairup/internal/zerrors"
)

// Entry is one audited RPC call
type Entry struct {
	bun.BaseModel `bun:"table:pairing_activity,alias:pa"`

	ID         string    `bun:"id,pk" json:"id"`
	Operation  string    `bun:"operation,notnull" json:"operation"` // e.g. "markCompleted"
	RecordID   *int64    `bun:"record_id" json:"recordId,omitempty"`
	Success    bool      `bun:"success,notnull,default:true" json:"success"`
	ErrorMsg   string    `bun:"error_msg" json:"errorMsg,omitempty"`
	RequestID  string    `bun:"request_id" json:"requestId,omitempty"`
	RemoteAddr string    `bun:"remote_addr" json:"remoteAddr,omitempty"`
	Timestamp  time.Time `bun:"timestamp,notnull,default:current_timestamp" json:"timestamp"`
}

// Validate checks the entry before it is written
func (e *Entry) Validate() error {
	if e.ID == "" {
		return zerrors.NewValidationError("id", e.ID, "id cannot be empty")
	}
	if e.Operation == "" {
		return zerrors.NewValidationError("operation", e.Operation, "operation cannot be empty")
	}
	if e.RecordID != nil && *e.RecordID <= 0 {
		return zerrors.NewValidationError("recordId", *e.RecordID, "recordId must be positive")
	}
	return nil
}

// Indexes are created after the activity table
var Indexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_pairing_activity_timestamp ON pairing_activity ("timestamp" DESC)`,
}
