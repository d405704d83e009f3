package activity

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pairup/pairup/internal/zerrors"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 500

	asyncRecordTimeout = 5 * time.Second
)

// Recorder writes and reads the activity log
type Recorder struct {
	store   Store
	logger  *zap.Logger
	now     func() time.Time
	pending sync.WaitGroup
}

// NewRecorder creates a new activity recorder
func NewRecorder(store Store, logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Record assigns an id and timestamp when missing, validates and persists entry
func (r *Recorder) Record(ctx context.Context, entry *Entry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = r.now().UTC()
	}

	if err := entry.Validate(); err != nil {
		r.logger.Warn("Rejected invalid activity entry",
			zap.String("operation", entry.Operation),
			zap.Error(err))
		return err
	}

	if err := r.store.Create(ctx, entry); err != nil {
		r.logger.Warn("Failed to record activity",
			zap.String("operation", entry.Operation),
			zap.String("request_id", entry.RequestID),
			zap.Error(err))
		return err
	}
	return nil
}

// RecordAsync records entry in the background. Failures are logged by Record.
// Use Wait to drain outstanding writes before closing the store.
func (r *Recorder) RecordAsync(entry *Entry) {
	r.pending.Add(1)
	go func() {
		defer r.pending.Done()

		ctx, cancel := context.WithTimeout(context.Background(), asyncRecordTimeout)
		defer cancel()

		_ = r.Record(ctx, entry)
	}()
}

// Wait blocks until every RecordAsync write has finished or ctx is done
func (r *Recorder) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		r.pending.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ListRecent returns the newest entries. A zero limit means DefaultListLimit.
func (r *Recorder) ListRecent(ctx context.Context, limit int) ([]*Entry, error) {
	if limit == 0 {
		limit = DefaultListLimit
	}
	if limit < 1 || limit > MaxListLimit {
		return nil, zerrors.NewValidationError("limit", limit, "limit must be between 1 and 500")
	}

	return r.store.ListRecent(ctx, limit)
}

// Ping checks the backing store
func (r *Recorder) Ping(ctx context.Context) error {
	return r.store.Ping(ctx)
}
