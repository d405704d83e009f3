package pairing

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/pairup/pairup/internal/history"
	"github.com/pairup/pairup/internal/users"
	"github.com/pairup/pairup/internal/zerrors"
)

// DefaultMaxRegenerateAttempts bounds the re-roll loop in RegenerateLatestPairing
const DefaultMaxRegenerateAttempts = 100

// Options tunes the pairing service
type Options struct {
	ReminderStreak        int
	MaxRegenerateAttempts int
}

// Service implements the PairingManager interface
type Service struct {
	users     users.UserService
	store     history.Store
	generator *Generator
	logger    *zap.Logger
	opts      Options
	now       func() time.Time
}

// NewService creates a new pairing service
func NewService(userService users.UserService, store history.Store, generator *Generator, logger *zap.Logger, opts Options) *Service {
	if opts.ReminderStreak < 1 {
		opts.ReminderStreak = DefaultReminderStreak
	}
	if opts.MaxRegenerateAttempts < 1 {
		opts.MaxRegenerateAttempts = DefaultMaxRegenerateAttempts
	}
	if generator == nil {
		generator = NewGenerator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		users:     userService,
		store:     store,
		generator: generator,
		logger:    logger,
		opts:      opts,
		now:       time.Now,
	}
}

// ListActiveUsers returns the users eligible for pairing
func (s *Service) ListActiveUsers(ctx context.Context) ([]users.User, error) {
	return s.users.ListActiveUsers(ctx)
}

// GeneratePairing draws a pair without persisting it
func (s *Service) GeneratePairing(ctx context.Context) (*Pairing, error) {
	user1, user2, err := s.draw(ctx)
	if err != nil {
		return nil, err
	}

	return &Pairing{
		User1:               user1,
		User2:               user2,
		Timestamp:           FormatTimestamp(s.now()),
		ReminderIdentifiers: []string{},
	}, nil
}

// GenerateAndSavePairing draws a pair, stores it and returns it with fresh reminders
func (s *Service) GenerateAndSavePairing(ctx context.Context) (*Pairing, error) {
	user1, user2, err := s.draw(ctx)
	if err != nil {
		return nil, err
	}

	record, err := s.store.Create(ctx, history.NewParticipants(user1, user2))
	if err != nil {
		return nil, fmt.Errorf("failed to save pairing: %w", err)
	}

	s.logger.Info("Pairing saved to history",
		zap.Int64("id", record.ID),
		zap.String("first", record.FirstIdentifier),
		zap.String("second", record.SecondIdentifier))

	reminders, err := s.GetReminders(ctx)
	if err != nil {
		return nil, err
	}

	return newPairingFromRecord(record, reminders), nil
}

// GetPairingHistory returns every record, newest first
func (s *Service) GetPairingHistory(ctx context.Context) ([]*history.Record, error) {
	records, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get pairing history: %w", err)
	}
	return records, nil
}

// GetLatestPairing returns the newest record, or nil when history is empty
func (s *Service) GetLatestPairing(ctx context.Context) (*history.Record, error) {
	record, err := s.store.Latest(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest pairing: %w", err)
	}
	return record, nil
}

// RegenerateLatestPairing replaces the participants of the newest record in place.
// The new pair must differ from the current one as an unordered set; after
// MaxRegenerateAttempts draws without success it fails and leaves the record as is.
func (s *Service) RegenerateLatestPairing(ctx context.Context) (*Pairing, error) {
	latest, err := s.GetLatestPairing(ctx)
	if err != nil {
		return nil, err
	}
	if latest == nil {
		return nil, nil
	}

	active, err := s.users.ListActiveUsers(ctx)
	if err != nil {
		return nil, err
	}

	var user1, user2 users.User
	found := false
	for attempt := 0; attempt < s.opts.MaxRegenerateAttempts; attempt++ {
		user1, user2, err = s.generator.Generate(active)
		if err != nil {
			return nil, err
		}
		if !latest.SamePair(user1, user2) {
			found = true
			break
		}
	}
	if !found {
		s.logger.Warn("Could not regenerate latest pairing",
			zap.Int64("id", latest.ID),
			zap.Int("active_users", len(active)),
			zap.Int("attempts", s.opts.MaxRegenerateAttempts))
		return nil, zerrors.NewNoAlternativePairingError(len(active), s.opts.MaxRegenerateAttempts)
	}

	record, err := s.store.UpdateParticipants(ctx, latest.ID, history.NewParticipants(user1, user2))
	if err != nil {
		return nil, fmt.Errorf("failed to regenerate pairing: %w", err)
	}

	s.logger.Info("Latest pairing regenerated",
		zap.Int64("id", record.ID),
		zap.String("first", record.FirstIdentifier),
		zap.String("second", record.SecondIdentifier))

	reminders, err := s.GetReminders(ctx)
	if err != nil {
		return nil, err
	}

	return newPairingFromRecord(record, reminders), nil
}

// MarkCompleted sets completed on record id
func (s *Service) MarkCompleted(ctx context.Context, id int64) (*RecordWithReminders, error) {
	return s.setCompleted(ctx, id, true)
}

// UndoCompleted clears completed on record id
func (s *Service) UndoCompleted(ctx context.Context, id int64) (*RecordWithReminders, error) {
	return s.setCompleted(ctx, id, false)
}

// GetReminders recomputes the reminder set from the full history
func (s *Service) GetReminders(ctx context.Context) ([]string, error) {
	all, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	records, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compute reminders: %w", err)
	}

	return ComputeReminders(all, records, s.opts.ReminderStreak), nil
}

// setCompleted never returns an error: store failures and unknown ids are
// logged and reported as an absent record with no reminders
func (s *Service) setCompleted(ctx context.Context, id int64, completed bool) (*RecordWithReminders, error) {
	record, err := s.store.SetCompleted(ctx, id, completed)
	if err != nil {
		if zerrors.IsNotFound(err) {
			s.logger.Warn("Pairing record not found", zap.Int64("id", id), zap.Bool("completed", completed))
		} else {
			s.logger.Error("Failed to update pairing completion", zap.Int64("id", id), zap.Bool("completed", completed), zap.Error(err))
		}
		return &RecordWithReminders{Record: nil, ReminderIdentifiers: []string{}}, nil
	}

	reminders, err := s.GetReminders(ctx)
	if err != nil {
		s.logger.Error("Failed to recompute reminders", zap.Int64("id", id), zap.Error(err))
		reminders = []string{}
	}

	return &RecordWithReminders{Record: record, ReminderIdentifiers: reminders}, nil
}

func (s *Service) draw(ctx context.Context) (users.User, users.User, error) {
	active, err := s.users.ListActiveUsers(ctx)
	if err != nil {
		return users.User{}, users.User{}, err
	}
	return s.generator.Generate(active)
}
