package pairing

import (
	"context"

	"github.com/pairup/pairup/internal/history"
	"github.com/pairup/pairup/internal/users"
)

// PairingManager defines the user-facing pairing operations
type PairingManager interface {
	ListActiveUsers(ctx context.Context) ([]users.User, error)
	GeneratePairing(ctx context.Context) (*Pairing, error)
	GenerateAndSavePairing(ctx context.Context) (*Pairing, error)
	GetPairingHistory(ctx context.Context) ([]*history.Record, error)
	GetLatestPairing(ctx context.Context) (*history.Record, error)
	RegenerateLatestPairing(ctx context.Context) (*Pairing, error)
	MarkCompleted(ctx context.Context, id int64) (*RecordWithReminders, error)
	UndoCompleted(ctx context.Context, id int64) (*RecordWithReminders, error)
	GetReminders(ctx context.Context) ([]string, error)
}
