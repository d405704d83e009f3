package pairing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/pairup/pairup/internal/history"
	"github.com/pairup/pairup/internal/users"
	"github.com/pairup/pairup/internal/zerrors"
)

// failingStore wraps an InMemoryStore and fails the selected operations
type failingStore struct {
	*history.InMemoryStore
	failList        bool
	failSetComplete bool
}

var errStoreDown = errors.New("store down")

func (f *failingStore) List(ctx context.Context) ([]*history.Record, error) {
	if f.failList {
		return nil, zerrors.NewStorageQueryError("list", "pairing record", errStoreDown)
	}
	return f.InMemoryStore.List(ctx)
}

func (f *failingStore) SetCompleted(ctx context.Context, id int64, completed bool) (*history.Record, error) {
	if f.failSetComplete {
		return nil, zerrors.NewStorageQueryError("update", "pairing record", errStoreDown)
	}
	return f.InMemoryStore.SetCompleted(ctx, id, completed)
}

func newTestService(t *testing.T, roster []users.User, store history.Store) *Service {
	t.Helper()
	userService := users.NewUserService(users.NewStaticDirectory(roster))
	return NewService(userService, store, NewSeededGenerator(11, 13), zaptest.NewLogger(t), Options{})
}

func steppingClock(start time.Time) func() time.Time {
	current := start
	return func() time.Time {
		current = current.Add(time.Minute)
		return current
	}
}

var roster = []users.User{
	{Name: "Ada", Identifier: "ada", Active: true},
	{Name: "Grace", Identifier: "grace", Active: true},
	{Name: "Linus", Identifier: "linus", Active: true},
	{Name: "Ken", Identifier: "ken", Active: false},
}

func TestServiceListActiveUsers(t *testing.T) {
	svc := newTestService(t, roster, history.NewInMemoryStore())

	active, err := svc.ListActiveUsers(context.Background())
	require.NoError(t, err)
	assert.Len(t, active, 3)
	for _, u := range active {
		assert.True(t, u.Active)
	}
}

func TestServiceGeneratePairingDoesNotPersist(t *testing.T) {
	ctx := context.Background()
	store := history.NewInMemoryStore()
	svc := newTestService(t, roster, store)
	svc.now = func() time.Time { return time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC) }

	p, err := svc.GeneratePairing(ctx)
	require.NoError(t, err)
	require.NoError(t, p.Validate())
	assert.Equal(t, "2025-03-01T09:30:00.000Z", p.Timestamp)
	assert.Equal(t, []string{}, p.ReminderIdentifiers)
	assert.NotEqual(t, "ken", p.User1.Identifier)
	assert.NotEqual(t, "ken", p.User2.Identifier)

	records, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestServiceGenerateInsufficientParticipants(t *testing.T) {
	ctx := context.Background()
	store := history.NewInMemoryStore()
	svc := newTestService(t, roster[:1], store)

	_, err := svc.GeneratePairing(ctx)
	assert.True(t, zerrors.IsInsufficientParticipants(err))

	_, err = svc.GenerateAndSavePairing(ctx)
	assert.True(t, zerrors.IsInsufficientParticipants(err))

	records, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestServiceGenerateAndSavePairing(t *testing.T) {
	ctx := context.Background()
	store := history.NewInMemoryStore()
	svc := newTestService(t, roster, store)

	p, err := svc.GenerateAndSavePairing(ctx)
	require.NoError(t, err)
	require.NoError(t, p.Validate())

	latest, err := svc.GetLatestPairing(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, p.User1.Identifier, latest.FirstIdentifier)
	assert.Equal(t, p.User2.Identifier, latest.SecondIdentifier)
	assert.False(t, latest.Completed)
	assert.Equal(t, FormatTimestamp(latest.CreatedAt), p.Timestamp)
}

func TestServiceLatestOnEmptyHistory(t *testing.T) {
	svc := newTestService(t, roster, history.NewInMemoryStore())

	latest, err := svc.GetLatestPairing(context.Background())
	require.NoError(t, err)
	assert.Nil(t, latest)

	p, err := svc.RegenerateLatestPairing(context.Background())
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestServiceHistoryNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := history.NewInMemoryStore().WithClock(steppingClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
	svc := newTestService(t, roster, store)

	for i := 0; i < 4; i++ {
		_, err := svc.GenerateAndSavePairing(ctx)
		require.NoError(t, err)
	}

	records, err := svc.GetPairingHistory(ctx)
	require.NoError(t, err)
	require.Len(t, records, 4)
	for i := 1; i < len(records); i++ {
		assert.True(t, history.Newer(records[i-1], records[i]))
	}
	assert.Equal(t, int64(4), records[0].ID)
}

func TestServiceRegenerateChangesPair(t *testing.T) {
	ctx := context.Background()
	store := history.NewInMemoryStore()
	svc := newTestService(t, roster, store)

	for i := 0; i < 50; i++ {
		before, err := svc.GenerateAndSavePairing(ctx)
		require.NoError(t, err)
		saved, err := svc.GetLatestPairing(ctx)
		require.NoError(t, err)

		after, err := svc.RegenerateLatestPairing(ctx)
		require.NoError(t, err)
		require.NotNil(t, after)
		assert.False(t, saved.SamePair(after.User1, after.User2),
			"regenerated pair %s/%s equals %s/%s", after.User1.Identifier, after.User2.Identifier,
			before.User1.Identifier, before.User2.Identifier)

		latest, err := svc.GetLatestPairing(ctx)
		require.NoError(t, err)
		assert.Equal(t, saved.ID, latest.ID)
		assert.Equal(t, saved.CreatedAt, latest.CreatedAt)
		assert.Equal(t, after.User1.Identifier, latest.FirstIdentifier)
	}

	records, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 50)
}

func TestServiceRegenerateWithTwoUsersFails(t *testing.T) {
	ctx := context.Background()
	store := history.NewInMemoryStore()
	userService := users.NewUserService(users.NewStaticDirectory(roster[:2]))
	svc := NewService(userService, store, NewSeededGenerator(1, 1), zaptest.NewLogger(t), Options{MaxRegenerateAttempts: 5})

	_, err := svc.GenerateAndSavePairing(ctx)
	require.NoError(t, err)
	before, err := svc.GetLatestPairing(ctx)
	require.NoError(t, err)

	p, err := svc.RegenerateLatestPairing(ctx)
	require.Error(t, err)
	assert.Nil(t, p)
	assert.True(t, zerrors.IsInsufficientParticipants(err))

	after, err := svc.GetLatestPairing(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestServiceMarkAndUndoCompleted(t *testing.T) {
	ctx := context.Background()
	store := history.NewInMemoryStore()
	svc := newTestService(t, roster, store)

	p, err := svc.GenerateAndSavePairing(ctx)
	require.NoError(t, err)
	latest, err := svc.GetLatestPairing(ctx)
	require.NoError(t, err)

	marked, err := svc.MarkCompleted(ctx, latest.ID)
	require.NoError(t, err)
	require.NoError(t, marked.Validate())
	require.NotNil(t, marked.Record)
	assert.True(t, marked.Record.Completed)

	undone, err := svc.UndoCompleted(ctx, latest.ID)
	require.NoError(t, err)
	require.NotNil(t, undone.Record)
	assert.False(t, undone.Record.Completed)
	assert.Equal(t, p.ReminderIdentifiers, undone.ReminderIdentifiers)
}

func TestServiceMarkUnknownRecord(t *testing.T) {
	svc := newTestService(t, roster, history.NewInMemoryStore())

	for _, toggle := range []func(context.Context, int64) (*RecordWithReminders, error){svc.MarkCompleted, svc.UndoCompleted} {
		result, err := toggle(context.Background(), 999)
		require.NoError(t, err)
		require.NotNil(t, result)
		assert.Nil(t, result.Record)
		assert.NotNil(t, result.ReminderIdentifiers)
		assert.Empty(t, result.ReminderIdentifiers)
	}
}

func TestServiceMarkStoreFailure(t *testing.T) {
	ctx := context.Background()
	store := &failingStore{InMemoryStore: history.NewInMemoryStore(), failSetComplete: true}
	svc := newTestService(t, roster, store)

	_, err := svc.GenerateAndSavePairing(ctx)
	require.NoError(t, err)

	result, err := svc.MarkCompleted(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, result.Record)
	assert.Equal(t, []string{}, result.ReminderIdentifiers)
}

func TestServiceMarkReminderFailureKeepsRecord(t *testing.T) {
	ctx := context.Background()
	store := &failingStore{InMemoryStore: history.NewInMemoryStore()}
	svc := newTestService(t, roster, store)

	_, err := svc.GenerateAndSavePairing(ctx)
	require.NoError(t, err)

	store.failList = true
	result, err := svc.MarkCompleted(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, result.Record)
	assert.True(t, result.Record.Completed)
	assert.Equal(t, []string{}, result.ReminderIdentifiers)
}

func TestServiceHistoryStoreFailure(t *testing.T) {
	store := &failingStore{InMemoryStore: history.NewInMemoryStore(), failList: true}
	svc := newTestService(t, roster, store)

	_, err := svc.GetPairingHistory(context.Background())
	require.Error(t, err)
	assert.True(t, zerrors.IsStorage(err))
}

func TestServiceRemindersAfterFivePendingPairings(t *testing.T) {
	ctx := context.Background()
	pair := []users.User{roster[0], roster[1]}
	store := history.NewInMemoryStore().WithClock(steppingClock(time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)))
	svc := newTestService(t, pair, store)

	var last *Pairing
	for i := 0; i < 5; i++ {
		p, err := svc.GenerateAndSavePairing(ctx)
		require.NoError(t, err)
		last = p
	}
	assert.Equal(t, []string{"ada", "grace"}, last.ReminderIdentifiers)

	latest, err := svc.GetLatestPairing(ctx)
	require.NoError(t, err)
	marked, err := svc.MarkCompleted(ctx, latest.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{}, marked.ReminderIdentifiers)

	undone, err := svc.UndoCompleted(ctx, latest.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"ada", "grace"}, undone.ReminderIdentifiers)
}

func TestServiceRegenerateUsersWithoutIdentifiers(t *testing.T) {
	ctx := context.Background()
	anonymous := []users.User{
		{Name: "Ada", Active: true},
		{Name: "Grace", Active: true},
		{Name: "Linus", Active: true},
	}
	store := history.NewInMemoryStore()
	svc := newTestService(t, anonymous, store)

	for i := 0; i < 20; i++ {
		_, err := svc.GenerateAndSavePairing(ctx)
		require.NoError(t, err)
		saved, err := svc.GetLatestPairing(ctx)
		require.NoError(t, err)

		after, err := svc.RegenerateLatestPairing(ctx)
		require.NoError(t, err)
		require.NotNil(t, after)
		assert.NotEqual(t, after.User1.Name, after.User2.Name)
		assert.False(t, saved.SamePair(after.User1, after.User2),
			"regenerated %s/%s equals %s/%s", after.User1.Name, after.User2.Name, saved.FirstName, saved.SecondName)
	}
}

func TestServiceRemindersFromSeededHistory(t *testing.T) {
	ctx := context.Background()
	store := history.NewInMemoryStore()
	base := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
	partners := []users.User{roster[1], roster[2]}

	// ada pending five times in a row after an old completed session
	for i := 0; i < 6; i++ {
		partner := partners[i%len(partners)]
		store.Insert(history.Record{
			ID:               int64(i + 1),
			FirstName:        roster[0].Name,
			FirstIdentifier:  roster[0].Identifier,
			SecondName:       partner.Name,
			SecondIdentifier: partner.Identifier,
			Completed:        i == 0,
			CreatedAt:        base.Add(time.Duration(i) * 24 * time.Hour),
		})
	}
	svc := newTestService(t, roster, store)

	reminders, err := svc.GetReminders(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"ada"}, reminders)

	// ids continue after the seeded records
	p, err := svc.GenerateAndSavePairing(ctx)
	require.NoError(t, err)
	require.NotNil(t, p)
	latest, err := svc.GetLatestPairing(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(7), latest.ID)

	marked, err := svc.MarkCompleted(ctx, 6)
	require.NoError(t, err)
	require.NotNil(t, marked.Record)
	assert.NotContains(t, marked.ReminderIdentifiers, "ada")
}
