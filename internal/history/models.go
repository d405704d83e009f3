package history

import (
	"time"

	"github.com/pairup/pairup/internal/users"
	"github.com/pairup/pairup/internal/zerrors"
)

// Record is one persisted pairing event
type Record struct {
	ID               int64     `json:"id"`
	FirstName        string    `json:"firstName"`
	FirstIdentifier  string    `json:"firstIdentifier"`
	SecondName       string    `json:"secondName"`
	SecondIdentifier string    `json:"secondIdentifier"`
	Completed        bool      `json:"completed"`
	CreatedAt        time.Time `json:"createdAt"`
}

// Participants is the pair of users written into a record
type Participants struct {
	First  users.User
	Second users.User
}

// NewParticipants builds Participants from two users
func NewParticipants(first, second users.User) Participants {
	return Participants{First: first, Second: second}
}

// Participants returns the record's pair as users. Active is always true since
// only active users are ever paired.
func (r *Record) Participants() (users.User, users.User) {
	return users.User{Name: r.FirstName, Identifier: r.FirstIdentifier, Active: true},
		users.User{Name: r.SecondName, Identifier: r.SecondIdentifier, Active: true}
}

// Involves reports whether identifier appears on either side of the record
func (r *Record) Involves(identifier string) bool {
	return r.FirstIdentifier == identifier || r.SecondIdentifier == identifier
}

// SamePair reports whether the record holds the unordered pair {a, b},
// comparing users by User.Key
func (r *Record) SamePair(a, b users.User) bool {
	first, second := r.Participants()
	return (first.Key() == a.Key() && second.Key() == b.Key()) ||
		(first.Key() == b.Key() && second.Key() == a.Key())
}

// Validate checks the record shape before it leaves the service boundary
func (r *Record) Validate() error {
	if r.ID <= 0 {
		return zerrors.NewValidationError("id", r.ID, "id must be positive")
	}
	if r.FirstName == "" {
		return zerrors.NewValidationError("firstName", r.FirstName, "firstName is required")
	}
	if r.SecondName == "" {
		return zerrors.NewValidationError("secondName", r.SecondName, "secondName is required")
	}
	if r.CreatedAt.IsZero() {
		return zerrors.NewValidationError("createdAt", r.CreatedAt, "createdAt is required")
	}
	return nil
}

// Newer reports whether a sorts before b in newest-first order:
// createdAt descending, id descending as the tie breaker
func Newer(a, b *Record) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}
