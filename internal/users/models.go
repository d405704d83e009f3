package users

import (
	"encoding/json"

	"github.com/pairup/pairup/internal/zerrors"
)

// User is a participant eligible to be paired when Active is set.
// Identifier is the external handle, typically a GitHub login.
type User struct {
	Name       string `json:"name"`
	Identifier string `json:"identifier"`
	Active     bool   `json:"active"`
}

// UnmarshalJSON accepts the legacy "github" key as an alias for "identifier"
func (u *User) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name       string `json:"name"`
		Identifier string `json:"identifier"`
		Github     string `json:"github"`
		Active     bool   `json:"active"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	u.Name = raw.Name
	u.Identifier = raw.Identifier
	if u.Identifier == "" {
		u.Identifier = raw.Github
	}
	u.Active = raw.Active
	return nil
}

// Validate checks the user shape before it leaves the service boundary
func (u User) Validate() error {
	if u.Name == "" {
		return zerrors.NewValidationError("name", u.Name, "name is required")
	}
	return nil
}

// Key identifies the user for pairing purposes: the identifier, or the name
// when no identifier is set
func (u User) Key() string {
	if u.Identifier == "" {
		return "name:" + u.Name
	}
	return "id:" + u.Identifier
}

// Active returns the users whose Active flag is set, preserving order
func Active(all []User) []User {
	active := make([]User, 0, len(all))
	for _, u := range all {
		if u.Active {
			active = append(active, u)
		}
	}
	return active
}
