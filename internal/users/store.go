package users

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"
)

// StaticDirectory serves a fixed snapshot of users loaded at startup
type StaticDirectory struct {
	mu    sync.RWMutex
	users []User
}

// NewStaticDirectory creates a directory over a copy of users
func NewStaticDirectory(users []User) *StaticDirectory {
	d := &StaticDirectory{}
	d.Replace(users)
	return d
}

// ListUsers returns a copy of every known user, active or not
func (d *StaticDirectory) ListUsers(ctx context.Context) ([]User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]User, len(d.users))
	copy(out, d.users)
	return out, nil
}

// Replace swaps the snapshot atomically
func (d *StaticDirectory) Replace(users []User) {
	snapshot := make([]User, len(users))
	copy(snapshot, users)

	d.mu.Lock()
	d.users = snapshot
	d.mu.Unlock()
}

// Len returns the number of users in the snapshot
func (d *StaticDirectory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.users)
}

// ParseBase64 decodes a base64 string holding a URI-encoded JSON array of users
func ParseBase64(encoded string) ([]User, error) {
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return []User{}, nil
	}

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 users: %w", err)
	}

	decoded, err := url.PathUnescape(string(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to unescape users: %w", err)
	}

	var list []User
	if err := json.Unmarshal([]byte(decoded), &list); err != nil {
		return nil, fmt.Errorf("failed to parse users JSON: %w", err)
	}
	if list == nil {
		list = []User{}
	}

	return list, nil
}

// EncodeBase64 is the inverse of ParseBase64
func EncodeBase64(list []User) (string, error) {
	data, err := json.Marshal(list)
	if err != nil {
		return "", fmt.Errorf("failed to marshal users: %w", err)
	}
	return base64.StdEncoding.EncodeToString([]byte(url.PathEscape(string(data)))), nil
}
