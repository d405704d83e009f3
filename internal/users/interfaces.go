package users

import (
	"context"
)

// Directory defines the read-only source of participants
type Directory interface {
	ListUsers(ctx context.Context) ([]User, error)
}

// UserService defines the interface for user service operations
type UserService interface {
	Directory
	ListActiveUsers(ctx context.Context) ([]User, error)
}
