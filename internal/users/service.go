package users

import (
	"context"
	"fmt"
)

// UserServiceImpl implements the UserService interface
type UserServiceImpl struct {
	directory Directory
}

// NewUserService creates a new user service instance
func NewUserService(directory Directory) *UserServiceImpl {
	return &UserServiceImpl{
		directory: directory,
	}
}

// ListUsers returns every user known to the directory
func (s *UserServiceImpl) ListUsers(ctx context.Context) ([]User, error) {
	all, err := s.directory.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return all, nil
}

// ListActiveUsers returns the users eligible for pairing
func (s *UserServiceImpl) ListActiveUsers(ctx context.Context) ([]User, error) {
	all, err := s.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	return Active(all), nil
}
