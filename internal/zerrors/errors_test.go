package zerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorClassification(t *testing.T) {
	cause := errors.New("connection refused")

	tests := []struct {
		name                     string
		err                      error
		validation               bool
		notFound                 bool
		insufficientParticipants bool
		storage                  bool
	}{
		{
			name:       "validation",
			err:        NewValidationError("id", "abc", "must be an integer"),
			validation: true,
		},
		{
			name:     "wrapped not found",
			err:      fmt.Errorf("mark completed: %w", NewNotFoundError("pairing record", 42)),
			notFound: true,
		},
		{
			name:                     "insufficient participants",
			err:                      NewInsufficientParticipantsError(1),
			insufficientParticipants: true,
		},
		{
			name:                     "no alternative pairing",
			err:                      NewNoAlternativePairingError(2, 100),
			insufficientParticipants: true,
		},
		{
			name:    "storage",
			err:     NewStorageQueryError("list", "pairing_history", cause),
			storage: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.validation, IsValidation(tt.err))
			assert.Equal(t, tt.notFound, IsNotFound(tt.err))
			assert.Equal(t, tt.insufficientParticipants, IsInsufficientParticipants(tt.err))
			assert.Equal(t, tt.storage, IsStorage(tt.err))
		})
	}
}

func TestStorageErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewStorageConnectionError("ping", "database", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection_failed")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "pairing record with id 7 not found", NewNotFoundError("pairing record", 7).Error())
	assert.Equal(t, "insufficient participants (active: 1, required: 2)", NewInsufficientParticipantsError(1).Error())
	assert.Contains(t, NewNoAlternativePairingError(2, 50).Error(), "after 50 attempts")
}
