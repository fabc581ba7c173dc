package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Scriprto/steal-brainrot-shop/internal/model"
)

// StateRepository persists the durable state record under a namespace key.
type StateRepository interface {
	// Load returns the record stored under namespace, or nil if none exists.
	Load(ctx context.Context, namespace string) (*model.State, error)

	// Save replaces the record stored under namespace.
	Save(ctx context.Context, namespace string, state *model.State) error

	// GetStats returns statistics about the underlying store.
	GetStats(ctx context.Context) (map[string]interface{}, error)

	// Close closes the repository connection.
	Close() error
}

// ActivityRepository stores the admin activity log.
type ActivityRepository interface {
	// Append records a new entry and assigns its ID.
	Append(ctx context.Context, entry *model.Activity) error

	// List returns entries newest first together with the total count.
	List(ctx context.Context, limit, offset int) ([]model.Activity, int64, error)

	// Close closes the repository connection.
	Close() error
}

// EncodeState serialises a state record.
func EncodeState(state *model.State) ([]byte, error) {
	s := state.Clone()
	s.Normalize()
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to encode state: %w", err)
	}
	return data, nil
}

// DecodeState parses a serialised state record.
func DecodeState(data []byte) (*model.State, error) {
	var s model.State
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to decode state: %w", err)
	}
	s.Normalize()
	return &s, nil
}
