package repository

import (
	"context"
	"sync"
	"time"

	"github.com/Scriprto/steal-brainrot-shop/internal/model"
)

// MemoryStateRepository keeps serialised records in process memory.
// Records go through the same encoding as the database backends.
type MemoryStateRepository struct {
	mu      sync.RWMutex
	records map[string][]byte
	saves   int
}

// NewMemoryStateRepository creates an empty in-memory repository.
func NewMemoryStateRepository() *MemoryStateRepository {
	return &MemoryStateRepository{records: make(map[string][]byte)}
}

// Load returns the record stored under namespace.
func (r *MemoryStateRepository) Load(ctx context.Context, namespace string) (*model.State, error) {
	r.mu.RLock()
	data, ok := r.records[namespace]
	r.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return DecodeState(data)
}

// Save replaces the record stored under namespace.
func (r *MemoryStateRepository) Save(ctx context.Context, namespace string, state *model.State) error {
	data, err := EncodeState(state)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[namespace] = data
	r.saves++
	return nil
}

// Raw returns the serialised record for namespace.
func (r *MemoryStateRepository) Raw(namespace string) []byte {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]byte(nil), r.records[namespace]...)
}

// Saves returns how many times Save succeeded.
func (r *MemoryStateRepository) Saves() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.saves
}

// GetStats returns statistics about the stored records.
func (r *MemoryStateRepository) GetStats(ctx context.Context) (map[string]interface{}, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var size int
	for _, data := range r.records {
		size += len(data)
	}
	return map[string]interface{}{
		"driver":        "memory",
		"namespaces":    int64(len(r.records)),
		"db_size_bytes": int64(size),
	}, nil
}

// Close is a no-op.
func (r *MemoryStateRepository) Close() error { return nil }

// MemoryActivityRepository keeps the activity log in process memory.
type MemoryActivityRepository struct {
	mu      sync.Mutex
	entries []model.Activity
}

// NewMemoryActivityRepository creates an empty log.
func NewMemoryActivityRepository() *MemoryActivityRepository {
	return &MemoryActivityRepository{}
}

// Append records entry.
func (r *MemoryActivityRepository) Append(ctx context.Context, entry *model.Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	entry.ID = int64(len(r.entries) + 1)
	r.entries = append(r.entries, *entry)
	return nil
}

// List returns entries newest first.
func (r *MemoryActivityRepository) List(ctx context.Context, limit, offset int) ([]model.Activity, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	total := int64(len(r.entries))
	out := []model.Activity{}
	for i := len(r.entries) - 1 - offset; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.entries[i])
	}
	return out, total, nil
}

// Close is a no-op.
func (r *MemoryActivityRepository) Close() error { return nil }

var (
	_ StateRepository    = (*MemoryStateRepository)(nil)
	_ ActivityRepository = (*MemoryActivityRepository)(nil)
)
