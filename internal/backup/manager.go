package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"path"
	"strings"
	"time"

	"github.com/Scriprto/steal-brainrot-shop/internal/model"
	"github.com/Scriprto/steal-brainrot-shop/internal/repository"
)

// keyTimeFormat sorts lexically in time order.
const keyTimeFormat = "20060102T150405.000000000Z"

// Manager writes and reads backups of one namespace under
// <prefix>/<namespace>/<timestamp>.json.
type Manager struct {
	store     Store
	prefix    string
	namespace string
	now       func() time.Time
}

// NewManager creates a backup manager.
func NewManager(store Store, prefix, namespace string) *Manager {
	return &Manager{
		store:     store,
		prefix:    strings.Trim(prefix, "/"),
		namespace: namespace,
		now:       time.Now,
	}
}

func (m *Manager) dir() string {
	if m.prefix == "" {
		return m.namespace + "/"
	}
	return path.Join(m.prefix, m.namespace) + "/"
}

// Encode renders a record the way backups store it: indented so diffs are per line.
func Encode(state *model.State) ([]byte, error) {
	compact, err := repository.EncodeState(state)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, compact, "", "  "); err != nil {
		return nil, fmt.Errorf("failed to indent state: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// Backup uploads state and returns the object written.
func (m *Manager) Backup(ctx context.Context, state *model.State) (Object, error) {
	data, err := Encode(state)
	if err != nil {
		return Object{}, err
	}
	now := m.now().UTC()
	key := m.dir() + now.Format(keyTimeFormat) + ".json"
	if err := m.store.Put(ctx, key, data); err != nil {
		return Object{}, err
	}
	log.Printf("[Backup] Uploaded %s (%d bytes)", key, len(data))
	return Object{Key: key, Size: int64(len(data)), LastModified: now}, nil
}

// List returns this namespace's backups, newest first.
func (m *Manager) List(ctx context.Context) ([]Object, error) {
	objects, err := m.store.List(ctx, m.dir())
	if err != nil {
		return nil, err
	}
	out := make([]Object, 0, len(objects))
	for i := len(objects) - 1; i >= 0; i-- {
		if strings.HasSuffix(objects[i].Key, ".json") {
			out = append(out, objects[i])
		}
	}
	return out, nil
}

// Fetch downloads and decodes a backup. An empty key selects the newest one.
func (m *Manager) Fetch(ctx context.Context, key string) (string, *model.State, error) {
	if key == "" {
		objects, err := m.List(ctx)
		if err != nil {
			return "", nil, err
		}
		if len(objects) == 0 {
			return "", nil, fmt.Errorf("%w: no backups under %s", ErrNotFound, m.dir())
		}
		key = objects[0].Key
	}
	data, err := m.store.Get(ctx, key)
	if err != nil {
		return key, nil, err
	}
	state, err := repository.DecodeState(data)
	if err != nil {
		return key, nil, err
	}
	return key, state, nil
}
