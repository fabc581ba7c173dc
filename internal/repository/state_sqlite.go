package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/Scriprto/steal-brainrot-shop/internal/model"

	_ "modernc.org/sqlite" // Pure Go SQLite driver - no CGO required
)

// SQLiteStateRepository implements StateRepository using SQLite.
type SQLiteStateRepository struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteStateRepository opens (and creates if needed) the database at dbPath.
func NewSQLiteStateRepository(dbPath string) (*SQLiteStateRepository, error) {
	if dir := filepath.Dir(dbPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("failed to create data dir: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite: %w", err)
	}

	// SQLite only supports 1 writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := createSQLiteTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	log.Printf("[SQLiteStateRepository] Initialized with database: %s", dbPath)
	return &SQLiteStateRepository{db: db}, nil
}

func createSQLiteTables(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS storefront_state (
		namespace TEXT PRIMARY KEY,
		payload TEXT NOT NULL,
		updated_at DATETIME NOT NULL
	);`
	_, err := db.Exec(query)
	return err
}

// DB exposes the connection so the activity log can share it.
func (r *SQLiteStateRepository) DB() *sql.DB { return r.db }

// Load returns the record stored under namespace.
func (r *SQLiteStateRepository) Load(ctx context.Context, namespace string) (*model.State, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var payload string
	err := r.db.QueryRowContext(ctx, `SELECT payload FROM storefront_state WHERE namespace = ?`, namespace).Scan(&payload)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load state: %w", err)
	}
	return DecodeState([]byte(payload))
}

// Save upserts the record stored under namespace.
func (r *SQLiteStateRepository) Save(ctx context.Context, namespace string, state *model.State) error {
	data, err := EncodeState(state)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	query := `
		INSERT INTO storefront_state (namespace, payload, updated_at)
		VALUES (?, ?, datetime('now'))
		ON CONFLICT(namespace) DO UPDATE SET
			payload = excluded.payload,
			updated_at = datetime('now')`

	if _, err := r.db.ExecContext(ctx, query, namespace, string(data)); err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}
	return nil
}

// GetStats returns statistics about the state database.
func (r *SQLiteStateRepository) GetStats(ctx context.Context) (map[string]interface{}, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := map[string]interface{}{"driver": "sqlite"}

	var count int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM storefront_state").Scan(&count); err != nil {
		return nil, err
	}
	stats["namespaces"] = count

	var lastWrite sql.NullString
	if err := r.db.QueryRowContext(ctx, "SELECT MAX(updated_at) FROM storefront_state").Scan(&lastWrite); err == nil && lastWrite.Valid {
		stats["last_write"] = lastWrite.String
	}

	var pageCount, pageSize int64
	r.db.QueryRowContext(ctx, "PRAGMA page_count").Scan(&pageCount)
	r.db.QueryRowContext(ctx, "PRAGMA page_size").Scan(&pageSize)
	stats["db_size_bytes"] = pageCount * pageSize

	return stats, nil
}

// Close closes the database connection.
func (r *SQLiteStateRepository) Close() error {
	return r.db.Close()
}

var _ StateRepository = (*SQLiteStateRepository)(nil)
