package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/Scriprto/steal-brainrot-shop/internal/model"

	_ "github.com/go-sql-driver/mysql"
)

// MySQLStateRepository implements StateRepository using MySQL.
type MySQLStateRepository struct {
	db *sql.DB
}

// NewMySQLStateRepository opens a MySQL connection and ensures the state table exists.
func NewMySQLStateRepository(dsn string) (*MySQLStateRepository, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping MySQL: %w", err)
	}

	query := `
	CREATE TABLE IF NOT EXISTS storefront_state (
		namespace VARCHAR(191) NOT NULL PRIMARY KEY,
		payload JSON NOT NULL,
		updated_at DATETIME NOT NULL
	)`
	if _, err := db.ExecContext(ctx, query); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	log.Printf("[MySQLStateRepository] Initialized")
	return &MySQLStateRepository{db: db}, nil
}

// DB exposes the connection so the activity log can share it.
func (r *MySQLStateRepository) DB() *sql.DB { return r.db }

// Load returns the record stored under namespace.
func (r *MySQLStateRepository) Load(ctx context.Context, namespace string) (*model.State, error) {
	var payload []byte
	err := r.db.QueryRowContext(ctx, `SELECT payload FROM storefront_state WHERE namespace = ?`, namespace).Scan(&payload)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load state: %w", err)
	}
	return DecodeState(payload)
}

// Save upserts the record stored under namespace.
func (r *MySQLStateRepository) Save(ctx context.Context, namespace string, state *model.State) error {
	data, err := EncodeState(state)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO storefront_state (namespace, payload, updated_at)
		VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE
			payload = VALUES(payload),
			updated_at = VALUES(updated_at)`

	if _, err := r.db.ExecContext(ctx, query, namespace, string(data), time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}
	return nil
}

// GetStats returns statistics about the state table.
func (r *MySQLStateRepository) GetStats(ctx context.Context) (map[string]interface{}, error) {
	stats := map[string]interface{}{"driver": "mysql"}

	var count int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM storefront_state").Scan(&count); err != nil {
		return nil, err
	}
	stats["namespaces"] = count

	var lastWrite sql.NullTime
	if err := r.db.QueryRowContext(ctx, "SELECT MAX(updated_at) FROM storefront_state").Scan(&lastWrite); err == nil && lastWrite.Valid {
		stats["last_write"] = lastWrite.Time
	}

	return stats, nil
}

// Close closes the database connection.
func (r *MySQLStateRepository) Close() error {
	return r.db.Close()
}

var _ StateRepository = (*MySQLStateRepository)(nil)
