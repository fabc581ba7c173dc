package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Scriprto/steal-brainrot-shop/internal/model"
)

// Dialect selects SQL syntax differences between the supported databases.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
	DialectMySQL    Dialect = "mysql"
)

// SQLActivityRepository implements ActivityRepository on a database/sql connection.
// It shares the connection with the state repository and does not close it.
type SQLActivityRepository struct {
	db      *sql.DB
	dialect Dialect
}

// NewSQLActivityRepository ensures the activity table exists.
func NewSQLActivityRepository(ctx context.Context, db *sql.DB, dialect Dialect) (*SQLActivityRepository, error) {
	r := &SQLActivityRepository{db: db, dialect: dialect}
	if _, err := db.ExecContext(ctx, r.schema()); err != nil {
		return nil, fmt.Errorf("failed to create activity table: %w", err)
	}
	return r, nil
}

func (r *SQLActivityRepository) schema() string {
	var id, ts string
	switch r.dialect {
	case DialectPostgres:
		id, ts = "BIGSERIAL PRIMARY KEY", "TIMESTAMPTZ"
	case DialectMySQL:
		id, ts = "BIGINT AUTO_INCREMENT PRIMARY KEY", "DATETIME(6)"
	default:
		id, ts = "INTEGER PRIMARY KEY AUTOINCREMENT", "DATETIME"
	}
	return fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS storefront_activity (
		id %s,
		kind VARCHAR(64) NOT NULL,
		actor VARCHAR(191) NOT NULL,
		subject VARCHAR(191) NOT NULL,
		detail TEXT,
		created_at %s NOT NULL
	)`, id, ts)
}

// rebind rewrites ? placeholders to $n for postgres.
func (r *SQLActivityRepository) rebind(query string) string {
	if r.dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, ch := range query {
		if ch == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(ch)
	}
	return b.String()
}

// Append inserts entry and sets its ID and CreatedAt.
func (r *SQLActivityRepository) Append(ctx context.Context, entry *model.Activity) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	query := r.rebind(`INSERT INTO storefront_activity (kind, actor, subject, detail, created_at) VALUES (?, ?, ?, ?, ?)`)
	args := []interface{}{entry.Kind, entry.Actor, entry.Subject, entry.Detail, entry.CreatedAt}

	if r.dialect == DialectPostgres {
		if err := r.db.QueryRowContext(ctx, query+" RETURNING id", args...).Scan(&entry.ID); err != nil {
			return fmt.Errorf("failed to append activity: %w", err)
		}
		return nil
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to append activity: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read activity id: %w", err)
	}
	entry.ID = id
	return nil
}

// List returns entries newest first.
func (r *SQLActivityRepository) List(ctx context.Context, limit, offset int) ([]model.Activity, int64, error) {
	rows, err := r.db.QueryContext(ctx, r.rebind(`
		SELECT id, kind, actor, subject, detail, created_at
		FROM storefront_activity
		ORDER BY id DESC
		LIMIT ? OFFSET ?`), limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list activity: %w", err)
	}
	defer rows.Close()

	entries := []model.Activity{}
	for rows.Next() {
		var a model.Activity
		var detail sql.NullString
		if err := rows.Scan(&a.ID, &a.Kind, &a.Actor, &a.Subject, &detail, &a.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan activity: %w", err)
		}
		a.Detail = detail.String
		entries = append(entries, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate activity: %w", err)
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM storefront_activity`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count activity: %w", err)
	}
	return entries, total, nil
}

// Close is a no-op; the connection belongs to the state repository.
func (r *SQLActivityRepository) Close() error { return nil }

var _ ActivityRepository = (*SQLActivityRepository)(nil)
