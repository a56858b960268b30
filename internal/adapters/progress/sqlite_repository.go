package progress

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/phishplay/phishplay-backend/internal/core"
	"go.uber.org/zap"
)

// SQLiteRepository is a SQLite implementation of the ProgressRepository interface
type SQLiteRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

var _ core.ProgressRepository = (*SQLiteRepository)(nil)

// NewSQLiteRepository creates a new SQLite progress repository
func NewSQLiteRepository(dbPath string, logger *zap.Logger) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// a single connection serializes writers inside the process
	db.SetMaxOpenConns(1)

	// Create table if it doesn't exist
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS user_progress (
			user_id TEXT PRIMARY KEY,
			next_index INTEGER NOT NULL,
			updated_at TIMESTAMP
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	logger.Info("Opened SQLite progress store", zap.String("path", dbPath))

	return &SQLiteRepository{
		db:     db,
		logger: logger,
	}, nil
}

// Get retrieves the cursor for a user
func (r *SQLiteRepository) Get(ctx context.Context, userID string) (int, error) {
	var next int
	err := r.db.QueryRowContext(ctx, `
		SELECT next_index
		FROM user_progress
		WHERE user_id = ?
	`, userID).Scan(&next)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, core.ErrNotFound
		}
		return 0, fmt.Errorf("failed to query progress: %w", err)
	}

	return next, nil
}

// Set stores the cursor for a user. The stored value never moves backwards.
func (r *SQLiteRepository) Set(ctx context.Context, userID string, next int) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_progress (user_id, next_index, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			next_index = MAX(user_progress.next_index, excluded.next_index),
			updated_at = excluded.updated_at
	`, userID, next, time.Now().UTC().Format(time.RFC3339))

	if err != nil {
		return fmt.Errorf("failed to upsert progress: %w", err)
	}

	return nil
}

// Stop closes the database connection
func (r *SQLiteRepository) Stop() {
	if err := r.db.Close(); err != nil {
		r.logger.Error("Failed to close SQLite database", zap.Error(err))
	}
}
