package progress

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/phishplay/phishplay-backend/internal/core"
	"go.uber.org/zap"
)

// MySQLRepository is a MySQL implementation of the ProgressRepository interface
type MySQLRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

var _ core.ProgressRepository = (*MySQLRepository)(nil)

// NewMySQLRepository creates a new MySQL progress repository
func NewMySQLRepository(dsn string, logger *zap.Logger) (*MySQLRepository, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to MySQL database: %w", err)
	}

	repo, err := NewMySQLRepositoryFromDB(db, logger)
	if err != nil {
		db.Close()
		return nil, err
	}
	return repo, nil
}

// NewMySQLRepositoryFromDB creates the repository on an open handle and ensures the table exists
func NewMySQLRepositoryFromDB(db *sql.DB, logger *zap.Logger) (*MySQLRepository, error) {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS user_progress (
			user_id VARCHAR(255) PRIMARY KEY,
			next_index INT NOT NULL,
			updated_at TIMESTAMP
		)
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return &MySQLRepository{
		db:     db,
		logger: logger,
	}, nil
}

// Get retrieves the cursor for a user
func (r *MySQLRepository) Get(ctx context.Context, userID string) (int, error) {
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
func (r *MySQLRepository) Set(ctx context.Context, userID string, next int) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_progress (user_id, next_index, updated_at)
		VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE
			next_index = GREATEST(next_index, VALUES(next_index)),
			updated_at = VALUES(updated_at)
	`, userID, next, time.Now().UTC().Format("2006-01-02 15:04:05"))

	if err != nil {
		return fmt.Errorf("failed to upsert progress: %w", err)
	}

	return nil
}

// Stop closes the database connection
func (r *MySQLRepository) Stop() {
	if err := r.db.Close(); err != nil {
		r.logger.Error("Failed to close MySQL database", zap.Error(err))
	}
}
