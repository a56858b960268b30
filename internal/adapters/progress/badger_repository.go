package progress

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/phishplay/phishplay-backend/internal/core"
	"go.uber.org/zap"
)

const badgerKeyPrefix = "progress/"

// BadgerConfig holds configuration for the embedded BadgerDB store
type BadgerConfig struct {
	// Path is the directory for BadgerDB files. Ignored when InMemory is true.
	Path string

	// InMemory disables disk persistence.
	InMemory bool

	// SyncWrites fsyncs every commit.
	SyncWrites bool
}

// badgerLogger adapts zap to BadgerDB's Logger interface
type badgerLogger struct {
	logger *zap.SugaredLogger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Errorf(format, args...)
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warnf(format, args...)
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debugf(format, args...)
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debugf(format, args...)
}

// BadgerRepository is a BadgerDB implementation of the ProgressRepository interface
type BadgerRepository struct {
	db     *badger.DB
	logger *zap.Logger
}

var _ core.ProgressRepository = (*BadgerRepository)(nil)

// NewBadgerRepository opens a BadgerDB progress repository
func NewBadgerRepository(cfg BadgerConfig, logger *zap.Logger) (*BadgerRepository, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("path is required for persistent badger store")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create badger directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}

	opts = opts.WithSyncWrites(cfg.SyncWrites).
		WithNumVersionsToKeep(1).
		WithLogger(&badgerLogger{logger: logger.Named("badger").Sugar()})

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database: %w", err)
	}

	logger.Info("Opened Badger progress store",
		zap.String("path", cfg.Path),
		zap.Bool("in_memory", cfg.InMemory))

	return &BadgerRepository{
		db:     db,
		logger: logger,
	}, nil
}

func badgerKey(userID string) []byte {
	return []byte(badgerKeyPrefix + userID)
}

func decodeCursor(val []byte) (int, error) {
	if len(val) != 8 {
		return 0, fmt.Errorf("corrupt cursor value of %d bytes", len(val))
	}
	return int(binary.BigEndian.Uint64(val)), nil
}

// Get retrieves the cursor for a user
func (r *BadgerRepository) Get(ctx context.Context, userID string) (int, error) {
	var next int
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(badgerKey(userID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			next, err = decodeCursor(val)
			return err
		})
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, core.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read progress: %w", err)
	}

	return next, nil
}

// Set stores the cursor for a user. The stored value never moves backwards.
func (r *BadgerRepository) Set(ctx context.Context, userID string, next int) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		key := badgerKey(userID)

		item, err := txn.Get(key)
		switch {
		case errors.Is(err, badger.ErrKeyNotFound):
		case err != nil:
			return err
		default:
			var current int
			if err := item.Value(func(val []byte) error {
				current, err = decodeCursor(val)
				return err
			}); err != nil {
				return err
			}
			if current >= next {
				return nil
			}
		}

		buf := make([]byte, 8)
		binary.BigEndian.PutUint64(buf, uint64(next))
		return txn.Set(key, buf)
	})

	if err != nil {
		return fmt.Errorf("failed to write progress: %w", err)
	}

	return nil
}

// Stop closes the database
func (r *BadgerRepository) Stop() {
	if err := r.db.Close(); err != nil {
		r.logger.Error("Failed to close Badger database", zap.Error(err))
	}
}
