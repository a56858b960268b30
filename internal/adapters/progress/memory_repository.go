package progress

import (
	"context"
	"sync"

	"github.com/phishplay/phishplay-backend/internal/core"
	"go.uber.org/zap"
)

// MemoryRepository is an in-memory implementation of the ProgressRepository interface.
// Cursors live for the process lifetime only.
type MemoryRepository struct {
	cursors map[string]int
	mu      sync.RWMutex
	logger  *zap.Logger
}

var _ core.ProgressRepository = (*MemoryRepository)(nil)

// NewMemoryRepository creates a new in-memory progress repository
func NewMemoryRepository(logger *zap.Logger) *MemoryRepository {
	logger.Warn("Progress is kept in memory and will be lost on restart")
	return &MemoryRepository{
		cursors: make(map[string]int),
		logger:  logger,
	}
}

// Get retrieves the cursor for a user
func (r *MemoryRepository) Get(ctx context.Context, userID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	next, ok := r.cursors[userID]
	if !ok {
		return 0, core.ErrNotFound
	}
	return next, nil
}

// Set stores the cursor for a user
func (r *MemoryRepository) Set(ctx context.Context, userID string, next int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cursors[userID] = next
	return nil
}

// Len returns the number of users with a cursor
func (r *MemoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.cursors)
}
