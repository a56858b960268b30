package core

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// ProgressTracker serves each user the next unseen dataset record
type ProgressTracker struct {
	dataset Dataset
	repo    ProgressRepository
	logger  *zap.Logger

	// one mutex per user; cursors are never destroyed so neither are these
	locks sync.Map
}

// NewProgressTracker creates a new progress tracker
func NewProgressTracker(dataset Dataset, repo ProgressRepository, logger *zap.Logger) *ProgressTracker {
	return &ProgressTracker{
		dataset: dataset,
		repo:    repo,
		logger:  logger,
	}
}

func (t *ProgressTracker) lockFor(userID string) *sync.Mutex {
	mu, _ := t.locks.LoadOrStore(userID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// cursor returns the stored cursor for a user, defaulting to 0 for unseen users
func (t *ProgressTracker) cursor(ctx context.Context, userID string) (int, error) {
	next, err := t.repo.Get(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read cursor for %q: %w", userID, err)
	}
	return next, nil
}

// NextFor returns the next unseen record for a user and advances the cursor.
// It returns ErrNoMoreEmails once the user has been served every record.
func (t *ProgressTracker) NextFor(ctx context.Context, userID string) (EmailRecord, error) {
	mu := t.lockFor(userID)
	mu.Lock()
	defer mu.Unlock()

	// the advance below must not be abandoned half way
	ctx = context.WithoutCancel(ctx)

	next, err := t.cursor(ctx, userID)
	if err != nil {
		return EmailRecord{}, err
	}

	if next >= t.dataset.Size() {
		t.logger.Debug("User exhausted dataset",
			zap.String("user_id", userID),
			zap.Int("cursor", next))
		return EmailRecord{}, ErrNoMoreEmails
	}

	record, ok := t.dataset.Get(next)
	if !ok {
		return EmailRecord{}, fmt.Errorf("dataset record %d missing", next)
	}

	if err := t.repo.Set(ctx, userID, next+1); err != nil {
		return EmailRecord{}, fmt.Errorf("failed to advance cursor for %q: %w", userID, err)
	}

	t.logger.Debug("Served email",
		zap.String("user_id", userID),
		zap.Int("index", next),
		zap.String("email_id", record.ID))

	record.Cues = CleanCues(record.Cues)
	return record, nil
}

// Position reports how many records a user has been served out of the dataset total
func (t *ProgressTracker) Position(ctx context.Context, userID string) (served int, total int, err error) {
	served, err = t.cursor(ctx, userID)
	if err != nil {
		return 0, 0, err
	}
	total = t.dataset.Size()
	if served > total {
		served = total
	}
	return served, total, nil
}
