package core

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EventLogger records user actions in the append-only event store
type EventLogger struct {
	store  EventStore
	logger *zap.Logger
	now    func() time.Time
	nonce  func() string
}

// NewEventLogger creates a new event logger
func NewEventLogger(store EventStore, logger *zap.Logger) *EventLogger {
	return &EventLogger{
		store:  store,
		logger: logger,
		now:    time.Now,
		nonce:  func() string { return uuid.NewString() },
	}
}

// WithClock overrides the clock and, when non-nil, the nonce source
func (l *EventLogger) WithClock(now func() time.Time, nonce func() string) *EventLogger {
	l.now = now
	if nonce != nil {
		l.nonce = nonce
	}
	return l
}

// NewEventID derives a 64 hex character identifier for an event.
// The random nonce keeps identifiers unique when two events share user, message and instant.
func NewEventID(userID, messageHash string, at time.Time, nonce string) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s-%s-%s-%s", userID, messageHash, at.Format(time.RFC3339Nano), nonce)))
	return hex.EncodeToString(sum[:])
}

// Log appends one event and returns its identifier.
// Store failures are returned to the caller and not retried.
func (l *EventLogger) Log(ctx context.Context, submission EventSubmission) (string, error) {
	at := l.now().UTC()

	selected := submission.SelectedElements
	if selected == nil {
		selected = []string{}
	}

	record := &EventRecord{
		Timestamp:        at,
		UserID:           submission.UserID,
		Action:           submission.Action,
		Score:            submission.Score,
		MessageHash:      submission.MessageHash,
		EventID:          NewEventID(submission.UserID, submission.MessageHash, at, l.nonce()),
		SelectedElements: selected,
	}

	if err := l.store.Append(context.WithoutCancel(ctx), record); err != nil {
		l.logger.Error("Failed to append event",
			zap.String("user_id", record.UserID),
			zap.String("action", record.Action),
			zap.Error(err))
		return "", fmt.Errorf("failed to append event: %w", err)
	}

	l.logger.Info("Logged event",
		zap.String("event_id", record.EventID),
		zap.String("user_id", record.UserID),
		zap.String("action", record.Action),
		zap.Float64("score", record.Score))

	return record.EventID, nil
}
