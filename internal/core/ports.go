package core

import (
	"context"
)

// Dataset is the read-only, ordered scenario collection loaded at startup
type Dataset interface {
	// Get returns the record at index, or false if index is out of range
	Get(index int) (EmailRecord, bool)

	// Size returns the number of records
	Size() int
}

// ProgressRepository stores the per-user cursor into the dataset
type ProgressRepository interface {
	// Get returns the next index to serve for a user, or ErrNotFound for unseen users
	Get(ctx context.Context, userID string) (int, error)

	// Set stores the next index to serve for a user
	Set(ctx context.Context, userID string, next int) error
}

// EventStore persists event records in append order
type EventStore interface {
	// Append writes one record; it must not interleave with concurrent appends
	Append(ctx context.Context, record *EventRecord) error
}

// Scorer estimates how likely a piece of text is to be phishing
type Scorer interface {
	// ScoreText analyzes text and returns a score with cue flags
	ScoreText(ctx context.Context, text string) (*ScoreResult, error)
}

// Mailer delivers a training email to a real mailbox
type Mailer interface {
	// CanDeliver reports why to may not receive training mail, or nil if it may
	CanDeliver(to string) error

	// Deliver sends record to the given recipient address
	Deliver(ctx context.Context, to string, record EmailRecord) error
}
