package eventlog

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/phishplay/phishplay-backend/internal/core"
	"go.uber.org/zap"
)

// SelectedElementsSeparator joins selected UI element ids in one CSV field
const SelectedElementsSeparator = "|"

// Header is the column order of the event log
var Header = []string{"timestamp", "user_id", "action", "score", "message_hash", "event_id", "selected_elements"}

// CSVStore is an append-only CSV implementation of the EventStore interface
type CSVStore struct {
	path   string
	fsync  bool
	logger *zap.Logger
	mu     sync.Mutex
}

var _ core.EventStore = (*CSVStore)(nil)

// NewCSVStore creates a new CSV event store. The file is created lazily on first append.
func NewCSVStore(path string, fsync bool, logger *zap.Logger) (*CSVStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create event log directory: %w", err)
		}
	}

	return &CSVStore{
		path:   path,
		fsync:  fsync,
		logger: logger,
	}, nil
}

// Path returns the file the store appends to
func (s *CSVStore) Path() string {
	return s.path
}

// Append writes one record, preceded by the header row when the file is new.
// Header and row go out in a single write.
func (s *CSVStore) Append(ctx context.Context, record *core.EventRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	needsHeader := false
	info, err := os.Stat(s.path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		needsHeader = true
	case err != nil:
		return fmt.Errorf("failed to stat event log: %w", err)
	case info.Size() == 0:
		needsHeader = true
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if needsHeader {
		if err := w.Write(Header); err != nil {
			return fmt.Errorf("failed to encode header: %w", err)
		}
	}
	if err := w.Write(encode(record)); err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open event log: %w", err)
	}

	if _, err := f.Write(buf.Bytes()); err != nil {
		f.Close()
		return fmt.Errorf("failed to write event log: %w", err)
	}

	if s.fsync {
		if err := f.Sync(); err != nil {
			f.Close()
			return fmt.Errorf("failed to sync event log: %w", err)
		}
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close event log: %w", err)
	}

	if needsHeader {
		s.logger.Info("Created event log", zap.String("path", s.path))
	}

	return nil
}

func encode(record *core.EventRecord) []string {
	return []string{
		record.Timestamp.Format(time.RFC3339Nano),
		record.UserID,
		record.Action,
		strconv.FormatFloat(record.Score, 'f', -1, 64),
		record.MessageHash,
		record.EventID,
		strings.Join(record.SelectedElements, SelectedElementsSeparator),
	}
}

// ReadAll decodes every event from a log produced by CSVStore
func ReadAll(r io.Reader) ([]core.EventRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(Header)

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read event log: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	if strings.Join(rows[0], ",") != strings.Join(Header, ",") {
		return nil, fmt.Errorf("unexpected event log header %v", rows[0])
	}

	events := make([]core.EventRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		ts, err := time.Parse(time.RFC3339Nano, row[0])
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid timestamp: %w", i+2, err)
		}
		score, err := strconv.ParseFloat(row[3], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid score: %w", i+2, err)
		}
		selected := []string{}
		if row[6] != "" {
			selected = strings.Split(row[6], SelectedElementsSeparator)
		}
		events = append(events, core.EventRecord{
			Timestamp:        ts,
			UserID:           row[1],
			Action:           row[2],
			Score:            score,
			MessageHash:      row[4],
			EventID:          row[5],
			SelectedElements: selected,
		})
	}

	return events, nil
}
