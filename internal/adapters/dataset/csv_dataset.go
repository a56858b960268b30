package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/phishplay/phishplay-backend/internal/core"
	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"
)

// Column names of the scenario CSV
const (
	ColumnSender     = "sender_email"
	ColumnSubject    = "subject"
	ColumnBody       = "body"
	ColumnTags       = "tags"
	ColumnDifficulty = "difficulty"
	ColumnIsPhishing = "is_phishing"
	ColumnTheme      = "theme"
)

var requiredColumns = []string{ColumnSender, ColumnBody, ColumnDifficulty, ColumnIsPhishing}

// ErrSchema is returned when the CSV header lacks a required column
var ErrSchema = errors.New("dataset schema mismatch")

// Dataset is an immutable, in-memory scenario collection
type Dataset struct {
	records []core.EmailRecord
}

var _ core.Dataset = (*Dataset)(nil)

// New wraps already built records, mainly for tests and tooling
func New(records []core.EmailRecord) *Dataset {
	return &Dataset{records: records}
}

// LoadCSV reads and validates the scenario file at path
func LoadCSV(path string, defaultTheme string, logger *zap.Logger) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset %s: %w", path, err)
	}
	defer f.Close()

	ds, err := Parse(f, defaultTheme)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset %s: %w", path, err)
	}

	logger.Info("Loaded scenario dataset",
		zap.String("path", path),
		zap.Int("records", ds.Size()))

	return ds, nil
}

// Parse reads scenario records from CSV
func Parse(r io.Reader, defaultTheme string) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimPrefix(name, "\ufeff")
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}

	var missing []string
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing columns %s", ErrSchema, strings.Join(missing, ", "))
	}

	field := func(row []string, name string) string {
		i, ok := columns[name]
		if !ok {
			return ""
		}
		return norm.NFC.String(strings.TrimSpace(row[i]))
	}

	var records []core.EmailRecord
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}

		isPhishing, err := ParseBool(field(row, ColumnIsPhishing))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		theme := field(row, ColumnTheme)
		if theme == "" {
			theme = defaultTheme
		}

		index := len(records)
		records = append(records, core.EmailRecord{
			Index:      index,
			ID:         strconv.Itoa(index),
			Theme:      theme,
			Sender:     field(row, ColumnSender),
			Subject:    field(row, ColumnSubject),
			Body:       field(row, ColumnBody),
			Cues:       SplitCues(field(row, ColumnTags)),
			Difficulty: field(row, ColumnDifficulty),
			IsPhishing: isPhishing,
		})
	}

	return &Dataset{records: records}, nil
}

// SplitCues splits a delimited tag field into cleaned cues
func SplitCues(raw string) []string {
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';' || r == '|'
	})
	return core.CleanCues(parts)
}

// ParseBool accepts the boolean spellings found in labelled phishing corpora
func ParseBool(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "t", "yes", "y":
		return true, nil
	case "0", "false", "f", "no", "n":
		return false, nil
	}
	if f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil && (f == 0 || f == 1) {
		return f == 1, nil
	}
	return false, fmt.Errorf("invalid %s value %q", ColumnIsPhishing, raw)
}

// Get returns the record at index
func (d *Dataset) Get(index int) (core.EmailRecord, bool) {
	if index < 0 || index >= len(d.records) {
		return core.EmailRecord{}, false
	}
	record := d.records[index]
	record.Cues = append([]string(nil), record.Cues...)
	return record, true
}

// Size returns the number of records
func (d *Dataset) Size() int {
	return len(d.records)
}
