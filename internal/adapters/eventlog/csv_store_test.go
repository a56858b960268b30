package eventlog

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/phishplay/phishplay-backend/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newStore(t *testing.T) *CSVStore {
	t.Helper()
	store, err := NewCSVStore(filepath.Join(t.TempDir(), "logs", "events.csv"), false, zap.NewNop())
	require.NoError(t, err)
	return store
}

func readRows(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func sampleRecord(i int) *core.EventRecord {
	return &core.EventRecord{
		Timestamp:        time.Date(2025, 3, 1, 12, 0, i, 0, time.UTC),
		UserID:           "alice",
		Action:           "reported",
		Score:            0.9,
		MessageHash:      fmt.Sprintf("hash-%d", i),
		EventID:          fmt.Sprintf("%064d", i),
		SelectedElements: []string{"link1", "button2"},
	}
}

func TestAppend_HeaderOnceThenRows(t *testing.T) {
	store := newStore(t)
	const k = 5
	for i := 0; i < k; i++ {
		require.NoError(t, store.Append(context.Background(), sampleRecord(i)))
	}

	rows := readRows(t, store.Path())
	require.Len(t, rows, k+1)
	assert.Equal(t, Header, rows[0])
	for i, row := range rows[1:] {
		assert.Equal(t, "2025-03-01T12:00:0"+fmt.Sprint(i)+"Z", row[0])
		assert.Equal(t, "alice", row[1])
		assert.Equal(t, "reported", row[2])
		assert.Equal(t, "0.9", row[3])
		assert.Equal(t, fmt.Sprintf("hash-%d", i), row[4])
		assert.Equal(t, fmt.Sprintf("%064d", i), row[5])
		assert.Equal(t, "link1|button2", row[6])
	}
}

func TestAppend_ExistingFileGetsNoHeader(t *testing.T) {
	store := newStore(t)
	require.NoError(t, os.WriteFile(store.Path(), []byte(strings.Join(Header, ",")+"\n"), 0o644))

	require.NoError(t, store.Append(context.Background(), sampleRecord(0)))

	rows := readRows(t, store.Path())
	assert.Len(t, rows, 2)
}

func TestAppend_EmptySelectedElements(t *testing.T) {
	store := newStore(t)
	rec := sampleRecord(0)
	rec.SelectedElements = nil
	require.NoError(t, store.Append(context.Background(), rec))

	rows := readRows(t, store.Path())
	assert.Equal(t, "", rows[1][6])
}

func TestAppend_ConcurrentWritersDoNotInterleave(t *testing.T) {
	store := newStore(t)
	const writers = 40

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, store.Append(context.Background(), sampleRecord(i%60)))
		}(i)
	}
	wg.Wait()

	rows := readRows(t, store.Path())
	require.Len(t, rows, writers+1)
	assert.Equal(t, Header, rows[0])
	for _, row := range rows[1:] {
		assert.Len(t, row, len(Header))
		assert.NotEqual(t, "timestamp", row[0])
	}
}

func TestAppend_UnwritablePath(t *testing.T) {
	dir := t.TempDir()
	// a directory where the file should be makes every open fail
	path := filepath.Join(dir, "events.csv")
	require.NoError(t, os.Mkdir(path, 0o755))

	store, err := NewCSVStore(path, true, zap.NewNop())
	require.NoError(t, err)

	assert.Error(t, store.Append(context.Background(), sampleRecord(0)))
}

func TestReadAll_RoundTrip(t *testing.T) {
	store := newStore(t)
	require.NoError(t, store.Append(context.Background(), sampleRecord(1)))
	rec := sampleRecord(2)
	rec.SelectedElements = nil
	require.NoError(t, store.Append(context.Background(), rec))

	f, err := os.Open(store.Path())
	require.NoError(t, err)
	defer f.Close()

	events, err := ReadAll(f)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, []string{"link1", "button2"}, events[0].SelectedElements)
	assert.Empty(t, events[1].SelectedElements)
	assert.Equal(t, "hash-2", events[1].MessageHash)
	assert.True(t, events[0].Timestamp.Equal(sampleRecord(1).Timestamp))
}

func TestReadAll_BadHeader(t *testing.T) {
	_, err := ReadAll(strings.NewReader("a,b,c,d,e,f,g\n"))
	assert.Error(t, err)
}
