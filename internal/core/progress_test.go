package core

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type sliceDataset []EmailRecord

func (d sliceDataset) Get(index int) (EmailRecord, bool) {
	if index < 0 || index >= len(d) {
		return EmailRecord{}, false
	}
	return d[index], true
}

func (d sliceDataset) Size() int { return len(d) }

func makeDataset(n int) sliceDataset {
	d := make(sliceDataset, n)
	for i := range d {
		d[i] = EmailRecord{
			Index:      i,
			ID:         strconv.Itoa(i),
			Sender:     "sender" + strconv.Itoa(i) + "@example.com",
			Cues:       []string{" urgency_tactic ", "", "suspicious_link"},
			IsPhishing: i%2 == 0,
		}
	}
	return d
}

type mapRepo struct {
	mu      sync.Mutex
	cursors map[string]int
}

func newMapRepo() *mapRepo { return &mapRepo{cursors: map[string]int{}} }

func (r *mapRepo) Get(_ context.Context, userID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	next, ok := r.cursors[userID]
	if !ok {
		return 0, ErrNotFound
	}
	return next, nil
}

func (r *mapRepo) Set(_ context.Context, userID string, next int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cursors[userID] = next
	return nil
}

// MockProgressRepository mocks the ProgressRepository interface
type MockProgressRepository struct {
	mock.Mock
}

func (m *MockProgressRepository) Get(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockProgressRepository) Set(ctx context.Context, userID string, next int) error {
	args := m.Called(ctx, userID, next)
	return args.Error(0)
}

func TestNextFor_AliceAndBob(t *testing.T) {
	tracker := NewProgressTracker(makeDataset(2), newMapRepo(), zap.NewNop())
	ctx := context.Background()

	first, err := tracker.NextFor(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 0, first.Index)

	second, err := tracker.NextFor(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, second.Index)

	_, err = tracker.NextFor(ctx, "alice")
	assert.ErrorIs(t, err, ErrNoMoreEmails)

	bob, err := tracker.NextFor(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, 0, bob.Index)
}

func TestNextFor_CleansCues(t *testing.T) {
	tracker := NewProgressTracker(makeDataset(1), newMapRepo(), zap.NewNop())

	record, err := tracker.NextFor(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"urgency_tactic", "suspicious_link"}, record.Cues)
	assert.True(t, record.IsPhishing)
}

func TestNextFor_EmptyDataset(t *testing.T) {
	tracker := NewProgressTracker(sliceDataset{}, newMapRepo(), zap.NewNop())

	_, err := tracker.NextFor(context.Background(), "alice")
	assert.ErrorIs(t, err, ErrNoMoreEmails)
}

func TestNextFor_RepositoryReadError(t *testing.T) {
	repo := new(MockProgressRepository)
	repo.On("Get", mock.Anything, "alice").Return(0, errors.New("disk on fire"))

	tracker := NewProgressTracker(makeDataset(3), repo, zap.NewNop())
	_, err := tracker.NextFor(context.Background(), "alice")

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoMoreEmails)
	repo.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
}

func TestNextFor_RepositoryWriteError(t *testing.T) {
	repo := new(MockProgressRepository)
	repo.On("Get", mock.Anything, "alice").Return(1, nil)
	repo.On("Set", mock.Anything, "alice", 2).Return(errors.New("read-only"))

	tracker := NewProgressTracker(makeDataset(3), repo, zap.NewNop())
	_, err := tracker.NextFor(context.Background(), "alice")

	require.Error(t, err)
	repo.AssertExpectations(t)
}

func TestNextFor_AdvanceSurvivesCancelledContext(t *testing.T) {
	repo := newMapRepo()
	tracker := NewProgressTracker(makeDataset(3), repo, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	record, err := tracker.NextFor(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 0, record.Index)

	next, err := repo.Get(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, next)
}

func TestNextFor_ConcurrentSameUserNoSkipNoRepeat(t *testing.T) {
	const size = 50
	tracker := NewProgressTracker(makeDataset(size), newMapRepo(), zap.NewNop())

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		seen      = map[int]int{}
		exhausted int
	)
	for i := 0; i < size+10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			record, err := tracker.NextFor(context.Background(), "alice")
			mu.Lock()
			defer mu.Unlock()
			if errors.Is(err, ErrNoMoreEmails) {
				exhausted++
				return
			}
			seen[record.Index]++
		}()
	}
	wg.Wait()

	assert.Len(t, seen, size)
	for idx, count := range seen {
		assert.Equal(t, 1, count, "index %d served more than once", idx)
	}
	assert.Equal(t, 10, exhausted)
}

func TestPosition(t *testing.T) {
	tracker := NewProgressTracker(makeDataset(3), newMapRepo(), zap.NewNop())
	ctx := context.Background()

	served, total, err := tracker.Position(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 0, served)
	assert.Equal(t, 3, total)

	_, err = tracker.NextFor(ctx, "alice")
	require.NoError(t, err)

	served, _, err = tracker.Position(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, served)
}

func TestProperty_SequentialFetchOrderAndStickyExhaustion(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("fetches yield 0..N-1 then not-found forever", prop.ForAll(
		func(size int, extra int) bool {
			tracker := NewProgressTracker(makeDataset(size), newMapRepo(), zap.NewNop())
			ctx := context.Background()

			for i := 0; i < size; i++ {
				record, err := tracker.NextFor(ctx, "user")
				if err != nil || record.Index != i {
					return false
				}
			}
			for i := 0; i < extra; i++ {
				if _, err := tracker.NextFor(ctx, "user"); !errors.Is(err, ErrNoMoreEmails) {
					return false
				}
			}
			return true
		},
		gen.IntRange(0, 30),
		gen.IntRange(1, 5),
	))

	properties.Property("cursors are independent per user", prop.ForAll(
		func(aliceFetches int) bool {
			tracker := NewProgressTracker(makeDataset(10), newMapRepo(), zap.NewNop())
			ctx := context.Background()
			for i := 0; i < aliceFetches; i++ {
				if _, err := tracker.NextFor(ctx, "alice"); err != nil {
					return false
				}
			}
			record, err := tracker.NextFor(ctx, "bob")
			return err == nil && record.Index == 0
		},
		gen.IntRange(0, 10),
	))

	properties.TestingRun(t)
}
