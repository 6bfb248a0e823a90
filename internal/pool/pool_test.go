package pool

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"igprofiler/pkg/models"
)

// mockFetcher records concurrency and fails for configured usernames
type mockFetcher struct {
	delay    time.Duration
	failFor  map[string]bool
	calls    int32
	inFlight int32
	peak     int32
}

func (m *mockFetcher) FetchProfile(ctx context.Context, username string) *models.ProfileRecord {
	atomic.AddInt32(&m.calls, 1)
	n := atomic.AddInt32(&m.inFlight, 1)
	defer atomic.AddInt32(&m.inFlight, -1)

	for {
		peak := atomic.LoadInt32(&m.peak)
		if n <= peak || atomic.CompareAndSwapInt32(&m.peak, peak, n) {
			break
		}
	}

	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return nil
		}
	}
	if m.failFor[username] {
		return nil
	}
	return &models.ProfileRecord{Username: username}
}

func runAll(t *testing.T, wp *WorkerPool, usernames []string) []FetchResult {
	t.Helper()

	wp.Start()
	go func() {
		for _, u := range usernames {
			if err := wp.Submit(FetchJob{Username: u}); err != nil {
				break
			}
		}
		wp.Stop()
	}()

	var results []FetchResult
	for r := range wp.Results() {
		results = append(results, r)
	}
	return results
}

func TestWorkerPoolProcessesAllJobs(t *testing.T) {
	fetcher := &mockFetcher{failFor: map[string]bool{"ghost": true}}
	wp := NewWorkerPool(context.Background(), 3, fetcher, nil)

	usernames := []string{"alice", "bob", "ghost", "carol", "dave"}
	results := runAll(t, wp, usernames)

	require.Len(t, results, len(usernames))

	var got []string
	for _, r := range results {
		got = append(got, r.Job.Username)
		if r.Job.Username == "ghost" {
			assert.Nil(t, r.Profile)
			continue
		}
		require.NotNil(t, r.Profile)
		assert.Equal(t, r.Job.Username, r.Profile.Username)
	}
	sort.Strings(got)
	assert.Equal(t, []string{"alice", "bob", "carol", "dave", "ghost"}, got)
	assert.Equal(t, int32(5), atomic.LoadInt32(&fetcher.calls))
}

func TestWorkerPoolBoundsConcurrency(t *testing.T) {
	fetcher := &mockFetcher{delay: 20 * time.Millisecond}
	wp := NewWorkerPool(context.Background(), 2, fetcher, nil)

	usernames := make([]string, 10)
	for i := range usernames {
		usernames[i] = "user" + string(rune('a'+i))
	}
	results := runAll(t, wp, usernames)

	assert.Len(t, results, 10)
	assert.LessOrEqual(t, atomic.LoadInt32(&fetcher.peak), int32(2))
}

func TestWorkerPoolMinimumOneWorker(t *testing.T) {
	wp := NewWorkerPool(context.Background(), 0, &mockFetcher{}, nil)
	assert.Equal(t, 1, wp.NumWorkers())

	results := runAll(t, wp, []string{"solo"})
	assert.Len(t, results, 1)
}

func TestWorkerPoolCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	fetcher := &mockFetcher{delay: time.Second}
	wp := NewWorkerPool(ctx, 2, fetcher, nil)

	var wg sync.WaitGroup
	wg.Add(1)
	var results []FetchResult
	go func() {
		defer wg.Done()
		results = runAll(t, wp, []string{"a", "b", "c", "d", "e", "f"})
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("pool did not stop after cancellation")
	}

	assert.Less(t, len(results), 6)
	assert.ErrorIs(t, wp.Submit(FetchJob{Username: "late"}), ErrPoolStopped)
}
