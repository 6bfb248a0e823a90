package ui

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

const (
	ProgressBar   = "█"
	ProgressEmpty = "░"
	progressWidth = 20
)

// StatusTracker counts profile outcomes and renders a one-line progress bar.
// It is safe for concurrent use by fetch workers.
type StatusTracker struct {
	mu        sync.Mutex
	total     int
	scraped   int
	partial   int
	failed    map[string]error
	startTime time.Time
	live      bool
	printMu   sync.Mutex
}

// NewStatusTracker creates a tracker for total profiles.
// With live set, the progress line is redrawn after every outcome.
func NewStatusTracker(total int, live bool) *StatusTracker {
	return &StatusTracker{
		total:     total,
		failed:    make(map[string]error),
		startTime: time.Now(),
		live:      live,
	}
}

// Scraped records a fully parsed profile
func (st *StatusTracker) Scraped(username string) {
	st.mu.Lock()
	st.scraped++
	st.mu.Unlock()
	st.refresh()
}

// Partial records a profile whose page carried no embedded data
func (st *StatusTracker) Partial(username string) {
	st.mu.Lock()
	st.partial++
	st.mu.Unlock()
	st.refresh()
}

// Failed records a profile that could not be fetched
func (st *StatusTracker) Failed(username string, err error) {
	st.mu.Lock()
	st.failed[username] = err
	st.mu.Unlock()
	st.refresh()
}

// Counts returns the scraped, partial and failed totals
func (st *StatusTracker) Counts() (scraped, partial, failed int) {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.scraped, st.partial, len(st.failed)
}

// Done returns the number of finished profiles
func (st *StatusTracker) Done() int {
	scraped, partial, failed := st.Counts()
	return scraped + partial + failed
}

// FailedUsernames returns the usernames that failed, sorted
func (st *StatusTracker) FailedUsernames() []string {
	st.mu.Lock()
	defer st.mu.Unlock()

	names := make([]string, 0, len(st.failed))
	for name := range st.failed {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetProgressBar returns a formatted progress bar over all profiles
func (st *StatusTracker) GetProgressBar() string {
	done := st.Done()
	filled := 0
	if st.total > 0 {
		filled = done * progressWidth / st.total
	}
	if filled > progressWidth {
		filled = progressWidth
	}

	bar := strings.Repeat(ProgressBar, filled) +
		strings.Repeat(ProgressEmpty, progressWidth-filled)

	return fmt.Sprintf("[%s] %d/%d", bar, done, st.total)
}

// GetElapsedTime returns the elapsed time since tracking started
func (st *StatusTracker) GetElapsedTime() time.Duration {
	return time.Since(st.startTime)
}

// GetRate returns finished profiles per minute
func (st *StatusTracker) GetRate() float64 {
	elapsed := st.GetElapsedTime().Minutes()
	if elapsed == 0 {
		return 0
	}
	return float64(st.Done()) / elapsed
}

// PrintProgress prints the current progress status
func (st *StatusTracker) PrintProgress() {
	scraped, partial, failed := st.Counts()
	printf("\r%s %s | ok %d | partial %d | failed %d",
		Green("[PROFILES]"),
		st.GetProgressBar(),
		scraped, partial, failed)
}

// PrintSummary prints the final counts and the failed usernames
func (st *StatusTracker) PrintSummary() {
	scraped, partial, failed := st.Counts()

	printf("\n\n%s\n", Magenta("[SUMMARY]"))
	PrintInfo("Scraped", fmt.Sprintf("%d", scraped))
	PrintInfo("Partial", fmt.Sprintf("%d", partial))
	PrintInfo("Failed", fmt.Sprintf("%d", failed))
	PrintInfo("Elapsed", st.GetElapsedTime().Round(time.Millisecond).String())

	for _, name := range st.FailedUsernames() {
		st.mu.Lock()
		err := st.failed[name]
		st.mu.Unlock()
		PrintError("  "+name, err)
	}
}

func (st *StatusTracker) refresh() {
	if !st.live {
		return
	}
	st.printMu.Lock()
	defer st.printMu.Unlock()
	st.PrintProgress()
}
