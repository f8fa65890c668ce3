package web

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrTooManyRuns is returned when every run slot stays busy for the whole
// wait period. Clients should retry after a short delay.
var ErrTooManyRuns = errors.New("too many concurrent runs, please try again later")

const (
	defaultMaxRuns    = 2
	defaultMaxRunWait = 30 * time.Second
	drainPollInterval = 50 * time.Millisecond
)

// RunLimiter bounds how many uploaded files are processed at once. Every run
// holds its tables in memory, so the slot count caps peak memory use.
type RunLimiter struct {
	slots   chan struct{}
	maxWait time.Duration

	mu    sync.Mutex
	total int64 // runs admitted since start
}

// RunLimiterStatus is a snapshot of the limiter for the health endpoint.
type RunLimiterStatus struct {
	Active    int   `json:"active"`
	Available int   `json:"available"`
	Max       int   `json:"max"`
	Total     int64 `json:"total"`
}

// NewRunLimiter allows maxRuns runs at once; a request waits at most maxWait
// for a slot. Non-positive values fall back to 2 runs and 30s.
func NewRunLimiter(maxRuns int, maxWait time.Duration) *RunLimiter {
	if maxRuns <= 0 {
		maxRuns = defaultMaxRuns
	}
	if maxWait <= 0 {
		maxWait = defaultMaxRunWait
	}
	return &RunLimiter{
		slots:   make(chan struct{}, maxRuns),
		maxWait: maxWait,
	}
}

// Acquire takes a run slot. The returned release function frees it and is
// safe to call more than once. On failure the error is ErrTooManyRuns or the
// context error.
func (l *RunLimiter) Acquire(ctx context.Context) (release func(), err error) {
	timer := time.NewTimer(l.maxWait)
	defer timer.Stop()

	select {
	case l.slots <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
		return nil, ErrTooManyRuns
	}

	l.mu.Lock()
	l.total++
	l.mu.Unlock()

	var once sync.Once
	return func() { once.Do(func() { <-l.slots }) }, nil
}

// Active returns the number of runs in progress.
func (l *RunLimiter) Active() int {
	return len(l.slots)
}

// Status returns the current limiter state.
func (l *RunLimiter) Status() RunLimiterStatus {
	l.mu.Lock()
	total := l.total
	l.mu.Unlock()

	active := len(l.slots)
	return RunLimiterStatus{
		Active:    active,
		Available: cap(l.slots) - active,
		Max:       cap(l.slots),
		Total:     total,
	}
}

// WaitForDrain blocks until no run is in progress or ctx is done.
func (l *RunLimiter) WaitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(drainPollInterval)
	defer ticker.Stop()

	for l.Active() > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}
