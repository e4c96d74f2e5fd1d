// Package scheduler runs discovery scans on a fixed interval.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// ScanFunc runs one discovery scan.
type ScanFunc func(ctx context.Context) error

// Status is a snapshot of the scheduler state.
type Status struct {
	Running  bool       `json:"running"`
	Interval string     `json:"interval"`
	NextRun  *time.Time `json:"next_run,omitempty"`
	LastRun  *time.Time `json:"last_run,omitempty"`
	RunCount int        `json:"run_count"`
}

// Scheduler triggers periodic scans with an initial stabilization delay so
// a fresh deploy does not start scraping before the rest of the process is
// warmed up.
type Scheduler struct {
	interval     time.Duration
	initialDelay time.Duration
	scan         ScanFunc

	mu       sync.Mutex
	cron     *cron.Cron
	entryID  cron.EntryID
	cancel   context.CancelFunc
	lastRun  *time.Time
	runCount int
}

// New creates a scheduler. The scan function runs every interval after an
// initial delay once Start is called.
func New(interval, initialDelay time.Duration, scan ScanFunc) *Scheduler {
	return &Scheduler{
		interval:     interval,
		initialDelay: initialDelay,
		scan:         scan,
	}
}

// Start begins the periodic scan loop. Starting a running scheduler is an
// error.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil {
		return fmt.Errorf("scheduler already running")
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	c := cron.New()
	spec := fmt.Sprintf("@every %s", s.interval)
	entryID, err := c.AddFunc(spec, func() { s.runScan(ctx) })
	if err != nil {
		cancel()
		return fmt.Errorf("schedule scan: %w", err)
	}
	s.cron = c
	s.entryID = entryID
	c.Start()

	// First scan after the stabilization delay, off the cron cadence.
	go func() {
		select {
		case <-time.After(s.initialDelay):
			s.runScan(ctx)
		case <-ctx.Done():
		}
	}()

	log.Printf("[scheduler] started, interval %s, first scan in %s", s.interval, s.initialDelay)
	return nil
}

// Stop halts the scan loop. In-flight scans are cancelled through their
// context.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron == nil {
		return
	}
	s.cron.Stop()
	s.cron = nil
	s.cancel()
	s.cancel = nil
	log.Printf("[scheduler] stopped")
}

// Running reports whether the scan loop is active.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cron != nil
}

// Status returns a snapshot of the scheduler state.
func (s *Scheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := Status{
		Running:  s.cron != nil,
		Interval: s.interval.String(),
		LastRun:  s.lastRun,
		RunCount: s.runCount,
	}
	if s.cron != nil {
		next := s.cron.Entry(s.entryID).Next
		if !next.IsZero() {
			status.NextRun = &next
		}
	}
	return status
}

func (s *Scheduler) runScan(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	now := time.Now()
	s.mu.Lock()
	s.lastRun = &now
	s.runCount++
	s.mu.Unlock()

	log.Printf("[scheduler] scan starting")
	if err := s.scan(ctx); err != nil {
		log.Printf("[scheduler] scan failed: %v", err)
		return
	}
	log.Printf("[scheduler] scan finished")
}
