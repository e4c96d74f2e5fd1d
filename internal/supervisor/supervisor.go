// Package supervisor tracks the health of the per-platform discovery
// scrapers. A platform that fails repeatedly is disabled until a user
// re-enables it; everything else keeps running.
package supervisor

import (
	"log"
	"sync"
	"time"
)

// MaxConsecutiveFailures is the number of consecutive failed runs after
// which a platform is disabled.
const MaxConsecutiveFailures = 3

// HealthStatus is a platform's operational state.
type HealthStatus string

const (
	StatusActive   HealthStatus = "active"
	StatusDegraded HealthStatus = "degraded"
	StatusDisabled HealthStatus = "disabled"
)

// PlatformHealth is the tracked state for one platform.
type PlatformHealth struct {
	Status              HealthStatus `json:"status"`
	TotalRuns           int          `json:"total_runs"`
	TotalJobsFound      int          `json:"total_jobs_found"`
	ConsecutiveFailures int          `json:"consecutive_failures"`
	LastRunTime         *time.Time   `json:"last_run_time,omitempty"`
	LastRunDuration     float64      `json:"last_run_duration"`
	LastError           string       `json:"last_error,omitempty"`
	LastJobCount        int          `json:"last_job_count"`
}

// Summary aggregates health across platforms.
type Summary struct {
	ActivePlatforms   int `json:"active_platforms"`
	DegradedPlatforms int `json:"degraded_platforms"`
	DisabledPlatforms int `json:"disabled_platforms"`
	TotalJobsFound    int `json:"total_jobs_found"`
}

// Report is the full health report served by the API.
type Report struct {
	Summary   Summary                   `json:"summary"`
	Platforms map[string]PlatformHealth `json:"platforms"`
}

// Supervisor monitors scraper runs. Safe for concurrent use.
type Supervisor struct {
	mu     sync.Mutex
	health map[string]*PlatformHealth
	now    func() time.Time
}

// New creates a supervisor tracking the given platforms, all starting active.
func New(platforms []string) *Supervisor {
	s := &Supervisor{
		health: make(map[string]*PlatformHealth, len(platforms)),
		now:    time.Now,
	}
	for _, p := range platforms {
		s.health[p] = &PlatformHealth{Status: StatusActive}
	}
	return s
}

// RecordSuccess records a successful scraper run. A success fully restores
// a degraded platform.
func (s *Supervisor) RecordSuccess(platform string, jobCount int, duration time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h := s.get(platform)
	now := s.now()
	h.Status = StatusActive
	h.TotalRuns++
	h.TotalJobsFound += jobCount
	h.ConsecutiveFailures = 0
	h.LastRunTime = &now
	h.LastRunDuration = duration.Seconds()
	h.LastError = ""
	h.LastJobCount = jobCount

	log.Printf("[supervisor] %s: success, %d jobs in %.1fs", platform, jobCount, duration.Seconds())
}

// RecordFailure records a failed scraper run. After MaxConsecutiveFailures
// in a row the platform is disabled; until then it is degraded.
func (s *Supervisor) RecordFailure(platform string, runErr error, duration time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h := s.get(platform)
	now := s.now()
	h.TotalRuns++
	h.ConsecutiveFailures++
	h.LastRunTime = &now
	h.LastRunDuration = duration.Seconds()
	h.LastJobCount = 0
	if runErr != nil {
		h.LastError = runErr.Error()
	}

	if h.ConsecutiveFailures >= MaxConsecutiveFailures {
		h.Status = StatusDisabled
		log.Printf("[supervisor] %s: DISABLED after %d consecutive failures", platform, h.ConsecutiveFailures)
	} else {
		h.Status = StatusDegraded
		log.Printf("[supervisor] %s: failure #%d: %v", platform, h.ConsecutiveFailures, runErr)
	}
}

// IsActive reports whether a platform is healthy enough to run.
// Degraded platforms still run; only disabled ones are skipped.
func (s *Supervisor) IsActive(platform string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.health[platform]
	if !ok {
		return true
	}
	return h.Status != StatusDisabled
}

// ReEnable manually restores a platform to active and clears its failure
// streak. Returns false if the platform is unknown.
func (s *Supervisor) ReEnable(platform string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.health[platform]
	if !ok {
		return false
	}
	h.Status = StatusActive
	h.ConsecutiveFailures = 0
	log.Printf("[supervisor] %s: re-enabled by user", platform)
	return true
}

// Report returns a snapshot of health across all platforms.
func (s *Supervisor) Report() Report {
	s.mu.Lock()
	defer s.mu.Unlock()

	report := Report{Platforms: make(map[string]PlatformHealth, len(s.health))}
	for name, h := range s.health {
		report.Platforms[name] = *h
		switch h.Status {
		case StatusActive:
			report.Summary.ActivePlatforms++
		case StatusDegraded:
			report.Summary.DegradedPlatforms++
		case StatusDisabled:
			report.Summary.DisabledPlatforms++
		}
		report.Summary.TotalJobsFound += h.TotalJobsFound
	}
	return report
}

// get returns the tracked health for a platform, creating it on first use
// so untracked platforms can still report runs.
func (s *Supervisor) get(platform string) *PlatformHealth {
	h, ok := s.health[platform]
	if !ok {
		h = &PlatformHealth{Status: StatusActive}
		s.health[platform] = h
	}
	return h
}
