// Package pipeline provides the high-level orchestration for discovery scans
// and application material generation.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ajsalpv/job-agent/internal/content"
	"github.com/ajsalpv/job-agent/internal/db"
	"github.com/ajsalpv/job-agent/internal/discovery"
	"github.com/ajsalpv/job-agent/internal/fetch"
	"github.com/ajsalpv/job-agent/internal/observability"
	"github.com/ajsalpv/job-agent/internal/scoring"
	"github.com/ajsalpv/job-agent/internal/supervisor"
)

// maxListingsPerSearch caps how many cards are extracted from one results page.
const maxListingsPerSearch = 25

// platformConcurrency bounds how many platforms are scraped at once.
const platformConcurrency = 3

// followUpDaysThreshold is the minimum age of an applied posting before it
// lands on the mirrored follow-ups tab.
const followUpDaysThreshold = 7

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Step     string `json:"step"`
	Category string `json:"category"`
	Message  string `json:"message"`
	Content  any    `json:"content,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// Progress step categories.
const (
	CategoryDiscovery = "discovery"
	CategoryScoring   = "scoring"
	CategoryTracking  = "tracking"
	CategoryContent   = "content"
)

// Store is the persistence surface the pipeline writes through.
type Store interface {
	FilterNewURLs(ctx context.Context, urls []string) ([]string, error)
	MarkSeen(ctx context.Context, platform string, urls []string) error
	CreateApplication(ctx context.Context, a *db.Application) (*db.Application, error)
	SetScore(ctx context.Context, id uuid.UUID, fitScore int, details map[string]any) error
	SetGeneratedContent(ctx context.Context, id uuid.UUID, interviewPrep, skillsToLearn string) error
	GetApplicationByID(ctx context.Context, id uuid.UUID) (*db.Application, error)
	GetStats(ctx context.Context) (*db.Stats, error)
	ListFollowUps(ctx context.Context, daysThreshold int) ([]db.Application, error)
}

// Notifier sends scan summaries to the user.
type Notifier interface {
	Enabled() bool
	Send(ctx context.Context, message string) error
}

// TrackerMirror keeps an external tracker in step with the database:
// one row per application, plus aggregate metrics and follow-up tabs
// refreshed after each scan.
type TrackerMirror interface {
	AppendApplication(ctx context.Context, app *db.Application) error
	SyncMetrics(ctx context.Context, stats *db.Stats) error
	SyncFollowUps(ctx context.Context, apps []db.Application, now time.Time) error
}

// ScanOptions holds configuration for one discovery run.
type ScanOptions struct {
	Keywords    []string
	Locations   []string
	Platforms   []fetch.Platform
	MinFitScore int
	Verbose     bool
	OnProgress  ProgressCallback
}

// ScanResult summarizes one discovery run.
type ScanResult struct {
	Discovered int              `json:"discovered"`
	New        int              `json:"new"`
	Scored     int              `json:"scored"`
	Matched    int              `json:"matched"`
	Elapsed    time.Duration    `json:"-"`
	ElapsedSec float64          `json:"elapsed_seconds"`
	TopJobs    []db.Application `json:"top_jobs,omitempty"`
}

// Runner wires the discovery, scoring, tracking, and notification stages.
type Runner struct {
	store     Store
	registry  *discovery.Registry
	super     *supervisor.Supervisor
	scorer    *scoring.Scorer
	generator *content.Generator
	notifier  Notifier
	mirror    TrackerMirror // nil when no sheet is configured
}

// NewRunner creates a pipeline runner. mirror may be nil.
func NewRunner(store Store, registry *discovery.Registry, super *supervisor.Supervisor,
	scorer *scoring.Scorer, generator *content.Generator, notifier Notifier, mirror TrackerMirror) *Runner {
	return &Runner{
		store:     store,
		registry:  registry,
		super:     super,
		scorer:    scorer,
		generator: generator,
		notifier:  notifier,
		mirror:    mirror,
	}
}

// Supervisor exposes the platform health tracker.
func (r *Runner) Supervisor() *supervisor.Supervisor {
	return r.super
}

// emitProgress calls the progress callback if configured
func emitProgress(opts *ScanOptions, step, category, message string, content any) {
	if opts.OnProgress != nil {
		opts.OnProgress(ProgressEvent{
			Step:     step,
			Category: category,
			Message:  message,
			Content:  content,
		})
	}
}

// RunScan executes a full discovery run: scrape every active platform for
// every keyword and location pair, dedupe against previously seen URLs,
// score the new postings, persist them, and send a summary notification.
func (r *Runner) RunScan(ctx context.Context, opts ScanOptions) (*ScanResult, error) {
	start := time.Now()
	printer := observability.NewPrinter(os.Stdout)

	platforms := opts.Platforms
	if len(platforms) == 0 {
		platforms = fetch.AllPlatforms()
	}

	listings, err := r.discoverAll(ctx, platforms, opts, printer)
	if err != nil {
		return nil, err
	}
	emitProgress(&opts, "discovery", CategoryDiscovery,
		fmt.Sprintf("Discovered %d listings across %d platforms", len(listings), len(platforms)), nil)

	fresh, err := r.filterSeen(ctx, listings)
	if err != nil {
		return nil, err
	}
	log.Printf("[pipeline] %d listings discovered, %d new", len(listings), len(fresh))

	scored, matched, top, err := r.scoreAndTrack(ctx, fresh, opts)
	if err != nil {
		return nil, err
	}
	emitProgress(&opts, "scoring", CategoryScoring,
		fmt.Sprintf("Scored %d new postings, %d above cutoff", scored, matched), nil)

	result := &ScanResult{
		Discovered: len(listings),
		New:        len(fresh),
		Scored:     scored,
		Matched:    matched,
		Elapsed:    time.Since(start),
		TopJobs:    top,
	}
	result.ElapsedSec = result.Elapsed.Seconds()

	if opts.Verbose {
		printer.PrintScoredJobs(top)
		printer.PrintPlatformHealth(r.super.Report())
		printer.PrintScanSummary(result.Discovered, result.New, result.Scored, result.Matched, result.Elapsed)
	}

	r.syncTracker(ctx)
	r.notifyScan(ctx, result)
	return result, nil
}

// syncTracker refreshes the mirror's metrics and follow-up tabs from the
// database. Mirror failures are logged, never fatal; Postgres stays the
// system of record.
func (r *Runner) syncTracker(ctx context.Context) {
	if r.mirror == nil {
		return
	}

	stats, err := r.store.GetStats(ctx)
	if err != nil {
		log.Printf("[pipeline] stats for tracker sync failed: %v", err)
	} else if err := r.mirror.SyncMetrics(ctx, stats); err != nil {
		log.Printf("[pipeline] metrics sync failed: %v", err)
	}

	followUps, err := r.store.ListFollowUps(ctx, followUpDaysThreshold)
	if err != nil {
		log.Printf("[pipeline] follow-ups for tracker sync failed: %v", err)
	} else if err := r.mirror.SyncFollowUps(ctx, followUps, time.Now()); err != nil {
		log.Printf("[pipeline] follow-ups sync failed: %v", err)
	}
}

// discoverAll fans out over the platforms with bounded concurrency. A
// platform failure is recorded with the supervisor and does not abort the
// scan; only context cancellation stops the run.
func (r *Runner) discoverAll(ctx context.Context, platforms []fetch.Platform, opts ScanOptions, printer *observability.Printer) ([]discovery.Listing, error) {
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(platformConcurrency)

	var mu sync.Mutex
	var all []discovery.Listing

	for _, platform := range platforms {
		agent, ok := r.registry.Agent(platform)
		if !ok {
			log.Printf("[pipeline] no agent for platform %s, skipping", platform)
			continue
		}
		if !r.super.IsActive(string(platform)) {
			log.Printf("[pipeline] %s is disabled, skipping", platform)
			continue
		}

		g.Go(func() error {
			platformStart := time.Now()
			found, err := r.discoverPlatform(gCtx, agent, opts)
			elapsed := time.Since(platformStart)

			if err != nil {
				r.super.RecordFailure(string(platform), err, elapsed)
				if gCtx.Err() != nil {
					return gCtx.Err()
				}
				return nil
			}

			r.super.RecordSuccess(string(platform), len(found), elapsed)
			if opts.Verbose {
				printer.PrintListings(string(platform), found)
			}

			mu.Lock()
			all = append(all, found...)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return all, nil
}

// discoverPlatform runs every keyword and location search on one platform.
// The platform's rate limiter spaces the requests.
func (r *Runner) discoverPlatform(ctx context.Context, agent *discovery.Agent, opts ScanOptions) ([]discovery.Listing, error) {
	var found []discovery.Listing
	for _, keywords := range opts.Keywords {
		for _, location := range opts.Locations {
			listings, err := agent.Discover(ctx, keywords, location, maxListingsPerSearch)
			if err != nil {
				return nil, fmt.Errorf("search %q in %q: %w", keywords, location, err)
			}
			found = append(found, listings...)
		}
	}
	return discovery.FilterListings(found), nil
}

// filterSeen drops listings whose URL has been processed by an earlier scan
// and marks the remainder as seen.
func (r *Runner) filterSeen(ctx context.Context, listings []discovery.Listing) ([]discovery.Listing, error) {
	if len(listings) == 0 {
		return nil, nil
	}

	urls := make([]string, len(listings))
	for i, l := range listings {
		urls[i] = l.URL
	}

	newURLs, err := r.store.FilterNewURLs(ctx, urls)
	if err != nil {
		return nil, fmt.Errorf("dedupe listings: %w", err)
	}

	keep := make(map[string]bool, len(newURLs))
	for _, u := range newURLs {
		keep[u] = true
	}

	var fresh []discovery.Listing
	byPlatform := make(map[string][]string)
	for _, l := range listings {
		byPlatform[l.Platform] = append(byPlatform[l.Platform], l.URL)
		if keep[l.URL] {
			fresh = append(fresh, l)
			delete(keep, l.URL)
		}
	}

	for platform, platformURLs := range byPlatform {
		if err := r.store.MarkSeen(ctx, platform, platformURLs); err != nil {
			return nil, fmt.Errorf("mark seen: %w", err)
		}
	}
	return fresh, nil
}

// scoreAndTrack scores each new listing, persists the keepers, and mirrors
// them to the external tracker. Excluded postings are dropped without a
// record; their URLs stay in the seen set so they are not rescored.
func (r *Runner) scoreAndTrack(ctx context.Context, fresh []discovery.Listing, opts ScanOptions) (scored, matched int, top []db.Application, err error) {
	for _, l := range fresh {
		result := r.scorer.Score(ctx, scoring.JobInput{
			Company:            l.Company,
			Role:               l.Role,
			Location:           l.Location,
			ExperienceRequired: l.ExperienceRequired,
			Description:        l.Description,
		})
		if result.Excluded {
			log.Printf("[pipeline] excluded %q at %s: %s", l.Role, l.Company, result.Reason)
			continue
		}
		scored++

		app, err := r.store.CreateApplication(ctx, &db.Application{
			Platform:           l.Platform,
			Company:            l.Company,
			Role:               l.Role,
			Location:           l.Location,
			ExperienceRequired: l.ExperienceRequired,
			JobURL:             l.URL,
			JobDescription:     l.Description,
		})
		if err != nil {
			return 0, 0, nil, fmt.Errorf("persist listing %s: %w", l.URL, err)
		}

		if err := r.store.SetScore(ctx, app.ID, result.FitScore, scoringDetails(result)); err != nil {
			return 0, 0, nil, fmt.Errorf("store score for %s: %w", l.URL, err)
		}
		app.FitScore = result.FitScore
		app.Status = db.StatusScored

		if result.FitScore >= opts.MinFitScore {
			matched++
			top = append(top, *app)
		}

		if r.mirror != nil {
			if mirrorErr := r.mirror.AppendApplication(ctx, app); mirrorErr != nil {
				log.Printf("[pipeline] sheet mirror failed for %s: %v", l.URL, mirrorErr)
			}
		}
	}

	sortByScore(top)
	return scored, matched, top, nil
}

func scoringDetails(result *scoring.Result) map[string]any {
	return map[string]any{
		"skill_match_score":      result.SkillMatchScore,
		"experience_match_score": result.ExperienceMatchScore,
		"location_match_score":   result.LocationMatchScore,
		"role_relevance_score":   result.RoleRelevanceScore,
		"matching_skills":        result.MatchingSkills,
		"missing_skills":         result.MissingSkills,
		"recommendation":         result.Recommendation,
		"reason":                 result.Reason,
	}
}

func sortByScore(apps []db.Application) {
	for i := 1; i < len(apps); i++ {
		for j := i; j > 0 && apps[j].FitScore > apps[j-1].FitScore; j-- {
			apps[j], apps[j-1] = apps[j-1], apps[j]
		}
	}
}

// notifyScan sends a Markdown scan summary plus the platform health report.
func (r *Runner) notifyScan(ctx context.Context, result *ScanResult) {
	if r.notifier == nil || !r.notifier.Enabled() {
		return
	}

	var sb strings.Builder
	sb.WriteString("*Job Scan Complete*\n\n")
	sb.WriteString(fmt.Sprintf("Discovered: %d\n", result.Discovered))
	sb.WriteString(fmt.Sprintf("New: %d\n", result.New))
	sb.WriteString(fmt.Sprintf("Above cutoff: %d\n", result.Matched))

	if len(result.TopJobs) > 0 {
		sb.WriteString("\n*Top matches:*\n")
		limit := min(len(result.TopJobs), 5)
		for _, app := range result.TopJobs[:limit] {
			sb.WriteString(fmt.Sprintf("• [%d] %s at %s (%s)\n%s\n",
				app.FitScore, app.Role, app.Company, app.Platform, app.JobURL))
		}
	}

	sb.WriteString("\n")
	sb.WriteString(r.super.TextReport())

	if err := r.notifier.Send(ctx, sb.String()); err != nil {
		log.Printf("[pipeline] notification failed: %v", err)
	}
}
