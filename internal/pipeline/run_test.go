package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajsalpv/job-agent/internal/content"
	"github.com/ajsalpv/job-agent/internal/db"
	"github.com/ajsalpv/job-agent/internal/discovery"
	"github.com/ajsalpv/job-agent/internal/fetch"
	"github.com/ajsalpv/job-agent/internal/llm"
	"github.com/ajsalpv/job-agent/internal/scoring"
	"github.com/ajsalpv/job-agent/internal/supervisor"
)

const indeedResultsHTML = `
<html><body>
<div class="job_seen_beacon">
  <h2 class="jobTitle">ML Engineer</h2>
  <span class="companyName">Acme Corp</span>
  <div class="location">Bangalore</div>
  <div class="attribute_snippet">2-4 years</div>
  <a href="/viewjob?jk=abc123">view</a>
  <div class="job-snippet">Python ML pipelines with TensorFlow and NLP models</div>
</div>
<div class="job_seen_beacon">
  <h2 class="jobTitle">AI Engineer</h2>
  <span class="companyName">Globex</span>
  <div class="location">Remote</div>
  <a href="/viewjob?jk=def456">view</a>
  <div class="job-snippet">LLM and RAG systems in Python</div>
</div>
</body></html>`

// fakeStore records pipeline writes in memory.
type fakeStore struct {
	seen      map[string]bool
	created   []*db.Application
	scores    map[uuid.UUID]int
	enriched  map[uuid.UUID][2]string
	byID      map[uuid.UUID]*db.Application
	stats     *db.Stats
	followUps []db.Application
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		seen:     make(map[string]bool),
		scores:   make(map[uuid.UUID]int),
		enriched: make(map[uuid.UUID][2]string),
		byID:     make(map[uuid.UUID]*db.Application),
		stats:    &db.Stats{},
	}
}

func (s *fakeStore) FilterNewURLs(_ context.Context, urls []string) ([]string, error) {
	var fresh []string
	for _, u := range urls {
		if !s.seen[u] {
			fresh = append(fresh, u)
		}
	}
	return fresh, nil
}

func (s *fakeStore) MarkSeen(_ context.Context, _ string, urls []string) error {
	for _, u := range urls {
		s.seen[u] = true
	}
	return nil
}

func (s *fakeStore) CreateApplication(_ context.Context, a *db.Application) (*db.Application, error) {
	created := *a
	created.ID = uuid.New()
	created.Status = db.StatusDiscovered
	s.created = append(s.created, &created)
	s.byID[created.ID] = &created
	return &created, nil
}

func (s *fakeStore) SetScore(_ context.Context, id uuid.UUID, fitScore int, _ map[string]any) error {
	s.scores[id] = fitScore
	return nil
}

func (s *fakeStore) SetGeneratedContent(_ context.Context, id uuid.UUID, prep, skills string) error {
	if _, ok := s.byID[id]; !ok {
		return fmt.Errorf("application not found: %s", id)
	}
	s.enriched[id] = [2]string{prep, skills}
	return nil
}

func (s *fakeStore) GetApplicationByID(_ context.Context, id uuid.UUID) (*db.Application, error) {
	return s.byID[id], nil
}

func (s *fakeStore) GetStats(_ context.Context) (*db.Stats, error) {
	return s.stats, nil
}

func (s *fakeStore) ListFollowUps(_ context.Context, _ int) ([]db.Application, error) {
	return s.followUps, nil
}

// fakeMirror records tracker writes.
type fakeMirror struct {
	appended  []*db.Application
	metrics   []*db.Stats
	followUps [][]db.Application
	appendErr error
	syncErr   error
}

func (m *fakeMirror) AppendApplication(_ context.Context, app *db.Application) error {
	m.appended = append(m.appended, app)
	return m.appendErr
}

func (m *fakeMirror) SyncMetrics(_ context.Context, stats *db.Stats) error {
	m.metrics = append(m.metrics, stats)
	return m.syncErr
}

func (m *fakeMirror) SyncFollowUps(_ context.Context, apps []db.Application, _ time.Time) error {
	m.followUps = append(m.followUps, apps)
	return m.syncErr
}

// fakeLLMClient routes canned responses by prompt content.
type fakeLLMClient struct {
	responses map[string]string
}

func (f *fakeLLMClient) GenerateContent(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
	return f.responses["cover"], nil
}

func (f *fakeLLMClient) GenerateJSON(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
	if strings.Contains(prompt, "interview_prep") {
		return f.responses["enrichment"], nil
	}
	return f.responses["resume"], nil
}

func (f *fakeLLMClient) GetModel(llm.ModelTier) string { return "fake" }
func (f *fakeLLMClient) Close() error                  { return nil }

type fakeNotifier struct {
	messages []string
}

func (n *fakeNotifier) Enabled() bool { return true }
func (n *fakeNotifier) Send(_ context.Context, msg string) error {
	n.messages = append(n.messages, msg)
	return nil
}

func testScorer() *scoring.Scorer {
	profile := scoring.DefaultProfile(
		[]string{"Python", "LLM", "RAG", "TensorFlow", "NLP"},
		[]string{"AI Engineer", "ML Engineer"},
		[]string{"Bangalore", "Remote"},
		2,
	)
	return scoring.NewScorer(profile, nil, "Test User")
}

func newTestRunner(store *fakeStore, notifier *fakeNotifier, render discovery.Renderer) *Runner {
	registry := discovery.NewRegistryWithRenderer(render, nil)
	return NewRunner(store, registry, supervisor.New(nil), testScorer(), nil, notifier, nil)
}

func TestRunScan_DiscoversScoresAndNotifies(t *testing.T) {
	store := newFakeStore()
	notifier := &fakeNotifier{}
	runner := newTestRunner(store, notifier, func(_ context.Context, _ string) (string, error) {
		return indeedResultsHTML, nil
	})

	result, err := runner.RunScan(context.Background(), ScanOptions{
		Keywords:    []string{"AI Engineer"},
		Locations:   []string{"Bangalore"},
		Platforms:   []fetch.Platform{fetch.PlatformIndeed},
		MinFitScore: 50,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Discovered)
	assert.Equal(t, 2, result.New)
	assert.Equal(t, 2, result.Scored)
	require.Len(t, store.created, 2)
	assert.Len(t, store.scores, 2)

	// persisted rows carry the scraped listing URL and description
	for _, app := range store.created {
		assert.Contains(t, app.JobURL, "https://in.indeed.com/viewjob?jk=")
		assert.NotEmpty(t, app.JobDescription)
	}

	// top jobs sorted by score descending
	for i := 1; i < len(result.TopJobs); i++ {
		assert.GreaterOrEqual(t, result.TopJobs[i-1].FitScore, result.TopJobs[i].FitScore)
	}

	require.Len(t, notifier.messages, 1)
	assert.Contains(t, notifier.messages[0], "Job Scan Complete")
	assert.Contains(t, notifier.messages[0], "indeed")
}

func TestRunScan_SecondRunSkipsSeenURLs(t *testing.T) {
	store := newFakeStore()
	runner := newTestRunner(store, &fakeNotifier{}, func(_ context.Context, _ string) (string, error) {
		return indeedResultsHTML, nil
	})

	opts := ScanOptions{
		Keywords:  []string{"AI Engineer"},
		Locations: []string{"Bangalore"},
		Platforms: []fetch.Platform{fetch.PlatformIndeed},
	}

	_, err := runner.RunScan(context.Background(), opts)
	require.NoError(t, err)

	result, err := runner.RunScan(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Discovered)
	assert.Equal(t, 0, result.New)
	assert.Len(t, store.created, 2)
}

func TestRunScan_KeepsTrackerMirrorInSync(t *testing.T) {
	store := newFakeStore()
	store.stats = &db.Stats{TotalDiscovered: 12, TotalApplied: 4, SuccessRate: 33.3}
	store.followUps = []db.Application{
		{Company: "Initech", Role: "ML Engineer", Status: db.StatusApplied},
	}

	mirror := &fakeMirror{}
	registry := discovery.NewRegistryWithRenderer(func(_ context.Context, _ string) (string, error) {
		return indeedResultsHTML, nil
	}, nil)
	runner := NewRunner(store, registry, supervisor.New(nil), testScorer(), nil, &fakeNotifier{}, mirror)

	_, err := runner.RunScan(context.Background(), ScanOptions{
		Keywords:  []string{"AI Engineer"},
		Locations: []string{"Bangalore"},
		Platforms: []fetch.Platform{fetch.PlatformIndeed},
	})
	require.NoError(t, err)

	// one mirrored row per persisted listing
	require.Len(t, mirror.appended, 2)
	for _, app := range mirror.appended {
		assert.Contains(t, app.JobURL, "in.indeed.com/viewjob")
	}

	// metrics and follow-up tabs refreshed from the store after the scan
	require.Len(t, mirror.metrics, 1)
	assert.Equal(t, 12, mirror.metrics[0].TotalDiscovered)
	require.Len(t, mirror.followUps, 1)
	require.Len(t, mirror.followUps[0], 1)
	assert.Equal(t, "Initech", mirror.followUps[0][0].Company)
}

func TestRunScan_MirrorFailureNotFatal(t *testing.T) {
	store := newFakeStore()
	mirror := &fakeMirror{
		appendErr: errors.New("sheets quota exceeded"),
		syncErr:   errors.New("sheets quota exceeded"),
	}
	registry := discovery.NewRegistryWithRenderer(func(_ context.Context, _ string) (string, error) {
		return indeedResultsHTML, nil
	}, nil)
	runner := NewRunner(store, registry, supervisor.New(nil), testScorer(), nil, &fakeNotifier{}, mirror)

	result, err := runner.RunScan(context.Background(), ScanOptions{
		Keywords:  []string{"AI Engineer"},
		Locations: []string{"Bangalore"},
		Platforms: []fetch.Platform{fetch.PlatformIndeed},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Scored)
	assert.Len(t, store.created, 2)
}

func TestRunScan_PlatformFailureRecordedNotFatal(t *testing.T) {
	store := newFakeStore()
	runner := newTestRunner(store, &fakeNotifier{}, func(_ context.Context, _ string) (string, error) {
		return "", errors.New("render timeout")
	})

	result, err := runner.RunScan(context.Background(), ScanOptions{
		Keywords:  []string{"AI Engineer"},
		Locations: []string{"Bangalore"},
		Platforms: []fetch.Platform{fetch.PlatformIndeed},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Discovered)

	report := runner.Supervisor().Report()
	health := report.Platforms["indeed"]
	assert.Equal(t, supervisor.StatusDegraded, health.Status)
	assert.Equal(t, 1, health.ConsecutiveFailures)
}

func TestRunScan_SkipsDisabledPlatform(t *testing.T) {
	store := newFakeStore()
	calls := 0
	runner := newTestRunner(store, &fakeNotifier{}, func(_ context.Context, _ string) (string, error) {
		calls++
		return indeedResultsHTML, nil
	})

	for i := 0; i < supervisor.MaxConsecutiveFailures; i++ {
		runner.Supervisor().RecordFailure("indeed", errors.New("selector drift"), 0)
	}

	result, err := runner.RunScan(context.Background(), ScanOptions{
		Keywords:  []string{"AI Engineer"},
		Locations: []string{"Bangalore"},
		Platforms: []fetch.Platform{fetch.PlatformIndeed},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Discovered)
	assert.Equal(t, 0, calls)
}

func TestRunScan_ExcludedRolesNotPersisted(t *testing.T) {
	cvHTML := `
<html><body>
<div class="job_seen_beacon">
  <h2 class="jobTitle">Machine Learning Engineer</h2>
  <span class="companyName">VisionCo</span>
  <a href="/viewjob?jk=cv1">view</a>
  <div class="job-snippet">Computer vision and OpenCV object detection pipelines</div>
</div>
</body></html>`

	store := newFakeStore()
	runner := newTestRunner(store, &fakeNotifier{}, func(_ context.Context, _ string) (string, error) {
		return cvHTML, nil
	})

	result, err := runner.RunScan(context.Background(), ScanOptions{
		Keywords:  []string{"ML Engineer"},
		Locations: []string{"Bangalore"},
		Platforms: []fetch.Platform{fetch.PlatformIndeed},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Discovered)
	assert.Equal(t, 0, result.Scored)
	assert.Empty(t, store.created)
	// still marked seen so the next scan does not rescore it
	assert.True(t, store.seen["https://in.indeed.com/viewjob?jk=cv1"])
}

func TestPrepareApplication(t *testing.T) {
	store := newFakeStore()
	app, err := store.CreateApplication(context.Background(), &db.Application{
		Company:        "Acme Corp",
		Role:           "ML Engineer",
		JobURL:         "https://example.com/job/1",
		JobDescription: "Build ML systems",
	})
	require.NoError(t, err)

	client := &fakeLLMClient{responses: map[string]string{
		"resume":     `{"optimized_bullets": ["Built RAG pipeline serving 1M queries"], "keywords_included": ["RAG"]}`,
		"cover":      "Dear Hiring Manager, I am excited to apply.",
		"enrichment": `{"interview_prep": "Review transformer architectures", "skills_to_learn": "Kubernetes"}`,
	}}
	generator := content.NewGenerator(client, content.Candidate{Name: "Test User"})

	runner := NewRunner(store, discovery.NewRegistryWithRenderer(nil, nil),
		supervisor.New(nil), testScorer(), generator, nil, nil)

	material, err := runner.PrepareApplication(context.Background(), app.ID)
	require.NoError(t, err)

	assert.Equal(t, "Acme Corp", material.Company)
	require.NotNil(t, material.ResumeBullets)
	assert.Len(t, material.ResumeBullets.OptimizedBullets, 1)
	assert.Contains(t, material.CoverLetter, "excited to apply")
	require.NotNil(t, material.Enrichment)

	stored := store.enriched[app.ID]
	assert.Equal(t, "Review transformer architectures", stored[0])
	assert.Equal(t, "Kubernetes", stored[1])
}

func TestPrepareApplications_CollectsFailures(t *testing.T) {
	store := newFakeStore()
	runner := NewRunner(store, discovery.NewRegistryWithRenderer(nil, nil),
		supervisor.New(nil), testScorer(), nil, nil, nil)

	missing := uuid.New()
	materials, failures := runner.PrepareApplications(context.Background(), []uuid.UUID{missing})

	assert.Empty(t, materials)
	require.Len(t, failures, 1)
	assert.Error(t, failures[missing])
}
