package supervisor

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordFailure_DisablesAfterThreshold(t *testing.T) {
	s := New([]string{"linkedin"})

	for i := 1; i < MaxConsecutiveFailures; i++ {
		s.RecordFailure("linkedin", errors.New("timeout"), time.Second)
		assert.True(t, s.IsActive("linkedin"), "failure #%d should not disable", i)

		report := s.Report()
		assert.Equal(t, StatusDegraded, report.Platforms["linkedin"].Status)
	}

	s.RecordFailure("linkedin", errors.New("timeout"), time.Second)
	assert.False(t, s.IsActive("linkedin"))

	report := s.Report()
	assert.Equal(t, StatusDisabled, report.Platforms["linkedin"].Status)
	assert.Equal(t, MaxConsecutiveFailures, report.Platforms["linkedin"].ConsecutiveFailures)
}

func TestRecordSuccess_ResetsFailureStreak(t *testing.T) {
	s := New([]string{"indeed"})

	s.RecordFailure("indeed", errors.New("blocked"), time.Second)
	s.RecordFailure("indeed", errors.New("blocked"), time.Second)
	s.RecordSuccess("indeed", 12, 3*time.Second)

	report := s.Report()
	h := report.Platforms["indeed"]
	assert.Equal(t, StatusActive, h.Status)
	assert.Equal(t, 0, h.ConsecutiveFailures)
	assert.Equal(t, 12, h.LastJobCount)
	assert.Equal(t, 12, h.TotalJobsFound)
	assert.Equal(t, 3, h.TotalRuns)
	assert.Empty(t, h.LastError)

	// More failures are needed again to disable
	s.RecordFailure("indeed", errors.New("blocked"), time.Second)
	assert.True(t, s.IsActive("indeed"))
}

func TestReEnable(t *testing.T) {
	s := New([]string{"naukri"})

	for i := 0; i < MaxConsecutiveFailures; i++ {
		s.RecordFailure("naukri", errors.New("captcha"), time.Second)
	}
	require.False(t, s.IsActive("naukri"))

	assert.True(t, s.ReEnable("naukri"))
	assert.True(t, s.IsActive("naukri"))

	report := s.Report()
	assert.Equal(t, StatusActive, report.Platforms["naukri"].Status)
	assert.Equal(t, 0, report.Platforms["naukri"].ConsecutiveFailures)

	assert.False(t, s.ReEnable("unknown-platform"))
}

func TestReport_Summary(t *testing.T) {
	s := New([]string{"linkedin", "indeed", "naukri"})

	s.RecordSuccess("linkedin", 5, time.Second)
	s.RecordFailure("indeed", errors.New("blocked"), time.Second)
	for i := 0; i < MaxConsecutiveFailures; i++ {
		s.RecordFailure("naukri", errors.New("captcha"), time.Second)
	}

	report := s.Report()
	assert.Equal(t, 1, report.Summary.ActivePlatforms)
	assert.Equal(t, 1, report.Summary.DegradedPlatforms)
	assert.Equal(t, 1, report.Summary.DisabledPlatforms)
	assert.Equal(t, 5, report.Summary.TotalJobsFound)
}

func TestIsActive_UnknownPlatform(t *testing.T) {
	s := New(nil)
	assert.True(t, s.IsActive("anything"))
}

func TestTextReport(t *testing.T) {
	s := New([]string{"linkedin", "indeed"})
	s.RecordSuccess("linkedin", 7, time.Second)

	text := s.TextReport()
	assert.Contains(t, text, "Supervisor Health Report")
	assert.Contains(t, text, "Linkedin")
	assert.Contains(t, text, "7 jobs")
	assert.Contains(t, text, "Total: 7 jobs found")
}
