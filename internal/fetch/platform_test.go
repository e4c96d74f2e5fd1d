package fetch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectPlatform(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected Platform
	}{
		{"linkedin job view", "https://www.linkedin.com/jobs/view/3812345678", PlatformLinkedIn},
		{"indeed india", "https://in.indeed.com/viewjob?jk=abc123", PlatformIndeed},
		{"naukri listing", "https://www.naukri.com/job-listings-ai-engineer-acme-bangalore", PlatformNaukri},
		{"glassdoor india", "https://www.glassdoor.co.in/job-listing/ml-engineer-JV_IC115.htm", PlatformGlassdoor},
		{"wellfound", "https://wellfound.com/jobs/2901234-ai-engineer", PlatformWellfound},
		{"angel.co legacy", "https://angel.co/company/acme/jobs/123", PlatformWellfound},
		{"hirist", "https://www.hirist.tech/j/ai-engineer-12345", PlatformHirist},
		{"instahyre", "https://www.instahyre.com/job/98765/", PlatformInstahyre},
		{"cutshort", "https://cutshort.io/job/ai-engineer-acme", PlatformCutshort},
		{"unknown host", "https://example.com/careers/123", PlatformUnknown},
		{"invalid url", "://bad", PlatformUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectPlatform(tt.url))
		})
	}
}

func TestParsePlatform(t *testing.T) {
	p, err := ParsePlatform("LinkedIn")
	require.NoError(t, err)
	assert.Equal(t, PlatformLinkedIn, p)

	p, err = ParsePlatform("  naukri ")
	require.NoError(t, err)
	assert.Equal(t, PlatformNaukri, p)

	_, err = ParsePlatform("monster")
	assert.Error(t, err)
}

func TestSearchURL(t *testing.T) {
	tests := []struct {
		platform Platform
		contains []string
	}{
		{PlatformLinkedIn, []string{"linkedin.com/jobs/search", "keywords=AI+Engineer", "f_TPR=r86400"}},
		{PlatformIndeed, []string{"in.indeed.com/jobs", "q=AI+Engineer", "l=Bangalore", "fromage=1"}},
		{PlatformNaukri, []string{"naukri.com/ai-engineer-jobs-in-bangalore", "footer_freshness=7"}},
		{PlatformGlassdoor, []string{"glassdoor.co.in", "sc.keyword=AI+Engineer"}},
		{PlatformWellfound, []string{"wellfound.com/jobs", "q=AI+Engineer"}},
		{PlatformHirist, []string{"hirist.tech/search/jobs", "q=AI+Engineer"}},
		{PlatformInstahyre, []string{"instahyre.com/search-jobs", "job_title=AI+Engineer"}},
		{PlatformCutshort, []string{"cutshort.io/jobs", "skill=AI+Engineer"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.platform), func(t *testing.T) {
			url := SearchURL(tt.platform, "AI Engineer", "Bangalore")
			for _, want := range tt.contains {
				assert.Contains(t, url, want)
			}
		})
	}

	assert.Empty(t, SearchURL(PlatformUnknown, "x", "y"))
}

func TestPlatformSelectors_AllPlatformsHaveCards(t *testing.T) {
	for _, p := range AllPlatforms() {
		sel := PlatformSelectors(p)
		assert.NotEmpty(t, sel.Card, "platform %s has no card selector", p)
		assert.NotEmpty(t, sel.Title, "platform %s has no title selector", p)
	}
}

func TestBaseURL(t *testing.T) {
	for _, p := range AllPlatforms() {
		assert.NotEmpty(t, BaseURL(p), "platform %s has no base URL", p)
	}
	assert.Empty(t, BaseURL(PlatformUnknown))
}

func TestAllPlatforms(t *testing.T) {
	platforms := AllPlatforms()
	assert.Len(t, platforms, 8)
	assert.Contains(t, platforms, PlatformLinkedIn)
	assert.Contains(t, platforms, PlatformCutshort)
}
