// Package discovery scrapes job boards for fresh postings. Each platform
// gets an agent that renders the board's search results in a headless
// browser, extracts job cards, and filters out irrelevant roles.
package discovery

import (
	"strings"

	"github.com/ajsalpv/job-agent/internal/fetch"
)

// Listing is one scraped job posting before scoring and persistence.
type Listing struct {
	Platform           string `json:"platform"`
	Company            string `json:"company"`
	Role               string `json:"role"`
	Location           string `json:"location"`
	ExperienceRequired string `json:"experience_required"`
	Description        string `json:"job_description"`
	URL                string `json:"job_url"`
	PostedDate         string `json:"posted_date"`
}

// excludedTitleKeywords drop a listing at scrape time, before it costs a
// scoring call.
var excludedTitleKeywords = []string{
	"computer vision", "opencv", "image processing", "video ai",
}

// FilterListings removes listings with no usable title or URL and listings
// whose title matches an excluded role. Duplicate URLs within the batch
// are collapsed, keeping the first occurrence.
func FilterListings(listings []Listing) []Listing {
	seen := make(map[string]bool, len(listings))
	out := make([]Listing, 0, len(listings))

	for _, l := range listings {
		if l.Role == "" || l.URL == "" {
			continue
		}
		if seen[l.URL] {
			continue
		}
		if isExcludedTitle(l.Role) {
			continue
		}
		seen[l.URL] = true
		out = append(out, l)
	}
	return out
}

func isExcludedTitle(role string) bool {
	title := strings.ToLower(role)
	for _, kw := range excludedTitleKeywords {
		if strings.Contains(title, kw) {
			return true
		}
	}
	return false
}

// AbsoluteURL resolves a possibly relative link against a platform's origin.
func AbsoluteURL(platform fetch.Platform, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	base := fetch.BaseURL(platform)
	if base == "" {
		return href
	}
	if !strings.HasPrefix(href, "/") {
		href = "/" + href
	}
	return base + href
}
