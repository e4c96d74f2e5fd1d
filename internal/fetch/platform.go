// Package fetch - platform.go provides job board definitions: search URL
// construction, platform detection, and scrape selectors.
package fetch

import (
	"fmt"
	"net/url"
	"strings"
)

// Platform represents a supported job board.
type Platform string

const (
	PlatformLinkedIn  Platform = "linkedin"
	PlatformIndeed    Platform = "indeed"
	PlatformNaukri    Platform = "naukri"
	PlatformGlassdoor Platform = "glassdoor"
	PlatformWellfound Platform = "wellfound"
	PlatformHirist    Platform = "hirist"
	PlatformInstahyre Platform = "instahyre"
	PlatformCutshort  Platform = "cutshort"
	PlatformUnknown   Platform = "unknown"
)

// AllPlatforms returns every supported job board.
func AllPlatforms() []Platform {
	return []Platform{
		PlatformLinkedIn, PlatformIndeed, PlatformNaukri, PlatformGlassdoor,
		PlatformWellfound, PlatformHirist, PlatformInstahyre, PlatformCutshort,
	}
}

// ParsePlatform converts a string to a Platform, case-insensitively.
func ParsePlatform(s string) (Platform, error) {
	p := Platform(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllPlatforms() {
		if p == known {
			return p, nil
		}
	}
	return PlatformUnknown, fmt.Errorf("unknown platform %q", s)
}

// DetectPlatform identifies the job board from a posting URL.
func DetectPlatform(urlStr string) Platform {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return PlatformUnknown
	}

	host := strings.ToLower(parsed.Host)
	switch {
	case strings.Contains(host, "linkedin.com"):
		return PlatformLinkedIn
	case strings.Contains(host, "indeed.com"):
		return PlatformIndeed
	case strings.Contains(host, "naukri.com"):
		return PlatformNaukri
	case strings.Contains(host, "glassdoor."):
		return PlatformGlassdoor
	case strings.Contains(host, "wellfound.com"), strings.Contains(host, "angel.co"):
		return PlatformWellfound
	case strings.Contains(host, "hirist."):
		return PlatformHirist
	case strings.Contains(host, "instahyre.com"):
		return PlatformInstahyre
	case strings.Contains(host, "cutshort.io"):
		return PlatformCutshort
	default:
		return PlatformUnknown
	}
}

// SearchURL builds the board's search results URL for a keyword/location
// pair. Each board has its own URL scheme and freshness filter.
func SearchURL(platform Platform, keywords, location string) string {
	plus := func(s string) string { return strings.ReplaceAll(s, " ", "+") }

	switch platform {
	case PlatformLinkedIn:
		// Guest search URL, filtered to the last 24 hours
		return fmt.Sprintf(
			"https://www.linkedin.com/jobs/search/?keywords=%s&location=%s&f_TPR=r86400&position=1&pageNum=0",
			url.QueryEscape(keywords), url.QueryEscape(location))
	case PlatformIndeed:
		return fmt.Sprintf("https://in.indeed.com/jobs?q=%s&l=%s&fromage=1", plus(keywords), plus(location))
	case PlatformNaukri:
		slug := func(s string) string { return strings.ReplaceAll(strings.ToLower(s), " ", "-") }
		return fmt.Sprintf(
			"https://www.naukri.com/%s-jobs-in-%s?experience=0&experience=1&experience=2&footer_freshness=7",
			slug(keywords), slug(location))
	case PlatformGlassdoor:
		return fmt.Sprintf("https://www.glassdoor.co.in/Job/jobs.htm?sc.keyword=%s&locT=C&locId=115", plus(keywords))
	case PlatformWellfound:
		return fmt.Sprintf("https://wellfound.com/jobs?q=%s", plus(keywords))
	case PlatformHirist:
		return fmt.Sprintf("https://www.hirist.tech/search/jobs?q=%s&l=%s", plus(keywords), plus(location))
	case PlatformInstahyre:
		return fmt.Sprintf("https://www.instahyre.com/search-jobs/?job_title=%s&location=%s", plus(keywords), plus(location))
	case PlatformCutshort:
		return fmt.Sprintf("https://cutshort.io/jobs?skill=%s&location=%s", plus(keywords), plus(location))
	default:
		return ""
	}
}

// Selectors holds the CSS selectors used to pull job cards and their
// fields out of a board's rendered search results page. Selector lists
// are tried in order; the first match wins.
type Selectors struct {
	Card       string
	Title      string
	Company    string
	Location   string
	Experience string
	Link       string
	Desc       string
	Posted     string
}

// PlatformSelectors returns the scrape selectors for a job board.
// Boards change their markup regularly, so each field carries fallbacks.
func PlatformSelectors(platform Platform) Selectors {
	switch platform {
	case PlatformLinkedIn:
		return Selectors{
			Card:     ".base-card, .base-search-card, .job-search-card",
			Title:    ".base-search-card__title, .job-search-card__title, h3",
			Company:  ".base-search-card__subtitle, .job-search-card__subtitle, .hidden-nested-link",
			Location: ".job-search-card__location, .base-search-card__metadata",
			Link:     "a.base-card__full-link, a[href*='/jobs/view']",
			Posted:   "time.job-search-card__listdate, time.job-search-card__listdate--new",
		}
	case PlatformIndeed:
		return Selectors{
			Card:       ".job_seen_beacon, .jobCard, .result, [data-jk]",
			Title:      "h2.jobTitle, .jobTitle, [id^='jobtitle']",
			Company:    ".companyName, [data-testid='company-name']",
			Location:   ".location, [data-testid='text-location']",
			Experience: ".attribute_snippet, [data-testid='attribute_snippet']",
			Link:       "a[href*='/viewjob'], a.jcs-JobTitle, a[id^='job_']",
			Desc:       ".job-snippet, .job_snippet, [data-testid='job-snippet']",
			Posted:     ".date, [data-testid='myJobsStateDate']",
		}
	case PlatformNaukri:
		return Selectors{
			Card:       ".jobTuple, .cust-job-tuple, article.jobTuple, .srp-job-tuple",
			Title:      ".title, .jobTitle, a.title",
			Company:    ".companyInfo a, .comp-name, .name",
			Location:   ".location, .locWdth, .loc span",
			Experience: ".experience, .expwdth, .exp span",
			Link:       "a.title, a[href*='job-listings']",
			Desc:       ".job-description, .ellipsis, .job-snippet, .job-desc",
			Posted:     ".posted-by, .jobPostDate, .postedDate",
		}
	case PlatformGlassdoor:
		return Selectors{
			Card:     "[data-test='jobListing'], .JobCard, li[data-id]",
			Title:    "[data-test='job-title'], .jobTitle",
			Company:  "[data-test='employer-name'], .employerName",
			Location: "[data-test='emp-location'], .location",
			Link:     "a[data-test='job-link'], a[href*='/job-listing']",
			Posted:   "[data-test='job-age']",
		}
	case PlatformWellfound:
		return Selectors{
			Card:     "[data-test='StartupResult'], [class*='styles_jobListing'], [class*='JobCard']",
			Title:    "h4, [class*='jobTitle'], [class*='roleTitle'], [class*='styles_title']",
			Company:  "h2, [class*='companyName'], [class*='startupName'], [class*='styles_company']",
			Location: "[class*='location'], [class*='styles_location']",
			Link:     "a[href*='/jobs/'], a[class*='styles_titleLink']",
		}
	case PlatformHirist:
		return Selectors{
			Card:       "a[href*='/j/'], .job-card, [class*='JobCard']",
			Title:      "[data-testid='job_title'], p.MuiTypography-subtitle2, .job-title",
			Company:    "a.MuiTypography-root[title], .company-name, [class*='company']",
			Location:   ".job-card-location, [class*='location'], .loc-name",
			Experience: ".job-card-experience, .exp-name",
			Posted:     ".job-posted-date, [class*='posted']",
		}
	case PlatformInstahyre:
		return Selectors{
			Card:       ".opportunity-card, [id^='employer-profile-opportunity'], .job-card",
			Title:      ".employer-job-name, .opportunity-title, h3",
			Company:    ".company-name, .employer-name",
			Location:   ".location, .city",
			Experience: ".experience, [class*='exp']",
			Link:       "a[href*='/job/'], a[id^='view-job'], a.opportunity-title",
			Posted:     ".posted-date, .job-posted",
		}
	case PlatformCutshort:
		return Selectors{
			Card:     ".job-card, [class*='JobCard'], [data-job-id], .job-listing-item",
			Title:    "h3, [class*='title'], .job-title",
			Company:  "[class*='company'], .company-name",
			Location: "[class*='location']",
			Link:     "a[href*='/jobs/'], a[href*='/job/']",
		}
	default:
		return Selectors{
			Card:     "[class*='job'], [data-job], .posting",
			Title:    "h2, h3, [class*='title']",
			Company:  "[class*='company']",
			Location: "[class*='location']",
			Link:     "a[href*='job']",
		}
	}
}

// BaseURL returns the board's origin, used to absolutize relative links.
func BaseURL(platform Platform) string {
	switch platform {
	case PlatformLinkedIn:
		return "https://www.linkedin.com"
	case PlatformIndeed:
		return "https://in.indeed.com"
	case PlatformNaukri:
		return "https://www.naukri.com"
	case PlatformGlassdoor:
		return "https://www.glassdoor.co.in"
	case PlatformWellfound:
		return "https://wellfound.com"
	case PlatformHirist:
		return "https://www.hirist.tech"
	case PlatformInstahyre:
		return "https://www.instahyre.com"
	case PlatformCutshort:
		return "https://cutshort.io"
	default:
		return ""
	}
}
