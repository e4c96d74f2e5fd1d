package discovery

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/ajsalpv/job-agent/internal/fetch"
)

// DefaultMaxResults caps how many cards are taken from one results page.
const DefaultMaxResults = 25

// Renderer fetches a URL and returns rendered HTML. The production
// implementation drives a headless browser; tests supply canned HTML.
type Renderer func(ctx context.Context, url string) (string, error)

// Agent scrapes one job board.
type Agent struct {
	platform fetch.Platform
	render   Renderer
	limiter  *RateLimiter
}

// NewAgent creates a scraper agent for a platform.
func NewAgent(platform fetch.Platform, render Renderer, limiter *RateLimiter) *Agent {
	return &Agent{platform: platform, render: render, limiter: limiter}
}

// Platform returns the board this agent scrapes.
func (a *Agent) Platform() fetch.Platform {
	return a.platform
}

// Discover searches the board for a keyword/location pair and returns the
// extracted listings, already filtered for excluded roles and batch dupes.
func (a *Agent) Discover(ctx context.Context, keywords, location string, maxResults int) ([]Listing, error) {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	searchURL := fetch.SearchURL(a.platform, keywords, location)
	if searchURL == "" {
		return nil, fmt.Errorf("no search URL for platform %s", a.platform)
	}

	if a.limiter != nil {
		if err := a.limiter.Acquire(ctx, a.platform); err != nil {
			return nil, err
		}
	}

	log.Printf("[discovery] %s: searching %q in %q", a.platform, keywords, location)

	html, err := a.render(ctx, searchURL)
	if err != nil {
		return nil, fmt.Errorf("render %s search page: %w", a.platform, err)
	}

	listings, err := ExtractListings(a.platform, html, maxResults)
	if err != nil {
		return nil, err
	}

	log.Printf("[discovery] %s: %d listings extracted", a.platform, len(listings))
	return listings, nil
}

// ExtractListings parses a rendered search results page into listings
// using the platform's selectors.
func ExtractListings(platform fetch.Platform, html string, maxResults int) ([]Listing, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse %s results page: %w", platform, err)
	}

	sel := fetch.PlatformSelectors(platform)

	var listings []Listing
	doc.Find(sel.Card).EachWithBreak(func(i int, card *goquery.Selection) bool {
		if len(listings) >= maxResults {
			return false
		}

		listing := Listing{
			Platform:           string(platform),
			Role:               firstText(card, sel.Title),
			Company:            firstText(card, sel.Company),
			Location:           firstText(card, sel.Location),
			ExperienceRequired: firstText(card, sel.Experience),
			Description:        firstText(card, sel.Desc),
			PostedDate:         firstText(card, sel.Posted),
			URL:                AbsoluteURL(platform, cardLink(card, sel.Link)),
		}
		if listing.PostedDate == "" {
			listing.PostedDate = "Today"
		}

		if listing.Role != "" {
			listings = append(listings, listing)
		}
		return true
	})

	return FilterListings(listings), nil
}

// firstText returns the trimmed text of the first element matching any of
// the comma-separated selectors.
func firstText(card *goquery.Selection, selector string) string {
	if selector == "" {
		return ""
	}
	found := card.Find(selector).First()
	if found.Length() == 0 {
		return ""
	}
	return strings.TrimSpace(found.Text())
}

// cardLink finds the posting URL for a card. Some boards make the whole
// card an anchor, so the card's own href is the fallback.
func cardLink(card *goquery.Selection, selector string) string {
	if selector != "" {
		if href, ok := card.Find(selector).First().Attr("href"); ok {
			return href
		}
	}
	if href, ok := card.Attr("href"); ok {
		return href
	}
	return ""
}
