package discovery

import (
	"context"
	"time"

	"github.com/ajsalpv/job-agent/internal/config"
	"github.com/ajsalpv/job-agent/internal/fetch"
)

// Registry holds one agent per supported platform.
type Registry struct {
	agents map[fetch.Platform]*Agent
}

// NewRegistry builds agents for every platform, sharing a rate limiter
// and a browser renderer configured from settings.
func NewRegistry(settings *config.Settings) *Registry {
	limiter := NewRateLimiter(map[fetch.Platform]int{
		fetch.PlatformLinkedIn: settings.LinkedInRateLimit,
		fetch.PlatformIndeed:   settings.IndeedRateLimit,
		fetch.PlatformNaukri:   settings.NaukriRateLimit,
	})
	render := BrowserRenderer(settings.HeadlessBrowser, settings.BrowserTimeout)

	return NewRegistryWithRenderer(render, limiter)
}

// NewRegistryWithRenderer builds a registry with an explicit renderer and
// limiter. Used by tests to avoid launching a browser.
func NewRegistryWithRenderer(render Renderer, limiter *RateLimiter) *Registry {
	agents := make(map[fetch.Platform]*Agent)
	for _, p := range fetch.AllPlatforms() {
		agents[p] = NewAgent(p, render, limiter)
	}
	return &Registry{agents: agents}
}

// Agent returns the agent for a platform.
func (r *Registry) Agent(platform fetch.Platform) (*Agent, bool) {
	a, ok := r.agents[platform]
	return a, ok
}

// Agents returns all agents in the canonical platform order.
func (r *Registry) Agents() []*Agent {
	out := make([]*Agent, 0, len(r.agents))
	for _, p := range fetch.AllPlatforms() {
		if a, ok := r.agents[p]; ok {
			out = append(out, a)
		}
	}
	return out
}

// BrowserRenderer returns a Renderer that drives a headless browser and
// falls back to a plain HTTP fetch when the browser fails, which still
// works for boards that render server-side.
func BrowserRenderer(headless bool, timeout time.Duration) Renderer {
	return func(ctx context.Context, url string) (string, error) {
		html, browserErr := fetch.WithBrowser(ctx, url, fetch.BrowserOptions{
			Timeout:  timeout,
			Headless: headless,
		})
		if browserErr == nil {
			return html, nil
		}

		result, err := fetch.URL(ctx, url, nil)
		if err != nil {
			return "", browserErr
		}
		return result.HTML, nil
	}
}
