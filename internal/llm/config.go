// Package llm provides the LLM client abstraction used by scoring and
// content generation. Two model tiers are configured: a fast model for
// cheap extraction/classification work and a smart model for writing.
package llm

// ModelTier selects between the configured models
type ModelTier string

const (
	// TierFast is for quick tasks: scoring assists, extraction, filtering
	TierFast ModelTier = "fast"
	// TierSmart is for writing: resume bullets, cover letters, interview prep
	TierSmart ModelTier = "smart"
)

// Provider identifies the LLM backend
type Provider string

const (
	// ProviderGemini is Google's Gemini API (the only implemented provider)
	ProviderGemini Provider = "gemini"
)

// Config holds the provider and model configuration
type Config struct {
	Provider Provider
	Models   map[ModelTier]string
}

// DefaultConfig returns the default Gemini model mapping
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierFast:  "gemini-2.5-flash-lite",
			TierSmart: "gemini-2.5-flash",
		},
	}
}

// GetModel returns the model name for a tier, falling back to the fast
// model when the requested tier is not configured.
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	if model, ok := c.Models[TierFast]; ok {
		return model
	}
	return ""
}

// WithModel returns a copy of the config with one tier overridden
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	models := make(map[ModelTier]string, len(c.Models))
	for k, v := range c.Models {
		models[k] = v
	}
	models[tier] = model
	return &Config{Provider: c.Provider, Models: models}
}
