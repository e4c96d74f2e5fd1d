// Package config provides environment-based configuration for the job agent.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Settings holds the full runtime configuration, loaded from environment
// variables. Missing values fall back to defaults so the agent can start
// with nothing but a database URL and an API key.
type Settings struct {
	// Core
	DatabaseURL  string
	GeminiAPIKey string

	// Scoring
	MinFitScore int

	// Browser
	HeadlessBrowser bool
	BrowserTimeout  time.Duration

	// Scheduling
	CheckInterval time.Duration
	InitialDelay  time.Duration

	// Per-platform scrape rate limits (requests per minute)
	LinkedInRateLimit int
	IndeedRateLimit   int
	NaukriRateLimit   int

	// Notifications
	TelegramBotToken string
	TelegramChatID   string

	// Google Sheets mirror (optional)
	SheetID              string
	SheetsCredentialsJSON string

	// User profile defaults (overridable via the settings API)
	UserName        string
	UserEmail       string
	UserPhone       string
	UserLocation    string // comma-separated
	UserSkills      string // comma-separated
	TargetRoles     string // comma-separated
	ExperienceYears int

	// Free-text resume material used by content generation
	ExperienceSummary string
	Projects          string

	// API auth: when APIPasswordHash is set, mutating endpoints require a JWT
	APIPasswordHash string
}

// Load reads settings from the environment.
func Load() *Settings {
	return &Settings{
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),

		MinFitScore: getEnvInt("MIN_FIT_SCORE", 70),

		HeadlessBrowser: getEnvBool("HEADLESS_BROWSER", true),
		BrowserTimeout:  getEnvDuration("BROWSER_TIMEOUT", 60*time.Second),

		CheckInterval: getEnvDuration("CHECK_INTERVAL", 120*time.Minute),
		InitialDelay:  getEnvDuration("SCHEDULER_INITIAL_DELAY", 2*time.Minute),

		LinkedInRateLimit: getEnvInt("LINKEDIN_RATE_LIMIT", 10),
		IndeedRateLimit:   getEnvInt("INDEED_RATE_LIMIT", 15),
		NaukriRateLimit:   getEnvInt("NAUKRI_RATE_LIMIT", 15),

		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID:   os.Getenv("TELEGRAM_CHAT_ID"),

		SheetID:               os.Getenv("GOOGLE_SHEET_ID"),
		SheetsCredentialsJSON: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_JSON"),

		UserName:        getEnvString("USER_NAME", ""),
		UserEmail:       getEnvString("USER_EMAIL", ""),
		UserPhone:       getEnvString("USER_PHONE", ""),
		UserLocation:    getEnvString("USER_LOCATION", "Bangalore,Remote"),
		UserSkills:      getEnvString("USER_SKILLS", "Python,LangChain,LLM,RAG,TensorFlow,NLP,FastAPI"),
		TargetRoles:     getEnvString("TARGET_ROLES", "AI Engineer,ML Engineer,Machine Learning Engineer"),
		ExperienceYears: getEnvInt("EXPERIENCE_YEARS", 2),

		ExperienceSummary: os.Getenv("EXPERIENCE_SUMMARY"),
		Projects:          os.Getenv("PROJECTS"),

		APIPasswordHash: os.Getenv("API_PASSWORD_HASH"),
	}
}

// Validate checks that required settings are present.
func (s *Settings) Validate() error {
	if s.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}
	if s.MinFitScore < 0 || s.MinFitScore > 100 {
		return fmt.Errorf("MIN_FIT_SCORE must be between 0 and 100, got %d", s.MinFitScore)
	}
	return nil
}

// Locations returns the user's preferred locations as a list.
func (s *Settings) Locations() []string {
	return splitCSV(s.UserLocation)
}

// Skills returns the user's skills as a list.
func (s *Settings) Skills() []string {
	return splitCSV(s.UserSkills)
}

// Roles returns the target roles as a list.
func (s *Settings) Roles() []string {
	return splitCSV(s.TargetRoles)
}

// AuthEnabled reports whether API authentication is configured.
func (s *Settings) AuthEnabled() bool {
	return s.APIPasswordHash != ""
}

func splitCSV(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// getEnvString gets an environment variable as a string with a default value.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an environment variable as an int with a default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvBool gets an environment variable as a bool with a default value.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvDuration gets an environment variable as a duration with a default value.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
