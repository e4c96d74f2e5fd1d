package main

import (
	"context"
	"fmt"
	"log"

	"github.com/ajsalpv/job-agent/internal/config"
	"github.com/ajsalpv/job-agent/internal/content"
	"github.com/ajsalpv/job-agent/internal/db"
	"github.com/ajsalpv/job-agent/internal/discovery"
	"github.com/ajsalpv/job-agent/internal/fetch"
	"github.com/ajsalpv/job-agent/internal/llm"
	"github.com/ajsalpv/job-agent/internal/notify"
	"github.com/ajsalpv/job-agent/internal/pipeline"
	"github.com/ajsalpv/job-agent/internal/scoring"
	"github.com/ajsalpv/job-agent/internal/sheets"
	"github.com/ajsalpv/job-agent/internal/supervisor"
)

// agent bundles the wired application components shared by the CLI commands.
type agent struct {
	settings  *config.Settings
	store     *db.DB
	runner    *pipeline.Runner
	generator *content.Generator
	client    llm.Client
	mirror    *sheets.Mirror // nil when no sheet is configured
}

// buildAgent wires the full application from environment settings. When
// requireLLM is false a missing GEMINI_API_KEY degrades scoring to the
// rubric instead of failing.
func buildAgent(ctx context.Context, requireLLM bool) (*agent, error) {
	settings := config.Load()
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	store, err := db.Connect(ctx, settings.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	var client llm.Client
	if settings.GeminiAPIKey != "" {
		client, err = llm.NewClient(ctx, nil, settings.GeminiAPIKey)
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("failed to create LLM client: %w", err)
		}
	} else if requireLLM {
		store.Close()
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable is required")
	} else {
		log.Printf("[agent] GEMINI_API_KEY not set, scoring with rubric only")
	}

	profile := scoring.DefaultProfile(
		settings.Skills(), settings.Roles(), settings.Locations(), settings.ExperienceYears)
	scorer := scoring.NewScorer(profile, client, settings.UserName)

	var generator *content.Generator
	if client != nil {
		generator = content.NewGenerator(client, content.Candidate{
			Name:              settings.UserName,
			Email:             settings.UserEmail,
			Phone:             settings.UserPhone,
			Skills:            settings.Skills(),
			ExperienceYears:   settings.ExperienceYears,
			ExperienceSummary: settings.ExperienceSummary,
			Projects:          settings.Projects,
		})
	}

	notifier := notify.NewTelegram(settings.TelegramBotToken, settings.TelegramChatID)

	var mirror *sheets.Mirror
	if settings.SheetID != "" && settings.SheetsCredentialsJSON != "" {
		mirror, err = sheets.NewMirror(ctx, settings.SheetsCredentialsJSON, settings.SheetID)
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("failed to create sheets mirror: %w", err)
		}
		if err := mirror.EnsureHeaders(ctx); err != nil {
			log.Printf("[agent] sheets header check failed: %v", err)
		}
	}

	var trackerMirror pipeline.TrackerMirror
	if mirror != nil {
		trackerMirror = mirror
	}

	super := supervisor.New(platformNames())
	registry := discovery.NewRegistry(settings)
	runner := pipeline.NewRunner(store, registry, super, scorer, generator, notifier, trackerMirror)

	return &agent{
		settings:  settings,
		store:     store,
		runner:    runner,
		generator: generator,
		client:    client,
		mirror:    mirror,
	}, nil
}

// Close releases the agent's database and LLM resources.
func (a *agent) Close() {
	if a.client != nil {
		if err := a.client.Close(); err != nil {
			log.Printf("[agent] closing LLM client: %v", err)
		}
	}
	a.store.Close()
}

func platformNames() []string {
	platforms := fetch.AllPlatforms()
	names := make([]string, len(platforms))
	for i, p := range platforms {
		names[i] = string(p)
	}
	return names
}
