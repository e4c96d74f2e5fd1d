package pipeline

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/ajsalpv/job-agent/internal/content"
	"github.com/ajsalpv/job-agent/internal/db"
)

// Material is the generated application package for one posting.
type Material struct {
	ApplicationID uuid.UUID                   `json:"application_id"`
	Company       string                      `json:"company"`
	Role          string                      `json:"role"`
	ResumeBullets *content.ResumeOptimization `json:"resume_bullets,omitempty"`
	CoverLetter   string                      `json:"cover_letter,omitempty"`
	Enrichment    *content.Enrichment         `json:"enrichment,omitempty"`
}

// PrepareApplication generates the full material package for an approved
// posting and persists the interview prep on the record. A cover letter
// failure degrades the package instead of failing it; the bullets and prep
// are the parts the tracker depends on.
func (r *Runner) PrepareApplication(ctx context.Context, id uuid.UUID) (*Material, error) {
	app, err := r.store.GetApplicationByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load application: %w", err)
	}
	if app == nil {
		return nil, fmt.Errorf("application not found: %s", id)
	}

	job := content.JobContext{
		Company:     app.Company,
		Role:        app.Role,
		Description: app.JobDescription,
	}

	bullets, err := r.generator.ResumeBullets(ctx, job)
	if err != nil {
		return nil, fmt.Errorf("resume bullets for %s: %w", app.Company, err)
	}

	letter, err := r.generator.CoverLetter(ctx, job)
	if err != nil {
		log.Printf("[pipeline] cover letter failed for %s: %v", app.Company, err)
		letter = ""
	}

	enrichment, err := r.generator.Enrich(ctx, job)
	if err != nil {
		return nil, fmt.Errorf("interview prep for %s: %w", app.Company, err)
	}

	if err := r.store.SetGeneratedContent(ctx, app.ID, enrichment.InterviewPrep, enrichment.SkillsToLearn); err != nil {
		return nil, fmt.Errorf("persist generated content: %w", err)
	}

	return &Material{
		ApplicationID: app.ID,
		Company:       app.Company,
		Role:          app.Role,
		ResumeBullets: bullets,
		CoverLetter:   letter,
		Enrichment:    enrichment,
	}, nil
}

// PrepareApplications generates material for a batch of approved postings.
// Failures are collected per application so one bad record does not block
// the rest of the batch.
func (r *Runner) PrepareApplications(ctx context.Context, ids []uuid.UUID) ([]Material, map[uuid.UUID]error) {
	var materials []Material
	failures := make(map[uuid.UUID]error)

	for _, id := range ids {
		if ctx.Err() != nil {
			failures[id] = ctx.Err()
			continue
		}
		material, err := r.PrepareApplication(ctx, id)
		if err != nil {
			log.Printf("[pipeline] prepare %s failed: %v", id, err)
			failures[id] = err
			continue
		}
		materials = append(materials, *material)
	}
	return materials, failures
}

// EnrichedApplication reloads the record after generation so callers see the
// stored prep text and the resume_generated status.
func (r *Runner) EnrichedApplication(ctx context.Context, id uuid.UUID) (*db.Application, error) {
	return r.store.GetApplicationByID(ctx, id)
}
