// Package content generates application material: tailored resume
// bullets, cover letters, and interview preparation guides. All LLM JSON
// output is validated against the corresponding schema before use.
package content

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/ajsalpv/job-agent/internal/llm"
	"github.com/ajsalpv/job-agent/internal/prompts"
	"github.com/ajsalpv/job-agent/internal/schemas"
)

// Candidate holds the resume material the generator personalizes with.
type Candidate struct {
	Name              string
	Email             string
	Phone             string
	Skills            []string
	ExperienceYears   int
	ExperienceSummary string
	Projects          string
}

// JobContext is the posting the material is generated for.
type JobContext struct {
	Company     string
	Role        string
	Description string
}

// ResumeOptimization is the validated resume-bullets result.
type ResumeOptimization struct {
	OptimizedBullets []string `json:"optimized_bullets"`
	KeywordsIncluded []string `json:"keywords_included,omitempty"`
	SkillHighlights  []string `json:"skill_highlights,omitempty"`
}

// Enrichment is the validated interview-prep result.
type Enrichment struct {
	InterviewPrep string `json:"interview_prep"`
	SkillsToLearn string `json:"skills_to_learn"`
	Notes         string `json:"notes,omitempty"`
	JobSummary    string `json:"job_summary,omitempty"`
}

// Generator produces application material through the LLM.
type Generator struct {
	client    llm.Client
	candidate Candidate
}

// NewGenerator creates a content generator.
func NewGenerator(client llm.Client, candidate Candidate) *Generator {
	return &Generator{client: client, candidate: candidate}
}

// ResumeBullets generates 3-5 ATS-optimized resume bullet points for a
// posting.
func (g *Generator) ResumeBullets(ctx context.Context, job JobContext) (*ResumeOptimization, error) {
	template, err := prompts.Get("content.json", "resume-bullets")
	if err != nil {
		return nil, err
	}

	prompt := prompts.Format(template, map[string]string{
		"CurrentExperience": g.candidate.ExperienceSummary,
		"Company":           job.Company,
		"Role":              job.Role,
		"JobDescription":    job.Description,
	})

	raw, err := g.client.GenerateJSON(ctx, prompt, llm.TierSmart)
	if err != nil {
		return nil, fmt.Errorf("generate resume bullets: %w", err)
	}
	if err := schemas.Validate(schemas.ResumeOptimization, raw); err != nil {
		return nil, fmt.Errorf("resume bullets rejected: %w", err)
	}

	var result ResumeOptimization
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, fmt.Errorf("parse resume bullets: %w", err)
	}
	return &result, nil
}

// CoverLetter generates a personalized cover letter as plain text.
func (g *Generator) CoverLetter(ctx context.Context, job JobContext) (string, error) {
	template, err := prompts.Get("content.json", "cover-letter")
	if err != nil {
		return "", err
	}

	prompt := prompts.Format(template, map[string]string{
		"UserName":          g.candidate.Name,
		"UserEmail":         g.candidate.Email,
		"UserPhone":         g.candidate.Phone,
		"ExperienceSummary": g.candidate.ExperienceSummary,
		"Projects":          g.candidate.Projects,
		"Company":           job.Company,
		"Role":              job.Role,
		"JobDescription":    job.Description,
	})

	letter, err := g.client.GenerateContent(ctx, prompt, llm.TierSmart)
	if err != nil {
		return "", fmt.Errorf("generate cover letter: %w", err)
	}

	letter = strings.TrimSpace(letter)
	if letter == "" {
		return "", fmt.Errorf("generate cover letter: empty response")
	}
	return letter, nil
}

// Enrich generates the interview preparation guide, skills-to-learn
// roadmap, and strategic notes for a posting.
func (g *Generator) Enrich(ctx context.Context, job JobContext) (*Enrichment, error) {
	template, err := prompts.Get("interview.json", "job-enrichment")
	if err != nil {
		return nil, err
	}

	prompt := prompts.Format(template, map[string]string{
		"UserName":        g.candidate.Name,
		"ExperienceYears": strconv.Itoa(g.candidate.ExperienceYears),
		"Skills":          strings.Join(g.candidate.Skills, ", "),
		"Company":         job.Company,
		"Role":            job.Role,
		"JobDescription":  job.Description,
	})

	raw, err := g.client.GenerateJSON(ctx, prompt, llm.TierSmart)
	if err != nil {
		return nil, fmt.Errorf("generate enrichment: %w", err)
	}
	if err := schemas.Validate(schemas.JobEnrichment, raw); err != nil {
		return nil, fmt.Errorf("enrichment rejected: %w", err)
	}

	var result Enrichment
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, fmt.Errorf("parse enrichment: %w", err)
	}
	return &result, nil
}
