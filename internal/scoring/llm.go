package scoring

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"

	"github.com/ajsalpv/job-agent/internal/llm"
	"github.com/ajsalpv/job-agent/internal/prompts"
	"github.com/ajsalpv/job-agent/internal/schemas"
)

// Scorer scores postings, preferring the LLM when a client is configured
// and falling back to the deterministic rubric when the model output
// fails schema validation or the call errors.
type Scorer struct {
	profile  *Profile
	client   llm.Client
	userName string
}

// NewScorer creates a scorer. client may be nil, in which case only the
// deterministic rubric is used.
func NewScorer(profile *Profile, client llm.Client, userName string) *Scorer {
	return &Scorer{profile: profile, client: client, userName: userName}
}

// Profile returns the candidate profile the scorer evaluates against.
func (s *Scorer) Profile() *Profile {
	return s.profile
}

// Score evaluates a single posting. Excluded roles never reach the LLM.
func (s *Scorer) Score(ctx context.Context, job JobInput) *Result {
	if excluded, reason := checkExclusion(job.Role, job.Description); excluded {
		return &Result{Recommendation: RecommendSkip, Reason: reason, Excluded: true}
	}

	if s.client != nil {
		result, err := s.scoreWithLLM(ctx, job)
		if err == nil {
			return result
		}
		log.Printf("[scoring] LLM scoring failed for %q at %q, using rubric: %v", job.Role, job.Company, err)
	}

	return s.profile.Score(job)
}

// ScoreBatch scores every posting, drops excluded roles, filters by the
// minimum fit score, and returns survivors sorted by score descending.
func (s *Scorer) ScoreBatch(ctx context.Context, jobs []JobInput, minScore int) *BatchResult {
	batch := &BatchResult{TotalScored: len(jobs)}

	for _, job := range jobs {
		if err := ctx.Err(); err != nil {
			break
		}
		result := s.Score(ctx, job)
		if result.Excluded {
			batch.ExcludedCV++
			continue
		}
		if result.FitScore >= minScore {
			batch.Jobs = append(batch.Jobs, ScoredJob{Job: job, Result: result})
		}
	}

	sort.SliceStable(batch.Jobs, func(i, j int) bool {
		return batch.Jobs[i].Result.FitScore > batch.Jobs[j].Result.FitScore
	})

	batch.PassedFilter = len(batch.Jobs)
	return batch
}

func (s *Scorer) scoreWithLLM(ctx context.Context, job JobInput) (*Result, error) {
	template, err := prompts.Get("scoring.json", "score-job")
	if err != nil {
		return nil, err
	}

	targetRole := ""
	if len(s.profile.TargetRoles) > 0 {
		targetRole = s.profile.TargetRoles[0]
	}

	prompt := prompts.Format(template, map[string]string{
		"UserName":           s.userName,
		"ExperienceYears":    strconv.Itoa(s.profile.ExperienceYears),
		"TargetRole":         targetRole,
		"UserLocation":       strings.Join(s.profile.Locations, ", "),
		"Skills":             strings.Join(s.profile.Skills, ", "),
		"Company":            job.Company,
		"Role":               job.Role,
		"JobLocation":        job.Location,
		"ExperienceRequired": job.ExperienceRequired,
		"JobDescription":     job.Description,
	})

	raw, err := s.client.GenerateJSON(ctx, prompt, llm.TierFast)
	if err != nil {
		return nil, fmt.Errorf("generate scoring result: %w", err)
	}

	if err := schemas.Validate(schemas.ScoringResult, raw); err != nil {
		return nil, fmt.Errorf("scoring result rejected: %w", err)
	}

	var result Result
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, fmt.Errorf("parse scoring result: %w", err)
	}

	// Keep the recommendation consistent with the thresholds even if the
	// model disagrees with its own arithmetic.
	result.Recommendation = recommend(result.FitScore)

	return &result, nil
}
