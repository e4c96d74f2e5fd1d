package schemas

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_ScoringResult(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr bool
	}{
		{
			name: "valid result",
			doc: `{
				"fit_score": 85,
				"skill_match_score": 35,
				"experience_match_score": 20,
				"location_match_score": 15,
				"role_relevance_score": 15,
				"matching_skills": ["Go", "PostgreSQL"],
				"missing_skills": ["Kubernetes"],
				"recommendation": "apply",
				"reason": "Strong skill overlap"
			}`,
			wantErr: false,
		},
		{
			name: "score out of range",
			doc: `{
				"fit_score": 120,
				"skill_match_score": 35,
				"experience_match_score": 20,
				"location_match_score": 15,
				"role_relevance_score": 15,
				"recommendation": "apply",
				"reason": "x"
			}`,
			wantErr: true,
		},
		{
			name: "unknown recommendation",
			doc: `{
				"fit_score": 50,
				"skill_match_score": 20,
				"experience_match_score": 10,
				"location_match_score": 10,
				"role_relevance_score": 10,
				"recommendation": "definitely",
				"reason": "x"
			}`,
			wantErr: true,
		},
		{
			name:    "missing required fields",
			doc:     `{"fit_score": 50}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(ScoringResult, tt.doc)
			if tt.wantErr {
				require.Error(t, err)
				var ve *ValidationError
				assert.True(t, errors.As(err, &ve))
				assert.NotEmpty(t, ve.Errors)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate_ResumeOptimization(t *testing.T) {
	valid := `{
		"optimized_bullets": ["Built a scraper pipeline processing 500 postings/day"],
		"keywords_included": ["scraping"],
		"skill_highlights": ["Go"]
	}`
	assert.NoError(t, Validate(ResumeOptimization, valid))

	empty := `{"optimized_bullets": []}`
	assert.Error(t, Validate(ResumeOptimization, empty))
}

func TestValidate_JobEnrichment(t *testing.T) {
	valid := `{
		"interview_prep": "Review system design fundamentals.",
		"skills_to_learn": "Kubernetes, Terraform",
		"notes": "Emphasize the ML pipeline work.",
		"job_summary": "Backend role on the data platform team."
	}`
	assert.NoError(t, Validate(JobEnrichment, valid))

	missing := `{"notes": "no prep content"}`
	assert.Error(t, Validate(JobEnrichment, missing))
}

func TestValidate_UnknownSchema(t *testing.T) {
	err := Validate("nope", `{}`)
	require.Error(t, err)

	var le *SchemaLoadError
	assert.True(t, errors.As(err, &le))
}

func TestValidationError_Message(t *testing.T) {
	err := Validate(ScoringResult, `{"fit_score": "not a number"}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
	assert.Contains(t, err.Error(), "fit_score")
}

func TestValidateJSONString_InvalidSchema(t *testing.T) {
	err := ValidateJSONString(`{"type": 12}`, `{}`)
	require.Error(t, err)
}
