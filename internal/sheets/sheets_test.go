package sheets

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajsalpv/job-agent/internal/db"
)

func TestApplicationRow(t *testing.T) {
	app := &db.Application{
		Platform:           "linkedin",
		Company:            "Acme Corp",
		Role:               "ML Engineer",
		Location:           "Bangalore",
		ExperienceRequired: "2-4 years",
		JobURL:             "https://www.linkedin.com/jobs/view/123",
		JobDescription:     "Build ML pipelines",
		FitScore:           85,
		InterviewPrep:      "Review transformers",
		SkillsToLearn:      "Kubernetes",
		Notes:              "Strong fit",
		Status:             db.StatusDiscovered,
		DiscoveredAt:       time.Date(2026, 8, 15, 10, 30, 0, 0, time.UTC),
	}

	row := ApplicationRow(app)
	require.Len(t, row, len(ApplicationColumns))

	assert.Equal(t, "2026-08-15", row[0])
	assert.Equal(t, "linkedin", row[1])
	assert.Equal(t, "Acme Corp", row[2])
	assert.Equal(t, "ML Engineer", row[3])
	assert.Equal(t, "Bangalore", row[4])
	assert.Equal(t, "2-4 years", row[5])
	assert.Equal(t, 85, row[6])
	assert.Equal(t, "discovered", row[7])
	assert.Equal(t, "https://www.linkedin.com/jobs/view/123", row[8])
	assert.Equal(t, "Build ML pipelines", row[9])
	assert.Equal(t, "Review transformers", row[10])
	assert.Equal(t, "Kubernetes", row[11])
	assert.Equal(t, "Strong fit", row[12])
}

func TestApplicationRowTruncatesLongText(t *testing.T) {
	app := &db.Application{
		JobDescription: strings.Repeat("x", maxCellLen+100),
		DiscoveredAt:   time.Now(),
	}

	row := ApplicationRow(app)
	assert.Len(t, row[9], maxCellLen)
}

func TestNewMirrorRequiresConfig(t *testing.T) {
	_, err := NewMirror(context.Background(), "", "sheet-id")
	assert.Error(t, err)

	_, err = NewMirror(context.Background(), `{"type":"service_account"}`, "")
	assert.Error(t, err)
}
