package sheets

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajsalpv/job-agent/internal/db"
)

func TestMetricsRow(t *testing.T) {
	row := MetricsRow(&db.Stats{
		TotalDiscovered: 120,
		TotalApplied:    40,
		Interviews:      6,
		Rejected:        10,
		Offers:          2,
		SuccessRate:     15.0,
	})

	require.Len(t, row, len(MetricsColumns))
	assert.Equal(t, 120, row[0])
	assert.Equal(t, 40, row[1])
	assert.Equal(t, 6, row[2])
	assert.Equal(t, 10, row[3])
	assert.Equal(t, 2, row[4])
	assert.Equal(t, "15.0%", row[5])
}

func TestFollowUpRow(t *testing.T) {
	now := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	applied := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)

	app := &db.Application{
		Company:   "Acme Corp",
		Role:      "ML Engineer",
		Status:    db.StatusApplied,
		AppliedAt: &applied,
	}

	row := FollowUpRow(app, now)
	require.Len(t, row, len(FollowUpColumns))
	assert.Equal(t, "Acme Corp", row[0])
	assert.Equal(t, "2026-08-10", row[2])
	assert.Equal(t, 10, row[3])
	assert.Equal(t, "applied", row[4])
	assert.Equal(t, "Send follow-up message", row[5])
	assert.Equal(t, "2026-08-17", row[6])
}

func TestFollowUpRowNeverApplied(t *testing.T) {
	row := FollowUpRow(&db.Application{Company: "Acme"}, time.Now())
	assert.Equal(t, "", row[2])
	assert.Equal(t, -1, row[3])
	assert.Equal(t, "Wait", row[5])
	assert.Equal(t, "", row[6])
}

func TestActionNeeded(t *testing.T) {
	assert.Equal(t, "Wait", actionNeeded(3))
	assert.Equal(t, "Send follow-up message", actionNeeded(7))
	assert.Equal(t, "Send second follow-up or move on", actionNeeded(14))
}
