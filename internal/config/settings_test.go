package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/jobagent")
	t.Setenv("MIN_FIT_SCORE", "")
	t.Setenv("CHECK_INTERVAL", "")

	s := Load()

	assert.Equal(t, 70, s.MinFitScore)
	assert.Equal(t, 120*time.Minute, s.CheckInterval)
	assert.True(t, s.HeadlessBrowser)
	assert.Equal(t, 10, s.LinkedInRateLimit)
	assert.False(t, s.AuthEnabled())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("MIN_FIT_SCORE", "55")
	t.Setenv("CHECK_INTERVAL", "30m")
	t.Setenv("HEADLESS_BROWSER", "false")
	t.Setenv("API_PASSWORD_HASH", "$2a$12$notarealhash")

	s := Load()

	assert.Equal(t, 55, s.MinFitScore)
	assert.Equal(t, 30*time.Minute, s.CheckInterval)
	assert.False(t, s.HeadlessBrowser)
	assert.True(t, s.AuthEnabled())
}

func TestValidate_RequiresDatabaseURL(t *testing.T) {
	s := &Settings{MinFitScore: 70}
	err := s.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestValidate_ScoreRange(t *testing.T) {
	s := &Settings{DatabaseURL: "postgres://localhost/x", MinFitScore: 150}
	err := s.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MIN_FIT_SCORE")
}

func TestLocationsAndRoles(t *testing.T) {
	s := &Settings{
		UserLocation: "Bangalore, Remote , Kochi",
		TargetRoles:  "AI Engineer,ML Engineer",
	}

	assert.Equal(t, []string{"Bangalore", "Remote", "Kochi"}, s.Locations())
	assert.Equal(t, []string{"AI Engineer", "ML Engineer"}, s.Roles())
}

func TestSplitCSV_Empty(t *testing.T) {
	assert.Nil(t, splitCSV(""))
	assert.Nil(t, splitCSV(" , ,"))
}
