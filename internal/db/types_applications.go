package db

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a job application record.
type Status string

// Application statuses. A record is created as StatusDiscovered and moves
// forward from there; records are never deleted, and every transition is
// appended to the status_events log.
const (
	StatusDiscovered      Status = "discovered"
	StatusScored          Status = "scored"
	StatusResumeGenerated Status = "resume_generated"
	StatusPendingApproval Status = "pending_approval"
	StatusApplied         Status = "applied"
	StatusInterview       Status = "interview"
	StatusOffer           Status = "offer"
	StatusRejected        Status = "rejected"
	StatusNoResponse      Status = "no_response"
)

// validStatuses is the closed set of accepted statuses.
var validStatuses = map[Status]bool{
	StatusDiscovered:      true,
	StatusScored:          true,
	StatusResumeGenerated: true,
	StatusPendingApproval: true,
	StatusApplied:         true,
	StatusInterview:       true,
	StatusOffer:           true,
	StatusRejected:        true,
	StatusNoResponse:      true,
}

// IsValid reports whether s is one of the accepted statuses.
func (s Status) IsValid() bool {
	return validStatuses[s]
}

// AllStatuses returns the accepted statuses in lifecycle order.
func AllStatuses() []Status {
	return []Status{
		StatusDiscovered, StatusScored, StatusResumeGenerated,
		StatusPendingApproval, StatusApplied, StatusInterview,
		StatusOffer, StatusRejected, StatusNoResponse,
	}
}

// Application is a single tracked job application record.
type Application struct {
	ID                 uuid.UUID      `json:"id"`
	Platform           string         `json:"platform"`
	Company            string         `json:"company"`
	Role               string         `json:"role"`
	Location           string         `json:"location"`
	ExperienceRequired string         `json:"experience_required"`
	JobURL             string         `json:"job_url"`
	JobDescription     string         `json:"job_description"`
	FitScore           int            `json:"fit_score"`
	ScoringDetails     map[string]any `json:"scoring_details,omitempty"`
	InterviewPrep      string         `json:"interview_prep"`
	SkillsToLearn      string         `json:"skills_to_learn"`
	Notes              string         `json:"notes"`
	Status             Status         `json:"status"`
	DiscoveredAt       time.Time      `json:"discovered_at"`
	AppliedAt          *time.Time     `json:"applied_at,omitempty"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
}

// DaysSinceApplied returns whole days since the applied timestamp, or -1
// when the record has no applied timestamp.
func (a *Application) DaysSinceApplied(now time.Time) int {
	if a.AppliedAt == nil {
		return -1
	}
	return int(now.Sub(*a.AppliedAt).Hours() / 24)
}

// StatusEvent is one row of the append-only status transition log.
type StatusEvent struct {
	ID            uuid.UUID `json:"id"`
	ApplicationID uuid.UUID `json:"application_id"`
	FromStatus    Status    `json:"from_status"`
	ToStatus      Status    `json:"to_status"`
	Notes         string    `json:"notes"`
	CreatedAt     time.Time `json:"created_at"`
}

// Stats holds aggregate application counts by status.
type Stats struct {
	TotalDiscovered int     `json:"total_discovered"`
	TotalApplied    int     `json:"total_applied"`
	Interviews      int     `json:"interviews"`
	Offers          int     `json:"offers"`
	Rejected        int     `json:"rejected"`
	NoResponse      int     `json:"no_response"`
	SuccessRate     float64 `json:"success_rate"`
}

// UserSettings is the single-row user preference record backing the
// settings API.
type UserSettings struct {
	UserName        string    `json:"user_name"`
	UserEmail       string    `json:"user_email"`
	UserPhone       string    `json:"user_phone"`
	Locations       []string  `json:"locations"`
	TargetRoles     []string  `json:"target_roles"`
	ExperienceYears int       `json:"experience_years"`
	MinFitScore     int       `json:"min_fit_score"`
	Platforms       []string  `json:"platforms"`
	UpdatedAt       time.Time `json:"updated_at"`
}
