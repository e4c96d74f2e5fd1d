package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// applicationColumns is the canonical column list scanned into an Application.
const applicationColumns = `id, platform, company, role, location, experience_required,
	job_url, job_description, fit_score, scoring_details, interview_prep,
	skills_to_learn, notes, status, discovered_at, applied_at, created_at, updated_at`

func scanApplication(row pgx.Row) (*Application, error) {
	var a Application
	var detailsJSON []byte
	err := row.Scan(&a.ID, &a.Platform, &a.Company, &a.Role, &a.Location,
		&a.ExperienceRequired, &a.JobURL, &a.JobDescription, &a.FitScore,
		&detailsJSON, &a.InterviewPrep, &a.SkillsToLearn, &a.Notes, &a.Status,
		&a.DiscoveredAt, &a.AppliedAt, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if detailsJSON != nil {
		_ = json.Unmarshal(detailsJSON, &a.ScoringDetails)
	}
	return &a, nil
}

// CreateApplication inserts a new application record with status 'discovered'.
// Inserting a URL that already exists is a no-op; the existing record is
// returned in that case.
func (db *DB) CreateApplication(ctx context.Context, a *Application) (*Application, error) {
	var detailsJSON []byte
	if a.ScoringDetails != nil {
		var err error
		detailsJSON, err = json.Marshal(a.ScoringDetails)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal scoring details: %w", err)
		}
	}

	row := db.pool.QueryRow(ctx,
		`INSERT INTO applications (platform, company, role, location, experience_required,
		    job_url, job_description, fit_score, scoring_details, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 'discovered')
		 ON CONFLICT (job_url) DO NOTHING
		 RETURNING `+applicationColumns,
		a.Platform, a.Company, a.Role, a.Location, a.ExperienceRequired,
		a.JobURL, a.JobDescription, a.FitScore, detailsJSON,
	)

	created, err := scanApplication(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			// Conflict path: the URL was already tracked
			return db.GetApplicationByURL(ctx, a.JobURL)
		}
		return nil, fmt.Errorf("failed to create application: %w", err)
	}
	return created, nil
}

// GetApplicationByID retrieves an application by its ID
func (db *DB) GetApplicationByID(ctx context.Context, id uuid.UUID) (*Application, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id)
	a, err := scanApplication(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return a, nil
}

// GetApplicationByURL retrieves an application by its job URL
func (db *DB) GetApplicationByURL(ctx context.Context, jobURL string) (*Application, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE job_url = $1`, jobURL)
	a, err := scanApplication(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get application by URL: %w", err)
	}
	return a, nil
}

// ListApplicationsOptions holds optional filters for listing applications
type ListApplicationsOptions struct {
	Platform string
	Status   Status
	Limit    int
	Offset   int
}

// ListApplications retrieves applications with optional filters, newest first
func (db *DB) ListApplications(ctx context.Context, opts ListApplicationsOptions) ([]Application, error) {
	if opts.Limit <= 0 {
		opts.Limit = 200
	}

	query := `SELECT ` + applicationColumns + ` FROM applications WHERE 1=1`
	args := []any{}
	argNum := 1

	if opts.Platform != "" {
		query += fmt.Sprintf(" AND platform = $%d", argNum)
		args = append(args, opts.Platform)
		argNum++
	}
	if opts.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argNum)
		args = append(args, opts.Status)
		argNum++
	}

	query += fmt.Sprintf(" ORDER BY discovered_at DESC LIMIT $%d OFFSET $%d", argNum, argNum+1)
	args = append(args, opts.Limit, opts.Offset)

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	var apps []Application
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		apps = append(apps, *a)
	}
	return apps, rows.Err()
}

// UpdateStatus transitions an application to a new status and appends the
// transition to the status_events log in the same transaction. Moving to
// 'applied' stamps applied_at unless an explicit timestamp is given.
func (db *DB) UpdateStatus(ctx context.Context, id uuid.UUID, newStatus Status, notes string, appliedAt *time.Time) error {
	if !newStatus.IsValid() {
		return fmt.Errorf("invalid status: %s", newStatus)
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var current Status
	err = tx.QueryRow(ctx, `SELECT status FROM applications WHERE id = $1 FOR UPDATE`, id).Scan(&current)
	if err != nil {
		if err == pgx.ErrNoRows {
			return fmt.Errorf("application not found: %s", id)
		}
		return fmt.Errorf("failed to read current status: %w", err)
	}

	stamp := appliedAt
	if newStatus == StatusApplied && stamp == nil {
		now := time.Now()
		stamp = &now
	}

	if stamp != nil {
		_, err = tx.Exec(ctx,
			`UPDATE applications SET status = $1, notes = CASE WHEN $2 <> '' THEN $2 ELSE notes END,
			    applied_at = $3, updated_at = NOW() WHERE id = $4`,
			newStatus, notes, stamp, id)
	} else {
		_, err = tx.Exec(ctx,
			`UPDATE applications SET status = $1, notes = CASE WHEN $2 <> '' THEN $2 ELSE notes END,
			    updated_at = NOW() WHERE id = $3`,
			newStatus, notes, id)
	}
	if err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO status_events (application_id, from_status, to_status, notes)
		 VALUES ($1, $2, $3, $4)`,
		id, current, newStatus, notes)
	if err != nil {
		return fmt.Errorf("failed to append status event: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit status update: %w", err)
	}
	return nil
}

// SetScore stores the fit score and scoring details and marks the record scored
func (db *DB) SetScore(ctx context.Context, id uuid.UUID, fitScore int, details map[string]any) error {
	detailsJSON, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("failed to marshal scoring details: %w", err)
	}

	result, err := db.pool.Exec(ctx,
		`UPDATE applications SET fit_score = $1, scoring_details = $2, status = 'scored',
		    updated_at = NOW() WHERE id = $3`,
		fitScore, detailsJSON, id)
	if err != nil {
		return fmt.Errorf("failed to set score: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("application not found: %s", id)
	}
	return nil
}

// SetGeneratedContent stores interview prep and skills-to-learn text
func (db *DB) SetGeneratedContent(ctx context.Context, id uuid.UUID, interviewPrep, skillsToLearn string) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE applications SET interview_prep = $1, skills_to_learn = $2,
		    status = 'resume_generated', updated_at = NOW() WHERE id = $3`,
		interviewPrep, skillsToLearn, id)
	if err != nil {
		return fmt.Errorf("failed to set generated content: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("application not found: %s", id)
	}
	return nil
}

// ListStatusEvents returns the transition log for an application, oldest first
func (db *DB) ListStatusEvents(ctx context.Context, applicationID uuid.UUID) ([]StatusEvent, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, application_id, from_status, to_status, notes, created_at
		 FROM status_events WHERE application_id = $1 ORDER BY created_at ASC`,
		applicationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list status events: %w", err)
	}
	defer rows.Close()

	var events []StatusEvent
	for rows.Next() {
		var e StatusEvent
		if err := rows.Scan(&e.ID, &e.ApplicationID, &e.FromStatus, &e.ToStatus, &e.Notes, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan status event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// GetStats aggregates application counts by status
func (db *DB) GetStats(ctx context.Context) (*Stats, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT status, COUNT(*) FROM applications GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}
	defer rows.Close()

	counts := map[Status]int{}
	total := 0
	for rows.Next() {
		var status Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan stats row: %w", err)
		}
		counts[status] = count
		total += count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	stats := &Stats{
		TotalDiscovered: total,
		TotalApplied:    counts[StatusApplied] + counts[StatusInterview] + counts[StatusOffer] + counts[StatusRejected] + counts[StatusNoResponse],
		Interviews:      counts[StatusInterview],
		Offers:          counts[StatusOffer],
		Rejected:        counts[StatusRejected],
		NoResponse:      counts[StatusNoResponse],
	}
	if stats.TotalApplied > 0 {
		stats.SuccessRate = float64(stats.Interviews+stats.Offers) / float64(stats.TotalApplied) * 100
	}
	return stats, nil
}

// ListFollowUps returns applied applications older than the given threshold
func (db *DB) ListFollowUps(ctx context.Context, daysThreshold int) ([]Application, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+applicationColumns+` FROM applications
		 WHERE status = 'applied' AND applied_at IS NOT NULL
		   AND applied_at < NOW() - ($1 ||' days')::interval
		 ORDER BY applied_at ASC`,
		daysThreshold)
	if err != nil {
		return nil, fmt.Errorf("failed to list follow-ups: %w", err)
	}
	defer rows.Close()

	var apps []Application
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan follow-up: %w", err)
		}
		apps = append(apps, *a)
	}
	return apps, rows.Err()
}
