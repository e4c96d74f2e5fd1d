package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// GetSettings retrieves the user settings row, or nil when none was saved yet
func (db *DB) GetSettings(ctx context.Context) (*UserSettings, error) {
	var s UserSettings
	err := db.pool.QueryRow(ctx,
		`SELECT user_name, user_email, user_phone, locations, target_roles,
		        experience_years, min_fit_score, platforms, updated_at
		 FROM user_settings WHERE id = 1`,
	).Scan(&s.UserName, &s.UserEmail, &s.UserPhone, &s.Locations, &s.TargetRoles,
		&s.ExperienceYears, &s.MinFitScore, &s.Platforms, &s.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return &s, nil
}

// SaveSettings upserts the single user settings row
func (db *DB) SaveSettings(ctx context.Context, s *UserSettings) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO user_settings (id, user_name, user_email, user_phone, locations,
		    target_roles, experience_years, min_fit_score, platforms, updated_at)
		 VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8, NOW())
		 ON CONFLICT (id) DO UPDATE SET
		    user_name = $1, user_email = $2, user_phone = $3, locations = $4,
		    target_roles = $5, experience_years = $6, min_fit_score = $7,
		    platforms = $8, updated_at = NOW()`,
		s.UserName, s.UserEmail, s.UserPhone, s.Locations, s.TargetRoles,
		s.ExperienceYears, s.MinFitScore, s.Platforms)
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
