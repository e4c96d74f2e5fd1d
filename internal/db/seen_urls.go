package db

import (
	"context"
	"fmt"
)

// FilterNewURLs returns the subset of urls that have never been seen before.
// Order of the input is preserved.
func (db *DB) FilterNewURLs(ctx context.Context, urls []string) ([]string, error) {
	if len(urls) == 0 {
		return nil, nil
	}

	rows, err := db.pool.Query(ctx,
		`SELECT url FROM seen_urls WHERE url = ANY($1)`, urls)
	if err != nil {
		return nil, fmt.Errorf("failed to query seen URLs: %w", err)
	}
	defer rows.Close()

	seen := map[string]bool{}
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, fmt.Errorf("failed to scan seen URL: %w", err)
		}
		seen[url] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var fresh []string
	for _, url := range urls {
		if !seen[url] {
			fresh = append(fresh, url)
		}
	}
	return fresh, nil
}

// MarkSeen records urls as seen for the given platform. Already-seen URLs
// are left untouched.
func (db *DB) MarkSeen(ctx context.Context, platform string, urls []string) error {
	for _, url := range urls {
		_, err := db.pool.Exec(ctx,
			`INSERT INTO seen_urls (url, platform) VALUES ($1, $2)
			 ON CONFLICT (url) DO NOTHING`,
			url, platform)
		if err != nil {
			return fmt.Errorf("failed to mark URL seen: %w", err)
		}
	}
	return nil
}

// CountSeen returns the total number of remembered URLs
func (db *DB) CountSeen(ctx context.Context) (int, error) {
	var count int
	if err := db.pool.QueryRow(ctx, `SELECT COUNT(*) FROM seen_urls`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count seen URLs: %w", err)
	}
	return count, nil
}
