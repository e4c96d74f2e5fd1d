// Package sheets mirrors the application tracker into a Google
// Spreadsheet so it stays readable from a phone. Postgres remains the
// system of record; the mirror is append-mostly and best effort.
package sheets

import (
	"context"
	"fmt"
	"log"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/ajsalpv/job-agent/internal/db"
)

// applicationsSheet is the tab holding one row per application.
const applicationsSheet = "Applications"

// ApplicationColumns is the mirror's header row.
var ApplicationColumns = []string{
	"Date", "Platform", "Company", "Role", "Location",
	"Experience Required", "Fit Score", "Status", "Job URL",
	"Job Description", "Interview Prep", "Skills to Learn", "Notes",
}

// maxCellLen keeps long generated text from blowing up a cell.
const maxCellLen = 5000

// Mirror writes application rows to a spreadsheet.
type Mirror struct {
	svc     *sheets.Service
	sheetID string
}

// NewMirror creates a mirror from service account credentials JSON.
func NewMirror(ctx context.Context, credentialsJSON, sheetID string) (*Mirror, error) {
	if credentialsJSON == "" || sheetID == "" {
		return nil, fmt.Errorf("sheets mirror requires credentials and a sheet ID")
	}

	svc, err := sheets.NewService(ctx,
		option.WithCredentialsJSON([]byte(credentialsJSON)),
		option.WithScopes(sheets.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Mirror{svc: svc, sheetID: sheetID}, nil
}

// EnsureHeaders writes the header row if the sheet is empty.
func (m *Mirror) EnsureHeaders(ctx context.Context) error {
	readRange := fmt.Sprintf("%s!A1:M1", applicationsSheet)
	resp, err := m.svc.Spreadsheets.Values.Get(m.sheetID, readRange).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read sheet headers: %w", err)
	}
	if len(resp.Values) > 0 {
		return nil
	}

	header := make([]interface{}, len(ApplicationColumns))
	for i, col := range ApplicationColumns {
		header[i] = col
	}

	_, err = m.svc.Spreadsheets.Values.Update(m.sheetID, readRange, &sheets.ValueRange{
		Values: [][]interface{}{header},
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write sheet headers: %w", err)
	}
	return nil
}

// AppendApplication adds one application row to the mirror.
func (m *Mirror) AppendApplication(ctx context.Context, app *db.Application) error {
	_, err := m.svc.Spreadsheets.Values.Append(m.sheetID, applicationsSheet, &sheets.ValueRange{
		Values: [][]interface{}{ApplicationRow(app)},
	}).ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append application row: %w", err)
	}
	return nil
}

// UpdateStatus finds the row for a job URL and rewrites its status cell.
// Rows added outside the mirror are found by scanning the URL column.
func (m *Mirror) UpdateStatus(ctx context.Context, jobURL string, status db.Status) error {
	readRange := fmt.Sprintf("%s!I:I", applicationsSheet)
	resp, err := m.svc.Spreadsheets.Values.Get(m.sheetID, readRange).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read URL column: %w", err)
	}

	row := -1
	for i, cells := range resp.Values {
		if len(cells) > 0 && fmt.Sprint(cells[0]) == jobURL {
			row = i + 1 // sheet rows are 1-based
			break
		}
	}
	if row < 0 {
		log.Printf("[sheets] no row for %s, skipping status update", jobURL)
		return nil
	}

	cell := fmt.Sprintf("%s!H%d", applicationsSheet, row)
	_, err = m.svc.Spreadsheets.Values.Update(m.sheetID, cell, &sheets.ValueRange{
		Values: [][]interface{}{{string(status)}},
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update status cell: %w", err)
	}
	return nil
}

// ApplicationRow renders an application in the mirror's column order.
func ApplicationRow(app *db.Application) []interface{} {
	return []interface{}{
		app.DiscoveredAt.Format("2006-01-02"),
		app.Platform,
		app.Company,
		app.Role,
		app.Location,
		app.ExperienceRequired,
		app.FitScore,
		string(app.Status),
		app.JobURL,
		truncate(app.JobDescription),
		truncate(app.InterviewPrep),
		truncate(app.SkillsToLearn),
		truncate(app.Notes),
	}
}

func truncate(s string) string {
	if len(s) > maxCellLen {
		return s[:maxCellLen]
	}
	return s
}
