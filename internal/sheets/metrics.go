package sheets

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/sheets/v4"

	"github.com/ajsalpv/job-agent/internal/db"
)

const (
	metricsSheet   = "Metrics"
	followUpsSheet = "Follow-ups"
)

// MetricsColumns is the header of the metrics tab.
var MetricsColumns = []string{
	"Total Discovered", "Total Applied", "Interviews",
	"Rejections", "Offers", "Success Rate",
}

// FollowUpColumns is the header of the follow-ups tab.
var FollowUpColumns = []string{
	"Company", "Role", "Applied Date", "Days Since Applied",
	"Status", "Action Needed", "Next Follow-up",
}

// SyncMetrics rewrites the metrics tab with the current aggregate counts.
func (m *Mirror) SyncMetrics(ctx context.Context, stats *db.Stats) error {
	writeRange := fmt.Sprintf("%s!A1:F2", metricsSheet)
	_, err := m.svc.Spreadsheets.Values.Update(m.sheetID, writeRange, &sheets.ValueRange{
		Values: [][]interface{}{
			toCells(MetricsColumns),
			MetricsRow(stats),
		},
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("sync metrics: %w", err)
	}
	return nil
}

// SyncFollowUps replaces the follow-ups tab with the given applications.
func (m *Mirror) SyncFollowUps(ctx context.Context, apps []db.Application, now time.Time) error {
	if _, err := m.svc.Spreadsheets.Values.Clear(m.sheetID, followUpsSheet, &sheets.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear follow-ups: %w", err)
	}

	rows := [][]interface{}{toCells(FollowUpColumns)}
	for i := range apps {
		rows = append(rows, FollowUpRow(&apps[i], now))
	}

	writeRange := fmt.Sprintf("%s!A1", followUpsSheet)
	_, err := m.svc.Spreadsheets.Values.Update(m.sheetID, writeRange, &sheets.ValueRange{
		Values: rows,
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("sync follow-ups: %w", err)
	}
	return nil
}

// MetricsRow renders aggregate stats in the metrics tab column order.
func MetricsRow(stats *db.Stats) []interface{} {
	return []interface{}{
		stats.TotalDiscovered,
		stats.TotalApplied,
		stats.Interviews,
		stats.Rejected,
		stats.Offers,
		fmt.Sprintf("%.1f%%", stats.SuccessRate),
	}
}

// FollowUpRow renders an application in the follow-ups tab column order.
func FollowUpRow(app *db.Application, now time.Time) []interface{} {
	appliedDate := ""
	nextFollowUp := ""
	days := app.DaysSinceApplied(now)
	if app.AppliedAt != nil {
		appliedDate = app.AppliedAt.Format("2006-01-02")
		nextFollowUp = app.AppliedAt.AddDate(0, 0, 7).Format("2006-01-02")
	}
	return []interface{}{
		app.Company,
		app.Role,
		appliedDate,
		days,
		string(app.Status),
		actionNeeded(days),
		nextFollowUp,
	}
}

func actionNeeded(daysSinceApplied int) string {
	switch {
	case daysSinceApplied >= 14:
		return "Send second follow-up or move on"
	case daysSinceApplied >= 7:
		return "Send follow-up message"
	default:
		return "Wait"
	}
}

func toCells(cols []string) []interface{} {
	cells := make([]interface{}, len(cols))
	for i, c := range cols {
		cells[i] = c
	}
	return cells
}
