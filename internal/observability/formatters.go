// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/ajsalpv/job-agent/internal/db"
	"github.com/ajsalpv/job-agent/internal/discovery"
	"github.com/ajsalpv/job-agent/internal/supervisor"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintListings outputs the raw listings extracted from one platform.
func (p *Printer) PrintListings(platform string, listings []discovery.Listing) {
	if len(listings) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Extracted %d listings:\n\n", len(listings)))

	count := min(len(listings), maxItemsToShow)
	for i := 0; i < count; i++ {
		l := listings[i]
		role := l.Role
		if len(role) > 40 {
			role = role[:37] + "..."
		}
		sb.WriteString(fmt.Sprintf("• %s\n", role))
		sb.WriteString(fmt.Sprintf("  %s", l.Company))
		if l.Location != "" {
			sb.WriteString(fmt.Sprintf(" (%s)", l.Location))
		}
		sb.WriteString("\n")
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(listings) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more listings", len(listings)-maxItemsToShow))
	}

	p.printBox(fmt.Sprintf("LISTINGS: %s", strings.ToUpper(platform)), sb.String())
}

// PrintScoredJobs outputs the top scored applications from a scan.
func (p *Printer) PrintScoredJobs(apps []db.Application) {
	if len(apps) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total jobs scored: %d\n\n", len(apps)))

	count := min(len(apps), maxItemsToShow)
	for i := 0; i < count; i++ {
		app := apps[i]
		sb.WriteString(fmt.Sprintf("#%d  %s at %s\n", i+1, app.Role, app.Company))
		sb.WriteString(fmt.Sprintf("    Score: %d  Platform: %s\n", app.FitScore, app.Platform))
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(apps) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more jobs", len(apps)-maxItemsToShow))
	}

	p.printBox("TOP SCORED JOBS", sb.String())
}

// PrintPlatformHealth outputs the supervisor's per-platform health report.
func (p *Printer) PrintPlatformHealth(report supervisor.Report) {
	if len(report.Platforms) == 0 {
		return
	}

	names := make([]string, 0, len(report.Platforms))
	for name := range report.Platforms {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	for i, name := range names {
		h := report.Platforms[name]
		icon := "✓"
		switch h.Status {
		case supervisor.StatusDegraded:
			icon = "⚠"
		case supervisor.StatusDisabled:
			icon = "✗"
		}
		sb.WriteString(fmt.Sprintf("%s %-12s %s\n", icon, name, h.Status))
		sb.WriteString(fmt.Sprintf("  runs: %d  failures: %d consecutive\n",
			h.TotalRuns, h.ConsecutiveFailures))
		if i < len(names)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("PLATFORM HEALTH", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintScanSummary outputs the closing totals for a scan run.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintScanSummary(discovered, fresh, scored, matched int, elapsed time.Duration) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Discovered:    %d\n", discovered))
	sb.WriteString(fmt.Sprintf("New (unseen):  %d\n", fresh))
	sb.WriteString(fmt.Sprintf("Scored:        %d\n", scored))
	sb.WriteString(fmt.Sprintf("Above cutoff:  %d\n", matched))
	sb.WriteString(fmt.Sprintf("Elapsed:       %s", elapsed.Round(time.Second)))

	p.printBox("SCAN COMPLETE", sb.String())
}
