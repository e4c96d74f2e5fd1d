package supervisor

import (
	"fmt"
	"sort"
	"strings"
)

// TextReport renders a Telegram-friendly health report in Markdown.
func (s *Supervisor) TextReport() string {
	report := s.Report()

	names := make([]string, 0, len(report.Platforms))
	for name := range report.Platforms {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	sb.WriteString("*Supervisor Health Report*\n\n")
	for _, name := range names {
		h := report.Platforms[name]
		sb.WriteString(fmt.Sprintf("%s *%s*: %d jobs | %s\n", statusIcon(h.Status), title(name), h.LastJobCount, h.Status))
	}
	sb.WriteString(fmt.Sprintf("\nTotal: %d jobs found", report.Summary.TotalJobsFound))
	return sb.String()
}

func statusIcon(status HealthStatus) string {
	switch status {
	case StatusActive:
		return "✅"
	case StatusDegraded:
		return "⚠️"
	default:
		return "🚫"
	}
}

func title(name string) string {
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
