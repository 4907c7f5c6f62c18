package reporter

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/luinbytes/media-control-raycast/internal/config"
	"github.com/luinbytes/media-control-raycast/internal/database"
	"github.com/luinbytes/media-control-raycast/internal/models"
)

// Reporter handles report generation
type Reporter struct {
	config *config.Config
	repo   *database.Repository
}

// New creates a new reporter
func New(cfg *config.Config, repo *database.Repository) *Reporter {
	return &Reporter{
		config: cfg,
		repo:   repo,
	}
}

// GenerateReport generates a report for the specified period
func (r *Reporter) GenerateReport(periodType string) (*models.Report, error) {
	period, err := r.GetPeriod(periodType)
	if err != nil {
		return nil, err
	}

	activity, err := r.repo.GetAppActivitySince(period.Start)
	if err != nil {
		return nil, fmt.Errorf("failed to get app activity: %w", err)
	}

	total := 0
	for _, app := range activity {
		total += app.WinCount
	}
	if total > 0 {
		for i := range activity {
			activity[i].Percentage = (float64(activity[i].WinCount) / float64(total)) * 100.0
		}
	}

	dispatches, dispatchOK, err := r.repo.CountDispatchesSince(period.Start)
	if err != nil {
		return nil, fmt.Errorf("failed to count dispatches: %w", err)
	}

	errorCount, err := r.repo.CountErrorsSince(period.Start)
	if err != nil {
		return nil, fmt.Errorf("failed to count errors: %w", err)
	}

	report := &models.Report{
		Period:          *period,
		Apps:            activity,
		TotalSelections: total,
		Dispatches:      int(dispatches),
		DispatchOK:      int(dispatchOK),
		Errors:          int(errorCount),
		GeneratedAt:     time.Now(),
	}

	return report, nil
}

// GetPeriod calculates the time range for the report
func (r *Reporter) GetPeriod(periodType string) (*models.ReportPeriod, error) {
	now := time.Now()
	var start, end time.Time

	switch periodType {
	case "day", "today":
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		end = start.Add(24 * time.Hour)

	case "week":
		// Start of week (Monday)
		weekday := int(now.Weekday())
		if weekday == 0 {
			weekday = 7 // Sunday = 7
		}
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, -(weekday - 1))
		end = start.AddDate(0, 0, 7)

	case "month":
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		end = start.AddDate(0, 1, 0)

	default:
		return nil, fmt.Errorf("invalid period type: %s (valid: day, week, month)", periodType)
	}

	return &models.ReportPeriod{
		Start: start,
		End:   end,
		Type:  periodType,
	}, nil
}

// FormatReportText formats the report as human-readable text
func (r *Reporter) FormatReportText(report *models.Report) string {
	output := fmt.Sprintf("Playback Activity Report - %s\n", report.Period.Type)
	output += fmt.Sprintf("Period: %s to %s\n",
		report.Period.Start.Format("2006-01-02 15:04"),
		report.Period.End.Format("2006-01-02 15:04"))
	output += fmt.Sprintf("Selections: %d | Dispatches: %d (%d ok) | Errors: %d\n\n",
		report.TotalSelections, report.Dispatches, report.DispatchOK, report.Errors)

	if len(report.Apps) == 0 {
		output += "No playback activity recorded for this period.\n"
		return output
	}

	output += fmt.Sprintf("%-30s %10s %10s %10s\n", "Application", "Wins", "Playing", "Percent")
	output += fmt.Sprintf("%s\n", "--------------------------------------------------------------------------------")

	for _, app := range report.Apps {
		output += fmt.Sprintf("%-30s %10d %10d %9.1f%%\n",
			truncate(app.AppID, 30),
			app.WinCount,
			app.PlayingCount,
			app.Percentage)
	}

	return output
}

// FormatReportJSON formats the report as JSON
func (r *Reporter) FormatReportJSON(report *models.Report) (string, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(data), nil
}

// truncate truncates a string to the specified length
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
