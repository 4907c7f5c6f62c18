package reporter

import (
	"strings"
	"testing"
	"time"

	"github.com/luinbytes/media-control-raycast/internal/config"
	"github.com/luinbytes/media-control-raycast/internal/models"
)

func TestGetPeriod(t *testing.T) {
	r := New(config.Default(), nil)

	tests := []struct {
		periodType string
		wantErr    bool
	}{
		{"day", false},
		{"today", false},
		{"week", false},
		{"month", false},
		{"year", true},
		{"", true},
	}

	for _, tt := range tests {
		period, err := r.GetPeriod(tt.periodType)
		if tt.wantErr {
			if err == nil {
				t.Errorf("GetPeriod(%q) expected error", tt.periodType)
			}
			continue
		}
		if err != nil {
			t.Errorf("GetPeriod(%q) failed: %v", tt.periodType, err)
			continue
		}
		if !period.Start.Before(period.End) {
			t.Errorf("GetPeriod(%q) start %v not before end %v", tt.periodType, period.Start, period.End)
		}
		if time.Now().Before(period.Start) {
			t.Errorf("GetPeriod(%q) starts in the future", tt.periodType)
		}
	}
}

func TestGetPeriodWeekStartsMonday(t *testing.T) {
	r := New(config.Default(), nil)

	period, err := r.GetPeriod("week")
	if err != nil {
		t.Fatalf("GetPeriod failed: %v", err)
	}
	if period.Start.Weekday() != time.Monday {
		t.Errorf("Week starts on %v, want Monday", period.Start.Weekday())
	}
	if period.End.Sub(period.Start) != 7*24*time.Hour {
		t.Errorf("Week length = %v", period.End.Sub(period.Start))
	}
}

func TestFormatReportText(t *testing.T) {
	r := New(config.Default(), nil)

	report := &models.Report{
		Period: models.ReportPeriod{
			Start: time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
			Type:  "week",
		},
		Apps: []models.AppActivity{
			{AppID: "spotify", WinCount: 30, PlayingCount: 25, Percentage: 60.0},
			{AppID: "chrome", WinCount: 20, PlayingCount: 18, Percentage: 40.0},
		},
		TotalSelections: 50,
		Dispatches:      12,
		DispatchOK:      11,
		Errors:          1,
	}

	text := r.FormatReportText(report)

	for _, want := range []string{
		"Playback Activity Report - week",
		"Selections: 50 | Dispatches: 12 (11 ok) | Errors: 1",
		"spotify",
		"chrome",
		"60.0%",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("Report text missing %q:\n%s", want, text)
		}
	}
}

func TestFormatReportTextEmpty(t *testing.T) {
	r := New(config.Default(), nil)

	report := &models.Report{
		Period: models.ReportPeriod{Type: "day"},
	}

	text := r.FormatReportText(report)
	if !strings.Contains(text, "No playback activity recorded") {
		t.Errorf("Expected empty-period message:\n%s", text)
	}
}

func TestFormatReportJSON(t *testing.T) {
	r := New(config.Default(), nil)

	report := &models.Report{
		Period:          models.ReportPeriod{Type: "day"},
		TotalSelections: 3,
	}

	jsonStr, err := r.FormatReportJSON(report)
	if err != nil {
		t.Fatalf("FormatReportJSON failed: %v", err)
	}
	if !strings.Contains(jsonStr, `"total_selections": 3`) {
		t.Errorf("JSON missing total selections:\n%s", jsonStr)
	}
}
