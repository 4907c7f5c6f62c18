package models

import (
	"time"

	"gorm.io/gorm"
)

// SelectionEvent records the winner of one discovery cycle, written by
// the polling daemon for the status and report surfaces. The ranking
// engine never reads these rows; scoring is stateless per cycle.
type SelectionEvent struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Timestamp  time.Time      `gorm:"not null;index" json:"timestamp"`
	CycleID    string         `gorm:"not null" json:"cycle_id"`
	AppID      string         `gorm:"not null;index" json:"app_id"`
	Title      string         `gorm:"not null" json:"title"`
	Artist     string         `json:"artist"`
	SourceType string         `gorm:"not null" json:"source_type"`
	Origin     string         `gorm:"not null" json:"origin"` // "mpris" or "window"
	IsPlaying  bool           `gorm:"not null;default:false" json:"is_playing"`
	Score      int            `gorm:"not null;default:0" json:"score"`
	CreatedAt  time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// AppActivity aggregates how often one app won selection.
type AppActivity struct {
	AppID        string  `json:"app_id"`
	WinCount     int     `json:"win_count"`
	PlayingCount int     `json:"playing_count"`
	Percentage   float64 `json:"percentage,omitempty"`
}

// ReportPeriod bounds one report window.
type ReportPeriod struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Type  string    `json:"type"` // "day", "week", "month"
}

// Report summarizes selection and dispatch activity for a period.
type Report struct {
	Period          ReportPeriod  `json:"period"`
	Apps            []AppActivity `json:"apps"`
	TotalSelections int           `json:"total_selections"`
	Dispatches      int           `json:"dispatches"`
	DispatchOK      int           `json:"dispatch_ok"`
	Errors          int           `json:"errors"`
	GeneratedAt     time.Time     `json:"generated_at"`
}
