package utils

import (
	"testing"
	"time"
)

func TestFormatTrackTime(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0:00"},
		{45 * time.Second, "0:45"},
		{3*time.Minute + 33*time.Second, "3:33"},
		{59*time.Minute + 59*time.Second, "59:59"},
		{time.Hour, "1:00:00"},
		{2*time.Hour + 4*time.Minute + 5*time.Second, "2:04:05"},
		{1500 * time.Millisecond, "0:02"},
		{-90 * time.Second, "1:30"},
	}

	for _, tt := range tests {
		if got := FormatTrackTime(tt.d); got != tt.want {
			t.Errorf("FormatTrackTime(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestFormatProgress(t *testing.T) {
	got := FormatProgress(75*time.Second, 3*time.Minute)
	if got != "1:15 / 3:00" {
		t.Errorf("FormatProgress = %q, want 1:15 / 3:00", got)
	}

	got = FormatProgress(0, 3*time.Minute)
	if got != "3:00" {
		t.Errorf("FormatProgress without position = %q, want 3:00", got)
	}
}
