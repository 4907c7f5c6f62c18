package utils

import (
	"fmt"
	"time"
)

// FormatTrackTime renders a playback duration the way players display
// it: "m:ss", growing an hour field once the track passes an hour.
func FormatTrackTime(d time.Duration) string {
	if d < 0 {
		d = -d
	}
	total := int64(d.Round(time.Second).Seconds())
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// FormatProgress renders "position / duration" as track-time clocks,
// falling back to the duration alone when no position is known.
func FormatProgress(position, duration time.Duration) string {
	if position <= 0 {
		return FormatTrackTime(duration)
	}
	return FormatTrackTime(position) + " / " + FormatTrackTime(duration)
}
