package selector

import (
	"strings"

	"github.com/luinbytes/media-control-raycast/pkg/session"
)

// Score adjustment policy. One consistent constant set: the base score
// encodes app priority, situational bonuses move candidates within and
// across the 70-90 base band.
const (
	// LiveBonus rewards content flagged as a live broadcast.
	LiveBonus = 20

	// PausedPenalty pushes non-playing sessions down.
	PausedPenalty = 20

	// ForegroundBonus favors the app the user is currently focused on.
	ForegroundBonus = 12
)

// Score computes a candidate's total score from its base score and the
// situational signals. foreground is the process name owning the
// current foreground window, or empty when unavailable.
func Score(c session.Candidate, foreground string) int {
	score := c.Score

	if c.IsLive {
		score += LiveBonus
	}
	if !c.IsPlaying {
		score -= PausedPenalty
	}
	if matchesForeground(c.SourceAppID, foreground) {
		score += ForegroundBonus
	}

	return score
}

// matchesForeground reports whether the foreground process name appears
// inside the candidate's application identifier, case-insensitively.
func matchesForeground(appID, foreground string) bool {
	if appID == "" || foreground == "" {
		return false
	}
	return strings.Contains(strings.ToLower(appID), strings.ToLower(foreground))
}
