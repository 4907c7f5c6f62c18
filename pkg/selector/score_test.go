package selector

import (
	"testing"

	"github.com/luinbytes/media-control-raycast/pkg/session"
)

func TestScoreBonuses(t *testing.T) {
	tests := []struct {
		name       string
		c          session.Candidate
		foreground string
		want       int
	}{
		{
			name: "playing keeps base score",
			c:    session.Candidate{SourceAppID: "spotify", Score: 80, IsPlaying: true},
			want: 80,
		},
		{
			name: "paused penalty",
			c:    session.Candidate{SourceAppID: "spotify", Score: 80},
			want: 60,
		},
		{
			name: "live bonus",
			c:    session.Candidate{SourceAppID: "chrome", Score: 75, IsPlaying: true, IsLive: true},
			want: 95,
		},
		{
			name:       "foreground bonus",
			c:          session.Candidate{SourceAppID: "spotify", Score: 80, IsPlaying: true},
			foreground: "spotify",
			want:       92,
		},
		{
			name:       "foreground is substring match",
			c:          session.Candidate{SourceAppID: "google-chrome", Score: 85, IsPlaying: true},
			foreground: "chrome",
			want:       97,
		},
		{
			name:       "foreground mismatch",
			c:          session.Candidate{SourceAppID: "spotify", Score: 80, IsPlaying: true},
			foreground: "chrome",
			want:       80,
		},
		{
			name:       "all signals stack",
			c:          session.Candidate{SourceAppID: "chrome", Score: 85, IsLive: true},
			foreground: "chrome",
			want:       97, // 85 + 20 live - 20 paused + 12 foreground
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(tt.c, tt.foreground); got != tt.want {
				t.Errorf("Score = %d, want %d", got, tt.want)
			}
		})
	}
}

// A playing low-base candidate must outrank a paused high-base one: the
// paused penalty alone cannot close a 70-vs-90 gap, so the ordering is
// enforced by the sort's playing-first key, not the score.
func TestRankPlayingDominatesPaused(t *testing.T) {
	candidates := []session.Candidate{
		{Title: "Track A", SourceAppID: "bigapp", Score: 90},
		{Title: "Track B", SourceAppID: "smallapp", Score: 70, IsPlaying: true},
	}

	ranked := Rank(candidates, "")
	if len(ranked) != 2 {
		t.Fatalf("Expected 2 ranked candidates, got %d", len(ranked))
	}
	if ranked[0].SourceAppID != "smallapp" {
		t.Errorf("Expected playing candidate first, got %s", ranked[0].SourceAppID)
	}
}

func TestRankLiveFlipsBaseOrder(t *testing.T) {
	candidates := []session.Candidate{
		{Title: "Track A", SourceAppID: "spotify", Score: 80, IsPlaying: true},
		{Title: "LIVE: Concert - YouTube", SourceAppID: "chrome", Score: 75, IsPlaying: true},
	}

	ranked := Rank(candidates, "")
	// 75 + 20 live = 95 beats 80.
	if ranked[0].SourceAppID != "chrome" {
		t.Errorf("Expected live candidate first, got %s", ranked[0].SourceAppID)
	}
}

func TestRankStableOnTies(t *testing.T) {
	candidates := []session.Candidate{
		{Title: "Track A", SourceAppID: "first", Score: 75, IsPlaying: true},
		{Title: "Track B", SourceAppID: "second", Score: 75, IsPlaying: true},
	}

	ranked := Rank(candidates, "")
	if ranked[0].SourceAppID != "first" {
		t.Errorf("Expected first-seen candidate to win the tie, got %s", ranked[0].SourceAppID)
	}
}

func TestRankDropsEmptyTitles(t *testing.T) {
	candidates := []session.Candidate{
		{Title: "", SourceAppID: "spotify", Score: 80, IsPlaying: true},
		{Title: "Track B", SourceAppID: "vlc", Score: 78},
	}

	ranked := Rank(candidates, "")
	if len(ranked) != 1 {
		t.Fatalf("Expected empty-title candidate dropped, got %d", len(ranked))
	}
	if ranked[0].SourceAppID != "vlc" {
		t.Errorf("Wrong survivor: %s", ranked[0].SourceAppID)
	}
}

func TestRankNormalizesCandidates(t *testing.T) {
	candidates := []session.Candidate{
		{Title: "Stream [dQw4w9WgXcQ]", Artist: "LofiGirl", SourceAppID: "chrome", Score: 85, IsPlaying: true, SourceType: session.SourceVideo},
	}

	ranked := Rank(candidates, "")
	if len(ranked) != 1 {
		t.Fatalf("Expected 1 candidate, got %d", len(ranked))
	}
	c := ranked[0]
	if c.VideoID != "dQw4w9WgXcQ" {
		t.Errorf("VideoID = %q, want extracted", c.VideoID)
	}
	if c.SourceType != session.SourceVideo {
		t.Errorf("SourceType = %q, want video", c.SourceType)
	}
	if c.ChannelName != "LofiGirl" {
		t.Errorf("ChannelName = %q, want LofiGirl", c.ChannelName)
	}
}
