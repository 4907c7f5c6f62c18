package normalize

import (
	"testing"

	"github.com/luinbytes/media-control-raycast/pkg/session"
)

func TestDeriveSourceType(t *testing.T) {
	tests := []struct {
		name string
		c    session.Candidate
		want session.SourceType
	}{
		{
			name: "youtube brand in title",
			c:    session.Candidate{Title: "Lofi Radio", Artist: "YouTube", SourceAppID: "chrome"},
			want: session.SourceVideo,
		},
		{
			name: "twitch in title",
			c:    session.Candidate{Title: "speedrun - Twitch", SourceAppID: "firefox"},
			want: session.SourceVideo,
		},
		{
			name: "music app id",
			c:    session.Candidate{Title: "Red Right Hand", Artist: "Nick Cave", SourceAppID: "spotify"},
			want: session.SourceMusic,
		},
		{
			name: "podcast keyword",
			c:    session.Candidate{Title: "Episode 42: The Answer", SourceAppID: "unknownapp"},
			want: session.SourcePodcast,
		},
		{
			name: "adapter category fallback",
			c:    session.Candidate{Title: "movie.mkv", SourceAppID: "mpv", SourceType: session.SourceVideo},
			want: session.SourceVideo,
		},
		{
			name: "nothing recognized",
			c:    session.Candidate{Title: "track 01", SourceAppID: "someplayer"},
			want: session.SourceUnknown,
		},
		{
			name: "video brand beats music app id",
			c:    session.Candidate{Title: "Concert - YouTube", SourceAppID: "spotify"},
			want: session.SourceVideo,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := tt.c
			Apply(&c)
			if c.SourceType != tt.want {
				t.Errorf("SourceType = %q, want %q", c.SourceType, tt.want)
			}
		})
	}
}

func TestLiveDetection(t *testing.T) {
	tests := []struct {
		title string
		live  bool
	}{
		{"LIVE: Championship Final", true},
		{"Morning show live stream", true},
		{"\U0001F534 24/7 Radio", true},
		{"Never Gonna Give You Up", false},
		{"Study Beats", false},
	}

	for _, tt := range tests {
		c := session.Candidate{Title: tt.title, SourceAppID: "chrome"}
		Apply(&c)
		if c.IsLive != tt.live {
			t.Errorf("IsLive(%q) = %v, want %v", tt.title, c.IsLive, tt.live)
		}
	}
}

func TestExtractVideoID(t *testing.T) {
	c := session.Candidate{
		Title:       "Never Gonna Give You Up [dQw4w9WgXcQ]",
		Artist:      "YouTube",
		SourceAppID: "chrome",
	}
	Apply(&c)

	if c.VideoID != "dQw4w9WgXcQ" {
		t.Errorf("VideoID = %q, want dQw4w9WgXcQ", c.VideoID)
	}
	if c.Title != "Never Gonna Give You Up" {
		t.Errorf("Title = %q, want identifier stripped", c.Title)
	}
}

func TestExtractVideoIDIgnoresShortTokens(t *testing.T) {
	c := session.Candidate{Title: "Top 10 [2024] Hits", Artist: "YouTube", SourceAppID: "chrome"}
	Apply(&c)

	if c.VideoID != "" {
		t.Errorf("VideoID = %q, want empty for non-11-char token", c.VideoID)
	}
	if c.Title != "Top 10 [2024] Hits" {
		t.Errorf("Title = %q, want unchanged", c.Title)
	}
}

func TestExtractVideoIDPreservesInteriorSpacing(t *testing.T) {
	c := session.Candidate{
		Title:       "Synthwave  Mix  2084 [dQw4w9WgXcQ] (Remaster)",
		Artist:      "YouTube",
		SourceAppID: "chrome",
	}
	Apply(&c)

	if c.VideoID != "dQw4w9WgXcQ" {
		t.Errorf("VideoID = %q, want dQw4w9WgXcQ", c.VideoID)
	}
	if c.Title != "Synthwave  Mix  2084 (Remaster)" {
		t.Errorf("Title = %q, want spacing away from the token preserved", c.Title)
	}
}

func TestMusicTitleKeepsBracketedToken(t *testing.T) {
	c := session.Candidate{
		Title:       "Intergalactic [RemasterHD1]",
		Artist:      "Beastie Boys",
		SourceAppID: "spotify",
	}
	Apply(&c)

	if c.SourceType != session.SourceMusic {
		t.Fatalf("SourceType = %q, want music", c.SourceType)
	}
	if c.VideoID != "" {
		t.Errorf("VideoID = %q, want empty for a music source", c.VideoID)
	}
	if c.Title != "Intergalactic [RemasterHD1]" {
		t.Errorf("Title = %q, want unchanged", c.Title)
	}
	if c.ChannelName != "" {
		t.Errorf("ChannelName = %q, want empty for a music source", c.ChannelName)
	}
}

func TestExtractPlaylist(t *testing.T) {
	tests := []struct {
		name string
		c    session.Candidate
		want string
	}{
		{
			name: "playlist in title",
			c:    session.Candidate{Title: "Playlist: Chill Vibes - YouTube", SourceAppID: "chrome"},
			want: "Chill Vibes",
		},
		{
			name: "playlist in artist",
			c:    session.Candidate{Title: "Mix 3 - YouTube", Artist: "Playlist: Workout | LofiGirl", SourceAppID: "chrome"},
			want: "Workout",
		},
		{
			name: "no playlist marker",
			c:    session.Candidate{Title: "Stream - YouTube", SourceAppID: "chrome"},
			want: "",
		},
		{
			name: "marker on a music source is not a playlist",
			c:    session.Candidate{Title: "Playlist: Focus Beats", Artist: "Various", SourceAppID: "spotify"},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := tt.c
			Apply(&c)
			if c.PlaylistName != tt.want {
				t.Errorf("PlaylistName = %q, want %q", c.PlaylistName, tt.want)
			}
		})
	}
}

func TestChannelName(t *testing.T) {
	tests := []struct {
		name   string
		artist string
		want   string
	}{
		{"real channel becomes channel name", "LofiGirl", "LofiGirl"},
		{"brand placeholder carries no channel", "YouTube", ""},
		{"brand placeholder any case", "youtube", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := session.Candidate{
				Title:       "Stream - YouTube",
				Artist:      tt.artist,
				SourceAppID: "chrome",
			}
			Apply(&c)
			if c.ChannelName != tt.want {
				t.Errorf("ChannelName = %q, want %q", c.ChannelName, tt.want)
			}
		})
	}
}

func TestApplyDoesNotTouchScores(t *testing.T) {
	c := session.Candidate{Title: "Stream - YouTube", SourceAppID: "chrome", Score: 85, CanPause: true}
	Apply(&c)

	if c.Score != 85 {
		t.Errorf("Score = %d, want untouched 85", c.Score)
	}
	if !c.CanPause {
		t.Error("Expected capability flags untouched")
	}
}
