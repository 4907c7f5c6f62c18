package mpris

import (
	"testing"
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/luinbytes/media-control-raycast/pkg/grammar"
	"github.com/luinbytes/media-control-raycast/pkg/session"
)

func TestAppIDFromBusName(t *testing.T) {
	tests := []struct {
		busName string
		want    string
	}{
		{"org.mpris.MediaPlayer2.spotify", "spotify"},
		{"org.mpris.MediaPlayer2.chromium.instance2098", "chromium"},
		{"org.mpris.MediaPlayer2.firefox.instance_1_23", "firefox"},
		{"org.mpris.MediaPlayer2.VLC", "vlc"},
		{"org.mpris.MediaPlayer2.io.github.celluloid_player.Celluloid", "io.github.celluloid_player.celluloid"},
	}

	for _, tt := range tests {
		if got := AppIDFromBusName(tt.busName); got != tt.want {
			t.Errorf("AppIDFromBusName(%q) = %q, want %q", tt.busName, got, tt.want)
		}
	}
}

func TestVendorFor(t *testing.T) {
	tests := []struct {
		appID string
		want  string
	}{
		{"spotify", "Spotify"},
		{"chromium", "YouTube"},
		{"firefox", "YouTube"},
		{"vlc", "VLC"},
		{"rhythmbox", ""},
		{"someplayer", ""},
	}

	for _, tt := range tests {
		if got := VendorFor(tt.appID); got != tt.want {
			t.Errorf("VendorFor(%q) = %q, want %q", tt.appID, got, tt.want)
		}
	}
}

func TestBaseScoreFor(t *testing.T) {
	tests := []struct {
		appID string
		want  int
	}{
		{"chromium", grammar.BrowserBaseScore},
		{"spotify", grammar.MusicBaseScore},
		{"vlc", grammar.PlayerBaseScore},
		{"someplayer", grammar.DefaultBaseScore},
	}

	for _, tt := range tests {
		if got := baseScoreFor(tt.appID); got != tt.want {
			t.Errorf("baseScoreFor(%q) = %d, want %d", tt.appID, got, tt.want)
		}
	}
}

func TestCandidateFromProps(t *testing.T) {
	meta := map[string]dbus.Variant{
		"xesam:title":  dbus.MakeVariant("Red Right Hand"),
		"xesam:artist": dbus.MakeVariant([]string{"Nick Cave", "The Bad Seeds"}),
		"xesam:album":  dbus.MakeVariant("Let Love In"),
		"mpris:length": dbus.MakeVariant(int64(373_000_000)),
	}
	props := map[string]dbus.Variant{
		"PlaybackStatus": dbus.MakeVariant("Playing"),
		"Metadata":       dbus.MakeVariant(meta),
		"CanPlay":        dbus.MakeVariant(true),
		"CanPause":       dbus.MakeVariant(true),
		"CanGoNext":      dbus.MakeVariant(true),
		"CanGoPrevious":  dbus.MakeVariant(false),
		"Position":       dbus.MakeVariant(int64(42_000_000)),
	}

	c := candidateFromProps("spotify", props)

	if c.Title != "Red Right Hand" {
		t.Errorf("Title = %q", c.Title)
	}
	if c.Artist != "Nick Cave" {
		t.Errorf("Artist = %q, want first list entry", c.Artist)
	}
	if c.Album != "Let Love In" {
		t.Errorf("Album = %q", c.Album)
	}
	if !c.IsPlaying {
		t.Error("Expected playing")
	}
	if c.CanSkipPrevious {
		t.Error("Expected CanSkipPrevious=false")
	}
	if c.Duration != 373*time.Second {
		t.Errorf("Duration = %v", c.Duration)
	}
	if c.Position != 42*time.Second {
		t.Errorf("Position = %v", c.Position)
	}
	if c.Score != grammar.MusicBaseScore {
		t.Errorf("Score = %d, want music base", c.Score)
	}
	if c.SourceType != session.SourceMusic {
		t.Errorf("SourceType = %q", c.SourceType)
	}
	if c.Origin != "mpris" {
		t.Errorf("Origin = %q", c.Origin)
	}
}

func TestCandidateFromPropsPaused(t *testing.T) {
	props := map[string]dbus.Variant{
		"PlaybackStatus": dbus.MakeVariant("Paused"),
		"Metadata": dbus.MakeVariant(map[string]dbus.Variant{
			"xesam:title": dbus.MakeVariant("Track"),
		}),
	}

	c := candidateFromProps("vlc", props)
	if c.IsPlaying {
		t.Error("Expected paused")
	}
	if c.SourceType != session.SourceVideo {
		t.Errorf("SourceType = %q, want video for vlc", c.SourceType)
	}
}

// Some players report xesam:artist as a plain string instead of the
// spec'd string list.
func TestMetaArtistStringVariant(t *testing.T) {
	meta := map[string]dbus.Variant{
		"xesam:artist": dbus.MakeVariant("Solo Artist"),
	}
	if got := metaArtist(meta); got != "Solo Artist" {
		t.Errorf("metaArtist = %q", got)
	}
}

func TestCandidateFromPropsEmptyBag(t *testing.T) {
	c := candidateFromProps("someplayer", map[string]dbus.Variant{})

	if c.Title != "" {
		t.Errorf("Title = %q, want empty", c.Title)
	}
	if c.IsPlaying {
		t.Error("Expected not playing")
	}
	if c.Score != grammar.DefaultBaseScore {
		t.Errorf("Score = %d, want default base", c.Score)
	}
}

func TestMicrosToDuration(t *testing.T) {
	tests := []struct {
		value interface{}
		want  time.Duration
	}{
		{int64(1_000_000), time.Second},
		{uint64(2_000_000), 2 * time.Second},
		{int32(500_000), 500 * time.Millisecond},
		{"not a number", 0},
		{nil, 0},
	}

	for _, tt := range tests {
		if got := microsToDuration(tt.value); got != tt.want {
			t.Errorf("microsToDuration(%v) = %v, want %v", tt.value, got, tt.want)
		}
	}
}
