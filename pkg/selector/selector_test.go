package selector

import (
	"context"
	"errors"
	"testing"

	"github.com/luinbytes/media-control-raycast/pkg/session"
)

// fakeSource is a canned-response discovery source.
type fakeSource struct {
	name       string
	candidates []session.Candidate
	err        error
	available  bool
	closed     bool
}

func (f *fakeSource) Name() string      { return f.name }
func (f *fakeSource) IsAvailable() bool { return f.available }
func (f *fakeSource) Close() error {
	f.closed = true
	return nil
}

func (f *fakeSource) Discover(ctx context.Context) ([]session.Candidate, error) {
	return f.candidates, f.err
}

func TestDiscoverMergesSources(t *testing.T) {
	transport := &fakeSource{
		name:      "mpris",
		available: true,
		candidates: []session.Candidate{
			{Title: "Track A", SourceAppID: "spotify", Score: 80, IsPlaying: true, Origin: "mpris"},
		},
	}
	windows := &fakeSource{
		name:      "x11",
		available: true,
		candidates: []session.Candidate{
			{Title: "Stream - YouTube", SourceAppID: "chrome", Score: 85, Origin: "window"},
		},
	}

	engine := NewEngine([]session.Source{transport, windows}, nil)
	result := engine.Discover(context.Background())

	if !result.Active() {
		t.Fatal("Expected a winner")
	}
	if result.Winner.SourceAppID != "spotify" {
		t.Errorf("Winner = %s, want playing spotify session", result.Winner.SourceAppID)
	}
	if result.CycleID == "" {
		t.Error("Expected a cycle id")
	}
}

func TestDiscoverSkipsUnavailableSources(t *testing.T) {
	offline := &fakeSource{
		name: "x11",
		candidates: []session.Candidate{
			{Title: "Should Not Appear", SourceAppID: "chrome", Score: 85, IsPlaying: true},
		},
	}

	engine := NewEngine([]session.Source{offline}, nil)
	result := engine.Discover(context.Background())

	if result.Active() {
		t.Errorf("Expected no winner from unavailable source, got %s", result.Winner.Title)
	}
}

func TestDiscoverSurvivesSourceError(t *testing.T) {
	broken := &fakeSource{name: "mpris", available: true, err: errors.New("bus gone")}
	working := &fakeSource{
		name:      "x11",
		available: true,
		candidates: []session.Candidate{
			{Title: "Track B", SourceAppID: "vlc", Score: 78, IsPlaying: true},
		},
	}

	engine := NewEngine([]session.Source{broken, working}, nil)
	result := engine.Discover(context.Background())

	if !result.Active() {
		t.Fatal("Expected the healthy source to still produce a winner")
	}
	if result.Winner.SourceAppID != "vlc" {
		t.Errorf("Winner = %s, want vlc", result.Winner.SourceAppID)
	}
}

func TestDiscoverEmptyResult(t *testing.T) {
	engine := NewEngine(nil, nil)
	result := engine.Discover(context.Background())

	if result.Active() {
		t.Error("Expected inactive result with no sources")
	}
	if result.CycleID == "" {
		t.Error("Expected a cycle id even for empty results")
	}
}

func TestDiscoverAppliesForeground(t *testing.T) {
	source := &fakeSource{
		name:      "mpris",
		available: true,
		candidates: []session.Candidate{
			{Title: "Track A", SourceAppID: "spotify", Score: 80, IsPlaying: true},
			{Title: "Movie", SourceAppID: "vlc", Score: 78, IsPlaying: true},
		},
	}
	foreground := func(ctx context.Context) string { return "vlc" }

	engine := NewEngine([]session.Source{source}, foreground)
	result := engine.Discover(context.Background())

	// 78 + 12 foreground = 90 beats 80.
	if result.Winner.SourceAppID != "vlc" {
		t.Errorf("Winner = %s, want foreground-boosted vlc", result.Winner.SourceAppID)
	}
}

// The scenario the whole stack exists for: paused music in a native
// session must lose to a playing video visible only through a window
// title.
func TestDiscoverPausedMusicVersusPlayingVideo(t *testing.T) {
	transport := &fakeSource{
		name:      "mpris",
		available: true,
		candidates: []session.Candidate{
			{Title: "Track A", Artist: "Some Band", SourceAppID: "spotify", Score: 80},
		},
	}
	windows := &fakeSource{
		name:      "x11",
		available: true,
		candidates: []session.Candidate{
			{Title: "Lofi Radio", Artist: "YouTube", SourceAppID: "chrome", Score: 85, IsPlaying: true},
		},
	}

	engine := NewEngine([]session.Source{transport, windows}, nil)
	result := engine.Discover(context.Background())

	if result.Winner.SourceAppID != "chrome" {
		t.Errorf("Winner = %s, want the playing video session", result.Winner.SourceAppID)
	}
	if result.Winner.SourceType != session.SourceVideo {
		t.Errorf("SourceType = %q, want video", result.Winner.SourceType)
	}
}

func TestDiscoverRegistrationOrderBreaksTies(t *testing.T) {
	transport := &fakeSource{
		name:      "mpris",
		available: true,
		candidates: []session.Candidate{
			{Title: "Same Track", SourceAppID: "someplayer", Score: 75, IsPlaying: true, Origin: "mpris"},
		},
	}
	windows := &fakeSource{
		name:      "x11",
		available: true,
		candidates: []session.Candidate{
			{Title: "Same Track", SourceAppID: "otherplayer", Score: 75, IsPlaying: true, Origin: "window"},
		},
	}

	engine := NewEngine([]session.Source{transport, windows}, nil)
	result := engine.Discover(context.Background())

	if result.Winner.Origin != "mpris" {
		t.Errorf("Winner origin = %s, want the first-registered source", result.Winner.Origin)
	}
}

func TestCloseClosesAllSources(t *testing.T) {
	a := &fakeSource{name: "mpris", available: true}
	b := &fakeSource{name: "x11", available: true}

	engine := NewEngine([]session.Source{a, b}, nil)
	if err := engine.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if !a.closed || !b.closed {
		t.Error("Expected all sources closed")
	}
}

func TestSourcesReportsAvailability(t *testing.T) {
	engine := NewEngine([]session.Source{
		&fakeSource{name: "mpris", available: true},
		&fakeSource{name: "wayland"},
	}, nil)

	infos := engine.Sources()
	if len(infos) != 2 {
		t.Fatalf("Expected 2 source infos, got %d", len(infos))
	}
	if infos[0].Name != "mpris" || !infos[0].Available {
		t.Errorf("Unexpected first source info: %+v", infos[0])
	}
	if infos[1].Name != "wayland" || infos[1].Available {
		t.Errorf("Unexpected second source info: %+v", infos[1])
	}
}
