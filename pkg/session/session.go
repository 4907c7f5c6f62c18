package session

import (
	"context"
	"time"
)

// SourceType classifies what kind of media a candidate is playing.
type SourceType string

const (
	SourceMusic   SourceType = "music"
	SourceVideo   SourceType = "video"
	SourcePodcast SourceType = "podcast"
	SourceUnknown SourceType = "unknown"
)

// Candidate represents one discovered media session within a single
// discovery cycle. Candidates are created fresh each cycle and never
// persist across cycles.
type Candidate struct {
	// Title is the track or video title. A candidate with an empty
	// title is invalid and must be dropped at the adapter boundary.
	Title string `json:"title"`

	// Artist is the track artist, channel, or app vendor fallback.
	Artist string `json:"artist"`

	// Album is the album name when the source reports one.
	Album string `json:"album,omitempty"`

	// SourceAppID identifies the owning application: a lowercase
	// executable name or an MPRIS bus-name suffix.
	SourceAppID string `json:"source_app_id"`

	// IsPlaying reports whether the session is actively playing.
	IsPlaying bool `json:"is_playing"`

	// Capability flags for control dispatch.
	CanPlay         bool `json:"can_play"`
	CanPause        bool `json:"can_pause"`
	CanSkipNext     bool `json:"can_skip_next"`
	CanSkipPrevious bool `json:"can_skip_previous"`

	// Duration and Position are zero when the source does not report them.
	Duration time.Duration `json:"duration,omitempty"`
	Position time.Duration `json:"position,omitempty"`

	// Score is the computed ranking score.
	Score int `json:"score"`

	// Derived fields filled in by the normalizer.
	SourceType   SourceType `json:"source_type"`
	IsLive       bool       `json:"is_live"`
	ChannelName  string     `json:"channel_name,omitempty"`
	VideoID      string     `json:"video_id,omitempty"`
	PlaylistName string     `json:"playlist_name,omitempty"`

	// Origin names the adapter that produced the candidate.
	Origin string `json:"origin"`
}

// SelectionResult is the outcome of one discovery cycle: the winning
// candidate, or none when no active session was found.
type SelectionResult struct {
	CycleID     string     `json:"cycle_id"`
	Winner      *Candidate `json:"winner,omitempty"`
	GeneratedAt time.Time  `json:"generated_at"`
}

// Active reports whether a session was found.
func (r SelectionResult) Active() bool {
	return r.Winner != nil
}

// PlaybackAction is a user-requested media control action.
type PlaybackAction string

const (
	ActionPlay     PlaybackAction = "play"
	ActionPause    PlaybackAction = "pause"
	ActionToggle   PlaybackAction = "toggle"
	ActionNext     PlaybackAction = "next"
	ActionPrevious PlaybackAction = "previous"
)

// ParseAction maps a user-supplied string onto a PlaybackAction.
func ParseAction(s string) (PlaybackAction, bool) {
	switch PlaybackAction(s) {
	case ActionPlay, ActionPause, ActionToggle, ActionNext, ActionPrevious:
		return PlaybackAction(s), true
	case "playpause":
		return ActionToggle, true
	default:
		return "", false
	}
}

// Source is the interface both discovery adapters implement. Discover
// must degrade to an empty list on timeout or source unavailability and
// never block past its own internal deadline.
type Source interface {
	// Name identifies the adapter ("mpris", "x11", "wayland").
	Name() string

	// Discover returns zero or more candidates. A returned error means
	// the whole source was unavailable; per-item failures are absorbed.
	Discover(ctx context.Context) ([]Candidate, error)

	// IsAvailable checks if this source can run on the current system.
	IsAvailable() bool

	// Close cleans up resources.
	Close() error
}

// ForegroundFunc resolves the process name owning the current foreground
// window. Resolved once per discovery cycle; an empty string means the
// hint is unavailable and no foreground bonus applies.
type ForegroundFunc func(ctx context.Context) string

// TransportPlayer is one controllable transport session as seen by the
// dispatcher.
type TransportPlayer struct {
	AppID     string
	IsPlaying bool

	CanPlay         bool
	CanPause        bool
	CanSkipNext     bool
	CanSkipPrevious bool
}

// Transport lists controllable sessions and issues commands to them.
type Transport interface {
	Players(ctx context.Context) ([]TransportPlayer, error)
	Command(ctx context.Context, appID string, action PlaybackAction) error
}

// KeyInjector fires a synthetic hardware media key. Best effort: a false
// return means the key could not be delivered, not a fatal condition.
type KeyInjector interface {
	Tap(action PlaybackAction) bool
	Close() error
}
