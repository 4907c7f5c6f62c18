package mpris

import (
	"strings"
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/luinbytes/media-control-raycast/pkg/grammar"
	"github.com/luinbytes/media-control-raycast/pkg/session"
)

// browserFragments identify browser-family players by bus-name suffix.
// Matched case-insensitively as substrings; Chromium-based browsers
// append ".instanceNNN" suffixes that the fragment match ignores.
var browserFragments = []string{
	"chrome",
	"chromium",
	"firefox",
	"brave",
	"edge",
	"opera",
	"vivaldi",
}

var musicFragments = []string{
	"spotify",
	"tidal",
	"deezer",
	"rhythmbox",
	"clementine",
	"audacious",
	"elisa",
}

var playerFragments = []string{
	"vlc",
	"mpv",
}

// AppIDFromBusName derives the opaque application identifier from an
// MPRIS bus name: the suffix after the well-known prefix, lowercased,
// with any ".instanceNNN" discriminator stripped.
func AppIDFromBusName(busName string) string {
	id := strings.TrimPrefix(busName, busPrefix)
	if idx := strings.Index(id, ".instance"); idx > 0 {
		id = id[:idx]
	}
	return strings.ToLower(id)
}

func containsAny(id string, fragments []string) bool {
	lower := strings.ToLower(id)
	for _, f := range fragments {
		if strings.Contains(lower, f) {
			return true
		}
	}
	return false
}

// VendorFor returns the synthesized artist for a recognized app id, or
// empty when the app is not recognized. Browsers report "YouTube"
// because a browser session with no artist is overwhelmingly a video
// tab.
func VendorFor(appID string) string {
	switch {
	case containsAny(appID, []string{"spotify"}):
		return "Spotify"
	case containsAny(appID, browserFragments):
		return "YouTube"
	case containsAny(appID, []string{"vlc"}):
		return "VLC"
	default:
		return ""
	}
}

// baseScoreFor maps an app id onto its class base score.
func baseScoreFor(appID string) int {
	switch {
	case containsAny(appID, browserFragments):
		return grammar.BrowserBaseScore
	case containsAny(appID, musicFragments):
		return grammar.MusicBaseScore
	case containsAny(appID, playerFragments):
		return grammar.PlayerBaseScore
	default:
		return grammar.DefaultBaseScore
	}
}

// categoryFor maps an app id onto the fallback source type.
func categoryFor(appID string) session.SourceType {
	switch {
	case containsAny(appID, browserFragments), containsAny(appID, playerFragments):
		return session.SourceVideo
	case containsAny(appID, musicFragments):
		return session.SourceMusic
	default:
		return session.SourceUnknown
	}
}

// candidateFromProps builds a candidate from one player's Player-
// interface property bag. The caller is responsible for dropping
// candidates whose title came back empty.
func candidateFromProps(appID string, props map[string]dbus.Variant) session.Candidate {
	meta := variantMetadata(props)

	c := session.Candidate{
		Title:           metaString(meta, "xesam:title"),
		Artist:          metaArtist(meta),
		Album:           metaString(meta, "xesam:album"),
		SourceAppID:     appID,
		IsPlaying:       variantString(props, "PlaybackStatus") == "Playing",
		CanPlay:         variantBool(props, "CanPlay"),
		CanPause:        variantBool(props, "CanPause"),
		CanSkipNext:     variantBool(props, "CanGoNext"),
		CanSkipPrevious: variantBool(props, "CanGoPrevious"),
		Duration:        metaDuration(meta, "mpris:length"),
		Position:        variantDuration(props, "Position"),
		Score:           baseScoreFor(appID),
		SourceType:      categoryFor(appID),
		Origin:          "mpris",
	}
	return c
}

func variantMetadata(props map[string]dbus.Variant) map[string]dbus.Variant {
	v, ok := props["Metadata"]
	if !ok {
		return nil
	}
	meta, _ := v.Value().(map[string]dbus.Variant)
	return meta
}

func variantString(props map[string]dbus.Variant, key string) string {
	v, ok := props[key]
	if !ok {
		return ""
	}
	s, _ := v.Value().(string)
	return s
}

func variantBool(props map[string]dbus.Variant, key string) bool {
	v, ok := props[key]
	if !ok {
		return false
	}
	b, _ := v.Value().(bool)
	return b
}

// variantDuration reads a microsecond count that players report as
// either int64 or uint64.
func variantDuration(props map[string]dbus.Variant, key string) time.Duration {
	v, ok := props[key]
	if !ok {
		return 0
	}
	return microsToDuration(v.Value())
}

func metaString(meta map[string]dbus.Variant, key string) string {
	if meta == nil {
		return ""
	}
	v, ok := meta[key]
	if !ok {
		return ""
	}
	s, _ := v.Value().(string)
	return strings.TrimSpace(s)
}

// metaArtist reads xesam:artist, which the spec types as a string list
// but some players send as a plain string.
func metaArtist(meta map[string]dbus.Variant) string {
	if meta == nil {
		return ""
	}
	v, ok := meta["xesam:artist"]
	if !ok {
		return ""
	}
	switch value := v.Value().(type) {
	case []string:
		if len(value) > 0 {
			return strings.TrimSpace(value[0])
		}
	case string:
		return strings.TrimSpace(value)
	}
	return ""
}

func metaDuration(meta map[string]dbus.Variant, key string) time.Duration {
	if meta == nil {
		return 0
	}
	v, ok := meta[key]
	if !ok {
		return 0
	}
	return microsToDuration(v.Value())
}

func microsToDuration(value interface{}) time.Duration {
	switch micros := value.(type) {
	case int64:
		return time.Duration(micros) * time.Microsecond
	case uint64:
		return time.Duration(micros) * time.Microsecond
	case int32:
		return time.Duration(micros) * time.Microsecond
	default:
		return 0
	}
}
