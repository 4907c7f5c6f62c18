// Package normalize derives presentation fields (source type, live
// flag, video and playlist identifiers) from raw candidate metadata.
package normalize

import (
	"regexp"
	"strings"

	"github.com/luinbytes/media-control-raycast/pkg/session"
)

var videoBrands = []string{
	"youtube",
	"twitch",
	"vimeo",
	"netflix",
	"dailymotion",
}

var musicAppIDs = []string{
	"spotify",
	"tidal",
	"deezer",
	"rhythmbox",
	"clementine",
	"audacious",
	"amarok",
	"elisa",
}

var podcastKeywords = []string{
	"podcast",
	"episode",
}

// videoIDPattern matches an embedded bracketed 11-character video
// identifier, e.g. "[dQw4w9WgXcQ]".
var videoIDPattern = regexp.MustCompile(`\[([A-Za-z0-9_-]{11})\]`)

// playlistPattern captures the playlist name following a "Playlist:"
// marker, up to the next dash or bullet.
var playlistPattern = regexp.MustCompile(`Playlist:\s*([^-\x{2013}\x{2014}\x{2022}|]+)`)

// liveGlyph is the red-circle glyph conventionally marking live streams.
const liveGlyph = "\U0001F534"

// Apply fills in the derived fields of a candidate in place. It is a
// pure transformation of title, artist, and app identity; it never
// touches scores or capability flags.
func Apply(c *session.Candidate) {
	c.SourceType = deriveSourceType(c)
	c.IsLive = isLive(c.Title)

	// Video identifiers, playlist names, and channels only make sense
	// for video sources; a bracketed token in a song title stays put.
	if c.SourceType == session.SourceVideo {
		extractVideoID(c)
		extractPlaylist(c)

		// The brand name standing in for an artist carries no channel
		// information; only a real artist value becomes the channel.
		if strings.EqualFold(c.Artist, "YouTube") {
			c.ChannelName = ""
		} else {
			c.ChannelName = c.Artist
		}
	}
}

func deriveSourceType(c *session.Candidate) session.SourceType {
	appID := strings.ToLower(c.SourceAppID)
	haystack := strings.ToLower(c.Title + " " + c.Artist)

	for _, brand := range videoBrands {
		if strings.Contains(haystack, brand) || strings.Contains(appID, brand) {
			return session.SourceVideo
		}
	}

	for _, id := range musicAppIDs {
		if strings.Contains(appID, id) {
			return session.SourceMusic
		}
	}

	for _, kw := range podcastKeywords {
		if strings.Contains(haystack, kw) {
			return session.SourcePodcast
		}
	}

	// Fall back to the category the adapter attached, if any.
	if c.SourceType != "" && c.SourceType != session.SourceUnknown {
		return c.SourceType
	}
	return session.SourceUnknown
}

func isLive(title string) bool {
	if strings.Contains(title, liveGlyph) {
		return true
	}
	return strings.Contains(strings.ToLower(title), "live")
}

// extractVideoID pulls a bracketed 11-character token out of the title
// and strips it from the displayed text. Only the token and the spaces
// touching it are removed; the rest of the title is left untouched.
func extractVideoID(c *session.Candidate) {
	loc := videoIDPattern.FindStringSubmatchIndex(c.Title)
	if loc == nil {
		return
	}
	c.VideoID = c.Title[loc[2]:loc[3]]

	start, end := loc[0], loc[1]
	for start > 0 && c.Title[start-1] == ' ' {
		start--
	}
	c.Title = strings.TrimSpace(c.Title[:start] + c.Title[end:])
}

// extractPlaylist looks for a "Playlist:" marker in title or artist and
// captures the name up to the next separator.
func extractPlaylist(c *session.Candidate) {
	for _, field := range []string{c.Title, c.Artist} {
		groups := playlistPattern.FindStringSubmatch(field)
		if groups != nil {
			c.PlaylistName = strings.TrimSpace(groups[1])
			return
		}
	}
}
