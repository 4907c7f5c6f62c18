// Package grammar holds the per-application window-title grammars used
// by the window-title adapter. Grammars are data: adding an application
// is a new registry entry, not a code change.
package grammar

import (
	"regexp"
	"strings"

	"github.com/luinbytes/media-control-raycast/pkg/session"
)

// ExtractRule describes how capture groups of a playing-title pattern
// map onto candidate fields.
type ExtractRule string

const (
	// ExtractArtistTitle: group 1 is the artist, group 2 the title.
	ExtractArtistTitle ExtractRule = "artist-title"

	// ExtractTitleOnly: group 1 is the title; the artist is forced to
	// the grammar's brand name.
	ExtractTitleOnly ExtractRule = "title-only"
)

// AppGrammar is an immutable per-application title grammar.
type AppGrammar struct {
	// ProcessKey is the lowercase executable identifier, unique per entry.
	ProcessKey string

	// DisplayName is shown as the artist for paused candidates.
	DisplayName string

	// PlayingPattern matches the exact window title while media plays.
	PlayingPattern *regexp.Regexp

	// PausedPattern matches the idle window title. Checked before
	// PlayingPattern since idle formats are often a prefix of the
	// playing format.
	PausedPattern *regexp.Regexp

	// BaseScore is the app-specific starting priority.
	BaseScore int

	// Extract selects the capture-group mapping for playing titles.
	Extract ExtractRule

	// Brand is the forced artist for ExtractTitleOnly grammars
	// (e.g. "YouTube" for browsers).
	Brand string

	// Category is the fallback source type for this application.
	Category session.SourceType
}

// MatchKind is the outcome of matching one title against one grammar.
type MatchKind int

const (
	NoMatch MatchKind = iota
	MatchPaused
	MatchPlaying
)

// Match holds the outcome of matching a window title.
type Match struct {
	Kind   MatchKind
	Title  string
	Artist string
}

// PausedTitle is the placeholder title for idle-match candidates.
const PausedTitle = "Paused"

// blankTitles are fragments of default browser-tab titles. A paused
// match on one of these means the browser has no media tab, not an
// idle player.
var blankTitles = []string{
	"new tab",
	"about:blank",
	"untitled",
	"speed dial",
	"start page",
	"new private tab",
}

// IsBlankTitle reports whether a title looks like an empty browser page.
func IsBlankTitle(title string) bool {
	lower := strings.ToLower(title)
	for _, b := range blankTitles {
		if strings.Contains(lower, b) {
			return true
		}
	}
	return false
}

// Match classifies a window title against this grammar. Exactly one of
// {paused, playing, no-match} comes back for any (grammar, title) pair.
func (g *AppGrammar) Match(title string) Match {
	if g.PausedPattern != nil && g.PausedPattern.MatchString(title) {
		if IsBlankTitle(title) {
			return Match{Kind: NoMatch}
		}
		return Match{Kind: MatchPaused, Title: PausedTitle, Artist: g.DisplayName}
	}

	if g.PlayingPattern == nil {
		return Match{Kind: NoMatch}
	}

	groups := g.PlayingPattern.FindStringSubmatch(title)
	if groups == nil {
		return Match{Kind: NoMatch}
	}

	switch g.Extract {
	case ExtractArtistTitle:
		if len(groups) < 3 || groups[2] == "" {
			return Match{Kind: NoMatch}
		}
		return Match{Kind: MatchPlaying, Title: strings.TrimSpace(groups[2]), Artist: strings.TrimSpace(groups[1])}
	case ExtractTitleOnly:
		if len(groups) < 2 || groups[1] == "" {
			return Match{Kind: NoMatch}
		}
		return Match{Kind: MatchPlaying, Title: strings.TrimSpace(groups[1]), Artist: g.Brand}
	default:
		return Match{Kind: NoMatch}
	}
}

// Registry is a read-only mapping from process key to grammar.
type Registry struct {
	grammars map[string]*AppGrammar
}

// NewRegistry builds a registry from the given grammars. Later entries
// with a duplicate process key override earlier ones, which lets user
// grammars shadow builtins.
func NewRegistry(grammars []*AppGrammar) *Registry {
	m := make(map[string]*AppGrammar, len(grammars))
	for _, g := range grammars {
		m[strings.ToLower(g.ProcessKey)] = g
	}
	return &Registry{grammars: m}
}

// Lookup returns the grammar for a lowercase process key.
func (r *Registry) Lookup(processKey string) (*AppGrammar, bool) {
	g, ok := r.grammars[strings.ToLower(processKey)]
	return g, ok
}

// Len returns the number of registered grammars.
func (r *Registry) Len() int {
	return len(r.grammars)
}

// Keys returns the registered process keys.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.grammars))
	for k := range r.grammars {
		keys = append(keys, k)
	}
	return keys
}

// Base scores per application class. Music apps and browsers showing
// video share the 70-90 band: a live video in a browser must be able to
// outrank paused music once bonuses apply.
const (
	BrowserBaseScore = 85
	MusicBaseScore   = 80
	PlayerBaseScore  = 78
	DefaultBaseScore = 75
)

// dashSep matches the separator browsers and players put between the
// media title and the application suffix.
const dashSep = `\s+[-\x{2013}\x{2014}]\s+`

// browserGrammar builds a grammar for a browser whose playing titles
// look like "Video Title - YouTube - <Browser>".
func browserGrammar(processKey, displayName, suffix string) *AppGrammar {
	return &AppGrammar{
		ProcessKey:     processKey,
		DisplayName:    displayName,
		PlayingPattern: regexp.MustCompile(`^(.+?)` + dashSep + `YouTube(?:` + dashSep + suffix + `)?$`),
		PausedPattern:  regexp.MustCompile(`^(?:New Tab` + dashSep + `)?` + suffix + `$`),
		BaseScore:      BrowserBaseScore,
		Extract:        ExtractTitleOnly,
		Brand:          "YouTube",
		Category:       session.SourceVideo,
	}
}

// Builtin returns the grammars known out of the box.
func Builtin() []*AppGrammar {
	return []*AppGrammar{
		{
			ProcessKey:     "spotify",
			DisplayName:    "Spotify",
			PlayingPattern: regexp.MustCompile(`^(.+?)` + dashSep + `(.+)$`),
			PausedPattern:  regexp.MustCompile(`^Spotify(?: Premium| Free)?$`),
			BaseScore:      MusicBaseScore,
			Extract:        ExtractArtistTitle,
			Category:       session.SourceMusic,
		},
		browserGrammar("chrome", "Google Chrome", `Google Chrome`),
		browserGrammar("chromium", "Chromium", `Chromium`),
		browserGrammar("firefox", "Firefox", `Mozilla Firefox`),
		browserGrammar("brave", "Brave", `Brave`),
		browserGrammar("msedge", "Microsoft Edge", `Microsoft Edge`),
		browserGrammar("opera", "Opera", `Opera`),
		browserGrammar("vivaldi", "Vivaldi", `Vivaldi`),
		{
			ProcessKey:     "vlc",
			DisplayName:    "VLC media player",
			PlayingPattern: regexp.MustCompile(`^(.+?)` + dashSep + `VLC media player$`),
			PausedPattern:  regexp.MustCompile(`^VLC media player$`),
			BaseScore:      PlayerBaseScore,
			Extract:        ExtractTitleOnly,
			Brand:          "VLC",
			Category:       session.SourceVideo,
		},
		{
			ProcessKey:     "mpv",
			DisplayName:    "mpv",
			PlayingPattern: regexp.MustCompile(`^(.+?)` + dashSep + `mpv$`),
			PausedPattern:  regexp.MustCompile(`^mpv$`),
			BaseScore:      PlayerBaseScore,
			Extract:        ExtractTitleOnly,
			Brand:          "mpv",
			Category:       session.SourceVideo,
		},
		{
			ProcessKey:     "rhythmbox",
			DisplayName:    "Rhythmbox",
			PlayingPattern: regexp.MustCompile(`^(.+?)` + dashSep + `(.+)$`),
			PausedPattern:  regexp.MustCompile(`^Rhythmbox$`),
			BaseScore:      MusicBaseScore,
			Extract:        ExtractArtistTitle,
			Category:       session.SourceMusic,
		},
	}
}

// Default returns a registry with the builtin grammars.
func Default() *Registry {
	return NewRegistry(Builtin())
}
