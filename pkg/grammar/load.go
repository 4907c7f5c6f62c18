package grammar

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/luinbytes/media-control-raycast/pkg/session"
)

// grammarFile is the on-disk shape of a user grammar extension file.
type grammarFile struct {
	Grammars []grammarSpec `toml:"grammars"`
}

type grammarSpec struct {
	ProcessKey     string `toml:"process_key"`
	DisplayName    string `toml:"display_name"`
	PlayingPattern string `toml:"playing_pattern"`
	PausedPattern  string `toml:"paused_pattern"`
	BaseScore      int    `toml:"base_score"`
	Extract        string `toml:"extract"`
	Brand          string `toml:"brand"`
	Category       string `toml:"category"`
}

func (s grammarSpec) compile() (*AppGrammar, error) {
	if s.ProcessKey == "" {
		return nil, fmt.Errorf("grammar entry missing process_key")
	}

	g := &AppGrammar{
		ProcessKey:  strings.ToLower(s.ProcessKey),
		DisplayName: s.DisplayName,
		BaseScore:   s.BaseScore,
		Brand:       s.Brand,
	}
	if g.DisplayName == "" {
		g.DisplayName = s.ProcessKey
	}
	if g.BaseScore == 0 {
		g.BaseScore = DefaultBaseScore
	}

	if s.PlayingPattern != "" {
		re, err := regexp.Compile(s.PlayingPattern)
		if err != nil {
			return nil, fmt.Errorf("grammar %q: bad playing_pattern: %w", s.ProcessKey, err)
		}
		g.PlayingPattern = re
	}
	if s.PausedPattern != "" {
		re, err := regexp.Compile(s.PausedPattern)
		if err != nil {
			return nil, fmt.Errorf("grammar %q: bad paused_pattern: %w", s.ProcessKey, err)
		}
		g.PausedPattern = re
	}

	switch ExtractRule(s.Extract) {
	case ExtractArtistTitle, ExtractTitleOnly:
		g.Extract = ExtractRule(s.Extract)
	case "":
		g.Extract = ExtractArtistTitle
	default:
		return nil, fmt.Errorf("grammar %q: unknown extract rule %q", s.ProcessKey, s.Extract)
	}

	switch session.SourceType(s.Category) {
	case session.SourceMusic, session.SourceVideo, session.SourcePodcast:
		g.Category = session.SourceType(s.Category)
	case "":
		g.Category = session.SourceUnknown
	default:
		return nil, fmt.Errorf("grammar %q: unknown category %q", s.ProcessKey, s.Category)
	}

	return g, nil
}

// Load builds a registry from the builtin grammars plus the entries in
// the given TOML file. An empty path or a missing file yields the
// builtin registry; a malformed file is an error so the user notices a
// broken extension instead of silently losing it.
func Load(path string) (*Registry, error) {
	grammars := Builtin()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read grammar file: %w", err)
			}
		} else {
			var file grammarFile
			if err := toml.Unmarshal(data, &file); err != nil {
				return nil, fmt.Errorf("failed to parse grammar file %s: %w", path, err)
			}
			for _, spec := range file.Grammars {
				g, err := spec.compile()
				if err != nil {
					return nil, err
				}
				grammars = append(grammars, g)
			}
		}
	}

	return NewRegistry(grammars), nil
}
