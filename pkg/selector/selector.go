// Package selector orchestrates the discovery adapters and ranks their
// candidates into a single selection result.
package selector

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/luinbytes/media-control-raycast/pkg/normalize"
	"github.com/luinbytes/media-control-raycast/pkg/session"
)

// Engine runs the discovery sources concurrently and ranks the merged
// candidate list. The engine holds no state between cycles; every
// Discover call is self-contained.
type Engine struct {
	sources    []session.Source
	foreground session.ForegroundFunc
}

// NewEngine creates an engine. Source registration order is the
// tie-break order for equal-ranked candidates, so callers should
// register the transport-session source first.
func NewEngine(sources []session.Source, foreground session.ForegroundFunc) *Engine {
	return &Engine{
		sources:    sources,
		foreground: foreground,
	}
}

// Discover runs one discovery cycle and returns the top candidate, or
// an empty result when no source reports an active session. Adapters
// bound their own native calls; the engine only waits for them.
func (e *Engine) Discover(ctx context.Context) session.SelectionResult {
	result := session.SelectionResult{
		CycleID:     uuid.NewString(),
		GeneratedAt: time.Now(),
	}

	foreground := ""
	if e.foreground != nil {
		foreground = e.foreground(ctx)
	}

	// Each source writes only its own slot; results are combined by
	// concatenation after all sources finish, never by shared
	// accumulation across goroutines.
	lists := make([][]session.Candidate, len(e.sources))
	var wg sync.WaitGroup
	for i, src := range e.sources {
		if !src.IsAvailable() {
			continue
		}
		wg.Add(1)
		go func(i int, src session.Source) {
			defer wg.Done()
			candidates, err := src.Discover(ctx)
			if err != nil {
				log.Printf("Source %s unavailable: %v", src.Name(), err)
				return
			}
			lists[i] = candidates
		}(i, src)
	}
	wg.Wait()

	var merged []session.Candidate
	for _, list := range lists {
		merged = append(merged, list...)
	}

	ranked := Rank(merged, foreground)
	if len(ranked) > 0 {
		winner := ranked[0]
		result.Winner = &winner
	}
	return result
}

// Rank normalizes, scores, and total-orders candidates: playing before
// paused, then score descending, then first-seen order. Candidates with
// empty titles are dropped; they must never reach the scorer.
func Rank(candidates []session.Candidate, foreground string) []session.Candidate {
	ranked := make([]session.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Title == "" {
			continue
		}
		normalize.Apply(&c)
		c.Score = Score(c, foreground)
		ranked = append(ranked, c)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].IsPlaying != ranked[j].IsPlaying {
			return ranked[i].IsPlaying
		}
		return ranked[i].Score > ranked[j].Score
	})

	return ranked
}

// Close shuts down all sources.
func (e *Engine) Close() error {
	for _, src := range e.sources {
		if err := src.Close(); err != nil {
			log.Printf("Error closing source %s: %v", src.Name(), err)
		}
	}
	return nil
}

// Sources describes the registered sources and their availability, for
// the status surfaces.
func (e *Engine) Sources() []SourceInfo {
	infos := make([]SourceInfo, 0, len(e.sources))
	for _, src := range e.sources {
		infos = append(infos, SourceInfo{
			Name:      src.Name(),
			Available: src.IsAvailable(),
		})
	}
	return infos
}

// SourceInfo is one source's status line.
type SourceInfo struct {
	Name      string `json:"name"`
	Available bool   `json:"available"`
}
