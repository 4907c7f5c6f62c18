// Package x11 implements the window-title discovery source and the
// synthetic media-key injector for X11 sessions.
package x11

import (
	"context"
	"os"
	"time"

	"github.com/jezek/xgb/xproto"

	"github.com/luinbytes/media-control-raycast/pkg/grammar"
	"github.com/luinbytes/media-control-raycast/pkg/session"
)

// DefaultTimeout bounds one enumeration pass over the window list.
const DefaultTimeout = 2 * time.Second

// Adapter discovers media sessions by inspecting window titles of known
// applications. Unknown processes are ignored entirely; this source
// only ever reports on apps the registry has a grammar for.
type Adapter struct {
	client   *Client
	registry *grammar.Registry
	timeout  time.Duration
}

// NewAdapter connects to the X server. Returns an error when no display
// is reachable.
func NewAdapter(registry *grammar.Registry, timeout time.Duration) (*Adapter, error) {
	client, err := NewClient()
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Adapter{
		client:   client,
		registry: registry,
		timeout:  timeout,
	}, nil
}

// Name identifies the source.
func (a *Adapter) Name() string {
	return "x11"
}

// IsAvailable checks for a usable display.
func (a *Adapter) IsAvailable() bool {
	return a.client != nil && os.Getenv("DISPLAY") != ""
}

// Discover enumerates titled top-level windows and matches them against
// the grammar registry. The pass is bounded by the adapter timeout; on
// timeout the partial result is discarded and an empty list returned,
// never an error that would abort the cycle.
func (a *Adapter) Discover(ctx context.Context) ([]session.Candidate, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	type outcome struct {
		candidates []session.Candidate
		err        error
	}
	done := make(chan outcome, 1)
	go func() {
		candidates, err := a.enumerate()
		done <- outcome{candidates: candidates, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, nil
	case out := <-done:
		return out.candidates, out.err
	}
}

func (a *Adapter) enumerate() ([]session.Candidate, error) {
	windows, err := a.client.ClientList()
	if err != nil {
		return nil, err
	}

	var candidates []session.Candidate
	for _, w := range windows {
		if c, ok := a.candidateFor(w); ok {
			candidates = append(candidates, c)
		}
	}
	return candidates, nil
}

// candidateFor inspects one window. Any failure skips the window, never
// the whole pass.
func (a *Adapter) candidateFor(w xproto.Window) (session.Candidate, bool) {
	title := a.client.WindowName(w)
	if title == "" {
		return session.Candidate{}, false
	}

	processKey := ProcessName(a.client.WindowPID(w))
	if processKey == "" {
		return session.Candidate{}, false
	}

	return CandidateFromTitle(a.registry, processKey, title)
}

// CandidateFromTitle matches one (processKey, title) pair against the
// registry and builds the candidate for it. Pure; exercised directly by
// tests and by the wayland source.
func CandidateFromTitle(registry *grammar.Registry, processKey, title string) (session.Candidate, bool) {
	g, ok := registry.Lookup(processKey)
	if !ok {
		return session.Candidate{}, false
	}

	m := g.Match(title)
	switch m.Kind {
	case grammar.MatchPlaying:
		return session.Candidate{
			Title:           m.Title,
			Artist:          m.Artist,
			SourceAppID:     g.ProcessKey,
			IsPlaying:       true,
			CanPlay:         true,
			CanPause:        true,
			CanSkipNext:     true,
			CanSkipPrevious: true,
			Score:           g.BaseScore,
			SourceType:      g.Category,
			Origin:          "window",
		}, true
	case grammar.MatchPaused:
		return session.Candidate{
			Title:       m.Title,
			Artist:      m.Artist,
			SourceAppID: g.ProcessKey,
			IsPlaying:   false,
			CanPlay:     true,
			// Nothing is playing, so there is nothing to pause.
			CanPause:        false,
			CanSkipNext:     true,
			CanSkipPrevious: true,
			Score:           g.BaseScore,
			SourceType:      g.Category,
			Origin:          "window",
		}, true
	default:
		return session.Candidate{}, false
	}
}

// Foreground resolves the process name owning the active window,
// bounded by the adapter timeout like Discover. Empty when no active
// window is set, the PID cannot be resolved, or the lookup times out.
func (a *Adapter) Foreground(ctx context.Context) string {
	return foregroundName(ctx, a.timeout, func() string {
		active := a.client.ActiveWindow()
		if active == 0 {
			return ""
		}
		return ProcessName(a.client.WindowPID(active))
	})
}

// foregroundName waits for resolve under its own deadline, so a stuck X
// reply cannot stall a discovery cycle run under a cancel-only context.
func foregroundName(ctx context.Context, timeout time.Duration, resolve func() string) string {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan string, 1)
	go func() { done <- resolve() }()

	select {
	case <-ctx.Done():
		return ""
	case name := <-done:
		return name
	}
}

// Close shuts down the X connection.
func (a *Adapter) Close() error {
	if a.client != nil {
		a.client.Close()
	}
	return nil
}
