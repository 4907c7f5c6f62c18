// Package discovery wires the concrete adapters into an engine and a
// dispatcher for the current desktop environment.
package discovery

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/luinbytes/media-control-raycast/pkg/dispatch"
	"github.com/luinbytes/media-control-raycast/pkg/grammar"
	"github.com/luinbytes/media-control-raycast/pkg/integrations/mpris"
	"github.com/luinbytes/media-control-raycast/pkg/integrations/wayland"
	"github.com/luinbytes/media-control-raycast/pkg/integrations/x11"
	"github.com/luinbytes/media-control-raycast/pkg/selector"
	"github.com/luinbytes/media-control-raycast/pkg/session"
)

// Options carries the adapter timeouts and the grammar registry.
type Options struct {
	Registry         *grammar.Registry
	TransportTimeout time.Duration
	SessionTimeout   time.Duration
	WindowTimeout    time.Duration
}

// Stack is the assembled discovery and control machinery.
type Stack struct {
	Engine     *selector.Engine
	Dispatcher *dispatch.Dispatcher

	keys session.KeyInjector
}

// windowSource is a discovery source that can also resolve the
// foreground window's owning process.
type windowSource interface {
	session.Source
	Foreground(ctx context.Context) string
}

// DetectDisplayServer reports which display server the session runs on.
func DetectDisplayServer() string {
	sessionType := os.Getenv("XDG_SESSION_TYPE")
	waylandDisplay := os.Getenv("WAYLAND_DISPLAY")
	x11Display := os.Getenv("DISPLAY")

	if sessionType == "wayland" || waylandDisplay != "" {
		return "wayland"
	}
	if sessionType == "x11" || x11Display != "" {
		return "x11"
	}
	return "unknown"
}

// New assembles the stack. The transport source registers first so its
// candidates win discovery-order ties against title heuristics. Missing
// adapters degrade the stack rather than failing it: a session with no
// D-Bus still gets title-based discovery, and vice versa.
func New(opts Options) *Stack {
	if opts.Registry == nil {
		opts.Registry = grammar.Default()
	}

	var sources []session.Source
	var foreground session.ForegroundFunc

	var transport session.Transport
	mprisAdapter, err := mpris.NewAdapter(opts.TransportTimeout, opts.SessionTimeout)
	if err != nil {
		log.Printf("Transport source unavailable: %v", err)
	} else {
		sources = append(sources, mprisAdapter)
		transport = mprisAdapter
	}

	windows := newWindowSource(opts)
	if windows != nil {
		sources = append(sources, windows)
		foreground = windows.Foreground
	}

	keys := newKeyInjector()

	return &Stack{
		Engine:     selector.NewEngine(sources, foreground),
		Dispatcher: dispatch.New(transport, keys, foreground),
		keys:       keys,
	}
}

// newWindowSource picks the window-title adapter for the running
// display server, preferring Wayland IPC when the session is Wayland.
func newWindowSource(opts Options) windowSource {
	if DetectDisplayServer() == "wayland" {
		det := wayland.NewAdapter(opts.Registry, opts.WindowTimeout)
		if det.IsAvailable() {
			return det
		}
	}

	if os.Getenv("DISPLAY") != "" {
		adapter, err := x11.NewAdapter(opts.Registry, opts.WindowTimeout)
		if err != nil {
			log.Printf("X11 window source unavailable: %v", err)
			return nil
		}
		return adapter
	}

	return nil
}

// newKeyInjector picks the synthetic-key mechanism for the display
// server. Nil when none is available; the dispatcher then relies on the
// transport path alone.
func newKeyInjector() session.KeyInjector {
	if DetectDisplayServer() == "wayland" {
		inj, err := wayland.NewKeyInjector()
		if err == nil {
			return inj
		}
		log.Printf("Wayland key injection unavailable: %v", err)
	}

	if os.Getenv("DISPLAY") != "" {
		inj, err := x11.NewInjector()
		if err == nil {
			return inj
		}
		log.Printf("X11 key injection unavailable: %v", err)
	}

	return nil
}

// Close shuts down all adapters.
func (s *Stack) Close() error {
	if s.Engine != nil {
		_ = s.Engine.Close()
	}
	if s.keys != nil {
		_ = s.keys.Close()
	}
	return nil
}
