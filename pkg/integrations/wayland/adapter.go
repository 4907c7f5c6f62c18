// Package wayland implements the window-title discovery source for
// Wayland compositors that expose a window list over IPC (sway and
// Hyprland). There is no universal Wayland protocol for enumerating
// other clients' windows, so unsupported compositors report unavailable.
package wayland

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/luinbytes/media-control-raycast/pkg/grammar"
	"github.com/luinbytes/media-control-raycast/pkg/integrations/x11"
	"github.com/luinbytes/media-control-raycast/pkg/session"
)

// DefaultTimeout bounds one compositor IPC round trip.
const DefaultTimeout = 2 * time.Second

// Adapter discovers media sessions from compositor window titles.
type Adapter struct {
	compositor string
	registry   *grammar.Registry
	timeout    time.Duration
}

// NewAdapter detects the running compositor.
func NewAdapter(registry *grammar.Registry, timeout time.Duration) *Adapter {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	a := &Adapter{
		registry: registry,
		timeout:  timeout,
	}
	a.detectCompositor()
	return a
}

func (a *Adapter) detectCompositor() {
	compositors := map[string]string{
		"sway":     "sway",
		"Hyprland": "hyprland",
	}

	for process, name := range compositors {
		cmd := exec.Command("pgrep", "-x", process)
		if err := cmd.Run(); err == nil {
			a.compositor = name
			return
		}
	}

	a.compositor = "unknown"
}

func commandExists(cmd string) bool {
	_, err := exec.LookPath(cmd)
	return err == nil
}

// Name identifies the source.
func (a *Adapter) Name() string {
	return "wayland"
}

// IsAvailable reports whether the running compositor supports window
// enumeration.
func (a *Adapter) IsAvailable() bool {
	if os.Getenv("WAYLAND_DISPLAY") == "" && os.Getenv("XDG_SESSION_TYPE") != "wayland" {
		return false
	}
	switch a.compositor {
	case "sway":
		return commandExists("swaymsg")
	case "hyprland":
		return commandExists("hyprctl")
	default:
		return false
	}
}

// windowEntry is the compositor-independent shape of one enumerated
// window.
type windowEntry struct {
	title   string
	pid     int
	focused bool
}

// Discover enumerates compositor windows and matches their titles
// against the grammar registry.
func (a *Adapter) Discover(ctx context.Context) ([]session.Candidate, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	entries, err := a.listWindows(ctx)
	if err != nil {
		return nil, err
	}

	var candidates []session.Candidate
	for _, e := range entries {
		if e.title == "" {
			continue
		}
		processKey := processName(e.pid)
		if processKey == "" {
			continue
		}
		if c, ok := x11.CandidateFromTitle(a.registry, processKey, e.title); ok {
			candidates = append(candidates, c)
		}
	}
	return candidates, nil
}

func (a *Adapter) listWindows(ctx context.Context) ([]windowEntry, error) {
	switch a.compositor {
	case "sway":
		return a.listSwayWindows(ctx)
	case "hyprland":
		return a.listHyprlandWindows(ctx)
	default:
		return nil, fmt.Errorf("unsupported wayland compositor: %s", a.compositor)
	}
}

// swayNode is the subset of the sway tree node shape we care about.
type swayNode struct {
	Name          string     `json:"name"`
	PID           int        `json:"pid"`
	Focused       bool       `json:"focused"`
	Nodes         []swayNode `json:"nodes"`
	FloatingNodes []swayNode `json:"floating_nodes"`
}

func (a *Adapter) listSwayWindows(ctx context.Context) ([]windowEntry, error) {
	out, err := exec.CommandContext(ctx, "swaymsg", "-t", "get_tree").Output()
	if err != nil {
		return nil, fmt.Errorf("failed to execute swaymsg: %w", err)
	}

	var root swayNode
	if err := json.Unmarshal(out, &root); err != nil {
		return nil, fmt.Errorf("failed to parse sway tree: %w", err)
	}

	var entries []windowEntry
	var walk func(n swayNode)
	walk = func(n swayNode) {
		// Leaf nodes with a PID are application windows; containers
		// and workspaces have children instead.
		if n.PID > 0 && len(n.Nodes) == 0 && len(n.FloatingNodes) == 0 {
			entries = append(entries, windowEntry{title: n.Name, pid: n.PID, focused: n.Focused})
		}
		for _, child := range n.Nodes {
			walk(child)
		}
		for _, child := range n.FloatingNodes {
			walk(child)
		}
	}
	walk(root)
	return entries, nil
}

// hyprClient is one entry of `hyprctl clients -j`.
type hyprClient struct {
	Title string `json:"title"`
	PID   int    `json:"pid"`
}

func (a *Adapter) listHyprlandWindows(ctx context.Context) ([]windowEntry, error) {
	out, err := exec.CommandContext(ctx, "hyprctl", "clients", "-j").Output()
	if err != nil {
		return nil, fmt.Errorf("failed to execute hyprctl: %w", err)
	}

	var clients []hyprClient
	if err := json.Unmarshal(out, &clients); err != nil {
		return nil, fmt.Errorf("failed to parse hyprctl clients: %w", err)
	}

	entries := make([]windowEntry, 0, len(clients))
	for _, c := range clients {
		entries = append(entries, windowEntry{title: c.Title, pid: c.PID})
	}
	return entries, nil
}

// Foreground resolves the process name owning the focused window.
func (a *Adapter) Foreground(ctx context.Context) string {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	switch a.compositor {
	case "sway":
		entries, err := a.listSwayWindows(ctx)
		if err != nil {
			return ""
		}
		for _, e := range entries {
			if e.focused {
				return processName(e.pid)
			}
		}
	case "hyprland":
		out, err := exec.CommandContext(ctx, "hyprctl", "activewindow", "-j").Output()
		if err != nil {
			return ""
		}
		var active hyprClient
		if err := json.Unmarshal(out, &active); err != nil {
			return ""
		}
		return processName(active.PID)
	}
	return ""
}

// Close releases resources. The adapter holds no persistent handles.
func (a *Adapter) Close() error {
	return nil
}

func processName(pid int) string {
	if pid <= 0 {
		return ""
	}
	data, err := os.ReadFile(filepath.Join("/proc", strconv.Itoa(pid), "comm"))
	if err != nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(string(data)))
}

// KeyInjector fires media keys through a Wayland input tool when one is
// installed. ydotool speaks uinput directly; wtype uses the virtual
// keyboard protocol.
type KeyInjector struct {
	tool string
}

// NewKeyInjector picks the first available injection tool.
func NewKeyInjector() (*KeyInjector, error) {
	for _, tool := range []string{"ydotool", "wtype"} {
		if commandExists(tool) {
			return &KeyInjector{tool: tool}, nil
		}
	}
	return nil, fmt.Errorf("no wayland input tool available (ydotool or wtype required)")
}

// Tap injects the media key for the action.
func (k *KeyInjector) Tap(action session.PlaybackAction) bool {
	var args []string
	switch k.tool {
	case "ydotool":
		// Linux input event codes: 163 next, 164 play/pause, 165 previous.
		code := "164"
		switch action {
		case session.ActionNext:
			code = "163"
		case session.ActionPrevious:
			code = "165"
		}
		args = []string{"key", code + ":1", code + ":0"}
	case "wtype":
		key := "XF86AudioPlay"
		switch action {
		case session.ActionNext:
			key = "XF86AudioNext"
		case session.ActionPrevious:
			key = "XF86AudioPrev"
		}
		args = []string{"-k", key}
	default:
		return false
	}

	return exec.Command(k.tool, args...).Run() == nil
}

// Close releases resources.
func (k *KeyInjector) Close() error {
	return nil
}
