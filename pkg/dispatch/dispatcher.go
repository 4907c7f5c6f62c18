// Package dispatch maps playback actions onto a target session with a
// native-transport-first, synthetic-key-fallback policy.
package dispatch

import (
	"context"
	"log"
	"strings"

	"github.com/luinbytes/media-control-raycast/pkg/session"
)

// Dispatcher issues playback commands. It re-resolves its target on
// every action instead of trusting the last displayed candidate, since
// the session landscape may have changed since the last discovery.
type Dispatcher struct {
	transport  session.Transport
	keys       session.KeyInjector
	foreground session.ForegroundFunc
}

// New creates a dispatcher. transport and keys may each be nil when the
// corresponding mechanism is unavailable; dispatch then relies on the
// other path alone.
func New(transport session.Transport, keys session.KeyInjector, foreground session.ForegroundFunc) *Dispatcher {
	return &Dispatcher{
		transport:  transport,
		keys:       keys,
		foreground: foreground,
	}
}

// Result describes one dispatch attempt, for logging and the API.
type Result struct {
	Action      session.PlaybackAction `json:"action"`
	TargetAppID string                 `json:"target_app_id,omitempty"`
	NativeOK    bool                   `json:"native_ok"`
	KeyOK       bool                   `json:"key_ok"`
}

// Success reports whether either delivery path worked.
func (r Result) Success() bool {
	return r.NativeOK || r.KeyOK
}

// Dispatch sends the action. The synthetic hardware key always fires in
// addition to any native call, because some applications only respond
// to one of the two mechanisms. Neither path failing is fatal; the
// caller gets a boolean outcome, never an error.
func (d *Dispatcher) Dispatch(ctx context.Context, action session.PlaybackAction) Result {
	result := Result{Action: action}

	if d.transport != nil {
		result.TargetAppID, result.NativeOK = d.dispatchNative(ctx, action)
	}

	if d.keys != nil {
		result.KeyOK = d.keys.Tap(action)
	}

	return result
}

// dispatchNative resolves a transport target and issues the command.
func (d *Dispatcher) dispatchNative(ctx context.Context, action session.PlaybackAction) (string, bool) {
	players, err := d.transport.Players(ctx)
	if err != nil || len(players) == 0 {
		return "", false
	}

	foreground := ""
	if d.foreground != nil {
		foreground = d.foreground(ctx)
	}

	if target, ok := resolveTarget(players, foreground); ok {
		err := d.transport.Command(ctx, target.AppID, action)
		if err != nil {
			log.Printf("Transport command %s to %s failed: %v", action, target.AppID, err)
			return target.AppID, false
		}
		return target.AppID, true
	}

	// No focused or playing session. An explicit play request still has
	// an obvious intent, so broadcast it to every session able to start.
	if action == session.ActionPlay {
		return d.broadcastPlay(ctx, players)
	}

	return "", false
}

// resolveTarget prefers the session owned by the foreground app, then
// the first session reporting active playback.
func resolveTarget(players []session.TransportPlayer, foreground string) (session.TransportPlayer, bool) {
	if foreground != "" {
		for _, p := range players {
			if strings.Contains(strings.ToLower(p.AppID), strings.ToLower(foreground)) {
				return p, true
			}
		}
	}

	for _, p := range players {
		if p.IsPlaying {
			return p, true
		}
	}

	return session.TransportPlayer{}, false
}

func (d *Dispatcher) broadcastPlay(ctx context.Context, players []session.TransportPlayer) (string, bool) {
	var lastTarget string
	ok := false
	for _, p := range players {
		if !p.CanPlay {
			continue
		}
		if err := d.transport.Command(ctx, p.AppID, session.ActionPlay); err != nil {
			log.Printf("Broadcast play to %s failed: %v", p.AppID, err)
			continue
		}
		lastTarget = p.AppID
		ok = true
	}
	return lastTarget, ok
}
