// Package mpris implements the transport-session discovery source and
// the control transport over the MPRIS2 D-Bus interface.
package mpris

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/luinbytes/media-control-raycast/pkg/session"
)

const (
	busPrefix   = "org.mpris.MediaPlayer2."
	objectPath  = "/org/mpris/MediaPlayer2"
	rootIface   = "org.mpris.MediaPlayer2"
	playerIface = "org.mpris.MediaPlayer2.Player"
	propsIface  = "org.freedesktop.DBus.Properties"
)

const (
	// DefaultTimeout bounds one full discovery pass over the bus.
	DefaultTimeout = 4 * time.Second

	// DefaultSessionTimeout bounds the property fetch for one session,
	// so a single stuck player cannot eat the whole discovery budget.
	DefaultSessionTimeout = time.Second
)

// Adapter discovers media sessions from MPRIS players on the session
// bus. It is application-agnostic: any player implementing the spec
// shows up, known or not.
type Adapter struct {
	conn           *dbus.Conn
	timeout        time.Duration
	sessionTimeout time.Duration
}

// NewAdapter connects to the session bus.
func NewAdapter(timeout, sessionTimeout time.Duration) (*Adapter, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if sessionTimeout <= 0 {
		sessionTimeout = DefaultSessionTimeout
	}
	return &Adapter{
		conn:           conn,
		timeout:        timeout,
		sessionTimeout: sessionTimeout,
	}, nil
}

// Name identifies the source.
func (a *Adapter) Name() string {
	return "mpris"
}

// IsAvailable reports whether the session bus is reachable.
func (a *Adapter) IsAvailable() bool {
	return a.conn != nil && a.conn.Connected()
}

// Discover lists MPRIS bus names and reads each player's state. A
// failure on one session skips that session only; a bus failure or
// overall timeout yields an empty list, never an error that would
// abort the cycle's other source.
func (a *Adapter) Discover(ctx context.Context) ([]session.Candidate, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	names, err := a.playerNames(ctx)
	if err != nil {
		return nil, nil
	}

	var candidates []session.Candidate
	for _, name := range names {
		if ctx.Err() != nil {
			break
		}
		c, ok := a.candidateFor(ctx, name)
		if ok {
			candidates = append(candidates, c)
		}
	}
	return candidates, nil
}

func (a *Adapter) playerNames(ctx context.Context) ([]string, error) {
	var names []string
	err := a.conn.BusObject().CallWithContext(ctx, "org.freedesktop.DBus.ListNames", 0).Store(&names)
	if err != nil {
		return nil, err
	}

	var players []string
	for _, name := range names {
		if strings.HasPrefix(name, busPrefix) {
			players = append(players, name)
		}
	}
	return players, nil
}

// candidateFor reads one player's properties with a nested timeout.
func (a *Adapter) candidateFor(ctx context.Context, busName string) (session.Candidate, bool) {
	ctx, cancel := context.WithTimeout(ctx, a.sessionTimeout)
	defer cancel()

	obj := a.conn.Object(busName, objectPath)

	var props map[string]dbus.Variant
	err := obj.CallWithContext(ctx, propsIface+".GetAll", 0, playerIface).Store(&props)
	if err != nil {
		return session.Candidate{}, false
	}

	appID := AppIDFromBusName(busName)
	c := candidateFromProps(appID, props)
	if c.Title == "" {
		// A session without a title exists but contributes nothing
		// usable; drop it here, never let it reach the scorer.
		return session.Candidate{}, false
	}

	if c.Artist == "" {
		c.Artist = a.artistFallback(ctx, obj, appID)
	}

	return c, true
}

// artistFallback synthesizes an artist from the app identity when the
// metadata has none: vendor name for recognized apps, the player's
// self-reported Identity otherwise.
func (a *Adapter) artistFallback(ctx context.Context, obj dbus.BusObject, appID string) string {
	if vendor := VendorFor(appID); vendor != "" {
		return vendor
	}

	var identity dbus.Variant
	err := obj.CallWithContext(ctx, propsIface+".Get", 0, rootIface, "Identity").Store(&identity)
	if err == nil {
		if s, ok := identity.Value().(string); ok && s != "" {
			return s
		}
	}
	return appID
}

// Players lists controllable transport sessions for the dispatcher.
func (a *Adapter) Players(ctx context.Context) ([]session.TransportPlayer, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	names, err := a.playerNames(ctx)
	if err != nil {
		return nil, err
	}

	var players []session.TransportPlayer
	for _, name := range names {
		sctx, cancel := context.WithTimeout(ctx, a.sessionTimeout)
		obj := a.conn.Object(name, objectPath)
		var props map[string]dbus.Variant
		err := obj.CallWithContext(sctx, propsIface+".GetAll", 0, playerIface).Store(&props)
		cancel()
		if err != nil {
			continue
		}
		players = append(players, session.TransportPlayer{
			AppID:           AppIDFromBusName(name),
			IsPlaying:       variantString(props, "PlaybackStatus") == "Playing",
			CanPlay:         variantBool(props, "CanPlay"),
			CanPause:        variantBool(props, "CanPause"),
			CanSkipNext:     variantBool(props, "CanGoNext"),
			CanSkipPrevious: variantBool(props, "CanGoPrevious"),
		})
	}
	return players, nil
}

// Command issues a transport-control call to the player owning appID.
func (a *Adapter) Command(ctx context.Context, appID string, action session.PlaybackAction) error {
	ctx, cancel := context.WithTimeout(ctx, a.sessionTimeout)
	defer cancel()

	names, err := a.playerNames(ctx)
	if err != nil {
		return err
	}

	method, ok := methodFor(action)
	if !ok {
		return fmt.Errorf("unknown playback action %q", action)
	}

	for _, name := range names {
		if AppIDFromBusName(name) != appID {
			continue
		}
		obj := a.conn.Object(name, objectPath)
		return obj.CallWithContext(ctx, playerIface+"."+method, 0).Err
	}
	return fmt.Errorf("no transport session for app %q", appID)
}

func methodFor(action session.PlaybackAction) (string, bool) {
	switch action {
	case session.ActionPlay:
		return "Play", true
	case session.ActionPause:
		return "Pause", true
	case session.ActionToggle:
		return "PlayPause", true
	case session.ActionNext:
		return "Next", true
	case session.ActionPrevious:
		return "Previous", true
	default:
		return "", false
	}
}

// Close releases the bus connection.
func (a *Adapter) Close() error {
	if a.conn != nil {
		return a.conn.Close()
	}
	return nil
}
