package x11

import (
	"fmt"
	"log"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
	"github.com/jezek/xgb/xtest"

	"github.com/luinbytes/media-control-raycast/pkg/session"
)

// XF86 multimedia keysyms.
const (
	keysymAudioPlay xproto.Keysym = 0x1008ff14
	keysymAudioPrev xproto.Keysym = 0x1008ff16
	keysymAudioNext xproto.Keysym = 0x1008ff17
)

// Injector fires synthetic hardware media keys through the XTEST
// extension. Some applications only react to these keys and ignore
// transport-control calls, so the dispatcher always fires one.
type Injector struct {
	conn     *xgb.Conn
	root     xproto.Window
	keycodes map[xproto.Keysym]xproto.Keycode
}

// NewInjector connects to the X server and resolves the media keycodes
// from the current keyboard mapping.
func NewInjector() (*Injector, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, err
	}
	if err := xtest.Init(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("XTEST extension unavailable: %w", err)
	}

	setup := xproto.Setup(conn)
	inj := &Injector{
		conn:     conn,
		root:     setup.DefaultScreen(conn).Root,
		keycodes: make(map[xproto.Keysym]xproto.Keycode),
	}

	if err := inj.resolveKeycodes(setup); err != nil {
		conn.Close()
		return nil, err
	}
	return inj, nil
}

// resolveKeycodes scans the keyboard mapping for the XF86 media keysyms.
func (i *Injector) resolveKeycodes(setup *xproto.SetupInfo) error {
	first := setup.MinKeycode
	count := byte(setup.MaxKeycode - setup.MinKeycode + 1)

	reply, err := xproto.GetKeyboardMapping(i.conn, first, count).Reply()
	if err != nil {
		return fmt.Errorf("failed to read keyboard mapping: %w", err)
	}

	per := int(reply.KeysymsPerKeycode)
	wanted := []xproto.Keysym{keysymAudioPlay, keysymAudioNext, keysymAudioPrev}
	for idx, sym := range reply.Keysyms {
		code := first + xproto.Keycode(idx/per)
		for _, w := range wanted {
			if sym == w {
				if _, seen := i.keycodes[w]; !seen {
					i.keycodes[w] = code
				}
			}
		}
	}

	if len(i.keycodes) == 0 {
		return fmt.Errorf("no media keycodes in keyboard mapping")
	}
	return nil
}

// keysymFor maps a playback action onto its hardware key. Play, pause,
// and toggle all share the play/pause key, matching what a physical
// keyboard would send.
func keysymFor(action session.PlaybackAction) (xproto.Keysym, bool) {
	switch action {
	case session.ActionPlay, session.ActionPause, session.ActionToggle:
		return keysymAudioPlay, true
	case session.ActionNext:
		return keysymAudioNext, true
	case session.ActionPrevious:
		return keysymAudioPrev, true
	default:
		return 0, false
	}
}

// Tap presses and releases the media key for the action. Best effort:
// false means the key was not delivered.
func (i *Injector) Tap(action session.PlaybackAction) bool {
	sym, ok := keysymFor(action)
	if !ok {
		return false
	}
	code, ok := i.keycodes[sym]
	if !ok {
		return false
	}

	press := xtest.FakeInputChecked(i.conn, xproto.KeyPress, byte(code), xproto.TimeCurrentTime, i.root, 0, 0, 0)
	if err := press.Check(); err != nil {
		log.Printf("Media key press failed: %v", err)
		return false
	}
	release := xtest.FakeInputChecked(i.conn, xproto.KeyRelease, byte(code), xproto.TimeCurrentTime, i.root, 0, 0, 0)
	if err := release.Check(); err != nil {
		log.Printf("Media key release failed: %v", err)
		return false
	}
	return true
}

// Close shuts down the injector's X connection.
func (i *Injector) Close() error {
	i.conn.Close()
	return nil
}
