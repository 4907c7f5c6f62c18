package discovery

import (
	"os"
	"testing"
)

func TestDetectDisplayServer(t *testing.T) {
	tests := []struct {
		name           string
		sessionType    string
		waylandDisplay string
		x11Display     string
		want           string
	}{
		{
			name:           "Wayland session",
			sessionType:    "wayland",
			waylandDisplay: "wayland-0",
			want:           "wayland",
		},
		{
			name:           "Wayland display only",
			waylandDisplay: "wayland-1",
			want:           "wayland",
		},
		{
			name:        "X11 session",
			sessionType: "x11",
			x11Display:  ":0",
			want:        "x11",
		},
		{
			name:       "X11 display only",
			x11Display: ":1",
			want:       "x11",
		},
		{
			name: "No display",
			want: "unknown",
		},
		{
			name:           "Wayland wins over X11",
			sessionType:    "wayland",
			waylandDisplay: "wayland-0",
			x11Display:     ":0",
			want:           "wayland",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("XDG_SESSION_TYPE", tt.sessionType)
			t.Setenv("WAYLAND_DISPLAY", tt.waylandDisplay)
			t.Setenv("DISPLAY", tt.x11Display)

			if got := DetectDisplayServer(); got != tt.want {
				t.Errorf("DetectDisplayServer() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestNewDegradesGracefully(t *testing.T) {
	if os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == "" {
		t.Log("No display available; expecting a stack without window sources")
	}

	stack := New(Options{})
	if stack == nil {
		t.Fatal("New returned nil stack")
	}
	defer stack.Close()

	if stack.Engine == nil {
		t.Error("Expected an engine even with no adapters")
	}
	if stack.Dispatcher == nil {
		t.Error("Expected a dispatcher even with no adapters")
	}

	for _, src := range stack.Engine.Sources() {
		t.Logf("Source %s available=%v", src.Name, src.Available)
	}
}
