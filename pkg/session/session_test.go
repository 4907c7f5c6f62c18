package session

import "testing"

func TestParseAction(t *testing.T) {
	tests := []struct {
		input string
		want  PlaybackAction
		ok    bool
	}{
		{"play", ActionPlay, true},
		{"pause", ActionPause, true},
		{"toggle", ActionToggle, true},
		{"next", ActionNext, true},
		{"previous", ActionPrevious, true},
		{"playpause", ActionToggle, true},
		{"stop", "", false},
		{"", "", false},
		{"PLAY", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseAction(tt.input)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParseAction(%q) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.want, tt.ok)
		}
	}
}

func TestSelectionResultActive(t *testing.T) {
	var r SelectionResult
	if r.Active() {
		t.Error("Expected empty result to be inactive")
	}

	r.Winner = &Candidate{Title: "Track"}
	if !r.Active() {
		t.Error("Expected result with winner to be active")
	}
}
