// SPDX-License-Identifier: MPL-2.0

package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNew_Verbosity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		verbose   bool
		wantDebug bool
	}{
		{"quiet", false, false},
		{"verbose", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			l := New(&buf, tt.verbose)
			l.Debug("copying resource", "src", "kick.wav")
			l.Warn("resource not found", "src", "snare.wav")

			out := buf.String()
			if got := strings.Contains(out, "copying resource"); got != tt.wantDebug {
				t.Errorf("debug line present = %v, want %v; output %q", got, tt.wantDebug, out)
			}
			if !strings.Contains(out, "snare.wav") {
				t.Errorf("warning missing from output %q", out)
			}
			if !strings.Contains(out, Prefix) {
				t.Errorf("prefix missing from output %q", out)
			}
		})
	}
}

func TestOrDiscard(t *testing.T) {
	t.Parallel()

	l := OrDiscard(nil)
	if l == nil {
		t.Fatal("OrDiscard(nil) returned nil")
	}
	l.Error("dropped")

	var buf bytes.Buffer
	own := New(&buf, false)
	if OrDiscard(own) != own {
		t.Error("OrDiscard should return a non-nil logger unchanged")
	}
}
