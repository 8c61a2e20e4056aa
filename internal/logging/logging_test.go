package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zapcore.Level
		wantErr bool
	}{
		{"", zapcore.InfoLevel, false},
		{"debug", zapcore.DebugLevel, false},
		{"warning", zapcore.WarnLevel, false},
		{"error", zapcore.ErrorLevel, false},
		{"loud", zapcore.InfoLevel, true},
	}
	for _, tc := range tests {
		got, err := ParseLevel(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
		}
		if got != tc.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestNew(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		l, err := New("warn", format)
		if err != nil {
			t.Fatalf("New(%s): %v", format, err)
		}
		if l.Core().Enabled(zapcore.InfoLevel) {
			t.Errorf("%s: expected info to be disabled at warn level", format)
		}
		if !l.Core().Enabled(zapcore.ErrorLevel) {
			t.Errorf("%s: expected error to be enabled", format)
		}
	}

	if _, err := New("verbose", "json"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestOrNop(t *testing.T) {
	if OrNop(nil) == nil {
		t.Fatal("expected a logger")
	}
}
