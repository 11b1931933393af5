package log

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"progress", LevelProgress},
		{"warn", LevelWarn},
		{"minimal", LevelWarn},
		{"error", LevelError},
		{"", LevelProgress},
		{"chatty", LevelProgress},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestInitRespectsLevel(t *testing.T) {
	defer Reset()

	var buf bytes.Buffer
	Init(Config{Level: LevelWarn, Output: &buf})

	Info("hidden", "repo", "svc-a")
	Warn("push rejected", "repo", "svc-b")
	_ = Sync()

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "push rejected")
	assert.Contains(t, out, "svc-b")
}

func TestDebugLevelEmitsDebug(t *testing.T) {
	defer Reset()

	var buf bytes.Buffer
	Init(Config{Level: LevelDebug, Output: &buf})

	With("repo", "svc-a").Debugw("cloning")
	_ = Sync()

	assert.Contains(t, buf.String(), "cloning")
	assert.Contains(t, buf.String(), "svc-a")
}

func TestGetInitializesDefault(t *testing.T) {
	Reset()
	defer Reset()

	assert.NotNil(t, Get())
}
