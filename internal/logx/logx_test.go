package logx

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, Debug, ParseLevel("DEBUG"))
	assert.Equal(t, Info, ParseLevel("info"))
	assert.Equal(t, Warning, ParseLevel("WARN"))
	assert.Equal(t, Error, ParseLevel("error"))
	assert.Equal(t, Info, ParseLevel("garbage"))
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, Warning)

	l.Debug("debug message")
	l.Info("info message")
	assert.Empty(t, buf.String())

	l.Warning("warn message %d", 1)
	l.Error("error message")
	out := buf.String()
	assert.Contains(t, out, "[WARNING] warn message 1")
	assert.Contains(t, out, "[ERROR] error message")
}

func TestLogger_NilReceiverIsSafe(t *testing.T) {
	var l *Logger
	assert.NotPanics(t, func() { l.Error("dropped") })
}
