package logger

import (
	"bytes"
	"log"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func captureLog(t *testing.T, fn func()) string {
	t.Helper()
	var buf bytes.Buffer
	flags, w := log.Flags(), log.Writer()
	log.SetOutput(&buf)
	log.SetFlags(0)
	defer func() {
		log.SetOutput(w)
		log.SetFlags(flags)
	}()
	fn()
	return buf.String()
}

func TestStdLoggerLevels(t *testing.T) {
	t.Setenv(DebugEnv, "")
	l := New("[st7789]", false)
	out := captureLog(t, func() {
		l.Debug("hidden %d", 1)
		l.Info("frame %d", 2)
		l.Warn("slow")
		l.Error("bus down")
	})
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[st7789] frame 2")
	assert.Contains(t, out, "[st7789] WARN: slow")
	assert.Contains(t, out, "[st7789] ERROR: bus down")
}

func TestStdLoggerDebugEnabled(t *testing.T) {
	out := captureLog(t, func() {
		New("", true).Debug("tick %s", "ok")
	})
	assert.Equal(t, "tick ok", strings.TrimSpace(out))
}

func TestStdLoggerDebugEnv(t *testing.T) {
	t.Setenv(DebugEnv, "1")
	out := captureLog(t, func() {
		New("[x]", false).Debug("visible")
	})
	assert.Contains(t, out, "[x] visible")
}

func TestBufferLogger(t *testing.T) {
	b := NewBufferLogger()
	b.Info("a %d", 1)
	b.Error("b")
	assert.True(t, b.HasLevel("info"))
	assert.True(t, b.HasLevel("error"))
	assert.False(t, b.HasLevel("warn"))
	assert.Equal(t, "a 1", b.Messages[0].Message)
}
