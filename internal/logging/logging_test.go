package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel_When_KnownAndUnknownNames(t *testing.T) {
	t.Parallel()

	assert.Equal(t, LevelDebug, ParseLevel("debug"))
	assert.Equal(t, LevelWarn, ParseLevel("WARNING"))
	assert.Equal(t, LevelError, ParseLevel("critical"))
	assert.Equal(t, LevelInfo, ParseLevel(""))
	assert.Equal(t, LevelInfo, ParseLevel("nonsense"))
}

func TestLogger_When_BelowLevel_Suppressed(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := New(&buf, LevelWarn, false)

	log.Debugf("hidden")
	log.Infof("hidden too")
	log.Warnf("shown %d", 1)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown 1")
	assert.Contains(t, out, "[yapenv]")
	assert.Contains(t, out, "WARNING")
}

func TestLogger_SetLevel_When_Lowered_EnablesDebug(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := New(&buf, LevelInfo, false)
	log.SetLevel(LevelDebug)

	log.Debugf("visible")

	assert.Contains(t, buf.String(), "visible")
}
