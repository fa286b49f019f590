package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDebugEnabled(t *testing.T) {
	t.Setenv("TRIPS_DEBUG", "")
	assert.False(t, DebugEnabled(), "empty TRIPS_DEBUG disables debug output")

	t.Setenv("TRIPS_DEBUG", "1")
	assert.True(t, DebugEnabled())
}

func TestDebugf(t *testing.T) {
	var buf bytes.Buffer
	restore := SetOutput(&buf)
	defer restore()

	t.Setenv("TRIPS_DEBUG", "")
	Debugf("hidden %s\n", "message")
	assert.Empty(t, buf.String())

	t.Setenv("TRIPS_DEBUG", "true")
	Debugf("visible %s\n", "message")
	Debugln("second", "line")
	assert.Equal(t, "visible message\nsecond line\n", buf.String())
}

func TestWarnf_AlwaysWrites(t *testing.T) {
	var buf bytes.Buffer
	restore := SetOutput(&buf)
	defer restore()

	t.Setenv("TRIPS_DEBUG", "")
	Warnf("could not load trip history: %v", "corrupt")

	assert.Contains(t, buf.String(), "WARN: ")
	assert.Contains(t, buf.String(), "could not load trip history: corrupt")
}
