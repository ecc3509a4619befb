package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsAverageAndFPS(t *testing.T) {
	m := NewMetrics()
	for i := 0; i < int(AVG_COUNT); i++ {
		m.Update(0.010)
	}
	assert.InDelta(t, 10.0, m.FrameTime(), 1e-9)

	// 30 frames of 10ms is 300ms, so no full second has passed yet.
	assert.Equal(t, 0.0, m.FPS())

	for i := 0; i < 71; i++ {
		m.Update(0.010)
	}
	fps, avg := m.Frame()
	assert.Equal(t, 100.0, fps)
	assert.InDelta(t, 10.0, avg, 1e-9)
}

func TestParseLogLevel(t *testing.T) {
	lvl, err := ParseLogLevel("WARN")
	require.NoError(t, err)
	assert.Equal(t, LogLevelWarn, lvl)

	lvl, err = ParseLogLevel("")
	require.NoError(t, err)
	assert.Equal(t, LogLevelDebug, lvl)

	_, err = ParseLogLevel("verbose")
	assert.Error(t, err)
}

func TestHandleIDShort(t *testing.T) {
	id := NewHandleID()
	assert.Len(t, id.Short(), 8)
	assert.NotEqual(t, id, NewHandleID())
}
