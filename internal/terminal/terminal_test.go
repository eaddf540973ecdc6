package terminal

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColorRespectsGlobalToggle(t *testing.T) {
	WithColorsDisabled(func() {
		assert.Empty(t, Color(Red))
	})
	SetColorsEnabled(true)
	assert.Equal(t, Red, Color(Red))
}

func TestSeverityColor(t *testing.T) {
	assert.Equal(t, Red, SeverityColor("error"))
	assert.Equal(t, Yellow, SeverityColor("warning"))
	assert.Equal(t, Cyan, SeverityColor("info"))
	assert.Equal(t, Dim, SeverityColor("hint"))
}

func TestLoggerWritesTaggedLine(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger()
	l.SetOutput(&buf)

	WithColorsDisabled(func() {
		l.Info("found %d errors", 3)
	})

	assert.Contains(t, buf.String(), "[aifix] found 3 errors")
}

func TestLoggerQuietSuppressesInfo(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger()
	l.SetOutput(&buf)
	l.SetQuiet(true)

	WithColorsDisabled(func() {
		l.Info("hidden")
		l.Warning("shown")
	})

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestLoggerDebugOnlyWhenVerbose(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger()
	l.SetOutput(&buf)

	WithColorsDisabled(func() {
		l.Debug("invisible")
		l.SetVerbose(true)
		l.Debug("visible")
	})

	assert.NotContains(t, buf.String(), "invisible")
	assert.Contains(t, buf.String(), "visible")
}

func TestLoggerJSONModeBuffersEvents(t *testing.T) {
	var styled bytes.Buffer
	l := NewLogger()
	l.SetOutput(&styled)
	l.SetJSON(true)

	l.Info("checking files")
	l.Error("boom")

	assert.Empty(t, styled.String())

	events := l.Events()
	require.Len(t, events, 2)
	assert.Equal(t, "info", events[0].Level)
	assert.Equal(t, "checking files", events[0].Message)
	assert.Equal(t, "error", events[1].Level)

	var out bytes.Buffer
	require.NoError(t, l.FlushJSON(&out))
	assert.Contains(t, out.String(), `"checking files"`)
	assert.Empty(t, l.Events())
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "2.5s", FormatDuration(2500*time.Millisecond))
	assert.Equal(t, "1m 30.0s", FormatDuration(90*time.Second))
}

func TestWrapText(t *testing.T) {
	got := WrapText("one two three four", 12, "  ")
	assert.Equal(t, "  one two\n  three four", got)
}

func TestPluralize(t *testing.T) {
	assert.Equal(t, "error", Pluralize(1, "error", "errors"))
	assert.Equal(t, "errors", Pluralize(2, "error", "errors"))
}
