package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestSetVerbose tests toggling verbose mode
func TestSetVerbose(t *testing.T) {
	defer SetVerbose(false)

	SetVerbose(true)
	assert.True(t, IsVerbose())

	SetVerbose(false)
	assert.False(t, IsVerbose())
}

// TestDebug_WritesWhenVerbose tests debug output under verbose mode
func TestDebug_WritesWhenVerbose(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)
	defer func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	}()

	Debug("refreshing token for %s", "account")

	assert.Contains(t, buf.String(), "[DEBUG] refreshing token for account")
}

// TestDebug_SilentWhenNotVerbose tests that debug output is suppressed
func TestDebug_SilentWhenNotVerbose(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(false)

	Debug("should not appear")
	Info("should not appear")
	Warn("should not appear")

	assert.Empty(t, buf.String())
}
