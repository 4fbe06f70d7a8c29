package internal

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, LogLevelError, ParseLogLevel("ERROR"))
	assert.Equal(t, LogLevelWarn, ParseLogLevel("warn"))
	assert.Equal(t, LogLevelDebug, ParseLogLevel(" debug "))
	assert.Equal(t, LogLevelTrace, ParseLogLevel("TRACE"))
	assert.Equal(t, LogLevelInfo, ParseLogLevel(""))
	assert.Equal(t, LogLevelInfo, ParseLogLevel("verbose"))
}

func TestLoggerJSONOutput(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewLoggerTo(buf, LogLevelInfo, "json")

	logger.With("session", "abc").Info("[Dataset] loaded %d rows", 4)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "[Dataset] loaded 4 rows", entry["message"])
	assert.Equal(t, "abc", entry["session"])
}

func TestLoggerRespectsLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewLoggerTo(buf, LogLevelWarn, "json")

	logger.Info("hidden")
	logger.Debug("hidden")
	logger.Warn("shown")
	logger.Error("shown too")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 2)
	assert.NotContains(t, buf.String(), "hidden")
}
