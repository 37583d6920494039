package logging

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/ZicoForREAL/fullstackAPP/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesJSONWithBaseFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&config.Config{AppEnv: "test", LogLevel: "debug"}, &buf)

	logger.Debug().Int64("session_id", 7).Msg("booked")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "booked", entry["message"])
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "test", entry["env"])
	assert.Equal(t, appName, entry["app"])
	assert.EqualValues(t, 7, entry["session_id"])
}

func TestNewFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&config.Config{LogLevel: "loud"}, &buf)

	logger.Debug().Msg("hidden")
	assert.Zero(t, buf.Len())

	logger.Info().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestNewConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&config.Config{LogFormat: "console"}, &buf)

	logger.Info().Msg("hello")
	assert.Contains(t, buf.String(), "hello")
	assert.False(t, json.Valid(buf.Bytes()))
}

func TestNewLeavesGlobalTimeFormat(t *testing.T) {
	previous := zerolog.TimeFieldFormat
	t.Cleanup(func() { zerolog.TimeFieldFormat = previous })
	zerolog.TimeFieldFormat = time.Kitchen

	var buf bytes.Buffer
	logger := NewWithWriter(&config.Config{}, &buf)
	logger.Info().Msg("hello")

	assert.Equal(t, time.Kitchen, zerolog.TimeFieldFormat)
}

func TestBootstrapSetsTimeFormat(t *testing.T) {
	previous := zerolog.TimeFieldFormat
	t.Cleanup(func() { zerolog.TimeFieldFormat = previous })

	zerolog.TimeFieldFormat = time.Kitchen
	Bootstrap()
	assert.Equal(t, time.RFC3339Nano, zerolog.TimeFieldFormat)
}
