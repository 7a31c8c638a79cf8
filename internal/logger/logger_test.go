package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupJSON(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	var buf bytes.Buffer
	Logger{Level: "warn", Format: "json"}.setup(&buf)

	log.Info().Msg("hidden")
	log.Warn().Str("layer", "population").Msg("shown")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "population", entry["layer"])
	assert.Equal(t, "shown", entry["message"])
}

func TestSetupBadLevelFallsBackToInfo(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	var buf bytes.Buffer
	Logger{Level: "loud", Format: "console", NoColor: true}.setup(&buf)

	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
	log.Debug().Msg("hidden")
	assert.Empty(t, buf.String())
	log.Info().Msg("visible")
	assert.Contains(t, buf.String(), "visible")
}
