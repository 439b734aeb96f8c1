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

func TestInitWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "debug", "json")
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	log.Debug().Str("note_id", "n1").Msg("hello")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "debug", line["level"])
	assert.Equal(t, "hello", line["message"])
	assert.Equal(t, "n1", line["note_id"])
	assert.Contains(t, line, "caller")
}

func TestInitWithWriter_UnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "chatty", "json")
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	log.Debug().Msg("dropped")
	assert.Empty(t, buf.String())

	log.Info().Msg("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestInitWithWriter_Console(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "info", "console")

	log.Info().Msg("pretty")
	assert.Contains(t, buf.String(), "pretty")
	assert.Contains(t, buf.String(), "INF")
}
