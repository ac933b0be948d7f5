package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zerolog.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("verbose"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
}

func TestComponent_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := newWithWriter(Config{Env: "production", Level: "info", Service: "inventario-ledger"}, &buf)

	c := l.Component("alerts")
	c.Info().Str("alert_id", "a1").Msg("alerta abierta")
	c.Debug().Msg("no se escribe en nivel info")

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "inventario-ledger", line["service"])
	assert.Equal(t, "alerts", line["component"])
	assert.Equal(t, "a1", line["alert_id"])
	assert.Equal(t, "alerta abierta", line["message"])
}
