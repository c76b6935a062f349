package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, l := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if l == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(l), &m), l)
		out = append(out, m)
	}
	return out
}

func TestNew_JSONConServicioYNivel(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Env: "production", Level: " WARN ", Service: "reportes-api", Out: &buf})

	log.Info().Msg("descartado")
	log.Warn().Msg("visible")

	got := lines(t, &buf)
	require.Len(t, got, 1)
	assert.Equal(t, "visible", got[0]["message"])
	assert.Equal(t, "warn", got[0]["level"])
	assert.Equal(t, "reportes-api", got[0]["service"])
	assert.Contains(t, got[0], "time")
}

func TestComponentYForRequest(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Env: "production", Level: "debug", Out: &buf})

	log.Component("report.submit").ForRequest("req-1").Info().Msg("reporte registrado")

	got := lines(t, &buf)
	require.Len(t, got, 1)
	assert.Equal(t, "report.submit", got[0]["component"])
	assert.Equal(t, "req-1", got[0]["request_id"])
	assert.NotContains(t, got[0], "service")
}

func TestNew_ConsolaEnDevelopment(t *testing.T) {
	var buf bytes.Buffer
	New(Config{Env: "development", Out: &buf}).Info().Msg("hola")
	assert.Contains(t, buf.String(), "hola")
	assert.False(t, json.Valid(bytes.TrimSpace(buf.Bytes())), "la consola no emite JSON")
}

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"DEBUG":   zerolog.DebugLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"verbose": zerolog.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLevel(in), in)
	}
}

func TestNop_NoEscribe(t *testing.T) {
	assert.NotPanics(t, func() { Nop().Component("x").ForRequest("y").Error().Msg("nada") })
}
