package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func restore(t *testing.T) {
	t.Helper()
	prevLevel := zerolog.GlobalLevel()
	prevBase := Base()
	t.Cleanup(func() {
		zerolog.SetGlobalLevel(prevLevel)
		mu.Lock()
		base = prevBase
		mu.Unlock()
	})
}

func TestConfigureWritesJSON(t *testing.T) {
	restore(t)
	var buf bytes.Buffer
	Configure(Config{Level: "warn", Output: &buf})

	log := WithComponent("cache")
	log.Info().Msg("dropped")
	log.Warn().Str("key", "v").Msg("kept")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "kept", entry["message"])
	assert.Equal(t, "docsite", entry["service"])
	assert.Equal(t, "cache", entry["component"])
	assert.Equal(t, "v", entry["key"])
}

func TestConfigureLevel(t *testing.T) {
	tests := []struct {
		name  string
		level string
		env   string
		want  zerolog.Level
	}{
		{"explicit", "debug", "", zerolog.DebugLevel},
		{"explicit wins over env", "error", "debug", zerolog.ErrorLevel},
		{"env fallback", "", "warn", zerolog.WarnLevel},
		{"default", "", "", zerolog.InfoLevel},
		{"unparsable", "loud", "", zerolog.InfoLevel},
		{"unparsable env", "", "loud", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			restore(t)
			t.Setenv("LOG_LEVEL", tt.env)
			Configure(Config{Level: tt.level, Output: &bytes.Buffer{}})
			assert.Equal(t, tt.want, zerolog.GlobalLevel())
		})
	}
}

func TestConfigureService(t *testing.T) {
	restore(t)
	var buf bytes.Buffer
	Configure(Config{Level: "info", Output: &buf, Service: "docs-build"})

	log := Base()
	log.Info().Msg("hello")
	assert.Contains(t, buf.String(), `"service":"docs-build"`)
}
