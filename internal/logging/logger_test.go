package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_JSONOutputRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "warn", Format: "json", Output: &buf})
	t.Cleanup(func() { Init(Config{}) })

	Info().Msg("hidden")
	Warn().Str("source", "rss").Msg("visible")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	require.Contains(t, out, "visible")
	assert.Contains(t, out, `"source":"rss"`)
}

func TestWith_AddsComponent(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "debug", Output: &buf})
	t.Cleanup(func() { Init(Config{}) })

	l := With("snapshot")
	l.Debug().Msg("x")

	assert.Contains(t, buf.String(), `"component":"snapshot"`)
}
