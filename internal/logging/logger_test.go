package logging_test

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/aretw0/moore/internal/logging"
	"github.com/aretw0/moore/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter_RenamesErrorKey(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, slog.LevelInfo)

	logger.Info("boom", logging.Err(errors.New("bad")))
	logger.Debug("hidden")

	out := buf.String()
	assert.Contains(t, out, `err=bad`)
	assert.NotContains(t, out, "hidden")
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"":        slog.LevelInfo,
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for in, want := range tests {
		got, err := logging.ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := logging.ParseLevel("loud")
	assert.Error(t, err)
}

func TestAttrs(t *testing.T) {
	assert.True(t, slog.String("state", "q0").Equal(logging.State("q0")))
	assert.True(t, slog.String("event", "cleared").Equal(logging.Event(domain.EventCleared)))
	assert.True(t, slog.String("error", "").Equal(logging.Err(nil)))
}
