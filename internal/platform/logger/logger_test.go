package logger_test

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MarcKarbowiak/meeting-action-extractor/internal/config"
	"github.com/MarcKarbowiak/meeting-action-extractor/internal/platform/logger"
)

func TestSetup(t *testing.T) {
	testCases := []struct {
		name     string
		logLevel string
	}{
		{name: "debug level", logLevel: "debug"},
		{name: "info level", logLevel: "info"},
		{name: "warn level", logLevel: "warn"},
		{name: "error level", logLevel: "error"},
		{name: "uppercase level", logLevel: "INFO"},
		{name: "invalid level falls back to info", logLevel: "verbose"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			log, err := logger.Setup(config.ServerConfig{LogLevel: tc.logLevel})
			require.NoError(t, err, "Setup should not fail for level %q", tc.logLevel)
			require.NotNil(t, log, "Setup should return a logger")
			assert.Same(t, log, slog.Default(), "Setup should install the logger as default")
		})
	}
}

func TestWithLogger(t *testing.T) {
	custom := slog.New(slog.NewTextHandler(os.Stderr, nil))

	ctx := logger.WithLogger(context.Background(), custom)
	assert.Same(t, custom, logger.FromContext(ctx), "FromContext should return the attached logger")

	// A nil logger must not be attached.
	ctx = logger.WithLogger(context.Background(), nil)
	assert.Same(t, slog.Default(), logger.FromContext(ctx), "nil attachment should fall through to the default")
}

func TestFromContextOrDefault(t *testing.T) {
	custom := slog.New(slog.NewTextHandler(os.Stderr, nil))
	fallback := slog.New(slog.NewTextHandler(os.Stderr, nil))

	t.Run("context logger wins", func(t *testing.T) {
		ctx := logger.WithLogger(context.Background(), custom)
		assert.Same(t, custom, logger.FromContextOrDefault(ctx, fallback))
	})

	t.Run("fallback when none attached", func(t *testing.T) {
		assert.Same(t, fallback, logger.FromContextOrDefault(context.Background(), fallback))
	})

	t.Run("process default when fallback nil", func(t *testing.T) {
		assert.Same(t, slog.Default(), logger.FromContextOrDefault(context.Background(), nil))
	})
}
