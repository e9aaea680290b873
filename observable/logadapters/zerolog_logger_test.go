package logadapters_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/dynamic-streams-observable-go/observable"
	"github.com/AntonStoeckl/dynamic-streams-observable-go/observable/logadapters"
)

func Test_ZerologLogger_WritesKeyValueFields(t *testing.T) {
	// arrange
	var buf bytes.Buffer
	logger := logadapters.NewZerologLogger(zerolog.New(&buf))

	// act
	logger.Info("subscription terminated", "status", "completed", "notification_count", 3)

	// assert
	assert.JSONEq(t, `{"level":"info","status":"completed","notification_count":3,"message":"subscription terminated"}`, buf.String())
}

func Test_ZerologLogger_AllLevels(t *testing.T) {
	// arrange
	var buf bytes.Buffer
	logger := logadapters.NewZerologLogger(zerolog.New(&buf).Level(zerolog.DebugLevel))
	ctx := context.Background()

	// act
	logger.Debug("debug message")
	logger.Warn("warn message")
	logger.Error("error message")
	logger.DebugContext(ctx, "debug context message")
	logger.InfoContext(ctx, "info context message")
	logger.WarnContext(ctx, "warn context message")
	logger.ErrorContext(ctx, "error context message")

	// assert
	output := buf.String()
	for _, msg := range []string{
		`"level":"debug","message":"debug message"`,
		`"level":"warn","message":"warn message"`,
		`"level":"error","message":"error message"`,
		`"level":"debug","message":"debug context message"`,
		`"level":"info","message":"info context message"`,
		`"level":"warn","message":"warn context message"`,
		`"level":"error","message":"error context message"`,
	} {
		assert.Contains(t, output, msg)
	}
}

func Test_NewConsoleLogger_FiltersByLevel(t *testing.T) {
	// arrange
	var buf bytes.Buffer
	logger, err := logadapters.NewConsoleLogger(&buf, "warn")
	require.NoError(t, err)

	// act
	logger.Info("hidden")
	logger.Warn("shown", "observable", "numbers")

	// assert
	output := buf.String()
	assert.NotContains(t, output, "hidden")
	assert.Contains(t, output, "shown")
	assert.Contains(t, output, "numbers")
}

func Test_NewConsoleLogger_DefaultsToInfo(t *testing.T) {
	logger, err := logadapters.NewConsoleLogger(&bytes.Buffer{}, "")

	require.NoError(t, err)
	assert.Equal(t, zerolog.InfoLevel, logger.Zerolog().GetLevel())
}

func Test_NewConsoleLogger_WithUnknownLevel_Fails(t *testing.T) {
	_, err := logadapters.NewConsoleLogger(&bytes.Buffer{}, "verbose")

	assert.ErrorIs(t, err, logadapters.ErrUnknownLogLevel)
}

func Test_ZerologLogger_WiredIntoObservable(t *testing.T) {
	// arrange
	var buf bytes.Buffer
	logger := logadapters.NewZerologLogger(zerolog.New(&buf).Level(zerolog.DebugLevel))
	obs, err := observable.From[string, error]([]string{"a"}, observable.WithName("letters"), observable.WithLogger(logger))
	require.NoError(t, err)

	// act
	obs.Subscribe(observable.Handlers[string, error]{})

	// assert
	output := buf.String()
	assert.Contains(t, output, `"message":"observable operation: subscribed"`)
	assert.Contains(t, output, `"status":"completed"`)
	assert.Contains(t, output, `"observable":"letters"`)
	assert.Contains(t, output, `"source":"from"`)
}
