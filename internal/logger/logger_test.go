package logger_test

import (
	"testing"

	"github.com/straye-as/offer-workflow/internal/config"
	"github.com/straye-as/offer-workflow/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger_Level(t *testing.T) {
	log, err := logger.NewLogger(&config.LoggingConfig{Level: "warn", Format: "json"}, &config.AppConfig{Name: "offer-workflow", Environment: "development"})
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, log.Core().Enabled(zapcore.WarnLevel))
}

func TestNewLogger_BadLevelFallsBackToInfo(t *testing.T) {
	log, err := logger.NewLogger(&config.LoggingConfig{Level: "loud"}, &config.AppConfig{Environment: "production"})
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, log.Core().Enabled(zapcore.DebugLevel))
}

func TestWithSessionAndUser(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := logger.WithUser(logger.WithSession(zap.New(core), "sess-1", "listing-9"), "agent-7", "Jane Agent")

	log.Info("Wizard session created")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "sess-1", fields["session_id"])
	assert.Equal(t, "listing-9", fields["listing_id"])
	assert.Equal(t, "agent-7", fields["user_id"])
	assert.Equal(t, "Jane Agent", fields["user_name"])
}
