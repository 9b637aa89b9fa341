package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/breezi/internal/config"
)

func TestNewLogger_JSON(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultObservabilityConfig()
	cfg.Logging.Level = "warn"

	var buf bytes.Buffer
	log := newLogger(&buf, cfg, nil)

	log.Info().Msg("dropped")
	assert.Zero(t, buf.Len())

	log.Warn().Str("procedure", "register").Msg("kept")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "kept", entry["message"])
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, config.ServiceName, entry["service"])
	assert.Equal(t, "development", entry["environment"])
	assert.Equal(t, "register", entry["procedure"])
}

func TestNewLoggerService_WithoutLicense(t *testing.T) {
	t.Parallel()

	ls := NewLoggerService(config.DefaultObservabilityConfig())
	assert.Nil(t, ls.GetApplication())
	ls.Shutdown()

	var missing *LoggerService
	assert.Nil(t, missing.GetApplication())
	missing.Shutdown()
}

func TestFromContext(t *testing.T) {
	t.Parallel()

	var fallbackBuf, ctxBuf bytes.Buffer
	fallback := zerolog.New(&fallbackBuf)
	requestLogger := zerolog.New(&ctxBuf)

	log := FromContext(context.Background(), fallback)
	log.Info().Msg("fallback")
	assert.Contains(t, fallbackBuf.String(), "fallback")

	ctx := requestLogger.WithContext(context.Background())
	log = FromContext(ctx, fallback)
	log.Info().Msg("request")
	assert.Contains(t, ctxBuf.String(), "request")
	assert.NotContains(t, fallbackBuf.String(), "request")
}

func TestWithTraceContext_NilTransaction(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := WithTraceContext(zerolog.New(&buf), nil)
	log.Info().Msg("plain")
	assert.NotContains(t, buf.String(), "trace.id")
}

func TestGetPgxTraceLogLevel(t *testing.T) {
	t.Parallel()

	tests := map[zerolog.Level]tracelog.LogLevel{
		zerolog.DebugLevel: tracelog.LogLevelDebug,
		zerolog.InfoLevel:  tracelog.LogLevelInfo,
		zerolog.WarnLevel:  tracelog.LogLevelWarn,
		zerolog.ErrorLevel: tracelog.LogLevelError,
	}
	for level, want := range tests {
		assert.Equal(t, want, GetPgxTraceLogLevel(level), level.String())
	}
}
