package observability

import (
	"context"
	"testing"

	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewMetricsRegisters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)

	m.DataQuality.WithLabelValues(EventDuplicateMerged).Inc()
	m.DataQuality.WithLabelValues(EventDuplicateMerged).Inc()
	assert.Equal(t, 2.0, testutil.ToFloat64(m.DataQuality.WithLabelValues(EventDuplicateMerged)))

	_, err = NewMetrics(reg)
	assert.Error(t, err, "registering twice must fail")
}

func TestNewLoggerLevel(t *testing.T) {
	logger, level, err := NewLogger(config.Config{Log: config.LogConfig{Level: "debug", Format: "console"}})
	require.NoError(t, err)
	require.NotNil(t, logger)
	assert.Equal(t, zapcore.DebugLevel, level.Level())

	assert.Equal(t, zapcore.InfoLevel, parseLevel("bogus"))
}

func TestTracerProviderDisabledIsNoop(t *testing.T) {
	tp, shutdown, err := NewTracerProvider(context.Background(), config.OTelConfig{})
	require.NoError(t, err)
	require.NotNil(t, tp)
	assert.NoError(t, shutdown(context.Background()))

	_, _, err = NewTracerProvider(context.Background(), config.OTelConfig{Enabled: true, Protocol: "carrier-pigeon"})
	assert.Error(t, err)
}
