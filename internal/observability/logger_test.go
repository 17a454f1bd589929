package observability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/trishajanath/altx-canvas/internal/config"
)

// memSink is a minimal WriteSyncer capturing console output for assertions.
type memSink struct {
	data []byte
}

func (m *memSink) Write(p []byte) (int, error) {
	m.data = append(m.data, p...)
	return len(p), nil
}

func (m *memSink) Sync() error { return nil }

func TestInitializeAndGetLogger(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	sink := &memSink{}
	Initialize(config.LoggerConfig{
		Level:       "debug",
		Format:      "json",
		ServiceName: "canvas-test",
	}, zapcore.Lock(zapcore.AddSync(sink)))

	logger := GetLogger()
	require.NotNil(t, logger)

	logger.Info("pipeline ready")
	assert.Contains(t, string(sink.data), "pipeline ready")
	assert.Contains(t, string(sink.data), "canvas-test")
}

func TestInitializeRunsOnce(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	first := &memSink{}
	second := &memSink{}
	Initialize(config.LoggerConfig{Level: "info", Format: "json", ServiceName: "first"}, zapcore.AddSync(first))
	Initialize(config.LoggerConfig{Level: "info", Format: "json", ServiceName: "second"}, zapcore.AddSync(second))

	GetLogger().Info("only once")
	assert.Contains(t, string(first.data), "only once")
	assert.Empty(t, second.data, "second Initialize call must be a no-op")
}

func TestGetLoggerFallback(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	// Requesting the logger before initialization must not panic and must
	// return a usable instance.
	logger := GetLogger()
	require.NotNil(t, logger)
}

func TestInvalidLevelFallsBackToInfo(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	sink := &memSink{}
	Initialize(config.LoggerConfig{Level: "not-a-level", Format: "json", ServiceName: "lvl"}, zapcore.AddSync(sink))

	GetLogger().Debug("hidden")
	GetLogger().Info("visible")
	assert.NotContains(t, string(sink.data), "hidden")
	assert.Contains(t, string(sink.data), "visible")
}
