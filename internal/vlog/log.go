// Package vlog provides VaultSeek's process-wide logger: a single
// sync.Once-gated *zap.Logger, configured from environment variables at
// Init time. Trimmed from zoekt's log/log.go, dropping its OpenTelemetry
// Resource/otfields plumbing and uuid-based instance IDs, which have no
// counterpart in a single-binary, non-distributed tool.
package vlog

import (
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	globalLogger     *zap.Logger
	globalLoggerInit sync.Once
)

const (
	envLogLevel = "VAULTSEEK_LOG_LEVEL"
	envLogDev   = "VAULTSEEK_LOG_DEV"
)

// Init configures the global logger. It must be called once, from
// main(), before any call to Get. Subsequent calls panic. Returns a
// callback that should run before process exit to flush buffered log
// entries.
func Init() (sync func() error) {
	if IsInitialized() {
		panic("vlog.Init initialized multiple times")
	}
	globalLoggerInit.Do(func() {
		globalLogger = newLogger(parseLevel(os.Getenv(envLogLevel)), os.Getenv(envLogDev) == "true")
	})
	return globalLogger.Sync
}

// IsInitialized reports whether Init has already run.
func IsInitialized() bool {
	return globalLogger != nil
}

// Get returns the global logger, or a no-op logger if Init has not run
// yet, so library code can log defensively during early startup/tests.
func Get() *zap.Logger {
	if globalLogger == nil {
		return zap.NewNop()
	}
	return globalLogger
}

func parseLevel(raw string) zapcore.Level {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(raw))); err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

func newLogger(level zapcore.Level, development bool) *zap.Logger {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	encoder := zapcore.NewJSONEncoder(encoderCfg)
	if development {
		encoder = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), zap.NewAtomicLevelAt(level))

	opts := []zap.Option{zap.AddCaller()}
	if development {
		opts = append(opts, zap.Development())
	}
	return zap.New(core, opts...)
}
