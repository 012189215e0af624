// Package logger provides a global, Sugared Zap logger with optional
// OpenTelemetry integration. Diagnostics are written as JSON to stderr so
// they never interleave with a transaction log occupying stdout. An OTEL
// bridge core is added automatically when a telemetry log provider is
// available.
package logger

import (
	"context"
	"os"
	"sync"

	"github.com/gabapcia/chaintail/internal/pkg/telemetry"

	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// logger is the global SugaredLogger instance. It is initialized once by Init.
	logger *zap.SugaredLogger

	// initOnce ensures the logger is only configured a single time.
	initOnce sync.Once
)

// config holds configuration options for the logger.
type config struct {
	level      string // the minimum log level (debug, info, warn, error, panic, fatal)
	timestamps bool   // whether log entries carry a timestamp field
}

// Option configures the logger before initialization.
type Option func(*config)

// WithLevel sets the minimum log level for the global logger.
// Example levels: "debug", "info", "warn", "error", "panic", "fatal".
func WithLevel(l string) Option {
	return func(c *config) {
		c.level = l
	}
}

// WithTimestamps adds a timestamp field to every log entry. Entries carry no
// timestamp by default, which keeps diagnostic output stable for line-based
// consumers and tests.
func WithTimestamps() Option {
	return func(c *config) {
		c.timestamps = true
	}
}

// Init configures the global logger. By default it logs JSON to stderr at the
// "info" level without timestamps. If an OpenTelemetry LoggerProvider is
// registered via telemetry.LoggerProvider(), an OTEL bridge core forwards
// entries to the telemetry backend as well. Calling Init multiple times has
// no effect after the first successful initialization.
//
// Returns an error if parsing the log level fails.
func Init(opts ...Option) error {
	cfg := config{level: "info"}
	for _, opt := range opts {
		opt(&cfg)
	}

	level, err := zapcore.ParseLevel(cfg.level)
	if err != nil {
		return err
	}

	initOnce.Do(func() {
		encoderConfig := zap.NewProductionEncoderConfig()
		if !cfg.timestamps {
			encoderConfig.TimeKey = zapcore.OmitKey
		}

		cores := []zapcore.Core{
			zapcore.NewCore(
				zapcore.NewJSONEncoder(encoderConfig),
				zapcore.AddSync(os.Stderr),
				level,
			),
		}

		if lp := telemetry.LoggerProvider(); lp != nil {
			cores = append(cores, otelzap.NewCore("", otelzap.WithLoggerProvider(lp)))
		}

		logger = zap.New(zapcore.NewTee(cores...)).Sugar()
	})

	return nil
}

// Sync flushes any buffered log entries. It should be called on application
// shutdown to ensure all logs are written out.
func Sync() error {
	return logger.Sync()
}

// Debug logs a debug-level message with optional key/value context.
func Debug(ctx context.Context, msg string, keysAndValues ...any) {
	logger.Debugw(msg, keysAndValues...)
}

// Info logs an info-level message with optional key/value context.
func Info(ctx context.Context, msg string, keysAndValues ...any) {
	logger.Infow(msg, keysAndValues...)
}

// Warn logs a warn-level message with optional key/value context.
func Warn(ctx context.Context, msg string, keysAndValues ...any) {
	logger.Warnw(msg, keysAndValues...)
}

// Error logs an error-level message with optional key/value context.
func Error(ctx context.Context, msg string, keysAndValues ...any) {
	logger.Errorw(msg, keysAndValues...)
}

// Fatal logs a fatal-level message (and then exits) with optional key/value context.
func Fatal(ctx context.Context, msg string, keysAndValues ...any) {
	logger.Fatalw(msg, keysAndValues...)
}
