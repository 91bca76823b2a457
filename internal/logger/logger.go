package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps the zap logger used by the trading loop and its components.
type Logger struct {
	*zap.Logger
}

// NewLogger creates a new logger instance with production configuration at info level.
func NewLogger() (*Logger, error) {
	return NewLoggerWithLevel("info")
}

// NewLoggerWithLevel creates a production logger writing JSON to stdout at the given level.
// Valid levels are the zapcore level names (debug, info, warn, error).
func NewLoggerWithLevel(level string) (*Logger, error) {
	config := zap.NewProductionConfig()

	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	config.Level = zap.NewAtomicLevelAt(lvl)

	zapLogger, err := config.Build()
	if err != nil {
		return nil, err
	}

	return &Logger{
		Logger: zapLogger,
	}, nil
}

// NewNopLogger returns a logger that discards everything.
func NewNopLogger() *Logger {
	return &Logger{Logger: zap.NewNop()}
}

// Sync flushes any buffered log entries
func (l *Logger) Sync() error {
	if l.Logger != nil {
		return l.Logger.Sync()
	}

	return nil
}
