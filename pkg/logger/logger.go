package logger

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the key/value logger handed to use cases and adapters.
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	With(keysAndValues ...interface{}) Logger
}

type zapLogger struct {
	sugar *zap.SugaredLogger
}

var (
	defaultLogger Logger = &zapLogger{sugar: zap.NewNop().Sugar()}
	mu            sync.RWMutex
)

// New builds a zap-backed Logger. format "json" selects the production
// encoder, anything else the development console encoder.
func New(level, format string) (Logger, error) {
	var config zap.Config
	if format == "json" {
		config = zap.NewProductionConfig()
		config.EncoderConfig.TimeKey = "timestamp"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		config = zap.NewDevelopmentConfig()
	}

	switch level {
	case "debug":
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	case "warn":
		config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	case "error":
		config.Level = zap.NewAtomicLevelAt(zapcore.ErrorLevel)
	default:
		config.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}

	l, err := config.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, err
	}
	return &zapLogger{sugar: l.Sugar()}, nil
}

// FromZap wraps an existing zap logger, e.g. zaptest.NewLogger in tests.
func FromZap(l *zap.Logger) Logger {
	return &zapLogger{sugar: l.Sugar()}
}

func Nop() Logger {
	return &zapLogger{sugar: zap.NewNop().Sugar()}
}

func (l *zapLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.sugar.Debugw(msg, keysAndValues...)
}

func (l *zapLogger) Info(msg string, keysAndValues ...interface{}) {
	l.sugar.Infow(msg, keysAndValues...)
}

func (l *zapLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.sugar.Warnw(msg, keysAndValues...)
}

func (l *zapLogger) Error(msg string, keysAndValues ...interface{}) {
	l.sugar.Errorw(msg, keysAndValues...)
}

func (l *zapLogger) With(keysAndValues ...interface{}) Logger {
	return &zapLogger{sugar: l.sugar.With(keysAndValues...)}
}

// SetDefault replaces the logger used by the package-level helpers.
func SetDefault(l Logger) {
	mu.Lock()
	defer mu.Unlock()
	defaultLogger = l
}

func Default() Logger {
	mu.RLock()
	defer mu.RUnlock()
	return defaultLogger
}

func Sync() error {
	if zl, ok := Default().(*zapLogger); ok {
		return zl.sugar.Sync()
	}
	return nil
}

func Info(msg string, keysAndValues ...interface{}) {
	Default().Info(msg, keysAndValues...)
}

func Error(msg string, keysAndValues ...interface{}) {
	Default().Error(msg, keysAndValues...)
}

func Debug(msg string, keysAndValues ...interface{}) {
	Default().Debug(msg, keysAndValues...)
}

func Warn(msg string, keysAndValues ...interface{}) {
	Default().Warn(msg, keysAndValues...)
}
